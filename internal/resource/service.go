// Package resource orchestrates the per-verb pipeline: it composes the
// escaping codec, the attribute sanitizer, the reference populator, and the
// store client. HTTP-facing layers stay thin and delegate here.
package resource

import (
	"context"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"golang.org/x/sync/errgroup"

	"github.com/starford/othala/internal/apperr"
	"github.com/starford/othala/internal/codec"
	"github.com/starford/othala/internal/populate"
	"github.com/starford/othala/internal/record"
	"github.com/starford/othala/internal/sanitize"
	"github.com/starford/othala/internal/schema"
	"github.com/starford/othala/internal/store"
)

// Change event kinds passed to the notifier.
const (
	EventCreated = "created"
	EventUpdated = "updated"
	EventDeleted = "deleted"
)

// Notifier receives a change event after the store confirmed a write.
type Notifier func(event, category, id string)

// Service runs the sanitation and population pipeline for every configured
// category. Schema table and store client are injected once at construction;
// nothing is pulled from ambient request state.
type Service struct {
	table  *schema.Table
	client store.Client
	notify Notifier
}

// NewService creates the pipeline service. notify may be nil.
func NewService(table *schema.Table, client store.Client, notify Notifier) *Service {
	if notify == nil {
		notify = func(string, string, string) {}
	}
	return &Service{table: table, client: client, notify: notify}
}

// Table returns the immutable schema table the service was built with.
func (s *Service) Table() *schema.Table {
	return s.table
}

// ValidateID rejects path identifiers that are not purely alphanumeric,
// before any store call is made.
func ValidateID(id string) error {
	if id == "" {
		return fmt.Errorf("empty: %w", apperr.ErrInvalidIdentifier)
	}
	for _, c := range id {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		default:
			return fmt.Errorf("%q: %w", id, apperr.ErrInvalidIdentifier)
		}
	}
	return nil
}

// FormData is everything a create or edit form needs: the declaration that
// drives the field list, the pre-filled record (nil on create), and the
// display options for every reference attribute.
type FormData struct {
	Resource schema.Resource
	Existing *record.Record
	Options  *orderedmap.OrderedMap[string, []populate.Option]
}

func (s *Service) resource(category string) (schema.Resource, error) {
	res, ok := s.table.Resource(category)
	if !ok {
		return schema.Resource{}, fmt.Errorf("category %q: %w", category, apperr.ErrNotFound)
	}
	return res, nil
}

// NewForm assembles the data for a creation form.
func (s *Service) NewForm(ctx context.Context, category string) (*FormData, error) {
	res, err := s.resource(category)
	if err != nil {
		return nil, err
	}
	options, err := populate.Options(ctx, res.Attributes, s.table, s.client)
	if err != nil {
		return nil, err
	}
	return &FormData{Resource: res, Options: options}, nil
}

// Create escapes and sanitizes the submission, forwards it to the store, and
// returns the created record carrying the store-assigned identifier.
// Validation happens before any I/O, so a rejected write leaves no partial
// state behind.
func (s *Service) Create(ctx context.Context, category string, sub sanitize.Submission) (*record.Record, error) {
	res, err := s.resource(category)
	if err != nil {
		return nil, err
	}
	rec, err := sanitize.Sanitize(sub.Escape(), res)
	if err != nil {
		return nil, err
	}
	created, err := s.client.Create(ctx, category, rec)
	if err != nil {
		return nil, err
	}
	s.notify(EventCreated, category, created.ID())
	return created, nil
}

// Detail fetches one record and force-normalizes it for display. The store
// is not assumed to preserve encoding invariants, hence a full normalize
// rather than a bare decode.
func (s *Service) Detail(ctx context.Context, category, id string) (*record.Record, error) {
	if _, err := s.resource(category); err != nil {
		return nil, err
	}
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	rec, err := s.client.Get(ctx, category, id)
	if err != nil {
		return nil, err
	}
	return codec.Normalize(rec)
}

// EditForm fetches the existing record and the reference options
// concurrently and returns both for rendering a pre-filled form.
func (s *Service) EditForm(ctx context.Context, category, id string) (*FormData, error) {
	res, err := s.resource(category)
	if err != nil {
		return nil, err
	}
	if err := ValidateID(id); err != nil {
		return nil, err
	}

	form := &FormData{Resource: res}
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rec, err := s.client.Get(gCtx, category, id)
		if err != nil {
			return err
		}
		form.Existing, err = codec.Normalize(rec)
		return err
	})
	g.Go(func() error {
		var err error
		form.Options, err = populate.Options(gCtx, res.Attributes, s.table, s.client)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return form, nil
}

// Update escapes and sanitizes the submission and forwards it to the store
// under the given identifier.
func (s *Service) Update(ctx context.Context, category, id string, sub sanitize.Submission) error {
	res, err := s.resource(category)
	if err != nil {
		return err
	}
	if err := ValidateID(id); err != nil {
		return err
	}
	rec, err := sanitize.Sanitize(sub.Escape(), res)
	if err != nil {
		return err
	}
	if err := s.client.Update(ctx, category, id, rec); err != nil {
		return err
	}
	s.notify(EventUpdated, category, id)
	return nil
}

// Delete removes the record and reports success only after the store
// confirmed the deletion.
func (s *Service) Delete(ctx context.Context, category, id string) error {
	if _, err := s.resource(category); err != nil {
		return err
	}
	if err := ValidateID(id); err != nil {
		return err
	}
	if err := s.client.Delete(ctx, category, id); err != nil {
		return err
	}
	s.notify(EventDeleted, category, id)
	return nil
}

// List fetches the full collection and force-normalizes every record.
func (s *Service) List(ctx context.Context, category string) ([]*record.Record, error) {
	if _, err := s.resource(category); err != nil {
		return nil, err
	}
	records, err := s.client.List(ctx, category)
	if err != nil {
		return nil, err
	}
	out := make([]*record.Record, len(records))
	for i, rec := range records {
		normalized, err := codec.Normalize(rec)
		if err != nil {
			return nil, err
		}
		out[i] = normalized
	}
	return out, nil
}
