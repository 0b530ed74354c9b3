// Package populate assembles selection-control options for reference
// attributes by fetching the referenced collections.
package populate

import (
	"context"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"golang.org/x/sync/errgroup"

	"github.com/starford/othala/internal/codec"
	"github.com/starford/othala/internal/record"
	"github.com/starford/othala/internal/schema"
)

// Lister is the read-only slice of the store client the populator needs.
type Lister interface {
	List(ctx context.Context, category string) ([]*record.Record, error)
}

// Option is a foreign record projected down to its identifier and one
// human-readable label for rendering in a selection control.
type Option struct {
	ID    string `json:"id"`
	Label string `json:"label,omitempty"`
}

// Options fetches the referenced collection for every reference attribute in
// attrs and returns the display options keyed by attribute name (which is
// also the target category), preserving attribute declaration order.
//
// The fetches are issued concurrently and joined all-or-nothing: if any one
// fails, the whole call fails and no partial map is returned. Population is
// strictly read-only.
func Options(ctx context.Context, attrs []schema.Attribute, table *schema.Table, src Lister) (*orderedmap.OrderedMap[string, []Option], error) {
	var refs []schema.Attribute
	for _, a := range attrs {
		if a.Kind == schema.Reference {
			refs = append(refs, a)
		}
	}

	results := make([][]Option, len(refs))
	g, gCtx := errgroup.WithContext(ctx)
	for i, attr := range refs {
		g.Go(func() error {
			target := attr.Target()
			records, err := src.List(gCtx, target)
			if err != nil {
				return fmt.Errorf("populate %q: %w", target, err)
			}
			results[i] = project(records, labelAttribute(table, target))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	options := orderedmap.New[string, []Option]()
	for i, attr := range refs {
		options.Set(attr.Name, results[i])
	}
	return options, nil
}

// labelAttribute returns the target category's designated label attribute,
// or "" when the category declares no string attribute (options then carry
// only identifiers).
func labelAttribute(table *schema.Table, target string) string {
	res, ok := table.Resource(target)
	if !ok {
		return ""
	}
	name, ok := res.LabelAttribute()
	if !ok {
		return ""
	}
	return name
}

func project(records []*record.Record, labelAttr string) []Option {
	options := make([]Option, 0, len(records))
	for _, rec := range records {
		opt := Option{ID: rec.ID()}
		if labelAttr != "" {
			if v, ok := rec.Get(labelAttr); ok && v != nil {
				// Defensive decode: the stored label may or may not have
				// passed through the codec on its way in.
				opt.Label = codec.NormalizeField(v)
			}
		}
		options = append(options, opt)
	}
	return options
}
