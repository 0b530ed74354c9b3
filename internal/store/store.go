// Package store abstracts the document collection service that holds all
// resource records.
package store

import (
	"context"

	"github.com/starford/othala/internal/record"
)

// Client is the per-category collection API the pipeline talks to. The
// application never persists anything itself; records are only transformed
// in transit.
type Client interface {
	// Create stores a new record and returns it with its assigned identifier.
	Create(ctx context.Context, category string, rec *record.Record) (*record.Record, error)
	// Get fetches one record by identifier.
	Get(ctx context.Context, category, id string) (*record.Record, error)
	// Update replaces the record with the given identifier.
	Update(ctx context.Context, category, id string, rec *record.Record) error
	// Delete removes the record with the given identifier.
	Delete(ctx context.Context, category, id string) error
	// List fetches the full collection for a category.
	List(ctx context.Context, category string) ([]*record.Record, error)
}
