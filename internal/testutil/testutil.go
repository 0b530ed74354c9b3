// Package testutil provides shared test helpers for building schema tables
// and temporary stores.
package testutil

import (
	"os"
	"testing"

	"github.com/starford/othala/internal/schema"
	"github.com/starford/othala/internal/store"
)

// Table builds the canonical two-category test schema: items referencing
// warehouses.
func Table(t *testing.T) *schema.Table {
	t.Helper()
	table, err := schema.NewTable([]schema.Resource{
		{
			Category: "item",
			Attributes: []schema.Attribute{
				{Name: "label", Kind: schema.String},
				{Name: "qty", Kind: schema.Number},
				{Name: "active", Kind: schema.Boolean},
				{Name: "warehouse", Kind: schema.Reference},
			},
		},
		{
			Category: "warehouse",
			Attributes: []schema.Attribute{
				{Name: "location", Kind: schema.String},
				{Name: "capacity", Kind: schema.Number},
			},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	return table
}

// TestStore creates a temporary embedded store that is automatically
// cleaned up.
func TestStore(t *testing.T) *store.SQLite {
	t.Helper()
	dbFile, err := os.CreateTemp("", "othala-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := store.OpenSQLite(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}
