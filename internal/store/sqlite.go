package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/starford/othala/internal/apperr"
	"github.com/starford/othala/internal/record"
)

const documentsSchemaSQL = `
CREATE TABLE IF NOT EXISTS documents (
	category   TEXT NOT NULL,
	id         TEXT NOT NULL,
	doc        TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (category, id)
);
`

// SQLite is an embedded document store implementing the same collection API
// as the remote service. It exists so the application can run standalone in
// development without a remote endpoint; it is a stand-in for the store, not
// a separate feature surface.
type SQLite struct {
	conn *sql.DB
}

// Verify both clients satisfy the store interface at compile time.
var (
	_ Client = (*SQLite)(nil)
	_ Client = (*Remote)(nil)
)

// OpenSQLite opens (or creates) the embedded store database.
func OpenSQLite(dsn string) (*SQLite, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	if _, err := conn.Exec(documentsSchemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	return &SQLite{conn: conn}, nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.conn.Close()
}

// Create assigns a fresh identifier, stores the document, and returns the
// record with the identifier set, matching the remote store's echo behavior.
func (s *SQLite) Create(ctx context.Context, category string, rec *record.Record) (*record.Record, error) {
	rec.Set(record.IDField, uuid.NewString())
	doc, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("store: encode document: %w", err)
	}
	_, err = s.conn.ExecContext(ctx,
		`INSERT INTO documents (category, id, doc) VALUES (?, ?, ?)`,
		category, rec.ID(), string(doc))
	if err != nil {
		return nil, fmt.Errorf("store: insert: %w", err)
	}
	return rec, nil
}

// Get fetches one document by identifier.
func (s *SQLite) Get(ctx context.Context, category, id string) (*record.Record, error) {
	var doc string
	err := s.conn.QueryRowContext(ctx,
		`SELECT doc FROM documents WHERE category = ? AND id = ?`,
		category, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s/%s: %w", category, id, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("store: select: %w", err)
	}
	rec := record.New()
	if err := json.Unmarshal([]byte(doc), rec); err != nil {
		return nil, fmt.Errorf("store: decode document: %w", err)
	}
	return rec, nil
}

// Update replaces the stored document, keeping the existing identifier.
func (s *SQLite) Update(ctx context.Context, category, id string, rec *record.Record) error {
	rec.Set(record.IDField, id)
	doc, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("store: encode document: %w", err)
	}
	res, err := s.conn.ExecContext(ctx,
		`UPDATE documents SET doc = ?, updated_at = CURRENT_TIMESTAMP WHERE category = ? AND id = ?`,
		string(doc), category, id)
	if err != nil {
		return fmt.Errorf("store: update: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: update: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s/%s: %w", category, id, apperr.ErrNotFound)
	}
	return nil
}

// Delete removes the document by identifier.
func (s *SQLite) Delete(ctx context.Context, category, id string) error {
	res, err := s.conn.ExecContext(ctx,
		`DELETE FROM documents WHERE category = ? AND id = ?`,
		category, id)
	if err != nil {
		return fmt.Errorf("store: delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: delete: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s/%s: %w", category, id, apperr.ErrNotFound)
	}
	return nil
}

// List returns the full collection for a category in insertion order.
func (s *SQLite) List(ctx context.Context, category string) ([]*record.Record, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT doc FROM documents WHERE category = ? ORDER BY rowid`, category)
	if err != nil {
		return nil, fmt.Errorf("store: select collection: %w", err)
	}
	defer rows.Close()

	var records []*record.Record
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("store: scan: %w", err)
		}
		rec := record.New()
		if err := json.Unmarshal([]byte(doc), rec); err != nil {
			return nil, fmt.Errorf("store: decode document: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
