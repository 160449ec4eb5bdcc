package registry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

// SQLiteStore keeps records in a single SQLite table.
type SQLiteStore struct {
	db   *sql.DB
	mu   sync.Mutex
	path string
}

// OpenSQLiteStore opens (or creates) the database at path.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	if path == "" {
		path = "icons.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single connection keeps ":memory:" databases shared and writes ordered.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS icons (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		markup TEXT NOT NULL,
		uploaded_at TEXT NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create icons table: %w", err)
	}
	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS icons_name ON icons(name)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create name index: %w", err)
	}
	return &SQLiteStore{db: db, path: path}, nil
}

// Append inserts rec, replacing any row with the same id.
func (s *SQLiteStore) Append(ctx context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO icons (id, name, markup, uploaded_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name = excluded.name, markup = excluded.markup, uploaded_at = excluded.uploaded_at`,
		rec.ID, rec.Name, rec.Markup, rec.UploadedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("insert icon %s: %w", rec.ID, err)
	}
	return nil
}

// Remove deletes the row with the given id.
func (s *SQLiteStore) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.ExecContext(ctx, `DELETE FROM icons WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete icon %s: %w", id, err)
	}
	return nil
}

// Clear deletes every row.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.ExecContext(ctx, `DELETE FROM icons`); err != nil {
		return fmt.Errorf("clear icons: %w", err)
	}
	return nil
}

// Get returns the record with the given id.
func (s *SQLiteStore) Get(ctx context.Context, id string) (Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row := s.db.QueryRowContext(ctx, `SELECT id, name, markup, uploaded_at FROM icons WHERE id = ?`, id)
	return scanRecord(row)
}

// FindByName returns the earliest record with the given name.
func (s *SQLiteStore) FindByName(ctx context.Context, name string) (Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row := s.db.QueryRowContext(ctx, `SELECT id, name, markup, uploaded_at FROM icons WHERE name = ? ORDER BY seq LIMIT 1`, name)
	return scanRecord(row)
}

// List returns all records in insertion order.
func (s *SQLiteStore) List(ctx context.Context) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, markup, uploaded_at FROM icons ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("select icons: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Record
	for rows.Next() {
		var (
			rec      Record
			uploaded string
		)
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Markup, &uploaded); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		if rec.UploadedAt, err = time.Parse(time.RFC3339Nano, uploaded); err != nil {
			return nil, fmt.Errorf("parse uploaded_at for %s: %w", rec.ID, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func scanRecord(row *sql.Row) (Record, bool, error) {
	var (
		rec      Record
		uploaded string
	)
	if err := row.Scan(&rec.ID, &rec.Name, &rec.Markup, &uploaded); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, false, nil
		}
		return Record{}, false, fmt.Errorf("scan: %w", err)
	}
	t, err := time.Parse(time.RFC3339Nano, uploaded)
	if err != nil {
		return Record{}, false, fmt.Errorf("parse uploaded_at for %s: %w", rec.ID, err)
	}
	rec.UploadedAt = t
	return rec, true, nil
}
