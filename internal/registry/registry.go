// Package registry owns the durable collection of custom icon records. It
// offers append/remove/clear over records keyed by id, plus lookup by name,
// with in-memory, JSON file, and SQLite backends.
package registry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Record is a persisted custom icon. Records are immutable once created.
type Record struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Markup     string    `json:"markup"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// Store is the persistence collaborator behind the ingestion service.
// Implementations serialise mutations relative to each other and to lookups.
// Writes are last-writer-wins.
type Store interface {
	// Append adds a record. Callers enforce name uniqueness.
	Append(ctx context.Context, rec Record) error

	// Remove deletes the record with the given id. Unknown ids are ignored.
	Remove(ctx context.Context, id string) error

	// Clear deletes every record.
	Clear(ctx context.Context) error

	// Get returns the record with the given id.
	Get(ctx context.Context, id string) (Record, bool, error)

	// FindByName returns the record with the given name.
	FindByName(ctx context.Context, name string) (Record, bool, error)

	// List returns all records in insertion order.
	List(ctx context.Context) ([]Record, error)

	// Close releases backend resources.
	Close() error
}

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// ErrUnknownBackend is returned by Open for unrecognised backend names.
var ErrUnknownBackend = errors.New("unknown registry backend")

// Backends lists the supported backend names.
func Backends() []string {
	return []string{BackendMemory, BackendFile, BackendSQLite}
}

// Open constructs a store for the named backend. path is ignored by the
// memory backend.
func Open(backend, path string) (Store, error) {
	switch backend {
	case BackendMemory:
		return NewMemoryStore(), nil
	case BackendFile, "":
		return OpenFileStore(path)
	case BackendSQLite:
		return OpenSQLiteStore(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

func checkContext(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}
