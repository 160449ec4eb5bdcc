package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const fileFormatVersion = 1

type fileSnapshot struct {
	Version int      `json:"version"`
	Icons   []Record `json:"icons"`
}

// FileStore persists the registry as a single JSON document. The whole
// document is rewritten after every mutation.
type FileStore struct {
	*MemoryStore
	path string
}

// OpenFileStore loads the registry at path, creating parent directories as
// needed. A missing file is an empty registry.
func OpenFileStore(path string) (*FileStore, error) {
	if path == "" {
		path = "icons.json"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}

	s := &FileStore{MemoryStore: NewMemoryStore(), path: path}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read registry %s: %w", s.path, err)
	}
	if len(data) == 0 {
		return nil
	}

	var snap fileSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("decode registry %s: %w", s.path, err)
	}
	if snap.Version > fileFormatVersion {
		return fmt.Errorf("registry %s has unsupported version %d", s.path, snap.Version)
	}
	for _, rec := range snap.Icons {
		s.appendLocked(rec)
	}
	return nil
}

// persistLocked writes the snapshot to a temp file and renames it over the
// registry so readers never see a partial document.
func (s *FileStore) persistLocked() error {
	data, err := json.MarshalIndent(fileSnapshot{
		Version: fileFormatVersion,
		Icons:   s.snapshotLocked(),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode registry: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".iconset-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp registry: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp registry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp registry: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace registry %s: %w", s.path, err)
	}
	return nil
}

// Append adds rec and persists. The in-memory state is rolled back when the
// write fails.
func (s *FileStore) Append(ctx context.Context, rec Record) error {
	if err := checkContext(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, existed := s.byID[rec.ID]
	s.appendLocked(rec)
	if err := s.persistLocked(); err != nil {
		if existed {
			s.byID[rec.ID] = prev
		} else {
			s.removeLocked(rec.ID)
		}
		return err
	}
	return nil
}

// Remove deletes the record with the given id and persists.
func (s *FileStore) Remove(ctx context.Context, id string) error {
	if err := checkContext(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.snapshotLocked()
	if !s.removeLocked(id) {
		return nil
	}
	if err := s.persistLocked(); err != nil {
		s.restoreLocked(before)
		return err
	}
	return nil
}

// Clear deletes every record and persists.
func (s *FileStore) Clear(ctx context.Context) error {
	if err := checkContext(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.snapshotLocked()
	s.byID = make(map[string]Record)
	s.order = nil
	if err := s.persistLocked(); err != nil {
		s.restoreLocked(before)
		return err
	}
	return nil
}

func (s *FileStore) restoreLocked(recs []Record) {
	s.byID = make(map[string]Record, len(recs))
	s.order = nil
	for _, rec := range recs {
		s.appendLocked(rec)
	}
}
