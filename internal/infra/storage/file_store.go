// Package storage holds the RecordStore backends that keep each entity
// collection in a single serialized document.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/xavierca1/agency-backoffice/internal/entity"
)

// FileStore keeps a collection as a pretty-printed JSON array on disk.
type FileStore[T any] struct {
	path string
}

var _ entity.RecordStore[entity.Lead] = (*FileStore[entity.Lead])(nil)

// NewFileStore stores the collection at dir/name. The directory and the file
// are created on first Load.
func NewFileStore[T any](dir, name string) *FileStore[T] {
	return &FileStore[T]{path: filepath.Join(dir, name)}
}

func (s *FileStore[T]) Path() string {
	return s.path
}

func (s *FileStore[T]) Load(ctx context.Context) ([]T, error) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return nil, fmt.Errorf("%w: create data dir: %v", entity.ErrStorageUnavailable, err)
	}

	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		if err := s.write([]T{}); err != nil {
			return nil, err
		}
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", entity.ErrStorageUnavailable, s.path, err)
	}

	records := []T{}
	if len(bytes.TrimSpace(raw)) == 0 {
		return records, nil
	}
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", entity.ErrStorageUnavailable, s.path, err)
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}

func (s *FileStore[T]) Save(ctx context.Context, records []T) error {
	if records == nil {
		records = []T{}
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("%w: create data dir: %v", entity.ErrStorageUnavailable, err)
	}
	return s.write(records)
}

// Ping checks that the data directory exists and is writable.
func (s *FileStore[T]) Ping(ctx context.Context) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: %v", entity.ErrStorageUnavailable, err)
	}
	f, err := os.CreateTemp(dir, ".ping-*")
	if err != nil {
		return fmt.Errorf("%w: %v", entity.ErrStorageUnavailable, err)
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}

// write replaces the document through a temp file and rename so readers never
// observe a half-written array.
func (s *FileStore[T]) write(records []T) error {
	body, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode: %v", entity.ErrStorageUnavailable, err)
	}
	body = append(body, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %v", entity.ErrStorageUnavailable, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: write %s: %v", entity.ErrStorageUnavailable, tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: close %s: %v", entity.ErrStorageUnavailable, tmpName, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: replace %s: %v", entity.ErrStorageUnavailable, s.path, err)
	}
	return nil
}
