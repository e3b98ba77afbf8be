package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/xavierca1/agency-backoffice/internal/entity"
)

// MemoryStore keeps the collection in process. Records go through a JSON round
// trip on every Load and Save so callers never share slices or maps with the
// stored copy, which is what the file backend gives them too.
type MemoryStore[T any] struct {
	mu  sync.RWMutex
	doc []byte
}

// NewMemoryStore seeds the store with records.
func NewMemoryStore[T any](records ...T) *MemoryStore[T] {
	s := &MemoryStore[T]{}
	if records == nil {
		records = []T{}
	}
	doc, err := json.Marshal(records)
	if err != nil {
		panic(fmt.Sprintf("storage: seed memory store: %v", err))
	}
	s.doc = doc
	return s
}

func (s *MemoryStore[T]) Load(ctx context.Context) ([]T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := []T{}
	if err := json.Unmarshal(s.doc, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrStorageUnavailable, err)
	}
	return records, nil
}

func (s *MemoryStore[T]) Save(ctx context.Context, records []T) error {
	if records == nil {
		records = []T{}
	}
	doc, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("%w: %v", entity.ErrStorageUnavailable, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = doc
	return nil
}

func (s *MemoryStore[T]) Ping(ctx context.Context) error {
	return nil
}
