package entity

import "context"

// RecordStore persists one entity type's whole collection as a single document.
// Save replaces the document; a failed Save commits nothing.
type RecordStore[T any] interface {
	Load(ctx context.Context) ([]T, error)
	Save(ctx context.Context, records []T) error
}
