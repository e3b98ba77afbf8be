package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/xavierca1/agency-backoffice/internal/entity"
)

const documentsTable = "documents"

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	name       TEXT PRIMARY KEY,
	body       JSONB NOT NULL DEFAULT '[]'::jsonb,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// EnsureSchema creates the documents table if it is missing.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("%w: create documents table: %v", entity.ErrStorageUnavailable, err)
	}
	return nil
}

// DocumentStore keeps a whole collection in one JSONB row keyed by name, so
// the Postgres backend has the same read-whole/write-whole shape as the file
// backend.
type DocumentStore[T any] struct {
	db   *sql.DB
	name string
	psql sq.StatementBuilderType
}

var _ entity.RecordStore[entity.Lead] = (*DocumentStore[entity.Lead])(nil)

func NewDocumentStore[T any](db *sql.DB, name string) *DocumentStore[T] {
	return &DocumentStore[T]{
		db:   db,
		name: name,
		psql: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (s *DocumentStore[T]) Load(ctx context.Context) ([]T, error) {
	query, args, err := s.psql.
		Select("body").
		From(documentsTable).
		Where(sq.Eq{"name": s.name}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var body []byte
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		if err := s.Save(ctx, []T{}); err != nil {
			return nil, err
		}
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: select %s: %v", entity.ErrStorageUnavailable, s.name, err)
	}

	records := []T{}
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", entity.ErrStorageUnavailable, s.name, err)
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}

func (s *DocumentStore[T]) Save(ctx context.Context, records []T) error {
	if records == nil {
		records = []T{}
	}
	body, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", entity.ErrStorageUnavailable, s.name, err)
	}

	query, args, err := s.psql.
		Insert(documentsTable).
		Columns("name", "body", "updated_at").
		Values(s.name, string(body), time.Now().UTC()).
		Suffix("ON CONFLICT (name) DO UPDATE SET body = EXCLUDED.body, updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: upsert %s: %v", entity.ErrStorageUnavailable, s.name, err)
	}
	return nil
}

func (s *DocumentStore[T]) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", entity.ErrStorageUnavailable, err)
	}
	return nil
}
