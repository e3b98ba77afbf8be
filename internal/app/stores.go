package app

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/xavierca1/agency-backoffice/internal/config"
	"github.com/xavierca1/agency-backoffice/internal/entity"
	"github.com/xavierca1/agency-backoffice/internal/infra/database"
	"github.com/xavierca1/agency-backoffice/internal/infra/storage"
)

type store[T any] interface {
	entity.RecordStore[T]
	Ping(ctx context.Context) error
}

type stores struct {
	projects    store[entity.Project]
	leads       store[entity.Lead]
	subscribers store[entity.NewsletterSubscriber]
	db          *sql.DB
}

const (
	projectsDocument   = "projects"
	leadsDocument      = "leads"
	newsletterDocument = "newsletter"
)

func openStores(ctx context.Context, cfg config.StorageConfig) (*stores, error) {
	switch cfg.Driver {
	case config.StoreMemory:
		return &stores{
			projects:    storage.NewMemoryStore[entity.Project](),
			leads:       storage.NewMemoryStore[entity.Lead](),
			subscribers: storage.NewMemoryStore[entity.NewsletterSubscriber](),
		}, nil

	case config.StorePostgres:
		db, err := database.NewDBConnection(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := database.EnsureSchema(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		return &stores{
			projects:    database.NewDocumentStore[entity.Project](db, projectsDocument),
			leads:       database.NewDocumentStore[entity.Lead](db, leadsDocument),
			subscribers: database.NewDocumentStore[entity.NewsletterSubscriber](db, newsletterDocument),
			db:          db,
		}, nil

	case config.StoreFile, "":
		return &stores{
			projects:    storage.NewFileStore[entity.Project](cfg.DataDir, projectsDocument+".json"),
			leads:       storage.NewFileStore[entity.Lead](cfg.DataDir, leadsDocument+".json"),
			subscribers: storage.NewFileStore[entity.NewsletterSubscriber](cfg.DataDir, newsletterDocument+".json"),
		}, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

func (s *stores) close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
