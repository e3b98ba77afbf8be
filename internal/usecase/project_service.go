package usecase

import (
	"context"
	"log/slog"
	"math/big"
	"sync"

	"github.com/xavierca1/agency-backoffice/internal/entity"
)

// ProjectService manages portfolio case studies.
type ProjectService struct {
	store  entity.RecordStore[entity.Project]
	logger *slog.Logger

	// mu serializes load-mutate-save so concurrent writers in this process
	// cannot lose each other's changes.
	mu sync.Mutex
}

func NewProjectService(store entity.RecordStore[entity.Project], logger *slog.Logger) *ProjectService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProjectService{store: store, logger: logger}
}

func (s *ProjectService) List(ctx context.Context) ([]entity.Project, error) {
	projects, err := s.store.Load(ctx)
	if err != nil {
		return nil, storageError("load projects", err)
	}
	return projects, nil
}

// GetBySlug returns the most recently created project with the slug.
func (s *ProjectService) GetBySlug(ctx context.Context, slug string) (entity.Project, error) {
	projects, err := s.List(ctx)
	if err != nil {
		return entity.Project{}, err
	}
	for i := len(projects) - 1; i >= 0; i-- {
		if projects[i].Slug == slug {
			return projects[i], nil
		}
	}
	return entity.Project{}, notFound("project", slug)
}

func (s *ProjectService) Create(ctx context.Context, input entity.ProjectInput) (entity.Project, error) {
	if errs := ValidateProjectInput(input); len(errs) > 0 {
		return entity.Project{}, invalidInput(errs)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	projects, err := s.store.Load(ctx)
	if err != nil {
		return entity.Project{}, storageError("load projects", err)
	}

	// Slugs are not required to be unique; GetBySlug resolves duplicates.
	for _, p := range projects {
		if p.Slug == input.Slug {
			s.logger.Warn("duplicate project slug", "slug", input.Slug, "existing_id", p.ID)
			break
		}
	}

	project := entity.Project{ID: nextProjectID(projects), ProjectInput: withEmptyLists(input)}
	projects = append(projects, project)

	if err := s.store.Save(ctx, projects); err != nil {
		return entity.Project{}, storageError("save projects", err)
	}

	s.logger.Info("project created", "id", project.ID, "slug", project.Slug)
	return project, nil
}

// Update replaces the stored record with the same ID; nothing is merged.
func (s *ProjectService) Update(ctx context.Context, project entity.Project) (entity.Project, error) {
	if project.ID == "" {
		return entity.Project{}, invalidInput([]ValidationError{{"id", "is required"}})
	}
	if errs := ValidateProjectInput(project.ProjectInput); len(errs) > 0 {
		return entity.Project{}, invalidInput(errs)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	projects, err := s.store.Load(ctx)
	if err != nil {
		return entity.Project{}, storageError("load projects", err)
	}

	idx := -1
	for i, p := range projects {
		if p.ID == project.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return entity.Project{}, notFound("project", project.ID)
	}

	project.ProjectInput = withEmptyLists(project.ProjectInput)
	projects[idx] = project
	if err := s.store.Save(ctx, projects); err != nil {
		return entity.Project{}, storageError("save projects", err)
	}

	s.logger.Info("project updated", "id", project.ID)
	return project, nil
}

func (s *ProjectService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	projects, err := s.store.Load(ctx)
	if err != nil {
		return storageError("load projects", err)
	}

	kept := make([]entity.Project, 0, len(projects))
	for _, p := range projects {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(projects) {
		return notFound("project", id)
	}

	if err := s.store.Save(ctx, kept); err != nil {
		return storageError("save projects", err)
	}

	s.logger.Info("project deleted", "id", id)
	return nil
}

// nextProjectID is one more than the largest numeric ID present. IDs of
// deleted projects are never handed out again while a larger one survives.
func nextProjectID(projects []entity.Project) string {
	max := new(big.Int)
	n := new(big.Int)
	for _, p := range projects {
		if _, ok := n.SetString(p.ID, 10); ok && n.Cmp(max) > 0 {
			max.Set(n)
		}
	}
	return max.Add(max, big.NewInt(1)).String()
}

// withEmptyLists stores missing list fields as [] rather than null.
func withEmptyLists(in entity.ProjectInput) entity.ProjectInput {
	if in.Services == nil {
		in.Services = []string{}
	}
	if in.Images == nil {
		in.Images = []string{}
	}
	if in.Tags == nil {
		in.Tags = []string{}
	}
	return in
}
