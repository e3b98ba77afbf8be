package usecase

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/agency-backoffice/internal/entity"
	"github.com/xavierca1/agency-backoffice/internal/infra/storage"
)

func projectInput(slug string) entity.ProjectInput {
	return entity.ProjectInput{
		Slug:     slug,
		Title:    "Project " + slug,
		Category: "web",
		Services: []string{"design", "development"},
		Tags:     []string{"ecommerce"},
	}
}

func TestProjectCreateAssignsMaxPlusOne(t *testing.T) {
	ctx := context.Background()
	svc := NewProjectService(storage.NewMemoryStore[entity.Project](), discardLogger())

	seen := map[string]bool{}
	for i := 1; i <= 5; i++ {
		p, err := svc.Create(ctx, projectInput("p-"+strconv.Itoa(i)))
		require.NoError(t, err)
		assert.Equal(t, strconv.Itoa(i), p.ID)
		assert.False(t, seen[p.ID], "duplicate id %s", p.ID)
		seen[p.ID] = true
	}

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 5)
}

func TestProjectCreateIgnoresNonNumericIDs(t *testing.T) {
	store := storage.NewMemoryStore(
		entity.Project{ID: "legacy", ProjectInput: projectInput("legacy")},
		entity.Project{ID: "7", ProjectInput: projectInput("seven")},
		entity.Project{ID: "3", ProjectInput: projectInput("three")},
	)
	svc := NewProjectService(store, discardLogger())

	p, err := svc.Create(context.Background(), projectInput("new"))
	require.NoError(t, err)
	assert.Equal(t, "8", p.ID)
}

func TestProjectCreateOnlyNonNumericIDsStartsAtOne(t *testing.T) {
	store := storage.NewMemoryStore(entity.Project{ID: "abc", ProjectInput: projectInput("abc")})
	svc := NewProjectService(store, discardLogger())

	p, err := svc.Create(context.Background(), projectInput("new"))
	require.NoError(t, err)
	assert.Equal(t, "1", p.ID)
}

func TestProjectCreateAllowsDuplicateSlug(t *testing.T) {
	ctx := context.Background()
	svc := NewProjectService(storage.NewMemoryStore[entity.Project](), discardLogger())

	first, err := svc.Create(ctx, projectInput("same"))
	require.NoError(t, err)
	second, err := svc.Create(ctx, projectInput("same"))
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	got, err := svc.GetBySlug(ctx, "same")
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID, "last created wins")
}

func TestProjectCreateValidation(t *testing.T) {
	svc := NewProjectService(storage.NewMemoryStore[entity.Project](), discardLogger())

	_, err := svc.Create(context.Background(), entity.ProjectInput{Slug: "Not A Slug"})
	require.Error(t, err)
	assert.ErrorIs(t, err, entity.ErrInvalidInput)
	assert.Contains(t, err.Error(), "title")
	assert.Contains(t, err.Error(), "slug")
}

func TestProjectCreateAfterLargestIntID(t *testing.T) {
	store := storage.NewMemoryStore(entity.Project{ID: "9223372036854775807", ProjectInput: projectInput("max")})
	svc := NewProjectService(store, discardLogger())

	first, err := svc.Create(context.Background(), projectInput("next"))
	require.NoError(t, err)
	second, err := svc.Create(context.Background(), projectInput("after"))
	require.NoError(t, err)

	assert.Equal(t, "9223372036854775808", first.ID)
	assert.Equal(t, "9223372036854775809", second.ID)
}

func TestProjectListsStoredAsEmptyNotNull(t *testing.T) {
	dir := t.TempDir()
	store := storage.NewFileStore[entity.Project](dir, "projects.json")
	svc := NewProjectService(store, discardLogger())

	p, err := svc.Create(context.Background(), entity.ProjectInput{Slug: "bare", Title: "Bare"})
	require.NoError(t, err)
	assert.Equal(t, []string{}, p.Services)
	assert.Equal(t, []string{}, p.Images)
	assert.Equal(t, []string{}, p.Tags)

	raw, err := os.ReadFile(filepath.Join(dir, "projects.json"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"services": []`)
	assert.Contains(t, string(raw), `"tags": []`)
	assert.NotContains(t, string(raw), "null")

	p.Images = nil
	updated, err := svc.Update(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, []string{}, updated.Images)
}

func TestProjectUpdateReplacesWholeRecord(t *testing.T) {
	ctx := context.Background()
	svc := NewProjectService(storage.NewMemoryStore[entity.Project](), discardLogger())

	a, _ := svc.Create(ctx, projectInput("a"))
	b, _ := svc.Create(ctx, projectInput("b"))
	c, _ := svc.Create(ctx, projectInput("c"))

	replacement := entity.Project{
		ID: b.ID,
		ProjectInput: entity.ProjectInput{
			Slug:    "b-renamed",
			Title:   "Renamed",
			Results: map[string]string{"conversion": "+32%"},
		},
	}
	updated, err := svc.Update(ctx, replacement)
	require.NoError(t, err)

	want := replacement
	want.Services, want.Images, want.Tags = []string{}, []string{}, []string{}
	assert.Equal(t, want, updated)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, a, list[0])
	assert.Equal(t, want, list[1])
	assert.Empty(t, list[1].Services, "fields not supplied are not merged from the old record")
	assert.Equal(t, c, list[2])
}

func TestProjectUpdateAndDeleteNotFound(t *testing.T) {
	ctx := context.Background()
	svc := NewProjectService(storage.NewMemoryStore[entity.Project](), discardLogger())
	_, err := svc.Create(ctx, projectInput("a"))
	require.NoError(t, err)

	before, _ := svc.List(ctx)

	_, err = svc.Update(ctx, entity.Project{ID: "99", ProjectInput: projectInput("x")})
	assert.ErrorIs(t, err, entity.ErrNotFound)

	err = svc.Delete(ctx, "99")
	assert.ErrorIs(t, err, entity.ErrNotFound)

	after, _ := svc.List(ctx)
	assert.Equal(t, before, after)
}

func TestProjectDelete(t *testing.T) {
	ctx := context.Background()
	svc := NewProjectService(storage.NewMemoryStore[entity.Project](), discardLogger())
	a, _ := svc.Create(ctx, projectInput("a"))
	b, _ := svc.Create(ctx, projectInput("b"))

	require.NoError(t, svc.Delete(ctx, a.ID))

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, b.ID, list[0].ID)

	c, err := svc.Create(ctx, projectInput("c"))
	require.NoError(t, err)
	assert.Equal(t, "3", c.ID)
}

func TestProjectGetBySlugNotFound(t *testing.T) {
	svc := NewProjectService(storage.NewMemoryStore[entity.Project](), discardLogger())
	_, err := svc.GetBySlug(context.Background(), "missing")
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestProjectStorageFailures(t *testing.T) {
	ctx := context.Background()

	svc := NewProjectService(&brokenStore[entity.Project]{failLoad: true}, discardLogger())
	_, err := svc.List(ctx)
	assert.ErrorIs(t, err, entity.ErrStorageUnavailable)
	assert.True(t, IsTechnicalError(err))

	store := &brokenStore[entity.Project]{failSave: true}
	svc = NewProjectService(store, discardLogger())
	_, err = svc.Create(ctx, projectInput("a"))
	assert.ErrorIs(t, err, entity.ErrStorageUnavailable)
	assert.Empty(t, store.records, "failed save commits nothing")
}
