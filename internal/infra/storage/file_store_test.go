package storage

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/agency-backoffice/internal/entity"
)

func TestFileStoreLoadCreatesMissingDocument(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data", "nested")
	store := NewFileStore[entity.Project](dir, "projects.json")

	records, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.NotNil(t, records)

	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Equal(t, "[]", strings.TrimSpace(string(raw)))
}

func TestFileStoreSaveThenLoad(t *testing.T) {
	store := NewFileStore[entity.Project](t.TempDir(), "projects.json")
	ctx := context.Background()

	in := []entity.Project{
		{ID: "1", ProjectInput: entity.ProjectInput{Slug: "brand-refresh", Title: "Brand refresh", Tags: []string{"branding"}}},
		{ID: "2", ProjectInput: entity.ProjectInput{Slug: "seo", Title: "SEO", Results: map[string]string{"traffic": "+140%"}}},
	}
	require.NoError(t, store.Save(ctx, in))

	out, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(raw), "\n  {\n    \"id\": \"1\"", "document should be pretty-printed")
}

func TestFileStoreSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore[entity.Lead](dir, "leads.json")
	require.NoError(t, store.Save(context.Background(), []entity.Lead{{ID: "1", Name: "Ana", Email: "ana@example.com"}}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "leads.json", entries[0].Name())
}

func TestFileStoreEmptyFileIsEmptyCollection(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "leads.json"), nil, 0o644))

	records, err := NewFileStore[entity.Lead](dir, "leads.json").Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestFileStoreCorruptDocument(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "leads.json"), []byte("{not json"), 0o644))

	_, err := NewFileStore[entity.Lead](dir, "leads.json").Load(context.Background())
	assert.ErrorIs(t, err, entity.ErrStorageUnavailable)
}

func TestFileStoreUnwritableDirectory(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for this user")
	}
	dir := t.TempDir()
	require.NoError(t, os.Chmod(dir, 0o500))
	t.Cleanup(func() { os.Chmod(dir, 0o755) })

	store := NewFileStore[entity.Lead](dir, "leads.json")
	_, err := store.Load(context.Background())
	assert.ErrorIs(t, err, entity.ErrStorageUnavailable)
	assert.ErrorIs(t, store.Ping(context.Background()), entity.ErrStorageUnavailable)
}

func TestMemoryStoreIsolatesCallers(t *testing.T) {
	store := NewMemoryStore(entity.Project{ID: "1", ProjectInput: entity.ProjectInput{Tags: []string{"web"}}})
	ctx := context.Background()

	first, err := store.Load(ctx)
	require.NoError(t, err)
	first[0].Tags[0] = "mutated"

	second, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "web", second[0].Tags[0])
}
