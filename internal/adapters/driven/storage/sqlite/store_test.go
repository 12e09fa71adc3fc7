package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/quire/internal/adapters/driven/storage/storagetest"
	"github.com/custodia-labs/quire/internal/core/ports/driven"
)

// setupTestStore creates a SQLite store in a temporary directory.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, store)
	t.Cleanup(func() { assert.NoError(t, store.Close()) })

	return store
}

func TestStore_Contract(t *testing.T) {
	storagetest.RunKeyValueStoreTests(t, func(t *testing.T) driven.KeyValueStore {
		return setupTestStore(t)
	})
}

func TestNewStore_CreatesDatabase(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")

	store, err := NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, filepath.Join(dir, DatabaseFile), store.Path())
	assert.FileExists(t, store.Path())
}

func TestNewStore_ReopenKeepsData(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, "notionclone-workspace", `{"pages":{}}`))
	require.NoError(t, store.Close())

	// Migrations must not be re-applied on reopen.
	reopened, err := NewStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	val, ok, err := reopened.Get(ctx, "notionclone-workspace")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"pages":{}}`, val)
}

func TestStore_MigrationsRecorded(t *testing.T) {
	store := setupTestStore(t)

	var version int
	err := store.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version)
	require.NoError(t, err)
	assert.Equal(t, 1, version)
}

func TestStore_ClosedReturnsError(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Close())

	_, _, err = store.Get(context.Background(), "k")
	assert.Error(t, err)
	assert.Error(t, store.Set(context.Background(), "k", "v"))
}
