package memory

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/quire/internal/adapters/driven/storage/storagetest"
	"github.com/custodia-labs/quire/internal/core/ports/driven"
)

func TestKVStore_Contract(t *testing.T) {
	storagetest.RunKeyValueStoreTests(t, func(*testing.T) driven.KeyValueStore {
		return NewKVStore()
	})
}

func TestKVStore_SetGet(t *testing.T) {
	ctx := context.Background()
	store := NewKVStore()

	_, ok, err := store.Get(ctx, "workspace")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, "workspace", `{"pages":{}}`))
	val, ok, err := store.Get(ctx, "workspace")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"pages":{}}`, val)
	assert.Equal(t, 1, store.Writes())
}

func TestKVStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := NewKVStore()
	require.NoError(t, store.Set(ctx, "k", "v"))

	require.NoError(t, store.Delete(ctx, "k"))
	_, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Delete(ctx, "k"))
}

func TestKVStore_FailWith(t *testing.T) {
	ctx := context.Background()
	store := NewKVStore()
	boom := errors.New("quota exceeded")

	store.FailWith(boom)
	assert.ErrorIs(t, store.Set(ctx, "k", "v"), boom)
	_, _, err := store.Get(ctx, "k")
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, store.Delete(ctx, "k"), boom)
	assert.Equal(t, 0, store.Writes())

	store.FailWith(nil)
	assert.NoError(t, store.Set(ctx, "k", "v"))
}

func TestKVStore_Watch(t *testing.T) {
	store := NewKVStore()
	ctx, cancel := context.WithCancel(context.Background())

	var calls atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- store.Watch(ctx, "k", func() { calls.Add(1) })
	}()

	// Wait for the watcher to register.
	require.Eventually(t, func() bool {
		store.mu.RLock()
		defer store.mu.RUnlock()
		return len(store.watchers["k"]) == 1
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, store.Set(context.Background(), "k", "1"))
	require.NoError(t, store.Set(context.Background(), "other", "1"))
	require.NoError(t, store.Delete(context.Background(), "k"))
	assert.Equal(t, int32(2), calls.Load())

	cancel()
	require.NoError(t, <-done)
	assert.Empty(t, store.watchers["k"])
}

func TestKVStore_Close(t *testing.T) {
	assert.NoError(t, NewKVStore().Close())
}
