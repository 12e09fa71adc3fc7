// Package storagetest holds the behaviour every driven.KeyValueStore adapter
// must share, run from each adapter's own tests.
package storagetest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/quire/internal/core/ports/driven"
)

// RunKeyValueStoreTests exercises the driven.KeyValueStore contract against
// stores built by newStore. Each subtest gets a fresh store.
func RunKeyValueStoreTests(t *testing.T, newStore func(t *testing.T) driven.KeyValueStore) {
	t.Helper()

	t.Run("GetMissing", func(t *testing.T) {
		store := newStore(t)
		val, ok, err := store.Get(context.Background(), "absent")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, val)
	})

	t.Run("SetThenGet", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		payload := `{"pages":{},"pageOrder":[]}`

		require.NoError(t, store.Set(ctx, "notionclone-workspace", payload))
		val, ok, err := store.Get(ctx, "notionclone-workspace")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, payload, val)
	})

	t.Run("Overwrite", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		require.NoError(t, store.Set(ctx, "k", "first"))
		require.NoError(t, store.Set(ctx, "k", "second"))
		val, ok, err := store.Get(ctx, "k")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "second", val)
	})

	t.Run("EmptyValue", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		require.NoError(t, store.Set(ctx, "k", ""))
		val, ok, err := store.Get(ctx, "k")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Empty(t, val)
	})

	t.Run("LargeUnicodeValue", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		payload := strings.Repeat("Happy writing! 🚀 ", 20000)

		require.NoError(t, store.Set(ctx, "k", payload))
		val, _, err := store.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, payload, val)
	})

	t.Run("Delete", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		require.NoError(t, store.Set(ctx, "k", "v"))
		require.NoError(t, store.Set(ctx, "keep", "v"))
		require.NoError(t, store.Delete(ctx, "k"))

		_, ok, err := store.Get(ctx, "k")
		require.NoError(t, err)
		assert.False(t, ok)

		_, ok, err = store.Get(ctx, "keep")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("DeleteMissing", func(t *testing.T) {
		store := newStore(t)
		assert.NoError(t, store.Delete(context.Background(), "absent"))
	})

	t.Run("ConcurrentWriters", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				assert.NoError(t, store.Set(ctx, fmt.Sprintf("k%d", n), fmt.Sprintf("v%d", n)))
			}(i)
		}
		wg.Wait()

		for i := 0; i < 10; i++ {
			val, ok, err := store.Get(ctx, fmt.Sprintf("k%d", i))
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, fmt.Sprintf("v%d", i), val)
		}
	})
}
