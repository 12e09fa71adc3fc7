package storage

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/quire/internal/adapters/driven/storage/file"
	"github.com/custodia-labs/quire/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/quire/internal/adapters/driven/storage/redis"
	"github.com/custodia-labs/quire/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/quire/internal/core/domain"
)

func TestOpen(t *testing.T) {
	mr := miniredis.RunT(t)

	tests := []struct {
		name     string
		settings domain.StorageSettings
		wantType any
		notifies bool
	}{
		{
			name:     "file",
			settings: domain.StorageSettings{Backend: domain.StorageFile, DataDir: t.TempDir()},
			wantType: &file.Store{},
			notifies: true,
		},
		{
			name:     "sqlite",
			settings: domain.StorageSettings{Backend: domain.StorageSQLite, DataDir: t.TempDir()},
			wantType: &sqlite.Store{},
			notifies: false,
		},
		{
			name:     "redis",
			settings: domain.StorageSettings{Backend: domain.StorageRedis, RedisURL: "redis://" + mr.Addr()},
			wantType: &redis.Store{},
			notifies: true,
		},
		{
			name:     "memory",
			settings: domain.StorageSettings{Backend: domain.StorageMemory},
			wantType: &memory.KVStore{},
			notifies: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := Open(context.Background(), tt.settings)
			require.NoError(t, err)
			defer store.Close()

			assert.IsType(t, tt.wantType, store)
			_, ok := Notifier(store)
			assert.Equal(t, tt.notifies, ok)

			require.NoError(t, store.Set(context.Background(), "k", "v"))
			val, found, err := store.Get(context.Background(), "k")
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, "v", val)
		})
	}
}

func TestOpen_Errors(t *testing.T) {
	tests := []struct {
		name     string
		settings domain.StorageSettings
	}{
		{"unknown backend", domain.StorageSettings{Backend: "floppy"}},
		{"bad redis url", domain.StorageSettings{Backend: domain.StorageRedis, RedisURL: "::"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Open(context.Background(), tt.settings)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
			assert.Contains(t, err.Error(), "quire settings backend")
		})
	}
}

func TestOpen_UnreachableRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := Open(context.Background(), domain.StorageSettings{
		Backend:  domain.StorageRedis,
		RedisURL: "redis://" + addr,
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
	assert.Contains(t, err.Error(), "connect to redis")
}
