// Package storage opens the key-value backend selected in the settings.
package storage

import (
	"context"
	"fmt"

	"github.com/custodia-labs/quire/internal/adapters/driven/storage/file"
	"github.com/custodia-labs/quire/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/quire/internal/adapters/driven/storage/redis"
	"github.com/custodia-labs/quire/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/quire/internal/core/domain"
	"github.com/custodia-labs/quire/internal/core/ports/driven"
	"github.com/custodia-labs/quire/internal/logger"
)

// Open creates the store for settings.Backend. The caller must Close it.
func Open(ctx context.Context, settings domain.StorageSettings) (driven.KeyValueStore, error) {
	store, err := open(ctx, settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'quire settings backend' to choose another",
			domain.ErrStorageUnavailable, err)
	}
	logger.Debug("opened %s storage", settings.Backend)
	return store, nil
}

func open(ctx context.Context, settings domain.StorageSettings) (driven.KeyValueStore, error) {
	switch settings.Backend {
	case domain.StorageFile:
		return file.NewStore(settings.DataDir)
	case domain.StorageSQLite:
		return sqlite.NewStore(settings.DataDir)
	case domain.StorageRedis:
		return redis.NewStore(ctx, settings.RedisURL)
	case domain.StorageMemory:
		logger.Warn("memory storage selected, changes will not survive this process")
		return memory.NewKVStore(), nil
	default:
		return nil, fmt.Errorf("%w: storage backend %q", domain.ErrUnsupportedType, settings.Backend)
	}
}

// Notifier returns the change feed of store, if the backend has one.
func Notifier(store driven.KeyValueStore) (driven.ChangeNotifier, bool) {
	n, ok := store.(driven.ChangeNotifier)
	return n, ok
}
