package services

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/quire/internal/core/domain"
	"github.com/custodia-labs/quire/internal/core/ports/driven"
	"github.com/custodia-labs/quire/internal/core/ports/driving"
	"github.com/custodia-labs/quire/internal/logger"
)

// Ensure PersistenceGateway implements the interface.
var _ driving.PersistenceGateway = (*PersistenceGateway)(nil)

// PersistenceGateway saves and loads the workspace under a single key.
// Storage failures are caught here, logged and never returned.
type PersistenceGateway struct {
	store driven.KeyValueStore
	key   string

	// errLog throttles repeated failure logs, e.g. while a store is down
	// and every autosave fails the same way.
	errLog rate.Sometimes

	mu      sync.Mutex
	lastErr error
}

// NewPersistenceGateway creates a gateway writing to key in store.
// An empty key defaults to domain.DefaultStorageKey.
func NewPersistenceGateway(store driven.KeyValueStore, key string) *PersistenceGateway {
	if key == "" {
		key = domain.DefaultStorageKey
	}
	return &PersistenceGateway{
		store:  store,
		key:    key,
		errLog: rate.Sometimes{First: 3, Interval: 30 * time.Second},
	}
}

// Key returns the storage key.
func (g *PersistenceGateway) Key() string {
	return g.key
}

// Save writes the workspace. Errors are logged, not returned.
func (g *PersistenceGateway) Save(ctx context.Context, ws *domain.Workspace) {
	data, err := EncodeWorkspace(ws)
	if err != nil {
		g.fail("Failed to encode workspace: %v", err)
		return
	}
	if err := g.store.Set(ctx, g.key, string(data)); err != nil {
		g.fail("Failed to save workspace: %v", err)
		return
	}
	g.setErr(nil)
	logger.Debug("saved workspace (%d pages, %d bytes)", ws.Len(), len(data))
}

// Load reads the workspace. It returns false when the key is absent or
// the stored payload cannot be read.
func (g *PersistenceGateway) Load(ctx context.Context) (*domain.Workspace, bool) {
	raw, ok, err := g.store.Get(ctx, g.key)
	if err != nil {
		g.fail("Failed to load workspace: %v", err)
		return nil, false
	}
	if !ok || raw == "" {
		logger.Debug("no saved workspace under %q", g.key)
		return nil, false
	}
	ws, err := DecodeWorkspace([]byte(raw))
	if err != nil {
		g.fail("Failed to load workspace: %v", err)
		return nil, false
	}
	g.setErr(nil)
	logger.Debug("loaded workspace (%d pages)", ws.Len())
	return ws, true
}

// Clear removes the stored workspace. Errors are logged, not returned.
func (g *PersistenceGateway) Clear(ctx context.Context) {
	if err := g.store.Delete(ctx, g.key); err != nil {
		g.fail("Failed to clear workspace: %v", err)
		return
	}
	g.setErr(nil)
}

// LastError returns the most recent swallowed error, or nil.
func (g *PersistenceGateway) LastError() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastErr
}

func (g *PersistenceGateway) fail(format string, err error) {
	g.setErr(err)
	g.errLog.Do(func() {
		logger.Error(format, err)
	})
}

func (g *PersistenceGateway) setErr(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lastErr = err
}
