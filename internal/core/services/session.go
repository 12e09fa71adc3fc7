package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/custodia-labs/quire/internal/core/domain"
	"github.com/custodia-labs/quire/internal/core/ports/driven"
	"github.com/custodia-labs/quire/internal/core/ports/driving"
	"github.com/custodia-labs/quire/internal/logger"
)

// SessionConfig holds the collaborators of a Session.
type SessionConfig struct {
	Gateway driving.PersistenceGateway
	IDs     driven.IDGenerator
	Clock   func() time.Time
	// Delay is the autosave quiet period. Zero saves on the next tick.
	Delay time.Duration
}

// Session ties a WorkspaceStore to a PersistenceGateway: it loads the saved
// workspace (or seeds the default one) and autosaves after mutations settle.
type Session struct {
	store   *WorkspaceStore
	gateway driving.PersistenceGateway

	debounce    *Debouncer
	unsubscribe func()

	mu    sync.Mutex
	saved uint64

	closeOnce sync.Once
}

// OpenSession loads the workspace through the gateway and starts autosave.
func OpenSession(ctx context.Context, cfg SessionConfig) (*Session, error) {
	if cfg.Gateway == nil {
		return nil, errors.New("session requires a persistence gateway")
	}
	if cfg.IDs == nil {
		return nil, errors.New("session requires an id generator")
	}
	if cfg.Delay < 0 {
		cfg.Delay = 0
	}

	factory := NewEntityFactory(cfg.IDs, cfg.Clock)
	ws, ok := cfg.Gateway.Load(ctx)
	if !ok {
		logger.Debug("starting with the default workspace")
		ws = factory.DefaultWorkspace()
	} else if err := ws.Validate(); err != nil {
		logger.Warn("saved workspace has inconsistencies: %v", err)
	}

	s := &Session{
		store:   NewWorkspaceStore(ws, factory),
		gateway: cfg.Gateway,
	}
	s.debounce = NewDebouncer(cfg.Delay, func() {
		s.save(context.Background())
	})
	s.unsubscribe = s.store.Subscribe(func(*domain.Workspace, uint64) {
		s.debounce.Trigger()
	})
	return s, nil
}

// Store returns the workspace store driven by this session.
func (s *Session) Store() *WorkspaceStore {
	return s.store
}

// Gateway returns the persistence gateway.
func (s *Session) Gateway() driving.PersistenceGateway {
	return s.gateway
}

// Dirty reports whether the store holds mutations not yet saved.
func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Version() > s.saved
}

// Flush saves pending changes now instead of waiting for the quiet period.
// It returns the gateway's last error when changes remain unsaved.
func (s *Session) Flush(ctx context.Context) error {
	if !s.debounce.Flush() && s.Dirty() {
		s.save(ctx)
	}
	if s.Dirty() {
		return s.gateway.LastError()
	}
	return nil
}

// Close flushes pending changes and stops autosave. It is safe to call twice.
func (s *Session) Close(ctx context.Context) error {
	var err error
	s.closeOnce.Do(func() {
		s.unsubscribe()
		err = s.Flush(ctx)
		s.debounce.Stop()
	})
	return err
}

// save writes the current snapshot if it is newer than the last saved one.
func (s *Session) save(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	version := s.store.Version()
	if version <= s.saved {
		return
	}
	s.gateway.Save(ctx, s.store.Snapshot())
	if s.gateway.LastError() == nil {
		s.saved = version
	}
}
