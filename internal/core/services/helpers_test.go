package services

import (
	"sync"
	"testing"
	"time"

	"github.com/custodia-labs/quire/internal/adapters/driven/idgen"
	"github.com/custodia-labs/quire/internal/core/domain"
)

// testClock is a manually advanced clock starting at a fixed instant.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2024, 3, 1, 9, 30, 0, 123456789, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// newTestFactory returns a factory with sequential ids and a manual clock.
func newTestFactory() (*EntityFactory, *testClock) {
	clock := newTestClock()
	return NewEntityFactory(idgen.NewSequence("id"), clock.Now), clock
}

// newTestStore returns a store seeded with the welcome workspace.
func newTestStore(t *testing.T) (*WorkspaceStore, *testClock) {
	t.Helper()
	factory, clock := newTestFactory()
	return NewWorkspaceStore(factory.DefaultWorkspace(), factory), clock
}

func ptr[T any](v T) *T {
	return &v
}

func blockIDs(p domain.Page) []string {
	ids := make([]string, len(p.Blocks))
	for i, b := range p.Blocks {
		ids[i] = b.ID
	}
	return ids
}
