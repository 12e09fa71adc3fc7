package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/quire/internal/core/ports/driven"
)

// Ensure KVStore implements the interfaces.
var (
	_ driven.KeyValueStore  = (*KVStore)(nil)
	_ driven.ChangeNotifier = (*KVStore)(nil)
)

// KVStore is an in-memory implementation of driven.KeyValueStore.
// It counts writes and can be told to fail, which makes it the store of
// choice for persistence tests.
type KVStore struct {
	mu       sync.RWMutex
	values   map[string]string
	writes   int
	failWith error
	watchers map[string]map[int]func()
	nextID   int
}

// NewKVStore creates a new in-memory key-value store.
func NewKVStore() *KVStore {
	return &KVStore{
		values:   make(map[string]string),
		watchers: make(map[string]map[int]func()),
	}
}

// Get retrieves the value stored under key.
func (s *KVStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.failWith != nil {
		return "", false, s.failWith
	}
	val, ok := s.values[key]
	return val, ok, nil
}

// Set stores value under key.
func (s *KVStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	if s.failWith != nil {
		s.mu.Unlock()
		return s.failWith
	}
	s.values[key] = value
	s.writes++
	watchers := s.watchersFor(key)
	s.mu.Unlock()

	notify(watchers)
	return nil
}

// Delete removes key. Missing keys are ignored.
func (s *KVStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	if s.failWith != nil {
		s.mu.Unlock()
		return s.failWith
	}
	_, existed := s.values[key]
	delete(s.values, key)
	watchers := s.watchersFor(key)
	s.mu.Unlock()

	if existed {
		notify(watchers)
	}
	return nil
}

// Watch calls onChange after every write to key until ctx is done.
func (s *KVStore) Watch(ctx context.Context, key string, onChange func()) error {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	if s.watchers[key] == nil {
		s.watchers[key] = make(map[int]func())
	}
	s.watchers[key][id] = onChange
	s.mu.Unlock()

	<-ctx.Done()

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.watchers[key], id)
	return nil
}

// Close is a no-op.
func (s *KVStore) Close() error {
	return nil
}

// Writes returns the number of successful Set calls.
func (s *KVStore) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}

// FailWith makes every subsequent operation return err. Pass nil to recover.
func (s *KVStore) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWith = err
}

// watchersFor copies the callbacks for key. Callers hold s.mu.
func (s *KVStore) watchersFor(key string) []func() {
	out := make([]func(), 0, len(s.watchers[key]))
	for _, w := range s.watchers[key] {
		out = append(out, w)
	}
	return out
}

func notify(watchers []func()) {
	for _, w := range watchers {
		w()
	}
}
