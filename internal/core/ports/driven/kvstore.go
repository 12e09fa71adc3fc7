package driven

import "context"

// KeyValueStore is a durable string-keyed store.
// The workspace is persisted as a single value under a fixed key.
type KeyValueStore interface {
	// Get returns the value stored under key.
	// The boolean is false, with a nil error, when the key is absent.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any underlying resources.
	Close() error
}

// ChangeNotifier reports writes to a key, including those made by other
// processes where the backend can see them.
type ChangeNotifier interface {
	// Watch calls onChange after each write or removal of key until ctx is
	// cancelled. It blocks, and returns nil once ctx is cancelled. Other
	// errors mean the feed could not be set up or was lost.
	Watch(ctx context.Context, key string, onChange func()) error
}
