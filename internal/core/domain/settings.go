package domain

import (
	"fmt"
	"time"
)

const unknownDescription = "Unknown"

// DefaultStorageKey is the single key the workspace is persisted under.
const DefaultStorageKey = "notionclone-workspace"

// DefaultAutosaveDelay is the quiet period before a pending save is written.
const DefaultAutosaveDelay = 500 * time.Millisecond

// StorageBackend identifies the key-value store the workspace is persisted to.
type StorageBackend string

// Available storage backends.
const (
	// StorageFile stores each key as a JSON file in the data directory.
	StorageFile StorageBackend = "file"

	// StorageSQLite stores keys in a SQLite database in the data directory.
	StorageSQLite StorageBackend = "sqlite"

	// StorageRedis stores keys in a Redis server.
	StorageRedis StorageBackend = "redis"

	// StorageMemory keeps keys in process memory only.
	StorageMemory StorageBackend = "memory"
)

// IsValid returns true if the backend is recognised.
func (b StorageBackend) IsValid() bool {
	switch b {
	case StorageFile, StorageSQLite, StorageRedis, StorageMemory:
		return true
	default:
		return false
	}
}

// IsDurable returns true if data survives a process restart.
func (b StorageBackend) IsDurable() bool {
	return b.IsValid() && b != StorageMemory
}

// String returns the string representation.
func (b StorageBackend) String() string {
	return string(b)
}

// Description returns a human-readable description of the backend.
func (b StorageBackend) Description() string {
	switch b {
	case StorageFile:
		return "File (JSON in data directory)"
	case StorageSQLite:
		return "SQLite (metadata database)"
	case StorageRedis:
		return "Redis (remote key-value server)"
	case StorageMemory:
		return "Memory (not persisted)"
	default:
		return unknownDescription
	}
}

// AllStorageBackends returns all available storage backends.
func AllStorageBackends() []StorageBackend {
	return []StorageBackend{StorageFile, StorageSQLite, StorageRedis, StorageMemory}
}

// StorageSettings holds persistence configuration.
type StorageSettings struct {
	// Backend selects the key-value store.
	Backend StorageBackend

	// DataDir is where file and sqlite backends keep their data.
	// Empty means ~/.quire/data.
	DataDir string

	// RedisURL is the connection URL for the redis backend.
	RedisURL string

	// Key is the key the workspace is stored under.
	Key string
}

// AutosaveSettings holds debounce configuration.
type AutosaveSettings struct {
	// Delay is the quiet period after the last edit before saving.
	Delay time.Duration
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Storage holds persistence settings.
	Storage StorageSettings

	// Autosave holds debounce settings.
	Autosave AutosaveSettings
}

// DefaultAppSettings returns settings with sensible defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Storage: StorageSettings{
			Backend:  StorageFile,
			RedisURL: "redis://localhost:6379/0",
			Key:      DefaultStorageKey,
		},
		Autosave: AutosaveSettings{
			Delay: DefaultAutosaveDelay,
		},
	}
}

// Validate checks the settings are usable.
func (s AppSettings) Validate() error {
	if !s.Storage.Backend.IsValid() {
		return fmt.Errorf("%w: storage backend %q", ErrUnsupportedType, s.Storage.Backend)
	}
	if s.Storage.Key == "" {
		return fmt.Errorf("%w: storage key is empty", ErrInvalidInput)
	}
	if s.Storage.Backend == StorageRedis && s.Storage.RedisURL == "" {
		return fmt.Errorf("%w: redis backend requires a redis url", ErrInvalidInput)
	}
	if s.Autosave.Delay < 0 {
		return fmt.Errorf("%w: autosave delay must not be negative", ErrInvalidInput)
	}
	return nil
}
