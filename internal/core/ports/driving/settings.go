package driving

import (
	"time"

	"github.com/custodia-labs/quire/internal/core/domain"
)

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// SetBackend selects the storage backend.
	SetBackend(backend domain.StorageBackend) error

	// SetAutosaveDelay sets the debounce delay.
	SetAutosaveDelay(delay time.Duration) error

	// Reset restores every setting to its default.
	Reset() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// Path returns where settings are stored.
	Path() string
}
