package services

import (
	"fmt"
	"time"

	"github.com/custodia-labs/quire/internal/core/domain"
	"github.com/custodia-labs/quire/internal/core/ports/driven"
	"github.com/custodia-labs/quire/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyStorageBackend = "storage.backend"
	keyStorageDataDir = "storage.data_dir"
	keyStorageRedis   = "storage.redis_url"
	keyStorageKey     = "storage.key"
	keyAutosaveDelay  = "autosave.delay_ms"
)

var allKeys = []string{keyStorageBackend, keyStorageDataDir, keyStorageRedis, keyStorageKey, keyAutosaveDelay}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Storage: domain.StorageSettings{
			Backend:  s.getBackend(defaults.Storage.Backend),
			DataDir:  s.configStore.GetString(keyStorageDataDir), // No default - adapters resolve ~/.quire/data
			RedisURL: s.getString(keyStorageRedis, defaults.Storage.RedisURL),
			Key:      s.getString(keyStorageKey, defaults.Storage.Key),
		},
		Autosave: domain.AutosaveSettings{
			Delay: s.getDelay(defaults.Autosave.Delay),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	if err := s.configStore.Set(keyStorageBackend, settings.Storage.Backend.String()); err != nil {
		return fmt.Errorf("save storage backend: %w", err)
	}
	if err := s.configStore.Set(keyStorageDataDir, settings.Storage.DataDir); err != nil {
		return fmt.Errorf("save storage data_dir: %w", err)
	}
	if err := s.configStore.Set(keyStorageRedis, settings.Storage.RedisURL); err != nil {
		return fmt.Errorf("save storage redis_url: %w", err)
	}
	if err := s.configStore.Set(keyStorageKey, settings.Storage.Key); err != nil {
		return fmt.Errorf("save storage key: %w", err)
	}
	if err := s.configStore.Set(keyAutosaveDelay, settings.Autosave.Delay.Milliseconds()); err != nil {
		return fmt.Errorf("save autosave delay: %w", err)
	}

	return nil
}

// SetBackend selects the storage backend.
func (s *SettingsService) SetBackend(backend domain.StorageBackend) error {
	if !backend.IsValid() {
		return fmt.Errorf("invalid storage backend: %s", backend)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Storage.Backend = backend
	return s.Save(settings)
}

// SetAutosaveDelay sets the debounce delay.
func (s *SettingsService) SetAutosaveDelay(delay time.Duration) error {
	if delay < 0 {
		return fmt.Errorf("invalid autosave delay: %s", delay)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Autosave.Delay = delay
	return s.Save(settings)
}

// Reset restores every setting to its default.
func (s *SettingsService) Reset() error {
	for _, key := range allKeys {
		if err := s.configStore.Delete(key); err != nil {
			return fmt.Errorf("reset %s: %w", key, err)
		}
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Path returns where settings are stored.
func (s *SettingsService) Path() string {
	return s.configStore.Path()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getDelay treats an explicit 0 as "save immediately", unlike other ints.
func (s *SettingsService) getDelay(defaultVal time.Duration) time.Duration {
	if _, exists := s.configStore.Get(keyAutosaveDelay); !exists {
		return defaultVal
	}
	ms := s.configStore.GetInt(keyAutosaveDelay)
	if ms < 0 {
		return defaultVal
	}
	return time.Duration(ms) * time.Millisecond
}

func (s *SettingsService) getBackend(defaultVal domain.StorageBackend) domain.StorageBackend {
	val := s.configStore.GetString(keyStorageBackend)
	if val == "" {
		return defaultVal
	}
	backend := domain.StorageBackend(val)
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}
