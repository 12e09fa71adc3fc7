package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	configfile "github.com/custodia-labs/quire/internal/adapters/driven/config/file"
	"github.com/custodia-labs/quire/internal/adapters/driven/idgen"
	"github.com/custodia-labs/quire/internal/adapters/driven/storage"
	"github.com/custodia-labs/quire/internal/adapters/driving/cli"
	"github.com/custodia-labs/quire/internal/core/services"
	"github.com/custodia-labs/quire/internal/logger"
)

// version is set during build.
var version = "dev"

// closeTimeout bounds the final save on exit.
const closeTimeout = 10 * time.Second

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetVersion(version)

	configDir, err := configfile.DefaultDir()
	if err != nil {
		logger.Error("Failed to resolve config directory: %v", err)
		return 1
	}
	configStore, err := configfile.NewConfigStore(configDir)
	if err != nil {
		logger.Error("Failed to load config: %v", err)
		return 1
	}
	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		logger.Error("Failed to read settings: %v", err)
		return 1
	}
	if settings.Storage.DataDir == "" {
		settings.Storage.DataDir = filepath.Join(configDir, "data")
	}

	svc := cli.Services{
		Settings:   settingsService,
		StorageKey: settings.Storage.Key,
	}

	store, err := storage.Open(ctx, settings.Storage)
	if err != nil {
		// Settings commands must keep working so the backend can be changed.
		svc.StorageErr = err
	} else {
		defer func() {
			if err := store.Close(); err != nil {
				logger.Warn("closing storage: %v", err)
			}
		}()

		gateway := services.NewPersistenceGateway(store, settings.Storage.Key)
		session, err := services.OpenSession(ctx, services.SessionConfig{
			Gateway: gateway,
			IDs:     idgen.UUID{},
			Delay:   settings.Autosave.Delay,
		})
		if err != nil {
			logger.Error("Failed to open workspace: %v", err)
			return 1
		}
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), closeTimeout)
			defer cancel()
			if err := session.Close(closeCtx); err != nil {
				logger.Error("Unsaved changes: %v", err)
			}
		}()

		svc.Workspace = session.Store()
		svc.Export = services.NewExporter(session.Store())
		svc.Gateway = gateway
		if notifier, ok := storage.Notifier(store); ok {
			svc.Notifier = notifier
		}
	}

	cli.SetServices(svc)
	if err := cli.Execute(ctx); err != nil {
		return 1
	}
	return 0
}
