// Package cli implements the quire command line.
//
// Commands only talk to the driving ports. The composition root in cmd/quire
// opens the session and hands the services over with SetServices.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/quire/internal/core/ports/driven"
	"github.com/custodia-labs/quire/internal/core/ports/driving"
	"github.com/custodia-labs/quire/internal/logger"
)

// version is set at build time with -ldflags "-X ...cli.version=...".
var version = "dev"

// Services configured by the composition root.
var (
	workspaceService driving.WorkspaceService
	exportService    driving.ExportService
	settingsService  driving.SettingsService
	gateway          driving.PersistenceGateway
	notifier         driven.ChangeNotifier
	storageKey       string

	// storageErr explains why the workspace services are missing.
	storageErr error
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "quire",
	Short: "Block-based document workspace",
	Long: `Quire keeps a tree of pages made of typed blocks: paragraphs, headings,
lists, quotes, code, dividers and images.

The workspace is saved automatically to the configured storage backend.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// Services holds the collaborators the commands operate on.
type Services struct {
	Workspace driving.WorkspaceService
	Export    driving.ExportService
	Settings  driving.SettingsService
	Gateway   driving.PersistenceGateway

	// Notifier is optional; without it the watch command is unavailable.
	Notifier driven.ChangeNotifier

	// StorageKey is the key the workspace is saved under.
	StorageKey string

	// StorageErr is reported by workspace commands when storage could not be opened.
	StorageErr error
}

// SetServices configures the services used by the commands.
func SetServices(s Services) {
	workspaceService = s.Workspace
	exportService = s.Export
	settingsService = s.Settings
	gateway = s.Gateway
	notifier = s.Notifier
	storageKey = s.StorageKey
	storageErr = s.StorageErr
}

// SetVersion overrides the reported version.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// requireWorkspace returns the workspace service or the reason it is missing.
func requireWorkspace() (driving.WorkspaceService, error) {
	if workspaceService != nil {
		return workspaceService, nil
	}
	if storageErr != nil {
		return nil, storageErr
	}
	return nil, errors.New("workspace service not configured")
}

// commandContext returns the command's context, or Background when unset.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
