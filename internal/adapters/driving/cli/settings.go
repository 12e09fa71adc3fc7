package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/quire/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the storage backend and autosave behaviour.

Changes take effect the next time quire starts.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsBackendCmd = &cobra.Command{
	Use:   "backend [name]",
	Short: "Select the storage backend",
	Long: `Select where the workspace is saved.

Available backends:
  file   - One JSON file per key in the data directory (default)
  sqlite - SQLite database in the data directory
  redis  - Redis server (set --redis-url)
  memory - Process memory only, nothing is saved

Without a name, an interactive menu is shown.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSettingsBackend,
}

var settingsAutosaveCmd = &cobra.Command{
	Use:   "autosave [delay]",
	Short: "Set the autosave delay",
	Long: `Set how long to wait after the last edit before saving. The delay is a
duration such as "750ms" or "2s", or a plain number of milliseconds.`,
	Args: cobra.ExactArgs(1),
	RunE: runSettingsAutosave,
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore default settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsReset,
}

// Flags for settings backend.
var (
	settingsDataDir  string
	settingsRedisURL string
	settingsKey      string
)

func init() {
	settingsBackendCmd.Flags().StringVar(&settingsDataDir, "data-dir", "", "Data directory for file and sqlite backends")
	settingsBackendCmd.Flags().StringVar(&settingsRedisURL, "redis-url", "", "Redis connection URL")
	settingsBackendCmd.Flags().StringVar(&settingsKey, "key", "", "Key the workspace is saved under")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsBackendCmd)
	settingsCmd.AddCommand(settingsAutosaveCmd)
	settingsCmd.AddCommand(settingsResetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Storage]")
	cmd.Printf("  Backend: %s\n", settings.Storage.Backend.Description())
	switch settings.Storage.Backend {
	case domain.StorageFile, domain.StorageSQLite:
		dataDir := settings.Storage.DataDir
		if dataDir == "" {
			dataDir = "(default)"
		}
		cmd.Printf("  Data directory: %s\n", dataDir)
	case domain.StorageRedis:
		cmd.Printf("  Redis URL: %s\n", maskURL(settings.Storage.RedisURL))
	case domain.StorageMemory:
	}
	cmd.Printf("  Key: %s\n", settings.Storage.Key)
	cmd.Println()

	cmd.Println("[Autosave]")
	cmd.Printf("  Delay: %s\n", settings.Autosave.Delay)
	cmd.Println()

	cmd.Printf("Config file: %s\n", settingsService.Path())

	if err := settings.Validate(); err != nil {
		cmd.Printf("\nWarning: %v\n", err)
	}
	return nil
}

func runSettingsBackend(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	var backend domain.StorageBackend
	if len(args) == 1 {
		backend = domain.StorageBackend(strings.ToLower(args[0]))
	} else {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return errors.New("backend name required")
		}
		backends := domain.AllStorageBackends()
		cmd.Println("Select Storage Backend")
		cmd.Println("----------------------")
		for i, b := range backends {
			cmd.Printf("  %d. %s\n", i+1, b.Description())
		}
		cmd.Print("\nEnter choice: ")
		idx := parseChoice(readLine(bufio.NewReader(cmd.InOrStdin())), len(backends), 0)
		if idx == 0 {
			return errors.New("invalid selection")
		}
		backend = backends[idx-1]
	}
	if !backend.IsValid() {
		return fmt.Errorf("%w: storage backend %q", domain.ErrUnsupportedType, backend)
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	settings.Storage.Backend = backend
	if cmd.Flags().Changed("data-dir") {
		settings.Storage.DataDir = settingsDataDir
	}
	if cmd.Flags().Changed("redis-url") {
		settings.Storage.RedisURL = settingsRedisURL
	}
	if cmd.Flags().Changed("key") {
		settings.Storage.Key = settingsKey
	}
	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	cmd.Printf("Storage backend set to: %s\n", backend.Description())
	if !backend.IsDurable() {
		cmd.Println("\nNote: changes will be lost when quire exits.")
	}
	return nil
}

func runSettingsAutosave(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	delay, err := parseDelay(args[0])
	if err != nil {
		return err
	}
	if err := settingsService.SetAutosaveDelay(delay); err != nil {
		return fmt.Errorf("failed to set autosave delay: %w", err)
	}
	cmd.Printf("Autosave delay set to: %s\n", delay)
	return nil
}

func runSettingsReset(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if err := settingsService.Reset(); err != nil {
		return fmt.Errorf("failed to reset settings: %w", err)
	}
	cmd.Println("Settings restored to defaults")
	return nil
}

// parseDelay accepts a Go duration or a number of milliseconds.
func parseDelay(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if ms, err := strconv.Atoi(s); err == nil {
		if ms < 0 {
			return 0, fmt.Errorf("%w: delay must not be negative", domain.ErrInvalidInput)
		}
		return time.Duration(ms) * time.Millisecond, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%w: delay %q", domain.ErrInvalidInput, s)
	}
	if d < 0 {
		return 0, fmt.Errorf("%w: delay must not be negative", domain.ErrInvalidInput)
	}
	return d, nil
}

// maskURL hides the password of a connection URL.
func maskURL(raw string) string {
	scheme, rest, ok := strings.Cut(raw, "://")
	if !ok {
		return raw
	}
	userinfo, host, ok := strings.Cut(rest, "@")
	if !ok {
		return raw
	}
	user, _, hasPassword := strings.Cut(userinfo, ":")
	if !hasPassword {
		return raw
	}
	return scheme + "://" + user + ":****@" + host
}

func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}
