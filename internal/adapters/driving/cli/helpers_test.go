package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/quire/internal/adapters/driven/idgen"
	"github.com/custodia-labs/quire/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/quire/internal/core/services"
)

// testEnv holds the real services wired over in-memory adapters.
type testEnv struct {
	kv       *memory.KVStore
	config   *memory.ConfigStore
	store    *services.WorkspaceStore
	gateway  *services.PersistenceGateway
	settings *services.SettingsService
}

// setupTestServices configures the commands with a welcome workspace
// kept in memory. Everything is restored when the test ends.
func setupTestServices(t *testing.T) *testEnv {
	t.Helper()

	clock := func() time.Time { return time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC) }
	factory := services.NewEntityFactory(idgen.NewSequence("id"), clock)

	env := &testEnv{
		kv:     memory.NewKVStore(),
		config: memory.NewConfigStore(),
	}
	env.store = services.NewWorkspaceStore(factory.DefaultWorkspace(), factory)
	env.gateway = services.NewPersistenceGateway(env.kv, "")
	env.settings = services.NewSettingsService(env.config)

	SetServices(Services{
		Workspace: env.store,
		Export:    services.NewExporter(env.store),
		Settings:  env.settings,
		Gateway:   env.gateway,
		Notifier:  env.kv,
	})
	t.Cleanup(func() {
		SetServices(Services{})
		resetFlags(rootCmd)
	})
	return env
}

// execute runs the root command with args and returns the combined output.
func execute(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		resetFlags(rootCmd)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

// resetFlags restores every flag to its default so runs do not leak state.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if f.Changed {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		}
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}
