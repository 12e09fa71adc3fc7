package cli

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/quire/internal/core/domain"
	"github.com/custodia-labs/quire/internal/logger"
)

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "quire", rootCmd.Use)
}

func TestRootCmd_HasCommands(t *testing.T) {
	commands := rootCmd.Commands()
	commandNames := make([]string, 0, len(commands))
	for _, cmd := range commands {
		commandNames = append(commandNames, cmd.Name())
	}

	for _, name := range []string{"page", "block", "export", "import", "check", "reset", "watch", "settings", "version", "mcp"} {
		assert.Contains(t, commandNames, name)
	}
}

func TestRootCmd_VerboseFlag(t *testing.T) {
	defer logger.SetVerbose(false)

	_, err := execute("--verbose", "version")
	require.NoError(t, err)
	assert.True(t, logger.IsVerbose())

	_, err = execute("version")
	require.NoError(t, err)
	assert.False(t, logger.IsVerbose())
}

func TestRequireWorkspace_ReportsStorageError(t *testing.T) {
	storageFailure := errors.Join(domain.ErrStorageUnavailable, errors.New("connection refused"))
	SetServices(Services{StorageErr: storageFailure})
	defer SetServices(Services{})

	_, err := execute("page", "list")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
}

func TestExecute_UsesContext(t *testing.T) {
	SetVersion("1.2.3")
	defer SetVersion("dev")

	buf := &syncBuffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"version"})
	defer rootCmd.SetArgs(nil)

	require.NoError(t, Execute(context.Background()))
	assert.Contains(t, buf.String(), "quire version 1.2.3")
}
