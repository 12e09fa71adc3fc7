package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/quire/internal/core/domain"
)

func TestExportMarkdown(t *testing.T) {
	setupTestServices(t)

	out, err := execute("export", "markdown", domain.WelcomePageID)

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "# 👋 Welcome to NotionClone\n\n# Welcome to NotionClone\n"))
	assert.Contains(t, out, "- Click the + button to add new blocks\n- Use the sidebar")
	assert.Contains(t, out, "> This is what a quote block looks like!")
}

func TestExportMarkdown_NotFound(t *testing.T) {
	setupTestServices(t)

	_, err := execute("export", "markdown", "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestExportJSON(t *testing.T) {
	setupTestServices(t)

	out, err := execute("export", "json")

	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &raw))
	assert.Equal(t, []any{domain.WelcomePageID}, raw["pageOrder"])
}

func TestExportJSON_ToFile(t *testing.T) {
	setupTestServices(t)
	path := filepath.Join(t.TempDir(), "workspace.json")

	out, err := execute("export", "json", "--output", path)

	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"pageOrder"`)
}

func TestImport_RoundTrip(t *testing.T) {
	env := setupTestServices(t)
	_, err := env.store.CreateNewPage("Exported", "")
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "workspace.json")
	_, err = execute("export", "json", "-o", path)
	require.NoError(t, err)
	want := env.store.Snapshot()

	// Start over from a workspace without the exported page.
	env = setupTestServices(t)
	require.Equal(t, 1, env.store.Snapshot().Len())

	out, err := execute("import", path)

	require.NoError(t, err)
	assert.Contains(t, out, "Workspace imported")
	assert.Equal(t, want, env.store.Snapshot())
}

func TestImport_FromStdin(t *testing.T) {
	env := setupTestServices(t)
	payload := `{"pages":{"welcome":{"id":"welcome","title":"Hi","blocks":[],"children":[],` +
		`"createdAt":"2024-03-01T09:30:00.000Z","updatedAt":"2024-03-01T09:30:00.000Z"}},"pageOrder":["welcome"]}`
	rootCmd.SetIn(strings.NewReader(payload))
	defer rootCmd.SetIn(nil)

	_, err := execute("import", "-")

	require.NoError(t, err)
	page, ok := env.store.GetPageByID(domain.WelcomePageID)
	require.True(t, ok)
	assert.Equal(t, "Hi", page.Title)
}

func TestImport_InvalidPayload(t *testing.T) {
	env := setupTestServices(t)
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"pages":`), 0600))
	version := env.store.Version()

	_, err := execute("import", path)

	require.Error(t, err)
	assert.Equal(t, version, env.store.Version())
}

func TestImport_MissingFile(t *testing.T) {
	setupTestServices(t)

	_, err := execute("import", filepath.Join(t.TempDir(), "nope.json"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read import")
}
