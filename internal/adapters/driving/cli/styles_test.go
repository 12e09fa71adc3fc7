package cli

import (
	"bytes"
	"os"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestDefaultTheme(t *testing.T) {
	theme := DefaultTheme()

	assert.Equal(t, lipgloss.Color("#7C3AED"), theme.Primary)
	assert.Equal(t, lipgloss.Color("#06B6D4"), theme.Secondary)
	assert.Equal(t, lipgloss.Color("#6C7086"), theme.Muted)
}

func TestNewStyles_NilThemeUsesDefault(t *testing.T) {
	styles := NewStyles(nil)

	assert.Equal(t, lipgloss.Color("#7C3AED"), styles.Title.GetForeground())
	assert.True(t, styles.Title.GetBold())
}

func TestPlainStyles_RenderUnchanged(t *testing.T) {
	st := PlainStyles()

	for _, s := range []lipgloss.Style{st.Title, st.Label, st.Muted, st.Success, st.Warning, st.Error} {
		assert.Equal(t, "id-1", s.Render("id-1"))
	}
}

func TestStylesFor_NonTerminal(t *testing.T) {
	assert.False(t, stylesFor(new(bytes.Buffer)).Title.GetBold())

	f, err := os.CreateTemp(t.TempDir(), "out")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	assert.False(t, stylesFor(f).Title.GetBold())
}
