package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/quire/internal/core/domain"
)

// newPage creates an empty page and returns its id and its single paragraph id.
func newPage(t *testing.T, env *testEnv) (string, string) {
	t.Helper()
	page, err := env.store.CreateNewPage("Scratch", "")
	require.NoError(t, err)
	return page.ID, page.Blocks[0].ID
}

func TestBlockCmd_HasSubcommands(t *testing.T) {
	commands := blockCmd.Commands()
	commandNames := make([]string, 0, len(commands))
	for _, cmd := range commands {
		commandNames = append(commandNames, cmd.Name())
	}

	for _, name := range []string{"add", "edit", "delete", "move", "types"} {
		assert.Contains(t, commandNames, name)
	}
}

func TestBlockAdd_Appends(t *testing.T) {
	env := setupTestServices(t)
	pageID, _ := newPage(t, env)

	out, err := execute("block", "add", pageID, "h2", "Agenda")

	require.NoError(t, err)
	assert.Contains(t, out, "Added Heading 2 block")
	page, _ := env.store.GetPageByID(pageID)
	require.Len(t, page.Blocks, 2)
	assert.Equal(t, domain.BlockHeading2, page.Blocks[1].Type)
	assert.Equal(t, "Agenda", page.Blocks[1].Content)
}

func TestBlockAdd_WithProperties(t *testing.T) {
	env := setupTestServices(t)
	pageID, _ := newPage(t, env)

	_, err := execute("block", "add", pageID, "code", "fmt.Println()", "--language", "go")
	require.NoError(t, err)
	_, err = execute("block", "add", pageID, "ul", "nested", "--level", "2")
	require.NoError(t, err)
	_, err = execute("block", "add", pageID, "img", "--url", "https://example.com/a.png")
	require.NoError(t, err)

	page, _ := env.store.GetPageByID(pageID)
	require.Len(t, page.Blocks, 4)
	assert.Equal(t, domain.CodeProperties{Language: "go"}, page.Blocks[1].Properties)
	assert.Equal(t, domain.ListProperties{Level: 2}, page.Blocks[2].Properties)
	assert.Equal(t, domain.ImageProperties{
		URL:     "https://example.com/a.png",
		Caption: domain.DefaultImageCaption,
	}, page.Blocks[3].Properties)
}

func TestBlockAdd_PropertyFlagsDoNotLeak(t *testing.T) {
	env := setupTestServices(t)
	pageID, _ := newPage(t, env)

	_, err := execute("block", "add", pageID, "code", "--language", "rust")
	require.NoError(t, err)
	_, err = execute("block", "add", pageID, "code")
	require.NoError(t, err)

	page, _ := env.store.GetPageByID(pageID)
	assert.Equal(t, domain.CodeProperties{Language: domain.DefaultLanguage}, page.Blocks[2].Properties)
}

func TestBlockAdd_Positioning(t *testing.T) {
	env := setupTestServices(t)
	pageID, firstID := newPage(t, env)
	_, err := execute("block", "add", pageID, "p", "last")
	require.NoError(t, err)

	_, err = execute("block", "add", pageID, "quote", "after first", "--after", firstID)
	require.NoError(t, err)
	_, err = execute("block", "add", pageID, "h1", "top", "--index", "0")
	require.NoError(t, err)
	_, err = execute("block", "add", pageID, "p", "clamped", "--index", "99")
	require.NoError(t, err)

	page, _ := env.store.GetPageByID(pageID)
	contents := make([]string, len(page.Blocks))
	for i, b := range page.Blocks {
		contents[i] = b.Content
	}
	assert.Equal(t, []string{"top", "", "after first", "last", "clamped"}, contents)
}

func TestBlockAdd_Errors(t *testing.T) {
	env := setupTestServices(t)
	pageID, _ := newPage(t, env)

	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{"unknown type", []string{"block", "add", pageID, "table"}, domain.ErrUnsupportedType},
		{"missing page", []string{"block", "add", "missing", "p"}, domain.ErrNotFound},
		{"divider with content", []string{"block", "add", pageID, "div", "text"}, domain.ErrInvalidInput},
		{"missing anchor", []string{"block", "add", pageID, "p", "--after", "nope"}, domain.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(tt.args...)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	page, _ := env.store.GetPageByID(pageID)
	assert.Len(t, page.Blocks, 1, "failed adds leave the page unchanged")
}

func TestBlockEdit(t *testing.T) {
	env := setupTestServices(t)
	pageID, blockID := newPage(t, env)

	out, err := execute("block", "edit", pageID, blockID, "Hello")

	require.NoError(t, err)
	assert.Contains(t, out, "Updated block "+blockID)
	page, _ := env.store.GetPageByID(pageID)
	assert.Equal(t, "Hello", page.Blocks[0].Content)
	assert.Equal(t, domain.BlockParagraph, page.Blocks[0].Type)
}

func TestBlockEdit_Properties(t *testing.T) {
	env := setupTestServices(t)
	pageID, _ := newPage(t, env)
	code := env.store.NewBlock(domain.BlockCode, "x := 1")
	require.NoError(t, env.store.AddBlock(pageID, code))

	_, err := execute("block", "edit", pageID, code.ID, "--language", "go")

	require.NoError(t, err)
	page, _ := env.store.GetPageByID(pageID)
	assert.Equal(t, domain.CodeProperties{Language: "go"}, page.Blocks[1].Properties)
	assert.Equal(t, "x := 1", page.Blocks[1].Content, "content is kept")
}

func TestBlockEdit_NothingToChange(t *testing.T) {
	env := setupTestServices(t)
	pageID, blockID := newPage(t, env)

	_, err := execute("block", "edit", pageID, blockID)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBlockDelete(t *testing.T) {
	env := setupTestServices(t)
	pageID, blockID := newPage(t, env)

	_, err := execute("block", "delete", pageID, blockID)
	require.NoError(t, err)

	page, _ := env.store.GetPageByID(pageID)
	assert.Empty(t, page.Blocks)

	_, err = execute("block", "delete", pageID, blockID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBlockMove(t *testing.T) {
	env := setupTestServices(t)
	pageID, _ := newPage(t, env)
	for _, c := range []string{"b", "c"} {
		_, err := execute("block", "add", pageID, "p", c)
		require.NoError(t, err)
	}

	out, err := execute("block", "move", pageID, "2", "0")

	require.NoError(t, err)
	assert.Contains(t, out, "Moved block from 2 to 0")
	page, _ := env.store.GetPageByID(pageID)
	assert.Equal(t, "c", page.Blocks[0].Content)
}

func TestBlockMove_Rejected(t *testing.T) {
	env := setupTestServices(t)
	pageID, _ := newPage(t, env)
	version := env.store.Version()

	_, err := execute("block", "move", pageID, "0", "5")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = execute("block", "move", pageID, "zero", "0")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.Equal(t, version, env.store.Version())
}

func TestBlockTypes(t *testing.T) {
	out, err := execute("block", "types")

	require.NoError(t, err)
	for _, bt := range domain.BlockTypes {
		assert.Contains(t, out, string(bt))
		assert.Contains(t, out, bt.Label())
	}
}

func TestBlockSummary(t *testing.T) {
	st := PlainStyles()

	tests := []struct {
		name  string
		block domain.Block
		want  string
	}{
		{"empty uses placeholder", domain.Block{Type: domain.BlockQuote}, "Enter a quote..."},
		{"first line only", domain.Block{Type: domain.BlockParagraph, Content: "one\ntwo"}, "one"},
		{"divider", domain.Block{Type: domain.BlockDivider}, "---"},
		{"code language", domain.Block{
			Type:       domain.BlockCode,
			Content:    "SELECT 1",
			Properties: domain.CodeProperties{Language: "sql"},
		}, "[sql] SELECT 1"},
		{"list level", domain.Block{
			Type:       domain.BlockBulletList,
			Content:    "deep",
			Properties: domain.ListProperties{Level: 2},
		}, "    deep"},
		{"negative list level", domain.Block{
			Type:       domain.BlockBulletList,
			Content:    "flat",
			Properties: domain.ListProperties{Level: -1},
		}, "flat"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, blockSummary(tt.block, st))
		})
	}
}

func TestTruncate(t *testing.T) {
	short := "short"
	assert.Equal(t, short, truncate(short))

	long := make([]rune, summaryWidth+10)
	for i := range long {
		long[i] = 'é'
	}
	got := []rune(truncate(string(long)))
	assert.Len(t, got, summaryWidth)
	assert.Equal(t, "...", string(got[len(got)-3:]))
}
