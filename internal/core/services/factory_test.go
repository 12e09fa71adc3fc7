package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/quire/internal/adapters/driven/idgen"
	"github.com/custodia-labs/quire/internal/core/domain"
)

func TestEntityFactory_NewBlock(t *testing.T) {
	tests := []struct {
		blockType domain.BlockType
		want      domain.BlockProperties
	}{
		{domain.BlockParagraph, nil},
		{domain.BlockHeading1, nil},
		{domain.BlockQuote, nil},
		{domain.BlockDivider, nil},
		{domain.BlockCode, domain.CodeProperties{Language: "javascript"}},
		{domain.BlockBulletList, domain.ListProperties{Level: 0}},
		{domain.BlockNumberedList, domain.ListProperties{Level: 0}},
		{domain.BlockImage, domain.ImageProperties{URL: domain.DefaultImageURL, Caption: "Add a caption..."}},
	}

	for _, tt := range tests {
		t.Run(string(tt.blockType), func(t *testing.T) {
			factory, clock := newTestFactory()

			b := factory.NewBlock(tt.blockType, "hello")

			assert.NotEmpty(t, b.ID)
			assert.Equal(t, tt.blockType, b.Type)
			assert.Equal(t, "hello", b.Content)
			assert.Equal(t, tt.want, b.Properties)
			assert.Equal(t, clock.Now(), b.CreatedAt)
			assert.Equal(t, b.CreatedAt, b.UpdatedAt)
		})
	}
}

func TestEntityFactory_NewBlock_UniqueIDs(t *testing.T) {
	factory, _ := newTestFactory()
	seen := map[string]bool{}

	for i := 0; i < 100; i++ {
		b := factory.NewBlock(domain.BlockParagraph, "")
		require.False(t, seen[b.ID])
		seen[b.ID] = true
	}
}

func TestEntityFactory_NewPage(t *testing.T) {
	factory, clock := newTestFactory()

	p := factory.NewPage("Notes", "parent")

	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "Notes", p.Title)
	assert.Equal(t, "parent", p.ParentID)
	assert.Empty(t, p.Icon)
	assert.NotNil(t, p.Children)
	assert.Empty(t, p.Children)
	assert.False(t, p.IsExpanded)
	assert.Equal(t, clock.Now(), p.CreatedAt)
	require.Len(t, p.Blocks, 1)
	assert.Equal(t, domain.BlockParagraph, p.Blocks[0].Type)
	assert.Empty(t, p.Blocks[0].Content)
	assert.NotEqual(t, p.ID, p.Blocks[0].ID)
}

func TestEntityFactory_DefaultPage(t *testing.T) {
	factory, _ := newTestFactory()

	p := factory.DefaultPage()

	assert.Equal(t, domain.WelcomePageID, p.ID)
	assert.Equal(t, "Welcome to NotionClone", p.Title)
	assert.Equal(t, "👋", p.Icon)
	assert.True(t, p.IsExpanded)
	assert.Empty(t, p.ParentID)
	require.Len(t, p.Blocks, 16)
	assert.Equal(t, domain.BlockHeading1, p.Blocks[0].Type)
	assert.Equal(t, domain.BlockDivider, p.Blocks[14].Type)
	assert.Empty(t, p.Blocks[14].Content)
	assert.Equal(t, "Happy writing! 🚀", p.Blocks[15].Content)

	seen := map[string]bool{}
	for _, b := range p.Blocks {
		assert.False(t, seen[b.ID], "duplicate block id %s", b.ID)
		seen[b.ID] = true
	}
}

func TestEntityFactory_DefaultWorkspace(t *testing.T) {
	factory, _ := newTestFactory()

	ws := factory.DefaultWorkspace()

	assert.Equal(t, []string{domain.WelcomePageID}, ws.PageOrder)
	assert.Len(t, ws.Pages, 1)
	assert.NoError(t, ws.Validate())
}

func TestEntityFactory_Now_StripsMonotonic(t *testing.T) {
	local := time.FixedZone("CET", 3600)
	factory := NewEntityFactory(nil, func() time.Time {
		return time.Date(2024, 1, 1, 12, 0, 0, 0, local)
	})

	now := factory.Now()
	assert.Equal(t, time.UTC, now.Location())
	assert.Equal(t, 11, now.Hour())
}

func TestNewEntityFactory_DefaultClock(t *testing.T) {
	factory := NewEntityFactory(idgen.NewSequence("id"), nil)

	assert.WithinDuration(t, time.Now(), factory.Now(), time.Second)
}
