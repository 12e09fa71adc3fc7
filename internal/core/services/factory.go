package services

import (
	"time"

	"github.com/custodia-labs/quire/internal/core/domain"
	"github.com/custodia-labs/quire/internal/core/ports/driven"
)

// WelcomeTitle is the title of the seeded onboarding page.
const WelcomeTitle = "Welcome to NotionClone"

// welcomeBlocks is the onboarding content of the welcome page, in order.
var welcomeBlocks = []struct {
	blockType domain.BlockType
	content   string
}{
	{domain.BlockHeading1, "Welcome to NotionClone"},
	{domain.BlockParagraph, "This is your new productivity workspace. Start by creating pages, adding content blocks, and organizing your thoughts."},
	{domain.BlockHeading2, "Getting Started"},
	{domain.BlockBulletList, "Click the + button to add new blocks"},
	{domain.BlockBulletList, "Use the sidebar to create and navigate pages"},
	{domain.BlockBulletList, "Drag and drop blocks to reorder them"},
	{domain.BlockHeading2, "Block Types"},
	{domain.BlockParagraph, "You can create different types of content:"},
	{domain.BlockBulletList, "Text paragraphs for regular content"},
	{domain.BlockBulletList, "Headings for structure"},
	{domain.BlockBulletList, "Lists for organization"},
	{domain.BlockBulletList, "Code blocks for snippets"},
	{domain.BlockBulletList, "Quotes for emphasis"},
	{domain.BlockQuote, "This is what a quote block looks like!"},
	{domain.BlockDivider, ""},
	{domain.BlockParagraph, "Happy writing! 🚀"},
}

// EntityFactory stamps identifiers and timestamps onto new blocks and pages.
type EntityFactory struct {
	ids driven.IDGenerator
	now func() time.Time
}

// NewEntityFactory creates a factory. A nil clock defaults to time.Now.
func NewEntityFactory(ids driven.IDGenerator, now func() time.Time) *EntityFactory {
	if now == nil {
		now = time.Now
	}
	return &EntityFactory{ids: ids, now: now}
}

// Now returns the current time in UTC without a monotonic reading,
// so stamped values survive a persistence round-trip unchanged.
func (f *EntityFactory) Now() time.Time {
	return f.now().UTC().Round(0)
}

// NewBlock creates a block with default properties for its type.
func (f *EntityFactory) NewBlock(blockType domain.BlockType, content string) domain.Block {
	now := f.Now()
	return domain.Block{
		ID:         f.ids.NewID(),
		Type:       blockType,
		Content:    content,
		Properties: domain.DefaultProperties(blockType),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// NewPage creates a page holding a single empty paragraph.
func (f *EntityFactory) NewPage(title, parentID string) domain.Page {
	now := f.Now()
	return domain.Page{
		ID:         f.ids.NewID(),
		Title:      title,
		Blocks:     []domain.Block{f.NewBlock(domain.BlockParagraph, "")},
		ParentID:   parentID,
		Children:   []string{},
		CreatedAt:  now,
		UpdatedAt:  now,
		IsExpanded: false,
	}
}

// DefaultPage creates the welcome page seeded on first run.
func (f *EntityFactory) DefaultPage() domain.Page {
	now := f.Now()
	blocks := make([]domain.Block, 0, len(welcomeBlocks))
	for _, wb := range welcomeBlocks {
		blocks = append(blocks, f.NewBlock(wb.blockType, wb.content))
	}
	return domain.Page{
		ID:         domain.WelcomePageID,
		Title:      WelcomeTitle,
		Icon:       "👋",
		Blocks:     blocks,
		Children:   []string{},
		CreatedAt:  now,
		UpdatedAt:  now,
		IsExpanded: true,
	}
}

// DefaultWorkspace creates a workspace holding only the welcome page.
func (f *EntityFactory) DefaultWorkspace() *domain.Workspace {
	return domain.NewWorkspace(f.DefaultPage())
}
