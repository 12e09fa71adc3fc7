package driving

import "github.com/custodia-labs/quire/internal/core/domain"

// PageUpdate lists the page fields a caller may change. Nil fields are left alone.
type PageUpdate struct {
	Title      *string
	Icon       *string
	IsExpanded *bool
}

// BlockUpdate lists the block fields a caller may change. Nil fields are left alone.
// A block's type is fixed at creation and cannot be updated.
type BlockUpdate struct {
	Content    *string
	Properties domain.BlockProperties
}

// WorkspaceService is the operation interface the presentation layer uses.
// Every successful mutation installs a new snapshot; failed operations leave
// the current snapshot untouched. Operations that reference a missing page
// or block return an error wrapping domain.ErrNotFound.
type WorkspaceService interface {
	// Snapshot returns the current immutable workspace.
	Snapshot() *domain.Workspace

	// Version increases by one for every successful mutation.
	Version() uint64

	// GetPageByID returns a copy of the page.
	GetPageByID(id string) (domain.Page, bool)

	// RootPages returns the top-level pages in display order.
	RootPages() []domain.Page

	// ChildPages returns the children of a page in display order.
	ChildPages(id string) []domain.Page

	// NewBlock builds a block of the given type with fresh id and timestamps.
	NewBlock(blockType domain.BlockType, content string) domain.Block

	// UpdatePage merges the update into the page and refreshes UpdatedAt.
	UpdatePage(id string, update PageUpdate) error

	// AddBlock appends a block to the page.
	AddBlock(pageID string, block domain.Block) error

	// InsertBlock inserts a block at index, clamped to [0, len(blocks)].
	InsertBlock(pageID string, block domain.Block, index int) error

	// InsertBlockAfter inserts a block directly after another block.
	InsertBlockAfter(pageID, afterBlockID string, block domain.Block) error

	// UpdateBlock merges the update into the block and refreshes UpdatedAt.
	UpdateBlock(pageID, blockID string, update BlockUpdate) error

	// DeleteBlock removes a block from the page.
	DeleteBlock(pageID, blockID string) error

	// ReorderBlocks moves the block at from to position to.
	// Both indices must address existing blocks.
	ReorderBlocks(pageID string, from, to int) error

	// CreateNewPage creates a page, optionally under parentID.
	// An unknown parentID yields a top-level page.
	CreateNewPage(title, parentID string) (domain.Page, error)

	// DeletePage removes a page and all of its descendants.
	DeletePage(id string) error

	// Replace swaps in a whole workspace, e.g. after an import.
	Replace(ws *domain.Workspace) error

	// Subscribe registers a listener called after every successful mutation.
	// The returned function removes the listener.
	Subscribe(fn func(ws *domain.Workspace, version uint64)) (unsubscribe func())
}
