package domain

import (
	"slices"
	"time"
)

// WelcomePageID is the id of the seeded onboarding page. It can never be deleted.
const WelcomePageID = "welcome"

// Page is a titled document node in the page tree.
type Page struct {
	// ID is unique within the workspace and never changes.
	ID string

	// Title is the human-readable title. May be empty ("Untitled").
	Title string

	// Icon is an optional short string, usually a single emoji.
	Icon string

	// Blocks is the page content in document order.
	Blocks []Block

	// ParentID references the parent page. Empty for top-level pages.
	ParentID string

	// Children lists child page ids in display order.
	Children []string

	// CreatedAt is when the page was created.
	CreatedAt time.Time

	// UpdatedAt is when the page or any of its blocks last changed.
	UpdatedAt time.Time

	// IsExpanded is a display flag for the sidebar tree.
	IsExpanded bool
}

// DisplayTitle returns the title, or "Untitled" when empty.
func (p Page) DisplayTitle() string {
	if p.Title == "" {
		return "Untitled"
	}
	return p.Title
}

// IsProtected reports whether the page may not be deleted.
func (p Page) IsProtected() bool {
	return p.ID == WelcomePageID
}

// BlockIndex returns the position of the block with the given id, or -1.
func (p Page) BlockIndex(blockID string) int {
	return slices.IndexFunc(p.Blocks, func(b Block) bool { return b.ID == blockID })
}

// Clone returns a copy of the page that shares no slices with p.
func (p Page) Clone() Page {
	p.Blocks = slices.Clone(p.Blocks)
	p.Children = slices.Clone(p.Children)
	return p
}
