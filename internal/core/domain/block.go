package domain

import (
	"fmt"
	"strings"
	"time"
)

// BlockType identifies the kind of content a block holds.
type BlockType string

// Available block types.
const (
	BlockParagraph    BlockType = "paragraph"
	BlockHeading1     BlockType = "heading1"
	BlockHeading2     BlockType = "heading2"
	BlockHeading3     BlockType = "heading3"
	BlockBulletList   BlockType = "bulletList"
	BlockNumberedList BlockType = "numberedList"
	BlockQuote        BlockType = "quote"
	BlockCode         BlockType = "code"
	BlockDivider      BlockType = "divider"
	BlockImage        BlockType = "image"
)

// BlockTypes lists every block type in toolbar order.
var BlockTypes = []BlockType{
	BlockParagraph,
	BlockHeading1,
	BlockHeading2,
	BlockHeading3,
	BlockBulletList,
	BlockNumberedList,
	BlockQuote,
	BlockCode,
	BlockDivider,
	BlockImage,
}

// blockTypeInfo is the catalogue entry for a block type.
type blockTypeInfo struct {
	label       string
	shortcut    string
	placeholder string
}

var blockCatalogue = map[BlockType]blockTypeInfo{
	BlockParagraph:    {label: "Text", shortcut: "p", placeholder: "Type something..."},
	BlockHeading1:     {label: "Heading 1", shortcut: "h1", placeholder: "Heading 1"},
	BlockHeading2:     {label: "Heading 2", shortcut: "h2", placeholder: "Heading 2"},
	BlockHeading3:     {label: "Heading 3", shortcut: "h3", placeholder: "Heading 3"},
	BlockBulletList:   {label: "Bullet List", shortcut: "ul", placeholder: "List item"},
	BlockNumberedList: {label: "Numbered List", shortcut: "ol", placeholder: "1. List item"},
	BlockQuote:        {label: "Quote", shortcut: "quote", placeholder: "Enter a quote..."},
	BlockCode:         {label: "Code", shortcut: "code", placeholder: "Enter code..."},
	BlockDivider:      {label: "Divider", shortcut: "div", placeholder: ""},
	BlockImage:        {label: "Image", shortcut: "img", placeholder: "Add image caption..."},
}

// IsValid returns true if the block type is recognised.
func (t BlockType) IsValid() bool {
	_, ok := blockCatalogue[t]
	return ok
}

// String returns the string representation.
func (t BlockType) String() string {
	return string(t)
}

// Label returns the human-readable name shown in block pickers.
func (t BlockType) Label() string {
	if info, ok := blockCatalogue[t]; ok {
		return info.label
	}
	return "Unknown"
}

// Shortcut returns the short alias accepted by ParseBlockType.
func (t BlockType) Shortcut() string {
	return blockCatalogue[t].shortcut
}

// Placeholder returns the text displayed while the block is empty.
func (t BlockType) Placeholder() string {
	if info, ok := blockCatalogue[t]; ok {
		return info.placeholder
	}
	return blockCatalogue[BlockParagraph].placeholder
}

// CanHaveContent reports whether the block carries editable text.
func (t BlockType) CanHaveContent() bool {
	return t != BlockDivider
}

// IsText reports whether the block is plain flowing text.
func (t BlockType) IsText() bool {
	switch t {
	case BlockParagraph, BlockHeading1, BlockHeading2, BlockHeading3,
		BlockBulletList, BlockNumberedList, BlockQuote:
		return true
	default:
		return false
	}
}

// ParseBlockType resolves a type name or its shortcut.
func ParseBlockType(s string) (BlockType, error) {
	s = strings.TrimSpace(s)
	if t := BlockType(s); t.IsValid() {
		return t, nil
	}
	for t, info := range blockCatalogue {
		if strings.EqualFold(info.shortcut, s) || strings.EqualFold(string(t), s) {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: block type %q", ErrUnsupportedType, s)
}

// Block is a single typed content unit within a page.
type Block struct {
	// ID is unique within the owning page and never changes.
	ID string

	// Type is fixed at creation.
	Type BlockType

	// Content is the block's text. Always empty for dividers.
	Content string

	// Properties holds the type-specific settings, nil for plain types.
	Properties BlockProperties

	// CreatedAt is when the block was created.
	CreatedAt time.Time

	// UpdatedAt is when the block was last changed.
	UpdatedAt time.Time
}

// Placeholder returns the empty-state text for this block.
func (b Block) Placeholder() string {
	return b.Type.Placeholder()
}
