package domain

import "fmt"

// DefaultLanguage is the language stamped on new code blocks.
const DefaultLanguage = "javascript"

// Placeholder image shown until the user supplies one.
const (
	DefaultImageURL     = "https://storage.googleapis.com/workspace-0f70711f-8b4e-4d94-86f1-2a93ccde5887/image/b295f1e6-bbc2-441c-8c7a-d44e91523942.png"
	DefaultImageCaption = "Add a caption..."
)

// BlockProperties is the type-specific part of a block.
// The concrete variant is determined by the block type:
//
//   - code: CodeProperties
//   - bulletList, numberedList: ListProperties
//   - image: ImageProperties
//   - everything else: nil
type BlockProperties interface {
	blockProperties()
}

// CodeProperties configures a code block.
type CodeProperties struct {
	// Language is the syntax highlighting language.
	Language string
}

// ListProperties configures a list item.
type ListProperties struct {
	// Level is the nesting depth, starting at 0.
	Level int
}

// ImageProperties configures an image block.
type ImageProperties struct {
	URL     string
	Caption string
}

func (CodeProperties) blockProperties()  {}
func (ListProperties) blockProperties()  {}
func (ImageProperties) blockProperties() {}

// DefaultProperties returns the properties a freshly created block of type t carries.
func DefaultProperties(t BlockType) BlockProperties {
	switch t {
	case BlockCode:
		return CodeProperties{Language: DefaultLanguage}
	case BlockBulletList, BlockNumberedList:
		return ListProperties{Level: 0}
	case BlockImage:
		return ImageProperties{URL: DefaultImageURL, Caption: DefaultImageCaption}
	case BlockParagraph, BlockHeading1, BlockHeading2, BlockHeading3, BlockQuote, BlockDivider:
		return nil
	default:
		return nil
	}
}

// Accepts reports whether props is a valid properties variant for t.
// A nil value is accepted for every type.
func (t BlockType) Accepts(props BlockProperties) bool {
	if props == nil {
		return t.IsValid()
	}
	switch props.(type) {
	case CodeProperties:
		return t == BlockCode
	case ListProperties:
		return t == BlockBulletList || t == BlockNumberedList
	case ImageProperties:
		return t == BlockImage
	default:
		return false
	}
}

// ValidateProperties reports values no block may carry, such as a negative
// list level. The pairing with a block type is checked by Accepts.
func ValidateProperties(props BlockProperties) error {
	if p, ok := props.(ListProperties); ok && p.Level < 0 {
		return fmt.Errorf("%w: list level %d is negative", ErrInvalidInput, p.Level)
	}
	return nil
}
