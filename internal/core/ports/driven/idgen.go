package driven

// IDGenerator produces identifiers for pages and blocks.
// Identifiers are short opaque strings, unique with overwhelming probability.
// NewID must not block.
type IDGenerator interface {
	NewID() string
}
