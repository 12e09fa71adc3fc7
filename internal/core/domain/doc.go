// Package domain defines the core business entities for quire.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Block: A typed content unit within a page
//   - BlockProperties: Per-type block settings (code language, list level, image)
//   - Page: A titled document node owning blocks and child page ids
//   - Workspace: All pages plus their display order
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
