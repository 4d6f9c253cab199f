// Package domain defines the core business entities for Sercha Notes.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Page: A note, whiteboard or workspace supplied by the note store
//   - Element: A positioned content region within a page
//   - Block: The smallest content unit inside an element
//   - SearchRecord: A flattened, searchable projection of a title or block
//   - SearchResult: A shaped, ranked match returned to the presentation layer
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
