// Package extractors turns block payloads into plain searchable text.
//
// The Registry is a dispatch table from block type to extraction rule.
// Container blocks (whiteboards, collapsibles, columns) recurse back into
// the registry, so nesting of any depth is handled as a structural fold.
// A lookup miss at any depth yields no content and is never an error.
//
// The Policy decides whether an element or block is eligible for indexing
// at all. Policy and extraction are independent: the index builder only
// writes a record when both agree.
//
// Extraction never fails. Malformed payloads degrade to empty content.
package extractors
