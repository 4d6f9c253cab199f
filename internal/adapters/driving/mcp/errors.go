// Package mcp provides an MCP (Model Context Protocol) server adapter for Sercha Notes.
// It lets AI assistants search the note index and refresh single pages.
package mcp

import "errors"

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("mcp: search service is required")

// ErrReindexUnavailable is returned by reindex_page when no index service is wired.
var ErrReindexUnavailable = errors.New("mcp: reindexing is not available")
