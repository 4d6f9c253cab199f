package mcp

import (
	"github.com/custodia-labs/sercha-notes/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces used by the MCP server.
type Ports struct {
	// Search answers search_notes calls.
	Search driving.SearchService

	// Indexer backs reindex_page. Optional.
	Indexer driving.IndexService

	// Settings backs the settings resource. Optional.
	Settings driving.SettingsService

	// MasterKey unlocks sensitive pages when reindexing.
	MasterKey []byte
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	return nil
}
