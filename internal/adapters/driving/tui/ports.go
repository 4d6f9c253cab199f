// Package tui provides an interactive terminal user interface for sercha-notes.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/sercha-notes/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-notes/internal/core/ports/driving"
)

// Ports aggregates the port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Session drives the debounced search lifecycle. Required.
	Session driving.SearchSession

	// Indexer rebuilds the index on request. Optional.
	Indexer driving.IndexService

	// Watcher reports note store changes. Optional.
	Watcher driven.NoteWatcher

	// MasterKey unlocks sensitive pages during rebuilds.
	MasterKey []byte
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Session == nil {
		return ErrMissingSession
	}
	return nil
}
