// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/sercha-notes/internal/core/domain"
)

// SnapshotUpdated carries a new session state from the search session.
type SnapshotUpdated struct {
	Snapshot domain.SessionSnapshot
}

// IndexOpened is sent once the session has built its index.
type IndexOpened struct {
	Err error
}

// IndexRebuilt is sent when a manual rebuild completes.
type IndexRebuilt struct {
	Stats domain.IndexStats
	Err   error
}

// NotesChanged is sent when the note store reports a modified page.
type NotesChanged struct {
	PageID string
}

// ResultSelected is sent when a search result is opened for preview.
type ResultSelected struct {
	Result domain.SearchResult
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewSearch is the search input and results view.
	ViewSearch ViewType = iota
	// ViewPreview shows the full content of a single result.
	ViewPreview
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewSearch:
		return "search"
	case ViewPreview:
		return "preview"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
