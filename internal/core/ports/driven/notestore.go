package driven

import (
	"context"

	"github.com/custodia-labs/sercha-notes/internal/core/domain"
)

// NoteStore supplies pages from the encrypted content store.
// Implementations return plain, already-decrypted structures; the core
// never handles key material beyond passing it through.
type NoteStore interface {
	// GetAllEntries returns metadata for every page. Elements are not populated.
	GetAllEntries(ctx context.Context) ([]domain.Page, error)

	// GetAllContent returns the decrypted body of every page.
	GetAllContent(ctx context.Context, masterKey []byte) ([]domain.PageContent, error)

	// GetEntry returns a single decrypted page including its elements.
	// Returns domain.ErrNotFound if the page does not exist.
	GetEntry(ctx context.Context, pageID string, masterKey []byte) (*domain.Page, error)
}

// NoteWatcher is implemented by note stores that can report changes.
// The index is not updated on change; callers use the signal to mark
// the current session's index as stale.
type NoteWatcher interface {
	// Watch emits the ID of each changed page until ctx is cancelled.
	Watch(ctx context.Context) (<-chan string, error)
}
