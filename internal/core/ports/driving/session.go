package driving

import (
	"context"

	"github.com/custodia-labs/sercha-notes/internal/core/domain"
)

// SearchSession is the interactive, debounced search lifecycle consumed by
// presentation layers.
type SearchSession interface {
	// Open builds the index. It returns once the index is ready for queries.
	Open(ctx context.Context) error

	// Close cancels pending work, clears state and tears the index down.
	Close(ctx context.Context) error

	// HandleQueryChange records new query text and (re)arms the debounce.
	HandleQueryChange(text string)

	// HandleEnterKey searches the current query immediately.
	HandleEnterKey()

	// ClearSearch resets the query and results.
	ClearSearch()

	// SetScope restricts subsequent searches to one workspace. Empty clears it.
	SetScope(rootID string)

	// Snapshot returns the current reactive state.
	Snapshot() domain.SessionSnapshot

	// Subscribe registers fn to receive every state change.
	// The returned function removes the subscription.
	Subscribe(fn func(domain.SessionSnapshot)) (unsubscribe func())
}
