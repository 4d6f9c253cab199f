package driven

import (
	"context"

	"github.com/custodia-labs/sercha-notes/internal/core/domain"
)

// RecordFunc receives records during a scan. Returning false stops the scan.
type RecordFunc func(rec domain.SearchRecord) bool

// IndexStore persists flat search records keyed by their composite ID.
// The store is a derived cache owned by a search session; it is rebuilt on
// session open and cleared on close.
type IndexStore interface {
	// Put stores or replaces a record.
	Put(ctx context.Context, rec domain.SearchRecord) error

	// ClearPage removes every record of a page.
	ClearPage(ctx context.Context, pageID string) error

	// Clear removes every record.
	Clear(ctx context.Context) error

	// Scan visits all records in store order (ascending ID).
	Scan(ctx context.Context, fn RecordFunc) error

	// ScanRoot visits the records of one root in (root ID, content) order.
	ScanRoot(ctx context.Context, rootID string, fn RecordFunc) error

	// PageRecords returns all records of a page ordered by ID.
	PageRecords(ctx context.Context, pageID string) ([]domain.SearchRecord, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}
