package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/samber/lo"

	"github.com/custodia-labs/sercha-notes/internal/core/domain"
	"github.com/custodia-labs/sercha-notes/internal/core/ports/driven"
)

// Ensure IndexStore implements the interface.
var _ driven.IndexStore = (*IndexStore)(nil)

// IndexStore is an in-memory implementation of driven.IndexStore.
// Scans work on a snapshot, so callbacks may write to the store.
type IndexStore struct {
	mu      sync.RWMutex
	records map[string]domain.SearchRecord
	closed  bool
}

// NewIndexStore creates a new in-memory index store.
func NewIndexStore() *IndexStore {
	return &IndexStore{
		records: make(map[string]domain.SearchRecord),
	}
}

// Put stores or replaces a record.
func (s *IndexStore) Put(_ context.Context, rec domain.SearchRecord) error {
	if rec.ID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.ErrIndexUnavailable
	}
	s.records[rec.ID] = rec
	return nil
}

// ClearPage removes every record of a page.
func (s *IndexStore) ClearPage(_ context.Context, pageID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.ErrIndexUnavailable
	}
	for id, rec := range s.records {
		if rec.PageID == pageID {
			delete(s.records, id)
		}
	}
	return nil
}

// Clear removes every record.
func (s *IndexStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.ErrIndexUnavailable
	}
	s.records = make(map[string]domain.SearchRecord)
	return nil
}

// Scan visits all records in ascending ID order.
func (s *IndexStore) Scan(ctx context.Context, fn driven.RecordFunc) error {
	snapshot, err := s.snapshot(func(domain.SearchRecord) bool { return true })
	if err != nil {
		return err
	}
	sort.Slice(snapshot, func(i, j int) bool { return snapshot[i].ID < snapshot[j].ID })
	return visit(ctx, snapshot, fn)
}

// ScanRoot visits the records of one root in (root ID, content) order.
func (s *IndexStore) ScanRoot(ctx context.Context, rootID string, fn driven.RecordFunc) error {
	snapshot, err := s.snapshot(func(rec domain.SearchRecord) bool { return rec.RootID == rootID })
	if err != nil {
		return err
	}
	sort.Slice(snapshot, func(i, j int) bool {
		if snapshot[i].Content != snapshot[j].Content {
			return snapshot[i].Content < snapshot[j].Content
		}
		return snapshot[i].ID < snapshot[j].ID
	})
	return visit(ctx, snapshot, fn)
}

// PageRecords returns all records of a page ordered by ID.
func (s *IndexStore) PageRecords(_ context.Context, pageID string) ([]domain.SearchRecord, error) {
	records, err := s.snapshot(func(rec domain.SearchRecord) bool { return rec.PageID == pageID })
	if err != nil {
		return nil, err
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return records, nil
}

// Count returns the number of stored records.
func (s *IndexStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, domain.ErrIndexUnavailable
	}
	return len(s.records), nil
}

// Close discards all records. Further operations fail.
func (s *IndexStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.records = nil
	return nil
}

// snapshot copies the records matching keep.
func (s *IndexStore) snapshot(keep func(domain.SearchRecord) bool) ([]domain.SearchRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, domain.ErrIndexUnavailable
	}
	return lo.Filter(lo.Values(s.records), func(rec domain.SearchRecord, _ int) bool {
		return keep(rec)
	}), nil
}

// visit feeds records to fn until it returns false or ctx is done.
func visit(ctx context.Context, records []domain.SearchRecord, fn driven.RecordFunc) error {
	for i := range records {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !fn(records[i]) {
			return nil
		}
	}
	return nil
}
