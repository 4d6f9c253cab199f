package services

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/custodia-labs/sercha-notes/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/sercha-notes/internal/core/domain"
	"github.com/custodia-labs/sercha-notes/internal/core/ports/driven"
)

// spyIndexStore wraps the memory store, counting scans and injecting failures.
type spyIndexStore struct {
	*memory.IndexStore
	putErr  error
	scanErr error
	scans   atomic.Int32
}

func newSpyIndexStore() *spyIndexStore {
	return &spyIndexStore{IndexStore: memory.NewIndexStore()}
}

func (s *spyIndexStore) Put(ctx context.Context, rec domain.SearchRecord) error {
	if s.putErr != nil {
		return s.putErr
	}
	return s.IndexStore.Put(ctx, rec)
}

func (s *spyIndexStore) Scan(ctx context.Context, fn driven.RecordFunc) error {
	s.scans.Add(1)
	if s.scanErr != nil {
		return s.scanErr
	}
	return s.IndexStore.Scan(ctx, fn)
}

func (s *spyIndexStore) ScanRoot(ctx context.Context, rootID string, fn driven.RecordFunc) error {
	s.scans.Add(1)
	if s.scanErr != nil {
		return s.scanErr
	}
	return s.IndexStore.ScanRoot(ctx, rootID, fn)
}

// fakeEngine records queries and can hold responses until released.
type fakeEngine struct {
	mu      sync.Mutex
	queries []string
	scopes  []string
	gates   map[string]chan struct{}
	err     error
	respond func(query string) []domain.SearchResult
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		gates: make(map[string]chan struct{}),
		respond: func(query string) []domain.SearchResult {
			return []domain.SearchResult{{PageID: "p-" + query, Snippet: query}}
		},
	}
}

// hold makes searches for query block until the returned func is called.
func (e *fakeEngine) hold(query string) (release func()) {
	gate := make(chan struct{})
	e.mu.Lock()
	e.gates[query] = gate
	e.mu.Unlock()
	return func() { close(gate) }
}

func (e *fakeEngine) PerformSearch(
	ctx context.Context, query string, opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	e.mu.Lock()
	e.queries = append(e.queries, query)
	e.scopes = append(e.scopes, opts.Scope)
	gate := e.gates[query]
	err := e.err
	e.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return []domain.SearchResult{}, ctx.Err()
		}
	}
	if err != nil {
		return []domain.SearchResult{}, err
	}
	return e.respond(query), nil
}

func (e *fakeEngine) Scopes() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, len(e.scopes))
	copy(out, e.scopes)
	return out
}

func (e *fakeEngine) Queries() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, len(e.queries))
	copy(out, e.queries)
	return out
}

// fakeIndexer counts lifecycle calls made by the session.
type fakeIndexer struct {
	initCalls  atomic.Int32
	clearCalls atomic.Int32
	initErr    error
}

func (f *fakeIndexer) IndexPage(context.Context, *domain.Page, domain.PageContent) (int, error) {
	return 0, nil
}

func (f *fakeIndexer) InitializeSearchIndex(context.Context, []byte) (domain.IndexStats, error) {
	f.initCalls.Add(1)
	return domain.IndexStats{}, f.initErr
}

func (f *fakeIndexer) ReindexPage(context.Context, string, []byte) error {
	return nil
}

func (f *fakeIndexer) ClearSearchIndex(context.Context) error {
	f.clearCalls.Add(1)
	return nil
}

func (f *fakeIndexer) ClearPageIndex(context.Context, string) error {
	return nil
}
