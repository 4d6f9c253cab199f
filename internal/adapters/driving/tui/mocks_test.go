package tui

import (
	"context"
	"sync"

	"github.com/custodia-labs/sercha-notes/internal/core/domain"
)

// fakeSession implements driving.SearchSession. Query changes publish a
// pending snapshot synchronously, like the real session does.
type fakeSession struct {
	mu          sync.Mutex
	openErr     error
	opened      int
	closed      int
	enters      int
	query       string
	subscribers map[int]func(domain.SessionSnapshot)
	next        int
}

func newFakeSession() *fakeSession {
	return &fakeSession{subscribers: make(map[int]func(domain.SessionSnapshot))}
}

func (s *fakeSession) Open(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opened++
	return s.openErr
}

func (s *fakeSession) Close(context.Context) error {
	s.mu.Lock()
	s.closed++
	s.mu.Unlock()
	s.publish(domain.SessionSnapshot{State: domain.SessionIdle})
	return nil
}

func (s *fakeSession) HandleQueryChange(text string) {
	s.mu.Lock()
	s.query = text
	s.mu.Unlock()
	s.publish(domain.SessionSnapshot{Query: text, IsSearching: true, State: domain.SessionPending})
}

func (s *fakeSession) HandleEnterKey() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enters++
}

func (s *fakeSession) ClearSearch() {
	s.mu.Lock()
	s.query = ""
	s.mu.Unlock()
	s.publish(domain.SessionSnapshot{State: domain.SessionIdle})
}

func (s *fakeSession) SetScope(string) {}

func (s *fakeSession) Snapshot() domain.SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.SessionSnapshot{Query: s.query}
}

func (s *fakeSession) Subscribe(fn func(domain.SessionSnapshot)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.next
	s.next++
	s.subscribers[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}

func (s *fakeSession) publish(snap domain.SessionSnapshot) {
	s.mu.Lock()
	subs := make([]func(domain.SessionSnapshot), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.mu.Unlock()
	for _, fn := range subs {
		fn(snap)
	}
}

func (s *fakeSession) subscriberCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subscribers)
}

// fakeIndexer implements driving.IndexService.
type fakeIndexer struct {
	mu      sync.Mutex
	stats   domain.IndexStats
	err     error
	keys    [][]byte
	rebuilt int
}

func (f *fakeIndexer) IndexPage(context.Context, *domain.Page, domain.PageContent) (int, error) {
	return 0, nil
}

func (f *fakeIndexer) InitializeSearchIndex(_ context.Context, masterKey []byte) (domain.IndexStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rebuilt++
	f.keys = append(f.keys, masterKey)
	return f.stats, f.err
}

func (f *fakeIndexer) ReindexPage(context.Context, string, []byte) error { return nil }
func (f *fakeIndexer) ClearSearchIndex(context.Context) error             { return nil }
func (f *fakeIndexer) ClearPageIndex(context.Context, string) error       { return nil }

// fakeWatcher implements driven.NoteWatcher over a channel the test owns.
type fakeWatcher struct {
	ch  chan string
	err error
	ctx context.Context
}

func (w *fakeWatcher) Watch(ctx context.Context) (<-chan string, error) {
	w.ctx = ctx
	if w.err != nil {
		return nil, w.err
	}
	return w.ch, nil
}
