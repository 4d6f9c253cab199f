package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/sercha-notes/internal/core/domain"
	"github.com/custodia-labs/sercha-notes/internal/core/ports/driven"
)

// Ensure NoteStore implements the interface.
var _ driven.NoteStore = (*NoteStore)(nil)

// NoteStore is an in-memory implementation of driven.NoteStore.
// Pages are held decrypted; the master key is ignored.
type NoteStore struct {
	mu    sync.RWMutex
	pages map[string]domain.Page
}

// NewNoteStore creates a note store holding the given pages.
func NewNoteStore(pages ...domain.Page) *NoteStore {
	s := &NoteStore{pages: make(map[string]domain.Page, len(pages))}
	for i := range pages {
		s.pages[pages[i].ID] = pages[i]
	}
	return s
}

// SavePage stores or replaces a page including its body.
func (s *NoteStore) SavePage(page domain.Page) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages[page.ID] = page
}

// DeletePage removes a page.
func (s *NoteStore) DeletePage(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pages, id)
}

// GetAllEntries returns page metadata ordered by ID, without bodies.
func (s *NoteStore) GetAllEntries(_ context.Context) ([]domain.Page, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := make([]domain.Page, 0, len(s.pages))
	for id := range s.pages {
		page := s.pages[id]
		page.Elements = nil
		entries = append(entries, page)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries, nil
}

// GetAllContent returns every page body ordered by page ID.
func (s *NoteStore) GetAllContent(_ context.Context, _ []byte) ([]domain.PageContent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	contents := make([]domain.PageContent, 0, len(s.pages))
	for id := range s.pages {
		page := s.pages[id]
		contents = append(contents, page.Content())
	}
	sort.Slice(contents, func(i, j int) bool { return contents[i].ID < contents[j].ID })
	return contents, nil
}

// GetEntry returns a single page including its body.
func (s *NoteStore) GetEntry(_ context.Context, pageID string, _ []byte) (*domain.Page, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	page, ok := s.pages[pageID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &page, nil
}
