package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/custodia-labs/sercha-notes/internal/core/domain"
	"github.com/custodia-labs/sercha-notes/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-notes/internal/logger"
)

const pageExt = ".json"

var (
	_ driven.NoteStore   = (*NoteStore)(nil)
	_ driven.NoteWatcher = (*NoteStore)(nil)
)

// NoteStore reads pages from a directory of JSON files.
type NoteStore struct {
	dir string
}

// NewNoteStore creates a note store rooted at dir. The directory must exist.
func NewNoteStore(dir string) (*NoteStore, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrNoteStoreUnavailable, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", domain.ErrNoteStoreUnavailable, dir)
	}
	return &NoteStore{dir: dir}, nil
}

// Dir returns the directory the store reads from.
func (s *NoteStore) Dir() string {
	return s.dir
}

// GetAllEntries returns page metadata ordered by ID, without bodies.
func (s *NoteStore) GetAllEntries(ctx context.Context) ([]domain.Page, error) {
	pages, err := s.readAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range pages {
		pages[i].Elements = nil
	}
	return pages, nil
}

// GetAllContent returns every page body ordered by page ID.
// Bodies of sensitive pages are withheld when no master key is supplied.
func (s *NoteStore) GetAllContent(ctx context.Context, masterKey []byte) ([]domain.PageContent, error) {
	pages, err := s.readAll(ctx)
	if err != nil {
		return nil, err
	}
	contents := make([]domain.PageContent, 0, len(pages))
	for i := range pages {
		if pages[i].IsSensitive && len(masterKey) == 0 {
			contents = append(contents, domain.PageContent{ID: pages[i].ID})
			continue
		}
		contents = append(contents, pages[i].Content())
	}
	return contents, nil
}

// GetEntry returns a single page including its body.
func (s *NoteStore) GetEntry(_ context.Context, pageID string, masterKey []byte) (*domain.Page, error) {
	if pageID == "" || strings.ContainsAny(pageID, `/\`) {
		return nil, fmt.Errorf("%w: page id %q", domain.ErrInvalidInput, pageID)
	}

	page, err := readPage(filepath.Join(s.dir, pageID+pageExt))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if page.IsSensitive && len(masterKey) == 0 {
		page.Elements = nil
	}
	return page, nil
}

// SavePage writes a page to <id>.json, replacing any existing file.
func (s *NoteStore) SavePage(page *domain.Page) error {
	if page.ID == "" || strings.ContainsAny(page.ID, `/\`) {
		return fmt.Errorf("%w: page id %q", domain.ErrInvalidInput, page.ID)
	}
	data, err := json.MarshalIndent(page, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding page %s: %w", page.ID, err)
	}
	return os.WriteFile(filepath.Join(s.dir, page.ID+pageExt), data, 0600)
}

func (s *NoteStore) readAll(ctx context.Context) ([]domain.Page, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrNoteStoreUnavailable, err)
	}

	var pages []domain.Page //nolint:prealloc // unparsable files are skipped
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.IsDir() || filepath.Ext(entry.Name()) != pageExt {
			continue
		}
		page, err := readPage(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			logger.Warn("skipping note %s: %v", entry.Name(), err)
			continue
		}
		pages = append(pages, *page)
	}

	sort.Slice(pages, func(i, j int) bool { return pages[i].ID < pages[j].ID })
	return pages, nil
}

// pageIDFromPath maps a note file path to its page ID.
func pageIDFromPath(path string) (string, bool) {
	name := filepath.Base(path)
	if filepath.Ext(name) != pageExt {
		return "", false
	}
	id := strings.TrimSuffix(name, pageExt)
	return id, id != ""
}

func readPage(path string) (*domain.Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var page domain.Page
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", filepath.Base(path), err)
	}
	if page.ID == "" {
		page.ID, _ = pageIDFromPath(path)
	}
	return &page, nil
}
