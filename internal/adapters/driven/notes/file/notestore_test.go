package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-notes/internal/core/domain"
)

func newStore(t *testing.T) *NoteStore {
	t.Helper()
	s, err := NewNoteStore(t.TempDir())
	require.NoError(t, err)
	return s
}

func page(id string, sensitive bool) *domain.Page {
	return &domain.Page{
		ID:          id,
		RootID:      "ws",
		Name:        "Note " + id,
		Type:        domain.PageTypeDocument,
		IsSensitive: sensitive,
		Elements: []domain.Element{{
			ID:      "e1",
			Type:    "section",
			Content: []domain.Block{domain.NewBlock("b1", domain.BlockTypeText, domain.TextData{Text: "<p>hi</p>"})},
		}},
	}
}

func TestNewNoteStore_MissingDir(t *testing.T) {
	_, err := NewNoteStore(filepath.Join(t.TempDir(), "nope"))
	assert.ErrorIs(t, err, domain.ErrNoteStoreUnavailable)
}

func TestNewNoteStore_NotADirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(path, nil, 0600))

	_, err := NewNoteStore(path)
	assert.ErrorIs(t, err, domain.ErrNoteStoreUnavailable)
}

func TestNoteStore_SaveAndGetEntry(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.SavePage(page("p1", false)))

	got, err := s.GetEntry(context.Background(), "p1", nil)

	require.NoError(t, err)
	assert.Equal(t, "Note p1", got.Name)
	require.Len(t, got.Elements, 1)
	assert.Equal(t, domain.BlockTypeText, got.Elements[0].Content[0].Type)
}

func TestNoteStore_GetEntry_Errors(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	_, err := s.GetEntry(ctx, "missing", nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = s.GetEntry(ctx, "../escape", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNoteStore_GetAllEntries_SkipsBadFiles(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.SavePage(page("b", false)))
	require.NoError(t, s.SavePage(page("a", false)))
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), "broken.json"), []byte("{"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), "readme.txt"), []byte("x"), 0600))

	entries, err := s.GetAllEntries(context.Background())

	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0].ID)
	assert.Equal(t, "b", entries[1].ID)
	assert.Nil(t, entries[0].Elements)
}

func TestNoteStore_IDFallsBackToFileName(t *testing.T) {
	s := newStore(t)
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), "loose.json"), []byte(`{"name":"Loose"}`), 0600))

	entries, err := s.GetAllEntries(context.Background())

	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "loose", entries[0].ID)
}

func TestNoteStore_GetAllContent_WithholdsSensitiveWithoutKey(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.SavePage(page("open", false)))
	require.NoError(t, s.SavePage(page("secret", true)))
	ctx := context.Background()

	contents, err := s.GetAllContent(ctx, nil)
	require.NoError(t, err)
	require.Len(t, contents, 2)
	assert.Len(t, contents[0].Elements, 1)
	assert.Empty(t, contents[1].Elements)

	contents, err = s.GetAllContent(ctx, []byte("key"))
	require.NoError(t, err)
	assert.Len(t, contents[1].Elements, 1)
}

func TestNoteStore_Watch(t *testing.T) {
	s := newStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes, err := s.Watch(ctx)
	require.NoError(t, err)

	require.NoError(t, s.SavePage(page("p9", false)))

	select {
	case id := <-changes:
		assert.Equal(t, "p9", id)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	cancel()
	require.Eventually(t, func() bool {
		for {
			select {
			case _, ok := <-changes:
				if !ok {
					return true
				}
			default:
				return false
			}
		}
	}, 5*time.Second, 10*time.Millisecond)
}
