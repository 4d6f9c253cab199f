package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-notes/internal/core/domain"
)

func seed(t *testing.T, store *spyIndexStore, recs ...domain.SearchRecord) {
	t.Helper()
	for _, rec := range recs {
		require.NoError(t, store.Put(context.Background(), rec))
	}
}

func rec(id, root, content string) domain.SearchRecord {
	return domain.SearchRecord{
		ID:        id,
		PageID:    "page-" + id,
		RootID:    root,
		ElementID: "e",
		BlockID:   id,
		Type:      string(domain.BlockTypeText),
		Content:   content,
		PageTitle: "Page " + id,
	}
}

func newEngine(store *spyIndexStore) *SearchEngine {
	return NewSearchEngine(store, domain.DefaultSearchSettings())
}

// ==================== PerformSearch Tests ====================

func TestPerformSearch_ShortQueryDoesNotTouchStore(t *testing.T) {
	store := newSpyIndexStore()
	seed(t, store, rec("a", "r", "a"))
	engine := newEngine(store)

	for _, q := range []string{"", "a", "é"} {
		results, err := engine.PerformSearch(context.Background(), q, domain.SearchOptions{})
		require.NoError(t, err)
		assert.Empty(t, results)
		assert.NotNil(t, results)
	}
	assert.Zero(t, store.scans.Load())
}

func TestPerformSearch_TwoRuneQuerySearches(t *testing.T) {
	store := newSpyIndexStore()
	seed(t, store, rec("a", "r", "Über cool"))
	engine := newEngine(store)

	results, err := engine.PerformSearch(context.Background(), "üb", domain.SearchOptions{})

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, int32(1), store.scans.Load())
}

func TestPerformSearch_CaseInsensitiveSubstring(t *testing.T) {
	store := newSpyIndexStore()
	seed(t, store,
		rec("1", "r", "The Quick Brown Fox"),
		rec("2", "r", "quickly done"),
		rec("3", "r", "slow turtle"),
	)
	engine := newEngine(store)

	results, err := engine.PerformSearch(context.Background(), "QUICK", domain.SearchOptions{})

	require.NoError(t, err)
	ids := lo.Map(results, func(r domain.SearchResult, _ int) string { return r.BlockID })
	assert.ElementsMatch(t, []string{"1", "2"}, ids)
}

func TestPerformSearch_ResultShape(t *testing.T) {
	store := newSpyIndexStore()
	r := rec("1", "ws", "hello world")
	r.IsFavorite = true
	seed(t, store, r)
	engine := newEngine(store)

	results, err := engine.PerformSearch(context.Background(), "world", domain.SearchOptions{})

	require.NoError(t, err)
	require.Len(t, results, 1)
	got := results[0]
	assert.Equal(t, "page-1", got.PageID)
	assert.Equal(t, "Page 1", got.PageTitle)
	assert.Equal(t, "e", got.ElementID)
	assert.Equal(t, "hello world", got.FullContent)
	assert.Equal(t, "hello world", got.Snippet)
	assert.Equal(t, "ws", got.RootID)
	assert.True(t, got.IsFavorite)
}

func TestPerformSearch_Scope(t *testing.T) {
	store := newSpyIndexStore()
	seed(t, store,
		rec("1", "work", "meeting notes"),
		rec("2", "home", "meeting the plumber"),
	)
	engine := newEngine(store)

	results, err := engine.PerformSearch(context.Background(), "meeting", domain.SearchOptions{Scope: "home"})

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "home", results[0].RootID)
}

func TestPerformSearch_MaxResultsKeepsFirstFound(t *testing.T) {
	store := newSpyIndexStore()
	seed(t, store,
		rec("a", "r", "match one"),
		rec("b", "r", "match two"),
		rec("c", "r", "match three"),
	)
	engine := newEngine(store)

	results, err := engine.PerformSearch(context.Background(), "match", domain.SearchOptions{MaxResults: 2})

	require.NoError(t, err)
	ids := lo.Map(results, func(r domain.SearchResult, _ int) string { return r.BlockID })
	assert.Equal(t, []string{"a", "b"}, ids)
}

func TestPerformSearch_StoreFailureReturnsEmpty(t *testing.T) {
	store := newSpyIndexStore()
	store.scanErr = errors.New("database is locked")
	engine := newEngine(store)

	results, err := engine.PerformSearch(context.Background(), "anything", domain.SearchOptions{})

	assert.ErrorIs(t, err, domain.ErrIndexUnavailable)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

// ==================== CreateSnippet Tests ====================

func TestCreateSnippet_NoMatchReturnsPrefix(t *testing.T) {
	content := strings.Repeat("x", 300)

	assert.Equal(t, strings.Repeat("x", 150), CreateSnippet(content, "zz", 150))
	assert.Equal(t, "short", CreateSnippet("short", "zz", 150))
}

func TestCreateSnippet_MatchNearStart(t *testing.T) {
	content := "find me " + strings.Repeat("y", 200)

	snippet := CreateSnippet(content, "FIND", 150)

	assert.False(t, strings.HasPrefix(snippet, "..."))
	assert.Equal(t, []rune(content)[:4+100], []rune(snippet))
}

func TestCreateSnippet_MatchDeepInContent(t *testing.T) {
	content := strings.Repeat("a", 120) + "needle" + strings.Repeat("b", 300)

	snippet := CreateSnippet(content, "needle", 150)

	want := "..." + strings.Repeat("a", 50) + "needle" + strings.Repeat("b", 100)
	assert.Equal(t, want, snippet)
}

func TestCreateSnippet_ClippedAtEnd(t *testing.T) {
	content := strings.Repeat("a", 60) + "tail"

	snippet := CreateSnippet(content, "tail", 150)

	assert.Equal(t, "..."+strings.Repeat("a", 50)+"tail", snippet)
}

func TestCreateSnippet_RuneSafe(t *testing.T) {
	content := strings.Repeat("ж", 70) + "Ärger" + strings.Repeat("ü", 10)

	snippet := CreateSnippet(content, "ärger", 150)

	assert.Equal(t, "..."+strings.Repeat("ж", 50)+"Ärger"+strings.Repeat("ü", 10), snippet)
}

// ==================== RankResults Tests ====================

func TestRankResults_Order(t *testing.T) {
	results := []domain.SearchResult{
		{BlockID: "plain-no-snippet", Type: "text", Snippet: "nothing here"},
		{BlockID: "plain-snippet", Type: "text", Snippet: "has Query inside"},
		{BlockID: "title", Type: domain.RecordTypePageTitle, Snippet: "query title"},
		{BlockID: "fav", Type: "text", Snippet: "x", IsFavorite: true},
		{BlockID: "fav-title", Type: domain.RecordTypePageTitle, Snippet: "y", IsFavorite: true},
	}

	ranked := RankResults(results, "query")

	ids := lo.Map(ranked, func(r domain.SearchResult, _ int) string { return r.BlockID })
	assert.Equal(t, []string{"fav-title", "fav", "title", "plain-snippet", "plain-no-snippet"}, ids)
}

func TestRankResults_StableForTies(t *testing.T) {
	results := []domain.SearchResult{
		{BlockID: "1", Type: "text", Snippet: "q1"},
		{BlockID: "2", Type: "text", Snippet: "q2"},
		{BlockID: "3", Type: "text", Snippet: "q3"},
	}

	ranked := RankResults(results, "q")

	ids := lo.Map(ranked, func(r domain.SearchResult, _ int) string { return r.BlockID })
	assert.Equal(t, []string{"1", "2", "3"}, ids)
}

func TestRankResults_DoesNotMutateInput(t *testing.T) {
	results := []domain.SearchResult{
		{BlockID: "1", Type: "text"},
		{BlockID: "2", Type: "text", IsFavorite: true},
	}

	_ = RankResults(results, "x")

	assert.Equal(t, "1", results[0].BlockID)
}
