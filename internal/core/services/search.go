package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/custodia-labs/sercha-notes/internal/core/domain"
	"github.com/custodia-labs/sercha-notes/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-notes/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-notes/internal/logger"
	"github.com/custodia-labs/sercha-notes/internal/metrics"
)

// Ensure SearchEngine implements the interface.
var _ driving.SearchService = (*SearchEngine)(nil)

// Snippet window around the first match, in runes.
const (
	snippetLead  = 50
	snippetTrail = 100
	ellipsis     = "..."
)

// SearchEngine answers case-insensitive substring queries against the index store.
type SearchEngine struct {
	store          driven.IndexStore
	minQueryLength int
	maxResults     int
	snippetLength  int
}

// NewSearchEngine creates a search engine using the query settings.
func NewSearchEngine(store driven.IndexStore, settings domain.SearchSettings) *SearchEngine {
	defaults := domain.DefaultSearchSettings()
	e := &SearchEngine{
		store:          store,
		minQueryLength: settings.MinQueryLength,
		maxResults:     settings.MaxResults,
		snippetLength:  settings.SnippetLength,
	}
	if e.minQueryLength < 1 {
		e.minQueryLength = defaults.MinQueryLength
	}
	if e.maxResults < 1 {
		e.maxResults = defaults.MaxResults
	}
	if e.snippetLength < 1 {
		e.snippetLength = defaults.SnippetLength
	}
	return e
}

// PerformSearch returns up to MaxResults ranked matches for query.
// Queries shorter than the minimum length return no results without
// touching the store. On a store failure the result is empty and the
// error is returned alongside it.
func (e *SearchEngine) PerformSearch(
	ctx context.Context, query string, opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	scope := metrics.ScopeLabel(opts.Scope)
	if utf8.RuneCountInString(query) < e.minQueryLength {
		metrics.SearchesTotal.WithLabelValues(scope, "short").Inc()
		return []domain.SearchResult{}, nil
	}

	limit := opts.MaxResults
	if limit <= 0 {
		limit = e.maxResults
	}

	logger.Debug("Search %q (scope=%q, limit=%d)", query, opts.Scope, limit)
	start := time.Now()

	needle := []rune(query)
	results := make([]domain.SearchResult, 0, min(limit, 64))
	collect := func(rec domain.SearchRecord) bool {
		if indexFold([]rune(rec.Content), needle) < 0 {
			return true
		}
		results = append(results, e.toResult(&rec, query))
		return len(results) < limit
	}

	var err error
	if opts.Scope != "" {
		err = e.store.ScanRoot(ctx, opts.Scope, collect)
	} else {
		err = e.store.Scan(ctx, collect)
	}
	metrics.SearchDuration.WithLabelValues(scope).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.SearchesTotal.WithLabelValues(scope, "error").Inc()
		logger.Error("Search %q failed: %v", query, err)
		if !errors.Is(err, domain.ErrIndexUnavailable) {
			err = fmt.Errorf("%w: %w", domain.ErrIndexUnavailable, err)
		}
		return []domain.SearchResult{}, fmt.Errorf("search: %w", err)
	}

	metrics.SearchesTotal.WithLabelValues(scope, "ok").Inc()
	logger.Debug("Search %q matched %d records", query, len(results))
	return RankResults(results, query), nil
}

func (e *SearchEngine) toResult(rec *domain.SearchRecord, query string) domain.SearchResult {
	return domain.SearchResult{
		PageID:       rec.PageID,
		PageTitle:    rec.PageTitle,
		ElementID:    rec.ElementID,
		BlockID:      rec.BlockID,
		Snippet:      CreateSnippet(rec.Content, query, e.snippetLength),
		FullContent:  rec.Content,
		Type:         rec.Type,
		IsFavorite:   rec.IsFavorite,
		RootID:       rec.RootID,
		LastModified: rec.LastModified,
	}
}

// CreateSnippet returns a window of content around the first
// case-insensitive occurrence of query: 50 runes before it and 100 after,
// clipped to the content and prefixed with "..." when the start is cut.
// Without a match the first length runes are returned.
func CreateSnippet(content, query string, length int) string {
	text := []rune(content)
	needle := []rune(query)

	idx := -1
	if len(needle) > 0 {
		idx = indexFold(text, needle)
	}
	if idx < 0 {
		if length < 0 {
			length = 0
		}
		return string(text[:min(length, len(text))])
	}

	start := max(idx-snippetLead, 0)
	end := min(idx+len(needle)+snippetTrail, len(text))
	snippet := string(text[start:end])
	if start > 0 {
		snippet = ellipsis + snippet
	}
	return snippet
}

// RankResults orders results stably: favourites first, then page title
// matches, then results whose snippet contains the query. Ties keep
// store order.
func RankResults(results []domain.SearchResult, query string) []domain.SearchResult {
	needle := []rune(query)
	inSnippet := make([]bool, len(results))
	for i := range results {
		inSnippet[i] = len(needle) > 0 && indexFold([]rune(results[i].Snippet), needle) >= 0
	}

	order := make([]int, len(results))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ra, rb := &results[order[a]], &results[order[b]]
		if ra.IsFavorite != rb.IsFavorite {
			return ra.IsFavorite
		}
		if ra.IsTitle() != rb.IsTitle() {
			return ra.IsTitle()
		}
		sa, sb := inSnippet[order[a]], inSnippet[order[b]]
		if sa != sb {
			return sa
		}
		return false
	})

	ranked := make([]domain.SearchResult, len(results))
	for i, idx := range order {
		ranked[i] = results[idx]
	}
	return ranked
}

// indexFold returns the rune offset of the first case-insensitive
// occurrence of needle in text, or -1. Runes are folded one at a time so
// offsets stay aligned with the original text.
func indexFold(text, needle []rune) int {
	if len(needle) == 0 {
		return 0
	}
	for i := 0; i+len(needle) <= len(text); i++ {
		matched := true
		for j, r := range needle {
			if unicode.ToLower(text[i+j]) != unicode.ToLower(r) {
				matched = false
				break
			}
		}
		if matched {
			return i
		}
	}
	return -1
}
