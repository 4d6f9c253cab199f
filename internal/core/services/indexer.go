package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/benbjohnson/clock"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/sercha-notes/internal/core/domain"
	"github.com/custodia-labs/sercha-notes/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-notes/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-notes/internal/extractors"
	"github.com/custodia-labs/sercha-notes/internal/logger"
	"github.com/custodia-labs/sercha-notes/internal/metrics"
)

// Ensure IndexService implements the interface.
var _ driving.IndexService = (*IndexService)(nil)

// IndexService flattens pages into search records.
type IndexService struct {
	notes            driven.NoteStore
	store            driven.IndexStore
	registry         *extractors.Registry
	policy           *extractors.Policy
	writeConcurrency int
	clock            clock.Clock
}

// NewIndexService creates an index service.
// A nil registry or policy uses the defaults.
func NewIndexService(
	notes driven.NoteStore,
	store driven.IndexStore,
	registry *extractors.Registry,
	policy *extractors.Policy,
	writeConcurrency int,
) *IndexService {
	if registry == nil {
		registry = extractors.DefaultRegistry()
	}
	if policy == nil {
		policy = extractors.DefaultPolicy()
	}
	if writeConcurrency < 1 {
		writeConcurrency = domain.DefaultSearchSettings().WriteConcurrency
	}
	return &IndexService{
		notes:            notes,
		store:            store,
		registry:         registry,
		policy:           policy,
		writeConcurrency: writeConcurrency,
		clock:            clock.New(),
	}
}

// SetClock replaces the clock used to time index builds.
func (s *IndexService) SetClock(c clock.Clock) {
	s.clock = c
}

// IndexPage replaces the records of one page and returns how many were written.
func (s *IndexService) IndexPage(ctx context.Context, page *domain.Page, content domain.PageContent) (int, error) {
	if page == nil {
		return 0, fmt.Errorf("%w: nil page", domain.ErrInvalidInput)
	}
	if err := s.store.ClearPage(ctx, page.ID); err != nil {
		return 0, fmt.Errorf("clearing page %s: %w", page.ID, err)
	}

	records := s.buildRecords(page, content)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.writeConcurrency)
	for i := range records {
		rec := records[i]
		g.Go(func() error {
			return s.store.Put(gctx, rec)
		})
	}
	if err := g.Wait(); err != nil {
		return 0, fmt.Errorf("writing records of page %s: %w", page.ID, err)
	}

	metrics.RecordsWrittenTotal.Add(float64(len(records)))
	logger.Debug("Indexed page %s (%q): %d records", page.ID, page.Name, len(records))
	return len(records), nil
}

// buildRecords produces the title record followed by one record per
// indexable, searchable block. Record IDs are unique; when two blocks map
// to the same ID the first one is kept.
func (s *IndexService) buildRecords(page *domain.Page, content domain.PageContent) []domain.SearchRecord {
	var records []domain.SearchRecord
	seen := make(map[string]bool)

	if strings.TrimSpace(page.Name) != "" {
		title := domain.NewTitleRecord(page)
		seen[title.ID] = true
		records = append(records, title)
	}

	for ei := range content.Elements {
		el := &content.Elements[ei]
		if !s.policy.IsElementIndexable(el) {
			continue
		}
		for bi := range el.Content {
			block := &el.Content[bi]
			if !s.policy.IsBlockIndexable(block) {
				continue
			}
			extraction, ok := s.registry.Extract(block)
			if !ok || !extraction.Searchable || extraction.Empty() {
				continue
			}
			rec := domain.NewBlockRecord(
				page, el.ID, block,
				strings.TrimSpace(extraction.Content),
				s.contextWindow(el.Content, bi),
			)
			if seen[rec.ID] {
				logger.Warn("Page %s: element %s block %s collides with record %s, skipped",
					page.ID, el.ID, block.ID, rec.ID)
				continue
			}
			seen[rec.ID] = true
			records = append(records, rec)
		}
	}

	return records
}

// contextWindow joins the extracted text of the blocks at i-1, i and i+1,
// clipped to the element.
func (s *IndexService) contextWindow(blocks []domain.Block, i int) string {
	start := max(i-1, 0)
	end := min(i+2, len(blocks))
	return s.registry.ExtractBlocks(blocks[start:end])
}

// InitializeSearchIndex rebuilds the whole index from the note store.
// Workspace and sensitive pages are skipped. A store failure aborts the
// build and leaves the records written so far in place.
func (s *IndexService) InitializeSearchIndex(ctx context.Context, masterKey []byte) (domain.IndexStats, error) {
	logger.Section("Index Build")
	start := s.clock.Now()
	var stats domain.IndexStats

	if err := s.store.Clear(ctx); err != nil {
		return stats, fmt.Errorf("clearing index: %w", err)
	}

	entries, err := s.notes.GetAllEntries(ctx)
	if err != nil {
		return stats, noteStoreError("listing pages", err)
	}
	contents, err := s.notes.GetAllContent(ctx, masterKey)
	if err != nil {
		return stats, noteStoreError("loading page content", err)
	}

	bodies := make(map[string]domain.PageContent, len(contents))
	for _, c := range contents {
		bodies[c.ID] = c
	}

	for i := range entries {
		if err := ctx.Err(); err != nil {
			stats.Duration = s.clock.Since(start)
			logger.Info("Index build stopped after %d pages: %v", stats.Pages, err)
			return stats, err
		}
		page := &entries[i]
		if !page.Indexable() {
			stats.Skipped++
			metrics.PagesIndexedTotal.WithLabelValues("skipped").Inc()
			logger.Debug("Skipping page %s (type=%s sensitive=%t)", page.ID, page.Type, page.IsSensitive)
			continue
		}

		n, err := s.IndexPage(ctx, page, bodies[page.ID])
		if err != nil {
			metrics.PagesIndexedTotal.WithLabelValues("failed").Inc()
			stats.Duration = s.clock.Since(start)
			logger.Error("Index build aborted at page %s: %v", page.ID, err)
			return stats, err
		}
		stats.Pages++
		stats.Records += n
		metrics.PagesIndexedTotal.WithLabelValues("indexed").Inc()
	}

	stats.Duration = s.clock.Since(start)
	metrics.IndexBuildDuration.Observe(stats.Duration.Seconds())
	logger.Info("Indexed %d pages (%d skipped), %d records in %s",
		stats.Pages, stats.Skipped, stats.Records, stats.Duration)
	return stats, nil
}

// ReindexPage rebuilds the records of one page from the note store.
// Pages that no longer exist or are no longer indexable lose their records.
func (s *IndexService) ReindexPage(ctx context.Context, pageID string, masterKey []byte) error {
	page, err := s.notes.GetEntry(ctx, pageID, masterKey)
	if errors.Is(err, domain.ErrNotFound) {
		return s.ClearPageIndex(ctx, pageID)
	}
	if err != nil {
		return noteStoreError("loading page "+pageID, err)
	}
	if !page.Indexable() {
		return s.ClearPageIndex(ctx, pageID)
	}
	_, err = s.IndexPage(ctx, page, page.Content())
	return err
}

// ClearSearchIndex removes every record.
func (s *IndexService) ClearSearchIndex(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("clearing index: %w", err)
	}
	return nil
}

// ClearPageIndex removes the records of one page.
func (s *IndexService) ClearPageIndex(ctx context.Context, pageID string) error {
	if err := s.store.ClearPage(ctx, pageID); err != nil {
		return fmt.Errorf("clearing page %s: %w", pageID, err)
	}
	return nil
}

func noteStoreError(op string, err error) error {
	if errors.Is(err, domain.ErrNoteStoreUnavailable) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrNoteStoreUnavailable, err)
}
