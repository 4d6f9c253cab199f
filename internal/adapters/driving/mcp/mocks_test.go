package mcp

import (
	"context"

	"github.com/custodia-labs/sercha-notes/internal/core/domain"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	results  []domain.SearchResult
	err      error
	lastOpts domain.SearchOptions
}

func (m *mockSearchService) PerformSearch(
	_ context.Context,
	_ string,
	opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	m.lastOpts = opts
	return m.results, m.err
}

// mockIndexService is a mock implementation of driving.IndexService.
type mockIndexService struct {
	reindexed []string
	err       error
}

func (m *mockIndexService) IndexPage(context.Context, *domain.Page, domain.PageContent) (int, error) {
	return 0, m.err
}

func (m *mockIndexService) InitializeSearchIndex(context.Context, []byte) (domain.IndexStats, error) {
	return domain.IndexStats{}, m.err
}

func (m *mockIndexService) ReindexPage(_ context.Context, pageID string, _ []byte) error {
	m.reindexed = append(m.reindexed, pageID)
	return m.err
}

func (m *mockIndexService) ClearSearchIndex(context.Context) error {
	return m.err
}

func (m *mockIndexService) ClearPageIndex(context.Context, string) error {
	return m.err
}

// mockSettingsService is a mock implementation of driving.SettingsService.
type mockSettingsService struct {
	settings *domain.SearchSettings
	err      error
}

func (m *mockSettingsService) Get() (*domain.SearchSettings, error) {
	return m.settings, m.err
}

func (m *mockSettingsService) SetNotesDir(string) error {
	return m.err
}
