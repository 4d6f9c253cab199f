package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/sercha-notes/internal/core/domain"
)

const defaultToolLimit = 10

// SearchInput is the input schema for the search_notes tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"text to find; at least two characters, matched case-insensitively"`
	Scope string `json:"scope,omitempty" jsonschema:"restrict results to one workspace (root id)"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 10)"`
}

// SearchOutput is the output schema for the search_notes tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	PageID     string `json:"page_id"`
	PageTitle  string `json:"page_title"`
	RootID     string `json:"root_id,omitempty"`
	ElementID  string `json:"element_id,omitempty"`
	BlockID    string `json:"block_id,omitempty"`
	Type       string `json:"type"`
	Snippet    string `json:"snippet"`
	Content    string `json:"content,omitempty"`
	IsFavorite bool   `json:"is_favorite,omitempty"`
}

// ReindexInput is the input schema for the reindex_page tool.
type ReindexInput struct {
	PageID string `json:"page_id" jsonschema:"id of the page whose search records should be rebuilt"`
}

// ReindexOutput is the output schema for the reindex_page tool.
type ReindexOutput struct {
	PageID string `json:"page_id"`
	Status string `json:"status"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_notes",
		Description: "Search note titles and block content; favourites and title matches rank first",
	}, s.handleSearch)

	if s.ports.Indexer != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "reindex_page",
			Description: "Rebuild the search records of a single page from the note store",
		}, s.handleReindex)
	}
}

// handleSearch handles the search_notes tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultToolLimit
	}

	opts := domain.SearchOptions{Scope: input.Scope, MaxResults: limit}
	results, err := s.ports.Search.PerformSearch(ctx, input.Query, opts)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}
	for i := range results {
		output.Results[i] = SearchResultOutput{
			PageID:     results[i].PageID,
			PageTitle:  results[i].PageTitle,
			RootID:     results[i].RootID,
			ElementID:  results[i].ElementID,
			BlockID:    results[i].BlockID,
			Type:       results[i].Type,
			Snippet:    results[i].Snippet,
			Content:    results[i].FullContent,
			IsFavorite: results[i].IsFavorite,
		}
	}

	return nil, output, nil
}

// handleReindex handles the reindex_page tool invocation.
func (s *Server) handleReindex(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ReindexInput,
) (*mcp.CallToolResult, ReindexOutput, error) {
	if s.ports.Indexer == nil {
		return nil, ReindexOutput{}, ErrReindexUnavailable
	}
	if input.PageID == "" {
		return nil, ReindexOutput{}, fmt.Errorf("%w: page_id is required", domain.ErrInvalidInput)
	}
	if err := s.ports.Indexer.ReindexPage(ctx, input.PageID, s.ports.MasterKey); err != nil {
		return nil, ReindexOutput{}, fmt.Errorf("reindexing %s: %w", input.PageID, err)
	}
	return nil, ReindexOutput{PageID: input.PageID, Status: "reindexed"}, nil
}
