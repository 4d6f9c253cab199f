package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const uriScheme = "sercha-notes://"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	if s.ports.Settings == nil {
		return
	}
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "settings",
		Name:        "settings",
		Description: "Effective search and indexing settings",
		MIMEType:    "application/json",
	}, s.handleSettingsResource)
}

// settingsInfo is the JSON shape of the settings resource.
type settingsInfo struct {
	MinQueryLength       int      `json:"min_query_length"`
	MaxResults           int      `json:"max_results"`
	SnippetLength        int      `json:"snippet_length"`
	DebounceMS           int64    `json:"debounce_ms"`
	ExcludedElementTypes []string `json:"excluded_element_types"`
	ExcludedBlockTypes   []string `json:"excluded_block_types"`
	Backend              string   `json:"storage_backend"`
}

// handleSettingsResource returns the effective settings.
func (s *Server) handleSettingsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	settings, err := s.ports.Settings.Get()
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	data, err := json.MarshalIndent(settingsInfo{
		MinQueryLength:       settings.MinQueryLength,
		MaxResults:           settings.MaxResults,
		SnippetLength:        settings.SnippetLength,
		DebounceMS:           settings.Debounce.Milliseconds(),
		ExcludedElementTypes: settings.ExcludedElementTypes,
		ExcludedBlockTypes:   settings.ExcludedBlockTypes,
		Backend:              string(settings.Backend),
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling settings: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
