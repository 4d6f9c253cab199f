package domain

import "time"

// SearchOptions configures a search query.
type SearchOptions struct {
	// Scope restricts the search to a single workspace (root ID).
	// Empty searches every record.
	Scope string

	// MaxResults caps the number of matches collected.
	// Zero uses the configured default.
	MaxResults int
}

// SearchResult represents a single ranked match.
type SearchResult struct {
	PageID    string `json:"pageId"`
	PageTitle string `json:"pageTitle"`

	// ElementID and BlockID are empty for title matches.
	ElementID string `json:"elementId,omitempty"`
	BlockID   string `json:"blockId,omitempty"`

	// Snippet is a window of the content around the first match.
	Snippet string `json:"snippet"`

	// FullContent is the complete record content.
	FullContent string `json:"fullContent"`

	Type         string    `json:"type"`
	IsFavorite   bool      `json:"isFavorite"`
	RootID       string    `json:"rootId"`
	LastModified time.Time `json:"lastModified"`
}

// IsTitle reports whether the result matched a page title.
func (r *SearchResult) IsTitle() bool {
	return r.Type == RecordTypePageTitle
}

// IndexStats summarises a full index build.
type IndexStats struct {
	// Pages is the number of pages indexed.
	Pages int

	// Skipped is the number of workspace or sensitive pages left out.
	Skipped int

	// Records is the number of records written.
	Records int

	// Duration is the wall time of the build.
	Duration time.Duration
}
