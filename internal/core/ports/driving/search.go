package driving

import (
	"context"

	"github.com/custodia-labs/sercha-notes/internal/core/domain"
)

// SearchService answers substring queries against the index.
type SearchService interface {
	// PerformSearch returns ranked matches for query. Queries shorter than
	// the minimum length return an empty list without reading the index.
	PerformSearch(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error)
}
