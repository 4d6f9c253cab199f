package driving

import (
	"context"

	"github.com/custodia-labs/sercha-notes/internal/core/domain"
)

// IndexService builds and tears down the search index.
type IndexService interface {
	// IndexPage replaces every record of the page with freshly extracted ones.
	IndexPage(ctx context.Context, page *domain.Page, content domain.PageContent) (int, error)

	// InitializeSearchIndex clears the index and rebuilds it from every
	// indexable page in the note store.
	InitializeSearchIndex(ctx context.Context, masterKey []byte) (domain.IndexStats, error)

	// ReindexPage rebuilds the records of a single page fetched from the note store.
	ReindexPage(ctx context.Context, pageID string, masterKey []byte) error

	// ClearSearchIndex removes every record.
	ClearSearchIndex(ctx context.Context) error

	// ClearPageIndex removes the records of one page.
	ClearPageIndex(ctx context.Context, pageID string) error
}
