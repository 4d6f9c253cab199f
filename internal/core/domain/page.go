package domain

import "time"

// PageType identifies the kind of page supplied by the note store.
type PageType string

// Known page types.
const (
	// PageTypeDocument is a linear rich-text note.
	PageTypeDocument PageType = "document"

	// PageTypeWhiteboard is a free-form canvas of positioned elements.
	PageTypeWhiteboard PageType = "whiteboard"

	// PageTypeWorkspace is a container for other pages. Workspaces carry
	// no searchable body and are never indexed.
	PageTypeWorkspace PageType = "workspace"
)

// String returns the string representation.
func (t PageType) String() string {
	return string(t)
}

// Page is a top-level note entity owned by a workspace.
// Pages are consumed from the note store, never owned by the index.
type Page struct {
	// ID is the unique identifier for the page.
	ID string `json:"id"`

	// RootID identifies the workspace the page belongs to.
	RootID string `json:"rootId"`

	// Name is the display name and the content of the title record.
	Name string `json:"name"`

	// Type is the page type tag.
	Type PageType `json:"type"`

	// IsFavorite marks pages pinned by the user. Favourites rank first.
	IsFavorite bool `json:"isFavorite"`

	// IsSensitive marks password-protected pages. Sensitive pages are
	// excluded from search entirely.
	IsSensitive bool `json:"isSensitive"`

	// LastModified is when the page was last edited.
	LastModified time.Time `json:"lastModified"`

	// Elements is the decrypted body. It is only populated when the page
	// is fetched individually from the note store.
	Elements []Element `json:"elements,omitempty"`
}

// Indexable reports whether the page may contribute records to the index.
func (p *Page) Indexable() bool {
	return p.Type != PageTypeWorkspace && !p.IsSensitive
}

// Content returns the page body in the shape used by bulk content fetches.
func (p *Page) Content() PageContent {
	return PageContent{ID: p.ID, Elements: p.Elements}
}

// PageContent is a decrypted page body keyed by page ID.
type PageContent struct {
	// ID is the page the body belongs to.
	ID string `json:"id"`

	// Elements is the ordered page body.
	Elements []Element `json:"elements"`
}

// Element is a positioned content region within a page,
// such as a whiteboard node or a document section.
type Element struct {
	// ID is unique within the page.
	ID string `json:"id"`

	// Type is the element type tag.
	Type string `json:"type"`

	// Content is the ordered block sequence of the element.
	Content []Block `json:"content"`
}
