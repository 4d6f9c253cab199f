package domain

import "time"

// RecordTypePageTitle is the record type of a page's title record.
const RecordTypePageTitle = "page_title"

// titleSuffix is appended to the page ID to key the title record.
const titleSuffix = "_title"

// SearchRecord is the flattened, indexed unit: one page title or one block.
// Records are derived and disposable; the note store remains the source of truth.
type SearchRecord struct {
	// ID is the composite key (see TitleRecordID and BlockRecordID).
	ID string `json:"id"`

	// PageID is the page the record was extracted from.
	PageID string `json:"pageId"`

	// RootID is the workspace of the page, used for scoping.
	RootID string `json:"rootId"`

	// ElementID is empty for title records.
	ElementID string `json:"elementId,omitempty"`

	// BlockID is empty for title records.
	BlockID string `json:"blockId,omitempty"`

	// Type is the originating block type or RecordTypePageTitle.
	Type string `json:"type"`

	// Content is the extracted plain text. Never empty.
	Content string `json:"content"`

	// Context is the extracted text of the neighbouring blocks.
	Context string `json:"context,omitempty"`

	// PageTitle is the page name at index time.
	PageTitle string `json:"pageTitle"`

	// IsFavorite is the page favourite flag at index time.
	IsFavorite bool `json:"isFavorite"`

	// LastModified is the page modification time at index time.
	LastModified time.Time `json:"lastModified"`
}

// IsTitle reports whether the record is a page title record.
func (r *SearchRecord) IsTitle() bool {
	return r.Type == RecordTypePageTitle
}

// TitleRecordID returns the key of the title record for a page.
func TitleRecordID(pageID string) string {
	return pageID + titleSuffix
}

// BlockRecordID returns the key of the record for a block within a page.
func BlockRecordID(pageID, elementID, blockID string) string {
	return pageID + "_" + elementID + "_" + blockID
}

// NewTitleRecord builds the title record for a page.
func NewTitleRecord(page *Page) SearchRecord {
	return SearchRecord{
		ID:           TitleRecordID(page.ID),
		PageID:       page.ID,
		RootID:       page.RootID,
		Type:         RecordTypePageTitle,
		Content:      page.Name,
		PageTitle:    page.Name,
		IsFavorite:   page.IsFavorite,
		LastModified: page.LastModified,
	}
}

// NewBlockRecord builds the record for a block within a page.
func NewBlockRecord(page *Page, elementID string, block *Block, content, context string) SearchRecord {
	return SearchRecord{
		ID:           BlockRecordID(page.ID, elementID, block.ID),
		PageID:       page.ID,
		RootID:       page.RootID,
		ElementID:    elementID,
		BlockID:      block.ID,
		Type:         string(block.Type),
		Content:      content,
		Context:      context,
		PageTitle:    page.Name,
		IsFavorite:   page.IsFavorite,
		LastModified: page.LastModified,
	}
}
