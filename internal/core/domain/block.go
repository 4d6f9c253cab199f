package domain

import "encoding/json"

// BlockType is the type tag of a block.
type BlockType string

// Known block types.
const (
	BlockTypeText        BlockType = "text"
	BlockTypeCode        BlockType = "code"
	BlockTypeTodo        BlockType = "todo"
	BlockTypeImage       BlockType = "image"
	BlockTypeFreehand    BlockType = "freehand"
	BlockTypeWhiteboard  BlockType = "whiteboard"
	BlockTypeCollapsible BlockType = "collapsible"
	BlockTypeCallout     BlockType = "callout"
	BlockTypeColumns     BlockType = "columns"
	BlockTypeTable       BlockType = "table"
)

// String returns the string representation.
func (t BlockType) String() string {
	return string(t)
}

// ImageSourceURL is the image source type for externally hosted images.
// Only URL images carry searchable content.
const ImageSourceURL = "url"

// Block is the smallest content unit inside an element.
// Data holds the type-specific payload; nested containers embed
// further elements or blocks inside it.
type Block struct {
	// ID is unique within the element.
	ID string `json:"id"`

	// Type selects the payload shape and the extraction rule.
	Type BlockType `json:"type"`

	// Data is the raw type-specific payload.
	Data json.RawMessage `json:"data,omitempty"`
}

// NewBlock builds a block by encoding payload as its data.
// A payload that cannot be encoded leaves the block without data.
func NewBlock(id string, blockType BlockType, payload any) Block {
	b := Block{ID: id, Type: blockType}
	if payload == nil {
		return b
	}
	if data, err := json.Marshal(payload); err == nil {
		b.Data = data
	}
	return b
}

// DecodeData decodes the block payload into v.
// Missing data is not an error and leaves v untouched.
func (b *Block) DecodeData(v any) error {
	if len(b.Data) == 0 {
		return nil
	}
	return json.Unmarshal(b.Data, v)
}

// TextData is the payload of a text block.
type TextData struct {
	// Text is rich text that may contain markup tags.
	Text string `json:"text"`
}

// CodeData is the payload of a code block.
type CodeData struct {
	Code     string `json:"code"`
	Language string `json:"language,omitempty"`
}

// TodoItem is a single entry of a todo block.
type TodoItem struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Done        bool   `json:"done,omitempty"`
}

// TodoData is the payload of a todo block.
type TodoData struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Items       []TodoItem `json:"items,omitempty"`
}

// ImageData is the payload of an image block.
type ImageData struct {
	URL string `json:"url"`

	// SourceType is "url" for hosted images; anything else (e.g. an
	// embedded upload) is never searchable.
	SourceType string `json:"sourceType"`
}

// WhiteboardData is the payload of a whiteboard nested as a block.
type WhiteboardData struct {
	Elements []Element `json:"elements"`
}

// CollapsibleData is the payload of a collapsible block.
type CollapsibleData struct {
	Title   string  `json:"title"`
	Content []Block `json:"content"`
}

// CalloutData is the payload of a callout block.
type CalloutData struct {
	Content string `json:"content"`
	Variant string `json:"variant,omitempty"`
}

// Column is a single column of a columns block.
type Column struct {
	Content []Block `json:"content"`
}

// ColumnsData is the payload of a columns block.
type ColumnsData struct {
	Columns []Column `json:"columns"`
}
