package extractors

import (
	"github.com/custodia-labs/sercha-notes/internal/core/domain"
	"github.com/custodia-labs/sercha-notes/internal/logger"
)

// DefaultRegistry returns a registry with every built-in block rule.
// Table blocks are deliberately unregistered.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(domain.BlockTypeText, extractText)
	r.Register(domain.BlockTypeCode, extractCode)
	r.Register(domain.BlockTypeTodo, extractTodo)
	r.Register(domain.BlockTypeImage, extractImage)
	r.Register(domain.BlockTypeFreehand, extractFreehand)
	r.Register(domain.BlockTypeWhiteboard, extractWhiteboard)
	r.Register(domain.BlockTypeCollapsible, extractCollapsible)
	r.Register(domain.BlockTypeCallout, extractCallout)
	r.Register(domain.BlockTypeColumns, extractColumns)
	return r
}

// decode reads the payload into v. Malformed payloads are logged and
// leave v at its zero value.
func decode(block *domain.Block, v any) {
	if err := block.DecodeData(v); err != nil {
		logger.Debug("Malformed %s block %s payload: %v", block.Type, block.ID, err)
	}
}

func extractText(_ *Registry, block *domain.Block) Extraction {
	var data domain.TextData
	decode(block, &data)
	return searchable(stripMarkup(data.Text))
}

func extractCode(_ *Registry, block *domain.Block) Extraction {
	var data domain.CodeData
	decode(block, &data)
	return searchable(data.Code)
}

func extractTodo(_ *Registry, block *domain.Block) Extraction {
	var data domain.TodoData
	decode(block, &data)

	parts := make([]string, 0, 2+len(data.Items)*2)
	parts = append(parts, data.Title, data.Description)
	for _, item := range data.Items {
		parts = append(parts, item.Title, item.Description)
	}
	return searchable(joinNonEmpty(parts...))
}

func extractImage(_ *Registry, block *domain.Block) Extraction {
	var data domain.ImageData
	decode(block, &data)
	if data.SourceType != domain.ImageSourceURL {
		return Extraction{Content: data.URL, Searchable: false}
	}
	return searchable(data.URL)
}

func extractFreehand(_ *Registry, _ *domain.Block) Extraction {
	return Extraction{}
}

func extractWhiteboard(r *Registry, block *domain.Block) Extraction {
	var data domain.WhiteboardData
	decode(block, &data)
	return searchable(r.ExtractElements(data.Elements))
}

func extractCollapsible(r *Registry, block *domain.Block) Extraction {
	var data domain.CollapsibleData
	decode(block, &data)
	return searchable(joinNonEmpty(data.Title, r.ExtractBlocks(data.Content)))
}

func extractCallout(_ *Registry, block *domain.Block) Extraction {
	var data domain.CalloutData
	decode(block, &data)
	return searchable(data.Content)
}

func extractColumns(r *Registry, block *domain.Block) Extraction {
	var data domain.ColumnsData
	decode(block, &data)

	parts := make([]string, 0, len(data.Columns))
	for _, col := range data.Columns {
		parts = append(parts, r.ExtractBlocks(col.Content))
	}
	return searchable(joinNonEmpty(parts...))
}
