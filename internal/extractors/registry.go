package extractors

import (
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/custodia-labs/sercha-notes/internal/core/domain"
)

// Extraction is the result of extracting a block.
type Extraction struct {
	// Content is the extracted plain text.
	Content string

	// Searchable is false for blocks that must never be indexed,
	// regardless of their content.
	Searchable bool
}

// Empty reports whether the extraction carries no usable text.
func (e Extraction) Empty() bool {
	return strings.TrimSpace(e.Content) == ""
}

// searchable builds a searchable extraction.
func searchable(content string) Extraction {
	return Extraction{Content: content, Searchable: true}
}

// ExtractFunc extracts a single block. The registry is passed so that
// container blocks can recurse into their nested content.
type ExtractFunc func(r *Registry, block *domain.Block) Extraction

// Registry maps block types to their extraction rules.
type Registry struct {
	extractors map[domain.BlockType]ExtractFunc
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		extractors: make(map[domain.BlockType]ExtractFunc),
	}
}

// Register adds or replaces the rule for a block type.
func (r *Registry) Register(blockType domain.BlockType, fn ExtractFunc) {
	r.extractors[blockType] = fn
}

// Has returns true if a rule is registered for the block type.
func (r *Registry) Has(blockType domain.BlockType) bool {
	_, ok := r.extractors[blockType]
	return ok
}

// Types returns the registered block types in sorted order.
func (r *Registry) Types() []domain.BlockType {
	types := lo.Keys(r.extractors)
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// Extract runs the rule for the block's type.
// The boolean is false when no rule is registered.
func (r *Registry) Extract(block *domain.Block) (Extraction, bool) {
	if block == nil {
		return Extraction{}, false
	}
	fn, ok := r.extractors[block.Type]
	if !ok || fn == nil {
		return Extraction{}, false
	}
	return fn(r, block), true
}

// ExtractBlocks folds over a nested block sequence and joins the text of
// every searchable, non-empty extraction with single spaces.
func (r *Registry) ExtractBlocks(blocks []domain.Block) string {
	parts := make([]string, 0, len(blocks))
	for i := range blocks {
		e, ok := r.Extract(&blocks[i])
		if !ok || !e.Searchable || e.Empty() {
			continue
		}
		parts = append(parts, strings.TrimSpace(e.Content))
	}
	return strings.Join(parts, " ")
}

// ExtractElements folds over the blocks of every element.
func (r *Registry) ExtractElements(elements []domain.Element) string {
	parts := lo.Map(elements, func(el domain.Element, _ int) string {
		return r.ExtractBlocks(el.Content)
	})
	return joinNonEmpty(parts...)
}

// joinNonEmpty joins the trimmed non-empty parts with single spaces.
func joinNonEmpty(parts ...string) string {
	kept := lo.Filter(lo.Map(parts, func(p string, _ int) string {
		return strings.TrimSpace(p)
	}), func(p string, _ int) bool {
		return p != ""
	})
	return strings.Join(kept, " ")
}
