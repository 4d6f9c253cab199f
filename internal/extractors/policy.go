package extractors

import (
	"github.com/custodia-labs/sercha-notes/internal/core/domain"
)

// BlockPredicate is a type-specific indexability rule.
type BlockPredicate func(block *domain.Block) bool

// Policy decides which elements and blocks are eligible for indexing.
type Policy struct {
	excludedElements map[string]struct{}
	excludedBlocks   map[domain.BlockType]struct{}
	predicates       map[domain.BlockType]BlockPredicate
}

// NewPolicy creates a policy with the given exclusion sets and the
// built-in image predicate.
func NewPolicy(excludedElementTypes, excludedBlockTypes []string) *Policy {
	p := &Policy{
		excludedElements: make(map[string]struct{}, len(excludedElementTypes)),
		excludedBlocks:   make(map[domain.BlockType]struct{}, len(excludedBlockTypes)),
		predicates:       make(map[domain.BlockType]BlockPredicate),
	}
	for _, t := range excludedElementTypes {
		p.excludedElements[t] = struct{}{}
	}
	for _, t := range excludedBlockTypes {
		p.excludedBlocks[domain.BlockType(t)] = struct{}{}
	}
	p.RegisterPredicate(domain.BlockTypeImage, isURLImage)
	return p
}

// DefaultPolicy returns the policy built from the default settings.
func DefaultPolicy() *Policy {
	s := domain.DefaultSearchSettings()
	return NewPolicy(s.ExcludedElementTypes, s.ExcludedBlockTypes)
}

// RegisterPredicate adds or replaces the rule for a block type.
func (p *Policy) RegisterPredicate(blockType domain.BlockType, fn BlockPredicate) {
	p.predicates[blockType] = fn
}

// IsElementIndexable is false iff the element type is excluded.
func (p *Policy) IsElementIndexable(el *domain.Element) bool {
	if el == nil {
		return false
	}
	_, excluded := p.excludedElements[el.Type]
	return !excluded
}

// IsBlockIndexable is false if the block type is excluded, otherwise the
// result of the type's predicate when one is registered, otherwise true.
func (p *Policy) IsBlockIndexable(block *domain.Block) bool {
	if block == nil {
		return false
	}
	if _, excluded := p.excludedBlocks[block.Type]; excluded {
		return false
	}
	if fn, ok := p.predicates[block.Type]; ok && fn != nil {
		return fn(block)
	}
	return true
}

func isURLImage(block *domain.Block) bool {
	var data domain.ImageData
	decode(block, &data)
	return data.SourceType == domain.ImageSourceURL
}
