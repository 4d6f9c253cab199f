package domain

import (
	"fmt"
	"time"
)

// StorageBackend selects the index store implementation.
type StorageBackend string

// Available storage backends.
const (
	// StorageSQLite keeps the index in a SQLite database in the data directory.
	StorageSQLite StorageBackend = "sqlite"

	// StorageMemory keeps the index in process memory.
	StorageMemory StorageBackend = "memory"
)

// IsValid returns true if the backend is recognised.
func (b StorageBackend) IsValid() bool {
	switch b {
	case StorageSQLite, StorageMemory:
		return true
	default:
		return false
	}
}

// SearchSettings holds tunables for indexing and querying.
type SearchSettings struct {
	// MinQueryLength is the shortest query that reaches the index.
	MinQueryLength int

	// MaxResults is the default cap on collected matches.
	MaxResults int

	// SnippetLength is the fallback snippet length when no match is found.
	SnippetLength int

	// Debounce is the quiet period before an interactive query runs.
	Debounce time.Duration

	// ExcludedElementTypes are element types never indexed.
	ExcludedElementTypes []string

	// ExcludedBlockTypes are block types never indexed at the top level.
	ExcludedBlockTypes []string

	// WriteConcurrency bounds concurrent record writes per page.
	WriteConcurrency int

	// NotesDir is the directory of the JSON note store.
	NotesDir string

	// Backend selects the index store.
	Backend StorageBackend
}

// DefaultSearchSettings returns the default settings.
func DefaultSearchSettings() SearchSettings {
	return SearchSettings{
		MinQueryLength:       2,
		MaxResults:           50,
		SnippetLength:        150,
		Debounce:             300 * time.Millisecond,
		ExcludedElementTypes: []string{"drawing"},
		ExcludedBlockTypes: []string{
			string(BlockTypeWhiteboard),
			string(BlockTypeFreehand),
			string(BlockTypeTable),
		},
		WriteConcurrency: 8,
		Backend:          StorageSQLite,
	}
}

// Validate checks the settings are usable.
func (s *SearchSettings) Validate() error {
	if s.MinQueryLength < 1 {
		return fmt.Errorf("%w: min query length must be positive", ErrInvalidInput)
	}
	if s.MaxResults < 1 {
		return fmt.Errorf("%w: max results must be positive", ErrInvalidInput)
	}
	if s.SnippetLength < 1 {
		return fmt.Errorf("%w: snippet length must be positive", ErrInvalidInput)
	}
	if s.Debounce < 0 {
		return fmt.Errorf("%w: debounce must not be negative", ErrInvalidInput)
	}
	if s.WriteConcurrency < 1 {
		return fmt.Errorf("%w: write concurrency must be positive", ErrInvalidInput)
	}
	if !s.Backend.IsValid() {
		return fmt.Errorf("%w: storage backend %q", ErrUnsupportedType, s.Backend)
	}
	return nil
}
