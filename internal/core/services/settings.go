package services

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/custodia-labs/sercha-notes/internal/core/domain"
	"github.com/custodia-labs/sercha-notes/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-notes/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyMinQueryLength   = "search.min_query_length"
	keyMaxResults       = "search.max_results"
	keySnippetLength    = "search.snippet_length"
	keyDebounceMS       = "search.debounce_ms"
	keyExcludedElements = "index.excluded_element_types"
	keyExcludedBlocks   = "index.excluded_block_types"
	keyWriteConcurrency = "index.write_concurrency"
	keyNotesDir         = "notes.dir"
	keyStorageBackend   = "storage.backend"
)

// SettingsService resolves search settings from the config store.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get returns the current settings. Missing keys fall back to defaults.
func (s *SettingsService) Get() (*domain.SearchSettings, error) {
	defaults := domain.DefaultSearchSettings()

	settings := &domain.SearchSettings{
		MinQueryLength:       s.getInt(keyMinQueryLength, defaults.MinQueryLength),
		MaxResults:           s.getInt(keyMaxResults, defaults.MaxResults),
		SnippetLength:        s.getInt(keySnippetLength, defaults.SnippetLength),
		Debounce:             s.getDebounce(defaults.Debounce),
		ExcludedElementTypes: s.getStringSlice(keyExcludedElements, defaults.ExcludedElementTypes),
		ExcludedBlockTypes:   s.getStringSlice(keyExcludedBlocks, defaults.ExcludedBlockTypes),
		WriteConcurrency:     s.getInt(keyWriteConcurrency, defaults.WriteConcurrency),
		NotesDir:             s.configStore.GetString(keyNotesDir),
		Backend:              s.getBackend(defaults.Backend),
	}

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("settings in %s: %w", s.configStore.Path(), err)
	}
	return settings, nil
}

// SetNotesDir records the note store directory.
func (s *SettingsService) SetNotesDir(dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", domain.ErrInvalidInput, abs)
	}
	if err := s.configStore.Set(keyNotesDir, abs); err != nil {
		return fmt.Errorf("save notes dir: %w", err)
	}
	return nil
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

// getDebounce allows an explicit zero, which disables debouncing.
func (s *SettingsService) getDebounce(defaultVal time.Duration) time.Duration {
	if _, exists := s.configStore.Get(keyDebounceMS); !exists {
		return defaultVal
	}
	return time.Duration(s.configStore.GetInt(keyDebounceMS)) * time.Millisecond
}

// getStringSlice allows an explicit empty list, which clears the exclusions.
func (s *SettingsService) getStringSlice(key string, defaultVal []string) []string {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	val := s.configStore.GetStringSlice(key)
	if val == nil {
		return []string{}
	}
	return val
}

func (s *SettingsService) getBackend(defaultVal domain.StorageBackend) domain.StorageBackend {
	val := s.configStore.GetString(keyStorageBackend)
	if val == "" {
		return defaultVal
	}
	return domain.StorageBackend(val)
}
