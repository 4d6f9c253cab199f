package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultSearchSettings(t *testing.T) {
	s := DefaultSearchSettings()

	assert.Equal(t, 2, s.MinQueryLength)
	assert.Equal(t, 50, s.MaxResults)
	assert.Equal(t, 150, s.SnippetLength)
	assert.Equal(t, 300*time.Millisecond, s.Debounce)
	assert.Contains(t, s.ExcludedBlockTypes, "whiteboard")
	assert.Contains(t, s.ExcludedBlockTypes, "freehand")
	assert.Equal(t, StorageSQLite, s.Backend)
	assert.NoError(t, s.Validate())
}

func TestSearchSettings_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*SearchSettings)
		wantErr error
	}{
		{"zero min length", func(s *SearchSettings) { s.MinQueryLength = 0 }, ErrInvalidInput},
		{"zero max results", func(s *SearchSettings) { s.MaxResults = 0 }, ErrInvalidInput},
		{"zero snippet length", func(s *SearchSettings) { s.SnippetLength = 0 }, ErrInvalidInput},
		{"negative debounce", func(s *SearchSettings) { s.Debounce = -time.Second }, ErrInvalidInput},
		{"zero concurrency", func(s *SearchSettings) { s.WriteConcurrency = 0 }, ErrInvalidInput},
		{"unknown backend", func(s *SearchSettings) { s.Backend = "bolt" }, ErrUnsupportedType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSearchSettings()
			tt.mutate(&s)
			err := s.Validate()
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestStorageBackend_IsValid(t *testing.T) {
	assert.True(t, StorageSQLite.IsValid())
	assert.True(t, StorageMemory.IsValid())
	assert.False(t, StorageBackend("").IsValid())
}
