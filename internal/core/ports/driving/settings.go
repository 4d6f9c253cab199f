package driving

import "github.com/custodia-labs/sercha-notes/internal/core/domain"

// SettingsService exposes search settings.
type SettingsService interface {
	// Get returns the current settings with defaults applied.
	Get() (*domain.SearchSettings, error)

	// SetNotesDir persists the note store directory.
	SetNotesDir(dir string) error
}
