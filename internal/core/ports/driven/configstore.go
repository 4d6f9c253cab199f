package driven

// ConfigStore provides access to application configuration.
// Keys use dot notation mirroring TOML tables, e.g. "search.debounce_ms".
type ConfigStore interface {
	// Get retrieves a configuration value by key.
	// Returns the value and a boolean indicating if the key exists.
	Get(key string) (any, bool)

	// GetString retrieves a string value, or "" if absent or mistyped.
	GetString(key string) string

	// GetInt retrieves an integer value, or 0 if absent or mistyped.
	GetInt(key string) int

	// GetStringSlice retrieves a string list, or nil if absent or mistyped.
	GetStringSlice(key string) []string

	// Set stores a value and persists immediately.
	Set(key string, value any) error

	// Path returns the configuration location.
	Path() string
}
