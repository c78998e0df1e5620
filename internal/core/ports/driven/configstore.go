package driven

// ConfigStore holds Pulse configuration as dot-notation keys such as
// "embedding.model" or "trends.top_risks". The file adapter maps each
// prefix to a TOML table; the memory adapter backs tests.
//
// Typed getters return the zero value when a key is missing or holds
// another type.
type ConfigStore interface {
	// Get returns the raw value and whether the key exists.
	Get(key string) (any, bool)

	GetString(key string) string

	// GetInt truncates floating point values.
	GetInt(key string) int

	// GetFloat widens integer values.
	GetFloat(key string) float64

	GetBool(key string) bool

	// Set stores a value. The file adapter persists it immediately.
	Set(key string, value any) error

	// Save writes the configuration to its backing file.
	Save() error

	// Load replaces in-memory values with the backing file's contents.
	Load() error

	// Path is the configuration file path. Settings resolve a relative
	// data directory against its parent.
	Path() string
}
