package driving

import "github.com/custodia-labs/pulse-cli/internal/core/domain"

// SettingsService reads and changes Pulse configuration. Values resolve
// from built-in defaults, then ~/.pulse/config.toml, then environment
// variables.
type SettingsService interface {
	Get() (*domain.AppSettings, error)

	// Save writes every field of settings to the config store.
	Save(settings *domain.AppSettings) error

	// SetEmbeddingProvider switches provider. An empty model selects the
	// provider's default; OpenAI requires apiKey.
	SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error

	SetInsightBackend(backend domain.InsightBackend) error

	// Set parses value for the dot-notation key and stores it.
	// Unknown keys and unparsable values wrap domain.ErrInvalidInput.
	Set(key, value string) error

	GetDefaults() domain.AppSettings

	// ValidateEmbeddingConfig probes the configured embedding provider.
	ValidateEmbeddingConfig() error
}
