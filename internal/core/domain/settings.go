package domain

const unknownDescription = "Unknown"

// AIProvider identifies an embedding service provider.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is the OpenAI cloud API or a compatible endpoint.
	AIProviderOpenAI AIProvider = "openai"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint. Empty selects the provider default.
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// Dimensions overrides the model's known output size when non-zero.
	Dimensions int

	// RequestsPerSecond bounds the call rate to the provider.
	RequestsPerSecond float64

	// Burst is the number of calls allowed above the sustained rate.
	Burst int

	// MaxAttempts bounds retries of a failed provider call.
	MaxAttempts int
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// ResolvedDimensions returns the vector size the configured model produces.
func (e EmbeddingSettings) ResolvedDimensions() int {
	if e.Dimensions > 0 {
		return e.Dimensions
	}
	return EmbeddingDimensions()[e.Model]
}

// InsightBackend selects where insight records are persisted.
type InsightBackend string

// Available insight backends.
const (
	// InsightBackendFile stores one JSON file per transcript.
	InsightBackendFile InsightBackend = "file"

	// InsightBackendSQLite stores records in a local SQLite database.
	InsightBackendSQLite InsightBackend = "sqlite"
)

// IsValid returns true if the backend is recognised.
func (b InsightBackend) IsValid() bool {
	return b == InsightBackendFile || b == InsightBackendSQLite
}

// String returns the string representation.
func (b InsightBackend) String() string {
	return string(b)
}

// StorageSettings holds on-disk locations.
type StorageSettings struct {
	// DataDir is the root for insights and the vector store.
	DataDir string

	// InsightBackend selects the insight record store.
	InsightBackend InsightBackend
}

// IndexSettings holds vector index configuration.
type IndexSettings struct {
	// PreviewLength is the number of text characters kept per document.
	PreviewLength int
}

// AppSettings holds all application settings.
type AppSettings struct {
	Storage   StorageSettings
	Embedding EmbeddingSettings
	Index     IndexSettings
	Trends    TrendSettings
}

// DefaultAppSettings returns settings with sensible defaults.
// DataDir is left empty and resolved against the user's home directory.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Storage: StorageSettings{
			InsightBackend: InsightBackendFile,
		},
		Embedding: EmbeddingSettings{
			Provider:          AIProviderOllama,
			Model:             DefaultEmbeddingModels()[AIProviderOllama],
			RequestsPerSecond: 5,
			Burst:             5,
			MaxAttempts:       3,
		},
		Index: IndexSettings{
			PreviewLength: DefaultPreviewLength,
		},
		Trends: DefaultTrendSettings(),
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-3-small",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}
