package services

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/custodia-labs/pulse-cli/internal/core/domain"
	"github.com/custodia-labs/pulse-cli/internal/core/ports/driven"
	"github.com/custodia-labs/pulse-cli/internal/core/ports/driving"
	"github.com/custodia-labs/pulse-cli/internal/logger"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyDataDir           = "storage.data_dir"
	keyInsightBackend    = "storage.insight_backend"
	keyEmbedProvider     = "embedding.provider"
	keyEmbedModel        = "embedding.model"
	keyEmbedBaseURL      = "embedding.base_url"
	keyEmbedAPIKey       = "embedding.api_key"
	keyEmbedDims         = "embedding.dimensions"
	keyEmbedRate         = "embedding.requests_per_second"
	keyEmbedBurst        = "embedding.burst"
	keyEmbedAttempts     = "embedding.max_attempts"
	keyPreviewLength     = "index.preview_length"
	keyEmergingThreshold = "trends.emerging_threshold"
	keyRepeatThreshold   = "trends.repeat_threshold"
	keyTopTopics         = "trends.top_topics"
	keyTopRisks          = "trends.top_risks"
	keyTopOpportunities  = "trends.top_opportunities"
)

// Environment variables that override the config file.
//
//nolint:gosec // G101: These are variable names, not actual credentials.
const (
	EnvEmbeddingProvider = "EMBEDDING_PROVIDER"
	EnvEmbeddingModel    = "EMBEDDING_MODEL"
	EnvOpenAIAPIKey      = "OPENAI_API_KEY"
	EnvOpenAIBaseURL     = "OPENAI_EMBEDDING_BASE_URL"
	EnvOllamaBaseURL     = "OLLAMA_BASE_URL"
	EnvDataDir           = "PULSE_DATA_DIR"
	EnvInsightStore      = "PULSE_INSIGHT_STORE"
)

// defaultOllamaURL is the local Ollama endpoint.
const defaultOllamaURL = "http://localhost:11434"

// dataDirName is the data directory created beside the config file.
const dataDirName = "data"

// SettingsService manages application settings.
// Values resolve as defaults, then the config file, then the environment.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
	getenv      func(string) string
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
		getenv:      os.Getenv,
	}
}

// SetEnvLookup replaces the environment lookup. Used by tests.
func (s *SettingsService) SetEnvLookup(getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}
	s.getenv = getenv
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	settings := s.fromConfig()
	s.applyEnv(settings)

	if settings.Storage.DataDir == "" {
		settings.Storage.DataDir = filepath.Join(filepath.Dir(s.configStore.Path()), dataDirName)
	}
	return settings, nil
}

// fromConfig reads settings from the config store over the defaults.
func (s *SettingsService) fromConfig() *domain.AppSettings {
	defaults := domain.DefaultAppSettings()

	return &domain.AppSettings{
		Storage: domain.StorageSettings{
			DataDir:        s.configStore.GetString(keyDataDir),
			InsightBackend: s.getBackend(defaults.Storage.InsightBackend),
		},
		Embedding: domain.EmbeddingSettings{
			Provider:          s.getProvider(keyEmbedProvider, defaults.Embedding.Provider),
			Model:             s.getString(keyEmbedModel, defaults.Embedding.Model),
			BaseURL:           s.configStore.GetString(keyEmbedBaseURL), // No default - empty is valid for cloud providers
			APIKey:            s.configStore.GetString(keyEmbedAPIKey),
			Dimensions:        s.configStore.GetInt(keyEmbedDims),
			RequestsPerSecond: s.getFloat(keyEmbedRate, defaults.Embedding.RequestsPerSecond),
			Burst:             s.getInt(keyEmbedBurst, defaults.Embedding.Burst),
			MaxAttempts:       s.getInt(keyEmbedAttempts, defaults.Embedding.MaxAttempts),
		},
		Index: domain.IndexSettings{
			PreviewLength: s.getInt(keyPreviewLength, defaults.Index.PreviewLength),
		},
		Trends: domain.TrendSettings{
			EmergingThreshold: s.getInt(keyEmergingThreshold, defaults.Trends.EmergingThreshold),
			RepeatThreshold:   s.getInt(keyRepeatThreshold, defaults.Trends.RepeatThreshold),
			TopTopics:         s.getInt(keyTopTopics, defaults.Trends.TopTopics),
			TopRisks:          s.getInt(keyTopRisks, defaults.Trends.TopRisks),
			TopOpportunities:  s.getInt(keyTopOpportunities, defaults.Trends.TopOpportunities),
		},
	}
}

// applyEnv overlays environment variables onto settings.
func (s *SettingsService) applyEnv(settings *domain.AppSettings) {
	if v := s.env(EnvEmbeddingProvider); v != "" {
		provider := parseProvider(v)
		if provider.IsValid() {
			if provider != settings.Embedding.Provider {
				settings.Embedding.Provider = provider
				settings.Embedding.Model = domain.DefaultEmbeddingModels()[provider]
				settings.Embedding.BaseURL = ""
			}
		} else {
			logger.Warn("Ignoring unsupported %s=%q", EnvEmbeddingProvider, v)
		}
	}
	if v := s.env(EnvEmbeddingModel); v != "" {
		settings.Embedding.Model = v
	}

	switch settings.Embedding.Provider {
	case domain.AIProviderOpenAI:
		if v := s.env(EnvOpenAIAPIKey); v != "" {
			settings.Embedding.APIKey = v
		}
		if v := s.env(EnvOpenAIBaseURL); v != "" {
			settings.Embedding.BaseURL = v
		}
	case domain.AIProviderOllama:
		if v := s.env(EnvOllamaBaseURL); v != "" {
			settings.Embedding.BaseURL = v
		}
	}

	if v := s.env(EnvDataDir); v != "" {
		settings.Storage.DataDir = v
	}
	if v := s.env(EnvInsightStore); v != "" {
		backend := domain.InsightBackend(strings.ToLower(v))
		if backend.IsValid() {
			settings.Storage.InsightBackend = backend
		} else {
			logger.Warn("Ignoring unsupported %s=%q", EnvInsightStore, v)
		}
	}
}

// parseProvider maps provider names, including the legacy "local", to a provider.
func parseProvider(v string) domain.AIProvider {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "local" {
		return domain.AIProviderOllama
	}
	return domain.AIProvider(v)
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if settings.Storage.DataDir != "" {
		if err := s.configStore.Set(keyDataDir, settings.Storage.DataDir); err != nil {
			return fmt.Errorf("save data dir: %w", err)
		}
	}
	if err := s.configStore.Set(keyInsightBackend, settings.Storage.InsightBackend.String()); err != nil {
		return fmt.Errorf("save insight backend: %w", err)
	}

	// Save embedding settings
	if err := s.configStore.Set(keyEmbedProvider, settings.Embedding.Provider.String()); err != nil {
		return fmt.Errorf("save embedding provider: %w", err)
	}
	if err := s.configStore.Set(keyEmbedModel, settings.Embedding.Model); err != nil {
		return fmt.Errorf("save embedding model: %w", err)
	}
	if err := s.configStore.Set(keyEmbedBaseURL, settings.Embedding.BaseURL); err != nil {
		return fmt.Errorf("save embedding base_url: %w", err)
	}
	if settings.Embedding.APIKey != "" {
		if err := s.configStore.Set(keyEmbedAPIKey, settings.Embedding.APIKey); err != nil {
			return fmt.Errorf("save embedding api_key: %w", err)
		}
	}
	if err := s.configStore.Set(keyEmbedDims, settings.Embedding.Dimensions); err != nil {
		return fmt.Errorf("save embedding dimensions: %w", err)
	}
	if err := s.configStore.Set(keyEmbedRate, settings.Embedding.RequestsPerSecond); err != nil {
		return fmt.Errorf("save embedding rate: %w", err)
	}
	if err := s.configStore.Set(keyEmbedBurst, settings.Embedding.Burst); err != nil {
		return fmt.Errorf("save embedding burst: %w", err)
	}
	if err := s.configStore.Set(keyEmbedAttempts, settings.Embedding.MaxAttempts); err != nil {
		return fmt.Errorf("save embedding attempts: %w", err)
	}

	// Save index and trend settings
	if err := s.configStore.Set(keyPreviewLength, settings.Index.PreviewLength); err != nil {
		return fmt.Errorf("save preview length: %w", err)
	}
	trendKeys := map[string]int{
		keyEmergingThreshold: settings.Trends.EmergingThreshold,
		keyRepeatThreshold:   settings.Trends.RepeatThreshold,
		keyTopTopics:         settings.Trends.TopTopics,
		keyTopRisks:          settings.Trends.TopRisks,
		keyTopOpportunities:  settings.Trends.TopOpportunities,
	}
	for key, val := range trendKeys {
		if err := s.configStore.Set(key, val); err != nil {
			return fmt.Errorf("save %s: %w", key, err)
		}
	}

	return nil
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid embedding provider: %s", provider)
	}

	// Validate API key if required
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings := s.fromConfig()
	settings.Storage.DataDir = s.configStore.GetString(keyDataDir)
	settings.Embedding.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.Embedding.Model = model
	} else {
		settings.Embedding.Model = domain.DefaultEmbeddingModels()[provider]
	}

	// Set base URL based on provider type
	if provider.IsLocal() {
		// Local providers need a base URL
		if settings.Embedding.BaseURL == "" {
			settings.Embedding.BaseURL = defaultOllamaURL
		}
	} else {
		// Cloud providers don't need a custom base URL
		settings.Embedding.BaseURL = ""
	}

	// Set API key
	settings.Embedding.APIKey = apiKey

	// Dimensions follow the model
	settings.Embedding.Dimensions = domain.EmbeddingDimensions()[settings.Embedding.Model]

	return s.Save(settings)
}

// SetInsightBackend selects the insight record store.
func (s *SettingsService) SetInsightBackend(backend domain.InsightBackend) error {
	if !backend.IsValid() {
		return fmt.Errorf("invalid insight backend: %s", backend)
	}
	if err := s.configStore.Set(keyInsightBackend, backend.String()); err != nil {
		return fmt.Errorf("save insight backend: %w", err)
	}
	return nil
}

// Set stores a single setting from its string form. Only keys in SettableKeys are accepted.
func (s *SettingsService) Set(key, value string) error {
	kind, ok := settableKinds[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	value = strings.TrimSpace(value)

	var parsed any
	switch kind {
	case kindString:
		parsed = value
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: %s expects a non-negative integer", domain.ErrInvalidInput, key)
		}
		parsed = n
	case kindFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f <= 0 {
			return fmt.Errorf("%w: %s expects a positive number", domain.ErrInvalidInput, key)
		}
		parsed = f
	case kindProvider:
		provider := parseProvider(value)
		if !provider.IsValid() {
			return fmt.Errorf("%w: invalid embedding provider: %s", domain.ErrInvalidInput, value)
		}
		parsed = provider.String()
	case kindBackend:
		backend := domain.InsightBackend(strings.ToLower(value))
		if !backend.IsValid() {
			return fmt.Errorf("%w: invalid insight backend: %s", domain.ErrInvalidInput, value)
		}
		parsed = backend.String()
	}

	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

type settingKind int

const (
	kindString settingKind = iota
	kindInt
	kindFloat
	kindProvider
	kindBackend
)

var settableKinds = map[string]settingKind{
	keyDataDir:           kindString,
	keyInsightBackend:    kindBackend,
	keyEmbedProvider:     kindProvider,
	keyEmbedModel:        kindString,
	keyEmbedBaseURL:      kindString,
	keyEmbedAPIKey:       kindString,
	keyEmbedDims:         kindInt,
	keyEmbedRate:         kindFloat,
	keyEmbedBurst:        kindInt,
	keyEmbedAttempts:     kindInt,
	keyPreviewLength:     kindInt,
	keyEmergingThreshold: kindInt,
	keyRepeatThreshold:   kindInt,
	keyTopTopics:         kindInt,
	keyTopRisks:          kindInt,
	keyTopOpportunities:  kindInt,
}

// SettableKeys returns the keys accepted by Set, sorted.
func SettableKeys() []string {
	keys := make([]string, 0, len(settableKinds))
	for k := range settableKinds {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) env(key string) string {
	return strings.TrimSpace(s.getenv(key))
}

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	val := s.configStore.GetFloat(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := parseProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getBackend(defaultVal domain.InsightBackend) domain.InsightBackend {
	val := s.configStore.GetString(keyInsightBackend)
	if val == "" {
		return defaultVal
	}
	backend := domain.InsightBackend(val)
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}

// FormatFloat renders a settings number without trailing zeros.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
