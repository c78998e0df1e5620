package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestAIProvider_IsValid tests provider recognition
func TestAIProvider_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		provider AIProvider
		expected bool
	}{
		{name: "ollama is valid", provider: AIProviderOllama, expected: true},
		{name: "openai is valid", provider: AIProviderOpenAI, expected: true},
		{name: "empty is invalid", provider: AIProvider(""), expected: false},
		{name: "local is invalid", provider: AIProvider("local"), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.provider.IsValid())
		})
	}
}

func TestAIProvider_Traits(t *testing.T) {
	assert.True(t, AIProviderOpenAI.RequiresAPIKey())
	assert.False(t, AIProviderOllama.RequiresAPIKey())
	assert.True(t, AIProviderOllama.IsLocal())
	assert.False(t, AIProviderOpenAI.IsLocal())
	assert.Equal(t, "Ollama (local)", AIProviderOllama.Description())
	assert.Equal(t, "Unknown", AIProvider("x").Description())
}

// TestEmbeddingSettings_IsConfigured tests configuration completeness rules
func TestEmbeddingSettings_IsConfigured(t *testing.T) {
	tests := []struct {
		name     string
		settings EmbeddingSettings
		expected bool
	}{
		{
			name:     "ollama without key",
			settings: EmbeddingSettings{Provider: AIProviderOllama},
			expected: true,
		},
		{
			name:     "openai without key",
			settings: EmbeddingSettings{Provider: AIProviderOpenAI},
			expected: false,
		},
		{
			name:     "openai with key",
			settings: EmbeddingSettings{Provider: AIProviderOpenAI, APIKey: "sk-test"},
			expected: true,
		},
		{
			name:     "no provider",
			settings: EmbeddingSettings{},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.settings.IsConfigured())
		})
	}
}

func TestEmbeddingSettings_ResolvedDimensions(t *testing.T) {
	assert.Equal(t, 768, EmbeddingSettings{Model: "nomic-embed-text"}.ResolvedDimensions())
	assert.Equal(t, 1536, EmbeddingSettings{Model: "text-embedding-3-small"}.ResolvedDimensions())
	assert.Equal(t, 256, EmbeddingSettings{Model: "text-embedding-3-small", Dimensions: 256}.ResolvedDimensions())
	assert.Equal(t, 0, EmbeddingSettings{Model: "unknown"}.ResolvedDimensions())
}

func TestInsightBackend_IsValid(t *testing.T) {
	assert.True(t, InsightBackendFile.IsValid())
	assert.True(t, InsightBackendSQLite.IsValid())
	assert.False(t, InsightBackend("postgres").IsValid())
}

func TestDefaultAppSettings(t *testing.T) {
	s := DefaultAppSettings()

	assert.Equal(t, InsightBackendFile, s.Storage.InsightBackend)
	assert.Equal(t, AIProviderOllama, s.Embedding.Provider)
	assert.Equal(t, "nomic-embed-text", s.Embedding.Model)
	assert.True(t, s.Embedding.IsConfigured())
	assert.Equal(t, 3, s.Embedding.MaxAttempts)
	assert.Equal(t, DefaultPreviewLength, s.Index.PreviewLength)
	assert.Equal(t, 3, s.Trends.EmergingThreshold)
	assert.Equal(t, 2, s.Trends.RepeatThreshold)
	assert.Equal(t, 20, s.Trends.TopTopics)
	assert.Equal(t, 10, s.Trends.TopRisks)
	assert.Equal(t, 10, s.Trends.TopOpportunities)
}

func TestDefaultEmbeddingModels_HaveDimensions(t *testing.T) {
	dims := EmbeddingDimensions()
	for _, p := range AllEmbeddingProviders() {
		model := DefaultEmbeddingModels()[p]
		assert.NotEmpty(t, model, "provider %s", p)
		assert.Positive(t, dims[model], "model %s", model)
	}
}
