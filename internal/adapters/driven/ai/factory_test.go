package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pulse-cli/internal/core/domain"
	"github.com/custodia-labs/pulse-cli/internal/core/ports/driven"
)

// fakeOllama serves the tags and embeddings endpoints.
func fakeOllama() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tags":
			_, _ = w.Write([]byte(`{"models":[]}`))
		case "/api/embeddings":
			_, _ = w.Write([]byte(`{"embedding":[1,2,3]}`))
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestInitResult_Close(t *testing.T) {
	result := &InitResult{}
	// Should not panic
	result.Close()
}

func TestCreateEmbeddingService(t *testing.T) {
	tests := []struct {
		name     string
		settings *domain.EmbeddingSettings
		wantNil  bool
		wantErr  bool
	}{
		{
			name:     "nil settings returns nil",
			settings: nil,
			wantNil:  true,
		},
		{
			name:     "unconfigured settings returns nil",
			settings: &domain.EmbeddingSettings{},
			wantNil:  true,
		},
		{
			name: "ollama provider creates service",
			settings: &domain.EmbeddingSettings{
				Provider: domain.AIProviderOllama,
				BaseURL:  "http://localhost:11434",
				Model:    "nomic-embed-text",
			},
		},
		{
			name: "openai provider creates service",
			settings: &domain.EmbeddingSettings{
				Provider: domain.AIProviderOpenAI,
				APIKey:   "test-key",
				Model:    "text-embedding-3-small",
			},
		},
		{
			name: "openai without key is unconfigured",
			settings: &domain.EmbeddingSettings{
				Provider: domain.AIProviderOpenAI,
				Model:    "text-embedding-3-small",
			},
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateEmbeddingService(tt.settings)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, svc)
				return
			}
			require.NotNil(t, svc)
			assert.Equal(t, tt.settings.Model, svc.ModelName())
		})
	}
}

func TestCreateEmbeddingService_Dimensions(t *testing.T) {
	svc, err := CreateEmbeddingService(&domain.EmbeddingSettings{
		Provider: domain.AIProviderOllama,
		Model:    "mxbai-embed-large",
	})
	require.NoError(t, err)
	assert.Equal(t, 1024, svc.Dimensions())

	svc, err = CreateEmbeddingService(&domain.EmbeddingSettings{
		Provider: domain.AIProviderOllama,
		Model:    "custom-model",
	})
	require.NoError(t, err)
	assert.Equal(t, 768, svc.Dimensions())
}

func TestCreateAndValidateEmbeddingService(t *testing.T) {
	server := fakeOllama()
	defer server.Close()

	svc, err := CreateAndValidateEmbeddingService(&domain.EmbeddingSettings{
		Provider: domain.AIProviderOllama,
		BaseURL:  server.URL,
		Model:    "nomic-embed-text",
	})
	require.NoError(t, err)
	require.NotNil(t, svc)
	svc.Close()
}

func TestCreateAndValidateEmbeddingService_Unreachable(t *testing.T) {
	_, err := CreateAndValidateEmbeddingService(&domain.EmbeddingSettings{
		Provider: domain.AIProviderOllama,
		BaseURL:  "http://127.0.0.1:1",
		Model:    "nomic-embed-text",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrEmbeddingUnavailable))
}

func TestInitialise(t *testing.T) {
	server := fakeOllama()
	defer server.Close()

	settings := domain.DefaultAppSettings()
	settings.Storage.DataDir = t.TempDir()
	settings.Embedding.BaseURL = server.URL
	settings.Embedding.Dimensions = 3

	result := Initialise(&settings)
	defer result.Close()

	assert.Empty(t, result.Warnings)
	require.NotNil(t, result.EmbeddingService)
	require.NotNil(t, result.VectorIndex)
	assert.Equal(t, 3, result.VectorIndex.Dimension())
	assert.DirExists(t, settings.Storage.DataDir+"/"+VectorStoreDir)
}

func TestInitialise_UnreachableProviderStillOpensIndex(t *testing.T) {
	settings := domain.DefaultAppSettings()
	settings.Storage.DataDir = t.TempDir()
	settings.Embedding.BaseURL = "http://127.0.0.1:1"

	result := Initialise(&settings)
	defer result.Close()

	assert.Nil(t, result.EmbeddingService)
	require.NotNil(t, result.VectorIndex)
	assert.Equal(t, 768, result.VectorIndex.Dimension())
	assert.NotEmpty(t, result.Warnings)
}

// fakeOllamaDims serves an Ollama model producing dims-length vectors.
func fakeOllamaDims(dims int) *httptest.Server {
	vector := make([]float64, dims)
	for i := range vector {
		vector[i] = float64(i) / float64(dims)
	}
	body, _ := json.Marshal(map[string]any{"embedding": vector})

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tags":
			_, _ = w.Write([]byte(`{"models":[]}`))
		case "/api/embeddings":
			_, _ = w.Write(body)
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestInitialise_MeasuresUnlistedModelDimension(t *testing.T) {
	server := fakeOllamaDims(384)
	defer server.Close()

	settings := domain.DefaultAppSettings()
	settings.Storage.DataDir = t.TempDir()
	settings.Embedding.BaseURL = server.URL
	settings.Embedding.Model = "all-MiniLM-L6-v2"
	settings.Embedding.Dimensions = 0

	result := Initialise(&settings)
	defer result.Close()

	assert.Empty(t, result.Warnings)
	require.NotNil(t, result.EmbeddingService)
	require.NotNil(t, result.VectorIndex)
	assert.Equal(t, 384, result.EmbeddingService.Dimensions())
	assert.Equal(t, 384, result.VectorIndex.Dimension())

	vec, err := result.EmbeddingService.Embed(context.Background(), "standup notes")
	require.NoError(t, err)
	id, err := result.VectorIndex.Add(context.Background(), vec, domain.DocumentMetadata{Filename: "standup.txt"})
	require.NoError(t, err)
	assert.Zero(t, id)
}

func TestCreateAndValidateEmbeddingService_ListedModelSkipsMeasuring(t *testing.T) {
	server := fakeOllamaDims(384)
	defer server.Close()

	svc, err := CreateAndValidateEmbeddingService(&domain.EmbeddingSettings{
		Provider: domain.AIProviderOllama,
		BaseURL:  server.URL,
		Model:    "nomic-embed-text",
	})
	require.NoError(t, err)
	defer svc.Close()
	assert.Equal(t, 768, svc.Dimensions())
}

func TestInitialise_UnknownDimension(t *testing.T) {
	settings := domain.DefaultAppSettings()
	settings.Storage.DataDir = t.TempDir()
	settings.Embedding.Provider = ""
	settings.Embedding.Model = "mystery"

	result := Initialise(&settings)

	assert.Nil(t, result.EmbeddingService)
	assert.Nil(t, result.VectorIndex)
	assert.Len(t, result.Warnings, 2)
}

func TestConfigValidator(t *testing.T) {
	var _ driven.AIConfigValidator = NewConfigValidator()

	server := fakeOllama()
	defer server.Close()

	tests := []struct {
		name    string
		config  *domain.EmbeddingSettings
		wantErr error
	}{
		{"nil config", nil, nil},
		{"unconfigured", &domain.EmbeddingSettings{}, nil},
		{"matching dimension", &domain.EmbeddingSettings{
			Provider:   domain.AIProviderOllama,
			BaseURL:    server.URL,
			Model:      "nomic-embed-text",
			Dimensions: 3,
		}, nil},
		{"dimension mismatch", &domain.EmbeddingSettings{
			Provider: domain.AIProviderOllama,
			BaseURL:  server.URL,
			Model:    "nomic-embed-text",
		}, domain.ErrDimensionMismatch},
		{"unreachable", &domain.EmbeddingSettings{
			Provider: domain.AIProviderOllama,
			BaseURL:  "http://127.0.0.1:1",
			Model:    "nomic-embed-text",
		}, domain.ErrEmbeddingUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewConfigValidator().ValidateEmbedding(tt.config)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
