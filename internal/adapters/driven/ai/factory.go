// Package ai provides factory functions for creating embedding adapters
// and the vector index that depends on their output size.
package ai

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	ollamaembed "github.com/custodia-labs/pulse-cli/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/pulse-cli/internal/adapters/driven/embedding/openai"
	"github.com/custodia-labs/pulse-cli/internal/adapters/driven/embedding/resilient"
	"github.com/custodia-labs/pulse-cli/internal/adapters/driven/vectorindex/flat"
	"github.com/custodia-labs/pulse-cli/internal/core/domain"
	"github.com/custodia-labs/pulse-cli/internal/core/ports/driven"
	"github.com/custodia-labs/pulse-cli/internal/logger"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// VectorStoreDir is the vector index directory under the data directory.
const VectorStoreDir = "vector_store"

// InitResult contains the result of embedding and index initialisation.
type InitResult struct {
	EmbeddingService driven.EmbeddingService
	VectorIndex      driven.VectorIndex
	Warnings         []string // Non-fatal issues; the affected service is nil.
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.EmbeddingService != nil {
		r.EmbeddingService.Close()
	}
	if r.VectorIndex != nil {
		r.VectorIndex.Close()
	}
}

// Initialise creates the embedding service and opens the vector index.
// A model missing from the dimension table is measured with one embedding
// call, and the index uses the measured size. An unreachable provider leaves
// EmbeddingService nil with a warning; the index is still opened at the
// configured model's dimension so it can be inspected.
func Initialise(settings *domain.AppSettings) *InitResult {
	result := &InitResult{}

	svc, err := CreateAndValidateEmbeddingService(&settings.Embedding)
	switch {
	case err != nil:
		result.Warnings = append(result.Warnings, err.Error())
	case svc == nil:
		result.Warnings = append(result.Warnings, domain.ErrEmbeddingUnavailable.Error()+
			": no embedding provider configured")
	default:
		result.EmbeddingService = svc
	}

	dimension := settings.Embedding.ResolvedDimensions()
	if result.EmbeddingService != nil {
		dimension = result.EmbeddingService.Dimensions()
	}
	if dimension <= 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"%s: unknown dimension for model %q, set embedding.dimensions",
			domain.ErrVectorIndexUnavailable, settings.Embedding.Model))
		return result
	}

	dir := filepath.Join(settings.Storage.DataDir, VectorStoreDir)
	idx, err := flat.New(dir, dimension)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("%s: %v", domain.ErrVectorIndexUnavailable, err))
		return result
	}
	result.VectorIndex = idx
	logger.Debug("Vector index at %s (dimension %d, %d documents)", dir, dimension, idx.Len())
	return result
}

// CreateAndValidateEmbeddingService creates an embedding service and validates connectivity.
// Returns the service if successful, or an error with guidance.
func CreateAndValidateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'pulse settings embedding' to fix",
			domain.ErrEmbeddingUnavailable, err)
	}

	// Validate connectivity.
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Run 'pulse settings embedding' to fix",
			domain.ErrEmbeddingUnavailable, err)
	}

	if settings.ResolvedDimensions() > 0 {
		return svc, nil
	}
	return probeDimensions(ctx, svc, settings)
}

// probeDimensions embeds probeText with a model of unknown size and, when
// the vector length differs from the adapter's default, recreates the
// service with the measured dimension.
func probeDimensions(
	ctx context.Context,
	svc driven.EmbeddingService,
	settings *domain.EmbeddingSettings,
) (driven.EmbeddingService, error) {
	vec, err := svc.Embed(ctx, probeText)
	if err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: measuring dimension of %s: %w",
			domain.ErrEmbeddingUnavailable, settings.Model, err)
	}
	if len(vec) == 0 {
		svc.Close()
		return nil, fmt.Errorf("%w: %s returned an empty embedding", domain.ErrEmbeddingUnavailable, settings.Model)
	}
	if len(vec) == svc.Dimensions() {
		return svc, nil
	}

	svc.Close()
	logger.Debug("Model %s produces %d dimensions", settings.Model, len(vec))
	measured := *settings
	measured.Dimensions = len(vec)
	return CreateEmbeddingService(&measured)
}

// CreateEmbeddingService creates the provider adapter for settings, wrapped with
// rate limiting and retries. Returns nil if the provider is not configured.
func CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	var inner driven.EmbeddingService
	switch settings.Provider {
	case domain.AIProviderOllama:
		inner = createOllamaEmbedding(settings)

	case domain.AIProviderOpenAI:
		svc, err := createOpenAIEmbedding(settings)
		if err != nil {
			return nil, err
		}
		inner = svc

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}

	return resilient.New(inner, resilient.Config{
		RequestsPerSecond: settings.RequestsPerSecond,
		Burst:             settings.Burst,
		MaxAttempts:       settings.MaxAttempts,
	}), nil
}

// createOllamaEmbedding creates an Ollama embedding service.
func createOllamaEmbedding(settings *domain.EmbeddingSettings) *ollamaembed.EmbeddingService {
	dimensions := settings.ResolvedDimensions()
	if dimensions == 0 {
		dimensions = ollamaembed.DefaultDimensions
	}

	return ollamaembed.NewEmbeddingService(ollamaembed.Config{
		BaseURL:    settings.BaseURL,
		Model:      settings.Model,
		Dimensions: dimensions,
	})
}

// createOpenAIEmbedding creates an OpenAI embedding service.
func createOpenAIEmbedding(settings *domain.EmbeddingSettings) (*openaiembed.EmbeddingService, error) {
	return openaiembed.NewEmbeddingService(openaiembed.Config{
		APIKey:     settings.APIKey,
		BaseURL:    settings.BaseURL,
		Model:      settings.Model,
		Dimensions: settings.ResolvedDimensions(),
	})
}
