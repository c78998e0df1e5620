package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/pulse-cli/internal/core/domain"
	"github.com/custodia-labs/pulse-cli/internal/core/ports/driven"
)

var _ driven.AIConfigValidator = (*ConfigValidator)(nil)

// probeText is embedded to confirm the model answers with the expected dimension.
const probeText = "pulse embedding probe"

// ConfigValidator checks an embedding configuration against the live provider.
type ConfigValidator struct {
	timeout time.Duration
}

// NewConfigValidator creates a validator using the default ping timeout.
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{timeout: pingTimeout}
}

// ValidateEmbedding pings the provider and embeds a probe string. An
// unconfigured provider is valid. When a dimension is known for the model,
// the probe vector must have that length.
func (v *ConfigValidator) ValidateEmbedding(config *domain.EmbeddingSettings) error {
	if config == nil || !config.IsConfigured() {
		return nil
	}

	svc, err := CreateEmbeddingService(config)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), v.timeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}

	vec, err := svc.Embed(ctx, probeText)
	if err != nil {
		return fmt.Errorf("%w: embedding probe: %w", domain.ErrEmbeddingUnavailable, err)
	}
	if want := config.ResolvedDimensions(); want > 0 && len(vec) != want {
		return fmt.Errorf("%w: model %s returned %d dimensions, expected %d",
			domain.ErrDimensionMismatch, config.Model, len(vec), want)
	}
	return nil
}
