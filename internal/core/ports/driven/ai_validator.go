package driven

import "github.com/custodia-labs/pulse-cli/internal/core/domain"

// AIConfigValidator checks embedding settings against the live provider
// before they are relied on by `pulse index`.
type AIConfigValidator interface {
	// ValidateEmbedding returns nil for an unconfigured provider.
	ValidateEmbedding(config *domain.EmbeddingSettings) error
}
