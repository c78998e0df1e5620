package driven

import "context"

// EmbeddingService turns transcript text and search queries into vectors.
// The provider (Ollama or OpenAI, optionally behind the resilient
// rate-limiting decorator) is chosen once when the application starts.
type EmbeddingService interface {
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch returns one vector per input, in input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions is the vector length. It must equal the VectorIndex dimension.
	Dimensions() int

	ModelName() string

	// Ping makes a cheap request to confirm the provider is reachable.
	Ping(ctx context.Context) error

	Close() error
}
