package driven

import (
	"context"

	"github.com/custodia-labs/pulse-cli/internal/core/domain"
)

// VectorIndex stores document embeddings alongside their metadata and
// answers exact nearest-neighbour queries by squared Euclidean distance.
//
// The vector count and the metadata sequence move in lockstep: an Add
// either appends to both and persists them, or leaves both unchanged.
type VectorIndex interface {
	// Add appends a vector and its metadata, persists both, and returns the
	// assigned document ID (the metadata sequence length before the append).
	Add(ctx context.Context, embedding []float32, meta domain.DocumentMetadata) (int, error)

	// Search returns up to k hits ordered by ascending distance.
	// k is clamped to the document count; an empty index yields no hits.
	Search(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// Documents returns a copy of the stored metadata in doc_id order.
	Documents() []domain.DocumentMetadata

	// Len returns the number of stored vectors.
	Len() int

	// Dimension returns the fixed vector size of the index.
	Dimension() int

	// Close releases resources.
	Close() error
}

// VectorHit represents a nearest-neighbour result.
type VectorHit struct {
	// DocID is the matched document.
	DocID int

	// Distance is the squared Euclidean distance to the query.
	Distance float64

	// Metadata is the stored metadata for DocID.
	Metadata domain.DocumentMetadata
}
