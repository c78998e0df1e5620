package driving

import (
	"context"

	"github.com/custodia-labs/pulse-cli/internal/core/domain"
)

// IndexService embeds transcripts into the vector index and answers semantic queries.
type IndexService interface {
	// Add embeds text and appends it with its metadata. Returns the assigned doc ID.
	Add(ctx context.Context, text string, meta domain.DocumentMetadata) (int, error)

	// Search embeds query and returns up to k ranked matches.
	Search(ctx context.Context, query string, k int) ([]domain.DocumentMatch, error)

	// Exists reports whether a document with the filename is indexed.
	Exists(filename string) bool

	// Documents returns metadata for every indexed document.
	Documents() []domain.DocumentMetadata

	// Stats summarises the index.
	Stats() domain.IndexStats
}
