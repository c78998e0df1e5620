package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/pulse-cli/internal/core/domain"
	"github.com/custodia-labs/pulse-cli/internal/core/ports/driven"
	"github.com/custodia-labs/pulse-cli/internal/core/ports/driving"
	"github.com/custodia-labs/pulse-cli/internal/logger"
)

// Ensure IndexService implements the interface.
var _ driving.IndexService = (*IndexService)(nil)

// DefaultSearchLimit is the number of matches returned when k is not positive.
const DefaultSearchLimit = 5

// IndexService embeds transcripts and answers semantic queries over them.
type IndexService struct {
	index         driven.VectorIndex
	embedder      driven.EmbeddingService
	previewLength int
}

// NewIndexService creates a new index service.
// The embedder may be nil, in which case Add and Search report ErrEmbeddingUnavailable.
func NewIndexService(index driven.VectorIndex, embedder driven.EmbeddingService, previewLength int) *IndexService {
	if previewLength <= 0 {
		previewLength = domain.DefaultPreviewLength
	}
	return &IndexService{
		index:         index,
		embedder:      embedder,
		previewLength: previewLength,
	}
}

// Add embeds text and appends it to the index with its metadata.
// The text preview is derived here; the doc ID is assigned by the index.
func (s *IndexService) Add(ctx context.Context, text string, meta domain.DocumentMetadata) (int, error) {
	if s.index == nil {
		return 0, domain.ErrVectorIndexUnavailable
	}
	if s.embedder == nil {
		return 0, domain.ErrEmbeddingUnavailable
	}
	if strings.TrimSpace(meta.Filename) == "" {
		return 0, fmt.Errorf("%w: filename is required", domain.ErrInvalidInput)
	}

	logger.Debug("Adding document to vector index: %s", meta.Filename)

	embedding, err := s.embedder.Embed(ctx, text)
	if err != nil {
		logger.Warn("Embedding failed for %s: %v", meta.Filename, err)
		return 0, fmt.Errorf("embed document: %w", err)
	}

	meta.TextPreview = domain.Preview(text, s.previewLength)
	if meta.WordCount == 0 {
		meta.WordCount = len(strings.Fields(text))
	}

	docID, err := s.index.Add(ctx, embedding, meta)
	if err != nil {
		return 0, fmt.Errorf("add to index: %w", err)
	}

	logger.Info("Document added (ID: %d)", docID)
	return docID, nil
}

// Search embeds query and returns up to k ranked matches.
// An empty index yields no matches without calling the embedder.
func (s *IndexService) Search(ctx context.Context, query string, k int) ([]domain.DocumentMatch, error) {
	if s.index == nil {
		return nil, domain.ErrVectorIndexUnavailable
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.ErrEmptyQuery
	}
	if s.index.Len() == 0 {
		logger.Debug("Vector index is empty, returning no results")
		return []domain.DocumentMatch{}, nil
	}
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if k <= 0 {
		k = DefaultSearchLimit
	}

	logger.Debug("Semantic search: %q (k=%d)", query, k)

	embedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		logger.Warn("Embedding failed for query: %v", err)
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := s.index.Search(ctx, embedding, k)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	matches := make([]domain.DocumentMatch, len(hits))
	for i, hit := range hits {
		matches[i] = domain.DocumentMatch{
			Rank:     i + 1,
			Score:    1 / (1 + hit.Distance),
			Distance: hit.Distance,
			Document: hit.Metadata,
		}
	}

	logger.Debug("Found %d results", len(matches))
	return matches, nil
}

// Exists reports whether a document with the filename is already indexed.
func (s *IndexService) Exists(filename string) bool {
	if s.index == nil {
		return false
	}
	for _, doc := range s.index.Documents() {
		if doc.Filename == filename {
			return true
		}
	}
	return false
}

// Documents returns metadata for every indexed document in doc ID order.
func (s *IndexService) Documents() []domain.DocumentMetadata {
	if s.index == nil {
		return []domain.DocumentMetadata{}
	}
	return s.index.Documents()
}

// Stats summarises the index.
func (s *IndexService) Stats() domain.IndexStats {
	var stats domain.IndexStats
	if s.index != nil {
		stats.TotalDocuments = len(s.index.Documents())
		stats.IndexSize = s.index.Len()
		stats.Dimension = s.index.Dimension()
	}
	if s.embedder != nil {
		stats.Model = s.embedder.ModelName()
	}
	return stats
}
