package domain

import "errors"

// Sentinel errors shared by services and adapters. Wrap them with %w and
// test with errors.Is.
var (
	// ErrNotFound means no insight record exists for a filename.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput wraps validation failures for records, settings and queries.
	ErrInvalidInput = errors.New("invalid input")

	ErrEmptyQuery = errors.New("empty query")

	// ErrEmbeddingUnavailable means no provider is configured or it did not answer.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVectorIndexUnavailable means the vector index could not be opened.
	ErrVectorIndexUnavailable = errors.New("vector index unavailable")

	// ErrDimensionMismatch means a vector's length differs from the index dimension.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	ErrIndexClosed = errors.New("vector index closed")
)
