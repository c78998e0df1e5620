// Package driven declares what the core needs from infrastructure.
//
// InsightStore and ConfigStore are always wired. EmbeddingService and
// VectorIndex may be nil when no provider is configured or the index
// could not be opened; IndexService then reports
// domain.ErrVectorIndexUnavailable and every other command keeps working.
//
// Ports import only the domain package.
package driven
