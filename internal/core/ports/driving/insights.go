package driving

import (
	"context"

	"github.com/custodia-labs/pulse-cli/internal/core/domain"
)

// InsightService is the ingestion boundary for insight records.
type InsightService interface {
	// Import validates, default-fills and stores a record.
	Import(ctx context.Context, record domain.InsightRecord) (*domain.InsightRecord, error)

	// Get retrieves a record by transcript filename.
	Get(ctx context.Context, filename string) (*domain.InsightRecord, error)

	// List returns all records, newest first.
	List(ctx context.Context) ([]domain.InsightRecord, error)
}
