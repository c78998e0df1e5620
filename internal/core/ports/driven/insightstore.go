package driven

import (
	"context"

	"github.com/custodia-labs/pulse-cli/internal/core/domain"
)

// InsightStore persists one insight record per transcript.
// Records are immutable once written; Save replaces a record with the same filename.
type InsightStore interface {
	// Save stores a record keyed by its filename.
	Save(ctx context.Context, record domain.InsightRecord) error

	// Get retrieves the record for a transcript filename.
	// Returns domain.ErrNotFound if no record exists.
	Get(ctx context.Context, filename string) (*domain.InsightRecord, error)

	// List returns every readable record, normalised, newest date first.
	// Unreadable records are skipped rather than failing the listing.
	List(ctx context.Context) ([]domain.InsightRecord, error)

	// Close releases resources.
	Close() error
}
