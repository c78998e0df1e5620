package driving

import (
	"context"

	"github.com/custodia-labs/pulse-cli/internal/core/domain"
)

// TrendService derives cross-transcript analytics from the insight store.
// Every call recomputes from the full record collection.
type TrendService interface {
	// Topics returns the topic frequency table.
	Topics(ctx context.Context) (*domain.LabelAnalysis, error)

	// Risks returns the risk frequency table with repeated risks.
	Risks(ctx context.Context) (*domain.RiskAnalysis, error)

	// Opportunities returns the opportunity frequency table.
	Opportunities(ctx context.Context) (*domain.LabelAnalysis, error)

	// ActionItems returns the action item lifecycle report.
	ActionItems(ctx context.Context) (*domain.ActionItemReport, error)

	// SentimentTimeline returns the chronologically ascending sentiment series.
	SentimentTimeline(ctx context.Context) ([]domain.SentimentPoint, error)

	// EmergingThemes returns topics occurring at least threshold times.
	// A threshold <= 0 uses the configured default.
	EmergingThemes(ctx context.Context, threshold int) ([]domain.Recurrence, error)

	// ExecutiveSummary composes the report for the given period label.
	// Returns nil when there are no records.
	ExecutiveSummary(ctx context.Context, period string) (*domain.ExecutiveSummary, error)

	// Dashboard returns every aggregate in one bundle.
	Dashboard(ctx context.Context) (*domain.Dashboard, error)
}
