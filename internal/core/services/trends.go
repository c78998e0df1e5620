package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/custodia-labs/pulse-cli/internal/core/domain"
	"github.com/custodia-labs/pulse-cli/internal/core/ports/driven"
	"github.com/custodia-labs/pulse-cli/internal/core/ports/driving"
	"github.com/custodia-labs/pulse-cli/internal/logger"
)

// Ensure TrendService implements the interface.
var _ driving.TrendService = (*TrendService)(nil)

// defaultSummaryPeriod labels the dashboard's executive summary.
const defaultSummaryPeriod = "recent"

// AnalyzeLabels counts one label field across all records.
// topN limits the ranked list; topN <= 0 keeps every label.
func AnalyzeLabels(records []domain.InsightRecord, field domain.LabelField, topN int) domain.LabelAnalysis {
	counter := newLabelCounter()
	mentions := 0
	for i := range records {
		for _, label := range field.Labels(&records[i]) {
			counter.add(label)
			mentions++
		}
	}

	top := counter.ranked()
	if topN > 0 && len(top) > topN {
		top = top[:topN]
	}

	return domain.LabelAnalysis{
		Field:     field,
		Unique:    len(counter.order),
		Mentions:  mentions,
		Top:       top,
		Frequency: counter.frequency(),
	}
}

// AnalyzeRisks counts risks and lists those repeated at least repeatThreshold times.
func AnalyzeRisks(records []domain.InsightRecord, topN, repeatThreshold int) domain.RiskAnalysis {
	return domain.RiskAnalysis{
		LabelAnalysis: AnalyzeLabels(records, domain.FieldRisks, topN),
		Repeated:      DetectFieldRecurrences(records, domain.FieldRisks, repeatThreshold),
	}
}

// DetectEmergingThemes returns topics mentioned at least threshold times.
func DetectEmergingThemes(records []domain.InsightRecord, threshold int) []domain.Recurrence {
	return DetectFieldRecurrences(records, domain.FieldTopics, threshold)
}

// TrackActionItems flattens, partitions and attributes action items in one pass.
func TrackActionItems(records []domain.InsightRecord) domain.ActionItemReport {
	report := domain.ActionItemReport{
		Items:     []domain.TrackedActionItem{},
		OpenItems: []domain.TrackedActionItem{},
	}
	owners := newLabelCounter()

	for i := range records {
		for _, item := range records[i].ActionItems {
			if item.Owner == "" {
				item.Owner = domain.UnassignedOwner
			}
			if item.Status == "" {
				item.Status = domain.ActionOpen
			}
			tracked := domain.TrackedActionItem{
				ActionItem: item,
				SourceFile: records[i].Filename,
				SourceDate: records[i].Date,
			}

			report.Items = append(report.Items, tracked)
			switch item.Status {
			case domain.ActionOpen:
				report.Open++
				report.OpenItems = append(report.OpenItems, tracked)
			case domain.ActionClosed:
				report.Closed++
			}
			owners.add(item.Owner)
		}
	}

	report.Total = len(report.Items)
	if report.Total > 0 {
		report.CompletionRate = float64(report.Closed) / float64(report.Total) * 100
	}
	report.ByOwner = owners.ranked()
	return report
}

// BuildSentimentTimeline maps each record's sentiment onto the numeric scale
// and orders the points by date. Records without a parseable date are skipped.
// An empty result means there is not enough data, never a zero reading.
func BuildSentimentTimeline(records []domain.InsightRecord) []domain.SentimentPoint {
	points := []domain.SentimentPoint{}
	for i := range records {
		t, ok := records[i].Time()
		if !ok {
			logger.Debug("Skipping %q in sentiment timeline: unparseable date %q", records[i].Filename, records[i].Date)
			continue
		}
		sentiment := records[i].Sentiment
		if !sentiment.IsValid() {
			sentiment = domain.SentimentNeutral
		}
		points = append(points, domain.SentimentPoint{
			Date:      t,
			Sentiment: sentiment,
			Score:     sentiment.Score(),
			Filename:  records[i].Filename,
		})
	}

	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})
	return points
}

// CountSentiments tallies records by sentiment. Unrecognised values count as neutral.
func CountSentiments(records []domain.InsightRecord) domain.SentimentDistribution {
	var dist domain.SentimentDistribution
	for i := range records {
		switch records[i].Sentiment {
		case domain.SentimentPositive:
			dist.Positive++
		case domain.SentimentNegative:
			dist.Negative++
		default:
			dist.Neutral++
		}
	}
	return dist
}

// TrendService serves trend analytics computed fresh from the insight store.
type TrendService struct {
	store    driven.InsightStore
	settings domain.TrendSettings
}

// NewTrendService creates a new trend service.
// Zero-valued settings fields fall back to the defaults.
func NewTrendService(store driven.InsightStore, settings domain.TrendSettings) *TrendService {
	defaults := domain.DefaultTrendSettings()
	if settings.EmergingThreshold <= 0 {
		settings.EmergingThreshold = defaults.EmergingThreshold
	}
	if settings.RepeatThreshold <= 0 {
		settings.RepeatThreshold = defaults.RepeatThreshold
	}
	if settings.TopTopics <= 0 {
		settings.TopTopics = defaults.TopTopics
	}
	if settings.TopRisks <= 0 {
		settings.TopRisks = defaults.TopRisks
	}
	if settings.TopOpportunities <= 0 {
		settings.TopOpportunities = defaults.TopOpportunities
	}
	return &TrendService{store: store, settings: settings}
}

// records loads the full collection.
func (s *TrendService) records(ctx context.Context) ([]domain.InsightRecord, error) {
	records, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load insights: %w", err)
	}
	logger.Debug("Loaded %d insight records", len(records))
	return records, nil
}

// Topics returns the topic frequency table.
func (s *TrendService) Topics(ctx context.Context) (*domain.LabelAnalysis, error) {
	records, err := s.records(ctx)
	if err != nil {
		return nil, err
	}
	analysis := AnalyzeLabels(records, domain.FieldTopics, s.settings.TopTopics)
	return &analysis, nil
}

// Risks returns the risk frequency table with repeated risks.
func (s *TrendService) Risks(ctx context.Context) (*domain.RiskAnalysis, error) {
	records, err := s.records(ctx)
	if err != nil {
		return nil, err
	}
	analysis := AnalyzeRisks(records, s.settings.TopRisks, s.settings.RepeatThreshold)
	return &analysis, nil
}

// Opportunities returns the opportunity frequency table.
func (s *TrendService) Opportunities(ctx context.Context) (*domain.LabelAnalysis, error) {
	records, err := s.records(ctx)
	if err != nil {
		return nil, err
	}
	analysis := AnalyzeLabels(records, domain.FieldOpportunities, s.settings.TopOpportunities)
	return &analysis, nil
}

// ActionItems returns the action item lifecycle report.
func (s *TrendService) ActionItems(ctx context.Context) (*domain.ActionItemReport, error) {
	records, err := s.records(ctx)
	if err != nil {
		return nil, err
	}
	report := TrackActionItems(records)
	return &report, nil
}

// SentimentTimeline returns the sentiment series in date order.
func (s *TrendService) SentimentTimeline(ctx context.Context) ([]domain.SentimentPoint, error) {
	records, err := s.records(ctx)
	if err != nil {
		return nil, err
	}
	return BuildSentimentTimeline(records), nil
}

// EmergingThemes returns topics at or above threshold.
func (s *TrendService) EmergingThemes(ctx context.Context, threshold int) ([]domain.Recurrence, error) {
	if threshold <= 0 {
		threshold = s.settings.EmergingThreshold
	}
	records, err := s.records(ctx)
	if err != nil {
		return nil, err
	}
	return DetectEmergingThemes(records, threshold), nil
}

// ExecutiveSummary composes the report over every record.
func (s *TrendService) ExecutiveSummary(ctx context.Context, period string) (*domain.ExecutiveSummary, error) {
	records, err := s.records(ctx)
	if err != nil {
		return nil, err
	}
	return s.summarise(records, period), nil
}

// Dashboard returns every aggregate computed from a single load of the store.
func (s *TrendService) Dashboard(ctx context.Context) (*domain.Dashboard, error) {
	logger.Section("Dashboard")
	records, err := s.records(ctx)
	if err != nil {
		return nil, err
	}

	dashboard := &domain.Dashboard{
		TotalTranscripts:  len(records),
		Topics:            AnalyzeLabels(records, domain.FieldTopics, s.settings.TopTopics),
		Risks:             AnalyzeRisks(records, s.settings.TopRisks, s.settings.RepeatThreshold),
		Opportunities:     AnalyzeLabels(records, domain.FieldOpportunities, s.settings.TopOpportunities),
		SentimentTimeline: BuildSentimentTimeline(records),
		ActionItems:       TrackActionItems(records),
		EmergingThemes:    DetectEmergingThemes(records, s.settings.EmergingThreshold),
		Summary:           s.summarise(records, defaultSummaryPeriod),
	}

	logger.Info("Dashboard: %d transcripts, %d unique topics, %d repeated risks, %d timeline points",
		dashboard.TotalTranscripts,
		dashboard.Topics.Unique,
		len(dashboard.Risks.Repeated),
		len(dashboard.SentimentTimeline))
	return dashboard, nil
}

// summarise gathers the summary's inputs. The summary's emerging themes use
// the repeat threshold, not the dashboard's emerging threshold.
func (s *TrendService) summarise(records []domain.InsightRecord, period string) *domain.ExecutiveSummary {
	return ComposeExecutiveSummary(SummaryInput{
		Period:         period,
		RecordCount:    len(records),
		Topics:         AnalyzeLabels(records, domain.FieldTopics, s.settings.TopTopics),
		Risks:          AnalyzeRisks(records, s.settings.TopRisks, s.settings.RepeatThreshold),
		Opportunities:  AnalyzeLabels(records, domain.FieldOpportunities, s.settings.TopOpportunities),
		ActionItems:    TrackActionItems(records),
		Emerging:       DetectEmergingThemes(records, s.settings.RepeatThreshold),
		ThemeThreshold: s.settings.RepeatThreshold,
		Sentiment:      CountSentiments(records),
	})
}
