package mcp

import (
	"context"

	"github.com/custodia-labs/pulse-cli/internal/core/domain"
)

// mockTrendService is a mock implementation of driving.TrendService.
type mockTrendService struct {
	dashboard *domain.Dashboard
	risks     *domain.RiskAnalysis
	summary   *domain.ExecutiveSummary
	period    string
	err       error
}

func (m *mockTrendService) Topics(_ context.Context) (*domain.LabelAnalysis, error) {
	if m.dashboard == nil {
		return &domain.LabelAnalysis{}, m.err
	}
	return &m.dashboard.Topics, m.err
}

func (m *mockTrendService) Risks(_ context.Context) (*domain.RiskAnalysis, error) {
	return m.risks, m.err
}

func (m *mockTrendService) Opportunities(_ context.Context) (*domain.LabelAnalysis, error) {
	if m.dashboard == nil {
		return &domain.LabelAnalysis{}, m.err
	}
	return &m.dashboard.Opportunities, m.err
}

func (m *mockTrendService) ActionItems(_ context.Context) (*domain.ActionItemReport, error) {
	if m.dashboard == nil {
		return &domain.ActionItemReport{}, m.err
	}
	return &m.dashboard.ActionItems, m.err
}

func (m *mockTrendService) SentimentTimeline(_ context.Context) ([]domain.SentimentPoint, error) {
	if m.dashboard == nil {
		return nil, m.err
	}
	return m.dashboard.SentimentTimeline, m.err
}

func (m *mockTrendService) EmergingThemes(_ context.Context, _ int) ([]domain.Recurrence, error) {
	if m.dashboard == nil {
		return nil, m.err
	}
	return m.dashboard.EmergingThemes, m.err
}

func (m *mockTrendService) ExecutiveSummary(_ context.Context, period string) (*domain.ExecutiveSummary, error) {
	m.period = period
	return m.summary, m.err
}

func (m *mockTrendService) Dashboard(_ context.Context) (*domain.Dashboard, error) {
	return m.dashboard, m.err
}

// mockIndexService is a mock implementation of driving.IndexService.
type mockIndexService struct {
	matches []domain.DocumentMatch
	stats   domain.IndexStats
	lastK   int
	err     error
}

func (m *mockIndexService) Add(_ context.Context, _ string, _ domain.DocumentMetadata) (int, error) {
	return 0, m.err
}

func (m *mockIndexService) Search(_ context.Context, _ string, k int) ([]domain.DocumentMatch, error) {
	m.lastK = k
	return m.matches, m.err
}

func (m *mockIndexService) Exists(_ string) bool {
	return false
}

func (m *mockIndexService) Documents() []domain.DocumentMetadata {
	return nil
}

func (m *mockIndexService) Stats() domain.IndexStats {
	return m.stats
}

// mockInsightService is a mock implementation of driving.InsightService.
type mockInsightService struct {
	records []domain.InsightRecord
	err     error
}

func (m *mockInsightService) Import(_ context.Context, record domain.InsightRecord) (*domain.InsightRecord, error) {
	return &record, m.err
}

func (m *mockInsightService) Get(_ context.Context, filename string) (*domain.InsightRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.records {
		if m.records[i].Filename == filename {
			return &m.records[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockInsightService) List(_ context.Context) ([]domain.InsightRecord, error) {
	return m.records, m.err
}
