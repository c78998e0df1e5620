package services

import (
	"context"
	"errors"

	"github.com/custodia-labs/pulse-cli/internal/core/domain"
)

// mockEmbeddingService implements driven.EmbeddingService for testing.
// Texts listed in vectors embed to their vector; anything else embeds to fallback.
type mockEmbeddingService struct {
	vectors  map[string][]float32
	fallback []float32
	err      error
	calls    int
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if v, ok := m.vectors[text]; ok {
		return v, nil
	}
	return m.fallback, nil
}

func (m *mockEmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		v, err := m.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (m *mockEmbeddingService) Dimensions() int {
	return len(m.fallback)
}

func (m *mockEmbeddingService) ModelName() string {
	return "mock-embed"
}

func (m *mockEmbeddingService) Ping(_ context.Context) error {
	return m.err
}

func (m *mockEmbeddingService) Close() error {
	return nil
}

// failingInsightStore implements driven.InsightStore and fails every call.
type failingInsightStore struct {
	err error
}

func (s *failingInsightStore) Save(_ context.Context, _ domain.InsightRecord) error {
	return s.err
}

func (s *failingInsightStore) Get(_ context.Context, _ string) (*domain.InsightRecord, error) {
	return nil, s.err
}

func (s *failingInsightStore) List(_ context.Context) ([]domain.InsightRecord, error) {
	return nil, s.err
}

func (s *failingInsightStore) Close() error {
	return nil
}

var errStoreDown = errors.New("store down")

// mockAIValidator implements driven.AIConfigValidator for testing.
type mockAIValidator struct {
	err    error
	called *domain.EmbeddingSettings
}

func (m *mockAIValidator) ValidateEmbedding(config *domain.EmbeddingSettings) error {
	m.called = config
	return m.err
}

// sampleRecords returns five meetings in which "budget overrun" is raised in two.
// The last record has no date and no sentiment.
func sampleRecords() []domain.InsightRecord {
	return []domain.InsightRecord{
		{
			Filename:      "a.txt",
			Date:          "2024-01-01T09:00:00",
			Topics:        []string{"roadmap", "hiring"},
			Risks:         []string{"budget overrun"},
			Opportunities: []string{"automation"},
			ActionItems: []domain.ActionItem{
				{Task: "draft plan", Owner: "Ana", Status: domain.ActionOpen},
			},
			Sentiment: domain.SentimentPositive,
		},
		{
			Filename:      "b.txt",
			Date:          "2024-01-02T09:00:00",
			Topics:        []string{"roadmap"},
			Risks:         []string{"budget overrun", "attrition"},
			Opportunities: []string{"automation", "partnerships"},
			ActionItems: []domain.ActionItem{
				{Task: "open req", Owner: "Ben", Status: domain.ActionClosed},
			},
			Sentiment: domain.SentimentNeutral,
		},
		{
			Filename: "c.txt",
			Date:     "2024-01-03T09:00:00",
			Topics:   []string{"roadmap", "hiring"},
			ActionItems: []domain.ActionItem{
				{Task: "review budget", Owner: "Ana", Status: domain.ActionOpen},
			},
			Sentiment: domain.SentimentNegative,
		},
		{
			Filename:  "d.txt",
			Date:      "2024-01-04T09:00:00",
			Topics:    []string{"security"},
			Risks:     []string{"vendor lock-in"},
			Sentiment: domain.SentimentPositive,
		},
		{
			Filename: "e.txt",
		},
	}
}

// newestFirst returns records normalised and ordered as an insight store lists them.
func newestFirst(records []domain.InsightRecord) []domain.InsightRecord {
	out := make([]domain.InsightRecord, len(records))
	for i := range records {
		out[i] = records[i].Clone()
		out[i].Normalize()
	}
	domain.SortNewestFirst(out)
	return out
}
