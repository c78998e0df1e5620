package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pulse-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/pulse-cli/internal/adapters/driven/vectorindex/flat"
	"github.com/custodia-labs/pulse-cli/internal/core/domain"
	"github.com/custodia-labs/pulse-cli/internal/core/services"
)

// stubEmbedder maps text to (word count, occurrences of "budget").
type stubEmbedder struct {
	err error
}

func (s *stubEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	lower := strings.ToLower(text)
	return []float32{float32(len(strings.Fields(text))), float32(strings.Count(lower, "budget"))}, nil
}

func (s *stubEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		v, err := s.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (s *stubEmbedder) Dimensions() int              { return 2 }
func (s *stubEmbedder) ModelName() string            { return "stub-embed" }
func (s *stubEmbedder) Ping(_ context.Context) error { return s.err }
func (s *stubEmbedder) Close() error                 { return nil }

func testRecords() []domain.InsightRecord {
	return []domain.InsightRecord{
		{
			Filename:  "a.txt",
			Date:      "2024-01-01T09:00:00",
			Topics:    []string{"roadmap", "hiring"},
			Risks:     []string{"budget overrun"},
			Sentiment: domain.SentimentPositive,
			ActionItems: []domain.ActionItem{
				{Task: "Draft plan", Owner: "Ana", Status: domain.ActionOpen},
			},
		},
		{
			Filename:      "b.txt",
			Date:          "2024-01-02",
			Topics:        []string{"roadmap"},
			Risks:         []string{"budget overrun"},
			Opportunities: []string{"automation"},
			Sentiment:     domain.SentimentNeutral,
			ActionItems: []domain.ActionItem{
				{Task: "Book venue", Owner: "Ben", Status: domain.ActionClosed},
			},
		},
		{
			Filename:  "c.txt",
			Date:      "2024-01-03",
			Topics:    []string{"roadmap"},
			Sentiment: domain.SentimentNegative,
		},
	}
}

// setupTestServices wires real services over in-memory stores and a temporary index.
func setupTestServices(t *testing.T, records ...domain.InsightRecord) *memory.ConfigStore {
	t.Helper()

	store := memory.NewInsightStore(records...)
	idx, err := flat.New(t.TempDir(), 2)
	require.NoError(t, err)

	config := memory.NewConfigStore()
	settings := services.NewSettingsService(config, nil)
	settings.SetEnvLookup(func(string) string { return "" })

	SetServices(Services{
		Settings: settings,
		Insights: services.NewInsightService(store),
		Trends:   services.NewTrendService(store, domain.TrendSettings{}),
		Index:    services.NewIndexService(idx, &stubEmbedder{}, 0),
	})
	t.Cleanup(func() {
		SetServices(Services{})
		idx.Close()
	})
	return config
}

// executeCommand runs the root command with args and returns combined output.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return executeWithInput(t, "", args...)
}

// executeWithInput runs the root command with stdin set to input.
func executeWithInput(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(input))
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		resetFlags(rootCmd)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

// resetFlags restores every flag in the command tree to its default.
func resetFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}
