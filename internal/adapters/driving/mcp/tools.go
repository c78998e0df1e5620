package mcp

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/pulse-cli/internal/core/domain"
	"github.com/custodia-labs/pulse-cli/internal/core/services"
	"github.com/custodia-labs/pulse-cli/internal/logger"
)

// defaultSearchLimit is the number of transcripts returned when no limit is given.
const defaultSearchLimit = 5

// SearchInput is the input schema for the search_transcripts tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"natural language description of the meeting content to find"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of transcripts to return (default 5)"`
}

// SearchOutput is the output schema for the search_transcripts tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	Rank        int     `json:"rank"`
	Filename    string  `json:"filename"`
	Score       float64 `json:"score"`
	Distance    float64 `json:"distance"`
	UploadDate  string  `json:"upload_date,omitempty"`
	TextPreview string  `json:"text_preview,omitempty"`
}

// DashboardInput is the input schema for the dashboard tool. It takes no arguments.
type DashboardInput struct{}

// DashboardOutput is the output schema for the dashboard tool.
type DashboardOutput struct {
	TotalTranscripts  int                    `json:"total_transcripts"`
	TopTopics         []domain.LabelCount    `json:"top_topics"`
	TopRisks          []domain.LabelCount    `json:"top_risks"`
	RepeatedRisks     []domain.Recurrence    `json:"repeated_risks"`
	TopOpportunities  []domain.LabelCount    `json:"top_opportunities"`
	EmergingThemes    []domain.Recurrence    `json:"emerging_themes"`
	SentimentTimeline []SentimentPointOutput `json:"sentiment_timeline"`
	ActionItems       ActionItemsOutput      `json:"action_items"`
}

// SentimentPointOutput is one entry of the sentiment timeline.
type SentimentPointOutput struct {
	Date      string `json:"date"`
	Sentiment string `json:"sentiment"`
	Score     int    `json:"sentiment_score"`
	Filename  string `json:"filename"`
}

// ActionItemsOutput summarises action item progress.
type ActionItemsOutput struct {
	Total          int                 `json:"total"`
	Open           int                 `json:"open"`
	Closed         int                 `json:"closed"`
	CompletionRate float64             `json:"completion_rate"`
	ByOwner        []domain.LabelCount `json:"by_owner"`
}

// SummaryInput is the input schema for the executive_summary tool.
type SummaryInput struct {
	Period string `json:"period,omitempty" jsonschema:"label for the reporting period, e.g. weekly (default recent)"`
}

// SummaryOutput is the output schema for the executive_summary tool.
type SummaryOutput struct {
	Markdown     string `json:"markdown"`
	MeetingCount int    `json:"meeting_count"`
}

// RisksInput is the input schema for the repeated_risks tool.
type RisksInput struct {
	MinCount int `json:"min_count,omitempty" jsonschema:"only return risks raised at least this many times"`
}

// RisksOutput is the output schema for the repeated_risks tool.
type RisksOutput struct {
	Risks []domain.Recurrence `json:"risks"`
	Count int                 `json:"count"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_transcripts",
		Description: "Find meeting transcripts semantically similar to a query",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "dashboard",
		Description: "Cross-meeting trends: topics, risks, opportunities, sentiment and action items",
	}, s.handleDashboard)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "executive_summary",
		Description: "Markdown executive summary across all analysed meetings",
	}, s.handleSummary)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "repeated_risks",
		Description: "Risks raised in more than one meeting, with where each was raised",
	}, s.handleRepeatedRisks)
}

// logCall records a tool invocation at debug level.
func logCall(tool string, start time.Time, err error) {
	log := logger.Zerolog()
	event := log.Debug()
	if err != nil {
		event = log.Warn().Err(err)
	}
	event.Str("tool", tool).Dur("elapsed", time.Since(start)).Msg("mcp tool call")
}

// handleSearch handles the search_transcripts tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (_ *mcp.CallToolResult, _ SearchOutput, err error) {
	defer func(start time.Time) { logCall("search_transcripts", start, err) }(time.Now())

	if s.ports.Index == nil {
		return nil, SearchOutput{}, domain.ErrVectorIndexUnavailable
	}

	limit := input.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	matches, err := s.ports.Index.Search(ctx, input.Query, limit)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(matches)),
		Count:   len(matches),
	}
	for i := range matches {
		output.Results[i] = SearchResultOutput{
			Rank:        matches[i].Rank,
			Filename:    matches[i].Document.Filename,
			Score:       matches[i].Score,
			Distance:    matches[i].Distance,
			UploadDate:  matches[i].Document.UploadDate,
			TextPreview: matches[i].Document.TextPreview,
		}
	}

	return nil, output, nil
}

// handleDashboard handles the dashboard tool invocation.
func (s *Server) handleDashboard(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ DashboardInput,
) (_ *mcp.CallToolResult, _ DashboardOutput, err error) {
	defer func(start time.Time) { logCall("dashboard", start, err) }(time.Now())

	dashboard, err := s.ports.Trends.Dashboard(ctx)
	if err != nil {
		return nil, DashboardOutput{}, err
	}

	output := DashboardOutput{
		TotalTranscripts:  dashboard.TotalTranscripts,
		TopTopics:         nonNil(dashboard.Topics.Top),
		TopRisks:          nonNil(dashboard.Risks.Top),
		RepeatedRisks:     nonNil(dashboard.Risks.Repeated),
		TopOpportunities:  nonNil(dashboard.Opportunities.Top),
		EmergingThemes:    nonNil(dashboard.EmergingThemes),
		SentimentTimeline: make([]SentimentPointOutput, len(dashboard.SentimentTimeline)),
		ActionItems: ActionItemsOutput{
			Total:          dashboard.ActionItems.Total,
			Open:           dashboard.ActionItems.Open,
			Closed:         dashboard.ActionItems.Closed,
			CompletionRate: dashboard.ActionItems.CompletionRate,
			ByOwner:        nonNil(dashboard.ActionItems.ByOwner),
		},
	}
	for i, p := range dashboard.SentimentTimeline {
		output.SentimentTimeline[i] = SentimentPointOutput{
			Date:      p.Date.Format(time.RFC3339),
			Sentiment: p.Sentiment.String(),
			Score:     p.Score,
			Filename:  p.Filename,
		}
	}

	return nil, output, nil
}

// handleSummary handles the executive_summary tool invocation.
func (s *Server) handleSummary(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SummaryInput,
) (_ *mcp.CallToolResult, _ SummaryOutput, err error) {
	defer func(start time.Time) { logCall("executive_summary", start, err) }(time.Now())

	summary, err := s.ports.Trends.ExecutiveSummary(ctx, input.Period)
	if err != nil {
		return nil, SummaryOutput{}, err
	}

	output := SummaryOutput{Markdown: services.RenderMarkdown(summary)}
	if summary != nil {
		output.MeetingCount = summary.MeetingCount
	}
	return nil, output, nil
}

// handleRepeatedRisks handles the repeated_risks tool invocation.
func (s *Server) handleRepeatedRisks(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RisksInput,
) (_ *mcp.CallToolResult, _ RisksOutput, err error) {
	defer func(start time.Time) { logCall("repeated_risks", start, err) }(time.Now())

	analysis, err := s.ports.Trends.Risks(ctx)
	if err != nil {
		return nil, RisksOutput{}, err
	}

	risks := []domain.Recurrence{}
	for _, r := range analysis.Repeated {
		if r.Count >= input.MinCount {
			risks = append(risks, r)
		}
	}
	return nil, RisksOutput{Risks: risks, Count: len(risks)}, nil
}

// nonNil returns an empty slice in place of nil so outputs encode as [].
func nonNil[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}
