package services

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/custodia-labs/pulse-cli/internal/core/domain"
)

// Section sizes of the executive summary.
const (
	summaryTopTopics        = 5
	summaryEmergingThemes   = 5
	summaryRepeatedRisks    = 3
	summaryTopOpportunities = 3
	summaryTopOwners        = 3
)

// NoSummaryMessage is rendered in place of a summary when there are no records.
const NoSummaryMessage = "No transcripts available for summary."

// SummaryInput carries the aggregates the executive summary is composed from.
type SummaryInput struct {
	Period        string
	RecordCount   int
	Topics        domain.LabelAnalysis
	Risks         domain.RiskAnalysis
	Opportunities domain.LabelAnalysis
	ActionItems   domain.ActionItemReport
	Emerging      []domain.Recurrence
	Sentiment     domain.SentimentDistribution

	// ThemeThreshold is the count Emerging was detected with. Zero means the default.
	ThemeThreshold int
}

// ComposeExecutiveSummary builds the report from precomputed aggregates.
// It returns nil when there are no records. Sections with no data stay nil.
func ComposeExecutiveSummary(in SummaryInput) *domain.ExecutiveSummary {
	if in.RecordCount == 0 {
		return nil
	}
	period := in.Period
	if period == "" {
		period = defaultSummaryPeriod
	}

	summary := &domain.ExecutiveSummary{
		Period:           period,
		MeetingCount:     in.RecordCount,
		Sentiment:        in.Sentiment,
		OpenActionItems:  in.ActionItems.Open,
		TotalActionItems: in.ActionItems.Total,
		CompletionRate:   in.ActionItems.CompletionRate,
		ThemeThreshold:   in.ThemeThreshold,
		HasActionItems:   len(in.ActionItems.Items) > 0,
	}
	if summary.ThemeThreshold <= 0 {
		summary.ThemeThreshold = domain.DefaultTrendSettings().RepeatThreshold
	}

	summary.TopTopics = headCounts(in.Topics.Top, summaryTopTopics)
	summary.EmergingThemes = recurrenceCounts(in.Emerging, summaryEmergingThemes)
	summary.RepeatedRisks = recurrenceCounts(in.Risks.Repeated, summaryRepeatedRisks)
	for _, opp := range headCounts(in.Opportunities.Top, summaryTopOpportunities) {
		summary.TopOpportunities = append(summary.TopOpportunities, opp.Label)
	}
	if summary.HasActionItems {
		summary.TopOwners = headCounts(in.ActionItems.ByOwner, summaryTopOwners)
	}
	return summary
}

// headCounts returns a copy of the first n entries, or nil when empty.
func headCounts(counts []domain.LabelCount, n int) []domain.LabelCount {
	if len(counts) == 0 {
		return nil
	}
	if len(counts) > n {
		counts = counts[:n]
	}
	out := make([]domain.LabelCount, len(counts))
	copy(out, counts)
	return out
}

func recurrenceCounts(recurrences []domain.Recurrence, n int) []domain.LabelCount {
	if len(recurrences) == 0 {
		return nil
	}
	if len(recurrences) > n {
		recurrences = recurrences[:n]
	}
	out := make([]domain.LabelCount, len(recurrences))
	for i, r := range recurrences {
		out[i] = domain.LabelCount{Label: r.Label, Count: r.Count}
	}
	return out
}

// RenderMarkdown formats the summary as a Markdown report.
// A nil summary renders NoSummaryMessage.
func RenderMarkdown(summary *domain.ExecutiveSummary) string {
	if summary == nil {
		return NoSummaryMessage
	}

	var b strings.Builder
	title := cases.Title(language.English).String(summary.Period)
	fmt.Fprintf(&b, "# Executive Summary (%s)\n\n", title)

	b.WriteString("## Overview\n")
	fmt.Fprintf(&b, "- **Total Meetings Analyzed**: %d\n", summary.MeetingCount)
	fmt.Fprintf(&b, "- **Sentiment Distribution**: %d positive, %d neutral, %d negative\n",
		summary.Sentiment.Positive, summary.Sentiment.Neutral, summary.Sentiment.Negative)
	fmt.Fprintf(&b, "- **Open Action Items**: %d / %d (%.1f%% completion rate)\n\n",
		summary.OpenActionItems, summary.TotalActionItems, summary.CompletionRate)

	b.WriteString("## Key Themes\n")

	if len(summary.TopTopics) > 0 {
		b.WriteString("\n### Most Discussed Topics:\n")
		for _, t := range summary.TopTopics {
			fmt.Fprintf(&b, "- **%s** (%d mentions)\n", t.Label, t.Count)
		}
	}

	if len(summary.EmergingThemes) > 0 {
		fmt.Fprintf(&b, "\n### Emerging Themes (%d+ mentions):\n", summary.ThemeThreshold)
		for _, t := range summary.EmergingThemes {
			fmt.Fprintf(&b, "- **%s** (%d times)\n", t.Label, t.Count)
		}
	}

	if len(summary.RepeatedRisks) > 0 {
		b.WriteString("\n### Repeated Risks (Requires Attention):\n")
		for _, r := range summary.RepeatedRisks {
			fmt.Fprintf(&b, "- **%s** (mentioned %d times)\n", r.Label, r.Count)
		}
	}

	if len(summary.TopOpportunities) > 0 {
		b.WriteString("\n### Top Opportunities:\n")
		for _, o := range summary.TopOpportunities {
			fmt.Fprintf(&b, "- %s\n", o)
		}
	}

	if summary.HasActionItems {
		b.WriteString("\n### Action Items:\n")
		fmt.Fprintf(&b, "- %d open items requiring attention\n", summary.OpenActionItems)
		if len(summary.TopOwners) > 0 {
			owners := make([]string, len(summary.TopOwners))
			for i, o := range summary.TopOwners {
				owners[i] = fmt.Sprintf("%s (%d)", o.Label, o.Count)
			}
			fmt.Fprintf(&b, "- Top owners: %s\n", strings.Join(owners, ", "))
		}
	}

	return b.String()
}
