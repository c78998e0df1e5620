package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pulse-cli/internal/core/domain"
)

var (
	dashboardJSON  bool
	dashboardWatch bool
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show cross-meeting trends",
	Long: `Aggregates every stored insight record into topics, risks, opportunities,
emerging themes, action item progress and the sentiment timeline.

Use --watch to re-render whenever insight records are added or changed.`,
	Args: cobra.NoArgs,
	RunE: runDashboard,
}

func init() {
	dashboardCmd.Flags().BoolVar(&dashboardJSON, "json", false, "output the dashboard as JSON")
	dashboardCmd.Flags().BoolVarP(&dashboardWatch, "watch", "w", false, "re-render when insight records change")
	rootCmd.AddCommand(dashboardCmd)
}

func runDashboard(cmd *cobra.Command, _ []string) error {
	if trendService == nil {
		return errTrendsNotConfigured
	}

	ctx := cmd.Context()
	if !dashboardWatch {
		return renderDashboard(ctx, cmd)
	}

	if insightWatcher == nil {
		return errors.New("watching is only supported by the file insight store")
	}
	changes, err := insightWatcher.Watch(ctx, 0)
	if err != nil {
		return fmt.Errorf("failed to watch insights: %w", err)
	}

	if err := renderDashboard(ctx, cmd); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-changes:
			if !ok {
				return nil
			}
			cmd.Printf("\n--- updated %s ---\n\n", time.Now().Format(time.TimeOnly))
			if err := renderDashboard(ctx, cmd); err != nil {
				return err
			}
		}
	}
}

func renderDashboard(ctx context.Context, cmd *cobra.Command) error {
	dashboard, err := trendService.Dashboard(ctx)
	if err != nil {
		return fmt.Errorf("failed to build dashboard: %w", err)
	}

	if dashboardJSON {
		return outputJSON(cmd, dashboard)
	}

	if dashboard.TotalTranscripts == 0 {
		cmd.Println("No insight records found. Import some with 'pulse insights import'.")
		return nil
	}

	heading(cmd, "Meeting Insights Dashboard")
	cmd.Printf("Transcripts analysed: %d\n\n", dashboard.TotalTranscripts)

	cmd.Println("Top Topics")
	printCounts(cmd, dashboard.Topics.Top, "mentions")
	cmd.Println()

	cmd.Println("Top Risks")
	printCounts(cmd, dashboard.Risks.Top, "mentions")
	cmd.Println()

	cmd.Println("Repeated Risks")
	printRecurrences(cmd, dashboard.Risks.Repeated)
	cmd.Println()

	cmd.Println("Top Opportunities")
	printCounts(cmd, dashboard.Opportunities.Top, "mentions")
	cmd.Println()

	cmd.Println("Emerging Themes")
	printRecurrences(cmd, dashboard.EmergingThemes)
	cmd.Println()

	printActionSummary(cmd, &dashboard.ActionItems)
	cmd.Println()

	cmd.Println("Sentiment Timeline")
	printTimeline(cmd, dashboard.SentimentTimeline)
	return nil
}

func printActionSummary(cmd *cobra.Command, report *domain.ActionItemReport) {
	cmd.Println("Action Items")
	cmd.Printf("  Total: %d  Open: %d  Closed: %d  Completion: %.1f%%\n",
		report.Total, report.Open, report.Closed, report.CompletionRate)
	if len(report.ByOwner) > 0 {
		cmd.Println("  By owner:")
		for _, o := range report.ByOwner {
			cmd.Printf("    %s: %d\n", o.Label, o.Count)
		}
	}
}

func printTimeline(cmd *cobra.Command, points []domain.SentimentPoint) {
	if len(points) == 0 {
		cmd.Println("  (no dated transcripts)")
		return
	}
	for _, p := range points {
		cmd.Printf("  %s  %-8s (%+d)  %s\n", p.Date.Format(time.DateOnly), p.Sentiment, p.Score, p.Filename)
	}
}
