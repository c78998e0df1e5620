package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pulse-cli/internal/core/domain"
	"github.com/custodia-labs/pulse-cli/internal/core/services"
)

var (
	summaryPeriod   string
	summaryJSON     bool
	topicsJSON      bool
	risksJSON       bool
	opportunityJSON bool
	themesThreshold int
	themesJSON      bool
	actionsOpenOnly bool
	actionsJSON     bool
	sentimentJSON   bool
	keywordsJSON    bool
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the executive summary",
	Long: `Composes a Markdown executive summary across every analysed meeting:
overview, key themes, repeated risks, top opportunities and action item owners.`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "Show the most discussed topics",
	Args:  cobra.NoArgs,
	RunE:  runTopics,
}

var risksCmd = &cobra.Command{
	Use:   "risks",
	Short: "Show top and repeated risks",
	Args:  cobra.NoArgs,
	RunE:  runRisks,
}

var opportunitiesCmd = &cobra.Command{
	Use:   "opportunities",
	Short: "Show the most raised opportunities",
	Args:  cobra.NoArgs,
	RunE:  runOpportunities,
}

var themesCmd = &cobra.Command{
	Use:   "themes",
	Short: "Show emerging themes",
	Long: `Lists topics discussed at least --threshold times across meetings,
with every transcript each appeared in. A threshold of 0 uses the
configured default (trends.emerging_threshold).`,
	Args: cobra.NoArgs,
	RunE: runThemes,
}

var actionsCmd = &cobra.Command{
	Use:   "actions",
	Short: "Show action item progress",
	Args:  cobra.NoArgs,
	RunE:  runActions,
}

var sentimentCmd = &cobra.Command{
	Use:   "sentiment",
	Short: "Show the sentiment timeline",
	Long:  `Lists dated transcripts in chronological order with their sentiment score (+1, 0, -1).`,
	Args:  cobra.NoArgs,
	RunE:  runSentiment,
}

var keywordsCmd = &cobra.Command{
	Use:   "keywords [file...]",
	Short: "Extract keyword themes from work notes",
	Long: `Reads free-text work notes, one note per line, from the given files or
from stdin when no files are given, and prints the five most frequent keywords.`,
	RunE: runKeywords,
}

func init() {
	summaryCmd.Flags().StringVar(&summaryPeriod, "period", "recent", "label for the reporting period")
	summaryCmd.Flags().BoolVar(&summaryJSON, "json", false, "output the summary as JSON")
	topicsCmd.Flags().BoolVar(&topicsJSON, "json", false, "output as JSON")
	risksCmd.Flags().BoolVar(&risksJSON, "json", false, "output as JSON")
	opportunitiesCmd.Flags().BoolVar(&opportunityJSON, "json", false, "output as JSON")
	themesCmd.Flags().IntVarP(&themesThreshold, "threshold", "t", 0, "minimum number of mentions")
	themesCmd.Flags().BoolVar(&themesJSON, "json", false, "output as JSON")
	actionsCmd.Flags().BoolVar(&actionsOpenOnly, "open", false, "list only open action items")
	actionsCmd.Flags().BoolVar(&actionsJSON, "json", false, "output as JSON")
	sentimentCmd.Flags().BoolVar(&sentimentJSON, "json", false, "output as JSON")
	keywordsCmd.Flags().BoolVar(&keywordsJSON, "json", false, "output as JSON")

	rootCmd.AddCommand(summaryCmd, topicsCmd, risksCmd, opportunitiesCmd,
		themesCmd, actionsCmd, sentimentCmd, keywordsCmd)
}

func runSummary(cmd *cobra.Command, _ []string) error {
	if trendService == nil {
		return errTrendsNotConfigured
	}

	summary, err := trendService.ExecutiveSummary(cmd.Context(), summaryPeriod)
	if err != nil {
		return fmt.Errorf("failed to compose summary: %w", err)
	}

	if summaryJSON {
		if summary == nil {
			return outputJSON(cmd, struct{}{})
		}
		return outputJSON(cmd, summary)
	}
	cmd.Print(services.RenderMarkdown(summary))
	if summary == nil {
		cmd.Println()
	}
	return nil
}

func runTopics(cmd *cobra.Command, _ []string) error {
	if trendService == nil {
		return errTrendsNotConfigured
	}

	analysis, err := trendService.Topics(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to analyse topics: %w", err)
	}
	if topicsJSON {
		return outputJSON(cmd, analysis)
	}

	cmd.Printf("Topics: %d unique, %d mentions\n\n", analysis.Unique, analysis.Mentions)
	printCounts(cmd, analysis.Top, "mentions")
	return nil
}

func runRisks(cmd *cobra.Command, _ []string) error {
	if trendService == nil {
		return errTrendsNotConfigured
	}

	analysis, err := trendService.Risks(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to analyse risks: %w", err)
	}
	if risksJSON {
		return outputJSON(cmd, analysis)
	}

	cmd.Printf("Risks: %d unique, %d mentions\n\n", analysis.Unique, analysis.Mentions)
	cmd.Println("Top Risks")
	printCounts(cmd, analysis.Top, "mentions")
	cmd.Println()
	cmd.Println("Repeated Risks")
	printRecurrences(cmd, analysis.Repeated)
	return nil
}

func runOpportunities(cmd *cobra.Command, _ []string) error {
	if trendService == nil {
		return errTrendsNotConfigured
	}

	analysis, err := trendService.Opportunities(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to analyse opportunities: %w", err)
	}
	if opportunityJSON {
		return outputJSON(cmd, analysis)
	}

	cmd.Printf("Opportunities: %d unique, %d mentions\n\n", analysis.Unique, analysis.Mentions)
	printCounts(cmd, analysis.Top, "mentions")
	return nil
}

func runThemes(cmd *cobra.Command, _ []string) error {
	if trendService == nil {
		return errTrendsNotConfigured
	}
	if themesThreshold < 0 {
		return fmt.Errorf("%w: threshold must not be negative", domain.ErrInvalidInput)
	}

	themes, err := trendService.EmergingThemes(cmd.Context(), themesThreshold)
	if err != nil {
		return fmt.Errorf("failed to detect themes: %w", err)
	}
	if themesJSON {
		return outputJSON(cmd, themes)
	}

	cmd.Println("Emerging Themes")
	printRecurrences(cmd, themes)
	return nil
}

func runActions(cmd *cobra.Command, _ []string) error {
	if trendService == nil {
		return errTrendsNotConfigured
	}

	report, err := trendService.ActionItems(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to track action items: %w", err)
	}

	items := report.Items
	if actionsOpenOnly {
		items = report.OpenItems
	}
	if actionsJSON {
		if actionsOpenOnly {
			return outputJSON(cmd, items)
		}
		return outputJSON(cmd, report)
	}

	printActionSummary(cmd, report)
	cmd.Println()
	if len(items) == 0 {
		cmd.Println("No action items.")
		return nil
	}
	for _, item := range items {
		cmd.Printf("  [%s] %s\n", item.Status, item.Task)
		cmd.Printf("      Owner: %s  Deadline: %s  Source: %s\n", item.Owner, item.Deadline, item.SourceFile)
	}
	return nil
}

func runSentiment(cmd *cobra.Command, _ []string) error {
	if trendService == nil {
		return errTrendsNotConfigured
	}

	points, err := trendService.SentimentTimeline(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to build timeline: %w", err)
	}
	if sentimentJSON {
		if points == nil {
			points = []domain.SentimentPoint{}
		}
		return outputJSON(cmd, points)
	}

	cmd.Println("Sentiment Timeline")
	printTimeline(cmd, points)
	return nil
}

func runKeywords(cmd *cobra.Command, args []string) error {
	var notes []string
	if len(args) == 0 {
		lines, err := readNotes(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read notes: %w", err)
		}
		notes = lines
	}
	for _, path := range args {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", path, err)
		}
		lines, err := readNotes(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		notes = append(notes, lines...)
	}

	keywords := services.KeywordThemes(notes)
	if keywordsJSON {
		return outputJSON(cmd, keywords)
	}

	cmd.Printf("Keyword themes from %d notes\n", len(notes))
	printCounts(cmd, keywords, "mentions")
	return nil
}

// readNotes returns the non-blank lines of r.
func readNotes(r io.Reader) ([]string, error) {
	var notes []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			notes = append(notes, line)
		}
	}
	return notes, scanner.Err()
}
