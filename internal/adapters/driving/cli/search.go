package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pulse-cli/internal/core/domain"
	"github.com/custodia-labs/pulse-cli/internal/core/services"
)

var (
	searchLimit int
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed transcripts",
	Long: `Finds the indexed meeting transcripts semantically closest to the query.
The query is embedded with the configured provider and compared against
every indexed transcript by Euclidean distance.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", services.DefaultSearchLimit, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	if indexService == nil {
		return errIndexNotConfigured
	}

	matches, err := indexService.Search(cmd.Context(), query, searchLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputJSON(cmd, matches)
	}

	return outputSearchTable(cmd, matches)
}

func outputSearchTable(cmd *cobra.Command, matches []domain.DocumentMatch) error {
	if len(matches) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range matches {
		doc := matches[i].Document
		cmd.Printf("  [%d] %s (%.3f)\n", matches[i].Rank, doc.Filename, matches[i].Score)
		if doc.UploadDate != "" {
			cmd.Printf("      Uploaded: %s\n", doc.UploadDate)
		}
		if preview := previewLine(doc.TextPreview, 160); preview != "" {
			cmd.Printf("      %s\n", preview)
		}
		cmd.Println()
	}

	return nil
}

// previewLine collapses whitespace and shortens text to n runes for one-line display.
func previewLine(text string, n int) string {
	text = strings.Join(strings.Fields(text), " ")
	short := domain.Preview(text, n)
	if short != text {
		short += "..."
	}
	return short
}
