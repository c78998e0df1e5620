package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pulse-cli/internal/core/domain"
)

func outputJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

// printCounts prints a ranked label list, one per line, or none when empty.
func printCounts(cmd *cobra.Command, counts []domain.LabelCount, unit string) {
	if len(counts) == 0 {
		cmd.Println("  (none)")
		return
	}
	for i, c := range counts {
		cmd.Printf("  %2d. %s (%d %s)\n", i+1, c.Label, c.Count, unit)
	}
}

// printRecurrences prints recurring labels with the transcripts they appeared in.
func printRecurrences(cmd *cobra.Command, recurrences []domain.Recurrence) {
	if len(recurrences) == 0 {
		cmd.Println("  (none)")
		return
	}
	for _, r := range recurrences {
		files := make([]string, len(r.Occurrences))
		for i, o := range r.Occurrences {
			files[i] = o.Filename
		}
		cmd.Printf("  - %s (%d times): %s\n", r.Label, r.Count, strings.Join(files, ", "))
	}
}

func heading(cmd *cobra.Command, title string) {
	cmd.Println(title)
	cmd.Println(strings.Repeat("=", len(title)))
}
