package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pulse-cli/internal/core/domain"
)

var insightsJSON bool

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Manage per-transcript insight records",
}

var insightsImportCmd = &cobra.Command{
	Use:   "import [file...]",
	Short: "Import insight records from JSON",
	Long: `Imports insight records produced by the transcript analyser. Each file
may hold a single record object or an array of records. With no files,
records are read from standard input.

Missing fields are filled with defaults (owner "Unassigned", deadline
"No deadline", status "open", sentiment "neutral"). A record with the same
filename as an existing one replaces it.`,
	RunE: runInsightsImport,
}

var insightsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored insight records, newest first",
	Args:  cobra.NoArgs,
	RunE:  runInsightsList,
}

var insightsShowCmd = &cobra.Command{
	Use:   "show [filename]",
	Short: "Show the insight record for a transcript",
	Args:  cobra.ExactArgs(1),
	RunE:  runInsightsShow,
}

func init() {
	insightsListCmd.Flags().BoolVar(&insightsJSON, "json", false, "output as JSON")
	insightsCmd.AddCommand(insightsImportCmd, insightsListCmd, insightsShowCmd)
	rootCmd.AddCommand(insightsCmd)
}

func runInsightsImport(cmd *cobra.Command, args []string) error {
	if insightService == nil {
		return errInsightsNotConfigured
	}

	var records []domain.InsightRecord
	if len(args) == 0 {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		decoded, err := decodeRecords(data)
		if err != nil {
			return fmt.Errorf("stdin: %w", err)
		}
		records = decoded
	}
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		decoded, err := decodeRecords(data)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		records = append(records, decoded...)
	}

	var failed int
	for _, record := range records {
		imported, err := insightService.Import(cmd.Context(), record)
		if err != nil {
			failed++
			cmd.PrintErrf("Failed %q: %v\n", record.Filename, err)
			continue
		}
		cmd.Printf("Imported %s\n", imported.Filename)
	}

	cmd.Printf("%d of %d records imported\n", len(records)-failed, len(records))
	if failed > 0 {
		return fmt.Errorf("%d records failed to import", failed)
	}
	return nil
}

// decodeRecords parses a single record object or an array of records.
func decodeRecords(data []byte) ([]domain.InsightRecord, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: no records", domain.ErrInvalidInput)
	}

	if data[0] == '[' {
		var records []domain.InsightRecord
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		return records, nil
	}

	var record domain.InsightRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return []domain.InsightRecord{record}, nil
}

func runInsightsList(cmd *cobra.Command, _ []string) error {
	if insightService == nil {
		return errInsightsNotConfigured
	}

	records, err := insightService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list insights: %w", err)
	}

	if insightsJSON {
		if records == nil {
			records = []domain.InsightRecord{}
		}
		return outputJSON(cmd, records)
	}

	if len(records) == 0 {
		cmd.Println("No insight records found.")
		return nil
	}

	cmd.Printf("Insight records (%d):\n\n", len(records))
	for i := range records {
		r := &records[i]
		date := r.Date
		if date == "" {
			date = "(undated)"
		}
		cmd.Printf("  %-19s  %-8s  %2d topics  %2d risks  %2d actions  %s\n",
			date, r.Sentiment, len(r.Topics), len(r.Risks), len(r.ActionItems), r.Filename)
	}
	return nil
}

func runInsightsShow(cmd *cobra.Command, args []string) error {
	if insightService == nil {
		return errInsightsNotConfigured
	}

	record, err := insightService.Get(cmd.Context(), args[0])
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("no insight record for %q", args[0])
	}
	if err != nil {
		return fmt.Errorf("failed to get insight: %w", err)
	}
	return outputJSON(cmd, record)
}
