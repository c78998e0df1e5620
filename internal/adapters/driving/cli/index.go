package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/pulse-cli/internal/core/domain"
)

// uploadDateLayout matches the timestamps written by the transcript analyser.
const uploadDateLayout = "2006-01-02T15:04:05"

var (
	indexStdin bool
	indexName  string
	indexForce bool
	indexJSON  bool
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage the transcript vector index",
}

var indexAddCmd = &cobra.Command{
	Use:   "add [file...]",
	Short: "Embed and index transcripts",
	Long: `Embeds each transcript file with the configured provider and appends it
to the vector index. Files already indexed under the same name are skipped
unless --force is given.

Use --stdin to index text piped on standard input. It is stored under
--name, or under a generated name when none is given.`,
	RunE: runIndexAdd,
}

var indexStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show vector index statistics",
	Args:  cobra.NoArgs,
	RunE:  runIndexStats,
}

var indexListCmd = &cobra.Command{
	Use:   "list",
	Short: "List indexed transcripts",
	Args:  cobra.NoArgs,
	RunE:  runIndexList,
}

func init() {
	indexAddCmd.Flags().BoolVar(&indexStdin, "stdin", false, "read transcript text from standard input")
	indexAddCmd.Flags().StringVar(&indexName, "name", "", "filename recorded for --stdin input")
	indexAddCmd.Flags().BoolVarP(&indexForce, "force", "f", false, "index files even if already present")
	indexStatsCmd.Flags().BoolVar(&indexJSON, "json", false, "output as JSON")
	indexListCmd.Flags().BoolVar(&indexJSON, "json", false, "output as JSON")

	indexCmd.AddCommand(indexAddCmd, indexStatsCmd, indexListCmd)
	rootCmd.AddCommand(indexCmd)
}

func runIndexAdd(cmd *cobra.Command, args []string) error {
	if indexService == nil {
		return errIndexNotConfigured
	}
	if indexStdin == (len(args) > 0) {
		return fmt.Errorf("%w: give transcript files or --stdin", domain.ErrInvalidInput)
	}

	if indexStdin {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		name := indexName
		if name == "" {
			name = uuid.NewString() + ".txt"
		}
		return addDocument(cmd, name, string(data))
	}

	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		if err := addDocument(cmd, filepath.Base(path), string(data)); err != nil {
			return err
		}
	}
	return nil
}

func addDocument(cmd *cobra.Command, filename, text string) error {
	if !indexForce && indexService.Exists(filename) {
		cmd.Printf("Skipped %s (already indexed)\n", filename)
		return nil
	}

	meta := domain.DocumentMetadata{
		Filename:   filename,
		UploadDate: time.Now().Format(uploadDateLayout),
		FileType:   strings.TrimPrefix(filepath.Ext(filename), "."),
	}
	docID, err := indexService.Add(cmd.Context(), text, meta)
	if err != nil {
		return fmt.Errorf("failed to index %s: %w", filename, err)
	}
	cmd.Printf("Indexed %s (ID: %d)\n", filename, docID)
	return nil
}

func runIndexStats(cmd *cobra.Command, _ []string) error {
	if indexService == nil {
		return errIndexNotConfigured
	}

	stats := indexService.Stats()
	if indexJSON {
		return outputJSON(cmd, stats)
	}

	cmd.Println("Vector Index")
	cmd.Printf("  Documents: %d\n", stats.TotalDocuments)
	cmd.Printf("  Vectors: %d\n", stats.IndexSize)
	cmd.Printf("  Dimension: %d\n", stats.Dimension)
	model := stats.Model
	if model == "" {
		model = "(embedding unavailable)"
	}
	cmd.Printf("  Model: %s\n", model)
	return nil
}

func runIndexList(cmd *cobra.Command, _ []string) error {
	if indexService == nil {
		return errIndexNotConfigured
	}

	docs := indexService.Documents()
	if indexJSON {
		return outputJSON(cmd, docs)
	}
	if len(docs) == 0 {
		cmd.Println("No transcripts indexed.")
		return nil
	}
	for _, doc := range docs {
		cmd.Printf("  %3d  %-19s  %5d words  %s\n", doc.DocID, doc.UploadDate, doc.WordCount, doc.Filename)
	}
	return nil
}
