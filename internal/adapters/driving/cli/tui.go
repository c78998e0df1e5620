package cli

import (
	"fmt"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/pulse-cli/internal/adapters/driving/tui"
	"github.com/custodia-labs/pulse-cli/internal/logger"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse trends and search transcripts interactively",
	Long: `Open the interactive dashboard.

The Dashboard tab shows cross-meeting topics, risks, opportunities,
action items and the sentiment timeline. The Search tab runs semantic
queries over indexed transcripts.

Keys:
  tab        switch tabs
  up/k down/j  scroll or move through results
  enter      search
  n          new search
  r          reload the dashboard
  esc        back
  ?          help
  q          quit`,
	Example: `  pulse tui
  pulse tui --search "vendor delays"
  pulse tui --inline`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().String("search", "", "open the search tab and run this query")
	tuiCmd.Flags().Bool("inline", false, "render in the main terminal buffer instead of the alternate screen")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("tui panic: %v\n%s", r, debug.Stack())
			err = fmt.Errorf("tui crashed: %v", r)
		}
	}()

	query, _ := cmd.Flags().GetString("search")
	inline, _ := cmd.Flags().GetBool("inline")

	app, err := tui.NewApp(&tui.Ports{
		Trends: trendService,
		Index:  indexService,
	})
	if err != nil {
		return fmt.Errorf("starting tui: %w", err)
	}
	app.WithContext(cmd.Context())
	if cmd.Flags().Changed("search") {
		app.OpenSearch(query)
	}

	var opts []tea.ProgramOption
	if !inline {
		opts = append(opts, tea.WithAltScreen())
	}
	opts = append(opts, tea.WithContext(cmd.Context()))

	if _, err := tea.NewProgram(app, opts...).Run(); err != nil {
		return fmt.Errorf("running tui: %w", err)
	}
	return nil
}
