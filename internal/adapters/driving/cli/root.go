// Package cli implements the pulse command line interface on cobra.
package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pulse-cli/internal/core/ports/driving"
	"github.com/custodia-labs/pulse-cli/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

var verbose bool

// Service ports used by the commands. Set via SetServices before Execute.
var (
	settingsService driving.SettingsService
	insightService  driving.InsightService
	trendService    driving.TrendService
	indexService    driving.IndexService
	insightWatcher  InsightWatcher
	startupNotes    []string
)

var (
	errTrendsNotConfigured   = errors.New("trend service not configured")
	errInsightsNotConfigured = errors.New("insight service not configured")
	errIndexNotConfigured    = errors.New("index service not configured")
	errSettingsNotConfigured = errors.New("settings service not configured")
)

// InsightWatcher notifies when stored insight records change.
type InsightWatcher interface {
	Watch(ctx context.Context, debounce time.Duration) (<-chan struct{}, error)
}

// Services holds the driving ports the commands operate on.
type Services struct {
	Settings driving.SettingsService
	Insights driving.InsightService
	Trends   driving.TrendService
	Index    driving.IndexService

	// Watcher is optional; dashboard --watch requires it.
	Watcher InsightWatcher

	// Notes are non-fatal wiring issues, logged at debug level once flags are parsed.
	Notes []string
}

// SetServices injects the service ports used by the commands.
func SetServices(s Services) {
	settingsService = s.Settings
	insightService = s.Insights
	trendService = s.Trends
	indexService = s.Index
	insightWatcher = s.Watcher
	startupNotes = s.Notes
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

var rootCmd = &cobra.Command{
	Use:   "pulse",
	Short: "Cross-meeting insights from analysed transcripts",
	Long: `Pulse aggregates per-transcript insight records into trends, risks,
action item progress and executive summaries, and answers semantic
queries over indexed meeting transcripts.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
		for _, note := range startupNotes {
			logger.Debug("%s", note)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging to stderr")
}

// Execute runs the root command until completion or an interrupt signal.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.SetOut(os.Stdout)
	return rootCmd.ExecuteContext(ctx)
}
