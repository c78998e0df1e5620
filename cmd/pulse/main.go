// Command pulse aggregates meeting insight records into cross-meeting trends
// and answers semantic searches over indexed transcripts.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/pulse-cli/internal/adapters/driven/ai"
	"github.com/custodia-labs/pulse-cli/internal/adapters/driven/config/file"
	filestore "github.com/custodia-labs/pulse-cli/internal/adapters/driven/storage/file"
	"github.com/custodia-labs/pulse-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/pulse-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/pulse-cli/internal/core/domain"
	"github.com/custodia-labs/pulse-cli/internal/core/ports/driven"
	"github.com/custodia-labs/pulse-cli/internal/core/services"
	"github.com/custodia-labs/pulse-cli/internal/logger"
)

// insightsDir is the file store directory under the data directory.
const insightsDir = "insights"

// version is set at build time with -ldflags "-X main.version=...".
var version string

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("Ignoring .env: %v", err)
	}

	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}

	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	store, watcher, err := openInsightStore(settings)
	if err != nil {
		return err
	}
	defer store.Close()

	result := ai.Initialise(settings)
	defer result.Close()
	svcs := cli.Services{
		Settings: settingsService,
		Insights: services.NewInsightService(store),
		Trends:   services.NewTrendService(store, settings.Trends),
		Index:    services.NewIndexService(result.VectorIndex, result.EmbeddingService, settings.Index.PreviewLength),
		Notes:    result.Warnings,
	}
	if watcher != nil {
		svcs.Watcher = watcher
	}
	cli.SetServices(svcs)
	cli.SetVersion(version)

	return cli.Execute()
}

// openInsightStore opens the configured backend. Only the file store can be watched.
func openInsightStore(settings *domain.AppSettings) (driven.InsightStore, *filestore.InsightStore, error) {
	switch settings.Storage.InsightBackend {
	case domain.InsightBackendSQLite:
		store, err := sqlite.NewStore(settings.Storage.DataDir)
		if err != nil {
			return nil, nil, fmt.Errorf("opening insight database: %w", err)
		}
		return store, nil, nil
	default:
		dir := filepath.Join(settings.Storage.DataDir, insightsDir)
		store, err := filestore.NewInsightStore(dir)
		if err != nil {
			return nil, nil, fmt.Errorf("opening insight directory: %w", err)
		}
		return store, store, nil
	}
}
