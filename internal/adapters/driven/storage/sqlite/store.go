package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/pulse-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/pulse-cli/internal/core/domain"
	"github.com/custodia-labs/pulse-cli/internal/core/ports/driven"
	"github.com/custodia-labs/pulse-cli/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.InsightStore = (*Store)(nil)

// DatabaseFile is the database file name inside the data directory.
const DatabaseFile = "insights.db"

// Store is an SQLite-backed insight record store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.pulse/data/insights.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".pulse", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DatabaseFile)

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations, recording each applied version.
func (s *Store) migrate(fsys fs.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_insights.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("beginning migration %s: %w", name, err)
		}
		if _, err := tx.Exec(string(content)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %s: %w", name, err)
		}
		logger.Debug("Applied migration %s", name)
	}

	return nil
}

// SchemaVersion returns the highest applied migration version.
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	row := s.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&version); err != nil {
		return 0, fmt.Errorf("getting schema version: %w", err)
	}
	return version, nil
}

// Save stores or replaces the record for its filename.
func (s *Store) Save(ctx context.Context, record domain.InsightRecord) error {
	if strings.TrimSpace(record.Filename) == "" {
		return fmt.Errorf("%w: filename is required", domain.ErrInvalidInput)
	}

	recordJSON, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshalling record: %w", err)
	}

	sentiment := record.Sentiment
	if !sentiment.IsValid() {
		sentiment = domain.SentimentNeutral
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO insights (filename, date, sentiment, record, imported_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(filename) DO UPDATE SET
			date = excluded.date,
			sentiment = excluded.sentiment,
			record = excluded.record,
			imported_at = excluded.imported_at
	`, record.Filename, record.Date, sentiment.String(), string(recordJSON), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("saving insight: %w", err)
	}
	return nil
}

// Get retrieves the record for a transcript filename.
func (s *Store) Get(ctx context.Context, filename string) (*domain.InsightRecord, error) {
	row := s.db.QueryRowContext(ctx, "SELECT record FROM insights WHERE filename = ?", filename)

	var recordJSON string
	if err := row.Scan(&recordJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning insight: %w", err)
	}

	record, err := decodeRecord(filename, recordJSON)
	if err != nil {
		return nil, err
	}
	return record, nil
}

// List returns every readable record, newest date first.
// Rows whose JSON cannot be decoded are skipped.
func (s *Store) List(ctx context.Context) ([]domain.InsightRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT filename, record FROM insights ORDER BY date DESC, filename
	`)
	if err != nil {
		return nil, fmt.Errorf("querying insights: %w", err)
	}
	defer rows.Close()

	records := []domain.InsightRecord{}
	for rows.Next() {
		var filename, recordJSON string
		if err := rows.Scan(&filename, &recordJSON); err != nil {
			return nil, fmt.Errorf("scanning insight: %w", err)
		}
		record, err := decodeRecord(filename, recordJSON)
		if err != nil {
			logger.Warn("Could not load insight %s: %v", filename, err)
			continue
		}
		records = append(records, *record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating insights: %w", err)
	}

	// Matches the file store's ordering exactly.
	domain.SortNewestFirst(records)
	return records, nil
}

// decodeRecord unmarshals and normalises a stored record.
func decodeRecord(filename, recordJSON string) (*domain.InsightRecord, error) {
	var record domain.InsightRecord
	if err := json.Unmarshal([]byte(recordJSON), &record); err != nil {
		return nil, fmt.Errorf("unmarshaling record: %w", err)
	}
	if record.Filename == "" {
		record.Filename = filename
	}
	record.Normalize()
	return &record, nil
}
