// Package file provides an insight store keeping one JSON document per transcript.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/custodia-labs/pulse-cli/internal/core/domain"
	"github.com/custodia-labs/pulse-cli/internal/core/ports/driven"
	"github.com/custodia-labs/pulse-cli/internal/logger"
)

// Ensure InsightStore implements the interface.
var _ driven.InsightStore = (*InsightStore)(nil)

// recordExt is the extension of insight record files.
const recordExt = ".json"

// nameEscaper keeps path separators in a transcript filename inside one record file name.
var nameEscaper = strings.NewReplacer("%", "%25", "/", "%2F", `\`, "%5C")

// InsightStore keeps insight records as <filename>.json files in one directory.
// Files written by other tools are read too, whatever their name.
type InsightStore struct {
	dir string
}

// NewInsightStore opens the store in dir, creating the directory if needed.
func NewInsightStore(dir string) (*InsightStore, error) {
	if dir == "" {
		return nil, errors.New("file: insight directory cannot be empty")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("file: create insight directory: %w", err)
	}
	return &InsightStore{dir: dir}, nil
}

// Dir returns the directory holding the record files.
func (s *InsightStore) Dir() string {
	return s.dir
}

// recordPath maps a transcript filename to its record file.
// Filenames that differ only in their directory map to different files.
func (s *InsightStore) recordPath(filename string) string {
	return filepath.Join(s.dir, nameEscaper.Replace(filename)+recordExt)
}

// Save writes the record, replacing any previous record for the same filename.
func (s *InsightStore) Save(_ context.Context, record domain.InsightRecord) error {
	if strings.TrimSpace(record.Filename) == "" {
		return fmt.Errorf("%w: filename is required", domain.ErrInvalidInput)
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("file: encode record: %w", err)
	}

	path := s.recordPath(record.Filename)
	tmp, err := os.CreateTemp(s.dir, ".insight-*")
	if err != nil {
		return fmt.Errorf("file: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("file: write record: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("file: write record: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("file: write record: %w", err)
	}
	return nil
}

// Get retrieves the record for a transcript filename.
// Falls back to scanning the directory for files named differently.
func (s *InsightStore) Get(ctx context.Context, filename string) (*domain.InsightRecord, error) {
	record, err := s.readRecord(s.recordPath(filename))
	if err == nil && record.Filename == filename {
		return record, nil
	}
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("Could not load %s: %v", filepath.Base(s.recordPath(filename)), err)
	}

	records, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range records {
		if records[i].Filename == filename {
			return &records[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

// List reads every *.json file, newest date first. Unreadable files are skipped.
func (s *InsightStore) List(_ context.Context) ([]domain.InsightRecord, error) {
	paths, err := filepath.Glob(filepath.Join(s.dir, "*"+recordExt))
	if err != nil {
		return nil, fmt.Errorf("file: list records: %w", err)
	}
	sort.Strings(paths)

	records := make([]domain.InsightRecord, 0, len(paths))
	for _, path := range paths {
		record, err := s.readRecord(path)
		if err != nil {
			logger.Warn("Could not load %s: %v", filepath.Base(path), err)
			continue
		}
		records = append(records, *record)
	}

	domain.SortNewestFirst(records)
	logger.Debug("Loaded %d insight files from %s", len(records), s.dir)
	return records, nil
}

// readRecord decodes and normalises one record file.
// A record without a filename takes it from the file name.
func (s *InsightStore) readRecord(path string) (*domain.InsightRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var record domain.InsightRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, err
	}
	if record.Filename == "" {
		record.Filename = strings.TrimSuffix(filepath.Base(path), recordExt)
	}
	record.Normalize()
	return &record, nil
}

// Close releases resources.
func (s *InsightStore) Close() error {
	return nil
}
