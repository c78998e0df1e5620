package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/pulse-cli/internal/core/domain"
	"github.com/custodia-labs/pulse-cli/internal/core/ports/driven"
)

// Ensure InsightStore implements the interface.
var _ driven.InsightStore = (*InsightStore)(nil)

// InsightStore is an in-memory implementation of driven.InsightStore.
type InsightStore struct {
	mu      sync.RWMutex
	order   []string
	records map[string]domain.InsightRecord
}

// NewInsightStore creates a new in-memory insight store.
func NewInsightStore(records ...domain.InsightRecord) *InsightStore {
	s := &InsightStore{
		records: make(map[string]domain.InsightRecord),
	}
	for i := range records {
		_ = s.Save(context.Background(), records[i])
	}
	return s
}

// Save stores a record keyed by its filename.
func (s *InsightStore) Save(_ context.Context, record domain.InsightRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[record.Filename]; !ok {
		s.order = append(s.order, record.Filename)
	}
	s.records[record.Filename] = record.Clone()
	return nil
}

// Get retrieves the record for a transcript filename.
func (s *InsightStore) Get(_ context.Context, filename string) (*domain.InsightRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored, ok := s.records[filename]
	if !ok {
		return nil, domain.ErrNotFound
	}
	record := stored.Clone()
	record.Normalize()
	return &record, nil
}

// List returns every record, normalised, newest date first.
func (s *InsightStore) List(_ context.Context) ([]domain.InsightRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.InsightRecord, 0, len(s.order))
	for _, filename := range s.order {
		record := s.records[filename].Clone()
		record.Normalize()
		out = append(out, record)
	}
	domain.SortNewestFirst(out)
	return out, nil
}

// Close releases resources (no-op for memory store).
func (s *InsightStore) Close() error {
	return nil
}
