package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/custodia-labs/pulse-cli/internal/core/domain"
	"github.com/custodia-labs/pulse-cli/internal/core/ports/driven"
	"github.com/custodia-labs/pulse-cli/internal/core/ports/driving"
	"github.com/custodia-labs/pulse-cli/internal/logger"
)

// Ensure InsightService implements the interface.
var _ driving.InsightService = (*InsightService)(nil)

// InsightService validates insight records at ingestion and serves them back.
type InsightService struct {
	store    driven.InsightStore
	validate *validator.Validate
}

// NewInsightService creates a new insight service.
func NewInsightService(store driven.InsightStore) *InsightService {
	return &InsightService{
		store:    store,
		validate: validator.New(),
	}
}

// Import validates a record, fills its defaults and stores it.
// Validation failures wrap domain.ErrInvalidInput and name every failing field.
func (s *InsightService) Import(ctx context.Context, record domain.InsightRecord) (*domain.InsightRecord, error) {
	record.Filename = strings.TrimSpace(record.Filename)
	if err := s.validate.Struct(&record); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, describeValidation(err))
	}

	record.Normalize()
	if _, ok := record.Time(); !ok {
		logger.Warn("Insight %s has no parseable date %q; it will be left out of the sentiment timeline",
			record.Filename, record.Date)
	}

	if err := s.store.Save(ctx, record); err != nil {
		return nil, fmt.Errorf("save insight: %w", err)
	}
	logger.Debug("Imported insight %s", record.Filename)
	return &record, nil
}

// Get retrieves a record by transcript filename.
func (s *InsightService) Get(ctx context.Context, filename string) (*domain.InsightRecord, error) {
	if strings.TrimSpace(filename) == "" {
		return nil, fmt.Errorf("%w: filename is required", domain.ErrInvalidInput)
	}
	return s.store.Get(ctx, filename)
}

// List returns every record, newest first.
func (s *InsightService) List(ctx context.Context) ([]domain.InsightRecord, error) {
	return s.store.List(ctx)
}

// describeValidation flattens validator errors into "Field failed on 'tag'" pairs.
func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed on '%s'", e.Namespace(), e.Tag()))
	}
	sort.Strings(msgs)
	return strings.Join(msgs, "; ")
}
