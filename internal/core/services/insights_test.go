package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pulse-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/pulse-cli/internal/core/domain"
)

func TestInsightService_Import_FillsDefaults(t *testing.T) {
	store := memory.NewInsightStore()
	svc := NewInsightService(store)
	ctx := context.Background()

	imported, err := svc.Import(ctx, domain.InsightRecord{
		Filename:    "  standup.txt ",
		Date:        "2024-05-01T09:00:00",
		ActionItems: []domain.ActionItem{{Task: "ship it"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "standup.txt", imported.Filename)
	assert.Equal(t, domain.SentimentNeutral, imported.Sentiment)
	assert.NotNil(t, imported.Topics)
	assert.NotNil(t, imported.Risks)
	assert.NotNil(t, imported.Opportunities)
	assert.Equal(t, domain.ActionItem{
		Task:     "ship it",
		Owner:    domain.UnassignedOwner,
		Deadline: domain.NoDeadline,
		Status:   domain.ActionOpen,
	}, imported.ActionItems[0])

	stored, err := svc.Get(ctx, "standup.txt")
	require.NoError(t, err)
	assert.Equal(t, *imported, *stored)
}

func TestInsightService_Import_AcceptsUnparseableDate(t *testing.T) {
	svc := NewInsightService(memory.NewInsightStore())

	imported, err := svc.Import(context.Background(), domain.InsightRecord{Filename: "x.txt", Date: "soon"})
	require.NoError(t, err)
	assert.Equal(t, "soon", imported.Date)
}

func TestInsightService_Import_Validation(t *testing.T) {
	tests := []struct {
		name    string
		record  domain.InsightRecord
		message string
	}{
		{
			name:    "missing filename",
			record:  domain.InsightRecord{Filename: "   "},
			message: "InsightRecord.Filename failed on 'required'",
		},
		{
			name:    "unknown sentiment",
			record:  domain.InsightRecord{Filename: "x.txt", Sentiment: "furious"},
			message: "InsightRecord.Sentiment failed on 'oneof'",
		},
		{
			name: "action without task",
			record: domain.InsightRecord{
				Filename:    "x.txt",
				ActionItems: []domain.ActionItem{{Owner: "Ana"}},
			},
			message: "InsightRecord.ActionItems[0].Task failed on 'required'",
		},
		{
			name: "unknown action status",
			record: domain.InsightRecord{
				Filename:    "x.txt",
				ActionItems: []domain.ActionItem{{Task: "t", Status: "blocked"}},
			},
			message: "InsightRecord.ActionItems[0].Status failed on 'oneof'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.NewInsightStore()
			svc := NewInsightService(store)

			_, err := svc.Import(context.Background(), tt.record)

			require.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Contains(t, err.Error(), tt.message)

			records, listErr := store.List(context.Background())
			require.NoError(t, listErr)
			assert.Empty(t, records)
		})
	}
}

func TestInsightService_Import_StoreError(t *testing.T) {
	svc := NewInsightService(&failingInsightStore{err: errStoreDown})

	_, err := svc.Import(context.Background(), domain.InsightRecord{Filename: "x.txt"})
	assert.ErrorIs(t, err, errStoreDown)
}

func TestInsightService_Get(t *testing.T) {
	svc := NewInsightService(memory.NewInsightStore())
	ctx := context.Background()

	_, err := svc.Get(ctx, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Get(ctx, "missing.txt")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestInsightService_List_NewestFirst(t *testing.T) {
	svc := NewInsightService(memory.NewInsightStore(sampleRecords()...))

	records, err := svc.List(context.Background())
	require.NoError(t, err)

	names := make([]string, len(records))
	for i, r := range records {
		names[i] = r.Filename
	}
	assert.Equal(t, []string{"d.txt", "c.txt", "b.txt", "a.txt", "e.txt"}, names)
}
