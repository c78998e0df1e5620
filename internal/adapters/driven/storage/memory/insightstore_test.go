package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pulse-cli/internal/core/domain"
)

func TestInsightStore_SaveAndGet(t *testing.T) {
	store := NewInsightStore()
	ctx := context.Background()

	err := store.Save(ctx, domain.InsightRecord{
		Filename:    "standup.txt",
		Date:        "2024-01-01T09:00:00",
		ActionItems: []domain.ActionItem{{Task: "ship"}},
	})
	require.NoError(t, err)

	got, err := store.Get(ctx, "standup.txt")
	require.NoError(t, err)
	assert.Equal(t, domain.SentimentNeutral, got.Sentiment)
	assert.Equal(t, domain.UnassignedOwner, got.ActionItems[0].Owner)
	assert.Equal(t, []string{}, got.Topics)
}

func TestInsightStore_Get_NotFound(t *testing.T) {
	store := NewInsightStore()

	_, err := store.Get(context.Background(), "missing.txt")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestInsightStore_List_NewestFirst(t *testing.T) {
	store := NewInsightStore(
		domain.InsightRecord{Filename: "a.txt", Date: "2024-01-01"},
		domain.InsightRecord{Filename: "c.txt", Date: "2024-01-03"},
		domain.InsightRecord{Filename: "b.txt", Date: "2024-01-02"},
	)

	records, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "c.txt", records[0].Filename)
	assert.Equal(t, "b.txt", records[1].Filename)
	assert.Equal(t, "a.txt", records[2].Filename)
}

func TestInsightStore_Save_ReplacesByFilename(t *testing.T) {
	store := NewInsightStore(domain.InsightRecord{Filename: "a.txt", Summary: "old"})
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.InsightRecord{Filename: "a.txt", Summary: "new"}))

	records, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "new", records[0].Summary)
}

func TestInsightStore_ReturnsCopies(t *testing.T) {
	store := NewInsightStore(domain.InsightRecord{Filename: "a.txt", Topics: []string{"hiring"}})
	ctx := context.Background()

	got, err := store.Get(ctx, "a.txt")
	require.NoError(t, err)
	got.Topics[0] = "mutated"

	again, err := store.Get(ctx, "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "hiring", again.Topics[0])
}
