package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pulse-cli/internal/core/domain"
)

func newStore(t *testing.T) *InsightStore {
	t.Helper()
	store, err := NewInsightStore(filepath.Join(t.TempDir(), "insights"))
	require.NoError(t, err)
	return store
}

func writeRaw(t *testing.T, store *InsightStore, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), name), []byte(content), 0600))
}

func TestNewInsightStore_EmptyDir(t *testing.T) {
	_, err := NewInsightStore("")
	assert.Error(t, err)
}

func TestInsightStore_SaveAndGet(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	record := domain.InsightRecord{
		Filename:  "planning.txt",
		Date:      "2024-02-01T10:00:00",
		Topics:    []string{"roadmap", "hiring"},
		Sentiment: domain.SentimentPositive,
		ActionItems: []domain.ActionItem{
			{Task: "draft plan", Owner: "Ana", Status: domain.ActionClosed},
		},
	}
	require.NoError(t, store.Save(ctx, record))
	assert.FileExists(t, filepath.Join(store.Dir(), "planning.txt.json"))

	got, err := store.Get(ctx, "planning.txt")
	require.NoError(t, err)
	assert.Equal(t, record.Topics, got.Topics)
	assert.Equal(t, domain.SentimentPositive, got.Sentiment)
	assert.Equal(t, domain.NoDeadline, got.ActionItems[0].Deadline)
}

func TestInsightStore_Save_NestedFilenamesDoNotCollide(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.InsightRecord{Filename: "q1/notes.txt", Topics: []string{"budget"}}))
	require.NoError(t, store.Save(ctx, domain.InsightRecord{Filename: "q2/notes.txt", Topics: []string{"hiring"}}))
	require.NoError(t, store.Save(ctx, domain.InsightRecord{Filename: `q3\notes.txt`, Topics: []string{"launch"}}))
	assert.FileExists(t, filepath.Join(store.Dir(), "q1%2Fnotes.txt.json"))
	assert.FileExists(t, filepath.Join(store.Dir(), "q3%5Cnotes.txt.json"))

	first, err := store.Get(ctx, "q1/notes.txt")
	require.NoError(t, err)
	assert.Equal(t, []string{"budget"}, first.Topics)

	second, err := store.Get(ctx, "q2/notes.txt")
	require.NoError(t, err)
	assert.Equal(t, []string{"hiring"}, second.Topics)

	records, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestInsightStore_Save_RequiresFilename(t *testing.T) {
	store := newStore(t)

	err := store.Save(context.Background(), domain.InsightRecord{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestInsightStore_Get_NotFound(t *testing.T) {
	store := newStore(t)

	_, err := store.Get(context.Background(), "nope.txt")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestInsightStore_Get_ExternallyNamedFile(t *testing.T) {
	store := newStore(t)
	writeRaw(t, store, "meeting_insights.json", `{"filename":"meeting.txt","date":"2024-01-01"}`)

	got, err := store.Get(context.Background(), "meeting.txt")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", got.Date)
}

func TestInsightStore_List_SkipsMalformedAndSorts(t *testing.T) {
	store := newStore(t)
	writeRaw(t, store, "a.json", `{"filename":"a.txt","date":"2024-01-01","sentiment":"positive"}`)
	writeRaw(t, store, "b.json", `{"filename":"b.txt","date":"2024-01-03","extra_field":{"nested":true}}`)
	writeRaw(t, store, "broken.json", `{"filename":`)
	writeRaw(t, store, "c.json", `{"date":"2024-01-02","topics":["ops"]}`)
	writeRaw(t, store, "notes.txt", `ignored`)

	records, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "b.txt", records[0].Filename)
	assert.Equal(t, "c", records[1].Filename, "filename falls back to the file name")
	assert.Equal(t, "a.txt", records[2].Filename)

	// Missing fields are defaulted.
	assert.Equal(t, domain.SentimentNeutral, records[0].Sentiment)
	assert.Equal(t, []string{}, records[0].Risks)
}

func TestInsightStore_List_Empty(t *testing.T) {
	store := newStore(t)

	records, err := store.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestInsightStore_Watch(t *testing.T) {
	store := newStore(t)
	ctx, cancel := context.WithCancel(context.Background())

	changes, err := store.Watch(ctx, 20*time.Millisecond)
	require.NoError(t, err)

	require.NoError(t, store.Save(context.Background(), domain.InsightRecord{Filename: "new.txt"}))

	select {
	case _, ok := <-changes:
		assert.True(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification")
	}

	cancel()
	select {
	case _, ok := <-changes:
		for ok {
			_, ok = <-changes
		}
	case <-time.After(5 * time.Second):
		t.Fatal("channel not closed after cancel")
	}
}
