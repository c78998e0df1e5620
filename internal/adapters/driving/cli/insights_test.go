package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pulse-cli/internal/core/domain"
)

func TestInsightsImportCmd_File(t *testing.T) {
	setupTestServices(t)
	path := filepath.Join(t.TempDir(), "standup.json")
	record := `{
  "filename": "standup.txt",
  "date": "2024-05-01T09:00:00",
  "topics": ["release"],
  "action_items": [{"task": "Tag build"}]
}`
	require.NoError(t, os.WriteFile(path, []byte(record), 0o600))

	out, err := executeCommand(t, "insights", "import", path)

	require.NoError(t, err)
	assert.Contains(t, out, "Imported standup.txt")
	assert.Contains(t, out, "1 of 1 records imported")

	stored, err := insightService.Get(t.Context(), "standup.txt")
	require.NoError(t, err)
	assert.Equal(t, domain.UnassignedOwner, stored.ActionItems[0].Owner)
	assert.Equal(t, domain.SentimentNeutral, stored.Sentiment)
}

func TestInsightsImportCmd_StdinArray(t *testing.T) {
	setupTestServices(t)
	input := `[{"filename": "a.txt", "date": "2024-01-01"}, {"filename": "b.txt", "date": "2024-02-01"}]`

	out, err := executeWithInput(t, input, "insights", "import")

	require.NoError(t, err)
	assert.Contains(t, out, "2 of 2 records imported")
}

func TestInsightsImportCmd_InvalidRecord(t *testing.T) {
	setupTestServices(t)
	input := `[{"filename": "ok.txt"}, {"filename": "bad.txt", "sentiment": "furious"}]`

	out, err := executeWithInput(t, input, "insights", "import")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 records failed to import")
	assert.Contains(t, out, `Failed "bad.txt"`)
	assert.Contains(t, out, "1 of 2 records imported")
}

func TestInsightsImportCmd_MalformedJSON(t *testing.T) {
	setupTestServices(t)

	_, err := executeWithInput(t, "{not json", "insights", "import")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDecodeRecords(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{"single object", `{"filename": "a.txt"}`, 1, false},
		{"array", ` [{"filename": "a.txt"}, {"filename": "b.txt"}]`, 2, false},
		{"empty array", `[]`, 0, false},
		{"blank", "  \n", 0, true},
		{"invalid", `{"filename": 3}`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := decodeRecords([]byte(tt.input))
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Len(t, records, tt.want)
		})
	}
}

func TestInsightsListCmd(t *testing.T) {
	setupTestServices(t, testRecords()...)

	out, err := executeCommand(t, "insights", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "Insight records (3):")
	assert.Contains(t, out, "2024-01-03           negative   1 topics   0 risks   0 actions  c.txt")
}

func TestInsightsListCmd_Empty(t *testing.T) {
	setupTestServices(t)

	out, err := executeCommand(t, "insights", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No insight records found.")

	out, err = executeCommand(t, "insights", "list", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, "[]")
}

func TestInsightsShowCmd(t *testing.T) {
	setupTestServices(t, testRecords()...)

	out, err := executeCommand(t, "insights", "show", "b.txt")
	require.NoError(t, err)
	assert.Contains(t, out, `"filename": "b.txt"`)
	assert.Contains(t, out, `"automation"`)

	_, err = executeCommand(t, "insights", "show", "zzz.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no insight record for "zzz.txt"`)
}

func TestInsightsCmds_NotConfigured(t *testing.T) {
	SetServices(Services{})

	_, err := executeCommand(t, "insights", "list")
	assert.ErrorIs(t, err, errInsightsNotConfigured)
}
