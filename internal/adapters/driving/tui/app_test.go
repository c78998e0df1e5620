package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pulse-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/pulse-cli/internal/core/domain"
)

func newTestApp(t *testing.T) (*App, *MockTrendService, *MockIndexService) {
	t.Helper()
	trends := &MockTrendService{dashboard: &domain.Dashboard{
		TotalTranscripts: 2,
		Topics:           domain.LabelAnalysis{Top: []domain.LabelCount{{Label: "roadmap", Count: 2}}},
	}}
	index := &MockIndexService{matches: []domain.DocumentMatch{
		{Rank: 1, Score: 0.75, Document: domain.DocumentMetadata{Filename: "standup.txt"}},
	}}
	app, err := NewApp(&Ports{Trends: trends, Index: index})
	require.NoError(t, err)
	app.SetDimensions(100, 40)
	return app, trends, index
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// run applies msg and feeds any resulting command's message back in.
func run(app *App, msg tea.Msg) {
	_, cmd := app.Update(msg)
	if cmd == nil {
		return
	}
	if next := cmd(); next != nil {
		if _, isBatch := next.(tea.BatchMsg); !isBatch {
			app.Update(next)
		}
	}
}

func TestNewApp_Success(t *testing.T) {
	app, err := NewApp(&Ports{Trends: &MockTrendService{}})

	require.NoError(t, err)
	require.NotNil(t, app)
	assert.Equal(t, messages.ViewDashboard, app.CurrentView())
	assert.False(t, app.Ready())
	assert.Equal(t, "Initialising...", app.View())
}

func TestNewApp_InvalidPorts(t *testing.T) {
	app, err := NewApp(&Ports{Index: &MockIndexService{}})

	assert.ErrorIs(t, err, ErrMissingTrendService)
	assert.Nil(t, app)
}

func TestApp_WithContext(t *testing.T) {
	app, _, _ := newTestApp(t)

	assert.Same(t, app, app.WithContext(context.Background()))
}

func TestApp_Init(t *testing.T) {
	app, _, _ := newTestApp(t)

	assert.NotNil(t, app.Init())
}

func TestApp_OpenSearch(t *testing.T) {
	app, _, _ := newTestApp(t)

	assert.Same(t, app, app.OpenSearch("budget"))
	assert.Equal(t, messages.ViewSearch, app.CurrentView())
	assert.Equal(t, "budget", app.searchView.Query())
	assert.NotNil(t, app.Init())

	cmd := app.searchView.Submit()
	require.NotNil(t, cmd)
	app.Update(cmd())
	assert.Contains(t, app.View(), "standup.txt")
}

func TestApp_WindowSize(t *testing.T) {
	app, err := NewApp(&Ports{Trends: &MockTrendService{}})
	require.NoError(t, err)

	app.Update(tea.WindowSizeMsg{Width: 120, Height: 30})

	assert.True(t, app.Ready())
	assert.Equal(t, 120, app.width)
	assert.Equal(t, 30, app.height)
}

func TestApp_DashboardLoads(t *testing.T) {
	app, trends, _ := newTestApp(t)

	run(app, messages.DashboardRequested{})

	assert.Equal(t, 1, trends.calls)
	view := app.View()
	assert.Contains(t, view, "Dashboard")
	assert.Contains(t, view, "Transcripts analysed: 2")
	assert.Contains(t, view, "roadmap")
}

func TestApp_RefreshKey(t *testing.T) {
	app, trends, _ := newTestApp(t)

	run(app, keyRunes("r"))
	run(app, keyRunes("r"))

	assert.Equal(t, 2, trends.calls)
}

func TestApp_TabSwitchesViews(t *testing.T) {
	app, _, _ := newTestApp(t)
	tab := tea.KeyMsg{Type: tea.KeyTab}

	app.Update(tab)
	assert.Equal(t, messages.ViewSearch, app.CurrentView())
	assert.Contains(t, app.View(), "Query")

	app.Update(tab)
	assert.Equal(t, messages.ViewDashboard, app.CurrentView())
}

func TestApp_SearchFlow(t *testing.T) {
	app, _, _ := newTestApp(t)
	app.Update(tea.KeyMsg{Type: tea.KeyTab})

	for _, r := range "budget" {
		app.Update(keyRunes(string(r)))
	}
	run(app, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Contains(t, app.View(), "standup.txt")
	assert.Contains(t, app.View(), "1 match")
}

func TestApp_TypingQDoesNotQuit(t *testing.T) {
	app, _, _ := newTestApp(t)
	app.Update(tea.KeyMsg{Type: tea.KeyTab})

	app.Update(keyRunes("q"))

	assert.Equal(t, "q", app.searchView.Query())
	assert.Equal(t, messages.ViewSearch, app.CurrentView())
}

func TestApp_SearchError(t *testing.T) {
	app, _, index := newTestApp(t)
	index.err = errors.New("embedding service unavailable")
	app.Update(tea.KeyMsg{Type: tea.KeyTab})

	app.Update(keyRunes("x"))
	run(app, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Contains(t, app.View(), "embedding service unavailable")
}

func TestApp_EscFromSearchReturnsToDashboard(t *testing.T) {
	app, _, _ := newTestApp(t)
	app.Update(tea.KeyMsg{Type: tea.KeyTab})

	run(app, tea.KeyMsg{Type: tea.KeyEsc})

	assert.Equal(t, messages.ViewDashboard, app.CurrentView())
}

func TestApp_Help(t *testing.T) {
	app, _, _ := newTestApp(t)

	app.Update(keyRunes("?"))
	assert.Equal(t, messages.ViewHelp, app.CurrentView())
	assert.Contains(t, app.View(), "Keybindings")
	assert.Contains(t, app.View(), "switch tab")

	app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, messages.ViewDashboard, app.CurrentView())
}

func TestApp_Quit(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.Msg
	}{
		{"q", keyRunes("q")},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}},
		{"quit message", messages.Quit{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, _, _ := newTestApp(t)

			_, cmd := app.Update(tt.msg)

			require.NotNil(t, cmd)
			assert.IsType(t, tea.QuitMsg{}, cmd())
		})
	}
}

func TestApp_CtrlCQuitsWhileTyping(t *testing.T) {
	app, _, _ := newTestApp(t)
	app.Update(tea.KeyMsg{Type: tea.KeyTab})

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
