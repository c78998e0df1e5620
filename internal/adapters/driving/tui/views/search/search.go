// Package search provides the semantic transcript search view for the TUI.
package search

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/pulse-cli/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/pulse-cli/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/pulse-cli/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/pulse-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/pulse-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/pulse-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/pulse-cli/internal/core/domain"
	"github.com/custodia-labs/pulse-cli/internal/core/ports/driving"
)

// DefaultLimit is the number of matches requested per query.
const DefaultLimit = 5

// View is the search tab: a query input over a ranked match list.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.QueryInput
	list      *list.MatchList
	statusbar *status.Bar

	index driving.IndexService
	ctx   context.Context
	limit int

	width  int
	height int
	err    error

	// focusInput is true while typing and false while browsing matches.
	focusInput bool
}

// NewView creates a search view. A nil index leaves the view usable but
// every query reports the index as unavailable.
func NewView(s *styles.Styles, km *keymap.KeyMap, index driving.IndexService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:     s,
		keymap:     km,
		input:      input.NewQueryInput(s),
		list:       list.NewMatchList(s),
		statusbar:  status.NewBar(s, km.SearchHelp()...),
		index:      index,
		ctx:        context.Background(),
		limit:      DefaultLimit,
		width:      80,
		height:     24,
		focusInput: true,
	}
}

// WithContext sets the context used for searches.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init starts the input cursor.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the search view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKey(msg)

	case messages.SearchCompleted:
		v.handleSearchCompleted(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.focusInput {
		switch msg.Type { //nolint:exhaustive // only submit and leave are special while typing
		case tea.KeyEnter:
			return v, v.Submit()
		case tea.KeyEsc:
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewDashboard}
			}
		}
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}

	switch {
	case keymap.Matches(msg.String(), v.keymap.Up):
		v.list.MoveUp()
	case keymap.Matches(msg.String(), v.keymap.Down):
		v.list.MoveDown()
	case keymap.Matches(msg.String(), v.keymap.NewSearch),
		keymap.Matches(msg.String(), v.keymap.Back):
		v.input.SetValue("")
		return v, v.FocusInput()
	}
	return v, nil
}

// Submit starts a search for the current query. It returns nil when the
// query is blank.
func (v *View) Submit() tea.Cmd {
	query := v.input.Query()
	if query == "" {
		return nil
	}
	v.err = nil
	v.statusbar.SetState(status.StateSearching)
	return v.performSearch(query)
}

// performSearch returns a command that queries the index off the update loop.
func (v *View) performSearch(query string) tea.Cmd {
	index, ctx, limit := v.index, v.ctx, v.limit
	return func() tea.Msg {
		if index == nil {
			return messages.ErrorOccurred{Err: domain.ErrVectorIndexUnavailable}
		}
		matches, err := index.Search(ctx, query, limit)
		return messages.SearchCompleted{Query: query, Matches: matches, Err: err}
	}
}

func (v *View) handleSearchCompleted(msg messages.SearchCompleted) {
	if msg.Err != nil {
		v.setError(msg.Err)
		return
	}

	v.err = nil
	v.list.SetMatches(msg.Matches)
	v.statusbar.SetState(status.StateResults)
	v.statusbar.SetResultCount(len(msg.Matches))
	v.statusbar.SetHints(v.keymap.ResultsHelp()...)

	v.focusInput = false
	v.input.Blur()
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

// View renders the search view.
func (v *View) View() string {
	sections := []string{v.input.View(), ""}

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}

	sections = append(sections, v.list.View(), "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height

	v.input.SetWidth(width)
	v.list.SetDimensions(width, height-10)
	v.statusbar.SetWidth(width)
}

// FocusInput switches to typing mode.
func (v *View) FocusInput() tea.Cmd {
	v.focusInput = true
	v.statusbar.SetHints(v.keymap.SearchHelp()...)
	return v.input.Focus()
}

// InputFocused returns whether the query input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}

// Query returns the current query text.
func (v *View) Query() string {
	return v.input.Value()
}

// SetQuery sets the query text.
func (v *View) SetQuery(query string) {
	v.input.SetValue(query)
}

// Matches returns the current matches.
func (v *View) Matches() []domain.DocumentMatch {
	return v.list.Matches()
}

// SelectedIndex returns the index of the selected match.
func (v *View) SelectedIndex() int {
	return v.list.Selected()
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// Reset clears the query, matches and error and returns to typing mode.
func (v *View) Reset() tea.Cmd {
	v.input.SetValue("")
	v.list.SetMatches(nil)
	v.err = nil
	v.statusbar.Clear()
	return v.FocusInput()
}
