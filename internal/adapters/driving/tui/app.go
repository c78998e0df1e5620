package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/pulse-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/pulse-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/pulse-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/pulse-cli/internal/adapters/driving/tui/views/dashboard"
	"github.com/custodia-labs/pulse-cli/internal/adapters/driving/tui/views/search"
)

// tabStripHeight is the number of lines used by the header above each view.
const tabStripHeight = 2

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap

	dashboardView *dashboard.View
	searchView    *search.View

	// currentView is the active tab, or ViewHelp.
	currentView messages.ViewType

	// returnView is the tab restored when help closes.
	returnView messages.ViewType

	width  int
	height int
	ready  bool
}

var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:         ports,
		ctx:           context.Background(),
		styles:        s,
		keymap:        km,
		dashboardView: dashboard.NewView(s, km, ports.Trends),
		searchView:    search.NewView(s, km, ports.Index),
		currentView:   messages.ViewDashboard,
	}, nil
}

// WithContext sets the context used by every view for service calls.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.dashboardView.WithContext(ctx)
	a.searchView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.SetWindowTitle("pulse - meeting insights"),
		a.dashboardView.Init(),
	}
	if a.currentView == messages.ViewSearch {
		cmds = append(cmds, a.searchView.FocusInput(), a.searchView.Submit())
	}
	return tea.Batch(cmds...)
}

// OpenSearch starts the app on the search tab. A non-empty query is run
// as soon as the program starts.
func (a *App) OpenSearch(query string) *App {
	a.currentView = messages.ViewSearch
	a.searchView.SetQuery(query)
	return a
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case messages.ViewChanged:
		return a, a.switchTo(msg.View)

	case messages.DashboardRequested, messages.DashboardLoaded:
		a.dashboardView, cmd = a.dashboardView.Update(msg)
		return a, cmd

	case messages.SearchCompleted, messages.ErrorOccurred:
		a.searchView, cmd = a.searchView.Update(msg)
		return a, cmd

	case messages.Quit:
		return a, tea.Quit
	}

	// Other messages such as cursor blinks belong to the search input.
	a.searchView, cmd = a.searchView.Update(msg)
	return a, cmd
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keyStr := msg.String()
	if keyStr == "ctrl+c" {
		return a, tea.Quit
	}

	// While typing a query only tab leaves the input.
	if a.currentView == messages.ViewSearch && a.searchView.InputFocused() {
		if keymap.Matches(keyStr, a.keymap.NextTab) {
			return a, a.switchTo(messages.ViewDashboard)
		}
		var cmd tea.Cmd
		a.searchView, cmd = a.searchView.Update(msg)
		return a, cmd
	}

	switch {
	case keymap.Matches(keyStr, a.keymap.Quit):
		return a, tea.Quit

	case a.currentView == messages.ViewHelp:
		if keymap.Matches(keyStr, a.keymap.Back) || keymap.Matches(keyStr, a.keymap.Help) {
			a.currentView = a.returnView
		}
		return a, nil

	case keymap.Matches(keyStr, a.keymap.Help):
		a.returnView = a.currentView
		a.currentView = messages.ViewHelp
		return a, nil

	case keymap.Matches(keyStr, a.keymap.NextTab):
		if a.currentView == messages.ViewDashboard {
			return a, a.switchTo(messages.ViewSearch)
		}
		return a, a.switchTo(messages.ViewDashboard)
	}

	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewDashboard:
		a.dashboardView, cmd = a.dashboardView.Update(msg)
	case messages.ViewSearch:
		a.searchView, cmd = a.searchView.Update(msg)
	case messages.ViewHelp:
	}
	return a, cmd
}

func (a *App) switchTo(view messages.ViewType) tea.Cmd {
	a.currentView = view
	if view == messages.ViewSearch && a.searchView.InputFocused() {
		return a.searchView.FocusInput()
	}
	return nil
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch a.currentView {
	case messages.ViewSearch:
		body = a.searchView.View()
	case messages.ViewHelp:
		body = a.viewHelp()
	default:
		body = a.dashboardView.View()
	}
	return lipgloss.JoinVertical(lipgloss.Left, a.viewTabs(), "", body)
}

func (a *App) viewTabs() string {
	tabs := []string{a.styles.Title.Render("pulse") + " "}
	for _, t := range []messages.ViewType{messages.ViewDashboard, messages.ViewSearch} {
		label := strings.ToUpper(t.String()[:1]) + t.String()[1:]
		if t == a.currentView || (a.currentView == messages.ViewHelp && t == a.returnView) {
			tabs = append(tabs, a.styles.ActiveTab.Render(label))
		} else {
			tabs = append(tabs, a.styles.Tab.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Section.Render("Keybindings"))
	b.WriteString("\n")
	for _, group := range a.keymap.FullHelp() {
		b.WriteString("\n")
		for _, binding := range group {
			h := binding.Help()
			fmt.Fprintf(&b, "  %-8s %s\n", h.Key, h.Desc)
		}
	}
	b.WriteString("\n")
	b.WriteString(a.styles.Help.Render("esc or ? to close"))
	return b.String()
}

// CurrentView returns the active view.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Ready returns whether the terminal size is known.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sizes the app and its views below the tab strip.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.dashboardView.SetDimensions(width, height-tabStripHeight)
	a.searchView.SetDimensions(width, height-tabStripHeight)
}
