// Package dashboard provides the cross-meeting trends view for the TUI.
package dashboard

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/pulse-cli/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/pulse-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/pulse-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/pulse-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/pulse-cli/internal/core/domain"
	"github.com/custodia-labs/pulse-cli/internal/core/ports/driving"
)

const (
	// timelineLength is the number of most recent sentiment points shown.
	timelineLength = 10

	// chromeHeight is the space reserved for the tab strip and status bar.
	chromeHeight = 4
)

// View renders the dashboard as a scrollable report.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	statusbar *status.Bar

	trends driving.TrendService
	ctx    context.Context
	now    func() time.Time

	dashboard *domain.Dashboard
	err       error
	loading   bool
	offset    int

	width  int
	height int
}

// NewView creates a dashboard view backed by the trend service.
func NewView(s *styles.Styles, km *keymap.KeyMap, trends driving.TrendService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{
		styles:    s,
		keymap:    km,
		statusbar: status.NewBar(s, km.DashboardHelp()...),
		trends:    trends,
		ctx:       context.Background(),
		now:       time.Now,
		width:     80,
		height:    24,
	}
}

// WithContext sets the context used to load aggregates.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the dashboard.
func (v *View) Init() tea.Cmd {
	return v.Load()
}

// Load marks the view as loading and returns a command computing the aggregates.
func (v *View) Load() tea.Cmd {
	v.loading = true
	v.statusbar.SetState(status.StateLoading)

	trends, ctx := v.trends, v.ctx
	return func() tea.Msg {
		dashboard, err := trends.Dashboard(ctx)
		return messages.DashboardLoaded{Dashboard: dashboard, Err: err}
	}
}

// Update handles messages for the dashboard view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)

	case messages.DashboardRequested:
		return v, v.Load()

	case messages.DashboardLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			v.statusbar.SetState(status.StateError)
			v.statusbar.SetMessage(msg.Err.Error())
			return v, nil
		}
		v.err = nil
		v.dashboard = msg.Dashboard
		v.offset = min(v.offset, v.maxOffset())
		v.statusbar.SetState(status.StateReady)
		v.statusbar.SetMessage("updated " + v.now().Format(time.TimeOnly))

	case tea.KeyMsg:
		switch {
		case keymap.Matches(msg.String(), v.keymap.Refresh):
			return v, v.Load()
		case keymap.Matches(msg.String(), v.keymap.Down):
			v.offset = min(v.offset+1, v.maxOffset())
		case keymap.Matches(msg.String(), v.keymap.Up):
			v.offset = max(v.offset-1, 0)
		}
	}
	return v, nil
}

// View renders the visible window of the report above the status bar.
func (v *View) View() string {
	lines := v.lines()
	visible := v.visibleLines()
	end := min(v.offset+visible, len(lines))
	body := strings.Join(lines[v.offset:end], "\n")

	return lipgloss.JoinVertical(lipgloss.Left, body, "", v.statusbar.View())
}

func (v *View) visibleLines() int {
	return max(v.height-chromeHeight, 1)
}

func (v *View) maxOffset() int {
	return max(len(v.lines())-v.visibleLines(), 0)
}

// lines renders the full report, one entry per terminal line.
func (v *View) lines() []string {
	switch {
	case v.err != nil && v.dashboard == nil:
		return []string{v.styles.Error.Render("Could not load dashboard: " + v.err.Error())}
	case v.dashboard == nil:
		return []string{v.styles.Muted.Render("Loading dashboard...")}
	case v.dashboard.TotalTranscripts == 0:
		return []string{
			v.styles.Muted.Render("No insight records found."),
			v.styles.Muted.Render("Import some with 'pulse insights import'."),
		}
	}

	d := v.dashboard
	out := []string{v.styles.Title.Render(fmt.Sprintf("Transcripts analysed: %d", d.TotalTranscripts))}

	out = v.appendCounts(out, "Top topics", d.Topics.Top)
	out = v.appendCounts(out, "Top risks", d.Risks.Top)
	out = v.appendRecurrences(out, "Repeated risks", d.Risks.Repeated)
	out = v.appendCounts(out, "Opportunities", d.Opportunities.Top)
	out = v.appendRecurrences(out, "Emerging themes", d.EmergingThemes)
	out = v.appendActions(out, &d.ActionItems)
	out = v.appendTimeline(out, d.SentimentTimeline)
	return out
}

func (v *View) section(out []string, title string) []string {
	return append(out, "", v.styles.Section.Render(title))
}

func (v *View) appendCounts(out []string, title string, counts []domain.LabelCount) []string {
	out = v.section(out, title)
	if len(counts) == 0 {
		return append(out, v.styles.Muted.Render("  (none)"))
	}
	for i, c := range counts {
		out = append(out, fmt.Sprintf("  %2d. %s %s", i+1, c.Label, v.styles.Muted.Render(fmt.Sprintf("(%d)", c.Count))))
	}
	return out
}

func (v *View) appendRecurrences(out []string, title string, recs []domain.Recurrence) []string {
	out = v.section(out, title)
	if len(recs) == 0 {
		return append(out, v.styles.Muted.Render("  (none)"))
	}
	for _, r := range recs {
		files := make([]string, len(r.Occurrences))
		for i, o := range r.Occurrences {
			files[i] = o.Filename
		}
		out = append(out, fmt.Sprintf("  - %s (%d times) %s",
			r.Label, r.Count, v.styles.Muted.Render(strings.Join(files, ", "))))
	}
	return out
}

func (v *View) appendActions(out []string, report *domain.ActionItemReport) []string {
	out = v.section(out, "Action items")
	out = append(out, fmt.Sprintf("  Total: %d  Open: %d  Closed: %d  Completion: %.1f%%",
		report.Total, report.Open, report.Closed, report.CompletionRate))
	for _, o := range report.ByOwner {
		out = append(out, fmt.Sprintf("    %s: %d", o.Label, o.Count))
	}
	return out
}

func (v *View) appendTimeline(out []string, points []domain.SentimentPoint) []string {
	out = v.section(out, "Sentiment")
	if len(points) == 0 {
		return append(out, v.styles.Muted.Render("  (none)"))
	}
	if len(points) > timelineLength {
		points = points[len(points)-timelineLength:]
	}
	for _, p := range points {
		label := v.styles.Sentiment(p.Sentiment).Render(fmt.Sprintf("%-8s", p.Sentiment))
		out = append(out, fmt.Sprintf("  %s  %s %s  %s",
			p.Date.Format(time.DateOnly), label, sentimentBar(p.Score), p.Filename))
	}
	return out
}

// sentimentBar draws a three-cell gauge centred on neutral.
func sentimentBar(score int) string {
	switch {
	case score > 0:
		return "[ |+]"
	case score < 0:
		return "[-| ]"
	default:
		return "[ | ]"
	}
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.statusbar.SetWidth(width)
	v.offset = min(v.offset, v.maxOffset())
}

// Dashboard returns the most recently loaded aggregates.
func (v *View) Dashboard() *domain.Dashboard {
	return v.dashboard
}

// Loading reports whether a load is in flight.
func (v *View) Loading() bool {
	return v.loading
}

// Err returns the last load error.
func (v *View) Err() error {
	return v.err
}

// Offset returns the first visible report line.
func (v *View) Offset() int {
	return v.offset
}
