// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/pulse-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/pulse-cli/internal/core/domain"
)

// linesPerMatch is the height of one rendered match.
const linesPerMatch = 3

// MatchList displays ranked transcript matches in a navigable list.
type MatchList struct {
	matches  []domain.DocumentMatch
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewMatchList creates an empty match list.
func NewMatchList(s *styles.Styles) *MatchList {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &MatchList{
		styles: s,
		width:  80,
		height: 12,
	}
}

// View renders the visible window of matches around the selection.
func (m *MatchList) View() string {
	if len(m.matches) == 0 {
		return m.styles.Muted.Render("No matching transcripts")
	}

	lines := make([]string, 0, len(m.matches)*linesPerMatch+2)
	lines = append(lines, m.styles.Section.Render(fmt.Sprintf("Matches (%d)", len(m.matches))), "")

	visible := max((m.height-2)/linesPerMatch, 1)
	start := 0
	if m.selected >= visible {
		start = m.selected - visible + 1
	}
	end := min(start+visible, len(m.matches))

	for i := start; i < end; i++ {
		lines = append(lines, m.renderMatch(i, &m.matches[i]))
	}
	return strings.Join(lines, "\n")
}

func (m *MatchList) renderMatch(index int, match *domain.DocumentMatch) string {
	nameWidth := max(m.width-20, 10)
	name := truncate(match.Document.Filename, nameWidth)
	score := fmt.Sprintf("%.3f", match.Score)

	var title string
	if index == m.selected {
		title = m.styles.Selected.Render(fmt.Sprintf("> [%d] %-*s  %s", match.Rank, nameWidth, name, score))
	} else {
		title = m.styles.Normal.Render(fmt.Sprintf("  [%d] %-*s  ", match.Rank, nameWidth, name)) +
			m.styles.Muted.Render(score)
	}

	uploaded := match.Document.UploadDate
	if uploaded == "" {
		uploaded = "unknown"
	}
	meta := m.styles.Muted.Render("      uploaded " + uploaded)

	preview := strings.Join(strings.Fields(match.Document.TextPreview), " ")
	preview = m.styles.Normal.Render("      " + truncate(preview, max(m.width-8, 20)))

	return title + "\n" + meta + "\n" + preview
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return domain.Preview(s, n-3) + "..."
}

// SetMatches replaces the list and resets the selection.
func (m *MatchList) SetMatches(matches []domain.DocumentMatch) {
	m.matches = matches
	m.selected = 0
}

// Matches returns the current matches.
func (m *MatchList) Matches() []domain.DocumentMatch {
	return m.matches
}

// Selected returns the index of the selected match.
func (m *MatchList) Selected() int {
	return m.selected
}

// SelectedMatch returns the selected match, or nil when the list is empty.
func (m *MatchList) SelectedMatch() *domain.DocumentMatch {
	if m.selected < 0 || m.selected >= len(m.matches) {
		return nil
	}
	return &m.matches[m.selected]
}

// MoveUp moves the selection up.
func (m *MatchList) MoveUp() {
	if m.selected > 0 {
		m.selected--
	}
}

// MoveDown moves the selection down.
func (m *MatchList) MoveDown() {
	if m.selected < len(m.matches)-1 {
		m.selected++
	}
}

// SetDimensions sets the component dimensions.
func (m *MatchList) SetDimensions(width, height int) {
	m.width = width
	m.height = height
}

// Count returns the number of matches.
func (m *MatchList) Count() int {
	return len(m.matches)
}
