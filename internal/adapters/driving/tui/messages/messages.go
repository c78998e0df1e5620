// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/pulse-cli/internal/core/domain"
)

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewDashboard shows cross-meeting trends.
	ViewDashboard ViewType = iota
	// ViewSearch is the semantic transcript search view.
	ViewSearch
	// ViewHelp is the keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewDashboard:
		return "dashboard"
	case ViewSearch:
		return "search"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// DashboardRequested asks the dashboard view to reload its aggregates.
type DashboardRequested struct{}

// DashboardLoaded carries freshly computed aggregates.
type DashboardLoaded struct {
	Dashboard *domain.Dashboard
	Err       error
}

// SearchCompleted carries ranked transcript matches back to the model.
type SearchCompleted struct {
	Query   string
	Matches []domain.DocumentMatch
	Err     error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
