// Package tui provides an interactive terminal dashboard for pulse.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/pulse-cli/internal/core/ports/driving"
)

// Ports aggregates the driving ports the TUI reads from.
type Ports struct {
	// Trends supplies the dashboard aggregates. Required.
	Trends driving.TrendService

	// Index answers semantic transcript searches. Optional; the search
	// tab reports the index as unavailable when nil.
	Index driving.IndexService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Trends == nil {
		return ErrMissingTrendService
	}
	return nil
}
