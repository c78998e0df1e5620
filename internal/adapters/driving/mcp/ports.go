package mcp

import (
	"github.com/custodia-labs/pulse-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Trends serves dashboard aggregates and executive summaries.
	Trends driving.TrendService

	// Index answers semantic transcript search. Optional.
	Index driving.IndexService

	// Insights exposes stored insight records as resources. Optional.
	Insights driving.InsightService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Trends == nil {
		return ErrMissingTrendService
	}
	return nil
}
