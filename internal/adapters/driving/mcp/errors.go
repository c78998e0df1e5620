// Package mcp provides an MCP (Model Context Protocol) server adapter for Pulse.
// It lets AI assistants query meeting trends, executive summaries and
// semantic transcript search over stdio or HTTP.
package mcp

import "errors"

// ErrMissingTrendService is returned when the trend service is not provided.
var ErrMissingTrendService = errors.New("mcp: trend service is required")
