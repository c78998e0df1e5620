// Package driving declares the use cases Pulse offers to its front ends.
//
// The CLI, the TUI dashboard and the MCP server depend only on these
// interfaces:
//
//   - InsightService: import, list and inspect per-transcript insight records
//   - TrendService: dashboard aggregates, recurrence and executive summaries
//   - IndexService: add transcripts to the vector index and search it
//   - SettingsService: read and change configuration
//
// internal/core/services implements each of them.
package driving
