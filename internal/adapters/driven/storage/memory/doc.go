// Package memory provides in-memory implementations of the driven storage ports.
// They back unit tests and ephemeral runs where nothing should touch disk.
package memory
