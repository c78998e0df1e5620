// Package domain holds the Pulse data model: per-transcript insight records,
// the aggregates computed across them, and the metadata kept alongside
// vectors in the transcript index.
//
// It imports only the standard library. Every other package may import it.
package domain
