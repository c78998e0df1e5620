// Package sqlite stores insight records in ~/.pulse/data/insights.db using
// modernc.org/sqlite, so the binary builds without cgo.
//
// Each record is kept whole as JSON. Its date and sentiment are copied
// into columns, and listing orders by the indexed date column. The schema
// is applied from the embedded migrations on open. The database runs in
// WAL mode with a busy timeout, so concurrent readers do not block.
package sqlite
