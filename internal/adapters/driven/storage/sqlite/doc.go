// Package sqlite persists the main time-series dataset.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO, enabling easy cross-compilation. One database holds the
// published item rows and every committed custom index row (series_rows),
// plus an audit table of the committed custom indices (custom_indices).
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql
// files.
//
// # Data Location
//
// By default, the database is stored at ~/.cpix/data/dataset.db. Standalone
// CSV artifacts are written next to it.
package sqlite
