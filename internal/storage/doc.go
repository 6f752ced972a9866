// Package storage persists run history in SQLite: one row per completed
// analysis run plus the gaps the model reported. The history is an audit
// trail queried by the CLI and MCP tools; it never feeds a later run's
// analysis.
//
// Two drivers are supported via build tags: mattn/go-sqlite3 with the
// sqlite_cgo tag, modernc.org/sqlite otherwise. See build_cgo.go and
// build_purego.go.
package storage
