// Package persistence keeps the history of diagnostic runs in SQLite with WAL mode.
// Only the most recent runs are retained, older ones are removed on every insert.
package persistence
