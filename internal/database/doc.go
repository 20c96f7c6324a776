// Package database provides SQLite-based storage for spdoc.
//
// This package implements the HistoryDB, which stores one row per
// generation: the record that was rendered, the digest and outline of the
// resulting document, and the run that produced it. The history lets a
// user re-render an old generation, see when a procedure's documentation
// last changed, and compare the section outline of two generations.
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of other
// databases because:
// 1. No external dependencies - the database is a single file
// 2. CGO-free implementation allows easy cross-compilation
// 3. WAL mode lets a batch run write while another process reads history
package database
