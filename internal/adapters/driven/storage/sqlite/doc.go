// Package sqlite provides a SQLite-backed session store.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. OpenSession keeps the database in a file named after the
// session (by default the parent shell), so consecutive invocations from one
// shell share it while a new shell starts empty. NewStore keeps it in memory
// under a shared-cache name, so its contents last as long as the process.
//
// # Schema
//
// The schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Thread Safety
//
// All operations are thread-safe. The store holds a single connection,
// which also keeps an in-memory database alive. Concurrent processes on one
// session file are serialised by SQLite's busy timeout.
package sqlite
