// Package sqlite persists documents and chunks with modernc.org/sqlite, a
// pure Go SQLite driver that needs no CGO.
//
// Chunk rows store the chunk text alongside its embedding as a
// little-endian float32 blob, which is enough to rebuild both the dense
// and the sparse index exactly after a restart.
//
// The schema is managed through versioned migrations embedded from the
// migrations/ directory. By default the database lives at
// ~/.askdoc/data/askdoc.db and runs in WAL mode.
package sqlite
