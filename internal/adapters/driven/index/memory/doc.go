// Package memory provides in-memory implementations of the dense vector
// index and the sparse keyword index. Both apply updates atomically from a
// reader's perspective and are rebuilt from the document store at startup.
package memory
