// Package domain contains the core business entities and rules for askdoc:
// documents, chunks, retrieval results, query analysis, and domain errors.
// It has no dependencies on adapters or infrastructure.
package domain
