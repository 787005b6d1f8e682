package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidConfiguration indicates bad chunking or retrieval parameters.
	// This is a caller error and is surfaced immediately, never retried.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrEmbeddingUnavailable indicates the embedding service failed or is not
	// configured. Ingestion of the affected document is aborted and rolled
	// back; the caller may retry.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrLLMUnavailable indicates the LLM service is not configured or failed.
	// Features requiring it (answer generation, quiz, LLM-assisted query
	// classification) degrade gracefully.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrIndexInconsistent indicates the dense and sparse indexes disagree
	// with the document store, e.g. a chunk present in an index but missing
	// from storage. This is an internal defect and is surfaced, not masked.
	ErrIndexInconsistent = errors.New("index inconsistent")

	// ErrTimeout indicates a query exceeded its caller-supplied deadline.
	// Partial results are discarded; the caller may retry with a longer
	// deadline.
	ErrTimeout = errors.New("timeout")
)
