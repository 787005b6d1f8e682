package driving

import (
	"context"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
)

// RetrievalService answers queries by ranking indexed chunks with fused
// dense and sparse retrieval.
type RetrievalService interface {
	// Retrieve returns up to opts.K ranked results. An empty result is a
	// valid, successful outcome. Exceeding opts.Timeout returns
	// domain.ErrTimeout with no partial results.
	Retrieve(ctx context.Context, query string, opts domain.RetrievalOptions) ([]domain.RetrievalResult, error)

	// Analyze classifies a query and reports the fusion weight that
	// Retrieve would use for it.
	Analyze(ctx context.Context, query string) domain.QueryAnalysis
}

// IngestService manages the indexed document collection.
type IngestService interface {
	// Ingest chunks, embeds, and indexes a document as one logical unit.
	// On failure nothing of the document remains indexed.
	Ingest(ctx context.Context, documentID, title, text string, pages domain.PageMap) error

	// Delete removes a document and all derived state. Idempotent.
	Delete(ctx context.Context, documentID string) error

	// Rebuild repopulates both indexes from the document store, e.g. after
	// restart.
	Rebuild(ctx context.Context) error

	// Documents lists the ingested documents.
	Documents(ctx context.Context) ([]domain.Document, error)
}
