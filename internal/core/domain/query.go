package domain

import "time"

// QueryClass categorises a query for fusion weighting.
type QueryClass string

// Available query classes.
const (
	// QueryClassFactual favours sparse keyword retrieval: rare terms,
	// numbers, proper nouns.
	QueryClassFactual QueryClass = "factual"

	// QueryClassConceptual favours dense semantic retrieval: abstract,
	// paraphrasable language.
	QueryClassConceptual QueryClass = "conceptual"

	// QueryClassMixed is the default when neither signal dominates.
	QueryClassMixed QueryClass = "mixed"
)

// IsValid returns true if the query class is recognised.
func (c QueryClass) IsValid() bool {
	switch c {
	case QueryClassFactual, QueryClassConceptual, QueryClassMixed:
		return true
	default:
		return false
	}
}

// QueryAnalysis is the outcome of classifying a query.
type QueryAnalysis struct {
	// Class is the assigned query class.
	Class QueryClass

	// Alpha is the dense-vs-sparse blend weight in [0,1].
	// 1 means dense only, 0 means sparse only.
	Alpha float64
}

// RetrievalOptions configures a retrieval call.
type RetrievalOptions struct {
	// K is the maximum number of results (default 10).
	K int

	// Timeout bounds the whole retrieval, 0 means no deadline beyond the
	// caller's context.
	Timeout time.Duration

	// Alpha overrides the analyzer's fusion weight when non-nil.
	Alpha *float64
}

// RetrievalResult is a single ranked retrieval hit.
type RetrievalResult struct {
	// Chunk is the matched chunk with its text and metadata.
	Chunk Chunk

	// Score is the fused relevance score in [0,1].
	Score float64

	// DenseScore and SparseScore are the per-index contributions in [0,1];
	// 0 when the chunk did not appear in that index's result list.
	DenseScore  float64
	SparseScore float64
}
