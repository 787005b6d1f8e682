package driven

import "context"

// KeywordIndex provides sparse term-overlap search over chunk text using a
// BM25-family scheme. Document-frequency statistics are maintained
// incrementally: Remove decrements them, it never merely drops the chunk.
type KeywordIndex interface {
	// Upsert tokenises the text and indexes its term frequencies under the
	// given chunk ID, replacing any previous posting for that ID.
	Upsert(ctx context.Context, chunkID string, text string) error

	// Remove deletes a chunk's postings and decrements document-frequency
	// statistics. Removing a nonexistent ID is a no-op.
	Remove(ctx context.Context, chunkID string) error

	// Search scores chunks against the query tokens and returns up to k
	// results sorted by descending score, ties broken by insertion order.
	// Scores are normalised to [0,1] by the maximum score in the result
	// set; an all-zero result set stays all-zero.
	Search(ctx context.Context, query string, k int) ([]KeywordHit, error)

	// DocCount returns the number of indexed chunks.
	DocCount() int

	// Close releases resources.
	Close() error
}

// KeywordHit represents a keyword search result.
type KeywordHit struct {
	// ChunkID is the matched chunk.
	ChunkID string

	// Score is the normalised BM25 score in [0,1].
	Score float64
}
