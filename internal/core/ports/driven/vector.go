package driven

import "context"

// VectorIndex provides dense similarity search over chunk embeddings.
// Updates are visible to the next Search call; readers never observe a
// half-applied batch.
type VectorIndex interface {
	// Upsert inserts or replaces the vector for the given chunk ID.
	// Replacing keeps the chunk's original insertion position.
	Upsert(ctx context.Context, chunkID string, embedding []float32) error

	// Remove deletes a vector from the index. Removing a nonexistent ID is
	// a no-op.
	Remove(ctx context.Context, chunkID string) error

	// Search returns up to k nearest neighbours sorted by descending
	// similarity, ties broken by insertion order. An empty index yields an
	// empty result, not an error.
	Search(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// Len returns the number of indexed vectors.
	Len() int

	// Close releases resources.
	Close() error
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// ChunkID is the matched chunk.
	ChunkID string

	// Similarity is the cosine similarity mapped to [0,1] via (s+1)/2.
	Similarity float64
}
