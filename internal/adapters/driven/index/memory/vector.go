package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driven"
)

// Ensure VectorIndex implements the interface.
var _ driven.VectorIndex = (*VectorIndex)(nil)

// vectorEntry stores one chunk's embedding with its insertion sequence.
type vectorEntry struct {
	chunkID   string
	embedding []float32
	seq       int64
}

// VectorIndex is a brute-force cosine similarity index.
// The first upsert fixes the vector dimension; later vectors must match.
type VectorIndex struct {
	mu        sync.RWMutex
	entries   map[string]*vectorEntry
	dimension int
	nextSeq   int64
}

// NewVectorIndex creates an empty vector index.
// A non-zero dimension enforces that size from the first upsert; zero lets
// the first vector decide.
func NewVectorIndex(dimension int) *VectorIndex {
	return &VectorIndex{
		entries:   make(map[string]*vectorEntry),
		dimension: dimension,
	}
}

// Upsert inserts or replaces the vector for the given chunk ID.
// Replacing keeps the chunk's original insertion position.
func (idx *VectorIndex) Upsert(_ context.Context, chunkID string, embedding []float32) error {
	if len(embedding) == 0 {
		return fmt.Errorf("upsert %s: empty embedding", chunkID)
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.dimension == 0 {
		idx.dimension = len(embedding)
	}
	if len(embedding) != idx.dimension {
		return fmt.Errorf("upsert %s: dimension %d does not match index dimension %d",
			chunkID, len(embedding), idx.dimension)
	}

	vec := make([]float32, len(embedding))
	copy(vec, embedding)

	if existing, ok := idx.entries[chunkID]; ok {
		existing.embedding = vec
		return nil
	}

	idx.entries[chunkID] = &vectorEntry{
		chunkID:   chunkID,
		embedding: vec,
		seq:       idx.nextSeq,
	}
	idx.nextSeq++
	return nil
}

// Remove deletes a vector from the index. Removing a nonexistent ID is a
// no-op.
func (idx *VectorIndex) Remove(_ context.Context, chunkID string) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	delete(idx.entries, chunkID)
	return nil
}

// Search returns up to k nearest neighbours by cosine similarity, scores
// mapped to [0,1] via (s+1)/2. Results are sorted descending, ties broken
// by insertion order. An empty index yields an empty result.
func (idx *VectorIndex) Search(_ context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if k <= 0 {
		return nil, nil
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if len(idx.entries) == 0 {
		return []driven.VectorHit{}, nil
	}
	if len(query) != idx.dimension {
		return nil, fmt.Errorf("query dimension %d does not match index dimension %d",
			len(query), idx.dimension)
	}

	type scored struct {
		hit driven.VectorHit
		seq int64
	}
	results := make([]scored, 0, len(idx.entries))
	for _, entry := range idx.entries {
		sim := cosineSimilarity(query, entry.embedding)
		results = append(results, scored{
			hit: driven.VectorHit{
				ChunkID:    entry.chunkID,
				Similarity: (sim + 1) / 2,
			},
			seq: entry.seq,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].hit.Similarity != results[j].hit.Similarity {
			return results[i].hit.Similarity > results[j].hit.Similarity
		}
		return results[i].seq < results[j].seq
	})

	if k < len(results) {
		results = results[:k]
	}

	hits := make([]driven.VectorHit, len(results))
	for i, r := range results {
		hits[i] = r.hit
	}
	return hits, nil
}

// Len returns the number of indexed vectors.
func (idx *VectorIndex) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.entries)
}

// Close releases resources.
func (idx *VectorIndex) Close() error {
	return nil
}

// cosineSimilarity computes the cosine similarity between two vectors of
// equal length, in [-1,1]. Zero vectors yield 0.
func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
