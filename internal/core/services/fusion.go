package services

import (
	"sort"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driven"
)

// FusedHit is a chunk's combined ranking before hydration.
type FusedHit struct {
	// ChunkID is the ranked chunk.
	ChunkID string

	// Score is alpha*dense + (1-alpha)*sparse, in [0,1].
	Score float64

	// DenseScore and SparseScore are the per-list contributions; 0 when the
	// chunk was absent from that list.
	DenseScore  float64
	SparseScore float64

	// inBoth marks presence in both input lists, used for tie-breaking.
	inBoth bool
}

// Fuse merges dense and sparse result lists into one ranking.
//
// Every chunk appearing in either list is scored as
// alpha*dense + (1-alpha)*sparse, with a missing appearance counting as 0
// in that list. Results are sorted by descending fused score; ties prefer
// chunks present in both lists, then lower chunk sequence index, then the
// chunk ID itself. The output is truncated to k entries.
//
// Fuse is a pure function of its inputs.
func Fuse(dense []driven.VectorHit, sparse []driven.KeywordHit, alpha float64, k int) []FusedHit {
	if k <= 0 {
		return nil
	}
	if alpha < 0 {
		alpha = 0
	}
	if alpha > 1 {
		alpha = 1
	}

	merged := make(map[string]*FusedHit, len(dense)+len(sparse))
	for _, hit := range dense {
		merged[hit.ChunkID] = &FusedHit{
			ChunkID:    hit.ChunkID,
			DenseScore: hit.Similarity,
		}
	}
	for _, hit := range sparse {
		if existing, ok := merged[hit.ChunkID]; ok {
			existing.SparseScore = hit.Score
			existing.inBoth = true
			continue
		}
		merged[hit.ChunkID] = &FusedHit{
			ChunkID:     hit.ChunkID,
			SparseScore: hit.Score,
		}
	}

	results := make([]FusedHit, 0, len(merged))
	for _, hit := range merged {
		hit.Score = alpha*hit.DenseScore + (1-alpha)*hit.SparseScore
		results = append(results, *hit)
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		if results[i].inBoth != results[j].inBoth {
			return results[i].inBoth
		}
		si, sj := domain.ChunkSeq(results[i].ChunkID), domain.ChunkSeq(results[j].ChunkID)
		if si != sj {
			return si < sj
		}
		return results[i].ChunkID < results[j].ChunkID
	})

	if k < len(results) {
		results = results[:k]
	}
	return results
}
