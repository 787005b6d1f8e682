package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driven"
)

func dense(pairs ...any) []driven.VectorHit {
	hits := make([]driven.VectorHit, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		hits = append(hits, driven.VectorHit{
			ChunkID:    pairs[i].(string),
			Similarity: pairs[i+1].(float64),
		})
	}
	return hits
}

func sparse(pairs ...any) []driven.KeywordHit {
	hits := make([]driven.KeywordHit, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		hits = append(hits, driven.KeywordHit{
			ChunkID: pairs[i].(string),
			Score:   pairs[i+1].(float64),
		})
	}
	return hits
}

func TestFuse_WeightedCombination(t *testing.T) {
	results := Fuse(
		dense("doc_0", 0.8, "doc_1", 0.4),
		sparse("doc_0", 0.5, "doc_1", 0.9),
		0.5, 10,
	)
	require.Len(t, results, 2)

	// doc_1: 0.5*0.4 + 0.5*0.9 = 0.65; doc_0: 0.5*0.8 + 0.5*0.5 = 0.65.
	// Equal scores, both in both lists, lower sequence first.
	assert.Equal(t, "doc_0", results[0].ChunkID)
	assert.InDelta(t, 0.65, results[0].Score, 1e-9)
	assert.InDelta(t, 0.65, results[1].Score, 1e-9)
}

func TestFuse_MissingEntryCountsAsZero(t *testing.T) {
	results := Fuse(
		dense("doc_0", 0.9),
		sparse("doc_1", 0.9),
		0.3, 10,
	)
	require.Len(t, results, 2)

	// doc_1: 0.7*0.9 = 0.63 beats doc_0: 0.3*0.9 = 0.27.
	assert.Equal(t, "doc_1", results[0].ChunkID)
	assert.InDelta(t, 0.63, results[0].Score, 1e-9)
	assert.Equal(t, "doc_0", results[1].ChunkID)
	assert.InDelta(t, 0.27, results[1].Score, 1e-9)
	assert.Zero(t, results[0].DenseScore)
	assert.Zero(t, results[1].SparseScore)
}

func TestFuse_AlphaExtremes(t *testing.T) {
	d := dense("dense_0", 1.0)
	s := sparse("sparse_0", 1.0)

	atOne := Fuse(d, s, 1.0, 1)
	require.Len(t, atOne, 1)
	assert.Equal(t, "dense_0", atOne[0].ChunkID)

	atZero := Fuse(d, s, 0.0, 1)
	require.Len(t, atZero, 1)
	assert.Equal(t, "sparse_0", atZero[0].ChunkID)
}

// A keyword-heavy chunk outranks a semantically-close one at low alpha and
// the ordering flips once alpha crosses the break-even point.
func TestFuse_AlphaFlipsRanking(t *testing.T) {
	// A: strong sparse, weak dense. B: strong dense, weak sparse.
	// Break-even alpha* = (sA-sB)/((dB-dA)+(sA-sB)) = 0.8/1.6 = 0.5.
	d := dense("a_0", 0.1, "b_0", 0.9)
	s := sparse("a_0", 0.9, "b_0", 0.1)

	low := Fuse(d, s, 0.3, 2)
	require.Len(t, low, 2)
	assert.Equal(t, "a_0", low[0].ChunkID)

	high := Fuse(d, s, 0.7, 2)
	require.Len(t, high, 2)
	assert.Equal(t, "b_0", high[0].ChunkID)
}

// Raising a chunk's dense similarity never lowers its fused score, for any
// alpha.
func TestFuse_MonotonicInDenseScore(t *testing.T) {
	for _, alpha := range []float64{0, 0.25, 0.5, 0.75, 1} {
		base := Fuse(dense("x_0", 0.4), sparse("x_0", 0.5), alpha, 1)
		raised := Fuse(dense("x_0", 0.6), sparse("x_0", 0.5), alpha, 1)
		require.Len(t, base, 1)
		require.Len(t, raised, 1)
		assert.GreaterOrEqual(t, raised[0].Score, base[0].Score,
			"alpha=%v", alpha)
	}
}

func TestFuse_TiePrefersChunkInBothLists(t *testing.T) {
	// both_5 appears in both lists, single_0 only in dense; scores equal.
	d := dense("both_5", 0.5, "single_0", 1.0)
	s := sparse("both_5", 0.5)

	results := Fuse(d, s, 0.5, 2)
	require.Len(t, results, 2)
	// both_5: 0.25+0.25 = 0.5 = single_0: 0.5. In-both wins despite the
	// higher sequence index.
	assert.Equal(t, "both_5", results[0].ChunkID)
}

func TestFuse_TieFallsBackToSequenceThenID(t *testing.T) {
	results := Fuse(
		dense("doc_3", 0.5, "doc_1", 0.5),
		nil,
		1.0, 10,
	)
	require.Len(t, results, 2)
	assert.Equal(t, "doc_1", results[0].ChunkID)
	assert.Equal(t, "doc_3", results[1].ChunkID)

	results = Fuse(
		dense("beta_0", 0.5, "alpha_0", 0.5),
		nil,
		1.0, 10,
	)
	require.Len(t, results, 2)
	assert.Equal(t, "alpha_0", results[0].ChunkID)
}

func TestFuse_TruncatesToK(t *testing.T) {
	d := dense("a_0", 0.9, "b_0", 0.8, "c_0", 0.7, "d_0", 0.6)
	results := Fuse(d, nil, 1.0, 2)
	require.Len(t, results, 2)
	assert.Equal(t, "a_0", results[0].ChunkID)
	assert.Equal(t, "b_0", results[1].ChunkID)
}

func TestFuse_EmptyInputs(t *testing.T) {
	assert.Empty(t, Fuse(nil, nil, 0.5, 10))
	assert.Empty(t, Fuse(dense("a_0", 0.5), sparse("a_0", 0.5), 0.5, 0))
}

func TestFuse_ClampsAlpha(t *testing.T) {
	d := dense("a_0", 1.0)
	s := sparse("b_0", 1.0)

	results := Fuse(d, s, 5.0, 2)
	require.Len(t, results, 2)
	assert.Equal(t, "a_0", results[0].ChunkID)
	assert.InDelta(t, 1.0, results[0].Score, 1e-9)

	results = Fuse(d, s, -5.0, 2)
	require.Len(t, results, 2)
	assert.Equal(t, "b_0", results[0].ChunkID)
}

func TestFuse_IsDeterministic(t *testing.T) {
	d := dense("a_0", 0.5, "b_0", 0.5, "c_0", 0.5)
	s := sparse("b_0", 0.5, "d_0", 0.5)

	first := Fuse(d, s, 0.5, 10)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, Fuse(d, s, 0.5, 10))
	}
}
