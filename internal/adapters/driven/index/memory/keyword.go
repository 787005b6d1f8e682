package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driven"
)

// Ensure KeywordIndex implements the interface.
var _ driven.KeywordIndex = (*KeywordIndex)(nil)

// BM25 parameters.
const (
	bm25K1 = 1.2
	bm25B  = 0.75
)

// keywordDoc holds one chunk's term statistics.
type keywordDoc struct {
	termFreqs map[string]int
	length    int
	seq       int64
}

// KeywordIndex is an in-memory BM25 inverted index.
// Document-frequency statistics are maintained incrementally: removing a
// chunk decrements them rather than dropping the posting silently.
type KeywordIndex struct {
	mu          sync.RWMutex
	docs        map[string]*keywordDoc
	postings    map[string]map[string]int // term -> chunkID -> tf
	totalLength int
	nextSeq     int64
}

// NewKeywordIndex creates an empty keyword index.
func NewKeywordIndex() *KeywordIndex {
	return &KeywordIndex{
		docs:     make(map[string]*keywordDoc),
		postings: make(map[string]map[string]int),
	}
}

// Upsert tokenises text and indexes its term frequencies under chunkID,
// replacing any previous posting for that ID.
func (idx *KeywordIndex) Upsert(_ context.Context, chunkID string, text string) error {
	tokens := domain.Tokenize(text)

	idx.mu.Lock()
	defer idx.mu.Unlock()

	seq := idx.nextSeq
	if existing, ok := idx.docs[chunkID]; ok {
		seq = existing.seq
		idx.removeLocked(chunkID)
	} else {
		idx.nextSeq++
	}

	doc := &keywordDoc{
		termFreqs: make(map[string]int),
		length:    len(tokens),
		seq:       seq,
	}
	for _, tok := range tokens {
		doc.termFreqs[tok]++
	}

	idx.docs[chunkID] = doc
	idx.totalLength += doc.length
	for term, tf := range doc.termFreqs {
		posting, ok := idx.postings[term]
		if !ok {
			posting = make(map[string]int)
			idx.postings[term] = posting
		}
		posting[chunkID] = tf
	}
	return nil
}

// Remove deletes a chunk's postings and decrements document-frequency
// statistics. Removing a nonexistent ID is a no-op.
func (idx *KeywordIndex) Remove(_ context.Context, chunkID string) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.removeLocked(chunkID)
	return nil
}

// removeLocked removes a chunk while holding the write lock.
func (idx *KeywordIndex) removeLocked(chunkID string) {
	doc, ok := idx.docs[chunkID]
	if !ok {
		return
	}
	for term := range doc.termFreqs {
		posting := idx.postings[term]
		delete(posting, chunkID)
		if len(posting) == 0 {
			delete(idx.postings, term)
		}
	}
	idx.totalLength -= doc.length
	delete(idx.docs, chunkID)
}

// Search scores chunks against the query with BM25 and returns up to k
// results sorted descending, ties broken by insertion order. Scores are
// normalised to [0,1] by the maximum score in the result set; if every
// score is zero they all stay zero.
func (idx *KeywordIndex) Search(_ context.Context, query string, k int) ([]driven.KeywordHit, error) {
	if k <= 0 {
		return nil, nil
	}
	queryTokens := domain.Tokenize(query)
	if len(queryTokens) == 0 {
		return []driven.KeywordHit{}, nil
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	n := len(idx.docs)
	if n == 0 {
		return []driven.KeywordHit{}, nil
	}
	avgLength := float64(idx.totalLength) / float64(n)

	scores := make(map[string]float64)
	for _, term := range queryTokens {
		posting, ok := idx.postings[term]
		if !ok {
			continue
		}
		df := len(posting)
		idf := math.Log(1 + (float64(n)-float64(df)+0.5)/(float64(df)+0.5))
		for chunkID, tf := range posting {
			doc := idx.docs[chunkID]
			norm := 1 - bm25B + bm25B*float64(doc.length)/avgLength
			scores[chunkID] += idf * float64(tf) * (bm25K1 + 1) /
				(float64(tf) + bm25K1*norm)
		}
	}

	if len(scores) == 0 {
		return []driven.KeywordHit{}, nil
	}

	type scored struct {
		chunkID string
		score   float64
		seq     int64
	}
	results := make([]scored, 0, len(scores))
	maxScore := 0.0
	for chunkID, score := range scores {
		if score > maxScore {
			maxScore = score
		}
		results = append(results, scored{chunkID, score, idx.docs[chunkID].seq})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].score != results[j].score {
			return results[i].score > results[j].score
		}
		return results[i].seq < results[j].seq
	})

	if k < len(results) {
		results = results[:k]
	}

	hits := make([]driven.KeywordHit, len(results))
	for i, r := range results {
		score := r.score
		if maxScore > 0 {
			score /= maxScore
		}
		hits[i] = driven.KeywordHit{ChunkID: r.chunkID, Score: score}
	}
	return hits, nil
}

// DocCount returns the number of indexed chunks.
func (idx *KeywordIndex) DocCount() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.docs)
}

// DocFrequency returns how many chunks contain the given term.
func (idx *KeywordIndex) DocFrequency(term string) int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.postings[term])
}

// TermCount returns the number of distinct terms in the index.
func (idx *KeywordIndex) TermCount() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.postings)
}

// Close releases resources.
func (idx *KeywordIndex) Close() error {
	return nil
}
