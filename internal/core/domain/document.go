package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Document represents an ingested document.
// Its text is the normalised plain-text output of an external extractor.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// Title is the human-readable title.
	Title string

	// Text is the full normalised text content before chunking.
	Text string

	// PageCount is the number of pages in the source, if known.
	PageCount int

	// CreatedAt is when the document was first ingested.
	CreatedAt time.Time

	// UpdatedAt is when the document was last re-ingested.
	UpdatedAt time.Time
}

// Chunk is the unit of retrieval: a bounded, overlapping segment of a
// document's text.
type Chunk struct {
	// ID is derived from the document ID and sequence index, so re-chunking
	// identical input yields identical IDs.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// Content is the text span of this chunk.
	Content string

	// Seq is the ordinal position within the document.
	Seq int

	// StartOffset and EndOffset are character offsets into the source text.
	// Consecutive chunks overlap; the union of spans covers the source.
	StartOffset int
	EndOffset   int

	// Page is the source page containing the chunk start, 0 if unknown.
	Page int

	// Embedding is the vector representation for dense retrieval.
	// Immutable once stored; re-embedding replaces the slice.
	Embedding []float32
}

// ChunkID derives the stable chunk identifier for a document and sequence
// index.
func ChunkID(documentID string, seq int) string {
	return fmt.Sprintf("%s_%d", documentID, seq)
}

// ChunkSeq extracts the sequence index from a chunk ID.
// Returns -1 if the ID does not carry one.
func ChunkSeq(chunkID string) int {
	i := strings.LastIndexByte(chunkID, '_')
	if i < 0 {
		return -1
	}
	seq, err := strconv.Atoi(chunkID[i+1:])
	if err != nil {
		return -1
	}
	return seq
}

// PageSpan marks the start of a page within a document's text.
type PageSpan struct {
	// Offset is the character offset where the page begins.
	Offset int

	// Page is the 1-based page number.
	Page int
}

// PageMap maps character offsets to page numbers.
// Spans must be sorted by offset; the external text extractor produces this.
type PageMap []PageSpan

// PageAt returns the page containing the given offset, or 0 when the map is
// empty or the offset precedes the first span.
func (m PageMap) PageAt(offset int) int {
	i := sort.Search(len(m), func(i int) bool { return m[i].Offset > offset })
	if i == 0 {
		return 0
	}
	return m[i-1].Page
}
