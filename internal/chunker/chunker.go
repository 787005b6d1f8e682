// Package chunker splits normalised document text into overlapping segments,
// the retrievable units of the index.
//
// MaxLen is an exclusive bound: a mid-text cut takes MaxLen-1 characters, so
// every chunk is strictly shorter than MaxLen. When Tolerance is positive and
// a sentence terminator ('.', '!', '?') occurs within Tolerance characters
// before the cut point, the cut moves to just after that terminator. Each
// chunk after the first starts Overlap characters before its predecessor's
// end; leading whitespace inside the overlap region is skipped, with the
// recorded start offset advancing past it (the effective overlap shrinks by
// the same amount). Splitting is deterministic: identical input
// and parameters always yield identical boundaries.
package chunker

import (
	"fmt"
	"unicode"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
)

// Split divides text into chunks for the given document.
// Empty text yields an empty slice, not an error.
// Overlap >= MaxLen fails with domain.ErrInvalidConfiguration.
func Split(documentID, text string, pages domain.PageMap, cfg domain.ChunkingSettings) ([]domain.Chunk, error) {
	if cfg.MaxLen <= 0 {
		return nil, fmt.Errorf("%w: max length must be positive, got %d",
			domain.ErrInvalidConfiguration, cfg.MaxLen)
	}
	if cfg.Overlap < 0 {
		return nil, fmt.Errorf("%w: overlap must be non-negative, got %d",
			domain.ErrInvalidConfiguration, cfg.Overlap)
	}
	if cfg.Overlap >= cfg.MaxLen {
		return nil, fmt.Errorf("%w: overlap %d must be smaller than max length %d",
			domain.ErrInvalidConfiguration, cfg.Overlap, cfg.MaxLen)
	}

	if text == "" {
		return nil, nil
	}

	n := len(text)
	var chunks []domain.Chunk

	start := 0
	seq := 0
	for start < n {
		cut := start + cfg.MaxLen - 1
		if cut >= n {
			cut = n
		} else if cfg.Tolerance > 0 {
			cut = adjustToSentence(text, start, cut, cfg.Tolerance)
		}

		chunks = append(chunks, domain.Chunk{
			ID:          domain.ChunkID(documentID, seq),
			DocumentID:  documentID,
			Content:     text[start:cut],
			Seq:         seq,
			StartOffset: start,
			EndOffset:   cut,
			Page:        pages.PageAt(start),
		})
		seq++

		if cut >= n {
			break
		}

		next := cut - cfg.Overlap
		// Skip leading whitespace within the overlap region; the overlap
		// shrinks instead. Never past the cut, or coverage would break.
		for next < cut && isSpace(text[next]) {
			next++
		}
		if next <= start {
			// Sentence adjustment shrank the chunk below the overlap span.
			next = cut
		}
		start = next
	}

	return chunks, nil
}

// adjustToSentence moves an exclusive cut position back to just after the
// nearest sentence terminator within the tolerance window, if any.
func adjustToSentence(text string, start, cut, tolerance int) int {
	lower := cut - tolerance
	if lower <= start {
		lower = start + 1
	}
	for i := cut - 1; i >= lower; i-- {
		switch text[i] {
		case '.', '!', '?':
			return i + 1
		}
	}
	return cut
}

func isSpace(b byte) bool {
	return unicode.IsSpace(rune(b))
}
