package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driven"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driving"
	"github.com/custodia-labs/askdoc-cli/internal/logger"
)

// Ensure RetrievalService implements the interface.
var _ driving.RetrievalService = (*RetrievalService)(nil)

// defaultK is the result count when the caller does not specify one.
const defaultK = 10

// RetrievalService ranks indexed chunks with query-adaptive fusion of
// dense and sparse retrieval. Queries are read-only and stateless given the
// current index contents.
type RetrievalService struct {
	analyzer *Analyzer
	embedder driven.EmbeddingService
	vectors  driven.VectorIndex
	keywords driven.KeywordIndex
	docStore driven.DocumentStore
}

// NewRetrievalService creates a retrieval service.
// embedder may be nil; dense retrieval is then skipped and ranking falls
// back to sparse scores alone.
func NewRetrievalService(
	analyzer *Analyzer,
	embedder driven.EmbeddingService,
	vectors driven.VectorIndex,
	keywords driven.KeywordIndex,
	docStore driven.DocumentStore,
) *RetrievalService {
	if analyzer == nil {
		panic("services.NewRetrievalService: analyzer is nil")
	}
	if vectors == nil || keywords == nil {
		panic("services.NewRetrievalService: indexes are nil")
	}
	if docStore == nil {
		panic("services.NewRetrievalService: document store is nil")
	}
	return &RetrievalService{
		analyzer: analyzer,
		embedder: embedder,
		vectors:  vectors,
		keywords: keywords,
		docStore: docStore,
	}
}

// Analyze classifies a query and reports the fusion weight Retrieve would
// use.
func (s *RetrievalService) Analyze(ctx context.Context, query string) domain.QueryAnalysis {
	return s.analyzer.Analyze(ctx, query)
}

// Retrieve answers a query with a fused, hydrated ranking.
// An empty result is a valid, successful outcome. Exceeding opts.Timeout
// returns domain.ErrTimeout and discards partial results.
func (s *RetrievalService) Retrieve(
	ctx context.Context, query string, opts domain.RetrievalOptions,
) ([]domain.RetrievalResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.RetrievalResult{}, nil
	}

	k := opts.K
	if k <= 0 {
		k = defaultK
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	var analysis domain.QueryAnalysis
	if opts.Alpha != nil {
		analysis = domain.QueryAnalysis{Class: domain.QueryClassMixed, Alpha: *opts.Alpha}
	} else {
		analysis = s.analyzer.Analyze(ctx, query)
	}
	logger.Debug("Query %q classified as %s (alpha=%.2f)", query, analysis.Class, analysis.Alpha)

	// Fetch more than k from each index so fusion has candidates to merge.
	fetchLimit := k * 2

	// Dense and sparse searches are read-only and independent; run them
	// concurrently and join synchronously.
	var (
		wg        sync.WaitGroup
		dense     []driven.VectorHit
		sparse    []driven.KeywordHit
		denseErr  error
		sparseErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		dense, denseErr = s.denseSearch(ctx, query, fetchLimit)
	}()
	go func() {
		defer wg.Done()
		sparse, sparseErr = s.keywords.Search(ctx, query, fetchLimit)
	}()
	wg.Wait()

	if err := timeoutErr(ctx); err != nil {
		return nil, err
	}
	if denseErr != nil && sparseErr != nil {
		return nil, fmt.Errorf("retrieve: dense=%w, sparse=%w", denseErr, sparseErr)
	}
	if denseErr != nil {
		logger.Warn("Dense search failed, ranking on sparse scores only: %v", denseErr)
	}
	if sparseErr != nil {
		logger.Warn("Sparse search failed, ranking on dense scores only: %v", sparseErr)
	}

	fused := Fuse(dense, sparse, analysis.Alpha, k)

	results, err := s.hydrate(ctx, fused)
	if err != nil {
		return nil, err
	}
	if err := timeoutErr(ctx); err != nil {
		return nil, err
	}
	return results, nil
}

// denseSearch embeds the query and searches the vector index.
func (s *RetrievalService) denseSearch(ctx context.Context, query string, limit int) ([]driven.VectorHit, error) {
	if s.embedder == nil {
		logger.Debug("No embedding service, skipping dense search")
		return nil, nil
	}

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	hits, err := s.vectors.Search(ctx, vector, limit)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	return hits, nil
}

// hydrate resolves fused chunk IDs to full retrieval results.
// A chunk present in an index but missing from the store is an internal
// defect and is surfaced as domain.ErrIndexInconsistent.
func (s *RetrievalService) hydrate(ctx context.Context, fused []FusedHit) ([]domain.RetrievalResult, error) {
	results := make([]domain.RetrievalResult, 0, len(fused))
	for _, hit := range fused {
		chunk, err := s.docStore.GetChunk(ctx, hit.ChunkID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("%w: chunk %s indexed but not stored",
					domain.ErrIndexInconsistent, hit.ChunkID)
			}
			return nil, fmt.Errorf("get chunk %s: %w", hit.ChunkID, err)
		}
		results = append(results, domain.RetrievalResult{
			Chunk:       *chunk,
			Score:       hit.Score,
			DenseScore:  hit.DenseScore,
			SparseScore: hit.SparseScore,
		})
	}
	return results, nil
}

// timeoutErr maps a context deadline to the domain timeout error.
func timeoutErr(ctx context.Context) error {
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", domain.ErrTimeout, ctx.Err())
	case ctx.Err() != nil:
		return ctx.Err()
	default:
		return nil
	}
}
