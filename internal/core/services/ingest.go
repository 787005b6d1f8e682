package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/askdoc-cli/internal/chunker"
	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driven"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driving"
	"github.com/custodia-labs/askdoc-cli/internal/logger"
)

var _ driving.IngestService = (*IngestService)(nil)

// IngestService chunks, embeds, and indexes documents. Each document is
// ingested as one logical unit: on any failure nothing of the new version
// remains indexed. Different documents may be ingested concurrently;
// operations on the same document are serialised behind a per-document
// lock held until both indexes are updated or rolled back.
type IngestService struct {
	chunkCfg domain.ChunkingSettings
	embedder driven.EmbeddingService
	vectors  driven.VectorIndex
	keywords driven.KeywordIndex
	docStore driven.DocumentStore

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// previousVersion captures a document's stored state before re-ingestion
// replaces it, so a failure can put it back.
type previousVersion struct {
	doc    *domain.Document
	chunks []domain.Chunk
}

// NewIngestService creates an ingest service. embedder may be nil, in
// which case Ingest fails but Delete, Rebuild, and Documents still work;
// they never embed.
func NewIngestService(
	cfg domain.ChunkingSettings,
	embedder driven.EmbeddingService,
	vectors driven.VectorIndex,
	keywords driven.KeywordIndex,
	docStore driven.DocumentStore,
) (*IngestService, error) {
	if vectors == nil || keywords == nil || docStore == nil {
		return nil, errors.New("ingest service: indexes and document store are required")
	}
	return &IngestService{
		chunkCfg: cfg,
		embedder: embedder,
		vectors:  vectors,
		keywords: keywords,
		docStore: docStore,
		locks:    make(map[string]*sync.Mutex),
	}, nil
}

// Ingest indexes a document. Re-ingesting an existing ID replaces its
// previous chunk set completely. Embedding failure aborts before any index
// or store mutation.
func (s *IngestService) Ingest(ctx context.Context, documentID, title, text string, pages domain.PageMap) error {
	documentID = strings.TrimSpace(documentID)
	if documentID == "" {
		return fmt.Errorf("%w: document ID is empty", domain.ErrInvalidConfiguration)
	}
	if strings.ContainsRune(documentID, '_') {
		// Chunk IDs are derived as "<docID>_<seq>"; an underscore in the
		// document ID would make them ambiguous.
		return fmt.Errorf("%w: document ID %q must not contain underscores",
			domain.ErrInvalidConfiguration, documentID)
	}

	lock := s.lockDocument(documentID)
	defer lock.Unlock()

	chunks, err := chunker.Split(documentID, text, pages, s.chunkCfg)
	if err != nil {
		return fmt.Errorf("chunk document %s: %w", documentID, err)
	}
	logger.Debug("Document %s split into %d chunks", documentID, len(chunks))

	// Embed everything before touching any index. A failure here leaves the
	// engine exactly as it was.
	if len(chunks) > 0 {
		if s.embedder == nil {
			return fmt.Errorf("%w: ingestion requires an embedding service",
				domain.ErrEmbeddingUnavailable)
		}
		contents := make([]string, len(chunks))
		for i, c := range chunks {
			contents[i] = c.Content
		}
		vectors, err := s.embedder.EmbedBatch(ctx, contents)
		if err != nil {
			if deadline := timeoutErr(ctx); deadline != nil {
				return deadline
			}
			return fmt.Errorf("%w: embed %d chunks of %s: %v",
				domain.ErrEmbeddingUnavailable, len(chunks), documentID, err)
		}
		if len(vectors) != len(chunks) {
			return fmt.Errorf("%w: got %d embeddings for %d chunks",
				domain.ErrEmbeddingUnavailable, len(vectors), len(chunks))
		}
		for i := range chunks {
			chunks[i].Embedding = vectors[i]
		}
	}

	now := time.Now().UTC()
	doc := &domain.Document{
		ID:        documentID,
		Title:     title,
		Text:      text,
		PageCount: len(pages),
		CreatedAt: now,
		UpdatedAt: now,
	}

	// Snapshot the stored version so a failure after removal can restore
	// it instead of losing the previously good document.
	var prev *previousVersion
	if existing, err := s.docStore.GetDocument(ctx, documentID); err == nil {
		doc.CreatedAt = existing.CreatedAt
		prevChunks, err := s.docStore.GetChunks(ctx, documentID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("load chunks of %s: %w", documentID, err)
		}
		prev = &previousVersion{doc: existing, chunks: prevChunks}
	}

	// Replace any previous version of the document before inserting, so
	// stale chunks beyond the new sequence range cannot linger.
	if err := s.removeDocument(ctx, documentID); err != nil {
		return err
	}

	if err := s.docStore.SaveDocument(ctx, doc); err != nil {
		s.rollback(ctx, documentID, nil, prev)
		return fmt.Errorf("save document %s: %w", documentID, err)
	}
	if err := s.docStore.SaveChunks(ctx, chunks); err != nil {
		s.rollback(ctx, documentID, nil, prev)
		return fmt.Errorf("save chunks of %s: %w", documentID, err)
	}

	indexed := make([]string, 0, len(chunks))
	for _, c := range chunks {
		if err := s.vectors.Upsert(ctx, c.ID, c.Embedding); err != nil {
			s.rollback(ctx, documentID, indexed, prev)
			return fmt.Errorf("index vector for %s: %w", c.ID, err)
		}
		if err := s.keywords.Upsert(ctx, c.ID, c.Content); err != nil {
			s.rollback(ctx, documentID, append(indexed, c.ID), prev)
			return fmt.Errorf("index keywords for %s: %w", c.ID, err)
		}
		indexed = append(indexed, c.ID)
	}

	logger.Info("Ingested document %s (%d chunks)", documentID, len(chunks))
	return nil
}

// Delete removes a document and all derived index state. Deleting an
// unknown document succeeds without effect.
func (s *IngestService) Delete(ctx context.Context, documentID string) error {
	lock := s.lockDocument(documentID)
	defer lock.Unlock()

	return s.removeDocument(ctx, documentID)
}

// Rebuild repopulates both indexes from persisted chunks, restoring the
// exact pre-restart index state.
func (s *IngestService) Rebuild(ctx context.Context) error {
	docs, err := s.docStore.ListDocuments(ctx)
	if err != nil {
		return fmt.Errorf("list documents: %w", err)
	}

	total := 0
	for _, doc := range docs {
		chunks, err := s.docStore.GetChunks(ctx, doc.ID)
		if err != nil {
			return fmt.Errorf("load chunks of %s: %w", doc.ID, err)
		}
		for _, c := range chunks {
			if len(c.Embedding) == 0 {
				return fmt.Errorf("%w: chunk %s has no stored embedding",
					domain.ErrIndexInconsistent, c.ID)
			}
			if err := s.vectors.Upsert(ctx, c.ID, c.Embedding); err != nil {
				return fmt.Errorf("rebuild vector for %s: %w", c.ID, err)
			}
			if err := s.keywords.Upsert(ctx, c.ID, c.Content); err != nil {
				return fmt.Errorf("rebuild keywords for %s: %w", c.ID, err)
			}
		}
		total += len(chunks)
	}

	logger.Info("Rebuilt indexes: %d documents, %d chunks", len(docs), total)
	return nil
}

// Documents lists the ingested documents.
func (s *IngestService) Documents(ctx context.Context) ([]domain.Document, error) {
	return s.docStore.ListDocuments(ctx)
}

// lockDocument acquires the exclusive section for a document, blocking
// behind any in-flight operation on the same ID. Lock entries live for
// the lifetime of the service; the set of document IDs is small.
func (s *IngestService) lockDocument(documentID string) *sync.Mutex {
	s.mu.Lock()
	lock, ok := s.locks[documentID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[documentID] = lock
	}
	s.mu.Unlock()

	lock.Lock()
	return lock
}

// removeDocument deletes a document's chunks from both indexes and the
// store. Unknown documents are a no-op.
func (s *IngestService) removeDocument(ctx context.Context, documentID string) error {
	chunks, err := s.docStore.GetChunks(ctx, documentID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("load chunks of %s: %w", documentID, err)
	}
	for _, c := range chunks {
		if err := s.vectors.Remove(ctx, c.ID); err != nil {
			return fmt.Errorf("remove vector %s: %w", c.ID, err)
		}
		if err := s.keywords.Remove(ctx, c.ID); err != nil {
			return fmt.Errorf("remove keywords %s: %w", c.ID, err)
		}
	}
	if err := s.docStore.DeleteDocument(ctx, documentID); err != nil &&
		!errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("delete document %s: %w", documentID, err)
	}
	return nil
}

// rollback undoes a partial ingestion so the failed version leaves no
// trace, then restores the previous version when one existed. Errors
// during rollback are logged, not returned; the original failure is the
// one the caller needs.
func (s *IngestService) rollback(ctx context.Context, documentID string, indexed []string, prev *previousVersion) {
	for _, id := range indexed {
		if err := s.vectors.Remove(ctx, id); err != nil {
			logger.Warn("Rollback: remove vector %s: %v", id, err)
		}
		if err := s.keywords.Remove(ctx, id); err != nil {
			logger.Warn("Rollback: remove keywords %s: %v", id, err)
		}
	}
	if err := s.docStore.DeleteDocument(ctx, documentID); err != nil && !errors.Is(err, domain.ErrNotFound) {
		logger.Warn("Rollback: delete document %s: %v", documentID, err)
	}

	if prev == nil {
		return
	}
	if err := s.docStore.SaveDocument(ctx, prev.doc); err != nil {
		logger.Warn("Rollback: restore document %s: %v", documentID, err)
		return
	}
	if err := s.docStore.SaveChunks(ctx, prev.chunks); err != nil {
		logger.Warn("Rollback: restore chunks of %s: %v", documentID, err)
		return
	}
	for _, c := range prev.chunks {
		if err := s.vectors.Upsert(ctx, c.ID, c.Embedding); err != nil {
			logger.Warn("Rollback: restore vector %s: %v", c.ID, err)
		}
		if err := s.keywords.Upsert(ctx, c.ID, c.Content); err != nil {
			logger.Warn("Rollback: restore keywords %s: %v", c.ID, err)
		}
	}
	logger.Info("Restored previous version of document %s after failed re-ingestion", documentID)
}
