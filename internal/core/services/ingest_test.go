package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	indexmem "github.com/custodia-labs/askdoc-cli/internal/adapters/driven/index/memory"
	storemem "github.com/custodia-labs/askdoc-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
)

// fakeEmbedder produces deterministic 3-dimensional vectors. Specific texts
// can be pinned to specific vectors; everything else gets a default.
type fakeEmbedder struct {
	vecs     map[string][]float32
	err      error
	delay    time.Duration
	batches  int
	embedded int
}

func newFakeEmbedder() *fakeEmbedder {
	return &fakeEmbedder{vecs: map[string][]float32{}}
}

func (f *fakeEmbedder) vectorFor(text string) []float32 {
	if v, ok := f.vecs[text]; ok {
		return v
	}
	return []float32{1, 0, 0}
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	f.embedded++
	return f.vectorFor(text), nil
}

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	f.batches++
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := f.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (f *fakeEmbedder) Dimensions() int              { return 3 }
func (f *fakeEmbedder) ModelName() string            { return "fake-embed" }
func (f *fakeEmbedder) Ping(_ context.Context) error { return nil }
func (f *fakeEmbedder) Close() error                 { return nil }

type ingestFixture struct {
	svc      *IngestService
	embedder *fakeEmbedder
	vectors  *indexmem.VectorIndex
	keywords *indexmem.KeywordIndex
	store    *storemem.DocumentStore
}

func newIngestFixture(t *testing.T, cfg domain.ChunkingSettings) *ingestFixture {
	t.Helper()
	f := &ingestFixture{
		embedder: newFakeEmbedder(),
		vectors:  indexmem.NewVectorIndex(3),
		keywords: indexmem.NewKeywordIndex(),
		store:    storemem.NewDocumentStore(),
	}
	svc, err := NewIngestService(cfg, f.embedder, f.vectors, f.keywords, f.store)
	require.NoError(t, err)
	f.svc = svc
	return f
}

func defaultChunking() domain.ChunkingSettings {
	return domain.ChunkingSettings{MaxLen: 1000, Overlap: 200, Tolerance: 100}
}

func TestIngest_IndexesAllChunks(t *testing.T) {
	f := newIngestFixture(t, domain.ChunkingSettings{MaxLen: 30, Overlap: 5})
	ctx := context.Background()

	text := "The cat sat on the mat. The dog barked at the moon all night."
	require.NoError(t, f.svc.Ingest(ctx, "notes", "Pet Notes", text, nil))

	chunks, err := f.store.GetChunks(ctx, "notes")
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	assert.Equal(t, len(chunks), f.vectors.Len())
	assert.Equal(t, len(chunks), f.keywords.DocCount())

	doc, err := f.store.GetDocument(ctx, "notes")
	require.NoError(t, err)
	assert.Equal(t, "Pet Notes", doc.Title)

	// Every stored chunk carries its embedding for later reconstruction.
	for _, c := range chunks {
		assert.Len(t, c.Embedding, 3)
	}
}

func TestIngest_EmbeddingFailureLeavesNoTrace(t *testing.T) {
	f := newIngestFixture(t, defaultChunking())
	ctx := context.Background()

	f.embedder.err = errors.New("model not loaded")
	err := f.svc.Ingest(ctx, "doc", "Title", "some content to index", nil)
	require.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)

	assert.Zero(t, f.vectors.Len())
	assert.Zero(t, f.keywords.DocCount())
	_, err = f.store.GetDocument(ctx, "doc")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIngest_ReingestReplacesPreviousChunks(t *testing.T) {
	f := newIngestFixture(t, domain.ChunkingSettings{MaxLen: 30, Overlap: 5})
	ctx := context.Background()

	long := "First sentence here. Second sentence here. Third sentence here."
	require.NoError(t, f.svc.Ingest(ctx, "doc", "v1", long, nil))
	firstCount := f.vectors.Len()
	require.Greater(t, firstCount, 1)

	require.NoError(t, f.svc.Ingest(ctx, "doc", "v2", "Tiny now.", nil))

	chunks, err := f.store.GetChunks(ctx, "doc")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, 1, f.vectors.Len())
	assert.Equal(t, 1, f.keywords.DocCount())

	doc, err := f.store.GetDocument(ctx, "doc")
	require.NoError(t, err)
	assert.Equal(t, "v2", doc.Title)
}

// failingDocStore wraps the in-memory store and fails configured
// operations, simulating storage faults mid-ingestion.
type failingDocStore struct {
	*storemem.DocumentStore
	saveChunksErr error
}

func (s *failingDocStore) SaveChunks(ctx context.Context, chunks []domain.Chunk) error {
	if s.saveChunksErr != nil {
		return s.saveChunksErr
	}
	return s.DocumentStore.SaveChunks(ctx, chunks)
}

func TestIngest_FailedReingestRestoresPreviousVersion(t *testing.T) {
	store := &failingDocStore{DocumentStore: storemem.NewDocumentStore()}
	vectors := indexmem.NewVectorIndex(3)
	keywords := indexmem.NewKeywordIndex()
	svc, err := NewIngestService(domain.ChunkingSettings{MaxLen: 30, Overlap: 5},
		newFakeEmbedder(), vectors, keywords, store)
	require.NoError(t, err)
	ctx := context.Background()

	long := "First sentence here. Second sentence here. Third sentence here."
	require.NoError(t, svc.Ingest(ctx, "doc", "v1", long, nil))
	wantChunks, err := store.GetChunks(ctx, "doc")
	require.NoError(t, err)
	require.NotEmpty(t, wantChunks)

	store.saveChunksErr = errors.New("disk full")
	err = svc.Ingest(ctx, "doc", "v2", "Replacement text.", nil)
	require.Error(t, err)
	store.saveChunksErr = nil

	// The previous version survives the failed replacement, in the store
	// and in both indexes.
	doc, err := store.GetDocument(ctx, "doc")
	require.NoError(t, err)
	assert.Equal(t, "v1", doc.Title)

	chunks, err := store.GetChunks(ctx, "doc")
	require.NoError(t, err)
	assert.Equal(t, wantChunks, chunks)
	assert.Equal(t, len(wantChunks), vectors.Len())
	assert.Equal(t, len(wantChunks), keywords.DocCount())
}

func TestIngest_RejectsInvalidDocumentID(t *testing.T) {
	f := newIngestFixture(t, defaultChunking())
	ctx := context.Background()

	err := f.svc.Ingest(ctx, "", "t", "text", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)

	err = f.svc.Ingest(ctx, "has_underscore", "t", "text", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
}

func TestIngest_RejectsInvalidChunking(t *testing.T) {
	f := newIngestFixture(t, domain.ChunkingSettings{MaxLen: 10, Overlap: 10})
	err := f.svc.Ingest(context.Background(), "doc", "t", "text that is long enough", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
}

func TestIngest_ConcurrentSameDocumentSerializes(t *testing.T) {
	f := newIngestFixture(t, defaultChunking())
	ctx := context.Background()

	lock := f.svc.lockDocument("doc")

	done := make(chan error, 1)
	go func() {
		done <- f.svc.Ingest(ctx, "doc", "t", "text", nil)
	}()

	select {
	case <-done:
		t.Fatal("ingestion must wait for the in-flight operation on the same document")
	case <-time.After(50 * time.Millisecond):
	}

	// Other documents are unaffected while the lock is held.
	require.NoError(t, f.svc.Ingest(ctx, "other", "t", "text", nil))

	lock.Unlock()
	require.NoError(t, <-done)

	doc, err := f.store.GetDocument(ctx, "doc")
	require.NoError(t, err)
	assert.Equal(t, "t", doc.Title)
}

func TestDelete_CascadesAndIsIdempotent(t *testing.T) {
	f := newIngestFixture(t, domain.ChunkingSettings{MaxLen: 30, Overlap: 5})
	ctx := context.Background()

	require.NoError(t, f.svc.Ingest(ctx, "keep", "Keep", "unrelated content stays put", nil))
	require.NoError(t, f.svc.Ingest(ctx, "gone", "Gone", "this document will be removed shortly", nil))
	keepVectors := f.vectors.Len()
	require.Greater(t, keepVectors, 0)

	require.NoError(t, f.svc.Delete(ctx, "gone"))

	_, err := f.store.GetDocument(ctx, "gone")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	keepChunks, err := f.store.GetChunks(ctx, "keep")
	require.NoError(t, err)
	assert.Equal(t, len(keepChunks), f.vectors.Len())
	assert.Equal(t, len(keepChunks), f.keywords.DocCount())

	// Deleting an unknown document succeeds without effect.
	assert.NoError(t, f.svc.Delete(ctx, "gone"))
	assert.NoError(t, f.svc.Delete(ctx, "never-existed"))
}

func TestRebuild_RestoresIndexesFromStore(t *testing.T) {
	f := newIngestFixture(t, domain.ChunkingSettings{MaxLen: 30, Overlap: 5})
	ctx := context.Background()

	require.NoError(t, f.svc.Ingest(ctx, "doc", "Title",
		"Photosynthesis converts light. Respiration releases energy.", nil))
	wantVectors := f.vectors.Len()
	wantDocs := f.keywords.DocCount()

	// Fresh indexes, same store: simulates a restart.
	freshVectors := indexmem.NewVectorIndex(3)
	freshKeywords := indexmem.NewKeywordIndex()
	svc, err := NewIngestService(defaultChunking(), f.embedder, freshVectors, freshKeywords, f.store)
	require.NoError(t, err)

	require.NoError(t, svc.Rebuild(ctx))
	assert.Equal(t, wantVectors, freshVectors.Len())
	assert.Equal(t, wantDocs, freshKeywords.DocCount())
}

func TestRebuild_MissingEmbeddingIsInconsistent(t *testing.T) {
	f := newIngestFixture(t, defaultChunking())
	ctx := context.Background()

	require.NoError(t, f.store.SaveDocument(ctx, &domain.Document{ID: "doc"}))
	require.NoError(t, f.store.SaveChunks(ctx, []domain.Chunk{
		{ID: "doc_0", DocumentID: "doc", Seq: 0, Content: "no embedding stored"},
	}))

	err := f.svc.Rebuild(ctx)
	assert.ErrorIs(t, err, domain.ErrIndexInconsistent)
}

func TestIngest_EmptyTextStoresDocumentWithoutChunks(t *testing.T) {
	f := newIngestFixture(t, defaultChunking())
	ctx := context.Background()

	require.NoError(t, f.svc.Ingest(ctx, "empty", "Empty Doc", "", nil))

	doc, err := f.store.GetDocument(ctx, "empty")
	require.NoError(t, err)
	assert.Equal(t, "Empty Doc", doc.Title)
	assert.Zero(t, f.vectors.Len())
	assert.Zero(t, f.keywords.DocCount())
}

func TestIngest_WithoutEmbedderFails(t *testing.T) {
	ctx := context.Background()
	svc, err := NewIngestService(defaultChunking(), nil,
		indexmem.NewVectorIndex(3), indexmem.NewKeywordIndex(), storemem.NewDocumentStore())
	require.NoError(t, err)

	err = svc.Ingest(ctx, "doc", "Title", "some text", nil)
	require.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)

	// Maintenance operations never embed, so they still work.
	assert.NoError(t, svc.Delete(ctx, "doc"))
	assert.NoError(t, svc.Rebuild(ctx))
}
