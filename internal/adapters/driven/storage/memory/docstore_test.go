package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
)

func TestDocumentStore_SaveAndGetDocument(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	doc := &domain.Document{ID: "doc1", Title: "Biology Notes", Text: "some text"}
	require.NoError(t, store.SaveDocument(ctx, doc))

	got, err := store.GetDocument(ctx, "doc1")
	require.NoError(t, err)
	assert.Equal(t, "Biology Notes", got.Title)
}

func TestDocumentStore_GetDocumentNotFound(t *testing.T) {
	store := NewDocumentStore()
	_, err := store.GetDocument(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_SaveChunksOrderedBySeq(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	require.NoError(t, store.SaveChunks(ctx, []domain.Chunk{
		{ID: "doc1_2", DocumentID: "doc1", Seq: 2, Content: "third"},
		{ID: "doc1_0", DocumentID: "doc1", Seq: 0, Content: "first"},
		{ID: "doc1_1", DocumentID: "doc1", Seq: 1, Content: "second"},
	}))

	chunks, err := store.GetChunks(ctx, "doc1")
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	assert.Equal(t, "first", chunks[0].Content)
	assert.Equal(t, "second", chunks[1].Content)
	assert.Equal(t, "third", chunks[2].Content)
}

func TestDocumentStore_SaveChunksReplacesPreviousSet(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	require.NoError(t, store.SaveChunks(ctx, []domain.Chunk{
		{ID: "doc1_0", DocumentID: "doc1", Seq: 0},
		{ID: "doc1_1", DocumentID: "doc1", Seq: 1},
	}))
	require.NoError(t, store.SaveChunks(ctx, []domain.Chunk{
		{ID: "doc1_0", DocumentID: "doc1", Seq: 0, Content: "replaced"},
	}))

	chunks, err := store.GetChunks(ctx, "doc1")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "replaced", chunks[0].Content)

	// The stale chunk ID no longer resolves.
	_, err = store.GetChunk(ctx, "doc1_1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_GetChunkByID(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	require.NoError(t, store.SaveChunks(ctx, []domain.Chunk{
		{ID: "doc1_0", DocumentID: "doc1", Seq: 0, Content: "hello"},
	}))

	chunk, err := store.GetChunk(ctx, "doc1_0")
	require.NoError(t, err)
	assert.Equal(t, "hello", chunk.Content)

	_, err = store.GetChunk(ctx, "doc1_9")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_DeleteDocumentCascades(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	require.NoError(t, store.SaveDocument(ctx, &domain.Document{ID: "doc1"}))
	require.NoError(t, store.SaveChunks(ctx, []domain.Chunk{
		{ID: "doc1_0", DocumentID: "doc1", Seq: 0},
	}))

	require.NoError(t, store.DeleteDocument(ctx, "doc1"))

	_, err := store.GetDocument(ctx, "doc1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = store.GetChunk(ctx, "doc1_0")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Deleting again is a no-op.
	assert.NoError(t, store.DeleteDocument(ctx, "doc1"))
}

func TestDocumentStore_ListDocumentsSorted(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	require.NoError(t, store.SaveDocument(ctx, &domain.Document{ID: "b"}))
	require.NoError(t, store.SaveDocument(ctx, &domain.Document{ID: "a"}))
	require.NoError(t, store.SaveDocument(ctx, &domain.Document{ID: "c"}))

	docs, err := store.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "a", docs[0].ID)
	assert.Equal(t, "b", docs[1].ID)
	assert.Equal(t, "c", docs[2].ID)
}
