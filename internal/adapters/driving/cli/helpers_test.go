package cli

import (
	"context"
	"time"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driven"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driving"
)

// setupTestServices replaces the wired services with mocks and marks the
// app initialised so PersistentPreRunE skips real wiring. The returned
// cleanup restores the previous state.
func setupTestServices() func() {
	oldInitialized := initialized
	oldRetrieval := retrievalService
	oldIngest := ingestService
	oldChat := chatService
	oldQuiz := quizService
	oldDocStore := documentStore
	oldEmbeddingErr := embeddingErr

	initialized = true
	embeddingErr = nil
	retrievalService = newMockRetrievalService()
	ingestService = newMockIngestService()
	chatService = &mockChatService{}
	quizService = &mockQuizService{}
	documentStore = newMockDocumentStore()

	return func() {
		initialized = oldInitialized
		retrievalService = oldRetrieval
		ingestService = oldIngest
		chatService = oldChat
		quizService = oldQuiz
		documentStore = oldDocStore
		embeddingErr = oldEmbeddingErr
	}
}

// mockRetrievalService returns canned results.
type mockRetrievalService struct {
	results  []domain.RetrievalResult
	analysis domain.QueryAnalysis
	gotQuery string
	gotOpts  domain.RetrievalOptions
	err      error
}

var _ driving.RetrievalService = (*mockRetrievalService)(nil)

func newMockRetrievalService() *mockRetrievalService {
	return &mockRetrievalService{
		results: []domain.RetrievalResult{
			{
				Chunk: domain.Chunk{
					ID:         "bio_0",
					DocumentID: "bio",
					Content:    "Mitosis begins with prophase.",
					Page:       3,
				},
				Score:       0.91,
				DenseScore:  0.88,
				SparseScore: 0.95,
			},
		},
		analysis: domain.QueryAnalysis{Class: domain.QueryClassMixed, Alpha: 0.5},
	}
}

func (m *mockRetrievalService) Retrieve(_ context.Context, query string, opts domain.RetrievalOptions) ([]domain.RetrievalResult, error) {
	m.gotQuery = query
	m.gotOpts = opts
	if m.err != nil {
		return nil, m.err
	}
	return m.results, nil
}

func (m *mockRetrievalService) Analyze(context.Context, string) domain.QueryAnalysis {
	return m.analysis
}

// mockIngestService records ingests and deletes.
type mockIngestService struct {
	documents []domain.Document
	ingested  map[string]string
	deleted   []string
	err       error
}

var _ driving.IngestService = (*mockIngestService)(nil)

func newMockIngestService() *mockIngestService {
	return &mockIngestService{
		documents: []domain.Document{
			{ID: "bio", Title: "Biology Notes", PageCount: 12},
		},
		ingested: make(map[string]string),
	}
}

func (m *mockIngestService) Ingest(_ context.Context, documentID, _, text string, _ domain.PageMap) error {
	if m.err != nil {
		return m.err
	}
	m.ingested[documentID] = text
	return nil
}

func (m *mockIngestService) Delete(_ context.Context, documentID string) error {
	if m.err != nil {
		return m.err
	}
	m.deleted = append(m.deleted, documentID)
	return nil
}

func (m *mockIngestService) Rebuild(context.Context) error { return m.err }

func (m *mockIngestService) Documents(context.Context) ([]domain.Document, error) {
	return m.documents, m.err
}

// mockChatService answers every question the same way.
type mockChatService struct {
	answer *driving.Answer
	err    error
}

var _ driving.ChatService = (*mockChatService)(nil)

func (m *mockChatService) Ask(context.Context, string, string) (*driving.Answer, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.answer != nil {
		return m.answer, nil
	}
	return &driving.Answer{
		Text: "Mitosis begins with prophase.",
		Sources: []domain.RetrievalResult{
			{Chunk: domain.Chunk{ID: "bio_0"}, Score: 0.91},
		},
	}, nil
}

func (m *mockChatService) History(string) []domain.Exchange { return nil }
func (m *mockChatService) ClearHistory(string)              {}

// mockQuizService returns a fixed question.
type mockQuizService struct {
	err error
}

var _ driving.QuizService = (*mockQuizService)(nil)

func (m *mockQuizService) GenerateQuestion(_ context.Context, _ string, qType domain.QuizType) (*domain.QuizQuestion, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &domain.QuizQuestion{
		Question:    "Which phase of mitosis comes first?",
		Options:     map[string]string{"A": "Prophase", "B": "Metaphase"},
		Answer:      "A",
		Explanation: "Prophase is the first phase.",
		Type:        qType,
	}, nil
}

// mockDocumentStore serves a single in-memory document.
type mockDocumentStore struct {
	docs   map[string]*domain.Document
	chunks map[string][]domain.Chunk
}

var _ driven.DocumentStore = (*mockDocumentStore)(nil)

func newMockDocumentStore() *mockDocumentStore {
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	return &mockDocumentStore{
		docs: map[string]*domain.Document{
			"bio": {
				ID:        "bio",
				Title:     "Biology Notes",
				Text:      "Mitosis begins with prophase.",
				PageCount: 12,
				CreatedAt: created,
				UpdatedAt: created,
			},
		},
		chunks: map[string][]domain.Chunk{
			"bio": {{ID: "bio_0", DocumentID: "bio", Content: "Mitosis begins with prophase."}},
		},
	}
}

func (m *mockDocumentStore) SaveDocument(_ context.Context, doc *domain.Document) error {
	m.docs[doc.ID] = doc
	return nil
}

func (m *mockDocumentStore) SaveChunks(_ context.Context, chunks []domain.Chunk) error {
	if len(chunks) > 0 {
		m.chunks[chunks[0].DocumentID] = chunks
	}
	return nil
}

func (m *mockDocumentStore) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	doc, ok := m.docs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return doc, nil
}

func (m *mockDocumentStore) GetChunks(_ context.Context, documentID string) ([]domain.Chunk, error) {
	return m.chunks[documentID], nil
}

func (m *mockDocumentStore) GetChunk(_ context.Context, id string) (*domain.Chunk, error) {
	for _, chunks := range m.chunks {
		for i := range chunks {
			if chunks[i].ID == id {
				return &chunks[i], nil
			}
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockDocumentStore) DeleteDocument(_ context.Context, id string) error {
	delete(m.docs, id)
	delete(m.chunks, id)
	return nil
}

func (m *mockDocumentStore) ListDocuments(context.Context) ([]domain.Document, error) {
	docs := make([]domain.Document, 0, len(m.docs))
	for _, doc := range m.docs {
		docs = append(docs, *doc)
	}
	return docs, nil
}
