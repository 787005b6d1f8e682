package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driven"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driving"
)

var _ driving.QuizService = (*QuizService)(nil)

// QuizService generates quiz questions from indexed chunks. It requires an
// LLM; there is no rule-based fallback for question writing.
type QuizService struct {
	retrieval driving.RetrievalService
	docStore  driven.DocumentStore
	llm       driven.LLMService
}

// NewQuizService creates a quiz service.
func NewQuizService(
	retrieval driving.RetrievalService,
	docStore driven.DocumentStore,
	llm driven.LLMService,
) (*QuizService, error) {
	if llm == nil {
		return nil, fmt.Errorf("%w: quiz generation requires an LLM", domain.ErrLLMUnavailable)
	}
	if retrieval == nil || docStore == nil {
		return nil, fmt.Errorf("quiz service: retrieval service and document store are required")
	}
	return &QuizService{retrieval: retrieval, docStore: docStore, llm: llm}, nil
}

// GenerateQuestion builds a quiz question about the given topic. An empty
// topic picks the first chunk of the first ingested document.
func (s *QuizService) GenerateQuestion(
	ctx context.Context, topic string, qType domain.QuizType,
) (*domain.QuizQuestion, error) {
	if !qType.IsValid() {
		return nil, fmt.Errorf("%w: unknown quiz type %q", domain.ErrInvalidConfiguration, qType)
	}

	chunk, err := s.sourceChunk(ctx, topic)
	if err != nil {
		return nil, err
	}

	reply, err := s.llm.Generate(ctx, quizPrompt(chunk.Content, qType), driven.GenerateOptions{
		MaxTokens:   500,
		Temperature: 0.7,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrLLMUnavailable, err)
	}

	question, err := parseQuizReply(reply)
	if err != nil {
		return nil, err
	}
	question.Type = qType
	question.SourceChunkID = chunk.ID
	return question, nil
}

// sourceChunk selects the chunk to generate a question from.
func (s *QuizService) sourceChunk(ctx context.Context, topic string) (*domain.Chunk, error) {
	topic = strings.TrimSpace(topic)
	if topic != "" {
		results, err := s.retrieval.Retrieve(ctx, topic, domain.RetrievalOptions{K: 1})
		if err != nil {
			return nil, fmt.Errorf("retrieve topic material: %w", err)
		}
		if len(results) == 0 {
			return nil, fmt.Errorf("%w: no material found for topic %q", domain.ErrNotFound, topic)
		}
		return &results[0].Chunk, nil
	}

	docs, err := s.docStore.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	for _, doc := range docs {
		chunks, err := s.docStore.GetChunks(ctx, doc.ID)
		if err != nil {
			return nil, fmt.Errorf("load chunks of %s: %w", doc.ID, err)
		}
		if len(chunks) > 0 {
			return &chunks[0], nil
		}
	}
	return nil, fmt.Errorf("%w: no documents ingested", domain.ErrNotFound)
}

// quizPrompt builds the generation prompt for one question type.
func quizPrompt(material string, qType domain.QuizType) string {
	var b strings.Builder
	b.WriteString("Write one quiz question about the following study material.\n\n")
	b.WriteString("Material:\n")
	b.WriteString(material)
	b.WriteString("\n\nRespond with ONLY a JSON object, no prose, using these fields:\n")

	switch qType {
	case domain.QuizTypeMultipleChoice:
		b.WriteString(`{"question": "...", "options": {"A": "...", "B": "...", "C": "...", "D": "..."}, "answer": "A", "explanation": "..."}`)
	case domain.QuizTypeTrueFalse:
		b.WriteString(`{"question": "...", "answer": "True", "explanation": "..."}` +
			"\nThe answer field must be exactly \"True\" or \"False\".")
	case domain.QuizTypeShortAnswer:
		b.WriteString(`{"question": "...", "answer": "...", "explanation": "..."}`)
	}
	return b.String()
}

// parseQuizReply extracts the JSON question from an LLM reply, tolerating
// markdown code fences around it.
func parseQuizReply(reply string) (*domain.QuizQuestion, error) {
	cleaned := strings.TrimSpace(reply)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	// Some models wrap the object in commentary; cut to the outermost braces.
	if start := strings.Index(cleaned, "{"); start >= 0 {
		if end := strings.LastIndex(cleaned, "}"); end > start {
			cleaned = cleaned[start : end+1]
		}
	}

	var question domain.QuizQuestion
	if err := json.Unmarshal([]byte(cleaned), &question); err != nil {
		return nil, fmt.Errorf("parse quiz response: %w", err)
	}
	if question.Question == "" || question.Answer == "" {
		return nil, fmt.Errorf("parse quiz response: missing question or answer in %q", reply)
	}
	return &question, nil
}
