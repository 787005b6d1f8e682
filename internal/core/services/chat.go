package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driven"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driving"
	"github.com/custodia-labs/askdoc-cli/internal/logger"
)

var _ driving.ChatService = (*ChatService)(nil)

// chatContextK is how many chunks are retrieved to ground an answer.
const chatContextK = 5

const chatSystemPrompt = "You are a study assistant. Answer the question " +
	"using only the provided document excerpts. If the excerpts do not " +
	"contain the answer, say so instead of guessing. Be concise."

// ChatService answers questions grounded on retrieved chunks, with
// session-scoped conversation history. The LLM is optional: without one,
// answers are empty and only the retrieved sources are returned.
type ChatService struct {
	retrieval driving.RetrievalService
	llm       driven.LLMService
	history   *ConversationBuffer
}

// NewChatService creates a chat service. llm may be nil for a
// retrieval-only degraded mode.
func NewChatService(retrieval driving.RetrievalService, llm driven.LLMService) *ChatService {
	if retrieval == nil {
		panic("services.NewChatService: retrieval service is nil")
	}
	return &ChatService{
		retrieval: retrieval,
		llm:       llm,
		history:   NewConversationBuffer(0),
	}
}

// Ask retrieves context for the question, generates an answer, and records
// the exchange.
func (s *ChatService) Ask(ctx context.Context, sessionID, question string) (*driving.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: question is empty", domain.ErrInvalidConfiguration)
	}

	sources, err := s.retrieval.Retrieve(ctx, question, domain.RetrievalOptions{K: chatContextK})
	if err != nil {
		return nil, fmt.Errorf("retrieve context: %w", err)
	}

	answer := &driving.Answer{Sources: sources}
	if s.llm == nil {
		logger.Debug("No LLM configured, returning sources only")
	} else if len(sources) == 0 {
		answer.Text = "I could not find anything about that in your documents."
	} else {
		text, err := s.generate(ctx, sessionID, question, sources)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrLLMUnavailable, err)
		}
		answer.Text = text
	}

	s.history.Append(sessionID, domain.Exchange{
		Question:       question,
		Answer:         answer.Text,
		SourceChunkIDs: chunkIDs(sources),
		AskedAt:        time.Now().UTC(),
	})
	return answer, nil
}

// History returns the recorded exchanges for a session, oldest first.
func (s *ChatService) History(sessionID string) []domain.Exchange {
	return s.history.History(sessionID)
}

// ClearHistory drops a session's history.
func (s *ChatService) ClearHistory(sessionID string) {
	s.history.Clear(sessionID)
}

// generate builds a grounded chat turn from the retrieved excerpts and the
// session's prior exchanges.
func (s *ChatService) generate(
	ctx context.Context, sessionID, question string, sources []domain.RetrievalResult,
) (string, error) {
	var b strings.Builder
	b.WriteString(chatSystemPrompt)
	b.WriteString("\n\nDocument excerpts:\n")
	for i, src := range sources {
		fmt.Fprintf(&b, "\n[%d] %s\n", i+1, strings.TrimSpace(src.Chunk.Content))
	}

	messages := []driven.ChatMessage{{Role: "system", Content: b.String()}}
	for _, ex := range s.history.History(sessionID) {
		messages = append(messages,
			driven.ChatMessage{Role: "user", Content: ex.Question},
			driven.ChatMessage{Role: "assistant", Content: ex.Answer},
		)
	}
	messages = append(messages, driven.ChatMessage{Role: "user", Content: question})

	reply, err := s.llm.Chat(ctx, messages, driven.GenerateOptions{Temperature: 0.3})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(reply), nil
}

func chunkIDs(sources []domain.RetrievalResult) []string {
	ids := make([]string, len(sources))
	for i, src := range sources {
		ids[i] = src.Chunk.ID
	}
	return ids
}
