package driving

import (
	"context"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
)

// Answer is a generated answer with its supporting retrieval results.
type Answer struct {
	// Text is the answer text.
	Text string

	// Sources are the retrieval results the answer was grounded on.
	Sources []domain.RetrievalResult
}

// ChatService answers questions over the indexed collection, keeping
// session-scoped conversation history.
type ChatService interface {
	// Ask retrieves context for the question, generates an answer, and
	// records the exchange under the session ID. Without an LLM the answer
	// text is empty and Sources still carries the retrieval results.
	Ask(ctx context.Context, sessionID, question string) (*Answer, error)

	// History returns the recorded exchanges for a session, oldest first.
	History(sessionID string) []domain.Exchange

	// ClearHistory drops a session's history.
	ClearHistory(sessionID string)
}

// QuizService generates quiz questions from indexed material.
type QuizService interface {
	// GenerateQuestion builds a quiz question about the given topic.
	// Topic may be empty, in which case a representative chunk is chosen.
	GenerateQuestion(ctx context.Context, topic string, qType domain.QuizType) (*domain.QuizQuestion, error)
}
