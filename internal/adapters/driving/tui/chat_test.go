package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driving"
)

// mockChatService returns a canned answer and records calls.
type mockChatService struct {
	answer    *driving.Answer
	err       error
	questions []string
	cleared   []string
}

var _ driving.ChatService = (*mockChatService)(nil)

func (m *mockChatService) Ask(_ context.Context, _, question string) (*driving.Answer, error) {
	m.questions = append(m.questions, question)
	if m.err != nil {
		return nil, m.err
	}
	return m.answer, nil
}

func (m *mockChatService) History(string) []domain.Exchange { return nil }

func (m *mockChatService) ClearHistory(sessionID string) {
	m.cleared = append(m.cleared, sessionID)
}

func sized(c *Chat) *Chat {
	model, _ := c.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return model.(*Chat)
}

func typeString(c *Chat, s string) *Chat {
	model, _ := c.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return model.(*Chat)
}

func pressEnter(c *Chat) (*Chat, tea.Cmd) {
	model, cmd := c.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return model.(*Chat), cmd
}

func TestChat_QuitKeys(t *testing.T) {
	for _, key := range []tea.KeyType{tea.KeyCtrlC, tea.KeyEsc} {
		c := NewChat(&mockChatService{}, "s1")
		_, cmd := c.Update(tea.KeyMsg{Type: key})
		require.NotNil(t, cmd)
		assert.Equal(t, tea.Quit(), cmd())
	}
}

func TestChat_EnterSendsQuestion(t *testing.T) {
	svc := &mockChatService{answer: &driving.Answer{Text: "Prophase comes first."}}
	c := sized(NewChat(svc, "s1"))
	c = typeString(c, "what comes first in mitosis?")

	c, cmd := pressEnter(c)
	require.NotNil(t, cmd)
	assert.True(t, c.waiting)
	require.Len(t, c.transcript, 1)
	assert.Equal(t, "what comes first in mitosis?", c.transcript[0].question)
	assert.Empty(t, c.input.Value())
}

func TestChat_EmptyInputIgnored(t *testing.T) {
	c := sized(NewChat(&mockChatService{}, "s1"))

	c, cmd := pressEnter(c)
	assert.Nil(t, cmd)
	assert.False(t, c.waiting)
	assert.Empty(t, c.transcript)
}

func TestChat_EnterWhileWaitingIgnored(t *testing.T) {
	svc := &mockChatService{answer: &driving.Answer{Text: "ok"}}
	c := sized(NewChat(svc, "s1"))
	c = typeString(c, "first")
	c, _ = pressEnter(c)

	c = typeString(c, "second")
	c, cmd := pressEnter(c)
	assert.Nil(t, cmd)
	assert.Len(t, c.transcript, 1)
}

func TestChat_AskCommandCallsService(t *testing.T) {
	svc := &mockChatService{answer: &driving.Answer{Text: "answer"}}
	c := NewChat(svc, "s1")

	msg := c.ask("a question")()
	received, ok := msg.(answerReceived)
	require.True(t, ok)
	assert.Equal(t, "answer", received.answer.Text)
	assert.Equal(t, []string{"a question"}, svc.questions)
}

func TestChat_AnswerReceivedFillsTranscript(t *testing.T) {
	svc := &mockChatService{}
	c := sized(NewChat(svc, "s1"))
	c = typeString(c, "q")
	c, _ = pressEnter(c)

	answer := &driving.Answer{
		Text: "The answer.",
		Sources: []domain.RetrievalResult{
			{Chunk: domain.Chunk{ID: "bio_0"}, Score: 0.91},
		},
	}
	model, _ := c.Update(answerReceived{answer: answer})
	c = model.(*Chat)

	assert.False(t, c.waiting)
	require.NotNil(t, c.transcript[0].answer)
	assert.Equal(t, "The answer.", c.transcript[0].answer.Text)

	view := c.View()
	assert.Contains(t, view, "The answer.")
	assert.Contains(t, view, "bio_0")
}

func TestChat_AskFailureShownInTranscript(t *testing.T) {
	svc := &mockChatService{err: errors.New("llm unreachable")}
	c := sized(NewChat(svc, "s1"))
	c = typeString(c, "q")
	c, _ = pressEnter(c)

	msg := c.ask("q")()
	failed, ok := msg.(askFailed)
	require.True(t, ok)

	model, _ := c.Update(failed)
	c = model.(*Chat)
	assert.False(t, c.waiting)
	assert.Contains(t, c.View(), "llm unreachable")
}

func TestChat_SourcesOnlyAnswer(t *testing.T) {
	svc := &mockChatService{}
	c := sized(NewChat(svc, "s1"))
	c = typeString(c, "q")
	c, _ = pressEnter(c)

	answer := &driving.Answer{
		Sources: []domain.RetrievalResult{
			{Chunk: domain.Chunk{ID: "notes_2"}, Score: 0.5},
		},
	}
	model, _ := c.Update(answerReceived{answer: answer})
	c = model.(*Chat)

	view := c.View()
	assert.Contains(t, view, "sources only")
	assert.Contains(t, view, "notes_2")
}

func TestChat_ClearHistory(t *testing.T) {
	svc := &mockChatService{answer: &driving.Answer{Text: "ok"}}
	c := sized(NewChat(svc, "s1"))
	c = typeString(c, "q")
	c, _ = pressEnter(c)

	model, _ := c.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	c = model.(*Chat)

	assert.Empty(t, c.transcript)
	assert.Equal(t, []string{"s1"}, svc.cleared)
}

func TestChat_WithContext(t *testing.T) {
	type ctxKey struct{}
	ctx := context.WithValue(context.Background(), ctxKey{}, "v")

	c := NewChat(&mockChatService{}, "s1")
	c.WithContext(ctx)
	assert.Equal(t, ctx, c.ctx)

	c.WithContext(nil) //nolint:staticcheck // SA1012: nil must be a no-op
	assert.Equal(t, ctx, c.ctx)
}
