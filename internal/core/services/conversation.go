package services

import (
	"sync"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
)

// defaultHistoryLimit bounds how many exchanges a session retains. Older
// exchanges are evicted first.
const defaultHistoryLimit = 20

// ConversationBuffer keeps bounded per-session exchange history in memory.
// Sessions are independent; concurrent access is safe.
type ConversationBuffer struct {
	mu       sync.RWMutex
	limit    int
	sessions map[string][]domain.Exchange
}

// NewConversationBuffer creates a buffer keeping up to limit exchanges per
// session. A non-positive limit uses the default.
func NewConversationBuffer(limit int) *ConversationBuffer {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	return &ConversationBuffer{
		limit:    limit,
		sessions: make(map[string][]domain.Exchange),
	}
}

// Append records an exchange for a session, evicting the oldest entry when
// the session is at its limit.
func (b *ConversationBuffer) Append(sessionID string, ex domain.Exchange) {
	b.mu.Lock()
	defer b.mu.Unlock()
	history := append(b.sessions[sessionID], ex)
	if len(history) > b.limit {
		history = history[len(history)-b.limit:]
	}
	b.sessions[sessionID] = history
}

// History returns a session's exchanges, oldest first.
func (b *ConversationBuffer) History(sessionID string) []domain.Exchange {
	b.mu.RLock()
	defer b.mu.RUnlock()
	history := b.sessions[sessionID]
	out := make([]domain.Exchange, len(history))
	copy(out, history)
	return out
}

// Clear drops a session's history.
func (b *ConversationBuffer) Clear(sessionID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.sessions, sessionID)
}
