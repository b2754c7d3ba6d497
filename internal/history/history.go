// Package history keeps the ordered, append-only log of question/answer
// pairs for the current session.
package history

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spacebot-ai/spacebot/pkg/models"
)

// NoHistory is returned by Transcript when nothing has been recorded yet.
const NoHistory = "No conversation history yet."

// Log is an in-memory conversation history. Messages are appended in strict
// user/assistant alternation and only ever removed in bulk via Clear.
type Log struct {
	mu       sync.RWMutex
	messages []models.Message
}

// New creates an empty conversation log.
func New() *Log {
	return &Log{}
}

// Append adds a message to the end of the log.
func (l *Log) Append(role models.Role, content string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, models.Message{
		Role:    role,
		Content: content,
		Index:   len(l.messages),
	})
}

// Messages returns a copy of the log in append order.
func (l *Log) Messages() []models.Message {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]models.Message, len(l.messages))
	copy(out, l.messages)
	return out
}

// Len returns the number of recorded messages.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.messages)
}

// Clear removes all messages.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = nil
}

// Transcript renders the history as numbered Q/A pairs. Relies on the
// alternation invariant the pipeline maintains: one user message immediately
// followed by one assistant message per answered question.
func (l *Log) Transcript() string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if len(l.messages) == 0 {
		return NoHistory
	}

	var b strings.Builder
	b.WriteString("Chat History\n")
	b.WriteString(strings.Repeat("-", 40))
	b.WriteString("\n\n")
	for i := 0; i+1 < len(l.messages); i += 2 {
		n := i/2 + 1
		fmt.Fprintf(&b, "Q%d: %s\n", n, l.messages[i].Content)
		fmt.Fprintf(&b, "A%d: %s\n\n", n, l.messages[i+1].Content)
	}
	return b.String()
}
