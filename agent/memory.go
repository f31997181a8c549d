package agent

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Message is one turn of the conversation history.
type Message struct {
	Role    string    `json:"role"`
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}

// ConversationMemory accumulates the dialogue history of one session. It is
// safe for concurrent use.
type ConversationMemory struct {
	mu        sync.Mutex
	sessionID string
	messages  []Message
}

// NewConversationMemory creates an empty memory with a fresh session id.
func NewConversationMemory() *ConversationMemory {
	return &ConversationMemory{sessionID: uuid.New().String()}
}

// SessionID returns the id of the current session. Reset rotates it.
func (m *ConversationMemory) SessionID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessionID
}

// Add appends one message to the history.
func (m *ConversationMemory) Add(role, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, Message{Role: role, Content: content, At: time.Now()})
}

// History returns a copy of the accumulated messages in order.
func (m *ConversationMemory) History() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.messages)
}

// Reset clears the history and starts a new session.
func (m *ConversationMemory) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = nil
	m.sessionID = uuid.New().String()
}
