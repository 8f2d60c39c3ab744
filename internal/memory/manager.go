package memory

import (
	"sync"
	"time"
)

// Message is one chat turn held in the short-term window
type Message struct {
	Role      string    `json:"role"` // "user" or "assistant"
	Content   string    `json:"content"`
	Language  string    `json:"language"`
	Timestamp time.Time `json:"timestamp"`
}

// Manager keeps a capped rolling message window per conversation.
// Long-term history lives in the database; this is just the context
// handed to the provider on each turn.
type Manager struct {
	mu         sync.RWMutex
	windowSize int
	windows    map[string][]Message
}

// NewManager creates a manager keeping the last windowSize messages
// per conversation
func NewManager(windowSize int) *Manager {
	return &Manager{
		windowSize: windowSize,
		windows:    make(map[string][]Message),
	}
}

// Append adds a message to a conversation's window, evicting the
// oldest entries beyond the cap
func (m *Manager) Append(conversationID string, msg Message) {
	m.mu.Lock()
	defer m.mu.Unlock()

	window := append(m.windows[conversationID], msg)
	if len(window) > m.windowSize {
		window = window[len(window)-m.windowSize:]
	}
	m.windows[conversationID] = window
}

// History returns a copy of the conversation's window in
// chronological order
func (m *Manager) History(conversationID string) []Message {
	m.mu.RLock()
	defer m.mu.RUnlock()

	window, ok := m.windows[conversationID]
	if !ok {
		return []Message{}
	}

	history := make([]Message, len(window))
	copy(history, window)
	return history
}

// Has reports whether a window exists for the conversation. Callers
// hydrate from the database when it does not.
func (m *Manager) Has(conversationID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.windows[conversationID]
	return ok
}

// Hydrate replaces a conversation's window with messages loaded from
// the database, keeping only the newest windowSize entries
func (m *Manager) Hydrate(conversationID string, messages []Message) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(messages) > m.windowSize {
		messages = messages[len(messages)-m.windowSize:]
	}

	window := make([]Message, len(messages))
	copy(window, messages)
	m.windows[conversationID] = window
}

// Drop discards a conversation's window
func (m *Manager) Drop(conversationID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.windows, conversationID)
}
