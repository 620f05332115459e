package service

import (
	"sync"

	"github.com/blogchat/backend/internal/chat/domain"
)

// MessageLog is the process-wide chat history: a bounded, mutex-guarded
// ring constructed at startup and injected into the chat service, never
// reached through package-level state. Oldest entries fall off once
// capacity is hit.
type MessageLog struct {
	mu       sync.RWMutex
	messages []domain.Message
	capacity int
}

func NewMessageLog(capacity int) *MessageLog {
	if capacity <= 0 {
		capacity = 1
	}
	return &MessageLog{
		messages: make([]domain.Message, 0, capacity),
		capacity: capacity,
	}
}

func (l *MessageLog) Append(msg domain.Message) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.messages) == l.capacity {
		copy(l.messages, l.messages[1:])
		l.messages[len(l.messages)-1] = msg
		return
	}
	l.messages = append(l.messages, msg)
}

// List returns a snapshot in insertion order.
func (l *MessageLog) List() []domain.Message {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]domain.Message, len(l.messages))
	copy(out, l.messages)
	return out
}

func (l *MessageLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.messages)
}
