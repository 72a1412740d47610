package web

import (
	"sync"
	"time"
)

// Message is a user notification kept for polling clients.
type Message struct {
	Time  time.Time `json:"time"`
	Level string    `json:"level"`
	Text  string    `json:"text"`
	Seq   uint64    `json:"seq"`
}

// Messages is a bounded notification log. It implements the session's
// notifier so that messages raised while handling one request are visible
// to every client.
type Messages struct {
	buf   []Message
	next  uint64
	limit int
	mu    sync.Mutex
}

// DefaultMessages is the number of messages kept when none is given.
const DefaultMessages = 100

// NewMessages returns a log keeping the newest limit messages.
func NewMessages(limit int) *Messages {
	if limit <= 0 {
		limit = DefaultMessages
	}

	return &Messages{limit: limit, next: 1}
}

func (m *Messages) add(level, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.buf = append(m.buf, Message{Time: time.Now(), Level: level, Text: text, Seq: m.next})
	m.next++

	if over := len(m.buf) - m.limit; over > 0 {
		m.buf = append(m.buf[:0:0], m.buf[over:]...)
	}
}

func (m *Messages) Info(text string)  { m.add("info", text) }
func (m *Messages) Warn(text string)  { m.add("warn", text) }
func (m *Messages) Error(text string) { m.add("error", text) }

// Since returns the kept messages with a sequence number greater than seq.
func (m *Messages) Since(seq uint64) []Message {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []Message{}

	for _, msg := range m.buf {
		if msg.Seq > seq {
			out = append(out, msg)
		}
	}

	return out
}
