package notify

import (
	"context"
	"sync"
	"time"
)

// Queue accepts notification descriptors for asynchronous delivery.
// Workflows enqueue and return immediately; delivery happens elsewhere.
type Queue interface {
	Enqueue(ctx context.Context, msg Message) error
}

// MemoryQueue is an in-process queue used in tests and when Redis is
// unavailable.
type MemoryQueue struct {
	mu       sync.Mutex
	messages []Message
}

// NewMemoryQueue creates an empty in-memory queue.
func NewMemoryQueue() *MemoryQueue {
	return &MemoryQueue{}
}

// Enqueue appends the message.
func (q *MemoryQueue) Enqueue(ctx context.Context, msg Message) error {
	if msg.EnqueuedAt.IsZero() {
		msg.EnqueuedAt = time.Now()
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.messages = append(q.messages, msg)
	return nil
}

// Messages returns a copy of everything enqueued so far.
func (q *MemoryQueue) Messages() []Message {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Message, len(q.messages))
	copy(out, q.messages)
	return out
}

// Len reports the number of enqueued messages.
func (q *MemoryQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.messages)
}
