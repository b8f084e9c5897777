package pubsub

import (
	"bytes"
	"context"
	"sync"
)

// MemoryBroker fans events out inside one process.
type MemoryBroker struct {
	mu     sync.RWMutex
	subs   map[Topic]map[*queue]struct{}
	buffer int
	closed bool
}

// NewMemoryBroker returns a broker whose subscribers each buffer up to
// buffer messages.
func NewMemoryBroker(buffer int) *MemoryBroker {
	return &MemoryBroker{
		subs:   make(map[Topic]map[*queue]struct{}),
		buffer: buffer,
	}
}

func (b *MemoryBroker) Publish(ctx context.Context, topic Topic, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := bytes.Clone(payload)

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrClosed
	}
	for q := range b.subs[topic] {
		q.push(msg)
	}
	return nil
}

func (b *MemoryBroker) Subscribe(ctx context.Context, topic Topic) (<-chan []byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, ErrClosed
	}

	q := newQueue(b.buffer)
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[*queue]struct{})
	}
	b.subs[topic][q] = struct{}{}

	context.AfterFunc(ctx, func() {
		b.mu.Lock()
		delete(b.subs[topic], q)
		b.mu.Unlock()
		q.close()
	})
	return q.ch, nil
}

// Subscribers returns the number of live subscriptions on topic.
func (b *MemoryBroker) Subscribers(topic Topic) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[topic])
}

func (b *MemoryBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	for _, qs := range b.subs {
		for q := range qs {
			q.close()
		}
	}
	b.subs = make(map[Topic]map[*queue]struct{})
	return nil
}
