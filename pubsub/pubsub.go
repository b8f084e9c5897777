// Package pubsub delivers order lifecycle events to live subscribers.
//
// Delivery is at-most-once and best effort. Each subscriber owns a bounded
// queue; when it is full the oldest pending message is dropped so a slow
// reader never blocks a publisher. Nothing is persisted or replayed.
package pubsub

import (
	"context"
	"errors"
	"sync"
)

// Topic is an event stream name.
type Topic string

const (
	TopicNewPendingOrder    Topic = "NewPendingOrder"
	TopicNewCookedOrder     Topic = "NewCookedOrder"
	TopicOrderStatusChanged Topic = "OrderStatusChanged"
)

var ErrClosed = errors.New("pubsub: broker closed")

// Broker is a topic-based fan-out. Subscriptions end, and their channel is
// closed, when ctx is cancelled or the broker is closed.
type Broker interface {
	Publish(ctx context.Context, topic Topic, payload []byte) error
	Subscribe(ctx context.Context, topic Topic) (<-chan []byte, error)
	Close() error
}

// queue is one subscriber's bounded buffer.
type queue struct {
	mu     sync.Mutex
	ch     chan []byte
	closed bool
}

func newQueue(size int) *queue {
	if size < 1 {
		size = 1
	}
	return &queue{ch: make(chan []byte, size)}
}

// push never blocks. Only pushers add to ch and they hold mu, so after
// dropping the head there is always room for msg.
func (q *queue) push(msg []byte) (dropped bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return false
	}
	select {
	case q.ch <- msg:
		return false
	default:
	}
	select {
	case <-q.ch:
		dropped = true
	default:
	}
	q.ch <- msg
	return dropped
}

func (q *queue) close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.closed {
		q.closed = true
		close(q.ch)
	}
}
