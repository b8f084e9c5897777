package pubsub

import (
	"context"
	"fmt"
	"sync"

	"github.com/nats-io/nats.go"
)

const subjectPrefix = "orders."

// NATSBroker fans events out through a NATS server so that several API
// processes share one event stream. Core NATS gives the same at-most-once
// semantics as MemoryBroker.
type NATSBroker struct {
	nc     *nats.Conn
	buffer int

	mu     sync.Mutex
	subs   map[*nats.Subscription]*queue
	closed bool
}

// NewNATSBroker connects to url.
func NewNATSBroker(url string, buffer int, opts ...nats.Option) (*NATSBroker, error) {
	opts = append([]nats.Option{nats.Name("food-ordering-api")}, opts...)
	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}
	return &NATSBroker{nc: nc, buffer: buffer, subs: make(map[*nats.Subscription]*queue)}, nil
}

func subject(topic Topic) string {
	return subjectPrefix + string(topic)
}

func (b *NATSBroker) Publish(ctx context.Context, topic Topic, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if b.nc.IsClosed() {
		return ErrClosed
	}
	if err := b.nc.Publish(subject(topic), payload); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

func (b *NATSBroker) Subscribe(ctx context.Context, topic Topic) (<-chan []byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed || b.nc.IsClosed() {
		return nil, ErrClosed
	}

	q := newQueue(b.buffer)
	sub, err := b.nc.Subscribe(subject(topic), func(m *nats.Msg) {
		q.push(m.Data)
	})
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", topic, err)
	}
	// make sure the server has registered interest before returning
	if err := b.nc.Flush(); err != nil {
		_ = sub.Unsubscribe()
		return nil, fmt.Errorf("subscribe %s: %w", topic, err)
	}
	b.subs[sub] = q

	context.AfterFunc(ctx, func() {
		b.mu.Lock()
		delete(b.subs, sub)
		b.mu.Unlock()
		_ = sub.Unsubscribe()
		q.close()
	})
	return q.ch, nil
}

// Close ends every live subscription, then drops the connection.
func (b *NATSBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	for sub, q := range b.subs {
		_ = sub.Unsubscribe()
		q.close()
	}
	b.subs = make(map[*nats.Subscription]*queue)
	b.nc.Close()
	return nil
}
