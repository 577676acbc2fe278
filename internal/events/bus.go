package events

import (
	"context"
	"log/slog"
	"sync"
)

// Sink receives every published event in addition to in-process subscribers.
// The Kafka publisher implements it; a nil sink disables external delivery.
type Sink interface {
	Publish(ctx context.Context, key string, value any) error
}

type subscriber struct {
	topic string
	ch    chan Event
}

// Bus is an in-process typed publish/subscribe bus. Publish blocks until each
// live subscriber has taken the event or the context is cancelled, so every
// subscriber that stays on its channel sees every event at least once.
type Bus struct {
	mu   sync.RWMutex
	subs map[*subscriber]struct{}
	sink Sink
}

// NewBus creates a bus. sink may be nil.
func NewBus(sink Sink) *Bus {
	return &Bus{
		subs: make(map[*subscriber]struct{}),
		sink: sink,
	}
}

// Subscribe registers for one topic and returns the receive channel together
// with a cancel function. buffer smooths out slow consumers.
func (b *Bus) Subscribe(topic string, buffer int) (<-chan Event, func()) {
	if buffer < 0 {
		buffer = 0
	}
	s := &subscriber{topic: topic, ch: make(chan Event, buffer)}

	b.mu.Lock()
	b.subs[s] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if _, ok := b.subs[s]; ok {
			delete(b.subs, s)
			close(s.ch)
		}
		b.mu.Unlock()
	}
	return s.ch, cancel
}

// Publish delivers the event to every subscriber of its topic and forwards it
// to the sink. A sink failure is logged, not returned: external fan-out is
// best-effort while in-process delivery is not.
func (b *Bus) Publish(ctx context.Context, e Event) error {
	b.mu.RLock()
	targets := make([]*subscriber, 0, len(b.subs))
	for s := range b.subs {
		if s.topic == e.Topic() {
			targets = append(targets, s)
		}
	}
	b.mu.RUnlock()

	for _, s := range targets {
		select {
		case s.ch <- e:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if b.sink != nil {
		if err := b.sink.Publish(ctx, e.Key(), e); err != nil {
			slog.Warn("event sink publish failed", "topic", e.Topic(), "key", e.Key(), "error", err)
		}
	}
	return nil
}
