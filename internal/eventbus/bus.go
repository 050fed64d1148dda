// Package eventbus provides the in-process event bus that propagates committed status
// changes to subscribers: notification fan-out, SSE streams, and client view models.
//
// Topics partition events by interested party:
//   - order.<id>      every event of one order, for parties following that order
//   - orders.ready    orders entering ready status, for the unassigned courier pool
//   - orders.all      every event, for administrators and the fan-out projection
//
// Delivery guarantees: at-least-once to every subscriber registered at publish time,
// and per-order FIFO - events of one order reach each subscriber in publish order,
// because Publish enqueues to all subscribers under one lock and each subscriber
// drains a private FIFO queue. Publishers never block on slow subscribers; the queue
// grows instead. No guarantee exists across different orders.
//
// An optional mirror forwards every event to an external transport (RabbitMQ in
// production). Mirror failures are logged and never affect in-process delivery.
package eventbus

import (
	"context"
	"log/slog"
	"sync"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
)

// Topic names. OrderTopic derives the per-order topic.
const (
	TopicAllOrders = "orders.all"
	TopicReadyPool = "orders.ready"
)

// OrderTopic returns the topic carrying every event of a single order.
func OrderTopic(id kernel.UUID) string {
	return "order." + id.String()
}

// TopicsFor lists the topics an event is routed to.
func TopicsFor(ev order.Event) []string {
	topics := []string{OrderTopic(ev.OrderID), TopicAllOrders}
	if ev.NewStatus == order.StatusReady {
		topics = append(topics, TopicReadyPool)
	}
	return topics
}

// Bus is the in-process implementation of ports.EventBus.
type Bus struct {
	mu     sync.Mutex
	subs   map[string][]*subscription
	mirror ports.EventPublisher
	logger *slog.Logger
}

// NewBus creates a Bus. mirror may be nil when no external transport is configured.
func NewBus(mirror ports.EventPublisher, logger *slog.Logger) *Bus {
	return &Bus{
		subs:   make(map[string][]*subscription),
		mirror: mirror,
		logger: logger.With("component", "event_bus"),
	}
}

// Publish routes the event to all matching subscribers and the mirror.
// It never blocks on subscribers and never fails because of the mirror.
func (b *Bus) Publish(ctx context.Context, ev order.Event) error {
	b.mu.Lock()
	for _, topic := range TopicsFor(ev) {
		for _, sub := range b.subs[topic] {
			sub.enqueue(ev)
		}
	}
	b.mu.Unlock()

	if b.mirror != nil {
		if err := b.mirror.Publish(ctx, ev); err != nil {
			b.logger.ErrorContext(ctx, "event mirror publish failed",
				"order_id", ev.OrderID.String(),
				"new_status", ev.NewStatus.String(),
				"error", err,
			)
		}
	}

	return nil
}

// Subscribe registers a subscriber on a topic. The returned subscription delivers
// events in publish order until Close is called.
func (b *Bus) Subscribe(topic string) ports.Subscription {
	sub := newSubscription(topic, b)

	b.mu.Lock()
	b.subs[topic] = append(b.subs[topic], sub)
	b.mu.Unlock()

	return sub
}

func (b *Bus) remove(sub *subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	current := b.subs[sub.topic]
	for i, s := range current {
		if s == sub {
			b.subs[sub.topic] = append(current[:i], current[i+1:]...)
			break
		}
	}
	if len(b.subs[sub.topic]) == 0 {
		delete(b.subs, sub.topic)
	}
}

// subscription buffers events in an unbounded FIFO drained by a dedicated goroutine,
// decoupling publisher progress from subscriber consumption speed.
type subscription struct {
	topic string
	bus   *Bus

	mu     sync.Mutex
	cond   *sync.Cond
	queue  []order.Event
	closed bool

	out  chan order.Event
	quit chan struct{}
}

func newSubscription(topic string, bus *Bus) *subscription {
	sub := &subscription{
		topic: topic,
		bus:   bus,
		out:   make(chan order.Event),
		quit:  make(chan struct{}),
	}
	sub.cond = sync.NewCond(&sub.mu)
	go sub.drain()
	return sub
}

// Events returns the ordered event feed. The channel is closed after Close.
func (s *subscription) Events() <-chan order.Event {
	return s.out
}

// Close unregisters the subscription and closes the event feed.
// Close is idempotent and safe even when the receiver stopped reading.
func (s *subscription) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.quit)
	s.cond.Signal()
	s.mu.Unlock()

	s.bus.remove(s)
}

func (s *subscription) enqueue(ev order.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.queue = append(s.queue, ev)
	s.cond.Signal()
}

func (s *subscription) drain() {
	defer close(s.out)

	for {
		s.mu.Lock()
		for len(s.queue) == 0 && !s.closed {
			s.cond.Wait()
		}
		if s.closed {
			s.mu.Unlock()
			return
		}
		ev := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()

		select {
		case s.out <- ev:
		case <-s.quit:
			return
		}
	}
}
