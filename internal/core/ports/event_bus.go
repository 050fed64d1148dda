package ports

import (
	"context"

	"dispatch/internal/core/domain/model/order"
)

// EventPublisher publishes committed status-change events.
//
// Publish is called strictly after the underlying write has committed, and command
// handlers serialize commit and publish per order id, so publish order matches commit
// order. Events for the same order id must be delivered to every subscriber in publish
// order; no ordering is required across different orders.
type EventPublisher interface {
	Publish(ctx context.Context, event order.Event) error
}

// Subscription is one subscriber's ordered event feed. Close releases the
// subscription; the Events channel is closed afterwards.
type Subscription interface {
	Events() <-chan order.Event
	Close()
}

// EventBus extends publishing with topic-based subscription. Topic names partition by
// order id and by interested party (see the eventbus package for the naming scheme).
// Delivery is at-least-once per subscriber registered at publish time; subscribers
// must tolerate re-delivery, which is safe because events are idempotent.
type EventBus interface {
	EventPublisher
	Subscribe(topic string) Subscription
}
