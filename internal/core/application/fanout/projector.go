// Package fanout turns committed order events into per-recipient notifications.
//
// The projection is pure on the mapping side and retryable on the write side: a
// failed notification insert goes to an in-memory pending queue with bounded backoff
// and never affects the status transition that produced the event.
package fanout

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"dispatch/internal/core/domain/model/actor"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/notification"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"

	"github.com/google/uuid"
)

// Broadcast inboxes. Notifications are owned by a recipient id; roles without a
// roster (the courier pool, admins) share a well-known synthetic recipient that the
// read side merges into each member's inbox.
var (
	// CourierPoolRecipientID owns broadcast notifications visible to every courier.
	CourierPoolRecipientID = broadcastRecipient("courier-pool")

	// AdminRecipientID owns broadcast notifications visible to every admin.
	AdminRecipientID = broadcastRecipient("admins")
)

func broadcastRecipient(name string) kernel.UUID {
	raw := uuid.NewSHA1(uuid.NameSpaceOID, []byte("dispatch/inbox/"+name))
	id, err := kernel.UUIDFromBytes(raw[:])
	if err != nil {
		panic(err)
	}
	return id
}

const (
	maxAttempts    = 10
	initialBackoff = 5 * time.Second
	maxBackoff     = 5 * time.Minute
)

// NotificationUoW is the transaction surface the projector needs.
type NotificationUoW interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
	NotificationRepository() ports.NotificationRepository
}

// NotificationUoWFactory creates notification unit of work instances.
type NotificationUoWFactory interface {
	Create() NotificationUoW
}

type pendingInsert struct {
	notification *notification.Notification
	attempts     int
	nextAttempt  time.Time
}

// Projector consumes committed order events and writes notification rows.
//
// Notification ids are deterministic per (order, status, recipient), so a
// re-delivered event re-inserts the same ids and the idempotent Add absorbs it.
type Projector struct {
	uowFactory NotificationUoWFactory
	logger     *slog.Logger

	mu      sync.Mutex
	pending []pendingInsert
}

// NewProjector creates the notification fan-out projector.
func NewProjector(uowFactory NotificationUoWFactory, logger *slog.Logger) *Projector {
	return &Projector{
		uowFactory: uowFactory,
		logger:     logger.With("component", "notification_fanout"),
	}
}

// Run consumes events until the channel closes or the context is cancelled.
// Intended to be started once per process against the orders.all subscription.
func (p *Projector) Run(ctx context.Context, events <-chan order.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			p.Apply(ctx, ev)
		}
	}
}

// Apply projects one event. Failed inserts are queued for retry; Apply itself never
// returns an error because notification delivery must not affect order state.
func (p *Projector) Apply(ctx context.Context, ev order.Event) {
	for _, n := range p.project(ev) {
		if err := p.insert(ctx, n); err != nil {
			p.logger.WarnContext(ctx, "notification insert failed, queued for retry",
				"notification_id", n.ID().String(),
				"order_id", n.OrderID().String(),
				"error", err,
			)
			p.enqueue(n, 1)
		}
	}
}

// RetryPending re-attempts queued inserts that are due. Entries that keep failing
// back off exponentially and are dropped after the attempt cap.
func (p *Projector) RetryPending(ctx context.Context) {
	now := time.Now()

	p.mu.Lock()
	var due, rest []pendingInsert
	for _, item := range p.pending {
		if item.nextAttempt.After(now) {
			rest = append(rest, item)
		} else {
			due = append(due, item)
		}
	}
	p.pending = rest
	p.mu.Unlock()

	for _, item := range due {
		err := p.insert(ctx, item.notification)
		if err == nil {
			continue
		}

		if item.attempts+1 >= maxAttempts {
			p.logger.ErrorContext(ctx, "dropping notification after repeated insert failures",
				"notification_id", item.notification.ID().String(),
				"attempts", item.attempts+1,
				"error", err,
			)
			continue
		}
		p.enqueue(item.notification, item.attempts+1)
	}
}

// PendingCount reports the retry queue depth.
func (p *Projector) PendingCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pending)
}

func (p *Projector) enqueue(n *notification.Notification, attempts int) {
	backoff := initialBackoff << (attempts - 1)
	if backoff > maxBackoff {
		backoff = maxBackoff
	}

	p.mu.Lock()
	p.pending = append(p.pending, pendingInsert{
		notification: n,
		attempts:     attempts,
		nextAttempt:  time.Now().Add(backoff),
	})
	p.mu.Unlock()
}

func (p *Projector) insert(ctx context.Context, n *notification.Notification) error {
	uow := p.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.NotificationRepository().Add(ctx, n); err != nil {
		return err
	}
	return uow.Commit(ctx)
}

// project maps one event to its notification rows. Pure: same event, same rows,
// same ids.
func (p *Projector) project(ev order.Event) []*notification.Notification {
	var out []*notification.Notification

	add := func(recipientID kernel.UUID, title, message string) {
		n, err := notification.NewNotification(
			notificationID(ev, recipientID),
			recipientID,
			ev.OrderID,
			title,
			message,
			ev.OccurredAt,
		)
		if err != nil {
			// Only a malformed event reaches here; there is nothing to retry.
			p.logger.Error("skipping unprojectable event",
				"order_id", ev.OrderID.String(),
				"new_status", ev.NewStatus.String(),
				"error", err,
			)
			return
		}
		out = append(out, n)
	}

	shortID := shortOrderRef(ev.OrderID)

	if msg, ok := customerMessages[ev.NewStatus]; ok {
		add(ev.CustomerID, "Order update", msg)
	}

	switch ev.NewStatus {
	case order.StatusReady:
		add(CourierPoolRecipientID, "New delivery available",
			fmt.Sprintf("Order %s is ready for pickup", shortID))
	case order.StatusOutForDelivery:
		add(ev.RestaurantID, "Order picked up",
			fmt.Sprintf("A courier picked up order %s", shortID))
	case order.StatusDelivered:
		add(ev.RestaurantID, "Order delivered",
			fmt.Sprintf("Order %s was delivered", shortID))
	case order.StatusCancelled:
		add(ev.RestaurantID, "Order cancelled",
			fmt.Sprintf("Order %s was cancelled", shortID))
		add(AdminRecipientID, "Order cancelled",
			fmt.Sprintf("Order %s was cancelled from status %s", shortID, ev.OldStatus))
		if ev.ActorRole == actor.RoleAdmin && ev.CourierID != nil {
			add(*ev.CourierID, "Delivery cancelled",
				fmt.Sprintf("Your delivery of order %s was cancelled by support", shortID))
		}
	}

	return out
}

var customerMessages = map[order.Status]string{
	order.StatusPreparing:      "The restaurant is preparing your order",
	order.StatusReady:          "Your order is ready and waiting for a courier",
	order.StatusOutForDelivery: "Your order is on its way",
	order.StatusDelivered:      "Your order has been delivered",
	order.StatusCancelled:      "Your order has been cancelled",
}

// notificationID derives a stable id from the transition and recipient, so a
// re-projected event collides with its earlier insert instead of duplicating it.
func notificationID(ev order.Event, recipientID kernel.UUID) kernel.UUID {
	seed := fmt.Sprintf("%s/%s/%s/%s", ev.OrderID, ev.OldStatus, ev.NewStatus, recipientID)
	raw := uuid.NewSHA1(uuid.NameSpaceOID, []byte(seed))
	id, err := kernel.UUIDFromBytes(raw[:])
	if err != nil {
		panic(err)
	}
	return id
}

func shortOrderRef(id kernel.UUID) string {
	s := id.String()
	if len(s) >= 8 {
		return s[:8]
	}
	return s
}
