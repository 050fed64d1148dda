package rabbit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/order"
)

// eventMessage is the wire form of one status change.
type eventMessage struct {
	OrderID      string    `json:"order_id"`
	RestaurantID string    `json:"restaurant_id"`
	CustomerID   string    `json:"customer_id"`
	CourierID    *string   `json:"courier_id,omitempty"`
	OldStatus    string    `json:"old_status"`
	NewStatus    string    `json:"new_status"`
	ActorRole    string    `json:"actor_role"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// EventPublisher mirrors order events to RabbitMQ with routing key "order.<id>",
// so consumers can bind to the orders they care about.
type EventPublisher struct {
	client *Client
}

// NewEventPublisher creates an EventPublisher over an established client.
func NewEventPublisher(client *Client) (*EventPublisher, error) {
	if client == nil {
		return nil, errors.New("rabbit: client is required")
	}
	return &EventPublisher{client: client}, nil
}

// Publish marshals the event and sends it to the order events exchange.
func (p *EventPublisher) Publish(ctx context.Context, event order.Event) error {
	msg := eventMessage{
		OrderID:      event.OrderID.String(),
		RestaurantID: event.RestaurantID.String(),
		CustomerID:   event.CustomerID.String(),
		OldStatus:    string(event.OldStatus),
		NewStatus:    string(event.NewStatus),
		ActorRole:    string(event.ActorRole),
		OccurredAt:   event.OccurredAt,
	}
	if event.CourierID != nil {
		id := event.CourierID.String()
		msg.CourierID = &id
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("rabbit: marshal event: %w", err)
	}

	routingKey := "order." + event.OrderID.String()
	return p.client.Publish(ctx, routingKey, body)
}
