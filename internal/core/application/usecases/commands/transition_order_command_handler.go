package commands

import (
	"context"
	"log/slog"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
)

// TransitionOrderCommandHandler validates and commits status transitions.
//
// Validation happens before any write: the graph rejects illegal edges and
// unpermitted roles locally, so only plausible transitions reach the store. The
// write itself is conditional on the status read in the same transaction; losing a
// race with another actor yields StaleTransitionError, which callers resolve by
// re-reading, never by blind retry.
type TransitionOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	graph      *order.Graph
	publisher  ports.EventPublisher
	logger     *slog.Logger
}

// NewTransitionOrderCommandHandler creates a handler for status transitions.
func NewTransitionOrderCommandHandler(
	uowFactory OrderUoWFactory,
	graph *order.Graph,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) TransitionOrderCommandHandler {
	return TransitionOrderCommandHandler{
		uowFactory: uowFactory,
		graph:      graph,
		publisher:  publisher,
		logger:     logger.With("component", "transition_order_handler"),
	}
}

// Handle processes a transition request and returns the updated order.
func (h TransitionOrderCommandHandler) Handle(ctx context.Context, cmd TransitionOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	// Claims attach a courier and carry extra business rules; they have their own
	// entry point.
	if cmd.NewStatus() == order.StatusOutForDelivery {
		return nil, ErrClaimRequired
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()

	current, err := repo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	if _, err = h.graph.Authorize(current.Status(), cmd.NewStatus(), cmd.Requester().Role); err != nil {
		return nil, err
	}

	updated, err := repo.UpdateStatus(ctx, ports.UpdateStatusRequest{
		OrderID:        cmd.OrderID(),
		ExpectedStatus: current.Status(),
		NewStatus:      cmd.NewStatus(),
		Actor:          cmd.Requester(),
	})
	if err != nil {
		return nil, err
	}

	// Commit and publish under the per-order gate: a handler that commits this
	// order after us cannot publish before us.
	release := publishGate.acquire(cmd.OrderID())
	defer release()

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.publishEvents(ctx, uow.TrackedEvents())
	return updated, nil
}

// publishEvents publishes post-commit. The transition is already durable here, so
// publish failures are logged and never surfaced to the caller.
func (h TransitionOrderCommandHandler) publishEvents(ctx context.Context, events []order.Event) {
	for _, ev := range events {
		if err := h.publisher.Publish(ctx, ev); err != nil {
			h.logger.ErrorContext(ctx, "failed to publish committed event",
				"order_id", ev.OrderID.String(),
				"new_status", ev.NewStatus.String(),
				"error", err,
			)
		}
	}
}
