package commands

import (
	"context"
	"errors"
	"log/slog"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
)

// ClaimOrderCommandHandler is the dispatch coordinator's entry point: it resolves the
// many-couriers-one-order race.
//
// The handler applies the one-active-delivery rule before touching the order, then
// attempts the single conditional write ready -> out_for_delivery with the courier
// attached. Among any number of concurrent claimants exactly one write succeeds; the
// rest receive AlreadyClaimedError, which is expected, frequent, and cheap - losers
// drop the order from their available list and re-poll, they never retry the same
// order.
type ClaimOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	graph      *order.Graph
	rules      services.DispatchRules
	publisher  ports.EventPublisher
	logger     *slog.Logger
}

// NewClaimOrderCommandHandler creates the dispatch coordinator handler.
func NewClaimOrderCommandHandler(
	uowFactory OrderUoWFactory,
	graph *order.Graph,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) ClaimOrderCommandHandler {
	return ClaimOrderCommandHandler{
		uowFactory: uowFactory,
		graph:      graph,
		rules:      services.NewDispatchRules(),
		publisher:  publisher,
		logger:     logger.With("component", "claim_order_handler"),
	}
}

// Handle processes a claim attempt and returns the claimed order on success.
//
// Rejections:
//   - CourierBusyError: the courier already holds an active delivery
//   - InvalidTransitionError: the order is not claimable from its current status
//   - AlreadyClaimedError: another courier won the conditional write
func (h ClaimOrderCommandHandler) Handle(ctx context.Context, cmd ClaimOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()

	active, err := repo.GetActiveByCourier(ctx, cmd.Courier().ID)
	if err != nil {
		return nil, err
	}
	if err = h.rules.ValidateCanClaim(cmd.Courier().ID, active); err != nil {
		return nil, err
	}

	current, err := repo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	// A snapshot already out for delivery means the race is over; report it the
	// courier-specific way rather than as a generic graph rejection.
	if current.Status() == order.StatusOutForDelivery {
		return nil, order.NewAlreadyClaimedError(cmd.OrderID())
	}

	if _, err = h.graph.Authorize(current.Status(), order.StatusOutForDelivery, cmd.Courier().Role); err != nil {
		return nil, err
	}

	courierID := cmd.Courier().ID
	claimed, err := repo.UpdateStatus(ctx, ports.UpdateStatusRequest{
		OrderID:        cmd.OrderID(),
		ExpectedStatus: current.Status(),
		NewStatus:      order.StatusOutForDelivery,
		Actor:          cmd.Courier(),
		CourierID:      &courierID,
	})
	if err != nil {
		// The precondition was ready; losing it means another courier claimed
		// the order between our read and our write.
		if errors.Is(err, order.ErrStaleTransition) {
			return nil, order.NewAlreadyClaimedError(cmd.OrderID())
		}
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
	return claimed, nil
}

func (h ClaimOrderCommandHandler) publishEvents(ctx context.Context, events []order.Event) {
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
