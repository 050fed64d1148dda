package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/eventbus"

	"github.com/labstack/echo/v4"
)

// eventFrame is one SSE payload: a committed status change of the watched order.
type eventFrame struct {
	OrderID    string    `json:"order_id"`
	OldStatus  string    `json:"old_status"`
	NewStatus  string    `json:"new_status"`
	ActorRole  string    `json:"actor_role"`
	CourierID  *string   `json:"courier_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// StreamOrderEvents handles GET /api/v1/orders/:id/events. It streams the order's
// committed status changes as server-sent events until the client disconnects.
// Visibility follows the same role scoping as GetOrder, so strangers cannot watch
// an order they cannot read.
func (s *Server) StreamOrderEvents(c echo.Context) error {
	requester, ok := requestActor(c)
	if !ok {
		return unauthorized(c)
	}

	orderID, err := kernel.UUIDFromString(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid order id")
	}

	query, err := queries.NewGetOrderQuery(orderID, requester)
	if err != nil {
		return badRequest(c, err.Error())
	}
	if _, err := s.getOrderHandler.Handle(c.Request().Context(), query); err != nil {
		return writeError(c, err)
	}

	// subscribe before acknowledging the stream so no committed event published
	// after the visibility check is missed
	sub := s.bus.Subscribe(eventbus.OrderTopic(orderID))
	defer sub.Close()

	resp := c.Response()
	resp.Header().Set(echo.HeaderContentType, "text/event-stream")
	resp.Header().Set("Cache-Control", "no-cache")
	resp.Header().Set("Connection", "keep-alive")
	resp.WriteHeader(http.StatusOK)
	resp.Flush()

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, open := <-sub.Events():
			if !open {
				return nil
			}

			frame := eventFrame{
				OrderID:    ev.OrderID.String(),
				OldStatus:  ev.OldStatus.String(),
				NewStatus:  ev.NewStatus.String(),
				ActorRole:  string(ev.ActorRole),
				OccurredAt: ev.OccurredAt,
			}
			if ev.CourierID != nil {
				id := ev.CourierID.String()
				frame.CourierID = &id
			}

			data, err := json.Marshal(frame)
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintf(resp, "event: status_change\ndata: %s\n\n", data); err != nil {
				return nil
			}
			resp.Flush()
		}
	}
}
