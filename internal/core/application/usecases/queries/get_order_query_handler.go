package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/actor"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOrderQueryHandler retrieves a single order with the actions available to the
// requesting role. The same not-found error covers both a missing order and a
// requester who is not a participant.
type GetOrderQueryHandler struct {
	db    *gorm.DB
	graph *order.Graph
}

// NewGetOrderQueryHandler creates a handler for single-order reads.
func NewGetOrderQueryHandler(db *gorm.DB, graph *order.Graph) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db, graph: graph}
}

// Handle executes the query.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			customer_id,
			restaurant_id,
			courier_id,
			status,
			total_price_cents,
			delivery_address,
			notes,
			created_at,
			updated_at
		FROM orders
		WHERE id = ?
	`, query.OrderID().String()).Row()

	var (
		id, customerID, restaurantID uuid.UUID
		courierID                    sql.Null[uuid.UUID]
		status                       string
		totalPriceCents              int64
		deliveryAddress, notes       string
		createdAt, updatedAt         time.Time
	)

	err := row.Scan(
		&id, &customerID, &restaurantID, &courierID,
		&status, &totalPriceCents, &deliveryAddress, &notes,
		&createdAt, &updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("order", query.OrderID())
	}
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	resp, err := buildOrderResponse(id, customerID, restaurantID, courierID, status,
		totalPriceCents, deliveryAddress, notes, createdAt, updatedAt)
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	if !h.mayView(resp, query.Requester()) {
		return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("order", query.OrderID())
	}

	currentStatus, err := order.StatusFromString(resp.Status)
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	transitions, err := h.graph.AvailableTransitions(currentStatus, query.Requester().Role)
	if err != nil {
		return GetOrderQueryResponse{}, err
	}
	for _, tr := range transitions {
		resp.AvailableActions = append(resp.AvailableActions, ActionResponse{
			ToStatus: tr.To.String(),
			Label:    tr.ActionLabel,
		})
	}

	return resp, nil
}

func (h GetOrderQueryHandler) mayView(resp GetOrderQueryResponse, requester actor.Actor) bool {
	switch requester.Role {
	case actor.RoleAdmin:
		return true
	case actor.RoleCustomer:
		return resp.CustomerID.IsEqual(requester.ID)
	case actor.RoleRestaurant:
		return resp.RestaurantID.IsEqual(requester.ID)
	case actor.RoleCourier:
		return resp.CourierID != nil && resp.CourierID.IsEqual(requester.ID)
	default:
		return false
	}
}

func buildOrderResponse(
	id, customerID, restaurantID uuid.UUID,
	courierID sql.Null[uuid.UUID],
	status string,
	totalPriceCents int64,
	deliveryAddress, notes string,
	createdAt, updatedAt time.Time,
) (GetOrderQueryResponse, error) {
	orderID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return GetOrderQueryResponse{}, err
	}
	custID, err := kernel.UUIDFromBytes(customerID[:])
	if err != nil {
		return GetOrderQueryResponse{}, err
	}
	restID, err := kernel.UUIDFromBytes(restaurantID[:])
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	resp := GetOrderQueryResponse{
		ID:              orderID,
		CustomerID:      custID,
		RestaurantID:    restID,
		Status:          status,
		TotalPriceCents: totalPriceCents,
		DeliveryAddress: deliveryAddress,
		Notes:           notes,
		CreatedAt:       createdAt,
		UpdatedAt:       updatedAt,
	}

	if courierID.Valid {
		cID, cErr := kernel.UUIDFromBytes(courierID.V[:])
		if cErr != nil {
			return GetOrderQueryResponse{}, cErr
		}
		resp.CourierID = &cID
	}

	return resp, nil
}
