package queries

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
)

var ErrGetAvailableOrdersQueryIsNotConstructed = errors.New(
	"GetAvailableOrdersQuery must be created via NewGetAvailableOrdersQuery constructor",
)

// GetAvailableOrdersQuery retrieves the claim pool: ready orders with no courier
// attached. This is what couriers poll between deliveries.
type GetAvailableOrdersQuery struct {
	isConstructed bool
}

// NewGetAvailableOrdersQuery creates a query for the claimable order pool.
func NewGetAvailableOrdersQuery() GetAvailableOrdersQuery {
	return GetAvailableOrdersQuery{isConstructed: true}
}

// Validate ensures the query was created through the constructor.
func (q GetAvailableOrdersQuery) Validate() error {
	if !q.isConstructed {
		return ErrGetAvailableOrdersQueryIsNotConstructed
	}
	return nil
}

// GetAvailableOrdersQueryResponse is one claimable order. It deliberately omits
// customer identity; couriers see only what they need to decide on a claim.
type GetAvailableOrdersQueryResponse struct {
	ID              kernel.UUID
	RestaurantID    kernel.UUID
	TotalPriceCents int64
	DeliveryAddress string
	CreatedAt       time.Time
}
