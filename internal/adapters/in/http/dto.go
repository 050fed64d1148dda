package http

import (
	"time"

	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/order"
)

type createOrderRequest struct {
	RestaurantID    string `json:"restaurant_id"`
	TotalPriceCents int64  `json:"total_price_cents"`
	DeliveryAddress string `json:"delivery_address"`
	Notes           string `json:"notes"`
}

type transitionRequest struct {
	ToStatus string `json:"to_status"`
}

type orderResponse struct {
	ID              string    `json:"id"`
	CustomerID      string    `json:"customer_id"`
	RestaurantID    string    `json:"restaurant_id"`
	CourierID       *string   `json:"courier_id,omitempty"`
	Status          string    `json:"status"`
	TotalPriceCents int64     `json:"total_price_cents"`
	DeliveryAddress string    `json:"delivery_address"`
	Notes           string    `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	AvailableActions []actionResponse `json:"available_actions,omitempty"`
}

type actionResponse struct {
	ToStatus string `json:"to_status"`
	Label    string `json:"label"`
}

type availableOrderResponse struct {
	ID              string    `json:"id"`
	RestaurantID    string    `json:"restaurant_id"`
	TotalPriceCents int64     `json:"total_price_cents"`
	DeliveryAddress string    `json:"delivery_address"`
	CreatedAt       time.Time `json:"created_at"`
}

type notificationResponse struct {
	ID        string    `json:"id"`
	OrderID   string    `json:"order_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

func orderResponseFromAggregate(o *order.Order) orderResponse {
	response := orderResponse{
		ID:              o.ID().String(),
		CustomerID:      o.CustomerID().String(),
		RestaurantID:    o.RestaurantID().String(),
		Status:          o.Status().String(),
		TotalPriceCents: o.TotalPriceCents(),
		DeliveryAddress: o.DeliveryAddress(),
		Notes:           o.Notes(),
		CreatedAt:       o.CreatedAt(),
		UpdatedAt:       o.UpdatedAt(),
	}
	if o.CourierID() != nil {
		id := o.CourierID().String()
		response.CourierID = &id
	}
	return response
}

func orderViewFromQuery(result queries.GetOrderQueryResponse) orderResponse {
	response := orderResponse{
		ID:              result.ID.String(),
		CustomerID:      result.CustomerID.String(),
		RestaurantID:    result.RestaurantID.String(),
		Status:          result.Status,
		TotalPriceCents: result.TotalPriceCents,
		DeliveryAddress: result.DeliveryAddress,
		Notes:           result.Notes,
		CreatedAt:       result.CreatedAt,
		UpdatedAt:       result.UpdatedAt,
	}
	if result.CourierID != nil {
		id := result.CourierID.String()
		response.CourierID = &id
	}
	for _, action := range result.AvailableActions {
		response.AvailableActions = append(response.AvailableActions, actionResponse{
			ToStatus: action.ToStatus,
			Label:    action.Label,
		})
	}
	return response
}
