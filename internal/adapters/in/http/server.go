// Package http is the inbound HTTP adapter: REST endpoints for order lifecycle
// operations, the courier claim pool, notification inboxes, and a per-order SSE
// stream of committed status changes.
package http

import (
	"context"
	"errors"
	"net/http"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/actor"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/notification"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/metrics"
	"dispatch/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Read-side contracts the server consumes. The gorm-backed query handlers satisfy
// them; tests substitute in-memory fakes.
type (
	// OrderReader serves the role-scoped single order view.
	OrderReader interface {
		Handle(ctx context.Context, query queries.GetOrderQuery) (queries.GetOrderQueryResponse, error)
	}

	// AvailableOrdersReader serves the courier claim pool.
	AvailableOrdersReader interface {
		Handle(ctx context.Context, query queries.GetAvailableOrdersQuery) ([]queries.GetAvailableOrdersQueryResponse, error)
	}

	// NotificationsReader serves a recipient's inbox.
	NotificationsReader interface {
		Handle(ctx context.Context, query queries.GetNotificationsQuery) ([]queries.GetNotificationsQueryResponse, error)
	}
)

// Server wires HTTP requests to application use cases.
type Server struct {
	createOrderHandler commands.CreateOrderCommandHandler
	transitionHandler  commands.TransitionOrderCommandHandler
	claimHandler       commands.ClaimOrderCommandHandler
	markReadHandler    commands.MarkNotificationReadCommandHandler

	getOrderHandler         OrderReader
	getAvailableHandler     AvailableOrdersReader
	getNotificationsHandler NotificationsReader

	bus ports.EventBus
}

// NewServer creates the HTTP server over the application's command and query
// handlers and the event bus used for streaming.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	transitionHandler commands.TransitionOrderCommandHandler,
	claimHandler commands.ClaimOrderCommandHandler,
	markReadHandler commands.MarkNotificationReadCommandHandler,
	getOrderHandler OrderReader,
	getAvailableHandler AvailableOrdersReader,
	getNotificationsHandler NotificationsReader,
	bus ports.EventBus,
) *Server {
	return &Server{
		createOrderHandler:      createOrderHandler,
		transitionHandler:       transitionHandler,
		claimHandler:            claimHandler,
		markReadHandler:         markReadHandler,
		getOrderHandler:         getOrderHandler,
		getAvailableHandler:     getAvailableHandler,
		getNotificationsHandler: getNotificationsHandler,
		bus:                     bus,
	}
}

// RegisterRoutes mounts all endpoints under /api/v1 behind the identity middleware.
func (s *Server) RegisterRoutes(e *echo.Echo, provider ports.IdentityProvider) {
	api := e.Group("/api/v1", ActorMiddleware(provider))

	api.POST("/orders", s.CreateOrder)
	api.GET("/orders/available", s.GetAvailableOrders)
	api.GET("/orders/:id", s.GetOrder)
	api.GET("/orders/:id/events", s.StreamOrderEvents)
	api.POST("/orders/:id/transition", s.TransitionOrder)
	api.POST("/orders/:id/claim", s.ClaimOrder)
	api.GET("/notifications", s.GetNotifications)
	api.POST("/notifications/:id/read", s.MarkNotificationRead)
}

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(c echo.Context) error {
	requester, ok := requestActor(c)
	if !ok {
		return unauthorized(c)
	}

	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	restaurantID, err := kernel.UUIDFromString(req.RestaurantID)
	if err != nil {
		return badRequest(c, "invalid restaurant_id: "+err.Error())
	}

	cmd, err := commands.NewCreateOrderCommand(
		kernel.NewUUID(),
		requester,
		restaurantID,
		req.TotalPriceCents,
		req.DeliveryAddress,
		req.Notes,
	)
	if err != nil {
		return badRequest(c, err.Error())
	}

	created, err := s.createOrderHandler.Handle(c.Request().Context(), cmd)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, orderResponseFromAggregate(created))
}

// GetOrder handles GET /api/v1/orders/:id.
func (s *Server) GetOrder(c echo.Context) error {
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

	result, err := s.getOrderHandler.Handle(c.Request().Context(), query)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, orderViewFromQuery(result))
}

// GetAvailableOrders handles GET /api/v1/orders/available - the claim pool.
// Only couriers and admins see it; the pool is not a public order listing.
func (s *Server) GetAvailableOrders(c echo.Context) error {
	requester, ok := requestActor(c)
	if !ok {
		return unauthorized(c)
	}
	if requester.Role != actor.RoleCourier && requester.Role != actor.RoleAdmin {
		return c.JSON(http.StatusForbidden, errorResponse{
			Code:    http.StatusForbidden,
			Message: "the claim pool is courier-only",
		})
	}

	available, err := s.getAvailableHandler.Handle(
		c.Request().Context(), queries.NewGetAvailableOrdersQuery(),
	)
	if err != nil {
		return writeError(c, err)
	}

	response := make([]availableOrderResponse, len(available))
	for i, item := range available {
		response[i] = availableOrderResponse{
			ID:              item.ID.String(),
			RestaurantID:    item.RestaurantID.String(),
			TotalPriceCents: item.TotalPriceCents,
			DeliveryAddress: item.DeliveryAddress,
			CreatedAt:       item.CreatedAt,
		}
	}

	return c.JSON(http.StatusOK, response)
}

// TransitionOrder handles POST /api/v1/orders/:id/transition.
func (s *Server) TransitionOrder(c echo.Context) error {
	requester, ok := requestActor(c)
	if !ok {
		return unauthorized(c)
	}

	orderID, err := kernel.UUIDFromString(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid order id")
	}

	var req transitionRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	newStatus, err := order.StatusFromString(req.ToStatus)
	if err != nil {
		return badRequest(c, "invalid to_status: "+err.Error())
	}

	cmd, err := commands.NewTransitionOrderCommand(orderID, newStatus, requester)
	if err != nil {
		return badRequest(c, err.Error())
	}

	updated, err := s.transitionHandler.Handle(c.Request().Context(), cmd)
	if err != nil {
		if errors.Is(err, order.ErrStaleTransition) {
			metrics.TransitionConflictsTotal.Inc()
		}
		return writeError(c, err)
	}

	metrics.TransitionsTotal.WithLabelValues(updated.Status().String()).Inc()
	return c.JSON(http.StatusOK, orderResponseFromAggregate(updated))
}

// ClaimOrder handles POST /api/v1/orders/:id/claim - the courier's claim attempt.
func (s *Server) ClaimOrder(c echo.Context) error {
	requester, ok := requestActor(c)
	if !ok {
		return unauthorized(c)
	}

	orderID, err := kernel.UUIDFromString(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid order id")
	}

	cmd, err := commands.NewClaimOrderCommand(orderID, requester)
	if err != nil {
		return badRequest(c, err.Error())
	}

	claimed, err := s.claimHandler.Handle(c.Request().Context(), cmd)
	if err != nil {
		if errors.Is(err, order.ErrAlreadyClaimed) {
			metrics.ClaimAttemptsTotal.WithLabelValues("lost").Inc()
		} else {
			metrics.ClaimAttemptsTotal.WithLabelValues("rejected").Inc()
		}
		return writeError(c, err)
	}

	metrics.ClaimAttemptsTotal.WithLabelValues("won").Inc()
	metrics.TransitionsTotal.WithLabelValues(claimed.Status().String()).Inc()
	return c.JSON(http.StatusOK, orderResponseFromAggregate(claimed))
}

// GetNotifications handles GET /api/v1/notifications - the requester's inbox.
func (s *Server) GetNotifications(c echo.Context) error {
	requester, ok := requestActor(c)
	if !ok {
		return unauthorized(c)
	}

	query, err := queries.NewGetNotificationsQuery(requester.ID, requester.Role)
	if err != nil {
		return badRequest(c, err.Error())
	}

	inbox, err := s.getNotificationsHandler.Handle(c.Request().Context(), query)
	if err != nil {
		return writeError(c, err)
	}

	response := make([]notificationResponse, len(inbox))
	for i, item := range inbox {
		response[i] = notificationResponse{
			ID:        item.ID.String(),
			OrderID:   item.OrderID.String(),
			Title:     item.Title,
			Message:   item.Message,
			Read:      item.Read,
			CreatedAt: item.CreatedAt,
		}
	}

	return c.JSON(http.StatusOK, response)
}

// MarkNotificationRead handles POST /api/v1/notifications/:id/read.
func (s *Server) MarkNotificationRead(c echo.Context) error {
	requester, ok := requestActor(c)
	if !ok {
		return unauthorized(c)
	}

	notificationID, err := kernel.UUIDFromString(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid notification id")
	}

	cmd, err := commands.NewMarkNotificationReadCommand(notificationID, requester.ID)
	if err != nil {
		return badRequest(c, err.Error())
	}

	if err := s.markReadHandler.Handle(c.Request().Context(), cmd); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// writeError maps domain rejections onto HTTP statuses. Conflicts (lost races, busy
// couriers) are 409, graph rejections are 422, unknown ids are 404, bad input is
// 400, everything else is 500.
func writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return respond(c, http.StatusNotFound, err)
	case errors.Is(err, order.ErrAlreadyClaimed),
		errors.Is(err, order.ErrStaleTransition),
		errors.Is(err, order.ErrCourierBusy):
		return respond(c, http.StatusConflict, err)
	case errors.Is(err, order.ErrInvalidTransition),
		errors.Is(err, commands.ErrClaimRequired):
		return respond(c, http.StatusUnprocessableEntity, err)
	case errors.Is(err, errs.ErrValueIsRequired), errors.Is(err, errs.ErrValueIsInvalid):
		return respond(c, http.StatusBadRequest, err)
	case errors.Is(err, notification.ErrNotRecipient):
		return respond(c, http.StatusForbidden, err)
	default:
		return c.JSON(http.StatusInternalServerError, errorResponse{
			Code:    http.StatusInternalServerError,
			Message: "internal error",
		})
	}
}

func respond(c echo.Context, code int, err error) error {
	return c.JSON(code, errorResponse{Code: code, Message: err.Error()})
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, errorResponse{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, errorResponse{
		Code:    http.StatusUnauthorized,
		Message: "identity is required",
	})
}
