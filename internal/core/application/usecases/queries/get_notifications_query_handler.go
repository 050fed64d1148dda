package queries

import (
	"context"
	"time"

	"dispatch/internal/core/application/fanout"
	"dispatch/internal/core/domain/model/actor"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetNotificationsQueryHandler retrieves a recipient's notification inbox, merged
// with the shared broadcast inbox for couriers and admins.
type GetNotificationsQueryHandler struct {
	db *gorm.DB
}

// NewGetNotificationsQueryHandler creates a handler for notification inbox queries.
func NewGetNotificationsQueryHandler(db *gorm.DB) GetNotificationsQueryHandler {
	return GetNotificationsQueryHandler{db: db}
}

// Handle executes the query.
func (h GetNotificationsQueryHandler) Handle(
	ctx context.Context,
	query GetNotificationsQuery,
) ([]GetNotificationsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	notifications := make([]GetNotificationsQueryResponse, 0)

	recipientIDs := []string{query.RecipientID().String()}
	switch query.Role() {
	case actor.RoleCourier:
		recipientIDs = append(recipientIDs, fanout.CourierPoolRecipientID.String())
	case actor.RoleAdmin:
		recipientIDs = append(recipientIDs, fanout.AdminRecipientID.String())
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			order_id,
			title,
			message,
			read,
			created_at
		FROM notifications
		WHERE recipient_id IN ?
		ORDER BY created_at DESC, id
	`, recipientIDs).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id, orderID    uuid.UUID
			title, message string
			read           bool
			createdAt      time.Time
		)

		if err = rows.Scan(&id, &orderID, &title, &message, &read, &createdAt); err != nil {
			return nil, err
		}

		notificationID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		ordID, idErr := kernel.UUIDFromBytes(orderID[:])
		if idErr != nil {
			return nil, idErr
		}

		notifications = append(notifications, GetNotificationsQueryResponse{
			ID:        notificationID,
			OrderID:   ordID,
			Title:     title,
			Message:   message,
			Read:      read,
			CreatedAt: createdAt,
		})
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return notifications, nil
}
