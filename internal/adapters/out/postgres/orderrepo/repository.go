package orderrepo

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// eventTracker receives the events generated by conditional writes. Implemented by
// the unit of work.
type eventTracker interface {
	TrackEvent(ev order.Event)
}

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker eventTracker
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker eventTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order to the database.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Get retrieves an order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAvailable retrieves the claim pool: ready orders with no courier, oldest first.
func (r *GormOrderRepository) GetAvailable(ctx context.Context) ([]*order.Order, error) {
	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Where("status = ? AND courier_id IS NULL", order.StatusReady.String()).
		Order("created_at, id").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainSlice(dtos)
}

// GetActiveByCourier retrieves the courier's orders currently out for delivery.
func (r *GormOrderRepository) GetActiveByCourier(ctx context.Context, courierID kernel.UUID) ([]*order.Order, error) {
	if err := courierID.Validate(); err != nil {
		return nil, err
	}

	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Where("courier_id = ? AND status = ?", courierID.Bytes(), order.StatusOutForDelivery.String()).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainSlice(dtos)
}

// UpdateStatus performs the conditional write: the row mutates only if its status
// still equals the caller's precondition. Exactly one of any number of concurrent
// calls with the same precondition can succeed; the rest get StaleTransitionError.
//
// The repository generates the resulting Event itself and hands it to the tracker,
// keeping events one-to-one with persisted facts.
func (r *GormOrderRepository) UpdateStatus(ctx context.Context, req ports.UpdateStatusRequest) (*order.Order, error) {
	if err := req.OrderID.Validate(); err != nil {
		return nil, err
	}
	if err := req.ExpectedStatus.Validate(); err != nil {
		return nil, err
	}
	if err := req.NewStatus.Validate(); err != nil {
		return nil, err
	}
	if err := req.Actor.Role.Validate(); err != nil {
		return nil, err
	}

	// Read the current row first: the event needs the participant ids, and a
	// cancellation event must remember the courier it detaches.
	var current OrderDTO
	if err := r.db.WithContext(ctx).First(&current, "id = ?", req.OrderID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", req.OrderID.String())
		}
		return nil, err
	}

	now := time.Now().UTC()
	updates := map[string]any{
		"status":     req.NewStatus.String(),
		"updated_at": now,
	}

	switch {
	case req.CourierID != nil:
		if err := req.CourierID.Validate(); err != nil {
			return nil, err
		}
		updates["courier_id"] = req.CourierID.Bytes()
	case req.NewStatus == order.StatusCancelled:
		updates["courier_id"] = nil
	}

	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ? AND status = ?", req.OrderID.Bytes(), req.ExpectedStatus.String()).
		Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		// The row exists but the precondition is gone: someone else moved the
		// order between the caller's read and this write.
		return nil, order.NewStaleTransitionError(req.OrderID, req.ExpectedStatus)
	}

	updatedDTO := current
	updatedDTO.Status = req.NewStatus.String()
	updatedDTO.UpdatedAt = now
	switch {
	case req.CourierID != nil:
		raw := req.CourierID.Bytes()
		updatedDTO.CourierID = &raw
	case req.NewStatus == order.StatusCancelled:
		updatedDTO.CourierID = nil
	}

	updated, err := toDomain(updatedDTO)
	if err != nil {
		return nil, err
	}

	ev := order.NewEvent(updated, req.ExpectedStatus, req.Actor.Role, now)
	if req.NewStatus == order.StatusCancelled && current.CourierID != nil {
		detached, detErr := courierFromRaw(*current.CourierID)
		if detErr != nil {
			return nil, detErr
		}
		ev.CourierID = detached
	}
	r.tracker.TrackEvent(ev)

	return updated, nil
}

func courierFromRaw(raw uuid.UUID) (*kernel.UUID, error) {
	id, err := kernel.UUIDFromBytes(raw[:])
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func toDomainSlice(dtos []OrderDTO) ([]*order.Order, error) {
	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}
