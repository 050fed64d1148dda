// Package transitionrepo loads the admin-configured status transition table.
package transitionrepo

import (
	"context"

	"dispatch/internal/core/domain/model/actor"
	"dispatch/internal/core/domain/model/order"

	"gorm.io/gorm"
)

// TransitionDTO is one row of the status_transitions table. An empty required_role
// means any role may perform the transition.
type TransitionDTO struct {
	FromStatus   string `gorm:"type:varchar(32);primaryKey"`
	ToStatus     string `gorm:"type:varchar(32);primaryKey"`
	RequiredRole string `gorm:"type:varchar(32);primaryKey"`
	ActionLabel  string
	DisplayOrder int
}

// TableName overrides GORM's default naming to use "status_transitions".
func (TransitionDTO) TableName() string {
	return "status_transitions"
}

// GormTransitionRepository implements ports.TransitionRepository using GORM.
type GormTransitionRepository struct {
	db *gorm.DB
}

// NewGormTransitionRepository creates a new GORM transition repository.
func NewGormTransitionRepository(db *gorm.DB) *GormTransitionRepository {
	return &GormTransitionRepository{db: db}
}

// LoadTransitions reads the whole transition table. An empty result is not an
// error; callers fall back to the compiled-in defaults.
func (r *GormTransitionRepository) LoadTransitions(ctx context.Context) ([]order.Transition, error) {
	var dtos []TransitionDTO
	err := r.db.WithContext(ctx).
		Order("display_order, from_status, to_status").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	transitions := make([]order.Transition, 0, len(dtos))
	for _, dto := range dtos {
		from, convErr := order.StatusFromString(dto.FromStatus)
		if convErr != nil {
			return nil, convErr
		}
		to, convErr := order.StatusFromString(dto.ToStatus)
		if convErr != nil {
			return nil, convErr
		}

		role := actor.Role(dto.RequiredRole)
		if dto.RequiredRole != "" {
			if convErr = role.Validate(); convErr != nil {
				return nil, convErr
			}
		}

		transitions = append(transitions, order.Transition{
			From:         from,
			To:           to,
			RequiredRole: role,
			ActionLabel:  dto.ActionLabel,
			DisplayOrder: dto.DisplayOrder,
		})
	}

	return transitions, nil
}

// Seed inserts the given transitions if the table is empty, so a fresh database
// boots with a visible, editable copy of the defaults.
func (r *GormTransitionRepository) Seed(ctx context.Context, transitions []order.Transition) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&TransitionDTO{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	dtos := make([]TransitionDTO, 0, len(transitions))
	for _, t := range transitions {
		dtos = append(dtos, TransitionDTO{
			FromStatus:   t.From.String(),
			ToStatus:     t.To.String(),
			RequiredRole: t.RequiredRole.String(),
			ActionLabel:  t.ActionLabel,
			DisplayOrder: t.DisplayOrder,
		})
	}

	return r.db.WithContext(ctx).Create(&dtos).Error
}
