package queries_test

import (
	"testing"

	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/actor"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGetNotificationsQuery_ValidInput(t *testing.T) {
	recipientID := kernel.NewUUID()

	query, err := queries.NewGetNotificationsQuery(recipientID, actor.RoleCourier)
	require.NoError(t, err)
	assert.Equal(t, recipientID, query.RecipientID())
	assert.Equal(t, actor.RoleCourier, query.Role())
}

func TestNewGetNotificationsQuery_InvalidRecipientID(t *testing.T) {
	_, err := queries.NewGetNotificationsQuery(kernel.UUID{}, actor.RoleCustomer)
	require.Error(t, err)
	assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}

func TestNewGetNotificationsQuery_InvalidRole(t *testing.T) {
	_, err := queries.NewGetNotificationsQuery(kernel.NewUUID(), actor.Role("driver"))
	require.Error(t, err)
}

func TestGetNotificationsQuery_Validate_NotConstructed(t *testing.T) {
	query := queries.GetNotificationsQuery{}
	err := query.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, queries.ErrGetNotificationsQueryIsNotConstructed)
}
