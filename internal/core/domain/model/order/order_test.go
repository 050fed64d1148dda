package order_test

import (
	"testing"
	"time"

	"dispatch/internal/core/domain/model/actor"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder(
		kernel.NewUUID(),
		kernel.NewUUID(),
		kernel.NewUUID(),
		2550,
		"12 Baker Street",
		"ring twice",
		time.Now(),
	)
	require.NoError(t, err)
	return o
}

func TestNewOrder(t *testing.T) {
	t.Run("should create a pending order without courier", func(t *testing.T) {
		o := newTestOrder(t)

		assert.Equal(t, order.StatusPending, o.Status())
		assert.Nil(t, o.CourierID())
		assert.NoError(t, o.Validate())
		assert.Equal(t, int64(2550), o.TotalPriceCents())
		assert.Equal(t, "12 Baker Street", o.DeliveryAddress())
		assert.Equal(t, "ring twice", o.Notes())
	})

	t.Run("should reject zero identifiers", func(t *testing.T) {
		_, err := order.NewOrder(kernel.UUID{}, kernel.NewUUID(), kernel.NewUUID(), 100, "addr", "", time.Now())
		assert.Error(t, err)

		_, err = order.NewOrder(kernel.NewUUID(), kernel.UUID{}, kernel.NewUUID(), 100, "addr", "", time.Now())
		assert.Error(t, err)

		_, err = order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), kernel.UUID{}, 100, "addr", "", time.Now())
		assert.Error(t, err)
	})

	t.Run("should reject non-positive price and empty address", func(t *testing.T) {
		_, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), 0, "addr", "", time.Now())
		assert.Error(t, err)

		_, err = order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), 100, "", "", time.Now())
		assert.Error(t, err)
	})

	t.Run("should reject direct struct instantiation", func(t *testing.T) {
		var o order.Order
		assert.ErrorIs(t, o.Validate(), order.ErrOrderIsNotConstructed)
	})
}

func TestRestoreOrder(t *testing.T) {
	now := time.Now()

	t.Run("should restore an order out for delivery with its courier", func(t *testing.T) {
		courierID := kernel.NewUUID()
		o, err := order.RestoreOrder(
			kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), &courierID,
			order.StatusOutForDelivery, 1000, "addr", "", now, now,
		)
		require.NoError(t, err)
		require.NotNil(t, o.CourierID())
		assert.True(t, o.CourierID().IsEqual(courierID))
	})

	t.Run("should reject courier on a status that forbids one", func(t *testing.T) {
		courierID := kernel.NewUUID()
		_, err := order.RestoreOrder(
			kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), &courierID,
			order.StatusPending, 1000, "addr", "", now, now,
		)
		assert.Error(t, err)
	})

	t.Run("should reject missing courier on a status that requires one", func(t *testing.T) {
		_, err := order.RestoreOrder(
			kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), nil,
			order.StatusDelivered, 1000, "addr", "", now, now,
		)
		assert.Error(t, err)
	})

	t.Run("should reject unknown persisted status strings", func(t *testing.T) {
		_, err := order.RestoreOrder(
			kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), nil,
			order.Status("shipped"), 1000, "addr", "", now, now,
		)
		assert.Error(t, err)
	})
}

func TestOrder_TransitionTo(t *testing.T) {
	g := defaultGraph(t)
	now := time.Now()

	restaurant := func(t *testing.T) actor.Actor {
		a, err := actor.NewActor(kernel.NewUUID(), actor.RoleRestaurant)
		require.NoError(t, err)
		return a
	}
	courier := func(t *testing.T) actor.Actor {
		a, err := actor.NewActor(kernel.NewUUID(), actor.RoleCourier)
		require.NoError(t, err)
		return a
	}

	t.Run("should walk the full delivery path", func(t *testing.T) {
		o := newTestOrder(t)
		rest := restaurant(t)
		cour := courier(t)

		ev, err := o.TransitionTo(g, order.StatusPreparing, rest, now)
		require.NoError(t, err)
		assert.Equal(t, order.StatusPending, ev.OldStatus)
		assert.Equal(t, order.StatusPreparing, ev.NewStatus)

		_, err = o.TransitionTo(g, order.StatusReady, rest, now)
		require.NoError(t, err)
		assert.Nil(t, o.CourierID())

		ev, err = o.TransitionTo(g, order.StatusOutForDelivery, cour, now)
		require.NoError(t, err)
		require.NotNil(t, o.CourierID())
		assert.True(t, o.CourierID().IsEqual(cour.ID))
		require.NotNil(t, ev.CourierID)

		_, err = o.TransitionTo(g, order.StatusDelivered, cour, now)
		require.NoError(t, err)
		assert.True(t, o.Status().IsTerminal())
		require.NotNil(t, o.CourierID())
	})

	t.Run("should keep courier attached exactly while required at every step", func(t *testing.T) {
		o := newTestOrder(t)
		rest := restaurant(t)
		cour := courier(t)

		steps := []struct {
			to  order.Status
			act actor.Actor
		}{
			{order.StatusPreparing, rest},
			{order.StatusReady, rest},
			{order.StatusOutForDelivery, cour},
			{order.StatusDelivered, cour},
		}
		for _, step := range steps {
			_, err := o.TransitionTo(g, step.to, step.act, now)
			require.NoError(t, err)
			assert.NoError(t, o.Status().ValidateCanHaveCourier(o.CourierID() != nil))
		}
	})

	t.Run("should reject skipping ahead regardless of role", func(t *testing.T) {
		o := newTestOrder(t)

		for _, role := range []actor.Role{actor.RoleRestaurant, actor.RoleCourier, actor.RoleAdmin} {
			a, err := actor.NewActor(kernel.NewUUID(), role)
			require.NoError(t, err)

			_, err = o.TransitionTo(g, order.StatusDelivered, a, now)
			assert.ErrorIs(t, err, order.ErrInvalidTransition)
			assert.Equal(t, order.StatusPending, o.Status())
		}
	})

	t.Run("should reject a claim while the order is still preparing", func(t *testing.T) {
		o := newTestOrder(t)
		_, err := o.TransitionTo(g, order.StatusPreparing, restaurant(t), now)
		require.NoError(t, err)

		_, err = o.TransitionTo(g, order.StatusOutForDelivery, courier(t), now)
		assert.ErrorIs(t, err, order.ErrInvalidTransition)
		assert.Nil(t, o.CourierID())
	})

	t.Run("should detach courier on admin cancellation", func(t *testing.T) {
		o := newTestOrder(t)
		rest := restaurant(t)
		_, err := o.TransitionTo(g, order.StatusPreparing, rest, now)
		require.NoError(t, err)
		_, err = o.TransitionTo(g, order.StatusReady, rest, now)
		require.NoError(t, err)
		cour := courier(t)
		_, err = o.TransitionTo(g, order.StatusOutForDelivery, cour, now)
		require.NoError(t, err)

		admin, err := actor.NewActor(kernel.NewUUID(), actor.RoleAdmin)
		require.NoError(t, err)

		ev, err := o.TransitionTo(g, order.StatusCancelled, admin, now)
		require.NoError(t, err)
		assert.Nil(t, o.CourierID())
		assert.NoError(t, o.Status().ValidateCanHaveCourier(false))

		// the event still names the courier who lost the delivery
		require.NotNil(t, ev.CourierID)
		assert.True(t, ev.CourierID.IsEqual(cour.ID))
	})

	t.Run("should reject everything after a terminal status", func(t *testing.T) {
		o := newTestOrder(t)
		cust, err := actor.NewActor(kernel.NewUUID(), actor.RoleCustomer)
		require.NoError(t, err)

		_, err = o.TransitionTo(g, order.StatusCancelled, cust, now)
		require.NoError(t, err)

		for _, to := range order.AllStatuses() {
			if to == order.StatusCancelled {
				continue
			}
			_, err = o.TransitionTo(g, to, cust, now)
			assert.Error(t, err, "expected rejection for cancelled -> %s", to)
		}
	})
}
