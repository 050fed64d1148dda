package order_test

import (
	"testing"

	"dispatch/internal/core/domain/model/actor"
	"dispatch/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultGraph(t *testing.T) *order.Graph {
	t.Helper()
	g, err := order.DefaultGraph()
	require.NoError(t, err)
	return g
}

func TestNewGraph(t *testing.T) {
	t.Run("should build the default graph", func(t *testing.T) {
		g, err := order.DefaultGraph()
		require.NoError(t, err)
		assert.Len(t, g.Transitions(), len(order.DefaultTransitions()))
	})

	t.Run("should reject empty transition set", func(t *testing.T) {
		_, err := order.NewGraph(nil)
		assert.Error(t, err)
	})

	t.Run("should reject self-transitions", func(t *testing.T) {
		rows := append(order.DefaultTransitions(), order.Transition{
			From: order.StatusReady, To: order.StatusReady, ActionLabel: "Noop", DisplayOrder: 10,
		})
		_, err := order.NewGraph(rows)
		assert.Error(t, err)
	})

	t.Run("should reject transitions out of terminal statuses", func(t *testing.T) {
		rows := append(order.DefaultTransitions(), order.Transition{
			From: order.StatusDelivered, To: order.StatusPending, ActionLabel: "Reopen", DisplayOrder: 10,
		})
		_, err := order.NewGraph(rows)
		assert.Error(t, err)
	})

	t.Run("should reject duplicate rows", func(t *testing.T) {
		rows := append(order.DefaultTransitions(), order.DefaultTransitions()[0])
		_, err := order.NewGraph(rows)
		assert.Error(t, err)
	})

	t.Run("should require a cancellation edge from every non-terminal status", func(t *testing.T) {
		rows := make([]order.Transition, 0)
		for _, row := range order.DefaultTransitions() {
			if row.From == order.StatusReady && row.To == order.StatusCancelled {
				continue
			}
			rows = append(rows, row)
		}
		_, err := order.NewGraph(rows)
		assert.Error(t, err)
	})

	t.Run("should require every status to be reachable from pending", func(t *testing.T) {
		rows := make([]order.Transition, 0)
		for _, row := range order.DefaultTransitions() {
			if row.From == order.StatusReady && row.To == order.StatusOutForDelivery {
				continue
			}
			rows = append(rows, row)
		}
		_, err := order.NewGraph(rows)
		assert.Error(t, err)
	})
}

func TestGraph_IsValidTransition(t *testing.T) {
	g := defaultGraph(t)

	t.Run("should accept configured edges independent of role", func(t *testing.T) {
		valid, err := g.IsValidTransition(order.StatusPending, order.StatusPreparing)
		require.NoError(t, err)
		assert.True(t, valid)

		valid, err = g.IsValidTransition(order.StatusReady, order.StatusOutForDelivery)
		require.NoError(t, err)
		assert.True(t, valid)
	})

	t.Run("should reject absent edges", func(t *testing.T) {
		valid, err := g.IsValidTransition(order.StatusPending, order.StatusDelivered)
		require.NoError(t, err)
		assert.False(t, valid)
	})

	t.Run("should never accept self-transitions", func(t *testing.T) {
		for _, s := range order.AllStatuses() {
			valid, err := g.IsValidTransition(s, s)
			require.NoError(t, err)
			assert.False(t, valid, "self-transition on %s", s)
		}
	})

	t.Run("should report unknown statuses as input errors, not false", func(t *testing.T) {
		_, err := g.IsValidTransition(order.Status("bogus"), order.StatusPending)
		assert.Error(t, err)

		_, err = g.IsValidTransition(order.StatusPending, order.Status("bogus"))
		assert.Error(t, err)
	})
}

func TestGraph_AvailableTransitions(t *testing.T) {
	g := defaultGraph(t)

	t.Run("should filter by role", func(t *testing.T) {
		forRestaurant, err := g.AvailableTransitions(order.StatusPending, actor.RoleRestaurant)
		require.NoError(t, err)
		require.Len(t, forRestaurant, 2)
		assert.Equal(t, order.StatusPreparing, forRestaurant[0].To)
		assert.Equal(t, order.StatusCancelled, forRestaurant[1].To)

		forCourier, err := g.AvailableTransitions(order.StatusPending, actor.RoleCourier)
		require.NoError(t, err)
		require.Len(t, forCourier, 1)
		assert.Equal(t, order.StatusCancelled, forCourier[0].To)
	})

	t.Run("should include role-free rows for every role", func(t *testing.T) {
		for _, role := range []actor.Role{actor.RoleCustomer, actor.RoleRestaurant, actor.RoleCourier, actor.RoleAdmin} {
			available, err := g.AvailableTransitions(order.StatusPending, role)
			require.NoError(t, err)

			var hasCancel bool
			for _, row := range available {
				if row.To == order.StatusCancelled {
					hasCancel = true
				}
			}
			assert.True(t, hasCancel, "role %s should see the cancellation action", role)
		}
	})

	t.Run("should return rows in display order", func(t *testing.T) {
		available, err := g.AvailableTransitions(order.StatusPreparing, actor.RoleRestaurant)
		require.NoError(t, err)
		for i := 1; i < len(available); i++ {
			assert.LessOrEqual(t, available[i-1].DisplayOrder, available[i].DisplayOrder)
		}
	})

	t.Run("should be empty for terminal statuses", func(t *testing.T) {
		for _, s := range []order.Status{order.StatusDelivered, order.StatusCancelled} {
			available, err := g.AvailableTransitions(s, actor.RoleAdmin)
			require.NoError(t, err)
			assert.Empty(t, available)
		}
	})

	t.Run("should reject unknown role", func(t *testing.T) {
		_, err := g.AvailableTransitions(order.StatusPending, actor.Role("driver"))
		assert.Error(t, err)
	})
}

func TestGraph_Authorize(t *testing.T) {
	g := defaultGraph(t)

	t.Run("should authorize a permitted role on an existing edge", func(t *testing.T) {
		row, err := g.Authorize(order.StatusReady, order.StatusOutForDelivery, actor.RoleCourier)
		require.NoError(t, err)
		assert.Equal(t, "Claim delivery", row.ActionLabel)
	})

	t.Run("should reject an absent edge regardless of role", func(t *testing.T) {
		_, err := g.Authorize(order.StatusPending, order.StatusDelivered, actor.RoleAdmin)
		assert.ErrorIs(t, err, order.ErrInvalidTransition)
	})

	t.Run("should reject a role not permitted on an existing edge", func(t *testing.T) {
		_, err := g.Authorize(order.StatusPending, order.StatusPreparing, actor.RoleCustomer)
		assert.ErrorIs(t, err, order.ErrInvalidTransition)
	})

	t.Run("should treat unknown inputs as input errors, not rejections", func(t *testing.T) {
		_, err := g.Authorize(order.Status("bogus"), order.StatusPending, actor.RoleAdmin)
		require.Error(t, err)
		assert.NotErrorIs(t, err, order.ErrInvalidTransition)
	})
}
