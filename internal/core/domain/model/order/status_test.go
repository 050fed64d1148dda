package order_test

import (
	"testing"

	"dispatch/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFromString(t *testing.T) {
	t.Run("should accept all six statuses", func(t *testing.T) {
		for _, s := range []string{"pending", "preparing", "ready", "out_for_delivery", "delivered", "cancelled"} {
			status, err := order.StatusFromString(s)
			require.NoError(t, err)
			assert.Equal(t, s, status.String())
		}
	})

	t.Run("should reject any other string as a format error", func(t *testing.T) {
		for _, s := range []string{"", "Pending", "in_transit", "OUT_FOR_DELIVERY", "done"} {
			_, err := order.StatusFromString(s)
			assert.Error(t, err, "expected error for input: %q", s)
		}
	})
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.True(t, order.StatusDelivered.IsTerminal())
	assert.True(t, order.StatusCancelled.IsTerminal())

	for _, s := range []order.Status{order.StatusPending, order.StatusPreparing, order.StatusReady, order.StatusOutForDelivery} {
		assert.False(t, s.IsTerminal(), "%s must not be terminal", s)
	}
}

func TestStatus_Rank(t *testing.T) {
	t.Run("should rank statuses in display order", func(t *testing.T) {
		statuses := order.AllStatuses()
		for i := 1; i < len(statuses); i++ {
			assert.Less(t, statuses[i-1].Rank(), statuses[i].Rank())
		}
	})

	t.Run("should rank unknown statuses last", func(t *testing.T) {
		assert.Greater(t, order.Status("bogus").Rank(), order.StatusCancelled.Rank())
	})
}

func TestStatus_ValidateCanHaveCourier(t *testing.T) {
	t.Run("courier is attached exactly while out for delivery or delivered", func(t *testing.T) {
		for _, s := range order.AllStatuses() {
			withCourier := s == order.StatusOutForDelivery || s == order.StatusDelivered

			assert.NoError(t, s.ValidateCanHaveCourier(withCourier), "%s with courier=%v", s, withCourier)
			assert.Error(t, s.ValidateCanHaveCourier(!withCourier), "%s with courier=%v", s, !withCourier)
		}
	})
}
