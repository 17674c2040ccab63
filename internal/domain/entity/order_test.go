package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slawn/pkg/errors"
)

func orderAt(status OrderStatus, enteredAt time.Time) *Order {
	return &Order{ID: "o1", Status: status, StageEnteredAt: &enteredAt}
}

func TestOrderStatus_CanAdvanceTo(t *testing.T) {
	tests := []struct {
		from OrderStatus
		to   OrderStatus
		want bool
	}{
		{OrderPaid, OrderStarted, true},
		{OrderStarted, OrderDelivery, true},
		{OrderDelivery, OrderDone, true},
		{OrderPending, OrderRejected, true},
		{OrderPaid, OrderRejected, true},
		{OrderStarted, OrderRejected, true},
		{OrderDelivery, OrderRejected, true},
		{OrderPending, OrderStarted, false},
		{OrderPaid, OrderDelivery, false},
		{OrderDelivery, OrderStarted, false},
		{OrderDone, OrderRejected, false},
		{OrderCancelled, OrderRejected, false},
		{OrderRejected, OrderStarted, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanAdvanceTo(tt.to))
		})
	}
}

func TestOrder_Advance_StampsStageAndHistory(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	order := orderAt(OrderPaid, now.Add(-time.Hour))

	require.NoError(t, order.Advance(OrderStarted, "admin-1", now))

	assert.Equal(t, OrderStarted, order.Status)
	assert.Equal(t, now, *order.StageEnteredAt)
	require.Len(t, order.Updates, 1)
	assert.Equal(t, "admin-1", order.Updates[0].Actor)
}

func TestOrder_Advance_InvalidLeavesOrderUntouched(t *testing.T) {
	now := time.Now()
	order := orderAt(OrderDone, now.Add(-time.Hour))

	err := order.Advance(OrderDelivery, "admin-1", now)

	assert.True(t, errors.Is(err, errors.CodeInvalidTransition))
	assert.Equal(t, OrderDone, order.Status)
	assert.Empty(t, order.Updates)
}

func TestOrder_Cancel(t *testing.T) {
	now := time.Now()

	t.Run("non-terminal order is cancelled by buyer", func(t *testing.T) {
		order := orderAt(OrderStarted, now.Add(-time.Hour))
		require.NoError(t, order.Cancel("buyer-1", now))
		assert.Equal(t, OrderCancelled, order.Status)
		assert.True(t, order.CancelledByBuyer)
		assert.NotNil(t, order.CancelledAt)
	})

	t.Run("done order cannot be cancelled", func(t *testing.T) {
		order := orderAt(OrderDone, now.Add(-time.Hour))
		err := order.Cancel("buyer-1", now)
		assert.True(t, errors.Is(err, errors.CodeInvalidTransition))
		assert.Equal(t, OrderDone, order.Status)
		assert.False(t, order.CancelledByBuyer)
	})
}

func TestOrder_ConfirmDelivered(t *testing.T) {
	now := time.Now()

	order := orderAt(OrderDelivery, now.Add(-time.Hour))
	require.NoError(t, order.ConfirmDelivered("buyer-1", now))
	assert.Equal(t, OrderDone, order.Status)
	assert.True(t, order.DeliveryConfirmedByBuyer)

	started := orderAt(OrderStarted, now.Add(-time.Hour))
	err := started.ConfirmDelivered("buyer-1", now)
	assert.True(t, errors.Is(err, errors.CodeInvalidTransition))
	assert.Equal(t, OrderStarted, started.Status)
}

func TestOrder_MarkPaid(t *testing.T) {
	now := time.Now()
	order := &Order{Status: OrderPending}

	require.NoError(t, order.MarkPaid("pay-001", now))
	assert.Equal(t, OrderPaid, order.Status)
	assert.Equal(t, "pay-001", order.PaymentReference)

	// same reference again is harmless
	require.NoError(t, order.MarkPaid("pay-001", now))
	assert.Len(t, order.Updates, 1)

	err := order.MarkPaid("pay-002", now)
	assert.True(t, errors.Is(err, errors.CodeInvalidTransition))
}

func TestOrder_ProcessingWindow(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("expired after five hours", func(t *testing.T) {
		order := orderAt(OrderStarted, now.Add(-5*time.Hour))
		assert.True(t, order.HasProcessingExpired(now))
		remaining, ok := order.RemainingProcessingTime(now)
		assert.False(t, ok)
		assert.LessOrEqual(t, remaining, time.Duration(0))
	})

	t.Run("one hour in leaves three hours", func(t *testing.T) {
		order := orderAt(OrderStarted, now.Add(-time.Hour))
		assert.False(t, order.HasProcessingExpired(now))
		remaining, ok := order.RemainingProcessingTime(now)
		assert.True(t, ok)
		assert.Equal(t, 3*time.Hour, remaining)
	})

	t.Run("window closes at exactly four hours", func(t *testing.T) {
		order := orderAt(OrderStarted, now.Add(-ProcessingWindow))
		assert.True(t, order.HasProcessingExpired(now))
		_, ok := order.RemainingProcessingTime(now)
		assert.False(t, ok)

		order = orderAt(OrderStarted, now.Add(-ProcessingWindow+time.Nanosecond))
		assert.False(t, order.HasProcessingExpired(now))
		remaining, ok := order.RemainingProcessingTime(now)
		assert.True(t, ok)
		assert.Equal(t, time.Nanosecond, remaining)
	})

	t.Run("not started has no window", func(t *testing.T) {
		order := orderAt(OrderDelivery, now.Add(-10*time.Hour))
		assert.False(t, order.HasProcessingExpired(now))
		_, ok := order.RemainingProcessingTime(now)
		assert.False(t, ok)
	})
}
