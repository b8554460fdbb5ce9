package order

import (
	"testing"
	"time"

	"github.com/batterydepartment/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAddress() ShippingAddress {
	return ShippingAddress{
		Name:       "Mike Rowe",
		Line1:      "100 Jobsite Rd",
		City:       "Austin",
		Region:     "US-TX",
		PostalCode: "78701",
		Country:    "US",
	}
}

func newTestOrder(t *testing.T) *Order {
	t.Helper()
	o, err := NewOrder("BD-20260826-0001", uuid.New(), testAddress())
	require.NoError(t, err)
	return o
}

func newPaidOrder(t *testing.T, designID *uuid.UUID) *Order {
	t.Helper()
	o := newTestOrder(t)
	require.NoError(t, o.AddItem(uuid.New(), "BD-20V-5AH", 2, valueobject.NewMoneyUSDFromFloat(149.00), valueobject.NewMoneyUSDFromFloat(149.00), designID))
	require.NoError(t, o.AttachPaymentIntent("pi_123"))
	require.NoError(t, o.MarkPaid())
	o.ClearDomainEvents()
	return o
}

func TestFormatOrderNumber(t *testing.T) {
	day := time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "BD-20260826-0042", FormatOrderNumber(day, 42))
	assert.Equal(t, "BD-20260826-0001", FormatOrderNumber(day, 1))
}

func TestNewOrder(t *testing.T) {
	t.Run("creates pending order", func(t *testing.T) {
		o := newTestOrder(t)
		assert.Equal(t, OrderStatusPending, o.Status)
		assert.True(t, o.Total.IsZero())

		events := o.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeOrderCreated, events[0].EventType())
	})

	t.Run("fails with incomplete address", func(t *testing.T) {
		addr := testAddress()
		addr.PostalCode = ""
		_, err := NewOrder("BD-20260826-0001", uuid.New(), addr)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "incomplete")
	})

	t.Run("fails with bad country code", func(t *testing.T) {
		addr := testAddress()
		addr.Country = "USA"
		_, err := NewOrder("BD-20260826-0001", uuid.New(), addr)
		require.Error(t, err)
	})
}

func TestAddItem(t *testing.T) {
	t.Run("recalculates totals", func(t *testing.T) {
		o := newTestOrder(t)

		require.NoError(t, o.AddItem(uuid.New(), "BD-20V-5AH", 2, valueobject.NewMoneyUSDFromFloat(149.00), valueobject.NewMoneyUSDFromFloat(149.00), nil))
		require.NoError(t, o.AddItem(uuid.New(), "BD-60V-9AH", 1, valueobject.NewMoneyUSDFromFloat(329.00), valueobject.NewMoneyUSDFromFloat(329.00), nil))

		assert.Equal(t, "627.00", o.Total.StringFixed(2))
		assert.Equal(t, "627.00", o.Subtotal.StringFixed(2))
		assert.True(t, o.Discount.IsZero())
		assert.Equal(t, 3, o.TotalUnits())
	})

	t.Run("records volume discount against the list price", func(t *testing.T) {
		o := newTestOrder(t)

		require.NoError(t, o.AddItem(uuid.New(), "BD-20V-5AH", 4,
			valueobject.NewMoneyUSDFromFloat(149.00), valueobject.NewMoneyUSDFromFloat(134.10), nil))

		assert.Equal(t, "596.00", o.Subtotal.StringFixed(2))
		assert.Equal(t, "59.60", o.Discount.StringFixed(2))
		assert.Equal(t, "536.40", o.Total.StringFixed(2))
		assert.Equal(t, "149.00", o.Items[0].ListPrice.StringFixed(2))
		assert.Equal(t, "134.10", o.Items[0].UnitPrice.StringFixed(2))
	})

	t.Run("rejects unit price above the list price", func(t *testing.T) {
		o := newTestOrder(t)
		err := o.AddItem(uuid.New(), "BD-20V-5AH", 1,
			valueobject.NewMoneyUSDFromFloat(149.00), valueobject.NewMoneyUSDFromFloat(159.00), nil)
		require.Error(t, err)
	})

	t.Run("rejects items on a paid order", func(t *testing.T) {
		o := newPaidOrder(t, nil)
		err := o.AddItem(uuid.New(), "BD-20V-5AH", 1, valueobject.NewMoneyUSDFromFloat(149.00), valueobject.NewMoneyUSDFromFloat(149.00), nil)
		require.Error(t, err)
	})

	t.Run("rejects zero quantity", func(t *testing.T) {
		o := newTestOrder(t)
		err := o.AddItem(uuid.New(), "BD-20V-5AH", 0, valueobject.NewMoneyUSDFromFloat(149.00), valueobject.NewMoneyUSDFromFloat(149.00), nil)
		require.Error(t, err)
	})
}

func TestOrderStateMachine(t *testing.T) {
	t.Run("pending to paid", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.AddItem(uuid.New(), "BD-20V-5AH", 1, valueobject.NewMoneyUSDFromFloat(149.00), valueobject.NewMoneyUSDFromFloat(149.00), nil))
		require.NoError(t, o.AttachPaymentIntent("pi_123"))

		require.NoError(t, o.MarkPaid())
		assert.Equal(t, OrderStatusPaid, o.Status)
		require.NotNil(t, o.PaidAt)
	})

	t.Run("cannot pay twice", func(t *testing.T) {
		o := newPaidOrder(t, nil)
		require.Error(t, o.MarkPaid())
	})

	t.Run("paid order without engraving ships directly", func(t *testing.T) {
		o := newPaidOrder(t, nil)
		require.NoError(t, o.Ship("1Z999AA10123456784"))
		assert.Equal(t, OrderStatusShipped, o.Status)
		require.NotNil(t, o.ShippedAt)
	})

	t.Run("engraved order goes through production", func(t *testing.T) {
		designID := uuid.New()
		o := newPaidOrder(t, &designID)

		require.NoError(t, o.StartProduction())
		assert.Equal(t, OrderStatusInProduction, o.Status)

		require.NoError(t, o.Ship("1Z999AA10123456784"))
		require.NoError(t, o.Deliver())
		assert.Equal(t, OrderStatusDelivered, o.Status)
	})

	t.Run("production requires engraved items", func(t *testing.T) {
		o := newPaidOrder(t, nil)
		err := o.StartProduction()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no engraved items")
	})

	t.Run("shipping requires tracking number", func(t *testing.T) {
		o := newPaidOrder(t, nil)
		require.Error(t, o.Ship(""))
	})

	t.Run("cannot cancel a shipped order", func(t *testing.T) {
		o := newPaidOrder(t, nil)
		require.NoError(t, o.Ship("1Z999AA10123456784"))
		require.Error(t, o.Cancel("changed my mind"))
	})

	t.Run("cancel records reason and emits event", func(t *testing.T) {
		o := newTestOrder(t)
		o.ClearDomainEvents()

		require.NoError(t, o.Cancel("payment abandoned"))
		assert.Equal(t, OrderStatusCancelled, o.Status)
		assert.Equal(t, "payment abandoned", o.CancelReason)

		events := o.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeOrderCancelled, events[0].EventType())
	})

	t.Run("delivered is terminal", func(t *testing.T) {
		assert.False(t, OrderStatusDelivered.CanTransitionTo(OrderStatusShipped))
		assert.False(t, OrderStatusCancelled.CanTransitionTo(OrderStatusPending))
	})
}

func TestAttachStockLock(t *testing.T) {
	o := newTestOrder(t)
	require.NoError(t, o.AddItem(uuid.New(), "BD-20V-5AH", 1, valueobject.NewMoneyUSDFromFloat(149.00), valueobject.NewMoneyUSDFromFloat(149.00), nil))

	itemID := o.Items[0].ID
	lockID := uuid.New()
	warehouseID := uuid.New()

	require.NoError(t, o.AttachStockLock(itemID, lockID, warehouseID))
	require.NotNil(t, o.Items[0].StockLockID)
	assert.Equal(t, lockID, *o.Items[0].StockLockID)

	require.Error(t, o.AttachStockLock(uuid.New(), lockID, warehouseID))
}

func TestOrderPaidEventPayload(t *testing.T) {
	designID := uuid.New()
	o := newTestOrder(t)
	require.NoError(t, o.AddItem(uuid.New(), "BD-20V-5AH", 1, valueobject.NewMoneyUSDFromFloat(149.00), valueobject.NewMoneyUSDFromFloat(149.00), &designID))
	require.NoError(t, o.AttachPaymentIntent("pi_123"))
	o.ClearDomainEvents()

	require.NoError(t, o.MarkPaid())

	events := o.GetDomainEvents()
	require.Len(t, events, 1)
	event, ok := events[0].(*OrderPaidEvent)
	require.True(t, ok)
	assert.Equal(t, "pi_123", event.PaymentIntentID)
	assert.True(t, event.HasEngraving)
}
