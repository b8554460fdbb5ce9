package inventory

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestItem(t *testing.T) *InventoryItem {
	t.Helper()
	item, err := NewInventoryItem(uuid.New(), uuid.New())
	require.NoError(t, err)
	return item
}

func newStockedItem(t *testing.T, qty int) *InventoryItem {
	t.Helper()
	item := newTestItem(t)
	require.NoError(t, item.IncreaseStock(qty, "SUPPLIER_RECEIPT", "RCPT-001"))
	item.ClearDomainEvents()
	return item
}

func TestNewInventoryItem(t *testing.T) {
	t.Run("creates item with zero quantities", func(t *testing.T) {
		item := newTestItem(t)
		assert.Equal(t, 0, item.AvailableQuantity)
		assert.Equal(t, 0, item.LockedQuantity)
		assert.Equal(t, 0, item.TotalQuantity())
	})

	t.Run("fails with nil warehouse", func(t *testing.T) {
		_, err := NewInventoryItem(uuid.Nil, uuid.New())
		require.Error(t, err)
	})

	t.Run("fails with nil product", func(t *testing.T) {
		_, err := NewInventoryItem(uuid.New(), uuid.Nil)
		require.Error(t, err)
	})
}

func TestIncreaseStock(t *testing.T) {
	t.Run("increases available quantity", func(t *testing.T) {
		item := newTestItem(t)
		require.NoError(t, item.IncreaseStock(50, "SUPPLIER_RECEIPT", "RCPT-001"))

		assert.Equal(t, 50, item.AvailableQuantity)
		assert.Equal(t, 2, item.GetVersion())

		events := item.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeStockIncreased, events[0].EventType())
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		item := newTestItem(t)
		require.Error(t, item.IncreaseStock(0, "SUPPLIER_RECEIPT", "RCPT-001"))
		require.Error(t, item.IncreaseStock(-5, "SUPPLIER_RECEIPT", "RCPT-001"))
	})

	t.Run("requires source", func(t *testing.T) {
		item := newTestItem(t)
		require.Error(t, item.IncreaseStock(10, "", "RCPT-001"))
		require.Error(t, item.IncreaseStock(10, "SUPPLIER_RECEIPT", ""))
	})
}

func TestLockStock(t *testing.T) {
	t.Run("moves quantity from available to locked", func(t *testing.T) {
		item := newStockedItem(t, 10)
		expire := time.Now().Add(30 * time.Minute)

		lock, err := item.LockStock(4, "order", "BD-20260826-0001", expire)
		require.NoError(t, err)
		require.NotNil(t, lock)

		assert.Equal(t, 6, item.AvailableQuantity)
		assert.Equal(t, 4, item.LockedQuantity)
		assert.Equal(t, 10, item.TotalQuantity())
		assert.True(t, lock.IsActive())
	})

	t.Run("fails when available stock is insufficient", func(t *testing.T) {
		item := newStockedItem(t, 3)

		_, err := item.LockStock(4, "order", "BD-20260826-0001", time.Now().Add(time.Hour))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Insufficient available stock")
	})

	t.Run("publishes StockLocked event", func(t *testing.T) {
		item := newStockedItem(t, 10)

		lock, err := item.LockStock(2, "order", "BD-20260826-0001", time.Now().Add(time.Hour))
		require.NoError(t, err)

		events := item.GetDomainEvents()
		require.Len(t, events, 1)
		event, ok := events[0].(*StockLockedEvent)
		require.True(t, ok)
		assert.Equal(t, lock.ID, event.LockID)
		assert.Equal(t, 2, event.Quantity)
	})
}

func TestUnlockStock(t *testing.T) {
	t.Run("returns quantity to available", func(t *testing.T) {
		item := newStockedItem(t, 10)
		lock, err := item.LockStock(4, "order", "BD-20260826-0001", time.Now().Add(time.Hour))
		require.NoError(t, err)

		require.NoError(t, item.UnlockStock(lock.ID))
		assert.Equal(t, 10, item.AvailableQuantity)
		assert.Equal(t, 0, item.LockedQuantity)
	})

	t.Run("fails for unknown lock", func(t *testing.T) {
		item := newStockedItem(t, 10)
		err := item.UnlockStock(uuid.New())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})

	t.Run("fails for already released lock", func(t *testing.T) {
		item := newStockedItem(t, 10)
		lock, err := item.LockStock(4, "order", "BD-20260826-0001", time.Now().Add(time.Hour))
		require.NoError(t, err)
		require.NoError(t, item.UnlockStock(lock.ID))

		require.Error(t, item.UnlockStock(lock.ID))
	})
}

func TestDeductStock(t *testing.T) {
	t.Run("consumes locked quantity", func(t *testing.T) {
		item := newStockedItem(t, 10)
		lock, err := item.LockStock(4, "order", "BD-20260826-0001", time.Now().Add(time.Hour))
		require.NoError(t, err)

		require.NoError(t, item.DeductStock(lock.ID))
		assert.Equal(t, 6, item.AvailableQuantity)
		assert.Equal(t, 0, item.LockedQuantity)
		assert.Equal(t, 6, item.TotalQuantity())
	})

	t.Run("emits StockBelowThreshold when crossing the alert line", func(t *testing.T) {
		item := newStockedItem(t, 10)
		require.NoError(t, item.SetThresholds(8, 0))
		lock, err := item.LockStock(4, "order", "BD-20260826-0001", time.Now().Add(time.Hour))
		require.NoError(t, err)
		item.ClearDomainEvents()

		require.NoError(t, item.DeductStock(lock.ID))

		var found bool
		for _, event := range item.GetDomainEvents() {
			if event.EventType() == EventTypeStockBelowThreshold {
				found = true
			}
		}
		assert.True(t, found, "expected StockBelowThreshold event")
	})
}

func TestAdjustStock(t *testing.T) {
	t.Run("sets available to counted quantity", func(t *testing.T) {
		item := newStockedItem(t, 10)

		require.NoError(t, item.AdjustStock(7, "annual count"))
		assert.Equal(t, 7, item.AvailableQuantity)

		events := item.GetDomainEvents()
		require.Len(t, events, 1)
		event, ok := events[0].(*StockAdjustedEvent)
		require.True(t, ok)
		assert.Equal(t, 10, event.OldQuantity)
		assert.Equal(t, 7, event.NewQuantity)
	})

	t.Run("rejects adjustment with outstanding locks", func(t *testing.T) {
		item := newStockedItem(t, 10)
		_, err := item.LockStock(2, "order", "BD-20260826-0001", time.Now().Add(time.Hour))
		require.NoError(t, err)

		err = item.AdjustStock(5, "count")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "outstanding locks")
	})

	t.Run("requires reason", func(t *testing.T) {
		item := newStockedItem(t, 10)
		require.Error(t, item.AdjustStock(5, ""))
	})
}

func TestThresholds(t *testing.T) {
	t.Run("rejects max below min", func(t *testing.T) {
		item := newTestItem(t)
		require.Error(t, item.SetThresholds(10, 5))
	})

	t.Run("IsBelowMinimum ignores zero threshold", func(t *testing.T) {
		item := newTestItem(t)
		assert.False(t, item.IsBelowMinimum())
	})
}

func TestExpiredLocks(t *testing.T) {
	t.Run("releases expired locks and emits events", func(t *testing.T) {
		item := newStockedItem(t, 10)
		_, err := item.LockStock(3, "order", "BD-20260826-0001", time.Now().Add(-time.Minute))
		require.NoError(t, err)
		_, err = item.LockStock(2, "order", "BD-20260826-0002", time.Now().Add(time.Hour))
		require.NoError(t, err)
		item.ClearDomainEvents()

		released := item.ReleaseExpiredLocks()
		require.Len(t, released, 1)
		assert.Equal(t, 3, released[0].Quantity)
		assert.Equal(t, "BD-20260826-0001", released[0].SourceID)
		assert.Equal(t, 8, item.AvailableQuantity)
		assert.Equal(t, 2, item.LockedQuantity)

		var expiredEvents int
		for _, event := range item.GetDomainEvents() {
			if event.EventType() == EventTypeStockLockExpired {
				expiredEvents++
			}
		}
		assert.Equal(t, 1, expiredEvents)
	})

	t.Run("no expired locks releases nothing", func(t *testing.T) {
		item := newStockedItem(t, 10)
		_, err := item.LockStock(2, "order", "BD-20260826-0001", time.Now().Add(time.Hour))
		require.NoError(t, err)

		assert.Empty(t, item.ReleaseExpiredLocks())
	})
}

func TestNewInventoryTransaction(t *testing.T) {
	t.Run("creates valid transaction", func(t *testing.T) {
		tx, err := NewInventoryTransaction(uuid.New(), uuid.New(), uuid.New(),
			TransactionTypeInbound, 50, 0, 50, SourceTypeSupplierReceipt, "RCPT-001")
		require.NoError(t, err)
		assert.Equal(t, TransactionTypeInbound, tx.TransactionType)
		assert.Equal(t, 0, tx.BalanceBefore)
		assert.Equal(t, 50, tx.BalanceAfter)
	})

	t.Run("rejects unknown transaction type", func(t *testing.T) {
		_, err := NewInventoryTransaction(uuid.New(), uuid.New(), uuid.New(),
			TransactionType("TELEPORT"), 50, 0, 50, SourceTypeSupplierReceipt, "RCPT-001")
		require.Error(t, err)
	})

	t.Run("rejects zero quantity", func(t *testing.T) {
		_, err := NewInventoryTransaction(uuid.New(), uuid.New(), uuid.New(),
			TransactionTypeInbound, 0, 0, 0, SourceTypeSupplierReceipt, "RCPT-001")
		require.Error(t, err)
	})
}
