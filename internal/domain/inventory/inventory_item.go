package inventory

import (
	"time"

	"github.com/batterydepartment/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// InventoryItem represents stock of a battery product at a specific warehouse.
// It is the aggregate root for inventory operations.
// The composite identifier is WarehouseID + ProductID.
type InventoryItem struct {
	shared.BaseAggregateRoot
	WarehouseID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_inventory_warehouse_product,priority:1"`
	ProductID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_inventory_warehouse_product,priority:2"`
	AvailableQuantity int       `gorm:"not null;default:0"` // units available for sale
	LockedQuantity    int       `gorm:"not null;default:0"` // units reserved for pending checkouts
	MinQuantity       int       `gorm:"not null;default:0"` // low-stock alert threshold
	MaxQuantity       int       `gorm:"not null;default:0"` // restock ceiling

	// Associations - loaded lazily
	Locks []StockLock `gorm:"foreignKey:InventoryItemID;references:ID"`
}

// TableName returns the table name for GORM
func (InventoryItem) TableName() string {
	return "inventory_items"
}

// NewInventoryItem creates a new inventory item for a warehouse-product combination
func NewInventoryItem(warehouseID, productID uuid.UUID) (*InventoryItem, error) {
	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse ID cannot be empty")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}

	return &InventoryItem{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		WarehouseID:       warehouseID,
		ProductID:         productID,
		Locks:             make([]StockLock, 0),
	}, nil
}

// TotalQuantity returns the total quantity (available + locked)
func (i *InventoryItem) TotalQuantity() int {
	return i.AvailableQuantity + i.LockedQuantity
}

// IncreaseStock increases available stock, typically from a supplier receipt
func (i *InventoryItem) IncreaseStock(quantity int, sourceType, sourceID string) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if sourceType == "" || sourceID == "" {
		return shared.NewDomainError("INVALID_SOURCE", "Source type and ID are required")
	}

	i.AvailableQuantity += quantity
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	i.AddDomainEvent(NewStockIncreasedEvent(i, quantity, sourceType, sourceID))

	return nil
}

// LockStock reserves a quantity of stock for a pending checkout.
// Returns the lock that must later be released or consumed.
func (i *InventoryItem) LockStock(quantity int, sourceType, sourceID string, expireAt time.Time) (*StockLock, error) {
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Lock quantity must be positive")
	}
	if i.AvailableQuantity < quantity {
		return nil, shared.NewDomainError("INSUFFICIENT_STOCK", "Insufficient available stock to lock")
	}
	if sourceType == "" || sourceID == "" {
		return nil, shared.NewDomainError("INVALID_SOURCE", "Source type and ID are required")
	}

	i.AvailableQuantity -= quantity
	i.LockedQuantity += quantity
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	lock := NewStockLock(i.ID, quantity, sourceType, sourceID, expireAt)
	i.Locks = append(i.Locks, *lock)

	i.AddDomainEvent(NewStockLockedEvent(i, quantity, lock.ID, sourceType, sourceID))

	return lock, nil
}

// UnlockStock releases a previously locked quantity back to available
func (i *InventoryItem) UnlockStock(lockID uuid.UUID) error {
	lockIndex := i.findActiveLock(lockID)
	if lockIndex < 0 {
		return shared.NewDomainError("LOCK_NOT_FOUND", "Stock lock not found or already released/consumed")
	}
	lock := &i.Locks[lockIndex]

	i.LockedQuantity -= lock.Quantity
	i.AvailableQuantity += lock.Quantity
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	lock.Release()

	i.AddDomainEvent(NewStockUnlockedEvent(i, lock.Quantity, lockID, lock.SourceType, lock.SourceID))

	return nil
}

// DeductStock consumes locked stock when the order ships
func (i *InventoryItem) DeductStock(lockID uuid.UUID) error {
	lockIndex := i.findActiveLock(lockID)
	if lockIndex < 0 {
		return shared.NewDomainError("LOCK_NOT_FOUND", "Stock lock not found or already released/consumed")
	}
	lock := &i.Locks[lockIndex]

	i.LockedQuantity -= lock.Quantity
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	lock.Consume()

	i.AddDomainEvent(NewStockDeductedEvent(i, lock.Quantity, lockID, lock.SourceType, lock.SourceID))

	if i.IsBelowMinimum() {
		i.AddDomainEvent(NewStockBelowThresholdEvent(i))
	}

	return nil
}

// AdjustStock sets available stock to the counted quantity.
// The reason is recorded for audit purposes.
func (i *InventoryItem) AdjustStock(actualQuantity int, reason string) error {
	if actualQuantity < 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Actual quantity cannot be negative")
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Adjustment reason is required")
	}
	// Cannot adjust while checkouts hold reservations
	if i.LockedQuantity > 0 {
		return shared.NewDomainError("HAS_LOCKED_STOCK", "Cannot adjust stock while there are outstanding locks")
	}

	oldQuantity := i.AvailableQuantity
	i.AvailableQuantity = actualQuantity
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	i.AddDomainEvent(NewStockAdjustedEvent(i, oldQuantity, actualQuantity, reason))

	if i.IsBelowMinimum() {
		i.AddDomainEvent(NewStockBelowThresholdEvent(i))
	}

	return nil
}

// SetThresholds sets the low-stock alert threshold and restock ceiling
func (i *InventoryItem) SetThresholds(minQuantity, maxQuantity int) error {
	if minQuantity < 0 || maxQuantity < 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Thresholds cannot be negative")
	}
	if maxQuantity > 0 && maxQuantity < minQuantity {
		return shared.NewDomainError("INVALID_QUANTITY", "Maximum threshold cannot be below minimum")
	}

	i.MinQuantity = minQuantity
	i.MaxQuantity = maxQuantity
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	return nil
}

// IsBelowMinimum returns true if total quantity is below the alert threshold
func (i *InventoryItem) IsBelowMinimum() bool {
	return i.MinQuantity > 0 && i.TotalQuantity() < i.MinQuantity
}

// CanFulfill returns true if the available quantity covers the requested quantity
func (i *InventoryItem) CanFulfill(quantity int) bool {
	return i.AvailableQuantity >= quantity
}

// GetActiveLocks returns all active (non-released, non-consumed) locks
func (i *InventoryItem) GetActiveLocks() []StockLock {
	active := make([]StockLock, 0)
	for _, lock := range i.Locks {
		if lock.IsActive() {
			active = append(active, lock)
		}
	}
	return active
}

// GetExpiredLocks returns locks that have expired but are not yet released
func (i *InventoryItem) GetExpiredLocks() []StockLock {
	expired := make([]StockLock, 0)
	now := time.Now()
	for _, lock := range i.Locks {
		if lock.IsActive() && lock.ExpireAt.Before(now) {
			expired = append(expired, lock)
		}
	}
	return expired
}

// ReleaseExpiredLocks releases all expired locks back to available stock
// and returns snapshots of the locks that were released.
func (i *InventoryItem) ReleaseExpiredLocks() []StockLock {
	released := make([]StockLock, 0)
	for _, lock := range i.GetExpiredLocks() {
		if err := i.UnlockStock(lock.ID); err == nil {
			i.AddDomainEvent(NewStockLockExpiredEvent(i, lock.Quantity, lock.ID, lock.SourceType, lock.SourceID))
			released = append(released, lock)
		}
	}
	return released
}

func (i *InventoryItem) findActiveLock(lockID uuid.UUID) int {
	for idx := range i.Locks {
		if i.Locks[idx].ID == lockID && i.Locks[idx].IsActive() {
			return idx
		}
	}
	return -1
}
