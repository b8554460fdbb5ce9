package inventory

import (
	"github.com/batterydepartment/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant
const AggregateTypeInventoryItem = "InventoryItem"

// Event type constants
const (
	EventTypeStockIncreased      = "StockIncreased"
	EventTypeStockLocked         = "StockLocked"
	EventTypeStockUnlocked       = "StockUnlocked"
	EventTypeStockLockExpired    = "StockLockExpired"
	EventTypeStockDeducted       = "StockDeducted"
	EventTypeStockAdjusted       = "StockAdjusted"
	EventTypeStockBelowThreshold = "StockBelowThreshold"
)

// StockIncreasedEvent is raised when stock is received into a warehouse
type StockIncreasedEvent struct {
	shared.BaseDomainEvent
	InventoryItemID uuid.UUID `json:"inventory_item_id"`
	WarehouseID     uuid.UUID `json:"warehouse_id"`
	ProductID       uuid.UUID `json:"product_id"`
	Quantity        int       `json:"quantity"`
	SourceType      string    `json:"source_type"`
	SourceID        string    `json:"source_id"`
}

// NewStockIncreasedEvent creates a new StockIncreasedEvent
func NewStockIncreasedEvent(item *InventoryItem, quantity int, sourceType, sourceID string) *StockIncreasedEvent {
	return &StockIncreasedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockIncreased, AggregateTypeInventoryItem, item.ID),
		InventoryItemID: item.ID,
		WarehouseID:     item.WarehouseID,
		ProductID:       item.ProductID,
		Quantity:        quantity,
		SourceType:      sourceType,
		SourceID:        sourceID,
	}
}

// StockLockedEvent is raised when stock is reserved for a pending checkout
type StockLockedEvent struct {
	shared.BaseDomainEvent
	InventoryItemID uuid.UUID `json:"inventory_item_id"`
	WarehouseID     uuid.UUID `json:"warehouse_id"`
	ProductID       uuid.UUID `json:"product_id"`
	LockID          uuid.UUID `json:"lock_id"`
	Quantity        int       `json:"quantity"`
	SourceType      string    `json:"source_type"`
	SourceID        string    `json:"source_id"`
}

// NewStockLockedEvent creates a new StockLockedEvent
func NewStockLockedEvent(item *InventoryItem, quantity int, lockID uuid.UUID, sourceType, sourceID string) *StockLockedEvent {
	return &StockLockedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockLocked, AggregateTypeInventoryItem, item.ID),
		InventoryItemID: item.ID,
		WarehouseID:     item.WarehouseID,
		ProductID:       item.ProductID,
		LockID:          lockID,
		Quantity:        quantity,
		SourceType:      sourceType,
		SourceID:        sourceID,
	}
}

// StockUnlockedEvent is raised when a reservation is released back to available
type StockUnlockedEvent struct {
	shared.BaseDomainEvent
	InventoryItemID uuid.UUID `json:"inventory_item_id"`
	WarehouseID     uuid.UUID `json:"warehouse_id"`
	ProductID       uuid.UUID `json:"product_id"`
	LockID          uuid.UUID `json:"lock_id"`
	Quantity        int       `json:"quantity"`
	SourceType      string    `json:"source_type"`
	SourceID        string    `json:"source_id"`
}

// NewStockUnlockedEvent creates a new StockUnlockedEvent
func NewStockUnlockedEvent(item *InventoryItem, quantity int, lockID uuid.UUID, sourceType, sourceID string) *StockUnlockedEvent {
	return &StockUnlockedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockUnlocked, AggregateTypeInventoryItem, item.ID),
		InventoryItemID: item.ID,
		WarehouseID:     item.WarehouseID,
		ProductID:       item.ProductID,
		LockID:          lockID,
		Quantity:        quantity,
		SourceType:      sourceType,
		SourceID:        sourceID,
	}
}

// StockLockExpiredEvent is raised when an expired reservation is reclaimed
// by the stock monitor
type StockLockExpiredEvent struct {
	shared.BaseDomainEvent
	InventoryItemID uuid.UUID `json:"inventory_item_id"`
	WarehouseID     uuid.UUID `json:"warehouse_id"`
	ProductID       uuid.UUID `json:"product_id"`
	LockID          uuid.UUID `json:"lock_id"`
	Quantity        int       `json:"quantity"`
	SourceType      string    `json:"source_type"`
	SourceID        string    `json:"source_id"`
}

// NewStockLockExpiredEvent creates a new StockLockExpiredEvent
func NewStockLockExpiredEvent(item *InventoryItem, quantity int, lockID uuid.UUID, sourceType, sourceID string) *StockLockExpiredEvent {
	return &StockLockExpiredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockLockExpired, AggregateTypeInventoryItem, item.ID),
		InventoryItemID: item.ID,
		WarehouseID:     item.WarehouseID,
		ProductID:       item.ProductID,
		LockID:          lockID,
		Quantity:        quantity,
		SourceType:      sourceType,
		SourceID:        sourceID,
	}
}

// StockDeductedEvent is raised when locked stock is consumed by a shipment
type StockDeductedEvent struct {
	shared.BaseDomainEvent
	InventoryItemID uuid.UUID `json:"inventory_item_id"`
	WarehouseID     uuid.UUID `json:"warehouse_id"`
	ProductID       uuid.UUID `json:"product_id"`
	LockID          uuid.UUID `json:"lock_id"`
	Quantity        int       `json:"quantity"`
	SourceType      string    `json:"source_type"`
	SourceID        string    `json:"source_id"`
}

// NewStockDeductedEvent creates a new StockDeductedEvent
func NewStockDeductedEvent(item *InventoryItem, quantity int, lockID uuid.UUID, sourceType, sourceID string) *StockDeductedEvent {
	return &StockDeductedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockDeducted, AggregateTypeInventoryItem, item.ID),
		InventoryItemID: item.ID,
		WarehouseID:     item.WarehouseID,
		ProductID:       item.ProductID,
		LockID:          lockID,
		Quantity:        quantity,
		SourceType:      sourceType,
		SourceID:        sourceID,
	}
}

// StockAdjustedEvent is raised when stock is corrected to a counted quantity
type StockAdjustedEvent struct {
	shared.BaseDomainEvent
	InventoryItemID uuid.UUID `json:"inventory_item_id"`
	WarehouseID     uuid.UUID `json:"warehouse_id"`
	ProductID       uuid.UUID `json:"product_id"`
	OldQuantity     int       `json:"old_quantity"`
	NewQuantity     int       `json:"new_quantity"`
	Reason          string    `json:"reason"`
}

// NewStockAdjustedEvent creates a new StockAdjustedEvent
func NewStockAdjustedEvent(item *InventoryItem, oldQuantity, newQuantity int, reason string) *StockAdjustedEvent {
	return &StockAdjustedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockAdjusted, AggregateTypeInventoryItem, item.ID),
		InventoryItemID: item.ID,
		WarehouseID:     item.WarehouseID,
		ProductID:       item.ProductID,
		OldQuantity:     oldQuantity,
		NewQuantity:     newQuantity,
		Reason:          reason,
	}
}

// StockBelowThresholdEvent is raised when total stock falls below the alert threshold
type StockBelowThresholdEvent struct {
	shared.BaseDomainEvent
	InventoryItemID uuid.UUID `json:"inventory_item_id"`
	WarehouseID     uuid.UUID `json:"warehouse_id"`
	ProductID       uuid.UUID `json:"product_id"`
	TotalQuantity   int       `json:"total_quantity"`
	MinQuantity     int       `json:"min_quantity"`
}

// NewStockBelowThresholdEvent creates a new StockBelowThresholdEvent
func NewStockBelowThresholdEvent(item *InventoryItem) *StockBelowThresholdEvent {
	return &StockBelowThresholdEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockBelowThreshold, AggregateTypeInventoryItem, item.ID),
		InventoryItemID: item.ID,
		WarehouseID:     item.WarehouseID,
		ProductID:       item.ProductID,
		TotalQuantity:   item.TotalQuantity(),
		MinQuantity:     item.MinQuantity,
	}
}
