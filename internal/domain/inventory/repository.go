package inventory

import (
	"context"
	"time"

	"github.com/batterydepartment/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// InventoryRepository defines the persistence interface for inventory items
type InventoryRepository interface {
	shared.Repository[InventoryItem]
	// FindByWarehouseAndProduct finds the inventory item for a warehouse-product pair
	FindByWarehouseAndProduct(ctx context.Context, warehouseID, productID uuid.UUID) (*InventoryItem, error)
	// FindByProduct finds inventory items for a product across all warehouses
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]InventoryItem, error)
	// FindByWarehouse finds inventory items in a warehouse
	FindByWarehouse(ctx context.Context, warehouseID uuid.UUID, filter shared.Filter) ([]InventoryItem, error)
	// FindBelowMinimum finds items whose total quantity is below their alert threshold
	FindBelowMinimum(ctx context.Context) ([]InventoryItem, error)
	// FindWithExpiredLocks finds items holding locks that expired before the given time
	FindWithExpiredLocks(ctx context.Context, before time.Time) ([]InventoryItem, error)
	// SaveWithVersion saves the item using optimistic locking on the version column
	SaveWithVersion(ctx context.Context, item *InventoryItem, expectedVersion int) error
}

// TransactionRepository defines the persistence interface for the movement audit trail
type TransactionRepository interface {
	// Save persists a transaction record. Records are append-only.
	Save(ctx context.Context, tx *InventoryTransaction) error
	// FindByItem returns movements for an inventory item, newest first
	FindByItem(ctx context.Context, inventoryItemID uuid.UUID, filter shared.Filter) ([]InventoryTransaction, error)
	// FindByWarehouse returns movements in a warehouse within a time range
	FindByWarehouse(ctx context.Context, warehouseID uuid.UUID, from, to time.Time, filter shared.Filter) ([]InventoryTransaction, error)
	// FindBySource returns movements produced by a source document
	FindBySource(ctx context.Context, sourceType SourceType, sourceID string) ([]InventoryTransaction, error)
}
