package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/batterydepartment/backend/internal/domain/inventory"
	"github.com/batterydepartment/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormInventoryRepository implements inventory.InventoryRepository using GORM
type GormInventoryRepository struct {
	db *gorm.DB
}

// NewGormInventoryRepository creates a new GormInventoryRepository
func NewGormInventoryRepository(db *gorm.DB) *GormInventoryRepository {
	return &GormInventoryRepository{db: db}
}

// FindByID finds an inventory item by its ID
func (r *GormInventoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.InventoryItem, error) {
	var item inventory.InventoryItem
	if err := r.db.WithContext(ctx).Preload("Locks").First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindByWarehouseAndProduct finds the item for a product in a warehouse
func (r *GormInventoryRepository) FindByWarehouseAndProduct(ctx context.Context, warehouseID, productID uuid.UUID) (*inventory.InventoryItem, error) {
	var item inventory.InventoryItem
	if err := r.db.WithContext(ctx).Preload("Locks").
		Where("warehouse_id = ? AND product_id = ?", warehouseID, productID).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindByProduct returns all inventory items holding a product, across warehouses
func (r *GormInventoryRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]inventory.InventoryItem, error) {
	var items []inventory.InventoryItem
	if err := r.db.WithContext(ctx).Preload("Locks").
		Where("product_id = ?", productID).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindByWarehouse returns all inventory items in a warehouse
func (r *GormInventoryRepository) FindByWarehouse(ctx context.Context, warehouseID uuid.UUID, filter shared.Filter) ([]inventory.InventoryItem, error) {
	var items []inventory.InventoryItem
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&inventory.InventoryItem{}).Preload("Locks").
			Where("warehouse_id = ?", warehouseID),
		filter,
	)

	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindBelowMinimum returns items whose total stock is below their minimum threshold
func (r *GormInventoryRepository) FindBelowMinimum(ctx context.Context) ([]inventory.InventoryItem, error) {
	var items []inventory.InventoryItem
	if err := r.db.WithContext(ctx).Preload("Locks").
		Where("min_quantity > 0 AND available_quantity + locked_quantity < min_quantity").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindWithExpiredLocks returns items holding at least one unreleased lock
// that expired before the given time
func (r *GormInventoryRepository) FindWithExpiredLocks(ctx context.Context, before time.Time) ([]inventory.InventoryItem, error) {
	var items []inventory.InventoryItem
	if err := r.db.WithContext(ctx).Preload("Locks").
		Where("id IN (?)", r.db.Model(&inventory.StockLock{}).
			Select("inventory_item_id").
			Where("released = ? AND consumed = ? AND expire_at < ?", false, false, before)).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindAll finds all inventory items matching the filter
func (r *GormInventoryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.InventoryItem, error) {
	var items []inventory.InventoryItem
	query := r.applyFilter(r.db.WithContext(ctx).Model(&inventory.InventoryItem{}).Preload("Locks"), filter)

	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Save creates or updates an inventory item along with its locks
func (r *GormInventoryRepository) Save(ctx context.Context, item *inventory.InventoryItem) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(item).Error
}

// SaveWithVersion updates an item only if its stored version still matches
// the expected one. Returns shared.ErrConcurrencyConflict when another
// writer got there first.
func (r *GormInventoryRepository) SaveWithVersion(ctx context.Context, item *inventory.InventoryItem, expectedVersion int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&inventory.InventoryItem{}).
			Where("id = ? AND version = ?", item.ID, expectedVersion).
			Updates(map[string]interface{}{
				"available_quantity": item.AvailableQuantity,
				"locked_quantity":    item.LockedQuantity,
				"min_quantity":       item.MinQuantity,
				"max_quantity":       item.MaxQuantity,
				"version":            item.Version,
				"updated_at":         item.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}

		for i := range item.Locks {
			if err := tx.Save(&item.Locks[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete deletes an inventory item
func (r *GormInventoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&inventory.InventoryItem{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts inventory items matching the filter
func (r *GormInventoryRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&inventory.InventoryItem{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormInventoryRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order("updated_at DESC")
	}

	return query
}

func (r *GormInventoryRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "warehouse_id":
			query = query.Where("warehouse_id = ?", value)
		case "product_id":
			query = query.Where("product_id = ?", value)
		case "below_minimum":
			if value == true {
				query = query.Where("min_quantity > 0 AND available_quantity + locked_quantity < min_quantity")
			}
		}
	}

	return query
}

// Ensure GormInventoryRepository implements InventoryRepository
var _ inventory.InventoryRepository = (*GormInventoryRepository)(nil)
