package persistence

import (
	"context"
	"time"

	"github.com/batterydepartment/backend/internal/domain/inventory"
	"github.com/batterydepartment/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTransactionRepository implements inventory.TransactionRepository using GORM.
// Transactions are an append-only ledger; there is no update or delete.
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// Save appends a transaction to the ledger
func (r *GormTransactionRepository) Save(ctx context.Context, txn *inventory.InventoryTransaction) error {
	return r.db.WithContext(ctx).Create(txn).Error
}

// FindByItem returns the ledger for one inventory item, newest first
func (r *GormTransactionRepository) FindByItem(ctx context.Context, itemID uuid.UUID, filter shared.Filter) ([]inventory.InventoryTransaction, error) {
	query := r.db.WithContext(ctx).
		Where("inventory_item_id = ?", itemID).
		Order("transaction_date DESC")

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	var txns []inventory.InventoryTransaction
	if err := query.Find(&txns).Error; err != nil {
		return nil, err
	}
	return txns, nil
}

// FindByWarehouse returns transactions for a warehouse in a time range
func (r *GormTransactionRepository) FindByWarehouse(ctx context.Context, warehouseID uuid.UUID, from, to time.Time, filter shared.Filter) ([]inventory.InventoryTransaction, error) {
	query := r.db.WithContext(ctx).
		Where("warehouse_id = ? AND transaction_date >= ? AND transaction_date < ?", warehouseID, from, to).
		Order("transaction_date ASC")

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	var txns []inventory.InventoryTransaction
	if err := query.Find(&txns).Error; err != nil {
		return nil, err
	}
	return txns, nil
}

// FindBySource returns transactions caused by a specific source document
func (r *GormTransactionRepository) FindBySource(ctx context.Context, sourceType inventory.SourceType, sourceID string) ([]inventory.InventoryTransaction, error) {
	var txns []inventory.InventoryTransaction
	if err := r.db.WithContext(ctx).
		Where("source_type = ? AND source_id = ?", sourceType, sourceID).
		Order("transaction_date ASC").
		Find(&txns).Error; err != nil {
		return nil, err
	}
	return txns, nil
}

// Ensure GormTransactionRepository implements TransactionRepository
var _ inventory.TransactionRepository = (*GormTransactionRepository)(nil)
