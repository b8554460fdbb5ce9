package inventory

import (
	"time"

	"github.com/batterydepartment/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TransactionType represents the type of inventory transaction
type TransactionType string

const (
	// TransactionTypeInbound represents stock received from a supplier
	TransactionTypeInbound TransactionType = "INBOUND"
	// TransactionTypeOutbound represents stock leaving inventory (shipment)
	TransactionTypeOutbound TransactionType = "OUTBOUND"
	// TransactionTypeAdjustmentIncrease represents positive stock adjustment
	TransactionTypeAdjustmentIncrease TransactionType = "ADJUSTMENT_INCREASE"
	// TransactionTypeAdjustmentDecrease represents negative stock adjustment
	TransactionTypeAdjustmentDecrease TransactionType = "ADJUSTMENT_DECREASE"
	// TransactionTypeLock represents stock reserved for a pending checkout
	TransactionTypeLock TransactionType = "LOCK"
	// TransactionTypeUnlock represents a reservation released back to available
	TransactionTypeUnlock TransactionType = "UNLOCK"
)

// String returns the string representation of TransactionType
func (t TransactionType) String() string {
	return string(t)
}

// IsValid returns true if the transaction type is valid
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeInbound,
		TransactionTypeOutbound,
		TransactionTypeAdjustmentIncrease,
		TransactionTypeAdjustmentDecrease,
		TransactionTypeLock,
		TransactionTypeUnlock:
		return true
	}
	return false
}

// SourceType represents the source document type for a transaction
type SourceType string

const (
	// SourceTypeOrder is a storefront order
	SourceTypeOrder SourceType = "ORDER"
	// SourceTypeSupplierReceipt is a supplier delivery into an RHY warehouse
	SourceTypeSupplierReceipt SourceType = "SUPPLIER_RECEIPT"
	// SourceTypeManualAdjustment is a manual correction after a count
	SourceTypeManualAdjustment SourceType = "MANUAL_ADJUSTMENT"
	// SourceTypeLockExpiry is a reservation reclaimed by the stock monitor
	SourceTypeLockExpiry SourceType = "LOCK_EXPIRY"
	// SourceTypeInitialStock is initial stock setup
	SourceTypeInitialStock SourceType = "INITIAL_STOCK"
)

// String returns the string representation of SourceType
func (s SourceType) String() string {
	return string(s)
}

// IsValid returns true if the source type is valid
func (s SourceType) IsValid() bool {
	switch s {
	case SourceTypeOrder,
		SourceTypeSupplierReceipt,
		SourceTypeManualAdjustment,
		SourceTypeLockExpiry,
		SourceTypeInitialStock:
		return true
	}
	return false
}

// InventoryTransaction represents an immutable record of a stock movement.
// Once created, transactions cannot be modified - corrections must be made
// with new transactions.
type InventoryTransaction struct {
	shared.BaseEntity
	InventoryItemID uuid.UUID       `gorm:"type:uuid;not null;index:idx_inv_tx_item"`
	WarehouseID     uuid.UUID       `gorm:"type:uuid;not null;index:idx_inv_tx_warehouse"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null;index:idx_inv_tx_product"`
	TransactionType TransactionType `gorm:"type:varchar(30);not null;index:idx_inv_tx_type"`
	Quantity        int             `gorm:"not null"` // always positive, direction determined by type
	BalanceBefore   int             `gorm:"not null"` // available quantity before the movement
	BalanceAfter    int             `gorm:"not null"` // available quantity after the movement
	SourceType      SourceType      `gorm:"type:varchar(30);not null;index:idx_inv_tx_source"`
	SourceID        string          `gorm:"type:varchar(100);not null;index:idx_inv_tx_source"`
	LockID          *uuid.UUID      `gorm:"type:uuid;index"`
	Reason          string          `gorm:"type:varchar(255)"`
	OperatorID      *uuid.UUID      `gorm:"type:uuid"`
	TransactionDate time.Time       `gorm:"type:timestamptz;not null;index"`
}

// TableName returns the table name for GORM
func (InventoryTransaction) TableName() string {
	return "inventory_transactions"
}

// NewInventoryTransaction creates a new inventory transaction
func NewInventoryTransaction(
	inventoryItemID, warehouseID, productID uuid.UUID,
	txType TransactionType,
	quantity, balanceBefore, balanceAfter int,
	sourceType SourceType,
	sourceID string,
) (*InventoryTransaction, error) {
	if inventoryItemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INVENTORY_ITEM", "Inventory item ID cannot be empty")
	}
	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse ID cannot be empty")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if !txType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TRANSACTION_TYPE", "Unknown transaction type")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Transaction quantity must be positive")
	}
	if !sourceType.IsValid() {
		return nil, shared.NewDomainError("INVALID_SOURCE_TYPE", "Unknown source type")
	}
	if sourceID == "" {
		return nil, shared.NewDomainError("INVALID_SOURCE", "Source ID cannot be empty")
	}

	return &InventoryTransaction{
		BaseEntity:      shared.NewBaseEntity(),
		InventoryItemID: inventoryItemID,
		WarehouseID:     warehouseID,
		ProductID:       productID,
		TransactionType: txType,
		Quantity:        quantity,
		BalanceBefore:   balanceBefore,
		BalanceAfter:    balanceAfter,
		SourceType:      sourceType,
		SourceID:        sourceID,
		TransactionDate: time.Now(),
	}, nil
}

// WithLock associates the transaction with a stock lock
func (t *InventoryTransaction) WithLock(lockID uuid.UUID) *InventoryTransaction {
	t.LockID = &lockID
	return t
}

// WithReason records the reason for the movement
func (t *InventoryTransaction) WithReason(reason string) *InventoryTransaction {
	t.Reason = reason
	return t
}

// WithOperator records the user who performed the movement
func (t *InventoryTransaction) WithOperator(operatorID uuid.UUID) *InventoryTransaction {
	t.OperatorID = &operatorID
	return t
}
