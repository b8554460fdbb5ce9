package inventory

import (
	"time"

	"github.com/batterydepartment/backend/internal/domain/inventory"
	"github.com/google/uuid"
)

// InventoryItemResponse represents an inventory item in API responses
type InventoryItemResponse struct {
	ID                uuid.UUID `json:"id"`
	WarehouseID       uuid.UUID `json:"warehouse_id"`
	ProductID         uuid.UUID `json:"product_id"`
	AvailableQuantity int       `json:"available_quantity"`
	LockedQuantity    int       `json:"locked_quantity"`
	TotalQuantity     int       `json:"total_quantity"`
	MinQuantity       int       `json:"min_quantity"`
	MaxQuantity       int       `json:"max_quantity"`
	IsBelowMinimum    bool      `json:"is_below_minimum"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
	Version           int       `json:"version"`
}

// InventoryListFilter represents filter options for the inventory list
type InventoryListFilter struct {
	WarehouseID  *uuid.UUID `form:"warehouse_id"`
	ProductID    *uuid.UUID `form:"product_id"`
	BelowMinimum *bool      `form:"below_minimum"`
	Page         int        `form:"page" binding:"omitempty,min=1"`
	PageSize     int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy      string     `form:"order_by"`
	OrderDir     string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// AvailabilityResponse reports sellable stock for a product across warehouses
type AvailabilityResponse struct {
	ProductID      uuid.UUID               `json:"product_id"`
	TotalAvailable int                     `json:"total_available"`
	CanFulfill     bool                    `json:"can_fulfill"`
	Warehouses     []WarehouseAvailability `json:"warehouses"`
}

// WarehouseAvailability is one warehouse's contribution to availability
type WarehouseAvailability struct {
	WarehouseID       uuid.UUID `json:"warehouse_id"`
	AvailableQuantity int       `json:"available_quantity"`
}

// ReceiveStockRequest represents a supplier delivery into a warehouse
type ReceiveStockRequest struct {
	WarehouseID uuid.UUID `json:"warehouse_id" binding:"required"`
	ProductID   uuid.UUID `json:"product_id" binding:"required"`
	Quantity    int       `json:"quantity" binding:"required,min=1"`
	SourceType  string    `json:"source_type" binding:"required"`
	SourceID    string    `json:"source_id" binding:"required"`
	OperatorID  *uuid.UUID `json:"operator_id"`
}

// LockStockRequest represents a request to reserve stock for a checkout
type LockStockRequest struct {
	WarehouseID uuid.UUID  `json:"warehouse_id" binding:"required"`
	ProductID   uuid.UUID  `json:"product_id" binding:"required"`
	Quantity    int        `json:"quantity" binding:"required,min=1"`
	SourceType  string     `json:"source_type" binding:"required"`
	SourceID    string     `json:"source_id" binding:"required"`
	ExpireAt    *time.Time `json:"expire_at"`
}

// LockStockResponse represents the reservation created for a checkout
type LockStockResponse struct {
	LockID          uuid.UUID `json:"lock_id"`
	InventoryItemID uuid.UUID `json:"inventory_item_id"`
	WarehouseID     uuid.UUID `json:"warehouse_id"`
	ProductID       uuid.UUID `json:"product_id"`
	Quantity        int       `json:"quantity"`
	ExpireAt        time.Time `json:"expire_at"`
}

// AdjustStockRequest represents a cycle-count correction
type AdjustStockRequest struct {
	WarehouseID    uuid.UUID  `json:"warehouse_id" binding:"required"`
	ProductID      uuid.UUID  `json:"product_id" binding:"required"`
	ActualQuantity int        `json:"actual_quantity" binding:"min=0"`
	Reason         string     `json:"reason" binding:"required,min=1,max=255"`
	OperatorID     *uuid.UUID `json:"operator_id"`
}

// SetThresholdsRequest sets the low-stock alert threshold and restock ceiling
type SetThresholdsRequest struct {
	WarehouseID uuid.UUID `json:"warehouse_id" binding:"required"`
	ProductID   uuid.UUID `json:"product_id" binding:"required"`
	MinQuantity int       `json:"min_quantity" binding:"min=0"`
	MaxQuantity int       `json:"max_quantity" binding:"min=0"`
}

// TransactionResponse represents a stock movement in API responses
type TransactionResponse struct {
	ID              uuid.UUID  `json:"id"`
	InventoryItemID uuid.UUID  `json:"inventory_item_id"`
	WarehouseID     uuid.UUID  `json:"warehouse_id"`
	ProductID       uuid.UUID  `json:"product_id"`
	TransactionType string     `json:"transaction_type"`
	Quantity        int        `json:"quantity"`
	BalanceBefore   int        `json:"balance_before"`
	BalanceAfter    int        `json:"balance_after"`
	SourceType      string     `json:"source_type"`
	SourceID        string     `json:"source_id"`
	LockID          *uuid.UUID `json:"lock_id,omitempty"`
	Reason          string     `json:"reason,omitempty"`
	OperatorID      *uuid.UUID `json:"operator_id,omitempty"`
	TransactionDate time.Time  `json:"transaction_date"`
}

// TransactionListFilter represents filter options for the movement audit trail
type TransactionListFilter struct {
	From     *time.Time `form:"from"`
	To       *time.Time `form:"to"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ToInventoryItemResponse converts a domain InventoryItem to a response DTO
func ToInventoryItemResponse(item *inventory.InventoryItem) InventoryItemResponse {
	return InventoryItemResponse{
		ID:                item.ID,
		WarehouseID:       item.WarehouseID,
		ProductID:         item.ProductID,
		AvailableQuantity: item.AvailableQuantity,
		LockedQuantity:    item.LockedQuantity,
		TotalQuantity:     item.TotalQuantity(),
		MinQuantity:       item.MinQuantity,
		MaxQuantity:       item.MaxQuantity,
		IsBelowMinimum:    item.IsBelowMinimum(),
		CreatedAt:         item.CreatedAt,
		UpdatedAt:         item.UpdatedAt,
		Version:           item.Version,
	}
}

// ToInventoryItemResponses converts a slice of items to response DTOs
func ToInventoryItemResponses(items []inventory.InventoryItem) []InventoryItemResponse {
	responses := make([]InventoryItemResponse, len(items))
	for i := range items {
		responses[i] = ToInventoryItemResponse(&items[i])
	}
	return responses
}

// ToTransactionResponse converts a domain InventoryTransaction to a response DTO
func ToTransactionResponse(tx *inventory.InventoryTransaction) TransactionResponse {
	return TransactionResponse{
		ID:              tx.ID,
		InventoryItemID: tx.InventoryItemID,
		WarehouseID:     tx.WarehouseID,
		ProductID:       tx.ProductID,
		TransactionType: string(tx.TransactionType),
		Quantity:        tx.Quantity,
		BalanceBefore:   tx.BalanceBefore,
		BalanceAfter:    tx.BalanceAfter,
		SourceType:      string(tx.SourceType),
		SourceID:        tx.SourceID,
		LockID:          tx.LockID,
		Reason:          tx.Reason,
		OperatorID:      tx.OperatorID,
		TransactionDate: tx.TransactionDate,
	}
}

// ToTransactionResponses converts a slice of transactions to response DTOs
func ToTransactionResponses(txs []inventory.InventoryTransaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(txs))
	for i := range txs {
		responses[i] = ToTransactionResponse(&txs[i])
	}
	return responses
}
