package partner

import (
	"time"

	"github.com/batterydepartment/backend/internal/domain/partner"
	"github.com/google/uuid"
)

// SupplierResponse represents a supplier in API responses
type SupplierResponse struct {
	ID           uuid.UUID `json:"id"`
	Code         string    `json:"code"`
	Name         string    `json:"name"`
	ContactName  string    `json:"contact_name"`
	ContactEmail string    `json:"contact_email"`
	Phone        string    `json:"phone"`
	Status       string    `json:"status"`
	Notes        string    `json:"notes,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CreateSupplierRequest represents a supplier enrollment
type CreateSupplierRequest struct {
	Code         string `json:"code" binding:"required,min=2,max=20"`
	Name         string `json:"name" binding:"required,min=1,max=200"`
	ContactName  string `json:"contact_name" binding:"max=100"`
	ContactEmail string `json:"contact_email" binding:"required,email"`
	Phone        string `json:"phone" binding:"max=30"`
}

// UpdateSupplierRequest updates a supplier's contact information
type UpdateSupplierRequest struct {
	Name         string `json:"name" binding:"required,min=1,max=200"`
	ContactName  string `json:"contact_name" binding:"max=100"`
	ContactEmail string `json:"contact_email" binding:"required,email"`
	Phone        string `json:"phone" binding:"max=30"`
}

// SuspendSupplierRequest suspends a supplier with a reason
type SuspendSupplierRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// SupplierListFilter represents filter options for the supplier list
type SupplierListFilter struct {
	Status   string `form:"status" binding:"omitempty,oneof=pending active suspended"`
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// WarehouseResponse represents a warehouse in API responses
type WarehouseResponse struct {
	ID         uuid.UUID `json:"id"`
	SupplierID uuid.UUID `json:"supplier_id"`
	Code       string    `json:"code"`
	Name       string    `json:"name"`
	City       string    `json:"city"`
	Region     string    `json:"region"`
	Capacity   int       `json:"capacity"`
	IsDefault  bool      `json:"is_default"`
	Status     string    `json:"status"`
	SortOrder  int       `json:"sort_order"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CreateWarehouseRequest represents a new warehouse registration
type CreateWarehouseRequest struct {
	SupplierID uuid.UUID `json:"supplier_id" binding:"required"`
	Code       string    `json:"code" binding:"required,min=2,max=20"`
	Name       string    `json:"name" binding:"required,min=1,max=100"`
	City       string    `json:"city" binding:"max=100"`
	Region     string    `json:"region" binding:"required,min=2,max=10"`
	Capacity   int       `json:"capacity" binding:"min=0"`
}

// UpdateWarehouseRequest updates a warehouse's basic information
type UpdateWarehouseRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=100"`
	City     string `json:"city" binding:"max=100"`
	Capacity int    `json:"capacity" binding:"min=0"`
}

// DisableWarehouseRequest takes a warehouse out of rotation
type DisableWarehouseRequest struct {
	Force bool `json:"force"`
}

// SupplierInventoryRow is one product line in the supplier inventory dashboard
type SupplierInventoryRow struct {
	WarehouseID       uuid.UUID `json:"warehouse_id"`
	WarehouseCode     string    `json:"warehouse_code"`
	WarehouseName     string    `json:"warehouse_name"`
	ProductID         uuid.UUID `json:"product_id"`
	AvailableQuantity int       `json:"available_quantity"`
	LockedQuantity    int       `json:"locked_quantity"`
	MinQuantity       int       `json:"min_quantity"`
	IsBelowMinimum    bool      `json:"is_below_minimum"`
}

// SupplierInventoryResponse is the supplier portal inventory view
type SupplierInventoryResponse struct {
	SupplierID uuid.UUID              `json:"supplier_id"`
	Rows       []SupplierInventoryRow `json:"rows"`
}

// ToSupplierResponse converts a domain Supplier to a response DTO
func ToSupplierResponse(supplier *partner.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:           supplier.ID,
		Code:         supplier.Code,
		Name:         supplier.Name,
		ContactName:  supplier.ContactName,
		ContactEmail: supplier.ContactEmail,
		Phone:        supplier.Phone,
		Status:       string(supplier.Status),
		Notes:        supplier.Notes,
		CreatedAt:    supplier.CreatedAt,
		UpdatedAt:    supplier.UpdatedAt,
	}
}

// ToSupplierResponses converts a slice of suppliers to response DTOs
func ToSupplierResponses(suppliers []partner.Supplier) []SupplierResponse {
	responses := make([]SupplierResponse, len(suppliers))
	for i := range suppliers {
		responses[i] = ToSupplierResponse(&suppliers[i])
	}
	return responses
}

// ToWarehouseResponse converts a domain Warehouse to a response DTO
func ToWarehouseResponse(warehouse *partner.Warehouse) WarehouseResponse {
	return WarehouseResponse{
		ID:         warehouse.ID,
		SupplierID: warehouse.SupplierID,
		Code:       warehouse.Code,
		Name:       warehouse.Name,
		City:       warehouse.City,
		Region:     warehouse.Region,
		Capacity:   warehouse.Capacity,
		IsDefault:  warehouse.IsDefault,
		Status:     string(warehouse.Status),
		SortOrder:  warehouse.SortOrder,
		CreatedAt:  warehouse.CreatedAt,
		UpdatedAt:  warehouse.UpdatedAt,
	}
}

// ToWarehouseResponses converts a slice of warehouses to response DTOs
func ToWarehouseResponses(warehouses []partner.Warehouse) []WarehouseResponse {
	responses := make([]WarehouseResponse, len(warehouses))
	for i := range warehouses {
		responses[i] = ToWarehouseResponse(&warehouses[i])
	}
	return responses
}
