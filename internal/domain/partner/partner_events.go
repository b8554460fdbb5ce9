package partner

import (
	"github.com/batterydepartment/backend/internal/domain/shared"
)

const (
	AggregateTypeSupplier  = "Supplier"
	AggregateTypeWarehouse = "Warehouse"
)

const (
	EventTypeSupplierCreated        = "SupplierCreated"
	EventTypeSupplierStatusChanged  = "SupplierStatusChanged"
	EventTypeWarehouseCreated       = "WarehouseCreated"
	EventTypeWarehouseStatusChanged = "WarehouseStatusChanged"
)

// SupplierCreatedEvent is published when a supplier is enrolled
type SupplierCreatedEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
	Name string `json:"name"`
}

// NewSupplierCreatedEvent creates a new supplier created event
func NewSupplierCreatedEvent(supplier *Supplier) *SupplierCreatedEvent {
	return &SupplierCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSupplierCreated, AggregateTypeSupplier, supplier.ID),
		Code:            supplier.Code,
		Name:            supplier.Name,
	}
}

// SupplierStatusChangedEvent is published when a supplier's status changes
type SupplierStatusChangedEvent struct {
	shared.BaseDomainEvent
	Code      string         `json:"code"`
	OldStatus SupplierStatus `json:"old_status"`
	NewStatus SupplierStatus `json:"new_status"`
}

// NewSupplierStatusChangedEvent creates a new supplier status changed event
func NewSupplierStatusChangedEvent(supplier *Supplier, oldStatus, newStatus SupplierStatus) *SupplierStatusChangedEvent {
	return &SupplierStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSupplierStatusChanged, AggregateTypeSupplier, supplier.ID),
		Code:            supplier.Code,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}

// WarehouseCreatedEvent is published when a warehouse is registered
type WarehouseCreatedEvent struct {
	shared.BaseDomainEvent
	SupplierID string `json:"supplier_id"`
	Code       string `json:"code"`
	Region     string `json:"region"`
}

// NewWarehouseCreatedEvent creates a new warehouse created event
func NewWarehouseCreatedEvent(warehouse *Warehouse) *WarehouseCreatedEvent {
	return &WarehouseCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeWarehouseCreated, AggregateTypeWarehouse, warehouse.ID),
		SupplierID:      warehouse.SupplierID.String(),
		Code:            warehouse.Code,
		Region:          warehouse.Region,
	}
}

// WarehouseStatusChangedEvent is published when a warehouse is enabled or disabled
type WarehouseStatusChangedEvent struct {
	shared.BaseDomainEvent
	Code      string          `json:"code"`
	OldStatus WarehouseStatus `json:"old_status"`
	NewStatus WarehouseStatus `json:"new_status"`
}

// NewWarehouseStatusChangedEvent creates a new warehouse status changed event
func NewWarehouseStatusChangedEvent(warehouse *Warehouse, oldStatus, newStatus WarehouseStatus) *WarehouseStatusChangedEvent {
	return &WarehouseStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeWarehouseStatusChanged, AggregateTypeWarehouse, warehouse.ID),
		Code:            warehouse.Code,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}
