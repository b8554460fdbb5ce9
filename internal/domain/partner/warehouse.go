package partner

import (
	"strings"
	"time"

	"github.com/batterydepartment/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// WarehouseStatus represents the status of a warehouse
type WarehouseStatus string

const (
	WarehouseStatusActive   WarehouseStatus = "active"
	WarehouseStatusDisabled WarehouseStatus = "disabled"
)

// Warehouse represents a supplier fulfillment warehouse in the RHY network.
// It is the aggregate root for warehouse operations.
type Warehouse struct {
	shared.BaseAggregateRoot
	SupplierID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Code       string          `gorm:"type:varchar(20);not null;uniqueIndex"`
	Name       string          `gorm:"type:varchar(100);not null"`
	City       string          `gorm:"type:varchar(100)"`
	Region     string          `gorm:"type:varchar(10);not null;index"` // ISO 3166-2 region code
	Capacity   int             `gorm:"not null;default:0"`              // unit capacity, 0 = unbounded
	IsDefault  bool            `gorm:"not null;default:false"`
	Status     WarehouseStatus `gorm:"type:varchar(20);not null;default:'active'"`
	SortOrder  int             `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Warehouse) TableName() string {
	return "warehouses"
}

// NewWarehouse creates a new active warehouse for a supplier
func NewWarehouse(supplierID uuid.UUID, code, name, region string) (*Warehouse, error) {
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier ID cannot be empty")
	}
	if err := validateWarehouseCode(code); err != nil {
		return nil, err
	}
	if name == "" || len(name) > 100 {
		return nil, shared.NewDomainError("INVALID_NAME", "Warehouse name must be 1-100 characters")
	}
	if region == "" {
		return nil, shared.NewDomainError("INVALID_REGION", "Warehouse region cannot be empty")
	}

	warehouse := &Warehouse{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SupplierID:        supplierID,
		Code:              strings.ToUpper(code),
		Name:              name,
		Region:            region,
		Status:            WarehouseStatusActive,
	}

	warehouse.AddDomainEvent(NewWarehouseCreatedEvent(warehouse))

	return warehouse, nil
}

// Update updates the warehouse's basic information
func (w *Warehouse) Update(name, city string, capacity int) error {
	if name == "" || len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Warehouse name must be 1-100 characters")
	}
	if capacity < 0 {
		return shared.NewDomainError("INVALID_CAPACITY", "Capacity cannot be negative")
	}

	w.Name = name
	w.City = city
	w.Capacity = capacity
	w.UpdatedAt = time.Now()
	w.IncrementVersion()

	return nil
}

// MarkDefault marks this warehouse as the default fulfillment source.
// The application layer clears the previous default first.
func (w *Warehouse) MarkDefault() error {
	if w.Status != WarehouseStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Only an active warehouse can be the default")
	}

	w.IsDefault = true
	w.UpdatedAt = time.Now()
	w.IncrementVersion()

	return nil
}

// ClearDefault removes the default flag
func (w *Warehouse) ClearDefault() {
	w.IsDefault = false
	w.UpdatedAt = time.Now()
	w.IncrementVersion()
}

// Enable re-activates a disabled warehouse
func (w *Warehouse) Enable() error {
	if w.Status == WarehouseStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Warehouse is already active")
	}

	w.Status = WarehouseStatusActive
	w.UpdatedAt = time.Now()
	w.IncrementVersion()

	w.AddDomainEvent(NewWarehouseStatusChangedEvent(w, WarehouseStatusDisabled, WarehouseStatusActive))

	return nil
}

// Disable takes the warehouse out of fulfillment rotation.
// The default warehouse cannot be disabled; a warehouse that still holds
// stock requires the force flag, which expects the caller to rehome or
// write off the remaining units.
func (w *Warehouse) Disable(remainingStock int, force bool) error {
	if w.Status == WarehouseStatusDisabled {
		return shared.NewDomainError("ALREADY_DISABLED", "Warehouse is already disabled")
	}
	if w.IsDefault {
		return shared.NewDomainError("IS_DEFAULT", "The default warehouse cannot be disabled")
	}
	if remainingStock > 0 && !force {
		return shared.NewDomainError("HAS_STOCK", "Warehouse still holds stock; use force to disable anyway")
	}

	w.Status = WarehouseStatusDisabled
	w.UpdatedAt = time.Now()
	w.IncrementVersion()

	w.AddDomainEvent(NewWarehouseStatusChangedEvent(w, WarehouseStatusActive, WarehouseStatusDisabled))

	return nil
}

// IsActive returns true if the warehouse can fulfill orders
func (w *Warehouse) IsActive() bool {
	return w.Status == WarehouseStatusActive
}

// validateWarehouseCode validates the warehouse code
func validateWarehouseCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Warehouse code cannot be empty")
	}
	if len(code) > 20 {
		return shared.NewDomainError("INVALID_CODE", "Warehouse code cannot exceed 20 characters")
	}
	for _, r := range code {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-') {
			return shared.NewDomainError("INVALID_CODE", "Warehouse code can only contain letters, numbers, and hyphens")
		}
	}
	return nil
}
