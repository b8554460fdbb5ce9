package partner

import (
	"regexp"
	"strings"
	"time"

	"github.com/batterydepartment/backend/internal/domain/shared"
)

// SupplierStatus represents the status of a supplier
type SupplierStatus string

const (
	SupplierStatusPending   SupplierStatus = "pending"
	SupplierStatusActive    SupplierStatus = "active"
	SupplierStatusSuspended SupplierStatus = "suspended"
)

var supplierEmailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Supplier represents a battery supplier enrolled in the RHY portal.
// A supplier owns one or more warehouses and receives inbound stock.
type Supplier struct {
	shared.BaseAggregateRoot
	Code         string         `gorm:"type:varchar(20);not null;uniqueIndex"`
	Name         string         `gorm:"type:varchar(200);not null"`
	ContactName  string         `gorm:"type:varchar(100)"`
	ContactEmail string         `gorm:"type:varchar(255);not null"`
	Phone        string         `gorm:"type:varchar(30)"`
	Status       SupplierStatus `gorm:"type:varchar(20);not null;default:'pending'"`
	Notes        string         `gorm:"type:text"`
	Warehouses   []Warehouse    `gorm:"foreignKey:SupplierID"`
}

// TableName returns the table name for GORM
func (Supplier) TableName() string {
	return "suppliers"
}

// NewSupplier creates a new supplier in pending status
func NewSupplier(code, name, contactEmail string) (*Supplier, error) {
	if err := validateSupplierCode(code); err != nil {
		return nil, err
	}
	if name == "" || len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Supplier name must be 1-200 characters")
	}
	if !supplierEmailRegex.MatchString(contactEmail) {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Contact email is not a valid email address")
	}

	supplier := &Supplier{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		Name:              name,
		ContactEmail:      strings.ToLower(contactEmail),
		Status:            SupplierStatusPending,
	}

	supplier.AddDomainEvent(NewSupplierCreatedEvent(supplier))

	return supplier, nil
}

// Update updates the supplier's contact information
func (s *Supplier) Update(name, contactName, contactEmail, phone string) error {
	if name == "" || len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Supplier name must be 1-200 characters")
	}
	if !supplierEmailRegex.MatchString(contactEmail) {
		return shared.NewDomainError("INVALID_EMAIL", "Contact email is not a valid email address")
	}

	s.Name = name
	s.ContactName = contactName
	s.ContactEmail = strings.ToLower(contactEmail)
	s.Phone = phone
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// Activate approves a pending or suspended supplier for fulfillment
func (s *Supplier) Activate() error {
	if s.Status == SupplierStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Supplier is already active")
	}

	previous := s.Status
	s.Status = SupplierStatusActive
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	s.AddDomainEvent(NewSupplierStatusChangedEvent(s, previous, SupplierStatusActive))

	return nil
}

// Suspend removes the supplier from fulfillment. Its warehouses stop
// receiving stock locks but existing locks are allowed to drain.
func (s *Supplier) Suspend(reason string) error {
	if s.Status != SupplierStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Only an active supplier can be suspended")
	}
	if reason == "" {
		return shared.NewDomainError("REASON_REQUIRED", "Suspension reason is required")
	}

	s.Status = SupplierStatusSuspended
	s.Notes = reason
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	s.AddDomainEvent(NewSupplierStatusChangedEvent(s, SupplierStatusActive, SupplierStatusSuspended))

	return nil
}

// IsActive returns true if the supplier can fulfill orders
func (s *Supplier) IsActive() bool {
	return s.Status == SupplierStatusActive
}

// validateSupplierCode validates the supplier code
func validateSupplierCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Supplier code cannot be empty")
	}
	if len(code) > 20 {
		return shared.NewDomainError("INVALID_CODE", "Supplier code cannot exceed 20 characters")
	}
	for _, r := range code {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-') {
			return shared.NewDomainError("INVALID_CODE", "Supplier code can only contain letters, numbers, and hyphens")
		}
	}
	return nil
}
