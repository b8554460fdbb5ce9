package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/batterydepartment/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Role represents a user's role in the system
type Role string

const (
	RoleCustomer Role = "customer"
	RoleSupplier Role = "supplier"
	RoleAdmin    Role = "admin"
)

// IsValid checks if the role is valid
func (r Role) IsValid() bool {
	switch r {
	case RoleCustomer, RoleSupplier, RoleAdmin:
		return true
	}
	return false
}

// UserStatus represents the status of a user account
type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusDisabled UserStatus = "disabled"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// User represents an account able to sign in to the storefront or the
// supplier portal. Supplier accounts carry the supplier they act for.
type User struct {
	shared.BaseAggregateRoot
	Email        string     `gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash string     `gorm:"type:varchar(255);not null"`
	DisplayName  string     `gorm:"type:varchar(100)"`
	Role         Role       `gorm:"type:varchar(20);not null;default:'customer'"`
	SupplierID   *uuid.UUID `gorm:"type:uuid;index"`
	Status       UserStatus `gorm:"type:varchar(20);not null;default:'active'"`
	LastLoginAt  *time.Time
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// NewUser creates a new active user. The password hash is produced by the
// infrastructure layer; the domain never sees the plaintext.
func NewUser(email, passwordHash, displayName string, role Role) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailRegex.MatchString(email) {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Email is not a valid email address")
	}
	if passwordHash == "" {
		return nil, shared.NewDomainError("INVALID_PASSWORD", "Password hash cannot be empty")
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Unknown role")
	}
	if len(displayName) > 100 {
		return nil, shared.NewDomainError("INVALID_NAME", "Display name cannot exceed 100 characters")
	}

	user := &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Email:             email,
		PasswordHash:      passwordHash,
		DisplayName:       displayName,
		Role:              role,
		Status:            UserStatusActive,
	}

	user.AddDomainEvent(NewUserRegisteredEvent(user))

	return user, nil
}

// LinkSupplier associates a supplier account with its supplier
func (u *User) LinkSupplier(supplierID uuid.UUID) error {
	if u.Role != RoleSupplier {
		return shared.NewDomainError("INVALID_ROLE", "Only supplier accounts can be linked to a supplier")
	}
	if supplierID == uuid.Nil {
		return shared.NewDomainError("INVALID_SUPPLIER", "Supplier ID cannot be empty")
	}

	u.SupplierID = &supplierID
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	return nil
}

// ChangePassword swaps in a new password hash
func (u *User) ChangePassword(passwordHash string) error {
	if passwordHash == "" {
		return shared.NewDomainError("INVALID_PASSWORD", "Password hash cannot be empty")
	}

	u.PasswordHash = passwordHash
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	return nil
}

// RecordLogin stamps the last successful sign-in
func (u *User) RecordLogin() {
	now := time.Now()
	u.LastLoginAt = &now
	u.UpdatedAt = now
}

// Disable locks the account out
func (u *User) Disable() error {
	if u.Status == UserStatusDisabled {
		return shared.NewDomainError("ALREADY_DISABLED", "User is already disabled")
	}

	u.Status = UserStatusDisabled
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	return nil
}

// Enable restores a disabled account
func (u *User) Enable() error {
	if u.Status == UserStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "User is already active")
	}

	u.Status = UserStatusActive
	u.UpdatedAt = time.Now()
	u.IncrementVersion()

	return nil
}

// IsActive returns true if the account can sign in
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

// HasRole checks whether the user has any of the given roles
func (u *User) HasRole(roles ...Role) bool {
	for _, role := range roles {
		if u.Role == role {
			return true
		}
	}
	return false
}
