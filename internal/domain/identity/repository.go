package identity

import (
	"context"

	"github.com/batterydepartment/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// UserRepository defines the persistence interface for users
type UserRepository interface {
	shared.Repository[User]

	// FindByEmail finds a user by email (case-insensitive)
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindBySupplier returns all accounts linked to a supplier
	FindBySupplier(ctx context.Context, supplierID uuid.UUID) ([]User, error)

	// ExistsByEmail checks whether the email is already registered
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
