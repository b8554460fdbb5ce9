package order

import (
	"context"
	"time"

	"github.com/batterydepartment/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// OrderRepository defines the persistence interface for orders
type OrderRepository interface {
	shared.Repository[Order]
	FindByNumber(ctx context.Context, number string) (*Order, error)
	FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]Order, error)
	FindByStatus(ctx context.Context, status OrderStatus, filter shared.Filter) ([]Order, error)
	FindByPaymentIntent(ctx context.Context, intentID string) (*Order, error)
	// CountForDay returns the number of orders created on the given day,
	// used to allocate the daily order number sequence.
	CountForDay(ctx context.Context, day time.Time) (int64, error)
}
