package catalog

import (
	"context"

	"github.com/batterydepartment/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductRepository defines the persistence interface for products
type ProductRepository interface {
	shared.Repository[Product]
	FindBySKU(ctx context.Context, sku string) (*Product, error)
	FindBySlug(ctx context.Context, slug string) (*Product, error)
	FindByProductLine(ctx context.Context, line string, filter shared.Filter) ([]Product, error)
	FindActive(ctx context.Context, filter shared.Filter) ([]Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)
	ExistsBySKU(ctx context.Context, sku string) (bool, error)
}
