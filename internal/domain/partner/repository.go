package partner

import (
	"context"

	"github.com/batterydepartment/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SupplierRepository defines the persistence interface for suppliers
type SupplierRepository interface {
	shared.Repository[Supplier]

	// FindByCode finds a supplier by its unique code
	FindByCode(ctx context.Context, code string) (*Supplier, error)

	// FindByStatus returns suppliers in the given status
	FindByStatus(ctx context.Context, status SupplierStatus, filter shared.Filter) (*shared.Paginated[Supplier], error)

	// ExistsByCode checks whether a supplier code is already taken
	ExistsByCode(ctx context.Context, code string) (bool, error)
}

// WarehouseRepository defines the persistence interface for warehouses
type WarehouseRepository interface {
	shared.Repository[Warehouse]

	// FindByCode finds a warehouse by its unique code
	FindByCode(ctx context.Context, code string) (*Warehouse, error)

	// FindBySupplier returns all warehouses belonging to a supplier
	FindBySupplier(ctx context.Context, supplierID uuid.UUID) ([]Warehouse, error)

	// FindActive returns all warehouses able to fulfill orders
	FindActive(ctx context.Context) ([]Warehouse, error)

	// FindDefault returns the current default warehouse, or shared.ErrNotFound
	FindDefault(ctx context.Context) (*Warehouse, error)

	// FindByRegion returns active warehouses in a region ordered by sort order
	FindByRegion(ctx context.Context, region string) ([]Warehouse, error)
}
