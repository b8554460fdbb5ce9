package engraving

import (
	"context"

	"github.com/batterydepartment/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// DesignRepository defines the persistence interface for engraving designs
type DesignRepository interface {
	shared.Repository[Design]
	FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]Design, error)
	FindByStatus(ctx context.Context, status DesignStatus, filter shared.Filter) ([]Design, error)
	CountByStatus(ctx context.Context, status DesignStatus) (int64, error)
}
