package compliance

import (
	"context"
	"time"

	"github.com/batterydepartment/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CertificateRepository defines the persistence interface for certificates
type CertificateRepository interface {
	shared.Repository[Certificate]

	// FindByProduct returns all certificates filed for a product
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]Certificate, error)

	// FindByNumber finds a certificate by its unique number
	FindByNumber(ctx context.Context, number string) (*Certificate, error)

	// FindExpiring returns valid certificates expiring on or before the cutoff
	FindExpiring(ctx context.Context, cutoff time.Time) ([]Certificate, error)
}

// RegionRuleRepository defines the persistence interface for region rules
type RegionRuleRepository interface {
	shared.Repository[RegionRule]

	// FindByRegion finds the rule for a region code, falling back to the
	// country-level rule when no region-specific one exists. Returns
	// shared.ErrNotFound when neither is published.
	FindByRegion(ctx context.Context, regionCode string) (*RegionRule, error)

	// FindAll returns every published rule
	FindAllRules(ctx context.Context) ([]RegionRule, error)
}
