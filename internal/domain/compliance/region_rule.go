package compliance

import (
	"strings"
	"time"

	"github.com/batterydepartment/backend/internal/domain/shared"
)

// RegionRule caps the watt-hour rating a single package may carry into a
// destination region. Rules are keyed by ISO 3166-2 region code with a
// country-level fallback ("US" applies when "US-CA" has no rule of its own).
type RegionRule struct {
	shared.BaseAggregateRoot
	RegionCode     string  `gorm:"type:varchar(10);not null;uniqueIndex"`
	MaxWattHours   float64 `gorm:"type:decimal(10,2);not null"`
	MaxUnits       int     `gorm:"not null;default:0"` // 0 = no per-package unit cap
	RequiresGround bool    `gorm:"not null;default:false"`
	Notes          string  `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (RegionRule) TableName() string {
	return "compliance_region_rules"
}

// NewRegionRule creates a shipping rule for a region
func NewRegionRule(regionCode string, maxWattHours float64, maxUnits int) (*RegionRule, error) {
	regionCode = strings.ToUpper(strings.TrimSpace(regionCode))
	if regionCode == "" || len(regionCode) > 10 {
		return nil, shared.NewDomainError("INVALID_REGION", "Region code must be 1-10 characters")
	}
	if maxWattHours <= 0 {
		return nil, shared.NewDomainError("INVALID_LIMIT", "Watt-hour limit must be positive")
	}
	if maxUnits < 0 {
		return nil, shared.NewDomainError("INVALID_LIMIT", "Unit cap cannot be negative")
	}

	return &RegionRule{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		RegionCode:        regionCode,
		MaxWattHours:      maxWattHours,
		MaxUnits:          maxUnits,
	}, nil
}

// Update changes the rule's limits
func (r *RegionRule) Update(maxWattHours float64, maxUnits int, requiresGround bool, notes string) error {
	if maxWattHours <= 0 {
		return shared.NewDomainError("INVALID_LIMIT", "Watt-hour limit must be positive")
	}
	if maxUnits < 0 {
		return shared.NewDomainError("INVALID_LIMIT", "Unit cap cannot be negative")
	}

	r.MaxWattHours = maxWattHours
	r.MaxUnits = maxUnits
	r.RequiresGround = requiresGround
	r.Notes = notes
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	return nil
}
