package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/batterydepartment/backend/internal/domain/compliance"
	"github.com/batterydepartment/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCertificateRepository implements compliance.CertificateRepository using GORM
type GormCertificateRepository struct {
	db *gorm.DB
}

// NewGormCertificateRepository creates a new GormCertificateRepository
func NewGormCertificateRepository(db *gorm.DB) *GormCertificateRepository {
	return &GormCertificateRepository{db: db}
}

// FindByID finds a certificate by its ID
func (r *GormCertificateRepository) FindByID(ctx context.Context, id uuid.UUID) (*compliance.Certificate, error) {
	var cert compliance.Certificate
	if err := r.db.WithContext(ctx).First(&cert, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &cert, nil
}

// FindByProduct returns all certificates filed for a product
func (r *GormCertificateRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]compliance.Certificate, error) {
	var certs []compliance.Certificate
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("expires_at DESC").
		Find(&certs).Error; err != nil {
		return nil, err
	}
	return certs, nil
}

// FindByNumber finds a certificate by its unique number
func (r *GormCertificateRepository) FindByNumber(ctx context.Context, number string) (*compliance.Certificate, error) {
	var cert compliance.Certificate
	if err := r.db.WithContext(ctx).
		Where("number = ?", strings.ToUpper(number)).
		First(&cert).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &cert, nil
}

// FindExpiring returns valid certificates expiring on or before the cutoff
func (r *GormCertificateRepository) FindExpiring(ctx context.Context, cutoff time.Time) ([]compliance.Certificate, error) {
	var certs []compliance.Certificate
	if err := r.db.WithContext(ctx).
		Where("status = ?", compliance.CertificateStatusValid).
		Where("expires_at <= ?", cutoff).
		Order("expires_at ASC").
		Find(&certs).Error; err != nil {
		return nil, err
	}
	return certs, nil
}

// FindAll finds all certificates matching the filter
func (r *GormCertificateRepository) FindAll(ctx context.Context, filter shared.Filter) ([]compliance.Certificate, error) {
	var certs []compliance.Certificate
	query := r.db.WithContext(ctx).Model(&compliance.Certificate{})

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "product_id":
			query = query.Where("product_id = ?", value)
		}
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	query = query.Order("expires_at DESC")

	if err := query.Find(&certs).Error; err != nil {
		return nil, err
	}
	return certs, nil
}

// Save creates or updates a certificate
func (r *GormCertificateRepository) Save(ctx context.Context, cert *compliance.Certificate) error {
	return r.db.WithContext(ctx).Save(cert).Error
}

// Delete deletes a certificate
func (r *GormCertificateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&compliance.Certificate{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts certificates matching the filter
func (r *GormCertificateRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&compliance.Certificate{})

	for key, value := range filter.Filters {
		if key == "status" {
			query = query.Where("status = ?", value)
		}
	}

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormCertificateRepository implements CertificateRepository
var _ compliance.CertificateRepository = (*GormCertificateRepository)(nil)

// GormRegionRuleRepository implements compliance.RegionRuleRepository using GORM
type GormRegionRuleRepository struct {
	db *gorm.DB
}

// NewGormRegionRuleRepository creates a new GormRegionRuleRepository
func NewGormRegionRuleRepository(db *gorm.DB) *GormRegionRuleRepository {
	return &GormRegionRuleRepository{db: db}
}

// FindByID finds a region rule by its ID
func (r *GormRegionRuleRepository) FindByID(ctx context.Context, id uuid.UUID) (*compliance.RegionRule, error) {
	var rule compliance.RegionRule
	if err := r.db.WithContext(ctx).First(&rule, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rule, nil
}

// FindByRegion finds the rule for a region code, falling back to the
// country-level rule ("US" for "US-CA") when no regional rule exists
func (r *GormRegionRuleRepository) FindByRegion(ctx context.Context, regionCode string) (*compliance.RegionRule, error) {
	regionCode = strings.ToUpper(strings.TrimSpace(regionCode))

	var rule compliance.RegionRule
	err := r.db.WithContext(ctx).
		Where("region_code = ?", regionCode).
		First(&rule).Error
	if err == nil {
		return &rule, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if idx := strings.Index(regionCode, "-"); idx > 0 {
		country := regionCode[:idx]
		err = r.db.WithContext(ctx).
			Where("region_code = ?", country).
			First(&rule).Error
		if err == nil {
			return &rule, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	return nil, shared.ErrNotFound
}

// FindAllRules returns every published rule
func (r *GormRegionRuleRepository) FindAllRules(ctx context.Context) ([]compliance.RegionRule, error) {
	var rules []compliance.RegionRule
	if err := r.db.WithContext(ctx).
		Order("region_code ASC").
		Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

// FindAll finds all region rules matching the filter
func (r *GormRegionRuleRepository) FindAll(ctx context.Context, filter shared.Filter) ([]compliance.RegionRule, error) {
	var rules []compliance.RegionRule
	query := r.db.WithContext(ctx).Model(&compliance.RegionRule{})

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	query = query.Order("region_code ASC")

	if err := query.Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

// Save creates or updates a region rule
func (r *GormRegionRuleRepository) Save(ctx context.Context, rule *compliance.RegionRule) error {
	return r.db.WithContext(ctx).Save(rule).Error
}

// Delete deletes a region rule
func (r *GormRegionRuleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&compliance.RegionRule{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts region rules
func (r *GormRegionRuleRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&compliance.RegionRule{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormRegionRuleRepository implements RegionRuleRepository
var _ compliance.RegionRuleRepository = (*GormRegionRuleRepository)(nil)
