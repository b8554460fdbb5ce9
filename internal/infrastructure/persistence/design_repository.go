package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/batterydepartment/backend/internal/domain/engraving"
	"github.com/batterydepartment/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormDesignRepository implements engraving.DesignRepository using GORM
type GormDesignRepository struct {
	db *gorm.DB
}

// NewGormDesignRepository creates a new GormDesignRepository
func NewGormDesignRepository(db *gorm.DB) *GormDesignRepository {
	return &GormDesignRepository{db: db}
}

// FindByID finds a design by its ID
func (r *GormDesignRepository) FindByID(ctx context.Context, id uuid.UUID) (*engraving.Design, error) {
	var design engraving.Design
	if err := r.db.WithContext(ctx).First(&design, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &design, nil
}

// FindByCustomer returns a customer's designs, newest first
func (r *GormDesignRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]engraving.Design, error) {
	var designs []engraving.Design
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&engraving.Design{}).
			Where("customer_id = ?", customerID),
		filter,
	)

	if err := query.Find(&designs).Error; err != nil {
		return nil, err
	}
	return designs, nil
}

// FindByStatus returns designs in a given status, oldest first so the
// moderation queue is worked in arrival order
func (r *GormDesignRepository) FindByStatus(ctx context.Context, status engraving.DesignStatus, filter shared.Filter) ([]engraving.Design, error) {
	var designs []engraving.Design
	query := r.db.WithContext(ctx).Model(&engraving.Design{}).
		Where("status = ?", status).
		Order("created_at ASC")

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if err := query.Find(&designs).Error; err != nil {
		return nil, err
	}
	return designs, nil
}

// CountByStatus counts designs in a given status
func (r *GormDesignRepository) CountByStatus(ctx context.Context, status engraving.DesignStatus) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&engraving.Design{}).
		Where("status = ?", status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindAll finds all designs matching the filter
func (r *GormDesignRepository) FindAll(ctx context.Context, filter shared.Filter) ([]engraving.Design, error) {
	var designs []engraving.Design
	query := r.applyFilter(r.db.WithContext(ctx).Model(&engraving.Design{}), filter)

	if err := query.Find(&designs).Error; err != nil {
		return nil, err
	}
	return designs, nil
}

// Save creates or updates a design
func (r *GormDesignRepository) Save(ctx context.Context, design *engraving.Design) error {
	return r.db.WithContext(ctx).Save(design).Error
}

// Delete deletes a design
func (r *GormDesignRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&engraving.Design{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts designs matching the filter
func (r *GormDesignRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&engraving.Design{})

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "customer_id":
			query = query.Where("customer_id = ?", value)
		}
	}

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormDesignRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
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

	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

// Ensure GormDesignRepository implements DesignRepository
var _ engraving.DesignRepository = (*GormDesignRepository)(nil)
