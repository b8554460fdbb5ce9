package partner

import (
	"context"
	"fmt"

	"github.com/batterydepartment/backend/internal/domain/partner"
	"github.com/batterydepartment/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SupplierService handles supplier enrollment and lifecycle
type SupplierService struct {
	supplierRepo   partner.SupplierRepository
	eventPublisher shared.EventPublisher
}

// NewSupplierService creates a new supplier service
func NewSupplierService(supplierRepo partner.SupplierRepository) *SupplierService {
	return &SupplierService{supplierRepo: supplierRepo}
}

// SetEventPublisher sets the event publisher for domain events
func (s *SupplierService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *SupplierService) publishDomainEvents(ctx context.Context, supplier *partner.Supplier) {
	if s.eventPublisher == nil {
		return
	}
	events := supplier.GetDomainEvents()
	if len(events) > 0 {
		_ = s.eventPublisher.Publish(ctx, events...)
		supplier.ClearDomainEvents()
	}
}

// Create enrolls a new supplier in pending status
func (s *SupplierService) Create(ctx context.Context, req CreateSupplierRequest) (*SupplierResponse, error) {
	exists, err := s.supplierRepo.ExistsByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("DUPLICATE_CODE", "A supplier with this code already exists")
	}

	supplier, err := partner.NewSupplier(req.Code, req.Name, req.ContactEmail)
	if err != nil {
		return nil, err
	}
	if req.ContactName != "" || req.Phone != "" {
		if err := supplier.Update(req.Name, req.ContactName, req.ContactEmail, req.Phone); err != nil {
			return nil, err
		}
	}
	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, fmt.Errorf("failed to save supplier: %w", err)
	}
	s.publishDomainEvents(ctx, supplier)

	response := ToSupplierResponse(supplier)
	return &response, nil
}

// Update updates a supplier's contact information
func (s *SupplierService) Update(ctx context.Context, id uuid.UUID, req UpdateSupplierRequest) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := supplier.Update(req.Name, req.ContactName, req.ContactEmail, req.Phone); err != nil {
		return nil, err
	}
	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, fmt.Errorf("failed to save supplier: %w", err)
	}
	s.publishDomainEvents(ctx, supplier)

	response := ToSupplierResponse(supplier)
	return &response, nil
}

// Activate approves a pending or suspended supplier
func (s *SupplierService) Activate(ctx context.Context, id uuid.UUID) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := supplier.Activate(); err != nil {
		return nil, err
	}
	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, fmt.Errorf("failed to save supplier: %w", err)
	}
	s.publishDomainEvents(ctx, supplier)

	response := ToSupplierResponse(supplier)
	return &response, nil
}

// Suspend suspends a supplier, keeping their warehouses out of rotation
func (s *SupplierService) Suspend(ctx context.Context, id uuid.UUID, req SuspendSupplierRequest) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := supplier.Suspend(req.Reason); err != nil {
		return nil, err
	}
	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, fmt.Errorf("failed to save supplier: %w", err)
	}
	s.publishDomainEvents(ctx, supplier)

	response := ToSupplierResponse(supplier)
	return &response, nil
}

// GetByID retrieves a supplier by ID
func (s *SupplierService) GetByID(ctx context.Context, id uuid.UUID) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToSupplierResponse(supplier)
	return &response, nil
}

// GetByCode retrieves a supplier by its unique code
func (s *SupplierService) GetByCode(ctx context.Context, code string) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	response := ToSupplierResponse(supplier)
	return &response, nil
}

// List retrieves suppliers with filtering and pagination
func (s *SupplierService) List(ctx context.Context, filter SupplierListFilter) (*shared.Paginated[SupplierResponse], error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}

	if filter.Status != "" {
		page, err := s.supplierRepo.FindByStatus(ctx, partner.SupplierStatus(filter.Status), domainFilter)
		if err != nil {
			return nil, err
		}
		result := shared.NewPaginated(ToSupplierResponses(page.Items), page.Total, filter.Page, filter.PageSize)
		return &result, nil
	}

	suppliers, err := s.supplierRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.supplierRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	result := shared.NewPaginated(ToSupplierResponses(suppliers), total, filter.Page, filter.PageSize)
	return &result, nil
}
