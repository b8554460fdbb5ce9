// Package catalog contains the application services for the battery
// product catalog: CRUD, lifecycle, pricing tiers and full-text search.
package catalog

import (
	"context"
	"errors"

	"github.com/batterydepartment/backend/internal/domain/catalog"
	"github.com/batterydepartment/backend/internal/domain/shared"
	"github.com/batterydepartment/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// SearchHit is one full-text search match
type SearchHit struct {
	ID          string
	SKU         string
	Slug        string
	Name        string
	ProductLine string
	Voltage     float64
	CapacityAh  float64
	BasePrice   float64
	Engravable  bool
}

// ProductSearcher queries the full-text product index
type ProductSearcher interface {
	SearchProducts(ctx context.Context, query string, from, size int) (int64, []SearchHit, error)
}

// ProductService handles catalog business operations
type ProductService struct {
	productRepo    catalog.ProductRepository
	searcher       ProductSearcher
	eventPublisher shared.EventPublisher
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ProductService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetSearcher sets the full-text search backend (optional)
func (s *ProductService) SetSearcher(searcher ProductSearcher) {
	s.searcher = searcher
}

// publishDomainEvents publishes all pending events from the product
func (s *ProductService) publishDomainEvents(ctx context.Context, p *catalog.Product) {
	if s.eventPublisher == nil {
		return
	}
	events := p.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	p.ClearDomainEvents()
}

// Create creates a new product in draft status
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	exists, err := s.productRepo.ExistsBySKU(ctx, req.SKU)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("DUPLICATE_SKU", "A product with this SKU already exists")
	}

	product, err := catalog.NewProduct(req.SKU, req.Name, req.ProductLine, req.Voltage, req.CapacityAh, catalog.Chemistry(req.Chemistry))
	if err != nil {
		return nil, err
	}

	if req.Description != "" {
		if err := product.Update(req.Name, req.Description); err != nil {
			return nil, err
		}
	}
	if req.BasePrice.IsPositive() {
		if err := product.SetBasePrice(valueobject.NewMoneyUSD(req.BasePrice)); err != nil {
			return nil, err
		}
	}
	if req.Engravable != nil {
		product.SetEngravable(*req.Engravable)
	}
	if req.SortOrder != 0 {
		product.SetSortOrder(req.SortOrder)
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, product)

	response := ToProductResponse(product)
	return &response, nil
}

// Update updates a product's name and description
func (s *ProductService) Update(ctx context.Context, productID uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if err := product.Update(req.Name, req.Description); err != nil {
		return nil, err
	}
	if req.SortOrder != nil {
		product.SetSortOrder(*req.SortOrder)
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, product)

	response := ToProductResponse(product)
	return &response, nil
}

// SetPrice changes the product's base selling price
func (s *ProductService) SetPrice(ctx context.Context, productID uuid.UUID, req SetPriceRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if err := product.SetBasePrice(valueobject.NewMoneyUSD(req.BasePrice)); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, product)

	response := ToProductResponse(product)
	return &response, nil
}

// SetDiscountTiers replaces the product's volume discount tiers
func (s *ProductService) SetDiscountTiers(ctx context.Context, productID uuid.UUID, req SetDiscountTiersRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	product.Tiers = product.Tiers[:0]
	for _, tier := range req.Tiers {
		if err := product.AddDiscountTier(tier.MinQuantity, tier.Percent); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// Activate makes the product purchasable on the storefront
func (s *ProductService) Activate(ctx context.Context, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if err := product.Activate(); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, product)

	response := ToProductResponse(product)
	return &response, nil
}

// Retire removes the product from sale
func (s *ProductService) Retire(ctx context.Context, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if err := product.Retire(); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, product)

	response := ToProductResponse(product)
	return &response, nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// GetBySKU retrieves a product by SKU
func (s *ProductService) GetBySKU(ctx context.Context, sku string) (*ProductResponse, error) {
	product, err := s.productRepo.FindBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// GetBySlug retrieves a product by its storefront slug
func (s *ProductService) GetBySlug(ctx context.Context, slugValue string) (*ProductResponse, error) {
	product, err := s.productRepo.FindBySlug(ctx, slugValue)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// List retrieves products with filtering and pagination
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) ([]ProductResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "sort_order"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "asc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.ProductLine != "" {
		domainFilter.Filters["product_line"] = filter.ProductLine
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.Engravable != nil {
		domainFilter.Filters["engravable"] = *filter.Engravable
	}

	products, err := s.productRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.productRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToProductResponses(products), total, nil
}

// ListActive retrieves active products for the storefront
func (s *ProductService) ListActive(ctx context.Context, filter ProductListFilter) ([]ProductResponse, int64, error) {
	filter.Status = string(catalog.ProductStatusActive)
	return s.List(ctx, filter)
}

// Search runs a full-text query against the product index.
// Only active products are surfaced.
func (s *ProductService) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	if s.searcher == nil {
		return nil, shared.NewDomainError("SEARCH_UNAVAILABLE", "Product search is not configured")
	}

	total, hits, err := s.searcher.SearchProducts(ctx, req.Query, req.From, req.Size)
	if err != nil {
		return nil, err
	}

	results := make([]SearchResultResponse, len(hits))
	for i, hit := range hits {
		results[i] = SearchResultResponse{
			ID:          hit.ID,
			SKU:         hit.SKU,
			Slug:        hit.Slug,
			Name:        hit.Name,
			ProductLine: hit.ProductLine,
			Voltage:     hit.Voltage,
			CapacityAh:  hit.CapacityAh,
			BasePrice:   hit.BasePrice,
			Engravable:  hit.Engravable,
		}
	}

	return &SearchResponse{Total: total, Results: results}, nil
}

// Exists reports whether a product exists
func (s *ProductService) Exists(ctx context.Context, productID uuid.UUID) (bool, error) {
	_, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
