package catalog

import (
	"time"

	"github.com/batterydepartment/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductResponse represents a battery product in API responses
type ProductResponse struct {
	ID          uuid.UUID              `json:"id"`
	SKU         string                 `json:"sku"`
	Slug        string                 `json:"slug"`
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	ProductLine string                 `json:"product_line"`
	Voltage     decimal.Decimal        `json:"voltage"`
	CapacityAh  decimal.Decimal        `json:"capacity_ah"`
	WattHours   decimal.Decimal        `json:"watt_hours"`
	Chemistry   string                 `json:"chemistry"`
	BasePrice   decimal.Decimal        `json:"base_price"`
	Engravable  bool                   `json:"engravable"`
	Status      string                 `json:"status"`
	SortOrder   int                    `json:"sort_order"`
	Tiers       []DiscountTierResponse `json:"discount_tiers,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
	Version     int                    `json:"version"`
}

// DiscountTierResponse represents a volume discount tier
type DiscountTierResponse struct {
	MinQuantity int             `json:"min_quantity"`
	Percent     decimal.Decimal `json:"percent"`
}

// CreateProductRequest represents a request to create a product
type CreateProductRequest struct {
	SKU         string          `json:"sku" binding:"required,min=3,max=50"`
	Name        string          `json:"name" binding:"required,min=3,max=200"`
	Description string          `json:"description" binding:"max=2000"`
	ProductLine string          `json:"product_line" binding:"required,max=50"`
	Voltage     decimal.Decimal `json:"voltage" binding:"required"`
	CapacityAh  decimal.Decimal `json:"capacity_ah" binding:"required"`
	Chemistry   string          `json:"chemistry" binding:"required,oneof=li-ion li-po lifepo4 nimh"`
	BasePrice   decimal.Decimal `json:"base_price"`
	Engravable  *bool           `json:"engravable"`
	SortOrder   int             `json:"sort_order"`
}

// UpdateProductRequest represents a request to update a product
type UpdateProductRequest struct {
	Name        string `json:"name" binding:"required,min=3,max=200"`
	Description string `json:"description" binding:"max=2000"`
	SortOrder   *int   `json:"sort_order"`
}

// SetPriceRequest represents a request to change the base price
type SetPriceRequest struct {
	BasePrice decimal.Decimal `json:"base_price" binding:"required"`
}

// DiscountTierRequest is one tier of a SetDiscountTiersRequest
type DiscountTierRequest struct {
	MinQuantity int             `json:"min_quantity" binding:"required,min=2"`
	Percent     decimal.Decimal `json:"percent" binding:"required"`
}

// SetDiscountTiersRequest replaces the product's volume discount tiers
type SetDiscountTiersRequest struct {
	Tiers []DiscountTierRequest `json:"tiers" binding:"required,dive"`
}

// ProductListFilter represents filter options for the product list
type ProductListFilter struct {
	ProductLine string `form:"product_line"`
	Status      string `form:"status" binding:"omitempty,oneof=draft active retired"`
	Engravable  *bool  `form:"engravable"`
	Search      string `form:"search"`
	Page        int    `form:"page" binding:"omitempty,min=1"`
	PageSize    int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy     string `form:"order_by"`
	OrderDir    string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// SearchRequest represents a full-text product search
type SearchRequest struct {
	Query string `form:"q" binding:"required,min=1,max=200"`
	From  int    `form:"from" binding:"omitempty,min=0"`
	Size  int    `form:"size" binding:"omitempty,min=1,max=100"`
}

// SearchResultResponse is one search hit
type SearchResultResponse struct {
	ID          string  `json:"id"`
	SKU         string  `json:"sku"`
	Slug        string  `json:"slug"`
	Name        string  `json:"name"`
	ProductLine string  `json:"product_line"`
	Voltage     float64 `json:"voltage"`
	CapacityAh  float64 `json:"capacity_ah"`
	BasePrice   float64 `json:"base_price"`
	Engravable  bool    `json:"engravable"`
}

// SearchResponse is the full-text search result page
type SearchResponse struct {
	Total   int64                  `json:"total"`
	Results []SearchResultResponse `json:"results"`
}

// ToProductResponse converts a domain Product to a response DTO
func ToProductResponse(p *catalog.Product) ProductResponse {
	tiers := make([]DiscountTierResponse, len(p.Tiers))
	for i := range p.Tiers {
		tiers[i] = DiscountTierResponse{
			MinQuantity: p.Tiers[i].MinQuantity,
			Percent:     p.Tiers[i].Percent,
		}
	}
	return ProductResponse{
		ID:          p.ID,
		SKU:         p.SKU,
		Slug:        p.Slug,
		Name:        p.Name,
		Description: p.Description,
		ProductLine: p.ProductLine,
		Voltage:     p.Voltage,
		CapacityAh:  p.CapacityAh,
		WattHours:   p.WattHours(),
		Chemistry:   string(p.Chemistry),
		BasePrice:   p.BasePrice,
		Engravable:  p.Engravable,
		Status:      string(p.Status),
		SortOrder:   p.SortOrder,
		Tiers:       tiers,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		Version:     p.Version,
	}
}

// ToProductResponses converts a slice of domain Products to response DTOs
func ToProductResponses(products []catalog.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses
}
