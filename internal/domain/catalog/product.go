package catalog

import (
	"strings"
	"time"

	"github.com/batterydepartment/backend/internal/domain/shared"
	"github.com/batterydepartment/backend/internal/domain/shared/valueobject"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
)

// ProductStatus represents the lifecycle status of a battery product
type ProductStatus string

const (
	ProductStatusDraft   ProductStatus = "draft"
	ProductStatusActive  ProductStatus = "active"
	ProductStatusRetired ProductStatus = "retired"
)

// Chemistry identifies the cell chemistry of a battery product
type Chemistry string

const (
	ChemistryLiIon  Chemistry = "li-ion"
	ChemistryLiPo   Chemistry = "li-po"
	ChemistryLiFePO Chemistry = "lifepo4"
	ChemistryNiMH   Chemistry = "nimh"
)

// Product represents a battery SKU in the storefront catalog.
// It is the aggregate root for catalog operations.
type Product struct {
	shared.BaseAggregateRoot
	SKU         string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Slug        string          `gorm:"type:varchar(120);not null;uniqueIndex"`
	Name        string          `gorm:"type:varchar(200);not null"`
	Description string          `gorm:"type:text"`
	ProductLine string          `gorm:"type:varchar(50);not null;index"` // e.g. "FlexVolt", "PowerStack"
	Voltage     decimal.Decimal `gorm:"type:decimal(6,2);not null"`      // nominal volts
	CapacityAh  decimal.Decimal `gorm:"type:decimal(6,2);not null"`      // amp-hours
	Chemistry   Chemistry       `gorm:"type:varchar(20);not null;default:'li-ion'"`
	BasePrice   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Engravable  bool            `gorm:"not null;default:true"`
	Status      ProductStatus   `gorm:"type:varchar(20);not null;default:'draft'"`
	SortOrder   int             `gorm:"not null;default:0"`
	Tiers       []DiscountTier  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// DiscountTier grants a percentage discount from a minimum order quantity.
type DiscountTier struct {
	shared.BaseEntity
	ProductID   string          `gorm:"type:uuid;not null;index"`
	MinQuantity int             `gorm:"not null"`
	Percent     decimal.Decimal `gorm:"type:decimal(5,2);not null"`
}

// TableName returns the table name for GORM
func (DiscountTier) TableName() string {
	return "product_discount_tiers"
}

// NewProduct creates a new battery product in draft status
func NewProduct(sku, name, productLine string, voltage, capacityAh decimal.Decimal, chemistry Chemistry) (*Product, error) {
	if err := validateSKU(sku); err != nil {
		return nil, err
	}
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if productLine == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_LINE", "Product line cannot be empty")
	}
	if !voltage.IsPositive() {
		return nil, shared.NewDomainError("INVALID_VOLTAGE", "Voltage must be positive")
	}
	if !capacityAh.IsPositive() {
		return nil, shared.NewDomainError("INVALID_CAPACITY", "Capacity must be positive")
	}
	if err := validateChemistry(chemistry); err != nil {
		return nil, err
	}

	product := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SKU:               strings.ToUpper(sku),
		Slug:              slug.Make(name),
		Name:              name,
		ProductLine:       productLine,
		Voltage:           voltage,
		CapacityAh:        capacityAh,
		Chemistry:         chemistry,
		BasePrice:         decimal.Zero,
		Engravable:        true,
		Status:            ProductStatusDraft,
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// Update updates the product's name and description.
// The slug is regenerated when the name changes so storefront URLs follow.
func (p *Product) Update(name, description string) error {
	if err := validateProductName(name); err != nil {
		return err
	}

	if name != p.Name {
		p.Slug = slug.Make(name)
	}
	p.Name = name
	p.Description = description
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductUpdatedEvent(p))

	return nil
}

// SetBasePrice sets the base selling price
func (p *Product) SetBasePrice(price valueobject.Money) error {
	if price.Amount().IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}

	oldPrice := p.BasePrice
	p.BasePrice = price.Amount()
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductPriceChangedEvent(p, oldPrice))

	return nil
}

// SetEngravable toggles whether the nameplate customizer accepts this product
func (p *Product) SetEngravable(engravable bool) {
	p.Engravable = engravable
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// SetSortOrder sets the display order of the product
func (p *Product) SetSortOrder(order int) {
	p.SortOrder = order
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// AddDiscountTier adds a quantity discount tier.
// Tiers must not duplicate a minimum quantity.
func (p *Product) AddDiscountTier(minQuantity int, percent decimal.Decimal) error {
	if minQuantity < 2 {
		return shared.NewDomainError("INVALID_TIER", "Tier minimum quantity must be at least 2")
	}
	if percent.IsNegative() || percent.GreaterThan(decimal.NewFromInt(90)) {
		return shared.NewDomainError("INVALID_TIER", "Tier percent must be between 0 and 90")
	}
	for _, tier := range p.Tiers {
		if tier.MinQuantity == minQuantity {
			return shared.NewDomainError("DUPLICATE_TIER", "A tier with this minimum quantity already exists")
		}
	}

	p.Tiers = append(p.Tiers, DiscountTier{
		BaseEntity:  shared.NewBaseEntity(),
		ProductID:   p.ID.String(),
		MinQuantity: minQuantity,
		Percent:     percent,
	})
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// UnitPriceFor returns the per-unit price for the given quantity after
// applying the best matching discount tier.
func (p *Product) UnitPriceFor(quantity int) valueobject.Money {
	price := valueobject.NewMoneyUSD(p.BasePrice)
	bestPercent := decimal.Zero
	for _, tier := range p.Tiers {
		if quantity >= tier.MinQuantity && tier.Percent.GreaterThan(bestPercent) {
			bestPercent = tier.Percent
		}
	}
	if bestPercent.IsZero() {
		return price
	}
	return price.ApplyDiscount(bestPercent).Round(2)
}

// WattHours returns the rated energy of the pack in watt-hours.
// Carriers regulate lithium shipments by this figure.
func (p *Product) WattHours() decimal.Decimal {
	return p.Voltage.Mul(p.CapacityAh)
}

// Activate publishes the product to the storefront
func (p *Product) Activate() error {
	if p.Status == ProductStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Product is already active")
	}
	if p.Status == ProductStatusRetired {
		return shared.NewDomainError("CANNOT_ACTIVATE", "Cannot activate a retired product")
	}
	if p.BasePrice.IsZero() {
		return shared.NewDomainError("MISSING_PRICE", "Cannot activate a product without a price")
	}

	oldStatus := p.Status
	p.Status = ProductStatusActive
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductStatusChangedEvent(p, oldStatus, ProductStatusActive))

	return nil
}

// Retire removes the product from sale permanently.
// A retired product cannot be reactivated.
func (p *Product) Retire() error {
	if p.Status == ProductStatusRetired {
		return shared.NewDomainError("ALREADY_RETIRED", "Product is already retired")
	}

	oldStatus := p.Status
	p.Status = ProductStatusRetired
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductStatusChangedEvent(p, oldStatus, ProductStatusRetired))

	return nil
}

// IsActive returns true if the product is purchasable
func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}

// GetBasePriceMoney returns the base price as a Money value object
func (p *Product) GetBasePriceMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(p.BasePrice)
}

// validateSKU validates the product SKU
func validateSKU(sku string) error {
	if sku == "" {
		return shared.NewDomainError("INVALID_SKU", "SKU cannot be empty")
	}
	if len(sku) > 50 {
		return shared.NewDomainError("INVALID_SKU", "SKU cannot exceed 50 characters")
	}
	for _, r := range sku {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return shared.NewDomainError("INVALID_SKU", "SKU can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}

// validateProductName validates the product name
func validateProductName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}

// validateChemistry validates the cell chemistry
func validateChemistry(chemistry Chemistry) error {
	switch chemistry {
	case ChemistryLiIon, ChemistryLiPo, ChemistryLiFePO, ChemistryNiMH:
		return nil
	default:
		return shared.NewDomainError("INVALID_CHEMISTRY", "Unknown cell chemistry")
	}
}
