package catalog

import (
	"context"

	"github.com/batterydepartment/backend/internal/domain/catalog"
	"github.com/batterydepartment/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ProductIndexWriter pushes catalog changes into the search index
type ProductIndexWriter interface {
	IndexProduct(ctx context.Context, product *catalog.Product) error
	DeleteProduct(ctx context.Context, productID string) error
}

// ResponseCacheInvalidator drops cached storefront responses
type ResponseCacheInvalidator interface {
	InvalidatePrefix(prefix string) int
}

// Ensure handlers implement the event handler interface
var _ shared.EventHandler = (*ProductIndexHandler)(nil)
var _ shared.EventHandler = (*CatalogCacheInvalidationHandler)(nil)

// ProductIndexHandler keeps the search index in sync with catalog events.
// Retired products are removed from the index so search only surfaces
// purchasable batteries.
type ProductIndexHandler struct {
	productRepo catalog.ProductRepository
	indexer     ProductIndexWriter
	logger      *zap.Logger
}

// NewProductIndexHandler creates a new index sync handler
func NewProductIndexHandler(productRepo catalog.ProductRepository, indexer ProductIndexWriter, logger *zap.Logger) *ProductIndexHandler {
	return &ProductIndexHandler{
		productRepo: productRepo,
		indexer:     indexer,
		logger:      logger,
	}
}

// EventTypes returns the catalog events that affect the index
func (h *ProductIndexHandler) EventTypes() []string {
	return []string{
		catalog.EventTypeProductCreated,
		catalog.EventTypeProductUpdated,
		catalog.EventTypeProductStatusChanged,
		catalog.EventTypeProductPriceChanged,
	}
}

// Handle re-indexes the affected product
func (h *ProductIndexHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	productID := event.AggregateID()

	product, err := h.productRepo.FindByID(ctx, productID)
	if err != nil {
		h.logger.Warn("Failed to load product for index sync",
			zap.String("product_id", productID.String()),
			zap.Error(err))
		return err
	}

	if product.Status == catalog.ProductStatusRetired {
		return h.indexer.DeleteProduct(ctx, productID.String())
	}
	return h.indexer.IndexProduct(ctx, product)
}

// CatalogCacheInvalidationHandler drops cached catalog responses when a
// product changes, so the storefront never serves a stale price or status.
type CatalogCacheInvalidationHandler struct {
	cache  ResponseCacheInvalidator
	prefix string
	logger *zap.Logger
}

// NewCatalogCacheInvalidationHandler creates a new cache invalidation handler
func NewCatalogCacheInvalidationHandler(cache ResponseCacheInvalidator, prefix string, logger *zap.Logger) *CatalogCacheInvalidationHandler {
	if prefix == "" {
		prefix = "GET /api/v1/products"
	}
	return &CatalogCacheInvalidationHandler{
		cache:  cache,
		prefix: prefix,
		logger: logger,
	}
}

// EventTypes returns the catalog events that invalidate cached responses
func (h *CatalogCacheInvalidationHandler) EventTypes() []string {
	return []string{
		catalog.EventTypeProductCreated,
		catalog.EventTypeProductUpdated,
		catalog.EventTypeProductStatusChanged,
		catalog.EventTypeProductPriceChanged,
	}
}

// Handle invalidates all cached catalog responses
func (h *CatalogCacheInvalidationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	removed := h.cache.InvalidatePrefix(h.prefix)
	if removed > 0 {
		h.logger.Debug("Invalidated cached catalog responses",
			zap.String("event_type", event.EventType()),
			zap.Int("removed", removed))
	}
	return nil
}
