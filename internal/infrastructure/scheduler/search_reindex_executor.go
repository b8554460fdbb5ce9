package scheduler

import (
	"context"
	"fmt"

	"github.com/batterydepartment/backend/internal/domain/catalog"
	"github.com/batterydepartment/backend/internal/domain/shared"
	"github.com/batterydepartment/backend/internal/infrastructure/search"
	"go.uber.org/zap"
)

// Ensure SearchReindexExecutor implements JobExecutor
var _ JobExecutor = (*SearchReindexExecutor)(nil)

// SearchReindexExecutor rebuilds the product search index from the
// catalog. Used after bulk imports or index mapping changes.
type SearchReindexExecutor struct {
	productRepo catalog.ProductRepository
	indexer     *search.ProductIndexer
	logger      *zap.Logger
}

// NewSearchReindexExecutor creates a new reindex executor
func NewSearchReindexExecutor(
	productRepo catalog.ProductRepository,
	indexer *search.ProductIndexer,
	logger *zap.Logger,
) *SearchReindexExecutor {
	return &SearchReindexExecutor{
		productRepo: productRepo,
		indexer:     indexer,
		logger:      logger,
	}
}

// Execute walks the catalog in pages and reindexes every product
func (e *SearchReindexExecutor) Execute(ctx context.Context, job *Job) error {
	if job.Type != JobTypeSearchReindex {
		return ErrInvalidJobType
	}

	const pageSize = 200
	indexed := 0
	failed := 0

	for page := 1; ; page++ {
		products, err := e.productRepo.FindAll(ctx, shared.Filter{Page: page, PageSize: pageSize})
		if err != nil {
			return fmt.Errorf("reindex: query products page %d: %w", page, err)
		}
		if len(products) == 0 {
			break
		}

		for i := range products {
			if err := e.indexer.IndexProduct(ctx, &products[i]); err != nil {
				failed++
				e.logger.Warn("Failed to index product",
					zap.String("product_id", products[i].ID.String()),
					zap.String("sku", products[i].SKU),
					zap.Error(err))
				continue
			}
			indexed++
		}

		if len(products) < pageSize {
			break
		}
	}

	e.logger.Info("Search reindex finished",
		zap.Int("indexed", indexed),
		zap.Int("failed", failed),
	)

	if indexed == 0 && failed > 0 {
		return fmt.Errorf("reindex: all %d products failed to index", failed)
	}
	return nil
}
