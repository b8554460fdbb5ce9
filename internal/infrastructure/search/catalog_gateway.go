package search

import (
	"context"

	catalogapp "github.com/batterydepartment/backend/internal/application/catalog"
)

// Ensure CatalogSearchGateway implements the application interface
var _ catalogapp.ProductSearcher = (*CatalogSearchGateway)(nil)

// CatalogSearchGateway adapts the Elasticsearch searcher to the
// catalog application's search interface.
type CatalogSearchGateway struct {
	searcher *ProductSearcher
}

// NewCatalogSearchGateway creates a new gateway over a ProductSearcher
func NewCatalogSearchGateway(searcher *ProductSearcher) *CatalogSearchGateway {
	return &CatalogSearchGateway{searcher: searcher}
}

// SearchProducts runs the query and maps index documents to search hits
func (g *CatalogSearchGateway) SearchProducts(ctx context.Context, query string, from, size int) (int64, []catalogapp.SearchHit, error) {
	result, err := g.searcher.Search(ctx, query, from, size)
	if err != nil {
		return 0, nil, err
	}

	hits := make([]catalogapp.SearchHit, len(result.Products))
	for i, doc := range result.Products {
		hits[i] = catalogapp.SearchHit{
			ID:          doc.ID,
			SKU:         doc.SKU,
			Slug:        doc.Slug,
			Name:        doc.Name,
			ProductLine: doc.ProductLine,
			Voltage:     doc.Voltage,
			CapacityAh:  doc.CapacityAh,
			BasePrice:   doc.BasePrice,
			Engravable:  doc.Engravable,
		}
	}

	return result.Total, hits, nil
}
