package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/batterydepartment/backend/internal/domain/catalog"
	"github.com/elastic/go-elasticsearch/v9"
	"go.uber.org/zap"
)

// ProductDocument is the search projection of a catalog product
type ProductDocument struct {
	ID          string  `json:"id"`
	SKU         string  `json:"sku"`
	Slug        string  `json:"slug"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	ProductLine string  `json:"product_line"`
	Chemistry   string  `json:"chemistry"`
	Voltage     float64 `json:"voltage"`
	CapacityAh  float64 `json:"capacity_ah"`
	WattHours   float64 `json:"watt_hours"`
	BasePrice   float64 `json:"base_price"`
	Engravable  bool    `json:"engravable"`
	Status      string  `json:"status"`
}

// ProductIndexer writes catalog products into the search index
type ProductIndexer struct {
	client *elasticsearch.Client
	index  string
	logger *zap.Logger
}

// NewProductIndexer creates a new product indexer
func NewProductIndexer(client *elasticsearch.Client, index string, logger *zap.Logger) *ProductIndexer {
	return &ProductIndexer{
		client: client,
		index:  index,
		logger: logger,
	}
}

// IndexProduct creates or replaces the document for a product
func (i *ProductIndexer) IndexProduct(ctx context.Context, product *catalog.Product) error {
	doc := toDocument(product)

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(doc); err != nil {
		return fmt.Errorf("failed to encode product document: %w", err)
	}

	res, err := i.client.Index(
		i.index,
		&buf,
		i.client.Index.WithContext(ctx),
		i.client.Index.WithDocumentID(doc.ID),
		i.client.Index.WithRefresh("false"),
	)
	if err != nil {
		return fmt.Errorf("failed to index product %s: %w", doc.SKU, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("indexing product %s returned %s", doc.SKU, res.Status())
	}

	i.logger.Debug("indexed product",
		zap.String("sku", doc.SKU),
		zap.String("index", i.index),
	)
	return nil
}

// DeleteProduct removes a product document from the index.
// A missing document is not an error.
func (i *ProductIndexer) DeleteProduct(ctx context.Context, productID string) error {
	res, err := i.client.Delete(
		i.index,
		productID,
		i.client.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to delete product %s from index: %w", productID, err)
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("deleting product %s returned %s", productID, res.Status())
	}

	return nil
}

func toDocument(product *catalog.Product) ProductDocument {
	return ProductDocument{
		ID:          product.ID.String(),
		SKU:         product.SKU,
		Slug:        product.Slug,
		Name:        product.Name,
		Description: product.Description,
		ProductLine: product.ProductLine,
		Chemistry:   string(product.Chemistry),
		Voltage:     product.Voltage.InexactFloat64(),
		CapacityAh:  product.CapacityAh.InexactFloat64(),
		WattHours:   product.WattHours().InexactFloat64(),
		BasePrice:   product.BasePrice.InexactFloat64(),
		Engravable:  product.Engravable,
		Status:      string(product.Status),
	}
}
