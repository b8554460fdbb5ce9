package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v9"
)

// ProductSearcher runs full-text queries against the product index
type ProductSearcher struct {
	client *elasticsearch.Client
	index  string
}

// NewProductSearcher creates a new product searcher
func NewProductSearcher(client *elasticsearch.Client, index string) *ProductSearcher {
	return &ProductSearcher{
		client: client,
		index:  index,
	}
}

// SearchResult holds a page of matched documents and the total hit count
type SearchResult struct {
	Total    int64
	Products []ProductDocument
}

// Search runs a fuzzy multi-field query over name, SKU, and description.
// Only active products are returned; the storefront never surfaces drafts.
func (s *ProductSearcher) Search(ctx context.Context, query string, from, size int) (*SearchResult, error) {
	if size <= 0 {
		size = 20
	}
	if from < 0 {
		from = 0
	}

	body := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": map[string]interface{}{
					"multi_match": map[string]interface{}{
						"query":     query,
						"fields":    []string{"name^2", "sku^2", "product_line", "description"},
						"fuzziness": "AUTO",
					},
				},
				"filter": map[string]interface{}{
					"term": map[string]interface{}{"status": "active"},
				},
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, fmt.Errorf("failed to encode search query: %w", err)
	}

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(s.index),
		s.client.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search returned %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source ProductDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	products := make([]ProductDocument, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		products[i] = hit.Source
	}

	return &SearchResult{
		Total:    r.Hits.Total.Value,
		Products: products,
	}, nil
}
