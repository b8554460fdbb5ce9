package search

import (
	"fmt"
	"io"

	"github.com/batterydepartment/backend/internal/infrastructure/config"
	"github.com/elastic/go-elasticsearch/v9"
	"go.uber.org/zap"
)

// NewClient creates an Elasticsearch client and verifies connectivity
func NewClient(cfg config.SearchConfig, logger *zap.Logger) (*elasticsearch.Client, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("failed to reach Elasticsearch: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("Elasticsearch returned %s: %s", res.Status(), body)
	}

	logger.Info("connected to Elasticsearch",
		zap.Strings("addresses", cfg.Addresses),
		zap.String("index", cfg.Index),
	)

	return client, nil
}
