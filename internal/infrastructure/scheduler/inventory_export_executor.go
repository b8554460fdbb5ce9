package scheduler

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/batterydepartment/backend/internal/domain/catalog"
	"github.com/batterydepartment/backend/internal/domain/inventory"
	"github.com/batterydepartment/backend/internal/domain/partner"
	"github.com/batterydepartment/backend/internal/domain/shared"
	"github.com/batterydepartment/backend/internal/infrastructure/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Ensure InventoryExportExecutor implements JobExecutor
var _ JobExecutor = (*InventoryExportExecutor)(nil)

// InventoryExportExecutor produces a daily stock snapshot as CSV and
// uploads it to object storage for supplier reporting.
type InventoryExportExecutor struct {
	inventoryRepo inventory.InventoryRepository
	productRepo   catalog.ProductRepository
	warehouseRepo partner.WarehouseRepository
	store         storage.ObjectStore
	prefix        string
	logger        *zap.Logger
}

// NewInventoryExportExecutor creates a new export executor
func NewInventoryExportExecutor(
	inventoryRepo inventory.InventoryRepository,
	productRepo catalog.ProductRepository,
	warehouseRepo partner.WarehouseRepository,
	store storage.ObjectStore,
	prefix string,
	logger *zap.Logger,
) *InventoryExportExecutor {
	if prefix == "" {
		prefix = "exports/inventory"
	}
	return &InventoryExportExecutor{
		inventoryRepo: inventoryRepo,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		store:         store,
		prefix:        prefix,
		logger:        logger,
	}
}

// Execute builds the CSV snapshot and uploads it keyed by the job's period end date
func (e *InventoryExportExecutor) Execute(ctx context.Context, job *Job) error {
	if job.Type != JobTypeInventoryExport {
		return ErrInvalidJobType
	}

	items, err := e.inventoryRepo.FindAll(ctx, shared.Filter{Page: 1, PageSize: 10000})
	if err != nil {
		return fmt.Errorf("%w: query inventory: %v", ErrExportFailed, err)
	}

	warehouses, err := e.warehouseRepo.FindAll(ctx, shared.Filter{Page: 1, PageSize: 1000})
	if err != nil {
		return fmt.Errorf("%w: query warehouses: %v", ErrExportFailed, err)
	}
	warehouseByID := make(map[uuid.UUID]*partner.Warehouse, len(warehouses))
	for i := range warehouses {
		warehouseByID[warehouses[i].ID] = &warehouses[i]
	}

	productByID, err := e.loadProducts(ctx, items)
	if err != nil {
		return err
	}

	data, err := e.buildCSV(items, warehouseByID, productByID)
	if err != nil {
		return fmt.Errorf("%w: write csv: %v", ErrExportFailed, err)
	}

	key := fmt.Sprintf("%s/%s.csv", strings.TrimSuffix(e.prefix, "/"), job.PeriodEnd.Format("2006-01-02"))
	if err := e.store.Put(ctx, key, data, "text/csv"); err != nil {
		return fmt.Errorf("%w: upload: %v", ErrExportFailed, err)
	}

	e.logger.Info("Inventory export uploaded",
		zap.String("key", key),
		zap.Int("rows", len(items)),
	)

	return nil
}

func (e *InventoryExportExecutor) loadProducts(ctx context.Context, items []inventory.InventoryItem) (map[uuid.UUID]*catalog.Product, error) {
	seen := make(map[uuid.UUID]struct{}, len(items))
	ids := make([]uuid.UUID, 0, len(items))
	for i := range items {
		if _, ok := seen[items[i].ProductID]; ok {
			continue
		}
		seen[items[i].ProductID] = struct{}{}
		ids = append(ids, items[i].ProductID)
	}

	products, err := e.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("%w: query products: %v", ErrExportFailed, err)
	}

	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	return byID, nil
}

func (e *InventoryExportExecutor) buildCSV(
	items []inventory.InventoryItem,
	warehouseByID map[uuid.UUID]*partner.Warehouse,
	productByID map[uuid.UUID]*catalog.Product,
) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{
		"warehouse_code", "warehouse_name", "sku", "product_name", "unit_cost",
		"available", "locked", "total", "min_quantity", "below_minimum",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for i := range items {
		item := &items[i]

		var warehouseCode, warehouseName string
		if wh, ok := warehouseByID[item.WarehouseID]; ok {
			warehouseCode = wh.Code
			warehouseName = wh.Name
		}
		var sku, productName, unitCost string
		if p, ok := productByID[item.ProductID]; ok {
			sku = p.SKU
			productName = p.Name
			unitCost = p.BasePrice.StringFixed(2)
		}

		row := []string{
			warehouseCode,
			warehouseName,
			sku,
			productName,
			unitCost,
			strconv.Itoa(item.AvailableQuantity),
			strconv.Itoa(item.LockedQuantity),
			strconv.Itoa(item.TotalQuantity()),
			strconv.Itoa(item.MinQuantity),
			strconv.FormatBool(item.IsBelowMinimum()),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
