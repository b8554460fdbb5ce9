package scheduler

import (
	"context"
	"encoding/csv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/batterydepartment/backend/internal/domain/catalog"
	"github.com/batterydepartment/backend/internal/domain/inventory"
	"github.com/batterydepartment/backend/internal/domain/partner"
	"github.com/batterydepartment/backend/internal/domain/shared"
	"github.com/batterydepartment/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubProductRepo serves a fixed product set to the export executor
type stubProductRepo struct {
	products map[uuid.UUID]*catalog.Product
}

func (r *stubProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return p, nil
}

func (r *stubProductRepo) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	out := make([]catalog.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, nil
}

func (r *stubProductRepo) Save(ctx context.Context, p *catalog.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (r *stubProductRepo) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	return int64(len(r.products)), nil
}

func (r *stubProductRepo) FindBySKU(ctx context.Context, sku string) (*catalog.Product, error) {
	return nil, shared.ErrNotFound
}

func (r *stubProductRepo) FindBySlug(ctx context.Context, slug string) (*catalog.Product, error) {
	return nil, shared.ErrNotFound
}

func (r *stubProductRepo) FindByProductLine(ctx context.Context, line string, filter shared.Filter) ([]catalog.Product, error) {
	return nil, nil
}

func (r *stubProductRepo) FindActive(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	return nil, nil
}

func (r *stubProductRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	out := make([]catalog.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductRepo) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	return false, nil
}

// stubWarehouseRepo serves a fixed warehouse set
type stubWarehouseRepo struct {
	warehouses []partner.Warehouse
}

func (r *stubWarehouseRepo) FindByID(ctx context.Context, id uuid.UUID) (*partner.Warehouse, error) {
	return nil, shared.ErrNotFound
}

func (r *stubWarehouseRepo) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Warehouse, error) {
	return r.warehouses, nil
}

func (r *stubWarehouseRepo) Save(ctx context.Context, w *partner.Warehouse) error { return nil }

func (r *stubWarehouseRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (r *stubWarehouseRepo) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	return int64(len(r.warehouses)), nil
}

func (r *stubWarehouseRepo) FindByCode(ctx context.Context, code string) (*partner.Warehouse, error) {
	return nil, shared.ErrNotFound
}

func (r *stubWarehouseRepo) FindBySupplier(ctx context.Context, supplierID uuid.UUID) ([]partner.Warehouse, error) {
	return nil, nil
}

func (r *stubWarehouseRepo) FindActive(ctx context.Context) ([]partner.Warehouse, error) {
	return r.warehouses, nil
}

func (r *stubWarehouseRepo) FindDefault(ctx context.Context) (*partner.Warehouse, error) {
	return nil, shared.ErrNotFound
}

func (r *stubWarehouseRepo) FindByRegion(ctx context.Context, region string) ([]partner.Warehouse, error) {
	return nil, nil
}

// memoryObjectStore captures uploads for assertions
type memoryObjectStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMemoryObjectStore() *memoryObjectStore {
	return &memoryObjectStore{objects: make(map[string][]byte)}
}

func (s *memoryObjectStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	return nil
}

func (s *memoryObjectStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return data, nil
}

func (s *memoryObjectStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

func (s *memoryObjectStore) Exists(ctx context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[key]
	return ok, nil
}

func (s *memoryObjectStore) PresignDownload(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error) {
	return "https://storage.test/" + key, time.Now().Add(expiresIn), nil
}

func (s *memoryObjectStore) PresignUpload(ctx context.Context, key, contentType string, expiresIn time.Duration) (string, time.Time, error) {
	return "https://storage.test/" + key, time.Now().Add(expiresIn), nil
}

func TestInventoryExportExecutor_Execute(t *testing.T) {
	ctx := context.Background()

	product, err := catalog.NewProduct("BD-20V-5AH", "20V MAX 5.0Ah Battery", "PowerStack",
		decimal.NewFromInt(20), decimal.NewFromInt(5), catalog.ChemistryLiIon)
	require.NoError(t, err)
	require.NoError(t, product.SetBasePrice(valueobject.NewMoneyUSD(decimal.NewFromFloat(99.5))))

	warehouse, err := partner.NewWarehouse(uuid.New(), "LA-01", "Los Angeles", "US-CA")
	require.NoError(t, err)

	item, err := inventory.NewInventoryItem(warehouse.ID, product.ID)
	require.NoError(t, err)
	require.NoError(t, item.IncreaseStock(12, "purchase_order", "PO-1001"))
	_, err = item.LockStock(2, "order", "BD-20260826-0001", time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.NoError(t, item.SetThresholds(5, 100))

	invRepo := newFakeInventoryRepo()
	invRepo.add(item)
	productRepo := &stubProductRepo{products: map[uuid.UUID]*catalog.Product{product.ID: product}}
	warehouseRepo := &stubWarehouseRepo{warehouses: []partner.Warehouse{*warehouse}}
	store := newMemoryObjectStore()

	executor := NewInventoryExportExecutor(invRepo, productRepo, warehouseRepo, store, "exports/inventory", zap.NewNop())

	periodEnd := time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC)
	job := NewJob(JobTypeInventoryExport, periodEnd.AddDate(0, 0, -1), periodEnd, 1)
	require.NoError(t, executor.Execute(ctx, job))

	data, err := store.Get(ctx, "exports/inventory/2026-08-26.csv")
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, []string{
		"warehouse_code", "warehouse_name", "sku", "product_name", "unit_cost",
		"available", "locked", "total", "min_quantity", "below_minimum",
	}, records[0])
	assert.Equal(t, []string{
		"LA-01", "Los Angeles", "BD-20V-5AH", "20V MAX 5.0Ah Battery", "99.50",
		"10", "2", "12", "5", "false",
	}, records[1])
}

func TestInventoryExportExecutor_RejectsWrongJobType(t *testing.T) {
	executor := NewInventoryExportExecutor(newFakeInventoryRepo(), &stubProductRepo{}, &stubWarehouseRepo{}, newMemoryObjectStore(), "", zap.NewNop())

	job := NewJob(JobTypeSearchReindex, time.Now(), time.Now(), 1)
	err := executor.Execute(context.Background(), job)
	assert.ErrorIs(t, err, ErrInvalidJobType)
}
