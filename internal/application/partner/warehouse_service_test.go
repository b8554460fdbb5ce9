package partner

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/batterydepartment/backend/internal/domain/inventory"
	"github.com/batterydepartment/backend/internal/domain/partner"
	"github.com/batterydepartment/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSupplierRepo struct {
	mu        sync.Mutex
	suppliers map[uuid.UUID]*partner.Supplier
}

func newFakeSupplierRepo() *fakeSupplierRepo {
	return &fakeSupplierRepo{suppliers: make(map[uuid.UUID]*partner.Supplier)}
}

func (r *fakeSupplierRepo) FindByID(ctx context.Context, id uuid.UUID) (*partner.Supplier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.suppliers[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return s, nil
}

func (r *fakeSupplierRepo) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Supplier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]partner.Supplier, 0, len(r.suppliers))
	for _, s := range r.suppliers {
		out = append(out, *s)
	}
	return out, nil
}

func (r *fakeSupplierRepo) Save(ctx context.Context, s *partner.Supplier) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.suppliers[s.ID] = s
	return nil
}

func (r *fakeSupplierRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.suppliers, id)
	return nil
}

func (r *fakeSupplierRepo) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.suppliers)), nil
}

func (r *fakeSupplierRepo) FindByCode(ctx context.Context, code string) (*partner.Supplier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.suppliers {
		if strings.EqualFold(s.Code, code) {
			return s, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeSupplierRepo) FindByStatus(ctx context.Context, status partner.SupplierStatus, filter shared.Filter) (*shared.Paginated[partner.Supplier], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]partner.Supplier, 0)
	for _, s := range r.suppliers {
		if s.Status == status {
			out = append(out, *s)
		}
	}
	page := shared.NewPaginated(out, int64(len(out)), filter.Page, filter.PageSize)
	return &page, nil
}

func (r *fakeSupplierRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	_, err := r.FindByCode(ctx, code)
	return err == nil, nil
}

type fakeWarehouseRepo struct {
	mu         sync.Mutex
	warehouses map[uuid.UUID]*partner.Warehouse
}

func newFakeWarehouseRepo() *fakeWarehouseRepo {
	return &fakeWarehouseRepo{warehouses: make(map[uuid.UUID]*partner.Warehouse)}
}

func (r *fakeWarehouseRepo) FindByID(ctx context.Context, id uuid.UUID) (*partner.Warehouse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.warehouses[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return w, nil
}

func (r *fakeWarehouseRepo) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Warehouse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]partner.Warehouse, 0, len(r.warehouses))
	for _, w := range r.warehouses {
		out = append(out, *w)
	}
	return out, nil
}

func (r *fakeWarehouseRepo) Save(ctx context.Context, w *partner.Warehouse) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warehouses[w.ID] = w
	return nil
}

func (r *fakeWarehouseRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.warehouses, id)
	return nil
}

func (r *fakeWarehouseRepo) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.warehouses)), nil
}

func (r *fakeWarehouseRepo) FindByCode(ctx context.Context, code string) (*partner.Warehouse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, w := range r.warehouses {
		if strings.EqualFold(w.Code, code) {
			return w, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeWarehouseRepo) FindBySupplier(ctx context.Context, supplierID uuid.UUID) ([]partner.Warehouse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]partner.Warehouse, 0)
	for _, w := range r.warehouses {
		if w.SupplierID == supplierID {
			out = append(out, *w)
		}
	}
	return out, nil
}

func (r *fakeWarehouseRepo) FindActive(ctx context.Context) ([]partner.Warehouse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]partner.Warehouse, 0)
	for _, w := range r.warehouses {
		if w.IsActive() {
			out = append(out, *w)
		}
	}
	return out, nil
}

func (r *fakeWarehouseRepo) FindDefault(ctx context.Context) (*partner.Warehouse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, w := range r.warehouses {
		if w.IsDefault {
			return w, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeWarehouseRepo) FindByRegion(ctx context.Context, region string) ([]partner.Warehouse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]partner.Warehouse, 0)
	for _, w := range r.warehouses {
		if w.Region == region && w.IsActive() {
			out = append(out, *w)
		}
	}
	return out, nil
}

type stubInventoryRepo struct {
	items []inventory.InventoryItem
}

func (r *stubInventoryRepo) FindByID(ctx context.Context, id uuid.UUID) (*inventory.InventoryItem, error) {
	return nil, shared.ErrNotFound
}

func (r *stubInventoryRepo) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.InventoryItem, error) {
	return r.items, nil
}

func (r *stubInventoryRepo) Save(ctx context.Context, item *inventory.InventoryItem) error {
	return nil
}

func (r *stubInventoryRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (r *stubInventoryRepo) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	return int64(len(r.items)), nil
}

func (r *stubInventoryRepo) FindByWarehouseAndProduct(ctx context.Context, warehouseID, productID uuid.UUID) (*inventory.InventoryItem, error) {
	return nil, shared.ErrNotFound
}

func (r *stubInventoryRepo) FindByProduct(ctx context.Context, productID uuid.UUID) ([]inventory.InventoryItem, error) {
	return nil, nil
}

func (r *stubInventoryRepo) FindByWarehouse(ctx context.Context, warehouseID uuid.UUID, filter shared.Filter) ([]inventory.InventoryItem, error) {
	out := make([]inventory.InventoryItem, 0)
	for _, item := range r.items {
		if item.WarehouseID == warehouseID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *stubInventoryRepo) FindBelowMinimum(ctx context.Context) ([]inventory.InventoryItem, error) {
	return nil, nil
}

func (r *stubInventoryRepo) FindWithExpiredLocks(ctx context.Context, before time.Time) ([]inventory.InventoryItem, error) {
	return nil, nil
}

func (r *stubInventoryRepo) SaveWithVersion(ctx context.Context, item *inventory.InventoryItem, expectedVersion int) error {
	return nil
}

func newTestWarehouseService(invRepo inventory.InventoryRepository) (*WarehouseService, *fakeWarehouseRepo, *partner.Supplier) {
	supplierRepo := newFakeSupplierRepo()
	warehouseRepo := newFakeWarehouseRepo()

	supplier, _ := partner.NewSupplier("RHY", "RHY Batteries", "ops@rhy.example.com")
	_ = supplier.Activate()
	supplier.ClearDomainEvents()
	_ = supplierRepo.Save(context.Background(), supplier)

	svc := NewWarehouseService(warehouseRepo, supplierRepo, invRepo, zap.NewNop())
	return svc, warehouseRepo, supplier
}

func stockedItem(warehouseID uuid.UUID, qty int) inventory.InventoryItem {
	item, _ := inventory.NewInventoryItem(warehouseID, uuid.New())
	_ = item.IncreaseStock(qty, "purchase_order", "PO-1001")
	item.ClearDomainEvents()
	return *item
}

func TestWarehouseService_Create(t *testing.T) {
	svc, _, supplier := newTestWarehouseService(&stubInventoryRepo{})

	resp, err := svc.Create(context.Background(), CreateWarehouseRequest{
		SupplierID: supplier.ID,
		Code:       "LA-01",
		Name:       "Los Angeles",
		City:       "Los Angeles",
		Region:     "US-CA",
		Capacity:   5000,
	})
	require.NoError(t, err)
	assert.Equal(t, "LA-01", resp.Code)
	assert.Equal(t, "active", resp.Status)
	assert.Equal(t, 5000, resp.Capacity)
}

func TestWarehouseService_Create_RejectsInactiveSupplier(t *testing.T) {
	svc, _, _ := newTestWarehouseService(&stubInventoryRepo{})

	pending, err := partner.NewSupplier("NEW", "New Supplier", "new@example.com")
	require.NoError(t, err)
	require.NoError(t, svc.supplierRepo.Save(context.Background(), pending))

	_, err = svc.Create(context.Background(), CreateWarehouseRequest{
		SupplierID: pending.ID, Code: "NY-01", Name: "New York", Region: "US-NY",
	})
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "SUPPLIER_NOT_ACTIVE", domainErr.Code)
}

func TestWarehouseService_SetDefault_MovesTheFlag(t *testing.T) {
	svc, repo, supplier := newTestWarehouseService(&stubInventoryRepo{})
	ctx := context.Background()

	first, err := svc.Create(ctx, CreateWarehouseRequest{
		SupplierID: supplier.ID, Code: "LA-01", Name: "Los Angeles", Region: "US-CA",
	})
	require.NoError(t, err)
	second, err := svc.Create(ctx, CreateWarehouseRequest{
		SupplierID: supplier.ID, Code: "TX-01", Name: "Dallas", Region: "US-TX",
	})
	require.NoError(t, err)

	_, err = svc.SetDefault(ctx, first.ID)
	require.NoError(t, err)
	_, err = svc.SetDefault(ctx, second.ID)
	require.NoError(t, err)

	def, err := repo.FindDefault(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, def.ID)

	old, err := repo.FindByID(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, old.IsDefault)
}

func TestWarehouseService_Disable_RequiresForceWhenStocked(t *testing.T) {
	invRepo := &stubInventoryRepo{}
	svc, _, supplier := newTestWarehouseService(invRepo)
	ctx := context.Background()

	wh, err := svc.Create(ctx, CreateWarehouseRequest{
		SupplierID: supplier.ID, Code: "LA-01", Name: "Los Angeles", Region: "US-CA",
	})
	require.NoError(t, err)
	invRepo.items = []inventory.InventoryItem{stockedItem(wh.ID, 40)}

	_, err = svc.Disable(ctx, wh.ID, DisableWarehouseRequest{Force: false})
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "HAS_STOCK", domainErr.Code)

	resp, err := svc.Disable(ctx, wh.ID, DisableWarehouseRequest{Force: true})
	require.NoError(t, err)
	assert.Equal(t, "disabled", resp.Status)
}

func TestWarehouseService_Disable_RejectsDefault(t *testing.T) {
	svc, _, supplier := newTestWarehouseService(&stubInventoryRepo{})
	ctx := context.Background()

	wh, err := svc.Create(ctx, CreateWarehouseRequest{
		SupplierID: supplier.ID, Code: "LA-01", Name: "Los Angeles", Region: "US-CA",
	})
	require.NoError(t, err)
	_, err = svc.SetDefault(ctx, wh.ID)
	require.NoError(t, err)

	_, err = svc.Disable(ctx, wh.ID, DisableWarehouseRequest{Force: true})
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "IS_DEFAULT", domainErr.Code)
}

func TestWarehouseService_SupplierInventory(t *testing.T) {
	invRepo := &stubInventoryRepo{}
	svc, _, supplier := newTestWarehouseService(invRepo)
	ctx := context.Background()

	wh, err := svc.Create(ctx, CreateWarehouseRequest{
		SupplierID: supplier.ID, Code: "LA-01", Name: "Los Angeles", Region: "US-CA",
	})
	require.NoError(t, err)
	invRepo.items = []inventory.InventoryItem{stockedItem(wh.ID, 25)}

	resp, err := svc.SupplierInventory(ctx, supplier.ID)
	require.NoError(t, err)
	require.Len(t, resp.Rows, 1)
	assert.Equal(t, "LA-01", resp.Rows[0].WarehouseCode)
	assert.Equal(t, 25, resp.Rows[0].AvailableQuantity)
}

func TestSupplierService_LifecycleSuspend(t *testing.T) {
	repo := newFakeSupplierRepo()
	svc := NewSupplierService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateSupplierRequest{
		Code: "RHY", Name: "RHY Batteries", ContactEmail: "ops@rhy.example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "pending", created.Status)

	_, err = svc.Create(ctx, CreateSupplierRequest{
		Code: "rhy", Name: "Duplicate", ContactEmail: "dup@example.com",
	})
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "DUPLICATE_CODE", domainErr.Code)

	activated, err := svc.Activate(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "active", activated.Status)

	suspended, err := svc.Suspend(ctx, created.ID, SuspendSupplierRequest{Reason: "failed audit"})
	require.NoError(t, err)
	assert.Equal(t, "suspended", suspended.Status)
}
