package inventory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/batterydepartment/backend/internal/domain/inventory"
	"github.com/batterydepartment/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeInventoryRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*inventory.InventoryItem
}

func newFakeInventoryRepo() *fakeInventoryRepo {
	return &fakeInventoryRepo{items: make(map[uuid.UUID]*inventory.InventoryItem)}
}

func (r *fakeInventoryRepo) FindByID(ctx context.Context, id uuid.UUID) (*inventory.InventoryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return item, nil
}

func (r *fakeInventoryRepo) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.InventoryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]inventory.InventoryItem, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, *item)
	}
	return out, nil
}

func (r *fakeInventoryRepo) Save(ctx context.Context, item *inventory.InventoryItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[item.ID] = item
	return nil
}

func (r *fakeInventoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

func (r *fakeInventoryRepo) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.items)), nil
}

func (r *fakeInventoryRepo) FindByWarehouseAndProduct(ctx context.Context, warehouseID, productID uuid.UUID) (*inventory.InventoryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.items {
		if item.WarehouseID == warehouseID && item.ProductID == productID {
			return item, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeInventoryRepo) FindByProduct(ctx context.Context, productID uuid.UUID) ([]inventory.InventoryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]inventory.InventoryItem, 0)
	for _, item := range r.items {
		if item.ProductID == productID {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (r *fakeInventoryRepo) FindByWarehouse(ctx context.Context, warehouseID uuid.UUID, filter shared.Filter) ([]inventory.InventoryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]inventory.InventoryItem, 0)
	for _, item := range r.items {
		if item.WarehouseID == warehouseID {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (r *fakeInventoryRepo) FindBelowMinimum(ctx context.Context) ([]inventory.InventoryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]inventory.InventoryItem, 0)
	for _, item := range r.items {
		if item.IsBelowMinimum() {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (r *fakeInventoryRepo) FindWithExpiredLocks(ctx context.Context, before time.Time) ([]inventory.InventoryItem, error) {
	return nil, nil
}

func (r *fakeInventoryRepo) SaveWithVersion(ctx context.Context, item *inventory.InventoryItem, expectedVersion int) error {
	return r.Save(ctx, item)
}

type fakeTransactionRepo struct {
	mu  sync.Mutex
	txs []*inventory.InventoryTransaction
}

func (r *fakeTransactionRepo) Save(ctx context.Context, tx *inventory.InventoryTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.txs = append(r.txs, tx)
	return nil
}

func (r *fakeTransactionRepo) FindByItem(ctx context.Context, inventoryItemID uuid.UUID, filter shared.Filter) ([]inventory.InventoryTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]inventory.InventoryTransaction, 0)
	for _, tx := range r.txs {
		if tx.InventoryItemID == inventoryItemID {
			out = append(out, *tx)
		}
	}
	return out, nil
}

func (r *fakeTransactionRepo) FindByWarehouse(ctx context.Context, warehouseID uuid.UUID, from, to time.Time, filter shared.Filter) ([]inventory.InventoryTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]inventory.InventoryTransaction, 0)
	for _, tx := range r.txs {
		if tx.WarehouseID == warehouseID {
			out = append(out, *tx)
		}
	}
	return out, nil
}

func (r *fakeTransactionRepo) FindBySource(ctx context.Context, sourceType inventory.SourceType, sourceID string) ([]inventory.InventoryTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]inventory.InventoryTransaction, 0)
	for _, tx := range r.txs {
		if tx.SourceType == sourceType && tx.SourceID == sourceID {
			out = append(out, *tx)
		}
	}
	return out, nil
}

func (r *fakeTransactionRepo) typesSaved() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]string, len(r.txs))
	for i, tx := range r.txs {
		types[i] = string(tx.TransactionType)
	}
	return types
}

func newTestService() (*InventoryService, *fakeInventoryRepo, *fakeTransactionRepo) {
	invRepo := newFakeInventoryRepo()
	txRepo := &fakeTransactionRepo{}
	return NewInventoryService(invRepo, txRepo), invRepo, txRepo
}

func TestInventoryService_ReceiveStock_CreatesItemOnFirstReceipt(t *testing.T) {
	svc, _, txRepo := newTestService()
	ctx := context.Background()

	resp, err := svc.ReceiveStock(ctx, ReceiveStockRequest{
		WarehouseID: uuid.New(),
		ProductID:   uuid.New(),
		Quantity:    50,
		SourceType:  "purchase_order",
		SourceID:    "PO-2001",
	})
	require.NoError(t, err)
	assert.Equal(t, 50, resp.AvailableQuantity)
	assert.Equal(t, []string{"INBOUND"}, txRepo.typesSaved())
}

func TestInventoryService_ReceiveStock_AccumulatesOnExistingItem(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	warehouseID := uuid.New()
	productID := uuid.New()

	_, err := svc.ReceiveStock(ctx, ReceiveStockRequest{
		WarehouseID: warehouseID, ProductID: productID,
		Quantity: 50, SourceType: "purchase_order", SourceID: "PO-2001",
	})
	require.NoError(t, err)

	resp, err := svc.ReceiveStock(ctx, ReceiveStockRequest{
		WarehouseID: warehouseID, ProductID: productID,
		Quantity: 25, SourceType: "purchase_order", SourceID: "PO-2002",
	})
	require.NoError(t, err)
	assert.Equal(t, 75, resp.AvailableQuantity)
}

func TestInventoryService_LockUnlockRoundTrip(t *testing.T) {
	svc, invRepo, txRepo := newTestService()
	ctx := context.Background()
	warehouseID := uuid.New()
	productID := uuid.New()

	_, err := svc.ReceiveStock(ctx, ReceiveStockRequest{
		WarehouseID: warehouseID, ProductID: productID,
		Quantity: 10, SourceType: "purchase_order", SourceID: "PO-2001",
	})
	require.NoError(t, err)

	lock, err := svc.LockStock(ctx, LockStockRequest{
		WarehouseID: warehouseID, ProductID: productID,
		Quantity: 4, SourceType: "order", SourceID: "BD-20260826-0001",
	})
	require.NoError(t, err)
	assert.True(t, lock.ExpireAt.After(time.Now()))

	item, err := invRepo.FindByID(ctx, lock.InventoryItemID)
	require.NoError(t, err)
	assert.Equal(t, 6, item.AvailableQuantity)
	assert.Equal(t, 4, item.LockedQuantity)

	err = svc.UnlockStock(ctx, lock.InventoryItemID, lock.LockID)
	require.NoError(t, err)
	assert.Equal(t, 10, item.AvailableQuantity)
	assert.Equal(t, 0, item.LockedQuantity)
	assert.Equal(t, []string{"INBOUND", "LOCK", "UNLOCK"}, txRepo.typesSaved())
}

func TestInventoryService_UnlockStock_TwiceReturnsLockNotFound(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	warehouseID := uuid.New()
	productID := uuid.New()

	_, err := svc.ReceiveStock(ctx, ReceiveStockRequest{
		WarehouseID: warehouseID, ProductID: productID,
		Quantity: 10, SourceType: "purchase_order", SourceID: "PO-2001",
	})
	require.NoError(t, err)

	lock, err := svc.LockStock(ctx, LockStockRequest{
		WarehouseID: warehouseID, ProductID: productID,
		Quantity: 3, SourceType: "order", SourceID: "BD-20260826-0002",
	})
	require.NoError(t, err)

	require.NoError(t, svc.UnlockStock(ctx, lock.InventoryItemID, lock.LockID))

	err = svc.UnlockStock(ctx, lock.InventoryItemID, lock.LockID)
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "LOCK_NOT_FOUND", domainErr.Code)
}

func TestInventoryService_DeductStock_ConsumesLock(t *testing.T) {
	svc, invRepo, txRepo := newTestService()
	ctx := context.Background()
	warehouseID := uuid.New()
	productID := uuid.New()

	_, err := svc.ReceiveStock(ctx, ReceiveStockRequest{
		WarehouseID: warehouseID, ProductID: productID,
		Quantity: 10, SourceType: "purchase_order", SourceID: "PO-2001",
	})
	require.NoError(t, err)

	lock, err := svc.LockStock(ctx, LockStockRequest{
		WarehouseID: warehouseID, ProductID: productID,
		Quantity: 4, SourceType: "order", SourceID: "BD-20260826-0003",
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeductStock(ctx, lock.InventoryItemID, lock.LockID))

	item, err := invRepo.FindByID(ctx, lock.InventoryItemID)
	require.NoError(t, err)
	assert.Equal(t, 6, item.AvailableQuantity)
	assert.Equal(t, 0, item.LockedQuantity)
	assert.Contains(t, txRepo.typesSaved(), "OUTBOUND")
}

func TestInventoryService_LockStock_InsufficientStock(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	warehouseID := uuid.New()
	productID := uuid.New()

	_, err := svc.ReceiveStock(ctx, ReceiveStockRequest{
		WarehouseID: warehouseID, ProductID: productID,
		Quantity: 2, SourceType: "purchase_order", SourceID: "PO-2001",
	})
	require.NoError(t, err)

	_, err = svc.LockStock(ctx, LockStockRequest{
		WarehouseID: warehouseID, ProductID: productID,
		Quantity: 5, SourceType: "order", SourceID: "BD-20260826-0004",
	})
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INSUFFICIENT_STOCK", domainErr.Code)
}

func TestInventoryService_AdjustStock_RecordsDirectionalTransaction(t *testing.T) {
	svc, _, txRepo := newTestService()
	ctx := context.Background()
	warehouseID := uuid.New()
	productID := uuid.New()

	_, err := svc.ReceiveStock(ctx, ReceiveStockRequest{
		WarehouseID: warehouseID, ProductID: productID,
		Quantity: 10, SourceType: "purchase_order", SourceID: "PO-2001",
	})
	require.NoError(t, err)

	resp, err := svc.AdjustStock(ctx, AdjustStockRequest{
		WarehouseID: warehouseID, ProductID: productID,
		ActualQuantity: 7, Reason: "cycle count",
	})
	require.NoError(t, err)
	assert.Equal(t, 7, resp.AvailableQuantity)
	assert.Contains(t, txRepo.typesSaved(), "ADJUSTMENT_DECREASE")

	resp, err = svc.AdjustStock(ctx, AdjustStockRequest{
		WarehouseID: warehouseID, ProductID: productID,
		ActualQuantity: 12, Reason: "found pallet",
	})
	require.NoError(t, err)
	assert.Equal(t, 12, resp.AvailableQuantity)
	assert.Contains(t, txRepo.typesSaved(), "ADJUSTMENT_INCREASE")
}

func TestInventoryService_CheckAvailability_AcrossWarehouses(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	productID := uuid.New()

	for _, qty := range []int{3, 8} {
		_, err := svc.ReceiveStock(ctx, ReceiveStockRequest{
			WarehouseID: uuid.New(), ProductID: productID,
			Quantity: qty, SourceType: "purchase_order", SourceID: "PO-2001",
		})
		require.NoError(t, err)
	}

	resp, err := svc.CheckAvailability(ctx, productID, 5)
	require.NoError(t, err)
	assert.Equal(t, 11, resp.TotalAvailable)
	assert.True(t, resp.CanFulfill)
	assert.Len(t, resp.Warehouses, 2)

	resp, err = svc.CheckAvailability(ctx, productID, 10)
	require.NoError(t, err)
	assert.False(t, resp.CanFulfill, "no single warehouse can fulfil 10 units")
}

func TestInventoryService_SetThresholds_CreatesPlaceholderItem(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	resp, err := svc.SetThresholds(ctx, SetThresholdsRequest{
		WarehouseID: uuid.New(), ProductID: uuid.New(),
		MinQuantity: 5, MaxQuantity: 100,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, resp.MinQuantity)
	assert.Equal(t, 100, resp.MaxQuantity)
	assert.True(t, resp.IsBelowMinimum)
}
