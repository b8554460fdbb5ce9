package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/batterydepartment/backend/internal/domain/inventory"
	"github.com/batterydepartment/backend/internal/domain/shared"
	"github.com/batterydepartment/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeInventoryRepo is an in-memory InventoryRepository for monitor tests
type fakeInventoryRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*inventory.InventoryItem
	saves int
}

func newFakeInventoryRepo() *fakeInventoryRepo {
	return &fakeInventoryRepo{items: make(map[uuid.UUID]*inventory.InventoryItem)}
}

func (r *fakeInventoryRepo) add(item *inventory.InventoryItem) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[item.ID] = item
}

func (r *fakeInventoryRepo) FindByID(ctx context.Context, id uuid.UUID) (*inventory.InventoryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, shared.NewDomainError("NOT_FOUND", "inventory item not found")
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
	r.saves++
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
	return nil, shared.NewDomainError("NOT_FOUND", "inventory item not found")
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
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]inventory.InventoryItem, 0)
	for _, item := range r.items {
		for _, lock := range item.Locks {
			if lock.IsActive() && lock.ExpireAt.Before(before) {
				out = append(out, *item)
				break
			}
		}
	}
	return out, nil
}

func (r *fakeInventoryRepo) SaveWithVersion(ctx context.Context, item *inventory.InventoryItem, expectedVersion int) error {
	return r.Save(ctx, item)
}

// capturingTransactionRepo records audit rows written by the sweep
type capturingTransactionRepo struct {
	mu  sync.Mutex
	txs []inventory.InventoryTransaction
}

func (r *capturingTransactionRepo) Save(ctx context.Context, tx *inventory.InventoryTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.txs = append(r.txs, *tx)
	return nil
}

func (r *capturingTransactionRepo) FindByItem(ctx context.Context, inventoryItemID uuid.UUID, filter shared.Filter) ([]inventory.InventoryTransaction, error) {
	return nil, nil
}

func (r *capturingTransactionRepo) FindByWarehouse(ctx context.Context, warehouseID uuid.UUID, from, to time.Time, filter shared.Filter) ([]inventory.InventoryTransaction, error) {
	return nil, nil
}

func (r *capturingTransactionRepo) FindBySource(ctx context.Context, sourceType inventory.SourceType, sourceID string) ([]inventory.InventoryTransaction, error) {
	return nil, nil
}

// capturingPublisher records every published event
type capturingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (p *capturingPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *capturingPublisher) eventTypes() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, 0, len(p.events))
	for _, e := range p.events {
		types = append(types, e.EventType())
	}
	return types
}

// deadlineObservingRepo records the deadline of the context each sweep
// queries with
type deadlineObservingRepo struct {
	*fakeInventoryRepo
	deadlines []time.Time
}

func (r *deadlineObservingRepo) FindWithExpiredLocks(ctx context.Context, before time.Time) ([]inventory.InventoryItem, error) {
	if deadline, ok := ctx.Deadline(); ok {
		r.deadlines = append(r.deadlines, deadline)
	}
	return r.fakeInventoryRepo.FindWithExpiredLocks(ctx, before)
}

func newTestMonitor(repo inventory.InventoryRepository, pub shared.EventPublisher) (*StockMonitor, *capturingTransactionRepo) {
	cfg := config.StockMonitorConfig{
		Enabled:            true,
		CheckInterval:      time.Minute,
		SweepTimeout:       30 * time.Second,
		DefaultCartHold:    30 * time.Minute,
		AutoReleaseEnabled: true,
	}
	txRepo := &capturingTransactionRepo{}
	return NewStockMonitor(cfg, repo, txRepo, pub, zap.NewNop()), txRepo
}

func newStockedItem(t *testing.T, available int) *inventory.InventoryItem {
	t.Helper()
	item, err := inventory.NewInventoryItem(uuid.New(), uuid.New())
	require.NoError(t, err)
	item.ID = uuid.New()
	require.NoError(t, item.IncreaseStock(available, "purchase_order", "PO-1001"))
	item.ClearDomainEvents()
	return item
}

func TestStockMonitor_ReleasesExpiredLocks(t *testing.T) {
	ctx := context.Background()
	repo := newFakeInventoryRepo()
	pub := &capturingPublisher{}
	monitor, txRepo := newTestMonitor(repo, pub)

	item := newStockedItem(t, 10)
	_, err := item.LockStock(4, "order", "ORD-1", time.Now().Add(-time.Minute))
	require.NoError(t, err)
	item.ClearDomainEvents()
	repo.add(item)

	monitor.RunOnce(ctx)

	stored, err := repo.FindByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, stored.AvailableQuantity)
	assert.Equal(t, 0, stored.LockedQuantity)
	assert.Contains(t, pub.eventTypes(), "StockLockExpired")

	// The reclaimed lock leaves an audit row behind
	require.Len(t, txRepo.txs, 1)
	row := txRepo.txs[0]
	assert.Equal(t, inventory.TransactionTypeUnlock, row.TransactionType)
	assert.Equal(t, inventory.SourceTypeLockExpiry, row.SourceType)
	assert.Equal(t, "ORD-1", row.SourceID)
	assert.Equal(t, 4, row.Quantity)
	assert.Equal(t, 6, row.BalanceBefore)
	assert.Equal(t, 10, row.BalanceAfter)
}

func TestStockMonitor_LeavesActiveLocksAlone(t *testing.T) {
	ctx := context.Background()
	repo := newFakeInventoryRepo()
	pub := &capturingPublisher{}
	monitor, _ := newTestMonitor(repo, pub)

	item := newStockedItem(t, 10)
	_, err := item.LockStock(4, "order", "ORD-2", time.Now().Add(30*time.Minute))
	require.NoError(t, err)
	item.ClearDomainEvents()
	repo.add(item)

	monitor.RunOnce(ctx)

	stored, err := repo.FindByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, stored.AvailableQuantity)
	assert.Equal(t, 4, stored.LockedQuantity)
	assert.NotContains(t, pub.eventTypes(), "StockLockExpired")
}

func TestStockMonitor_AutoReleaseDisabled(t *testing.T) {
	ctx := context.Background()
	repo := newFakeInventoryRepo()
	pub := &capturingPublisher{}
	cfg := config.StockMonitorConfig{
		Enabled:            true,
		CheckInterval:      time.Minute,
		AutoReleaseEnabled: false,
	}
	monitor := NewStockMonitor(cfg, repo, &capturingTransactionRepo{}, pub, zap.NewNop())

	item := newStockedItem(t, 10)
	_, err := item.LockStock(4, "order", "ORD-3", time.Now().Add(-time.Minute))
	require.NoError(t, err)
	item.ClearDomainEvents()
	repo.add(item)

	monitor.RunOnce(ctx)

	stored, err := repo.FindByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, stored.LockedQuantity)
}

func TestStockMonitor_LowStockAlertOncePerDip(t *testing.T) {
	ctx := context.Background()
	repo := newFakeInventoryRepo()
	pub := &capturingPublisher{}
	monitor, _ := newTestMonitor(repo, pub)

	item := newStockedItem(t, 3)
	require.NoError(t, item.SetThresholds(5, 100))
	item.ClearDomainEvents()
	repo.add(item)

	monitor.RunOnce(ctx)
	monitor.RunOnce(ctx)

	count := 0
	for _, et := range pub.eventTypes() {
		if et == "StockBelowThreshold" {
			count++
		}
	}
	assert.Equal(t, 1, count, "an item below threshold should alert once until it recovers")
}

func TestStockMonitor_AlertsAgainAfterRecovery(t *testing.T) {
	ctx := context.Background()
	repo := newFakeInventoryRepo()
	pub := &capturingPublisher{}
	monitor, _ := newTestMonitor(repo, pub)

	item := newStockedItem(t, 3)
	require.NoError(t, item.SetThresholds(5, 100))
	item.ClearDomainEvents()
	repo.add(item)

	monitor.RunOnce(ctx)

	// Restock above the threshold, then dip below again
	require.NoError(t, item.IncreaseStock(10, "purchase_order", "PO-1002"))
	item.ClearDomainEvents()
	monitor.RunOnce(ctx)

	require.NoError(t, item.AdjustStock(2, "cycle count"))
	item.ClearDomainEvents()
	monitor.RunOnce(ctx)

	count := 0
	for _, et := range pub.eventTypes() {
		if et == "StockBelowThreshold" {
			count++
		}
	}
	assert.Equal(t, 2, count)
}

func TestStockMonitor_SweepsWithBoundedContext(t *testing.T) {
	repo := &deadlineObservingRepo{fakeInventoryRepo: newFakeInventoryRepo()}
	pub := &capturingPublisher{}
	monitor, _ := newTestMonitor(repo, pub)

	before := time.Now()
	monitor.RunOnce(context.Background())

	require.Len(t, repo.deadlines, 1)
	assert.True(t, repo.deadlines[0].After(before))
	assert.WithinDuration(t, before.Add(30*time.Second), repo.deadlines[0], 5*time.Second)
}

func TestStockMonitor_StartStop(t *testing.T) {
	repo := newFakeInventoryRepo()
	pub := &capturingPublisher{}
	monitor, _ := newTestMonitor(repo, pub)

	require.NoError(t, monitor.Start(context.Background()))
	// Starting twice is a no-op
	require.NoError(t, monitor.Start(context.Background()))

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, monitor.Stop(stopCtx))
}
