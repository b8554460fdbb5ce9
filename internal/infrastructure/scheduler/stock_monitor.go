package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/batterydepartment/backend/internal/domain/inventory"
	"github.com/batterydepartment/backend/internal/domain/shared"
	"github.com/batterydepartment/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StockMonitor sweeps inventory on a fixed interval. Each tick it
// releases expired stock locks back to available quantity and raises
// low-stock alerts for items that fell below their threshold.
type StockMonitor struct {
	config          config.StockMonitorConfig
	repo            inventory.InventoryRepository
	transactionRepo inventory.TransactionRepository
	publisher       shared.EventPublisher
	logger          *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool

	// sweepMu serializes sweeps so a manual trigger cannot overlap a tick
	sweepMu sync.Mutex

	lastRun           time.Time
	lastLocksReleased int

	// alerted tracks items already flagged low so an item below
	// threshold produces one alert until it recovers.
	alerted map[uuid.UUID]struct{}
}

// StockMonitorStatus is a snapshot of the monitor's last sweep.
type StockMonitorStatus struct {
	Running           bool      `json:"running"`
	LastRun           time.Time `json:"last_run"`
	LastLocksReleased int       `json:"last_locks_released"`
	ItemsFlagged      int       `json:"items_flagged"`
}

// NewStockMonitor creates a new stock monitor
func NewStockMonitor(
	cfg config.StockMonitorConfig,
	repo inventory.InventoryRepository,
	transactionRepo inventory.TransactionRepository,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *StockMonitor {
	if cfg.CheckInterval <= 0 {
		cfg.CheckInterval = time.Minute
	}
	if cfg.SweepTimeout <= 0 {
		cfg.SweepTimeout = 30 * time.Second
	}
	return &StockMonitor{
		config:          cfg,
		repo:            repo,
		transactionRepo: transactionRepo,
		publisher:       publisher,
		logger:          logger,
		alerted:         make(map[uuid.UUID]struct{}),
	}
}

// Start begins the monitoring loop
func (m *StockMonitor) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.isRunning {
		m.mu.Unlock()
		return nil
	}
	m.isRunning = true
	m.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	m.cancel = cancel

	m.wg.Add(1)
	go m.runLoop(ctx)

	m.logger.Info("Stock monitor started",
		zap.Duration("check_interval", m.config.CheckInterval),
		zap.Bool("auto_release", m.config.AutoReleaseEnabled),
	)

	return nil
}

// Stop stops the monitoring loop
func (m *StockMonitor) Stop(ctx context.Context) error {
	m.mu.Lock()
	if !m.isRunning {
		m.mu.Unlock()
		return nil
	}
	m.isRunning = false
	m.mu.Unlock()

	if m.cancel != nil {
		m.cancel()
	}

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		m.logger.Info("Stock monitor stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *StockMonitor) runLoop(ctx context.Context) {
	defer m.wg.Done()

	ticker := time.NewTicker(m.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single sweep, bounded by the configured sweep
// timeout. Exposed so an admin endpoint can trigger a sweep without
// waiting for the next tick.
func (m *StockMonitor) RunOnce(ctx context.Context) {
	m.sweepMu.Lock()
	defer m.sweepMu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, m.config.SweepTimeout)
	defer cancel()

	released := 0
	if m.config.AutoReleaseEnabled {
		released = m.releaseExpiredLocks(ctx)
	}
	m.checkThresholds(ctx)

	m.mu.Lock()
	m.lastRun = time.Now()
	m.lastLocksReleased = released
	m.mu.Unlock()
}

// Status reports when the monitor last swept and how many items are
// currently flagged below their minimum threshold.
func (m *StockMonitor) Status() StockMonitorStatus {
	m.sweepMu.Lock()
	flagged := len(m.alerted)
	m.sweepMu.Unlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	return StockMonitorStatus{
		Running:           m.isRunning,
		LastRun:           m.lastRun,
		LastLocksReleased: m.lastLocksReleased,
		ItemsFlagged:      flagged,
	}
}

// releaseExpiredLocks returns expired cart holds to available stock
func (m *StockMonitor) releaseExpiredLocks(ctx context.Context) int {
	items, err := m.repo.FindWithExpiredLocks(ctx, time.Now())
	if err != nil {
		m.logger.Error("Failed to find items with expired locks", zap.Error(err))
		return 0
	}

	released := 0
	for i := range items {
		item := &items[i]
		balanceBefore := item.AvailableQuantity
		locks := item.ReleaseExpiredLocks()
		if len(locks) == 0 {
			continue
		}

		if err := m.repo.SaveWithVersion(ctx, item, item.Version); err != nil {
			// Lost the optimistic race, the next sweep picks the item up
			m.logger.Warn("Failed to save item after lock release",
				zap.String("inventory_item_id", item.ID.String()),
				zap.Error(err))
			continue
		}

		m.recordUnlockTransactions(ctx, item, locks, balanceBefore)

		events := item.GetDomainEvents()
		item.ClearDomainEvents()
		if err := m.publisher.Publish(ctx, events...); err != nil {
			m.logger.Error("Failed to publish lock expiry events",
				zap.String("inventory_item_id", item.ID.String()),
				zap.Error(err))
		}
		released += len(locks)
	}

	if released > 0 {
		m.logger.Info("Released expired stock locks",
			zap.Int("locks_released", released),
			zap.Int("items_touched", len(items)),
		)
	}
	return released
}

// recordUnlockTransactions writes one audit row per reclaimed lock,
// stepping the available balance lock by lock.
func (m *StockMonitor) recordUnlockTransactions(ctx context.Context, item *inventory.InventoryItem, locks []inventory.StockLock, balanceBefore int) {
	balance := balanceBefore
	for _, lock := range locks {
		tx, err := inventory.NewInventoryTransaction(
			item.ID, item.WarehouseID, item.ProductID,
			inventory.TransactionTypeUnlock, lock.Quantity,
			balance, balance+lock.Quantity,
			inventory.SourceTypeLockExpiry, lock.SourceID,
		)
		if err != nil {
			continue
		}
		balance += lock.Quantity
		if err := m.transactionRepo.Save(ctx, tx.WithLock(lock.ID)); err != nil {
			m.logger.Error("Failed to record lock expiry transaction",
				zap.String("inventory_item_id", item.ID.String()),
				zap.String("lock_id", lock.ID.String()),
				zap.Error(err))
		}
	}
}

// checkThresholds raises a low-stock alert once per dip below threshold
func (m *StockMonitor) checkThresholds(ctx context.Context) {
	items, err := m.repo.FindBelowMinimum(ctx)
	if err != nil {
		m.logger.Error("Failed to find items below minimum", zap.Error(err))
		return
	}

	below := make(map[uuid.UUID]struct{}, len(items))
	for i := range items {
		item := &items[i]
		below[item.ID] = struct{}{}

		if _, already := m.alerted[item.ID]; already {
			continue
		}
		m.alerted[item.ID] = struct{}{}

		m.logger.Warn("Stock below minimum threshold",
			zap.String("inventory_item_id", item.ID.String()),
			zap.String("warehouse_id", item.WarehouseID.String()),
			zap.String("product_id", item.ProductID.String()),
			zap.Int("total_quantity", item.TotalQuantity()),
			zap.Int("min_quantity", item.MinQuantity),
		)

		event := inventory.NewStockBelowThresholdEvent(item)
		if err := m.publisher.Publish(ctx, event); err != nil {
			m.logger.Error("Failed to publish low stock alert",
				zap.String("inventory_item_id", item.ID.String()),
				zap.Error(err))
		}
	}

	// Items that recovered become eligible to alert again
	for id := range m.alerted {
		if _, stillBelow := below[id]; !stillBelow {
			delete(m.alerted, id)
		}
	}
}
