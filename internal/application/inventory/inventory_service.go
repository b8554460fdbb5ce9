package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/batterydepartment/backend/internal/domain/inventory"
	"github.com/batterydepartment/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// defaultLockExpiry is used when a lock request does not carry an expiry,
// matching the cart hold window of the stock monitor.
const defaultLockExpiry = 30 * time.Minute

// InventoryService handles inventory application logic
type InventoryService struct {
	inventoryRepo   inventory.InventoryRepository
	transactionRepo inventory.TransactionRepository
	eventPublisher  shared.EventPublisher
	lockExpiry      time.Duration
}

// NewInventoryService creates a new inventory service
func NewInventoryService(
	inventoryRepo inventory.InventoryRepository,
	transactionRepo inventory.TransactionRepository,
) *InventoryService {
	return &InventoryService{
		inventoryRepo:   inventoryRepo,
		transactionRepo: transactionRepo,
		lockExpiry:      defaultLockExpiry,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *InventoryService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetLockExpiry overrides the default cart hold window
func (s *InventoryService) SetLockExpiry(d time.Duration) {
	if d > 0 {
		s.lockExpiry = d
	}
}

// publishDomainEvents publishes all domain events from an aggregate
func (s *InventoryService) publishDomainEvents(ctx context.Context, item *inventory.InventoryItem) {
	if s.eventPublisher == nil {
		return
	}
	events := item.GetDomainEvents()
	if len(events) > 0 {
		_ = s.eventPublisher.Publish(ctx, events...)
		item.ClearDomainEvents()
	}
}

// GetByID retrieves an inventory item by ID
func (s *InventoryService) GetByID(ctx context.Context, id uuid.UUID) (*InventoryItemResponse, error) {
	item, err := s.inventoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToInventoryItemResponse(item)
	return &response, nil
}

// GetByWarehouseAndProduct retrieves the item for a warehouse-product pair
func (s *InventoryService) GetByWarehouseAndProduct(ctx context.Context, warehouseID, productID uuid.UUID) (*InventoryItemResponse, error) {
	item, err := s.inventoryRepo.FindByWarehouseAndProduct(ctx, warehouseID, productID)
	if err != nil {
		return nil, err
	}
	response := ToInventoryItemResponse(item)
	return &response, nil
}

// List retrieves inventory items with filtering and pagination
func (s *InventoryService) List(ctx context.Context, filter InventoryListFilter) (*shared.Paginated[InventoryItemResponse], error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Filters:  make(map[string]interface{}),
	}
	if filter.WarehouseID != nil {
		domainFilter.Filters["warehouse_id"] = *filter.WarehouseID
	}
	if filter.ProductID != nil {
		domainFilter.Filters["product_id"] = *filter.ProductID
	}

	items, err := s.inventoryRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.inventoryRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	responses := ToInventoryItemResponses(items)
	if filter.BelowMinimum != nil && *filter.BelowMinimum {
		filtered := make([]InventoryItemResponse, 0, len(responses))
		for _, r := range responses {
			if r.IsBelowMinimum {
				filtered = append(filtered, r)
			}
		}
		responses = filtered
	}

	page := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &page, nil
}

// ListBelowMinimum retrieves all items below their alert threshold
func (s *InventoryService) ListBelowMinimum(ctx context.Context) ([]InventoryItemResponse, error) {
	items, err := s.inventoryRepo.FindBelowMinimum(ctx)
	if err != nil {
		return nil, err
	}
	return ToInventoryItemResponses(items), nil
}

// CheckAvailability reports sellable stock for a product across all warehouses
func (s *InventoryService) CheckAvailability(ctx context.Context, productID uuid.UUID, quantity int) (*AvailabilityResponse, error) {
	if quantity < 1 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	items, err := s.inventoryRepo.FindByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	response := &AvailabilityResponse{
		ProductID:  productID,
		Warehouses: make([]WarehouseAvailability, 0, len(items)),
	}
	for i := range items {
		item := &items[i]
		response.TotalAvailable += item.AvailableQuantity
		if item.CanFulfill(quantity) {
			response.CanFulfill = true
		}
		response.Warehouses = append(response.Warehouses, WarehouseAvailability{
			WarehouseID:       item.WarehouseID,
			AvailableQuantity: item.AvailableQuantity,
		})
	}
	return response, nil
}

// ReceiveStock records a supplier delivery, creating the inventory item on first receipt
func (s *InventoryService) ReceiveStock(ctx context.Context, req ReceiveStockRequest) (*InventoryItemResponse, error) {
	item, err := s.inventoryRepo.FindByWarehouseAndProduct(ctx, req.WarehouseID, req.ProductID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		item, err = inventory.NewInventoryItem(req.WarehouseID, req.ProductID)
		if err != nil {
			return nil, err
		}
	}

	balanceBefore := item.AvailableQuantity
	if err := item.IncreaseStock(req.Quantity, req.SourceType, req.SourceID); err != nil {
		return nil, err
	}
	if err := s.inventoryRepo.Save(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to save inventory item: %w", err)
	}

	s.recordTransaction(ctx, item, inventory.TransactionTypeInbound, req.Quantity,
		balanceBefore, item.AvailableQuantity,
		inventory.SourceTypeSupplierReceipt, req.SourceID, nil, "", req.OperatorID)
	s.publishDomainEvents(ctx, item)

	response := ToInventoryItemResponse(item)
	return &response, nil
}

// LockStock reserves stock for a pending checkout
func (s *InventoryService) LockStock(ctx context.Context, req LockStockRequest) (*LockStockResponse, error) {
	item, err := s.inventoryRepo.FindByWarehouseAndProduct(ctx, req.WarehouseID, req.ProductID)
	if err != nil {
		return nil, err
	}

	expireAt := time.Now().Add(s.lockExpiry)
	if req.ExpireAt != nil {
		expireAt = *req.ExpireAt
	}

	balanceBefore := item.AvailableQuantity
	lock, err := item.LockStock(req.Quantity, req.SourceType, req.SourceID, expireAt)
	if err != nil {
		return nil, err
	}
	if err := s.inventoryRepo.SaveWithVersion(ctx, item, item.Version); err != nil {
		return nil, fmt.Errorf("failed to save inventory item: %w", err)
	}

	lockID := lock.ID
	s.recordTransaction(ctx, item, inventory.TransactionTypeLock, req.Quantity,
		balanceBefore, item.AvailableQuantity,
		inventory.SourceTypeOrder, req.SourceID, &lockID, "", nil)
	s.publishDomainEvents(ctx, item)

	return &LockStockResponse{
		LockID:          lock.ID,
		InventoryItemID: item.ID,
		WarehouseID:     item.WarehouseID,
		ProductID:       item.ProductID,
		Quantity:        lock.Quantity,
		ExpireAt:        lock.ExpireAt,
	}, nil
}

// UnlockStock releases a reservation, returning the units to available stock
func (s *InventoryService) UnlockStock(ctx context.Context, itemID, lockID uuid.UUID) error {
	item, err := s.inventoryRepo.FindByID(ctx, itemID)
	if err != nil {
		return err
	}

	balanceBefore := item.AvailableQuantity
	quantity, sourceID := lockDetails(item, lockID)
	if err := item.UnlockStock(lockID); err != nil {
		return err
	}
	if err := s.inventoryRepo.SaveWithVersion(ctx, item, item.Version); err != nil {
		return fmt.Errorf("failed to save inventory item: %w", err)
	}

	s.recordTransaction(ctx, item, inventory.TransactionTypeUnlock, quantity,
		balanceBefore, item.AvailableQuantity,
		inventory.SourceTypeOrder, sourceID, &lockID, "", nil)
	s.publishDomainEvents(ctx, item)
	return nil
}

// DeductStock consumes a reservation when an order ships
func (s *InventoryService) DeductStock(ctx context.Context, itemID, lockID uuid.UUID) error {
	item, err := s.inventoryRepo.FindByID(ctx, itemID)
	if err != nil {
		return err
	}

	balanceBefore := item.AvailableQuantity
	quantity, sourceID := lockDetails(item, lockID)
	if err := item.DeductStock(lockID); err != nil {
		return err
	}
	if err := s.inventoryRepo.SaveWithVersion(ctx, item, item.Version); err != nil {
		return fmt.Errorf("failed to save inventory item: %w", err)
	}

	s.recordTransaction(ctx, item, inventory.TransactionTypeOutbound, quantity,
		balanceBefore, item.AvailableQuantity,
		inventory.SourceTypeOrder, sourceID, &lockID, "", nil)
	s.publishDomainEvents(ctx, item)
	return nil
}

// AdjustStock corrects available stock after a cycle count
func (s *InventoryService) AdjustStock(ctx context.Context, req AdjustStockRequest) (*InventoryItemResponse, error) {
	item, err := s.inventoryRepo.FindByWarehouseAndProduct(ctx, req.WarehouseID, req.ProductID)
	if err != nil {
		return nil, err
	}

	balanceBefore := item.AvailableQuantity
	if err := item.AdjustStock(req.ActualQuantity, req.Reason); err != nil {
		return nil, err
	}
	if err := s.inventoryRepo.SaveWithVersion(ctx, item, item.Version); err != nil {
		return nil, fmt.Errorf("failed to save inventory item: %w", err)
	}

	txType := inventory.TransactionTypeAdjustmentIncrease
	delta := item.AvailableQuantity - balanceBefore
	if delta < 0 {
		txType = inventory.TransactionTypeAdjustmentDecrease
		delta = -delta
	}
	if delta > 0 {
		sourceID := fmt.Sprintf("ADJ-%d", time.Now().Unix())
		s.recordTransaction(ctx, item, txType, delta,
			balanceBefore, item.AvailableQuantity,
			inventory.SourceTypeManualAdjustment, sourceID, nil, req.Reason, req.OperatorID)
	}
	s.publishDomainEvents(ctx, item)

	response := ToInventoryItemResponse(item)
	return &response, nil
}

// SetThresholds updates the low-stock alert threshold and restock ceiling
func (s *InventoryService) SetThresholds(ctx context.Context, req SetThresholdsRequest) (*InventoryItemResponse, error) {
	item, err := s.inventoryRepo.FindByWarehouseAndProduct(ctx, req.WarehouseID, req.ProductID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		item, err = inventory.NewInventoryItem(req.WarehouseID, req.ProductID)
		if err != nil {
			return nil, err
		}
	}

	if err := item.SetThresholds(req.MinQuantity, req.MaxQuantity); err != nil {
		return nil, err
	}
	if err := s.inventoryRepo.Save(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to save inventory item: %w", err)
	}
	s.publishDomainEvents(ctx, item)

	response := ToInventoryItemResponse(item)
	return &response, nil
}

// ListTransactions retrieves the movement audit trail for an inventory item
func (s *InventoryService) ListTransactions(ctx context.Context, itemID uuid.UUID, filter TransactionListFilter) ([]TransactionResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}

	domainFilter := shared.Filter{Page: filter.Page, PageSize: filter.PageSize}
	txs, err := s.transactionRepo.FindByItem(ctx, itemID, domainFilter)
	if err != nil {
		return nil, err
	}
	return ToTransactionResponses(txs), nil
}

// ListWarehouseTransactions retrieves movements in a warehouse within a time range
func (s *InventoryService) ListWarehouseTransactions(ctx context.Context, warehouseID uuid.UUID, filter TransactionListFilter) ([]TransactionResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}

	from := time.Time{}
	to := time.Now()
	if filter.From != nil {
		from = *filter.From
	}
	if filter.To != nil {
		to = *filter.To
	}

	domainFilter := shared.Filter{Page: filter.Page, PageSize: filter.PageSize}
	txs, err := s.transactionRepo.FindByWarehouse(ctx, warehouseID, from, to, domainFilter)
	if err != nil {
		return nil, err
	}
	return ToTransactionResponses(txs), nil
}

// recordTransaction writes an audit record for a stock movement. Audit
// failures never fail the movement itself.
func (s *InventoryService) recordTransaction(
	ctx context.Context,
	item *inventory.InventoryItem,
	txType inventory.TransactionType,
	quantity, balanceBefore, balanceAfter int,
	sourceType inventory.SourceType,
	sourceID string,
	lockID *uuid.UUID,
	reason string,
	operatorID *uuid.UUID,
) {
	tx, err := inventory.NewInventoryTransaction(
		item.ID, item.WarehouseID, item.ProductID,
		txType, quantity, balanceBefore, balanceAfter,
		sourceType, sourceID,
	)
	if err != nil {
		return
	}
	if lockID != nil {
		tx = tx.WithLock(*lockID)
	}
	if reason != "" {
		tx = tx.WithReason(reason)
	}
	if operatorID != nil {
		tx = tx.WithOperator(*operatorID)
	}
	_ = s.transactionRepo.Save(ctx, tx)
}

// lockDetails returns the quantity and source document of a lock before it
// is mutated by unlock or deduct.
func lockDetails(item *inventory.InventoryItem, lockID uuid.UUID) (int, string) {
	for i := range item.Locks {
		if item.Locks[i].ID == lockID {
			return item.Locks[i].Quantity, item.Locks[i].SourceID
		}
	}
	return 0, ""
}
