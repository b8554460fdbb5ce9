package order

import (
	"context"

	inventoryapp "github.com/batterydepartment/backend/internal/application/inventory"
	"github.com/batterydepartment/backend/internal/domain/engraving"
	"github.com/batterydepartment/backend/internal/domain/order"
	"github.com/batterydepartment/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Ensure handlers implement the event handler interface
var _ shared.EventHandler = (*OrderPaidHandler)(nil)
var _ shared.EventHandler = (*OrderShippedHandler)(nil)

// OrderPaidHandler queues the nameplate designs of a paid order for
// engraving. Approved designs become immutable the moment they are queued.
type OrderPaidHandler struct {
	orderRepo  order.OrderRepository
	designRepo engraving.DesignRepository
	logger     *zap.Logger
}

// NewOrderPaidHandler creates a new paid-order handler
func NewOrderPaidHandler(orderRepo order.OrderRepository, designRepo engraving.DesignRepository, logger *zap.Logger) *OrderPaidHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderPaidHandler{orderRepo: orderRepo, designRepo: designRepo, logger: logger}
}

// EventTypes returns the event types this handler subscribes to
func (h *OrderPaidHandler) EventTypes() []string {
	return []string{order.EventTypeOrderPaid}
}

// Handle queues every design referenced by the paid order
func (h *OrderPaidHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	o, err := h.orderRepo.FindByID(ctx, event.AggregateID())
	if err != nil {
		return err
	}

	for idx := range o.Items {
		item := &o.Items[idx]
		if item.EngravingDesignID == nil {
			continue
		}
		design, err := h.designRepo.FindByID(ctx, *item.EngravingDesignID)
		if err != nil {
			h.logger.Warn("Failed to load design for queueing",
				zap.String("order_number", o.Number),
				zap.String("design_id", item.EngravingDesignID.String()),
				zap.Error(err))
			continue
		}
		if design.Status == engraving.DesignStatusQueued {
			continue
		}
		if err := design.Queue(); err != nil {
			h.logger.Warn("Failed to queue design",
				zap.String("order_number", o.Number),
				zap.String("design_id", design.ID.String()),
				zap.Error(err))
			continue
		}
		if err := h.designRepo.Save(ctx, design); err != nil {
			return err
		}
		h.logger.Info("Design queued for engraving",
			zap.String("order_number", o.Number),
			zap.String("design_id", design.ID.String()))
	}
	return nil
}

// OrderShippedHandler consumes the stock reservations of a shipped order,
// turning each lock into an outbound movement.
type OrderShippedHandler struct {
	orderRepo order.OrderRepository
	inventory *inventoryapp.InventoryService
	logger    *zap.Logger
}

// NewOrderShippedHandler creates a new shipped-order handler
func NewOrderShippedHandler(orderRepo order.OrderRepository, inventory *inventoryapp.InventoryService, logger *zap.Logger) *OrderShippedHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderShippedHandler{orderRepo: orderRepo, inventory: inventory, logger: logger}
}

// EventTypes returns the event types this handler subscribes to
func (h *OrderShippedHandler) EventTypes() []string {
	return []string{order.EventTypeOrderShipped}
}

// Handle deducts the reserved stock for every line of the shipped order
func (h *OrderShippedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	o, err := h.orderRepo.FindByID(ctx, event.AggregateID())
	if err != nil {
		return err
	}

	for idx := range o.Items {
		item := &o.Items[idx]
		if item.StockLockID == nil || item.WarehouseID == nil {
			continue
		}
		inv, err := h.inventory.GetByWarehouseAndProduct(ctx, *item.WarehouseID, item.ProductID)
		if err != nil {
			h.logger.Warn("Failed to load inventory item for deduction",
				zap.String("order_number", o.Number),
				zap.String("sku", item.SKU),
				zap.Error(err))
			continue
		}
		if err := h.inventory.DeductStock(ctx, inv.ID, *item.StockLockID); err != nil {
			h.logger.Warn("Failed to deduct reserved stock",
				zap.String("order_number", o.Number),
				zap.String("sku", item.SKU),
				zap.Error(err))
		}
	}
	return nil
}
