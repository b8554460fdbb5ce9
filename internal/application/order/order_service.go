// Package order contains the checkout and fulfillment application services:
// order creation with stock reservation, payment confirmation, production,
// compliance-screened shipping and cancellation.
package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	complianceapp "github.com/batterydepartment/backend/internal/application/compliance"
	inventoryapp "github.com/batterydepartment/backend/internal/application/inventory"
	"github.com/batterydepartment/backend/internal/domain/catalog"
	"github.com/batterydepartment/backend/internal/domain/engraving"
	"github.com/batterydepartment/backend/internal/domain/order"
	"github.com/batterydepartment/backend/internal/domain/partner"
	"github.com/batterydepartment/backend/internal/domain/shared"
	"github.com/batterydepartment/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// checkoutKeyTTL is how long a checkout idempotency key stays claimed
const checkoutKeyTTL = 24 * time.Hour

// PaymentIntent is the payment handle returned to the storefront
type PaymentIntent struct {
	ID           string
	ClientSecret string
	Status       string
}

// PaymentGateway collects payment for orders
type PaymentGateway interface {
	CreatePaymentIntent(ctx context.Context, orderID uuid.UUID, orderNumber string, amount valueobject.Money, customerEmail string) (*PaymentIntent, error)
	CancelPaymentIntent(ctx context.Context, paymentIntentID string) error
}

// ShipmentScreener runs the lithium transport screen before shipping
type ShipmentScreener interface {
	ScreenShipment(ctx context.Context, req complianceapp.ScreenShipmentRequest) (*complianceapp.ScreeningReport, error)
}

// OrderService handles checkout and order lifecycle
type OrderService struct {
	orderRepo      order.OrderRepository
	productRepo    catalog.ProductRepository
	designRepo     engraving.DesignRepository
	warehouseRepo  partner.WarehouseRepository
	inventory      *inventoryapp.InventoryService
	screener       ShipmentScreener
	payments       PaymentGateway
	idempotency    shared.IdempotencyStore
	eventPublisher shared.EventPublisher
}

// NewOrderService creates a new order service
func NewOrderService(
	orderRepo order.OrderRepository,
	productRepo catalog.ProductRepository,
	designRepo engraving.DesignRepository,
	warehouseRepo partner.WarehouseRepository,
	inventoryService *inventoryapp.InventoryService,
) *OrderService {
	return &OrderService{
		orderRepo:     orderRepo,
		productRepo:   productRepo,
		designRepo:    designRepo,
		warehouseRepo: warehouseRepo,
		inventory:     inventoryService,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetPaymentGateway sets the payment gateway used at checkout
func (s *OrderService) SetPaymentGateway(gateway PaymentGateway) {
	s.payments = gateway
}

// SetShipmentScreener sets the compliance screen run before shipping
func (s *OrderService) SetShipmentScreener(screener ShipmentScreener) {
	s.screener = screener
}

// SetIdempotencyStore sets the store backing checkout idempotency keys
func (s *OrderService) SetIdempotencyStore(store shared.IdempotencyStore) {
	s.idempotency = store
}

func (s *OrderService) publishDomainEvents(ctx context.Context, o *order.Order) {
	if s.eventPublisher == nil {
		return
	}
	events := o.GetDomainEvents()
	if len(events) > 0 {
		_ = s.eventPublisher.Publish(ctx, events...)
		o.ClearDomainEvents()
	}
}

// Checkout creates an order: prices the lines with the volume discount,
// validates nameplate designs, reserves stock at a fulfilling warehouse and
// opens a payment intent.
func (s *OrderService) Checkout(ctx context.Context, customerID uuid.UUID, customerEmail string, req CheckoutRequest) (*CheckoutResponse, error) {
	if req.IdempotencyKey != "" && s.idempotency != nil {
		key := fmt.Sprintf("checkout:%s:%s", customerID, req.IdempotencyKey)
		fresh, err := s.idempotency.MarkProcessed(ctx, key, checkoutKeyTTL)
		if err != nil {
			return nil, fmt.Errorf("failed to claim idempotency key: %w", err)
		}
		if !fresh {
			return nil, shared.NewDomainError("DUPLICATE_CHECKOUT", "This checkout was already submitted")
		}
	}

	number, err := s.nextOrderNumber(ctx)
	if err != nil {
		return nil, err
	}

	o, err := order.NewOrder(number, customerID, order.ShippingAddress{
		Name:       req.Address.Name,
		Line1:      req.Address.Line1,
		Line2:      req.Address.Line2,
		City:       req.Address.City,
		Region:     strings.ToUpper(req.Address.Region),
		PostalCode: req.Address.PostalCode,
		Country:    strings.ToUpper(req.Address.Country),
	})
	if err != nil {
		return nil, err
	}

	// The volume discount tier is chosen by the total battery count of the
	// order, not per line.
	totalUnits := 0
	for _, line := range req.Lines {
		totalUnits += line.Quantity
	}

	for _, line := range req.Lines {
		product, err := s.productRepo.FindByID(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		if !product.IsActive() {
			return nil, shared.NewDomainError("PRODUCT_NOT_ACTIVE", fmt.Sprintf("Product %s is not available", product.SKU))
		}
		if line.EngravingDesignID != nil {
			if err := s.validateDesign(ctx, customerID, product, *line.EngravingDesignID); err != nil {
				return nil, err
			}
		}

		unitPrice := product.UnitPriceFor(totalUnits)
		if err := o.AddItem(product.ID, product.SKU, line.Quantity, product.GetBasePriceMoney(), unitPrice, line.EngravingDesignID); err != nil {
			return nil, err
		}
	}

	if err := s.reserveStock(ctx, o); err != nil {
		return nil, err
	}

	var intent *PaymentIntent
	if s.payments != nil {
		intent, err = s.payments.CreatePaymentIntent(ctx, o.ID, o.Number, o.GetTotalMoney(), customerEmail)
		if err != nil {
			s.releaseLocks(ctx, o)
			return nil, fmt.Errorf("failed to open payment intent: %w", err)
		}
		if err := o.AttachPaymentIntent(intent.ID); err != nil {
			return nil, err
		}
	}

	if err := s.orderRepo.Save(ctx, o); err != nil {
		s.releaseLocks(ctx, o)
		return nil, fmt.Errorf("failed to save order: %w", err)
	}
	s.publishDomainEvents(ctx, o)

	response := &CheckoutResponse{Order: ToOrderResponse(o)}
	if intent != nil {
		response.PaymentIntentID = intent.ID
		response.PaymentClientSecret = intent.ClientSecret
	}
	return response, nil
}

// validateDesign checks that a nameplate design may back an order line
func (s *OrderService) validateDesign(ctx context.Context, customerID uuid.UUID, product *catalog.Product, designID uuid.UUID) error {
	if !product.Engravable {
		return shared.NewDomainError("NOT_ENGRAVABLE", fmt.Sprintf("Product %s does not support engraving", product.SKU))
	}
	design, err := s.designRepo.FindByID(ctx, designID)
	if err != nil {
		return err
	}
	if design.CustomerID != customerID {
		return shared.ErrForbidden
	}
	if !design.IsApproved() {
		return shared.NewDomainError("DESIGN_NOT_APPROVED", "Only approved designs can be ordered")
	}
	return nil
}

// reserveStock locks stock for every line, preferring warehouses in the
// destination region and falling back to the network default. On any
// failure the locks taken so far are released.
func (s *OrderService) reserveStock(ctx context.Context, o *order.Order) error {
	candidates, err := s.candidateWarehouses(ctx, o.Address.Region)
	if err != nil {
		return err
	}

	for idx := range o.Items {
		item := &o.Items[idx]
		locked := false
		for _, wh := range candidates {
			lock, err := s.inventory.LockStock(ctx, inventoryapp.LockStockRequest{
				WarehouseID: wh.ID,
				ProductID:   item.ProductID,
				Quantity:    item.Quantity,
				SourceType:  "order",
				SourceID:    o.Number,
			})
			if err != nil {
				continue
			}
			if err := o.AttachStockLock(item.ID, lock.LockID, wh.ID); err != nil {
				return err
			}
			locked = true
			break
		}
		if !locked {
			s.releaseLocks(ctx, o)
			return shared.NewDomainError("INSUFFICIENT_STOCK",
				fmt.Sprintf("No warehouse can fulfill %d x %s", item.Quantity, item.SKU))
		}
	}
	return nil
}

// candidateWarehouses orders the active warehouses for allocation: the
// destination region first, then the default, then the rest.
func (s *OrderService) candidateWarehouses(ctx context.Context, region string) ([]partner.Warehouse, error) {
	seen := make(map[uuid.UUID]bool)
	candidates := make([]partner.Warehouse, 0)

	regional, err := s.warehouseRepo.FindByRegion(ctx, region)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	for _, wh := range regional {
		if !seen[wh.ID] {
			seen[wh.ID] = true
			candidates = append(candidates, wh)
		}
	}

	if def, err := s.warehouseRepo.FindDefault(ctx); err == nil && !seen[def.ID] {
		seen[def.ID] = true
		candidates = append(candidates, *def)
	}

	active, err := s.warehouseRepo.FindActive(ctx)
	if err != nil {
		return nil, err
	}
	for _, wh := range active {
		if !seen[wh.ID] {
			seen[wh.ID] = true
			candidates = append(candidates, wh)
		}
	}

	if len(candidates) == 0 {
		return nil, shared.NewDomainError("NO_WAREHOUSE", "No active warehouse is available")
	}
	return candidates, nil
}

// releaseLocks unlocks every reservation attached to the order, used when
// checkout fails partway or the order is cancelled.
func (s *OrderService) releaseLocks(ctx context.Context, o *order.Order) {
	for idx := range o.Items {
		item := &o.Items[idx]
		if item.StockLockID == nil || item.WarehouseID == nil {
			continue
		}
		inv, err := s.inventory.GetByWarehouseAndProduct(ctx, *item.WarehouseID, item.ProductID)
		if err != nil {
			continue
		}
		_ = s.inventory.UnlockStock(ctx, inv.ID, *item.StockLockID)
	}
}

// nextOrderNumber allocates the next number in the daily sequence
func (s *OrderService) nextOrderNumber(ctx context.Context) (string, error) {
	now := time.Now()
	count, err := s.orderRepo.CountForDay(ctx, now)
	if err != nil {
		return "", fmt.Errorf("failed to allocate order number: %w", err)
	}
	return order.FormatOrderNumber(now, int(count)+1), nil
}

// GetByID retrieves an order, restricted to its owner unless admin is set
func (s *OrderService) GetByID(ctx context.Context, id uuid.UUID, customerID uuid.UUID, admin bool) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !admin && o.CustomerID != customerID {
		return nil, shared.ErrForbidden
	}
	response := ToOrderResponse(o)
	return &response, nil
}

// GetByNumber retrieves an order by its order number
func (s *OrderService) GetByNumber(ctx context.Context, number string) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(o)
	return &response, nil
}

// ListByCustomer retrieves a customer's orders
func (s *OrderService) ListByCustomer(ctx context.Context, customerID uuid.UUID, filter OrderListFilter) ([]OrderResponse, error) {
	domainFilter := s.domainFilter(filter)
	orders, err := s.orderRepo.FindByCustomer(ctx, customerID, domainFilter)
	if err != nil {
		return nil, err
	}
	return ToOrderResponses(orders), nil
}

// List retrieves orders for the admin console
func (s *OrderService) List(ctx context.Context, filter OrderListFilter) ([]OrderResponse, int64, error) {
	domainFilter := s.domainFilter(filter)
	if filter.Status != "" {
		orders, err := s.orderRepo.FindByStatus(ctx, order.OrderStatus(filter.Status), domainFilter)
		if err != nil {
			return nil, 0, err
		}
		return ToOrderResponses(orders), int64(len(orders)), nil
	}

	orders, err := s.orderRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.orderRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToOrderResponses(orders), total, nil
}

func (s *OrderService) domainFilter(filter OrderListFilter) shared.Filter {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	return shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "created_at",
		OrderDir: "desc",
	}
}

// ConfirmPayment marks the order backing a captured payment intent as paid.
// Stripe webhooks may be delivered more than once; a repeat confirmation on
// an already paid order is a no-op.
func (s *OrderService) ConfirmPayment(ctx context.Context, paymentIntentID string) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByPaymentIntent(ctx, paymentIntentID)
	if err != nil {
		return nil, err
	}
	if o.Status != order.OrderStatusPending {
		response := ToOrderResponse(o)
		return &response, nil
	}
	if err := o.MarkPaid(); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, o); err != nil {
		return nil, fmt.Errorf("failed to save order: %w", err)
	}
	s.publishDomainEvents(ctx, o)

	response := ToOrderResponse(o)
	return &response, nil
}

// FailPayment cancels the order backing a failed or abandoned payment intent
func (s *OrderService) FailPayment(ctx context.Context, paymentIntentID string, reason string) error {
	o, err := s.orderRepo.FindByPaymentIntent(ctx, paymentIntentID)
	if err != nil {
		return err
	}
	if o.Status != order.OrderStatusPending {
		return nil
	}
	if reason == "" {
		reason = "payment failed"
	}
	return s.cancel(ctx, o, reason)
}

// StartProduction moves a paid order with engraved items into production
func (s *OrderService) StartProduction(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := o.StartProduction(); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, o); err != nil {
		return nil, fmt.Errorf("failed to save order: %w", err)
	}
	s.publishDomainEvents(ctx, o)

	response := ToOrderResponse(o)
	return &response, nil
}

// Ship marks the order as shipped. Every engraved line must be queued for
// engraving and the whole shipment must pass the lithium transport screen.
func (s *OrderService) Ship(ctx context.Context, id uuid.UUID, req ShipOrderRequest) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.checkEngravedLinesQueued(ctx, o); err != nil {
		return nil, err
	}
	if err := s.runShippingScreen(ctx, o); err != nil {
		return nil, err
	}

	if err := o.Ship(req.TrackingNumber); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, o); err != nil {
		return nil, fmt.Errorf("failed to save order: %w", err)
	}
	s.publishDomainEvents(ctx, o)

	response := ToOrderResponse(o)
	return &response, nil
}

func (s *OrderService) checkEngravedLinesQueued(ctx context.Context, o *order.Order) error {
	for idx := range o.Items {
		item := &o.Items[idx]
		if item.EngravingDesignID == nil {
			continue
		}
		design, err := s.designRepo.FindByID(ctx, *item.EngravingDesignID)
		if err != nil {
			return err
		}
		if design.Status != engraving.DesignStatusQueued {
			return shared.NewDomainError("ENGRAVING_NOT_QUEUED",
				fmt.Sprintf("Design for %s has not been queued for engraving", item.SKU))
		}
	}
	return nil
}

// runShippingScreen fails closed: with no screener configured, orders
// containing lithium batteries do not ship.
func (s *OrderService) runShippingScreen(ctx context.Context, o *order.Order) error {
	if s.screener == nil {
		return shared.NewDomainError("SCREENING_UNAVAILABLE", "The shipping compliance screen is not configured")
	}

	lines := make([]complianceapp.ShipmentLineInput, len(o.Items))
	for i := range o.Items {
		lines[i] = complianceapp.ShipmentLineInput{
			ProductID: o.Items[i].ProductID,
			Quantity:  o.Items[i].Quantity,
		}
	}
	report, err := s.screener.ScreenShipment(ctx, complianceapp.ScreenShipmentRequest{
		RegionCode: o.Address.Region,
		Lines:      lines,
	})
	if err != nil {
		return err
	}
	if !report.Passed {
		reasons := make([]string, 0)
		for _, result := range report.Results {
			reasons = append(reasons, result.Reasons...)
		}
		return shared.NewDomainError("SHIPPING_RESTRICTED", strings.Join(reasons, "; "))
	}
	return nil
}

// Deliver marks the order as delivered
func (s *OrderService) Deliver(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := o.Deliver(); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, o); err != nil {
		return nil, fmt.Errorf("failed to save order: %w", err)
	}
	s.publishDomainEvents(ctx, o)

	response := ToOrderResponse(o)
	return &response, nil
}

// Cancel cancels a pending or paid order, releasing its stock locks and
// voiding the open payment intent.
func (s *OrderService) Cancel(ctx context.Context, id uuid.UUID, customerID uuid.UUID, admin bool, req CancelOrderRequest) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !admin && o.CustomerID != customerID {
		return nil, shared.ErrForbidden
	}
	if err := s.cancel(ctx, o, req.Reason); err != nil {
		return nil, err
	}
	response := ToOrderResponse(o)
	return &response, nil
}

func (s *OrderService) cancel(ctx context.Context, o *order.Order, reason string) error {
	if err := o.Cancel(reason); err != nil {
		return err
	}
	if err := s.orderRepo.Save(ctx, o); err != nil {
		return fmt.Errorf("failed to save order: %w", err)
	}

	s.releaseLocks(ctx, o)
	if o.PaymentIntentID != "" && s.payments != nil {
		_ = s.payments.CancelPaymentIntent(ctx, o.PaymentIntentID)
	}
	s.publishDomainEvents(ctx, o)
	return nil
}

// StatusSummary counts orders per status for the admin dashboard
func (s *OrderService) StatusSummary(ctx context.Context) (*StatusSummaryResponse, error) {
	summary := &StatusSummaryResponse{}
	counts := []struct {
		status order.OrderStatus
		dest   *int64
	}{
		{order.OrderStatusPending, &summary.Pending},
		{order.OrderStatusPaid, &summary.Paid},
		{order.OrderStatusInProduction, &summary.InProduction},
		{order.OrderStatusShipped, &summary.Shipped},
		{order.OrderStatusDelivered, &summary.Delivered},
		{order.OrderStatusCancelled, &summary.Cancelled},
	}
	for _, c := range counts {
		n, err := s.orderRepo.Count(ctx, shared.Filter{
			Filters: map[string]interface{}{"status": string(c.status)},
		})
		if err != nil {
			return nil, err
		}
		*c.dest = n
		summary.Total += n
	}
	return summary, nil
}
