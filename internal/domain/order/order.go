package order

import (
	"fmt"
	"time"

	"github.com/batterydepartment/backend/internal/domain/shared"
	"github.com/batterydepartment/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the status of a storefront order
type OrderStatus string

const (
	OrderStatusPending      OrderStatus = "pending"       // awaiting payment
	OrderStatusPaid         OrderStatus = "paid"          // payment captured
	OrderStatusInProduction OrderStatus = "in_production" // engraving in progress
	OrderStatusShipped      OrderStatus = "shipped"
	OrderStatusDelivered    OrderStatus = "delivered"
	OrderStatusCancelled    OrderStatus = "cancelled"
)

// CanTransitionTo returns true if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	transitions := map[OrderStatus][]OrderStatus{
		OrderStatusPending:      {OrderStatusPaid, OrderStatusCancelled},
		OrderStatusPaid:         {OrderStatusInProduction, OrderStatusShipped, OrderStatusCancelled},
		OrderStatusInProduction: {OrderStatusShipped},
		OrderStatusShipped:      {OrderStatusDelivered},
		OrderStatusDelivered:    {},
		OrderStatusCancelled:    {},
	}
	for _, allowed := range transitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// ShippingAddress is the destination of an order.
// Region drives the lithium shipping screen.
type ShippingAddress struct {
	Name       string `gorm:"type:varchar(100);not null" json:"name"`
	Line1      string `gorm:"type:varchar(200);not null" json:"line1"`
	Line2      string `gorm:"type:varchar(200)" json:"line2,omitempty"`
	City       string `gorm:"type:varchar(100);not null" json:"city"`
	Region     string `gorm:"type:varchar(10);not null" json:"region"` // ISO 3166-2 region code, e.g. "US-CA"
	PostalCode string `gorm:"type:varchar(20);not null" json:"postal_code"`
	Country    string `gorm:"type:varchar(2);not null" json:"country"` // ISO 3166-1 alpha-2
}

// Validate checks the address for required fields
func (a ShippingAddress) Validate() error {
	if a.Name == "" || a.Line1 == "" || a.City == "" || a.Region == "" || a.PostalCode == "" || a.Country == "" {
		return shared.NewDomainError("INVALID_ADDRESS", "Shipping address is incomplete")
	}
	if len(a.Country) != 2 {
		return shared.NewDomainError("INVALID_ADDRESS", "Country must be an ISO 3166-1 alpha-2 code")
	}
	return nil
}

// OrderItem is a line of an order. EngravingDesignID is set when the
// battery carries a customer nameplate.
type OrderItem struct {
	shared.BaseEntity
	OrderID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID         uuid.UUID       `gorm:"type:uuid;not null"`
	SKU               string          `gorm:"type:varchar(50);not null"`
	EngravingDesignID *uuid.UUID      `gorm:"type:uuid"`
	Quantity          int             `gorm:"not null"`
	ListPrice         decimal.Decimal `gorm:"type:decimal(18,4);not null"` // catalog price before the volume discount
	UnitPrice         decimal.Decimal `gorm:"type:decimal(18,4);not null"` // price charged per unit
	LineTotal         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	StockLockID       *uuid.UUID      `gorm:"type:uuid"` // reservation backing this line
	WarehouseID       *uuid.UUID      `gorm:"type:uuid"` // warehouse fulfilling this line
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// Order represents a storefront order.
// It is the aggregate root for order operations.
type Order struct {
	shared.BaseAggregateRoot
	Number          string          `gorm:"type:varchar(30);not null;uniqueIndex"`
	CustomerID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Status          OrderStatus     `gorm:"type:varchar(20);not null;default:'pending';index"`
	Items           []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Address         ShippingAddress `gorm:"embedded;embeddedPrefix:ship_"`
	Subtotal        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // sum of lines at list price
	Discount        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // volume discount taken off the subtotal
	Total           decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	PaymentIntentID string          `gorm:"type:varchar(100);index"` // Stripe payment intent
	TrackingNumber  string          `gorm:"type:varchar(100)"`
	PaidAt          *time.Time      `gorm:"type:timestamptz"`
	ShippedAt       *time.Time      `gorm:"type:timestamptz"`
	CancelReason    string          `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// FormatOrderNumber builds an order number from a date and a daily sequence,
// e.g. BD-20260826-0042.
func FormatOrderNumber(date time.Time, sequence int) string {
	return fmt.Sprintf("BD-%s-%04d", date.Format("20060102"), sequence)
}

// NewOrder creates a new pending order
func NewOrder(number string, customerID uuid.UUID, address ShippingAddress) (*Order, error) {
	if number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Order number cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if err := address.Validate(); err != nil {
		return nil, err
	}

	order := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Number:            number,
		CustomerID:        customerID,
		Status:            OrderStatusPending,
		Address:           address,
		Subtotal:          decimal.Zero,
		Discount:          decimal.Zero,
		Total:             decimal.Zero,
		Items:             make([]OrderItem, 0),
	}

	order.AddDomainEvent(NewOrderCreatedEvent(order))

	return order, nil
}

// AddItem adds a line to a pending order and recalculates totals.
// ListPrice is the catalog price and unitPrice the price charged after
// the volume discount; the order-level discount is derived from the gap.
func (o *Order) AddItem(productID uuid.UUID, sku string, quantity int, listPrice, unitPrice valueobject.Money, designID *uuid.UUID) error {
	if o.Status != OrderStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Items can only be added to pending orders")
	}
	if productID == uuid.Nil {
		return shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.Amount().IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if unitPrice.Amount().GreaterThan(listPrice.Amount()) {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot exceed the list price")
	}

	lineTotal := unitPrice.Amount().Mul(decimal.NewFromInt(int64(quantity)))
	o.Items = append(o.Items, OrderItem{
		BaseEntity:        shared.NewBaseEntity(),
		OrderID:           o.ID,
		ProductID:         productID,
		SKU:               sku,
		EngravingDesignID: designID,
		Quantity:          quantity,
		ListPrice:         listPrice.Amount(),
		UnitPrice:         unitPrice.Amount(),
		LineTotal:         lineTotal,
	})

	o.recalculate()
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// AttachStockLock records the reservation and fulfilling warehouse for a line
func (o *Order) AttachStockLock(itemID, lockID, warehouseID uuid.UUID) error {
	for idx := range o.Items {
		if o.Items[idx].ID == itemID {
			o.Items[idx].StockLockID = &lockID
			o.Items[idx].WarehouseID = &warehouseID
			return nil
		}
	}
	return shared.NewDomainError("ITEM_NOT_FOUND", "Order item not found")
}

// AttachPaymentIntent records the Stripe payment intent backing this order
func (o *Order) AttachPaymentIntent(intentID string) error {
	if o.Status != OrderStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Payment intent can only be attached to pending orders")
	}
	if intentID == "" {
		return shared.NewDomainError("INVALID_PAYMENT_INTENT", "Payment intent ID cannot be empty")
	}

	o.PaymentIntentID = intentID
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// MarkPaid transitions the order to paid when the payment is captured
func (o *Order) MarkPaid() error {
	if !o.Status.CanTransitionTo(OrderStatusPaid) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot mark a %s order as paid", o.Status))
	}

	now := time.Now()
	o.Status = OrderStatusPaid
	o.PaidAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderPaidEvent(o))

	return nil
}

// StartProduction moves a paid order with engraved items into production
func (o *Order) StartProduction() error {
	if !o.Status.CanTransitionTo(OrderStatusInProduction) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot start production for a %s order", o.Status))
	}
	if !o.HasEngravedItems() {
		return shared.NewDomainError("INVALID_STATE", "Order has no engraved items to produce")
	}

	o.Status = OrderStatusInProduction
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderProductionStartedEvent(o))

	return nil
}

// Ship marks the order as shipped with a carrier tracking number
func (o *Order) Ship(trackingNumber string) error {
	if !o.Status.CanTransitionTo(OrderStatusShipped) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot ship a %s order", o.Status))
	}
	if trackingNumber == "" {
		return shared.NewDomainError("INVALID_TRACKING", "Tracking number is required")
	}

	now := time.Now()
	o.Status = OrderStatusShipped
	o.TrackingNumber = trackingNumber
	o.ShippedAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderShippedEvent(o))

	return nil
}

// Deliver marks the order as delivered
func (o *Order) Deliver() error {
	if !o.Status.CanTransitionTo(OrderStatusDelivered) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot deliver a %s order", o.Status))
	}

	o.Status = OrderStatusDelivered
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderDeliveredEvent(o))

	return nil
}

// Cancel cancels a pending or paid order
func (o *Order) Cancel(reason string) error {
	if !o.Status.CanTransitionTo(OrderStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel a %s order", o.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancellation reason is required")
	}

	o.Status = OrderStatusCancelled
	o.CancelReason = reason
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderCancelledEvent(o, reason))

	return nil
}

// HasEngravedItems returns true if any line carries a nameplate design
func (o *Order) HasEngravedItems() bool {
	for _, item := range o.Items {
		if item.EngravingDesignID != nil {
			return true
		}
	}
	return false
}

// TotalUnits returns the total number of battery units in the order
func (o *Order) TotalUnits() int {
	units := 0
	for _, item := range o.Items {
		units += item.Quantity
	}
	return units
}

// GetTotalMoney returns the order total as a Money value object
func (o *Order) GetTotalMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(o.Total)
}

// recalculate recomputes subtotal, discount and total from the line
// snapshots. The subtotal is priced at list, the total at the charged
// unit price, and the discount is the difference.
func (o *Order) recalculate() {
	subtotal := decimal.Zero
	total := decimal.Zero
	for _, item := range o.Items {
		subtotal = subtotal.Add(item.ListPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
		total = total.Add(item.LineTotal)
	}
	o.Subtotal = subtotal
	o.Discount = subtotal.Sub(total)
	o.Total = total
}
