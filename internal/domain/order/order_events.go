package order

import (
	"github.com/batterydepartment/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeOrder = "Order"

// Event type constants
const (
	EventTypeOrderCreated           = "OrderCreated"
	EventTypeOrderPaid              = "OrderPaid"
	EventTypeOrderProductionStarted = "OrderProductionStarted"
	EventTypeOrderShipped           = "OrderShipped"
	EventTypeOrderDelivered         = "OrderDelivered"
	EventTypeOrderCancelled         = "OrderCancelled"
)

// OrderCreatedEvent is published when a new order is created
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderID    uuid.UUID `json:"order_id"`
	Number     string    `json:"number"`
	CustomerID uuid.UUID `json:"customer_id"`
	Region     string    `json:"region"`
	Country    string    `json:"country"`
}

// NewOrderCreatedEvent creates a new OrderCreatedEvent
func NewOrderCreatedEvent(o *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCreated, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		Number:          o.Number,
		CustomerID:      o.CustomerID,
		Region:          o.Address.Region,
		Country:         o.Address.Country,
	}
}

// OrderPaidEvent is published when payment is captured
type OrderPaidEvent struct {
	shared.BaseDomainEvent
	OrderID         uuid.UUID       `json:"order_id"`
	Number          string          `json:"number"`
	CustomerID      uuid.UUID       `json:"customer_id"`
	Total           decimal.Decimal `json:"total"`
	PaymentIntentID string          `json:"payment_intent_id"`
	HasEngraving    bool            `json:"has_engraving"`
}

// NewOrderPaidEvent creates a new OrderPaidEvent
func NewOrderPaidEvent(o *Order) *OrderPaidEvent {
	return &OrderPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPaid, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		Number:          o.Number,
		CustomerID:      o.CustomerID,
		Total:           o.Total,
		PaymentIntentID: o.PaymentIntentID,
		HasEngraving:    o.HasEngravedItems(),
	}
}

// OrderProductionStartedEvent is published when engraving starts
type OrderProductionStartedEvent struct {
	shared.BaseDomainEvent
	OrderID uuid.UUID `json:"order_id"`
	Number  string    `json:"number"`
}

// NewOrderProductionStartedEvent creates a new OrderProductionStartedEvent
func NewOrderProductionStartedEvent(o *Order) *OrderProductionStartedEvent {
	return &OrderProductionStartedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderProductionStarted, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		Number:          o.Number,
	}
}

// OrderShippedEvent is published when the order leaves the warehouse
type OrderShippedEvent struct {
	shared.BaseDomainEvent
	OrderID        uuid.UUID `json:"order_id"`
	Number         string    `json:"number"`
	CustomerID     uuid.UUID `json:"customer_id"`
	TrackingNumber string    `json:"tracking_number"`
}

// NewOrderShippedEvent creates a new OrderShippedEvent
func NewOrderShippedEvent(o *Order) *OrderShippedEvent {
	return &OrderShippedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderShipped, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		Number:          o.Number,
		CustomerID:      o.CustomerID,
		TrackingNumber:  o.TrackingNumber,
	}
}

// OrderDeliveredEvent is published when the carrier confirms delivery
type OrderDeliveredEvent struct {
	shared.BaseDomainEvent
	OrderID uuid.UUID `json:"order_id"`
	Number  string    `json:"number"`
}

// NewOrderDeliveredEvent creates a new OrderDeliveredEvent
func NewOrderDeliveredEvent(o *Order) *OrderDeliveredEvent {
	return &OrderDeliveredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderDelivered, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		Number:          o.Number,
	}
}

// OrderCancelledEvent is published when an order is cancelled
type OrderCancelledEvent struct {
	shared.BaseDomainEvent
	OrderID    uuid.UUID `json:"order_id"`
	Number     string    `json:"number"`
	CustomerID uuid.UUID `json:"customer_id"`
	Reason     string    `json:"reason"`
}

// NewOrderCancelledEvent creates a new OrderCancelledEvent
func NewOrderCancelledEvent(o *Order, reason string) *OrderCancelledEvent {
	return &OrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCancelled, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		Number:          o.Number,
		CustomerID:      o.CustomerID,
		Reason:          reason,
	}
}
