package order

import (
	"time"

	"github.com/batterydepartment/backend/internal/domain/order"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ShippingAddressRequest is the destination entered at checkout
type ShippingAddressRequest struct {
	Name       string `json:"name" binding:"required,max=100"`
	Line1      string `json:"line1" binding:"required,max=200"`
	Line2      string `json:"line2" binding:"max=200"`
	City       string `json:"city" binding:"required,max=100"`
	Region     string `json:"region" binding:"required,min=2,max=10"`
	PostalCode string `json:"postal_code" binding:"required,max=20"`
	Country    string `json:"country" binding:"required,len=2"`
}

// CheckoutLineRequest is one battery line in a checkout
type CheckoutLineRequest struct {
	ProductID         uuid.UUID  `json:"product_id" binding:"required"`
	Quantity          int        `json:"quantity" binding:"required,min=1"`
	EngravingDesignID *uuid.UUID `json:"engraving_design_id"`
}

// CheckoutRequest creates an order. The idempotency key is taken from the
// Idempotency-Key header by the handler.
type CheckoutRequest struct {
	IdempotencyKey string                 `json:"-"`
	Address        ShippingAddressRequest `json:"address" binding:"required"`
	Lines          []CheckoutLineRequest  `json:"lines" binding:"required,min=1,dive"`
}

// CheckoutResponse bundles the created order with the payment handle the
// storefront needs to collect the card.
type CheckoutResponse struct {
	Order               OrderResponse `json:"order"`
	PaymentIntentID     string        `json:"payment_intent_id"`
	PaymentClientSecret string        `json:"payment_client_secret"`
}

// OrderItemResponse represents one order line in API responses
type OrderItemResponse struct {
	ID                uuid.UUID  `json:"id"`
	ProductID         uuid.UUID  `json:"product_id"`
	SKU               string     `json:"sku"`
	EngravingDesignID *uuid.UUID `json:"engraving_design_id,omitempty"`
	Quantity          int        `json:"quantity"`
	ListPrice         string     `json:"list_price"`
	UnitPrice         string     `json:"unit_price"`
	LineTotal         string     `json:"line_total"`
	WarehouseID       *uuid.UUID `json:"warehouse_id,omitempty"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID             uuid.UUID           `json:"id"`
	Number         string              `json:"number"`
	CustomerID     uuid.UUID           `json:"customer_id"`
	Status         string              `json:"status"`
	Items          []OrderItemResponse `json:"items"`
	Address        order.ShippingAddress `json:"address"`
	Subtotal       string              `json:"subtotal"`
	Discount       string              `json:"discount"`
	Total          string              `json:"total"`
	TrackingNumber string              `json:"tracking_number,omitempty"`
	PaidAt         *time.Time          `json:"paid_at,omitempty"`
	ShippedAt      *time.Time          `json:"shipped_at,omitempty"`
	CancelReason   string              `json:"cancel_reason,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// OrderListFilter represents filter options for the order list
type OrderListFilter struct {
	Status   string `form:"status" binding:"omitempty,oneof=pending paid in_production shipped delivered cancelled"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ShipOrderRequest marks an order as shipped
type ShipOrderRequest struct {
	TrackingNumber string `json:"tracking_number" binding:"required,min=1,max=100"`
}

// CancelOrderRequest cancels an order with a reason
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=255"`
}

// StatusSummaryResponse counts orders per status
type StatusSummaryResponse struct {
	Pending      int64 `json:"pending"`
	Paid         int64 `json:"paid"`
	InProduction int64 `json:"in_production"`
	Shipped      int64 `json:"shipped"`
	Delivered    int64 `json:"delivered"`
	Cancelled    int64 `json:"cancelled"`
	Total        int64 `json:"total"`
}

// ToOrderResponse converts a domain Order to a response DTO
func ToOrderResponse(o *order.Order) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i := range o.Items {
		item := &o.Items[i]
		items[i] = OrderItemResponse{
			ID:                item.ID,
			ProductID:         item.ProductID,
			SKU:               item.SKU,
			EngravingDesignID: item.EngravingDesignID,
			Quantity:          item.Quantity,
			ListPrice:         formatMoney(item.ListPrice),
			UnitPrice:         formatMoney(item.UnitPrice),
			LineTotal:         formatMoney(item.LineTotal),
			WarehouseID:       item.WarehouseID,
		}
	}
	return OrderResponse{
		ID:             o.ID,
		Number:         o.Number,
		CustomerID:     o.CustomerID,
		Status:         string(o.Status),
		Items:          items,
		Address:        o.Address,
		Subtotal:       formatMoney(o.Subtotal),
		Discount:       formatMoney(o.Discount),
		Total:          formatMoney(o.Total),
		TrackingNumber: o.TrackingNumber,
		PaidAt:         o.PaidAt,
		ShippedAt:      o.ShippedAt,
		CancelReason:   o.CancelReason,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}
}

// ToOrderResponses converts a slice of orders to response DTOs
func ToOrderResponses(orders []order.Order) []OrderResponse {
	responses := make([]OrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToOrderResponse(&orders[i])
	}
	return responses
}

func formatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}
