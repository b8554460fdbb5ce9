package handler

import (
	orderapp "github.com/batterydepartment/backend/internal/application/order"
	"github.com/batterydepartment/backend/internal/domain/identity"
	"github.com/batterydepartment/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// OrderHandler handles storefront order endpoints
type OrderHandler struct {
	BaseHandler
	orderService *orderapp.OrderService
}

// NewOrderHandler creates an OrderHandler
func NewOrderHandler(orderService *orderapp.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// Checkout creates an order from the cart and opens a payment intent.
// Clients pass an Idempotency-Key header to make retries safe.
func (h *OrderHandler) Checkout(c *gin.Context) {
	customerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req orderapp.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	req.IdempotencyKey = c.GetHeader("Idempotency-Key")

	claims := getClaims(c)
	result, err := h.orderService.Checkout(c.Request.Context(), customerID, claims.Email, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// List returns the caller's orders
func (h *OrderHandler) List(c *gin.Context) {
	customerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var filter orderapp.OrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.ValidationError(c, err)
		return
	}

	orders, err := h.orderService.ListByCustomer(c.Request.Context(), customerID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, orders)
}

// Get returns one order. Customers may only read their own.
func (h *OrderHandler) Get(c *gin.Context) {
	customerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	orderID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	result, err := h.orderService.GetByID(c.Request.Context(), orderID, customerID, isAdmin(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Cancel cancels a pending or paid order
func (h *OrderHandler) Cancel(c *gin.Context) {
	customerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	orderID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	var req orderapp.CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.orderService.Cancel(c.Request.Context(), orderID, customerID, isAdmin(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ListAll returns all orders, admin only
func (h *OrderHandler) ListAll(c *gin.Context) {
	var filter orderapp.OrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.ValidationError(c, err)
		return
	}

	orders, total, err := h.orderService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page, pageSize := filter.Page, filter.PageSize
	if page == 0 {
		page = 1
	}
	if pageSize == 0 {
		pageSize = 20
	}
	h.SuccessWithMeta(c, orders, total, page, pageSize)
}

// StatusSummary returns order counts by status for the admin dashboard
func (h *OrderHandler) StatusSummary(c *gin.Context) {
	summary, err := h.orderService.StatusSummary(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}

// StartProduction moves a paid order into production
func (h *OrderHandler) StartProduction(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	result, err := h.orderService.StartProduction(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Ship marks an order shipped after the compliance screen passes
func (h *OrderHandler) Ship(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	var req orderapp.ShipOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.orderService.Ship(c.Request.Context(), orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Deliver marks an order delivered
func (h *OrderHandler) Deliver(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	result, err := h.orderService.Deliver(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// RegisterRoutes registers customer order routes
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	{
		orders.POST("/checkout", h.Checkout)
		orders.GET("", h.List)
		orders.GET("/:id", h.Get)
		orders.POST("/:id/cancel", h.Cancel)
	}
}

// RegisterAdminRoutes registers fulfillment routes
func (h *OrderHandler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	orders.Use(middleware.RequireRoles(identity.RoleAdmin))
	{
		orders.GET("", h.ListAll)
		orders.GET("/summary", h.StatusSummary)
		orders.POST("/:id/start-production", h.StartProduction)
		orders.POST("/:id/ship", h.Ship)
		orders.POST("/:id/deliver", h.Deliver)
	}
}
