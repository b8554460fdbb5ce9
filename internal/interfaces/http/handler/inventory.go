package handler

import (
	"strconv"

	inventoryapp "github.com/batterydepartment/backend/internal/application/inventory"
	"github.com/batterydepartment/backend/internal/domain/identity"
	"github.com/batterydepartment/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// InventoryHandler handles warehouse stock endpoints
type InventoryHandler struct {
	BaseHandler
	inventoryService *inventoryapp.InventoryService
}

// NewInventoryHandler creates an InventoryHandler
func NewInventoryHandler(inventoryService *inventoryapp.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

// Availability reports whether a product can be fulfilled, per warehouse.
// Serves the storefront stock badge so it is public.
func (h *InventoryHandler) Availability(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	quantity := 1
	if raw := c.Query("quantity"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			h.BadRequest(c, "Invalid quantity")
			return
		}
		quantity = parsed
	}

	availability, err := h.inventoryService.CheckAvailability(c.Request.Context(), productID, quantity)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, availability)
}

// List returns inventory items with optional filters
func (h *InventoryHandler) List(c *gin.Context) {
	var filter inventoryapp.InventoryListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.ValidationError(c, err)
		return
	}

	page, err := h.inventoryService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Get returns one inventory item
func (h *InventoryHandler) Get(c *gin.Context) {
	itemID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid inventory item ID")
		return
	}

	item, err := h.inventoryService.GetByID(c.Request.Context(), itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, item)
}

// ListBelowMinimum returns items under their alert threshold
func (h *InventoryHandler) ListBelowMinimum(c *gin.Context) {
	items, err := h.inventoryService.ListBelowMinimum(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, items)
}

// ReceiveStock books inbound stock into a warehouse
func (h *InventoryHandler) ReceiveStock(c *gin.Context) {
	var req inventoryapp.ReceiveStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	item, err := h.inventoryService.ReceiveStock(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, item)
}

// AdjustStock corrects the on-hand quantity after a count
func (h *InventoryHandler) AdjustStock(c *gin.Context) {
	var req inventoryapp.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	item, err := h.inventoryService.AdjustStock(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, item)
}

// SetThresholds updates min and max alert thresholds
func (h *InventoryHandler) SetThresholds(c *gin.Context) {
	var req inventoryapp.SetThresholdsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	item, err := h.inventoryService.SetThresholds(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, item)
}

// ListTransactions returns the movement audit trail for an item
func (h *InventoryHandler) ListTransactions(c *gin.Context) {
	itemID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid inventory item ID")
		return
	}

	var filter inventoryapp.TransactionListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.ValidationError(c, err)
		return
	}

	transactions, err := h.inventoryService.ListTransactions(c.Request.Context(), itemID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, transactions)
}

// RegisterRoutes registers the public availability route
func (h *InventoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/products/:id/availability", h.Availability)
}

// RegisterAdminRoutes registers stock management routes
func (h *InventoryHandler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	inv := rg.Group("/inventory")
	inv.Use(middleware.RequireRoles(identity.RoleAdmin, identity.RoleSupplier))
	{
		inv.GET("", h.List)
		inv.GET("/below-minimum", h.ListBelowMinimum)
		inv.GET("/:id", h.Get)
		inv.GET("/:id/transactions", h.ListTransactions)
		inv.POST("/receive", h.ReceiveStock)
		inv.POST("/adjust", h.AdjustStock)
		inv.POST("/thresholds", h.SetThresholds)
	}
}
