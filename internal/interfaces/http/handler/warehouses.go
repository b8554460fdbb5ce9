package handler

import (
	partnerapp "github.com/batterydepartment/backend/internal/application/partner"
	"github.com/batterydepartment/backend/internal/domain/identity"
	"github.com/batterydepartment/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// WarehouseHandler handles supplier warehouse endpoints
type WarehouseHandler struct {
	BaseHandler
	warehouseService *partnerapp.WarehouseService
}

// NewWarehouseHandler creates a WarehouseHandler
func NewWarehouseHandler(warehouseService *partnerapp.WarehouseService) *WarehouseHandler {
	return &WarehouseHandler{warehouseService: warehouseService}
}

// supplierScope resolves the supplier the caller may act for. Admins may
// pass any supplier ID; supplier users are pinned to their own.
func (h *WarehouseHandler) supplierScope(c *gin.Context, requested uuid.UUID) (uuid.UUID, bool) {
	if isAdmin(c) {
		return requested, true
	}

	claims := getClaims(c)
	if claims == nil || claims.SupplierID == "" {
		return uuid.Nil, false
	}
	own, err := claims.GetSupplierUUID()
	if err != nil {
		return uuid.Nil, false
	}
	if requested != uuid.Nil && requested != own {
		return uuid.Nil, false
	}
	return own, true
}

// Create registers a new warehouse
func (h *WarehouseHandler) Create(c *gin.Context) {
	var req partnerapp.CreateWarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	supplierID, ok := h.supplierScope(c, req.SupplierID)
	if !ok {
		h.Forbidden(c, "Cannot manage warehouses for another supplier")
		return
	}
	req.SupplierID = supplierID

	warehouse, err := h.warehouseService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, warehouse)
}

// Update edits warehouse details
func (h *WarehouseHandler) Update(c *gin.Context) {
	warehouseID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid warehouse ID")
		return
	}

	var req partnerapp.UpdateWarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	warehouse, err := h.warehouseService.Update(c.Request.Context(), warehouseID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, warehouse)
}

// Get returns one warehouse
func (h *WarehouseHandler) Get(c *gin.Context) {
	warehouseID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid warehouse ID")
		return
	}

	warehouse, err := h.warehouseService.GetByID(c.Request.Context(), warehouseID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, warehouse)
}

// ListActive returns all active warehouses
func (h *WarehouseHandler) ListActive(c *gin.Context) {
	warehouses, err := h.warehouseService.ListActive(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, warehouses)
}

// ListMine returns the caller's supplier warehouses
func (h *WarehouseHandler) ListMine(c *gin.Context) {
	supplierID, ok := h.supplierScope(c, uuid.Nil)
	if !ok {
		h.Forbidden(c, "No supplier scope for this account")
		return
	}

	warehouses, err := h.warehouseService.ListBySupplier(c.Request.Context(), supplierID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, warehouses)
}

// Enable reactivates a warehouse
func (h *WarehouseHandler) Enable(c *gin.Context) {
	warehouseID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid warehouse ID")
		return
	}

	warehouse, err := h.warehouseService.Enable(c.Request.Context(), warehouseID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, warehouse)
}

// Disable takes a warehouse out of rotation
func (h *WarehouseHandler) Disable(c *gin.Context) {
	warehouseID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid warehouse ID")
		return
	}

	var req partnerapp.DisableWarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	warehouse, err := h.warehouseService.Disable(c.Request.Context(), warehouseID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, warehouse)
}

// SetDefault marks the warehouse as the default fulfillment source
func (h *WarehouseHandler) SetDefault(c *gin.Context) {
	warehouseID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid warehouse ID")
		return
	}

	warehouse, err := h.warehouseService.SetDefault(c.Request.Context(), warehouseID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, warehouse)
}

// SupplierInventory returns stock across the caller's warehouses
func (h *WarehouseHandler) SupplierInventory(c *gin.Context) {
	var requested uuid.UUID
	if raw := c.Query("supplier_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid supplier ID")
			return
		}
		requested = parsed
	}

	supplierID, ok := h.supplierScope(c, requested)
	if !ok {
		h.Forbidden(c, "No supplier scope for this account")
		return
	}

	inventory, err := h.warehouseService.SupplierInventory(c.Request.Context(), supplierID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, inventory)
}

// RegisterRoutes registers warehouse routes for suppliers and admins
func (h *WarehouseHandler) RegisterRoutes(rg *gin.RouterGroup) {
	warehouses := rg.Group("/warehouses")
	warehouses.Use(middleware.RequireRoles(identity.RoleAdmin, identity.RoleSupplier))
	{
		warehouses.POST("", h.Create)
		warehouses.GET("", h.ListActive)
		warehouses.GET("/mine", h.ListMine)
		warehouses.GET("/inventory", h.SupplierInventory)
		warehouses.GET("/:id", h.Get)
		warehouses.PUT("/:id", h.Update)
		warehouses.POST("/:id/enable", h.Enable)
		warehouses.POST("/:id/disable", h.Disable)
		warehouses.POST("/:id/set-default", h.SetDefault)
	}
}
