package handler

import (
	identityapp "github.com/batterydepartment/backend/internal/application/identity"
	partnerapp "github.com/batterydepartment/backend/internal/application/partner"
	"github.com/batterydepartment/backend/internal/domain/identity"
	"github.com/batterydepartment/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// SupplierHandler handles supplier onboarding endpoints, admin only
type SupplierHandler struct {
	BaseHandler
	supplierService *partnerapp.SupplierService
	authService     *identityapp.AuthService
}

// NewSupplierHandler creates a SupplierHandler
func NewSupplierHandler(supplierService *partnerapp.SupplierService, authService *identityapp.AuthService) *SupplierHandler {
	return &SupplierHandler{
		supplierService: supplierService,
		authService:     authService,
	}
}

// Create registers a new supplier
func (h *SupplierHandler) Create(c *gin.Context) {
	var req partnerapp.CreateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	supplier, err := h.supplierService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, supplier)
}

// Update edits supplier contact details
func (h *SupplierHandler) Update(c *gin.Context) {
	supplierID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid supplier ID")
		return
	}

	var req partnerapp.UpdateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	supplier, err := h.supplierService.Update(c.Request.Context(), supplierID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, supplier)
}

// Get returns one supplier
func (h *SupplierHandler) Get(c *gin.Context) {
	supplierID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid supplier ID")
		return
	}

	supplier, err := h.supplierService.GetByID(c.Request.Context(), supplierID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, supplier)
}

// List returns suppliers with optional status filter
func (h *SupplierHandler) List(c *gin.Context) {
	var filter partnerapp.SupplierListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.ValidationError(c, err)
		return
	}

	page, err := h.supplierService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Activate approves a pending supplier
func (h *SupplierHandler) Activate(c *gin.Context) {
	supplierID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid supplier ID")
		return
	}

	supplier, err := h.supplierService.Activate(c.Request.Context(), supplierID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, supplier)
}

// Suspend blocks a supplier from fulfillment
func (h *SupplierHandler) Suspend(c *gin.Context) {
	supplierID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid supplier ID")
		return
	}

	var req partnerapp.SuspendSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	supplier, err := h.supplierService.Suspend(c.Request.Context(), supplierID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, supplier)
}

// CreateUser provisions a portal login linked to the supplier
func (h *SupplierHandler) CreateUser(c *gin.Context) {
	supplierID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid supplier ID")
		return
	}

	var req identityapp.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	user, err := h.authService.RegisterSupplierUser(c.Request.Context(), req, supplierID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, user)
}

// RegisterRoutes registers supplier management routes
func (h *SupplierHandler) RegisterRoutes(rg *gin.RouterGroup) {
	suppliers := rg.Group("/suppliers")
	suppliers.Use(middleware.RequireRoles(identity.RoleAdmin))
	{
		suppliers.POST("", h.Create)
		suppliers.GET("", h.List)
		suppliers.GET("/:id", h.Get)
		suppliers.PUT("/:id", h.Update)
		suppliers.POST("/:id/activate", h.Activate)
		suppliers.POST("/:id/suspend", h.Suspend)
		suppliers.POST("/:id/users", h.CreateUser)
	}
}
