package handler

import (
	engravingapp "github.com/batterydepartment/backend/internal/application/engraving"
	"github.com/batterydepartment/backend/internal/domain/engraving"
	"github.com/batterydepartment/backend/internal/domain/identity"
	"github.com/batterydepartment/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// DesignHandler handles engraving design endpoints
type DesignHandler struct {
	BaseHandler
	designService *engravingapp.DesignService
}

// NewDesignHandler creates a DesignHandler
func NewDesignHandler(designService *engravingapp.DesignService) *DesignHandler {
	return &DesignHandler{designService: designService}
}

// Create starts a new draft design for the authenticated customer
func (h *DesignHandler) Create(c *gin.Context) {
	customerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req engravingapp.CreateDesignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	design, err := h.designService.Create(c.Request.Context(), customerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, design)
}

// Update edits a draft design owned by the caller
func (h *DesignHandler) Update(c *gin.Context) {
	customerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	designID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid design ID")
		return
	}

	var req engravingapp.UpdateDesignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	design, err := h.designService.Update(c.Request.Context(), customerID, designID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, design)
}

// List returns the caller's designs
func (h *DesignHandler) List(c *gin.Context) {
	customerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var filter engravingapp.DesignListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.ValidationError(c, err)
		return
	}

	designs, err := h.designService.ListByCustomer(c.Request.Context(), customerID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, designs)
}

// Get returns one design
func (h *DesignHandler) Get(c *gin.Context) {
	designID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid design ID")
		return
	}

	design, err := h.designService.GetByID(c.Request.Context(), designID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	// Customers may only see their own designs
	if !isAdmin(c) {
		customerID, err := getUserID(c)
		if err != nil || design.CustomerID != customerID {
			h.Forbidden(c, "Access to this design is forbidden")
			return
		}
	}

	h.Success(c, design)
}

// RequestPreviewUpload issues a presigned URL for a preview render
func (h *DesignHandler) RequestPreviewUpload(c *gin.Context) {
	customerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	designID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid design ID")
		return
	}

	contentType := c.Query("content_type")
	if contentType == "" {
		contentType = "image/png"
	}

	upload, err := h.designService.RequestPreviewUpload(c.Request.Context(), customerID, designID, contentType)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, upload)
}

// AttachPreview confirms the uploaded preview render
func (h *DesignHandler) AttachPreview(c *gin.Context) {
	customerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	designID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid design ID")
		return
	}

	var req struct {
		Key string `json:"key" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	design, err := h.designService.AttachPreview(c.Request.Context(), customerID, designID, req.Key)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, design)
}

// ListPending returns designs awaiting moderation
func (h *DesignHandler) ListPending(c *gin.Context) {
	var filter engravingapp.DesignListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.ValidationError(c, err)
		return
	}

	designs, total, err := h.designService.ListByStatus(c.Request.Context(), engraving.DesignStatusDraft, filter)
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
	h.SuccessWithMeta(c, designs, total, page, pageSize)
}

// Approve clears a design for production
func (h *DesignHandler) Approve(c *gin.Context) {
	designID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid design ID")
		return
	}

	design, err := h.designService.Approve(c.Request.Context(), designID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, design)
}

// Reject sends a design back with a moderation note
func (h *DesignHandler) Reject(c *gin.Context) {
	designID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid design ID")
		return
	}

	var req engravingapp.RejectDesignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	design, err := h.designService.Reject(c.Request.Context(), designID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, design)
}

// RegisterRoutes registers customer design routes
func (h *DesignHandler) RegisterRoutes(rg *gin.RouterGroup) {
	designs := rg.Group("/designs")
	{
		designs.POST("", h.Create)
		designs.GET("", h.List)
		designs.GET("/:id", h.Get)
		designs.PUT("/:id", h.Update)
		designs.POST("/:id/preview-upload", h.RequestPreviewUpload)
		designs.POST("/:id/preview", h.AttachPreview)
	}
}

// RegisterAdminRoutes registers design moderation routes
func (h *DesignHandler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	designs := rg.Group("/designs")
	designs.Use(middleware.RequireRoles(identity.RoleAdmin))
	{
		designs.GET("/pending", h.ListPending)
		designs.POST("/:id/approve", h.Approve)
		designs.POST("/:id/reject", h.Reject)
	}
}
