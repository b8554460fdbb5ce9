package handler

import (
	"strconv"
	"time"

	complianceapp "github.com/batterydepartment/backend/internal/application/compliance"
	"github.com/batterydepartment/backend/internal/domain/identity"
	"github.com/batterydepartment/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// ComplianceHandler handles certificate and shipping rule endpoints
type ComplianceHandler struct {
	BaseHandler
	complianceService *complianceapp.ComplianceService
}

// NewComplianceHandler creates a ComplianceHandler
func NewComplianceHandler(complianceService *complianceapp.ComplianceService) *ComplianceHandler {
	return &ComplianceHandler{complianceService: complianceService}
}

// RegisterCertificate files a UN38.3 certificate for a product
func (h *ComplianceHandler) RegisterCertificate(c *gin.Context) {
	var req complianceapp.RegisterCertificateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	cert, err := h.complianceService.RegisterCertificate(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, cert)
}

// GetCertificate returns one certificate with its document link
func (h *ComplianceHandler) GetCertificate(c *gin.Context) {
	certID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid certificate ID")
		return
	}

	cert, err := h.complianceService.GetCertificate(c.Request.Context(), certID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, cert)
}

// RenewCertificate registers a replacement and supersedes the old one
func (h *ComplianceHandler) RenewCertificate(c *gin.Context) {
	certID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid certificate ID")
		return
	}

	var req complianceapp.RenewCertificateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	cert, err := h.complianceService.RenewCertificate(c.Request.Context(), certID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, cert)
}

// RevokeCertificate withdraws a certificate
func (h *ComplianceHandler) RevokeCertificate(c *gin.Context) {
	certID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid certificate ID")
		return
	}

	var req complianceapp.RevokeCertificateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	cert, err := h.complianceService.RevokeCertificate(c.Request.Context(), certID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, cert)
}

// RequestDocumentUpload issues a presigned URL for the certificate PDF
func (h *ComplianceHandler) RequestDocumentUpload(c *gin.Context) {
	certID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid certificate ID")
		return
	}

	upload, err := h.complianceService.RequestDocumentUpload(c.Request.Context(), certID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, upload)
}

// AttachDocument confirms the uploaded certificate document
func (h *ComplianceHandler) AttachDocument(c *gin.Context) {
	certID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid certificate ID")
		return
	}

	var req complianceapp.AttachDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	cert, err := h.complianceService.AttachDocument(c.Request.Context(), certID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, cert)
}

// ListExpiring returns valid certificates expiring inside the window
func (h *ComplianceHandler) ListExpiring(c *gin.Context) {
	days := 90
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			h.BadRequest(c, "Invalid days value")
			return
		}
		days = parsed
	}

	certs, err := h.complianceService.ListExpiring(c.Request.Context(), time.Duration(days)*24*time.Hour)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, certs)
}

// GetProductProfile returns watt-hours, transport class and certificates
func (h *ComplianceHandler) GetProductProfile(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	profile, err := h.complianceService.GetProductProfile(c.Request.Context(), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, profile)
}

// ScreenShipment runs the compliance screen against a draft shipment
func (h *ComplianceHandler) ScreenShipment(c *gin.Context) {
	var req complianceapp.ScreenShipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	report, err := h.complianceService.ScreenShipment(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, report)
}

// UpsertRegionRule creates or updates a destination rule
func (h *ComplianceHandler) UpsertRegionRule(c *gin.Context) {
	var req complianceapp.UpsertRegionRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	rule, err := h.complianceService.UpsertRegionRule(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, rule)
}

// ListRegionRules returns all destination rules
func (h *ComplianceHandler) ListRegionRules(c *gin.Context) {
	rules, err := h.complianceService.ListRegionRules(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, rules)
}

// RegisterRoutes registers compliance routes, admin only
func (h *ComplianceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	compliance := rg.Group("/compliance")
	compliance.Use(middleware.RequireRoles(identity.RoleAdmin))
	{
		compliance.POST("/certificates", h.RegisterCertificate)
		compliance.GET("/certificates/expiring", h.ListExpiring)
		compliance.GET("/certificates/:id", h.GetCertificate)
		compliance.POST("/certificates/:id/renew", h.RenewCertificate)
		compliance.POST("/certificates/:id/revoke", h.RevokeCertificate)
		compliance.POST("/certificates/:id/document-upload", h.RequestDocumentUpload)
		compliance.POST("/certificates/:id/document", h.AttachDocument)
		compliance.GET("/products/:id/profile", h.GetProductProfile)
		compliance.POST("/screen", h.ScreenShipment)
		compliance.GET("/rules", h.ListRegionRules)
		compliance.PUT("/rules", h.UpsertRegionRule)
	}
}
