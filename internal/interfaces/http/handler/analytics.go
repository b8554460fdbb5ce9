package handler

import (
	analyticsapp "github.com/batterydepartment/backend/internal/application/analytics"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AnalyticsHandler ingests storefront analytics events. The route is
// unauthenticated so anonymous sessions can report, but an authenticated
// user is attached when present.
type AnalyticsHandler struct {
	BaseHandler
	trackingService *analyticsapp.TrackingService
}

// NewAnalyticsHandler creates an AnalyticsHandler
func NewAnalyticsHandler(trackingService *analyticsapp.TrackingService) *AnalyticsHandler {
	return &AnalyticsHandler{trackingService: trackingService}
}

// Track ingests a batch of events from the storefront client
func (h *AnalyticsHandler) Track(c *gin.Context) {
	var req analyticsapp.TrackBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	rc := analyticsapp.RequestContext{
		ClientIP:  c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
	if claims := getClaims(c); claims != nil {
		if userID, err := uuid.Parse(claims.UserID); err == nil {
			rc.UserID = &userID
		}
	}

	resp, err := h.trackingService.TrackBatch(c.Request.Context(), req, rc)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// RegisterRoutes registers the ingest route
func (h *AnalyticsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/events", h.Track)
}
