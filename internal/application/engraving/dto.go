package engraving

import (
	"time"

	"github.com/batterydepartment/backend/internal/domain/engraving"
	"github.com/google/uuid"
)

// DesignResponse represents a nameplate design in API responses
type DesignResponse struct {
	ID         uuid.UUID `json:"id"`
	CustomerID uuid.UUID `json:"customer_id"`
	ProductID  uuid.UUID `json:"product_id"`
	Line1      string    `json:"line1"`
	Line2      string    `json:"line2,omitempty"`
	Font       string    `json:"font"`
	Status     string    `json:"status"`
	PreviewKey string    `json:"preview_key,omitempty"`
	PreviewURL string    `json:"preview_url,omitempty"`
	RejectNote string    `json:"reject_note,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CreateDesignRequest represents a request to create a nameplate design
type CreateDesignRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Line1     string    `json:"line1" binding:"required,max=20"`
	Line2     string    `json:"line2" binding:"max=20"`
	Font      string    `json:"font" binding:"required,oneof=block script stencil"`
}

// UpdateDesignRequest represents a request to edit a draft design
type UpdateDesignRequest struct {
	Line1 string `json:"line1" binding:"required,max=20"`
	Line2 string `json:"line2" binding:"max=20"`
	Font  string `json:"font" binding:"required,oneof=block script stencil"`
}

// RejectDesignRequest carries the moderation note for a rejection
type RejectDesignRequest struct {
	Note string `json:"note" binding:"max=500"`
}

// PreviewUploadResponse carries a presigned URL for uploading a preview
type PreviewUploadResponse struct {
	Key       string    `json:"key"`
	UploadURL string    `json:"upload_url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// DesignListFilter represents filter options for listing designs
type DesignListFilter struct {
	Status   string `form:"status" binding:"omitempty,oneof=draft approved queued rejected"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ToDesignResponse converts a domain Design to a response DTO
func ToDesignResponse(d *engraving.Design) DesignResponse {
	return DesignResponse{
		ID:         d.ID,
		CustomerID: d.CustomerID,
		ProductID:  d.ProductID,
		Line1:      d.Line1,
		Line2:      d.Line2,
		Font:       string(d.Font),
		Status:     string(d.Status),
		PreviewKey: d.PreviewKey,
		RejectNote: d.RejectNote,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

// ToDesignResponses converts a slice of domain Designs to response DTOs
func ToDesignResponses(designs []engraving.Design) []DesignResponse {
	responses := make([]DesignResponse, len(designs))
	for i := range designs {
		responses[i] = ToDesignResponse(&designs[i])
	}
	return responses
}
