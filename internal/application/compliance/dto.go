package compliance

import (
	"time"

	"github.com/batterydepartment/backend/internal/domain/compliance"
	"github.com/google/uuid"
)

// CertificateResponse represents a UN38.3 certificate in API responses
type CertificateResponse struct {
	ID            uuid.UUID `json:"id"`
	ProductID     uuid.UUID `json:"product_id"`
	Number        string    `json:"number"`
	IssuedBy      string    `json:"issued_by"`
	IssuedAt      time.Time `json:"issued_at"`
	ExpiresAt     time.Time `json:"expires_at"`
	Status        string    `json:"status"`
	HasDocument   bool      `json:"has_document"`
	DocumentURL   string    `json:"document_url,omitempty"`
	RevokedReason string    `json:"revoked_reason,omitempty"`
}

// RegisterCertificateRequest files a new UN38.3 certificate for a product
type RegisterCertificateRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Number    string    `json:"number" binding:"required,min=1,max=50"`
	IssuedBy  string    `json:"issued_by" binding:"required,min=1,max=200"`
	IssuedAt  time.Time `json:"issued_at" binding:"required"`
	ExpiresAt time.Time `json:"expires_at" binding:"required"`
}

// RenewCertificateRequest replaces a certificate with a fresh test report
type RenewCertificateRequest struct {
	Number    string    `json:"number" binding:"required,min=1,max=50"`
	IssuedBy  string    `json:"issued_by" binding:"required,min=1,max=200"`
	IssuedAt  time.Time `json:"issued_at" binding:"required"`
	ExpiresAt time.Time `json:"expires_at" binding:"required"`
}

// RevokeCertificateRequest revokes a certificate with a reason
type RevokeCertificateRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// DocumentUploadResponse carries a presigned PUT for the test summary PDF
type DocumentUploadResponse struct {
	Key       string    `json:"key"`
	UploadURL string    `json:"upload_url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AttachDocumentRequest links an uploaded test summary to a certificate
type AttachDocumentRequest struct {
	Key string `json:"key" binding:"required,max=512"`
}

// RegionRuleResponse represents a destination shipping rule
type RegionRuleResponse struct {
	ID             uuid.UUID `json:"id"`
	RegionCode     string    `json:"region_code"`
	MaxWattHours   float64   `json:"max_watt_hours"`
	MaxUnits       int       `json:"max_units"`
	RequiresGround bool      `json:"requires_ground"`
	Notes          string    `json:"notes,omitempty"`
}

// UpsertRegionRuleRequest creates or updates the rule for a region
type UpsertRegionRuleRequest struct {
	RegionCode     string  `json:"region_code" binding:"required,min=2,max=10"`
	MaxWattHours   float64 `json:"max_watt_hours" binding:"required,gt=0"`
	MaxUnits       int     `json:"max_units" binding:"min=0"`
	RequiresGround bool    `json:"requires_ground"`
	Notes          string  `json:"notes" binding:"max=500"`
}

// ProductComplianceProfile summarizes a product's shipping posture
type ProductComplianceProfile struct {
	ProductID      uuid.UUID             `json:"product_id"`
	SKU            string                `json:"sku"`
	WattHours      float64               `json:"watt_hours"`
	TransportClass string                `json:"transport_class"`
	HasValidCert   bool                  `json:"has_valid_certificate"`
	Certificates   []CertificateResponse `json:"certificates"`
}

// ScreenShipmentRequest screens one prospective shipment
type ScreenShipmentRequest struct {
	RegionCode string               `json:"region_code" binding:"required,min=2,max=10"`
	Lines      []ShipmentLineInput  `json:"lines" binding:"required,min=1,dive"`
}

// ShipmentLineInput is one product line to screen
type ShipmentLineInput struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

// ScreeningReport is the verdict for a whole shipment
type ScreeningReport struct {
	RegionCode string                       `json:"region_code"`
	Passed     bool                         `json:"passed"`
	ScreenedAt time.Time                    `json:"screened_at"`
	Results    []compliance.ScreeningResult `json:"results"`
}

// ToCertificateResponse converts a domain Certificate to a response DTO
func ToCertificateResponse(cert *compliance.Certificate) CertificateResponse {
	return CertificateResponse{
		ID:            cert.ID,
		ProductID:     cert.ProductID,
		Number:        cert.Number,
		IssuedBy:      cert.IssuedBy,
		IssuedAt:      cert.IssuedAt,
		ExpiresAt:     cert.ExpiresAt,
		Status:        string(cert.Status),
		HasDocument:   cert.DocumentKey != "",
		RevokedReason: cert.RevokedReason,
	}
}

// ToCertificateResponses converts a slice of certificates to response DTOs
func ToCertificateResponses(certs []compliance.Certificate) []CertificateResponse {
	responses := make([]CertificateResponse, len(certs))
	for i := range certs {
		responses[i] = ToCertificateResponse(&certs[i])
	}
	return responses
}

// ToRegionRuleResponse converts a domain RegionRule to a response DTO
func ToRegionRuleResponse(rule *compliance.RegionRule) RegionRuleResponse {
	return RegionRuleResponse{
		ID:             rule.ID,
		RegionCode:     rule.RegionCode,
		MaxWattHours:   rule.MaxWattHours,
		MaxUnits:       rule.MaxUnits,
		RequiresGround: rule.RequiresGround,
		Notes:          rule.Notes,
	}
}

// ToRegionRuleResponses converts a slice of rules to response DTOs
func ToRegionRuleResponses(rules []compliance.RegionRule) []RegionRuleResponse {
	responses := make([]RegionRuleResponse, len(rules))
	for i := range rules {
		responses[i] = ToRegionRuleResponse(&rules[i])
	}
	return responses
}
