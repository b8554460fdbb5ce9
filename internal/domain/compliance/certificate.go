package compliance

import (
	"strings"
	"time"

	"github.com/batterydepartment/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CertificateStatus represents the status of a UN38.3 test certificate
type CertificateStatus string

const (
	CertificateStatusValid   CertificateStatus = "valid"
	CertificateStatusExpired CertificateStatus = "expired"
	CertificateStatusRevoked CertificateStatus = "revoked"
)

// Certificate records a UN38.3 transport test summary for a product.
// Lithium batteries may not ship without a valid certificate on file.
type Certificate struct {
	shared.BaseAggregateRoot
	ProductID     uuid.UUID         `gorm:"type:uuid;not null;index"`
	Number        string            `gorm:"type:varchar(50);not null;uniqueIndex"`
	IssuedBy      string            `gorm:"type:varchar(200);not null"`
	IssuedAt      time.Time         `gorm:"not null"`
	ExpiresAt     time.Time         `gorm:"not null"`
	DocumentKey   string            `gorm:"type:varchar(512)"` // object storage key of the test summary PDF
	Status        CertificateStatus `gorm:"type:varchar(20);not null;default:'valid'"`
	RevokedReason string            `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (Certificate) TableName() string {
	return "compliance_certificates"
}

// NewCertificate registers a UN38.3 certificate for a product
func NewCertificate(productID uuid.UUID, number, issuedBy string, issuedAt, expiresAt time.Time) (*Certificate, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	number = strings.TrimSpace(number)
	if number == "" || len(number) > 50 {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Certificate number must be 1-50 characters")
	}
	if issuedBy == "" {
		return nil, shared.NewDomainError("INVALID_ISSUER", "Certificate issuer cannot be empty")
	}
	if !expiresAt.After(issuedAt) {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Certificate expiry must be after the issue date")
	}

	cert := &Certificate{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductID:         productID,
		Number:            strings.ToUpper(number),
		IssuedBy:          issuedBy,
		IssuedAt:          issuedAt,
		ExpiresAt:         expiresAt,
		Status:            CertificateStatusValid,
	}

	cert.AddDomainEvent(NewCertificateRegisteredEvent(cert))

	return cert, nil
}

// AttachDocument stores the object storage key of the test summary
func (c *Certificate) AttachDocument(key string) error {
	if key == "" || len(key) > 512 {
		return shared.NewDomainError("INVALID_DOCUMENT", "Document key must be 1-512 characters")
	}

	c.DocumentKey = key
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// Revoke withdraws the certificate. Shipments relying on it will fail screening.
func (c *Certificate) Revoke(reason string) error {
	if c.Status == CertificateStatusRevoked {
		return shared.NewDomainError("ALREADY_REVOKED", "Certificate is already revoked")
	}
	if reason == "" {
		return shared.NewDomainError("REASON_REQUIRED", "Revocation reason is required")
	}

	c.Status = CertificateStatusRevoked
	c.RevokedReason = reason
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewCertificateRevokedEvent(c, reason))

	return nil
}

// IsValidAt reports whether the certificate covers shipments at the given time
func (c *Certificate) IsValidAt(at time.Time) bool {
	if c.Status == CertificateStatusRevoked {
		return false
	}
	return !at.Before(c.IssuedAt) && at.Before(c.ExpiresAt)
}
