package compliance

import (
	"github.com/batterydepartment/backend/internal/domain/shared"
)

const AggregateTypeCertificate = "Certificate"

const (
	EventTypeCertificateRegistered = "CertificateRegistered"
	EventTypeCertificateRevoked    = "CertificateRevoked"
)

// CertificateRegisteredEvent is published when a UN38.3 certificate is filed
type CertificateRegisteredEvent struct {
	shared.BaseDomainEvent
	ProductID string `json:"product_id"`
	Number    string `json:"number"`
}

// NewCertificateRegisteredEvent creates a new certificate registered event
func NewCertificateRegisteredEvent(cert *Certificate) *CertificateRegisteredEvent {
	return &CertificateRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCertificateRegistered, AggregateTypeCertificate, cert.ID),
		ProductID:       cert.ProductID.String(),
		Number:          cert.Number,
	}
}

// CertificateRevokedEvent is published when a certificate is withdrawn
type CertificateRevokedEvent struct {
	shared.BaseDomainEvent
	ProductID string `json:"product_id"`
	Number    string `json:"number"`
	Reason    string `json:"reason"`
}

// NewCertificateRevokedEvent creates a new certificate revoked event
func NewCertificateRevokedEvent(cert *Certificate, reason string) *CertificateRevokedEvent {
	return &CertificateRevokedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCertificateRevoked, AggregateTypeCertificate, cert.ID),
		ProductID:       cert.ProductID.String(),
		Number:          cert.Number,
		Reason:          reason,
	}
}
