package compliance

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/batterydepartment/backend/internal/domain/catalog"
	"github.com/batterydepartment/backend/internal/domain/compliance"
	"github.com/batterydepartment/backend/internal/domain/shared"
	"github.com/google/uuid"
)

const documentUploadExpiry = 15 * time.Minute

// defaultExpiryWindow is how far ahead the expiring-certificates report looks
const defaultExpiryWindow = 90 * 24 * time.Hour

// Transport classes derived from the per-unit watt-hour rating.
// Up to 100 Wh ships by air unrestricted, 100-160 Wh with limits,
// above 160 Wh ground only.
const (
	TransportClassAirUnrestricted = "air_unrestricted"
	TransportClassAirLimited      = "air_limited"
	TransportClassGroundOnly      = "ground_only"
)

// DocumentStorage stores certificate test summaries
type DocumentStorage interface {
	PresignUpload(ctx context.Context, key, contentType string, expires time.Duration) (string, time.Time, error)
	PresignDownload(ctx context.Context, key string, expires time.Duration) (string, time.Time, error)
	Exists(ctx context.Context, key string) (bool, error)
}

// ComplianceService handles certifications, region rules and shipment screening
type ComplianceService struct {
	certRepo       compliance.CertificateRepository
	ruleRepo       compliance.RegionRuleRepository
	productRepo    catalog.ProductRepository
	documentStore  DocumentStorage
	eventPublisher shared.EventPublisher
}

// NewComplianceService creates a new compliance service
func NewComplianceService(
	certRepo compliance.CertificateRepository,
	ruleRepo compliance.RegionRuleRepository,
	productRepo catalog.ProductRepository,
) *ComplianceService {
	return &ComplianceService{
		certRepo:    certRepo,
		ruleRepo:    ruleRepo,
		productRepo: productRepo,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *ComplianceService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetDocumentStorage sets the object store for test summary documents
func (s *ComplianceService) SetDocumentStorage(store DocumentStorage) {
	s.documentStore = store
}

func (s *ComplianceService) publishDomainEvents(ctx context.Context, cert *compliance.Certificate) {
	if s.eventPublisher == nil {
		return
	}
	events := cert.GetDomainEvents()
	if len(events) > 0 {
		_ = s.eventPublisher.Publish(ctx, events...)
		cert.ClearDomainEvents()
	}
}

// RegisterCertificate files a UN38.3 certificate for a product
func (s *ComplianceService) RegisterCertificate(ctx context.Context, req RegisterCertificateRequest) (*CertificateResponse, error) {
	if _, err := s.productRepo.FindByID(ctx, req.ProductID); err != nil {
		return nil, err
	}
	if _, err := s.certRepo.FindByNumber(ctx, req.Number); err == nil {
		return nil, shared.NewDomainError("DUPLICATE_NUMBER", "A certificate with this number is already on file")
	}

	cert, err := compliance.NewCertificate(req.ProductID, req.Number, req.IssuedBy, req.IssuedAt, req.ExpiresAt)
	if err != nil {
		return nil, err
	}
	if err := s.certRepo.Save(ctx, cert); err != nil {
		return nil, fmt.Errorf("failed to save certificate: %w", err)
	}
	s.publishDomainEvents(ctx, cert)

	response := ToCertificateResponse(cert)
	return &response, nil
}

// RenewCertificate files a replacement test report and revokes the old
// certificate as superseded.
func (s *ComplianceService) RenewCertificate(ctx context.Context, certID uuid.UUID, req RenewCertificateRequest) (*CertificateResponse, error) {
	old, err := s.certRepo.FindByID(ctx, certID)
	if err != nil {
		return nil, err
	}
	if _, err := s.certRepo.FindByNumber(ctx, req.Number); err == nil {
		return nil, shared.NewDomainError("DUPLICATE_NUMBER", "A certificate with this number is already on file")
	}

	replacement, err := compliance.NewCertificate(old.ProductID, req.Number, req.IssuedBy, req.IssuedAt, req.ExpiresAt)
	if err != nil {
		return nil, err
	}
	if err := s.certRepo.Save(ctx, replacement); err != nil {
		return nil, fmt.Errorf("failed to save certificate: %w", err)
	}

	if old.Status == compliance.CertificateStatusValid {
		if err := old.Revoke(fmt.Sprintf("superseded by %s", replacement.Number)); err == nil {
			_ = s.certRepo.Save(ctx, old)
			s.publishDomainEvents(ctx, old)
		}
	}
	s.publishDomainEvents(ctx, replacement)

	response := ToCertificateResponse(replacement)
	return &response, nil
}

// RevokeCertificate revokes a certificate; shipments fall back to other
// valid certificates or are refused.
func (s *ComplianceService) RevokeCertificate(ctx context.Context, certID uuid.UUID, req RevokeCertificateRequest) (*CertificateResponse, error) {
	cert, err := s.certRepo.FindByID(ctx, certID)
	if err != nil {
		return nil, err
	}
	if err := cert.Revoke(req.Reason); err != nil {
		return nil, err
	}
	if err := s.certRepo.Save(ctx, cert); err != nil {
		return nil, fmt.Errorf("failed to save certificate: %w", err)
	}
	s.publishDomainEvents(ctx, cert)

	response := ToCertificateResponse(cert)
	return &response, nil
}

// RequestDocumentUpload presigns an upload slot for the test summary PDF
func (s *ComplianceService) RequestDocumentUpload(ctx context.Context, certID uuid.UUID) (*DocumentUploadResponse, error) {
	if s.documentStore == nil {
		return nil, shared.NewDomainError("STORAGE_UNAVAILABLE", "Document storage is not configured")
	}
	cert, err := s.certRepo.FindByID(ctx, certID)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("compliance/certificates/%s.pdf", cert.ID)
	url, _, err := s.documentStore.PresignUpload(ctx, key, "application/pdf", documentUploadExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to presign upload: %w", err)
	}
	return &DocumentUploadResponse{
		Key:       key,
		UploadURL: url,
		ExpiresAt: time.Now().Add(documentUploadExpiry),
	}, nil
}

// AttachDocument links an uploaded test summary to its certificate
func (s *ComplianceService) AttachDocument(ctx context.Context, certID uuid.UUID, req AttachDocumentRequest) (*CertificateResponse, error) {
	cert, err := s.certRepo.FindByID(ctx, certID)
	if err != nil {
		return nil, err
	}
	if s.documentStore != nil {
		exists, err := s.documentStore.Exists(ctx, req.Key)
		if err != nil {
			return nil, fmt.Errorf("failed to check document: %w", err)
		}
		if !exists {
			return nil, shared.NewDomainError("DOCUMENT_NOT_FOUND", "No uploaded document found at this key")
		}
	}
	if err := cert.AttachDocument(req.Key); err != nil {
		return nil, err
	}
	if err := s.certRepo.Save(ctx, cert); err != nil {
		return nil, fmt.Errorf("failed to save certificate: %w", err)
	}

	response := ToCertificateResponse(cert)
	return &response, nil
}

// GetCertificate retrieves a certificate, presigning its document if stored
func (s *ComplianceService) GetCertificate(ctx context.Context, certID uuid.UUID) (*CertificateResponse, error) {
	cert, err := s.certRepo.FindByID(ctx, certID)
	if err != nil {
		return nil, err
	}
	response := ToCertificateResponse(cert)
	if cert.DocumentKey != "" && s.documentStore != nil {
		if url, _, err := s.documentStore.PresignDownload(ctx, cert.DocumentKey, documentUploadExpiry); err == nil {
			response.DocumentURL = url
		}
	}
	return &response, nil
}

// GetProductProfile summarizes a product's shipping posture
func (s *ComplianceService) GetProductProfile(ctx context.Context, productID uuid.UUID) (*ProductComplianceProfile, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	certs, err := s.certRepo.FindByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	wattHours := product.WattHours().InexactFloat64()
	now := time.Now()
	hasValid := false
	for i := range certs {
		if certs[i].IsValidAt(now) {
			hasValid = true
			break
		}
	}

	return &ProductComplianceProfile{
		ProductID:      product.ID,
		SKU:            product.SKU,
		WattHours:      wattHours,
		TransportClass: TransportClassFor(wattHours),
		HasValidCert:   hasValid,
		Certificates:   ToCertificateResponses(certs),
	}, nil
}

// ScreenShipment screens every line of a prospective shipment against the
// destination rule. The shipment passes only when every line passes.
func (s *ComplianceService) ScreenShipment(ctx context.Context, req ScreenShipmentRequest) (*ScreeningReport, error) {
	rule, err := s.ruleRepo.FindByRegion(ctx, req.RegionCode)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		rule = nil
	}

	now := time.Now()
	report := &ScreeningReport{
		RegionCode: req.RegionCode,
		Passed:     true,
		ScreenedAt: now,
		Results:    make([]compliance.ScreeningResult, 0, len(req.Lines)),
	}

	for _, line := range req.Lines {
		product, err := s.productRepo.FindByID(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		certs, err := s.certRepo.FindByProduct(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}

		result := compliance.Screen(compliance.ScreeningInput{
			ProductID:    product.ID.String(),
			SKU:          product.SKU,
			WattHours:    product.WattHours().InexactFloat64(),
			Quantity:     line.Quantity,
			RegionCode:   req.RegionCode,
			Certificates: certs,
		}, rule, now)

		if !result.Passed() {
			report.Passed = false
		}
		report.Results = append(report.Results, result)
	}
	return report, nil
}

// ListExpiring returns valid certificates expiring within the window.
// A zero window uses the default 90 days.
func (s *ComplianceService) ListExpiring(ctx context.Context, window time.Duration) ([]CertificateResponse, error) {
	if window <= 0 {
		window = defaultExpiryWindow
	}
	certs, err := s.certRepo.FindExpiring(ctx, time.Now().Add(window))
	if err != nil {
		return nil, err
	}
	return ToCertificateResponses(certs), nil
}

// UpsertRegionRule creates or updates the shipping rule for a region
func (s *ComplianceService) UpsertRegionRule(ctx context.Context, req UpsertRegionRuleRequest) (*RegionRuleResponse, error) {
	rule, err := s.ruleRepo.FindByRegion(ctx, req.RegionCode)
	if err == nil && rule.RegionCode == normalizeRegion(req.RegionCode) {
		if err := rule.Update(req.MaxWattHours, req.MaxUnits, req.RequiresGround, req.Notes); err != nil {
			return nil, err
		}
	} else {
		rule, err = compliance.NewRegionRule(req.RegionCode, req.MaxWattHours, req.MaxUnits)
		if err != nil {
			return nil, err
		}
		if err := rule.Update(req.MaxWattHours, req.MaxUnits, req.RequiresGround, req.Notes); err != nil {
			return nil, err
		}
	}

	if err := s.ruleRepo.Save(ctx, rule); err != nil {
		return nil, fmt.Errorf("failed to save region rule: %w", err)
	}
	response := ToRegionRuleResponse(rule)
	return &response, nil
}

// ListRegionRules returns every published shipping rule
func (s *ComplianceService) ListRegionRules(ctx context.Context) ([]RegionRuleResponse, error) {
	rules, err := s.ruleRepo.FindAllRules(ctx)
	if err != nil {
		return nil, err
	}
	return ToRegionRuleResponses(rules), nil
}

// TransportClassFor maps a per-unit watt-hour rating to its transport class
func TransportClassFor(wattHours float64) string {
	switch {
	case wattHours <= 100:
		return TransportClassAirUnrestricted
	case wattHours <= 160:
		return TransportClassAirLimited
	default:
		return TransportClassGroundOnly
	}
}

func normalizeRegion(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
