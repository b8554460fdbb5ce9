// Package engraving contains the application services for nameplate
// designs: creation, moderation and preview asset handling.
package engraving

import (
	"context"
	"fmt"
	"time"

	"github.com/batterydepartment/backend/internal/domain/catalog"
	"github.com/batterydepartment/backend/internal/domain/engraving"
	"github.com/batterydepartment/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// previewUploadExpiry bounds how long a preview upload URL stays valid
const previewUploadExpiry = 15 * time.Minute

// PreviewStorage is the object storage surface the design service needs
type PreviewStorage interface {
	PresignUpload(ctx context.Context, key, contentType string, expiresIn time.Duration) (string, time.Time, error)
	PresignDownload(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error)
	Exists(ctx context.Context, key string) (bool, error)
}

// DesignService handles nameplate design business operations
type DesignService struct {
	designRepo     engraving.DesignRepository
	productRepo    catalog.ProductRepository
	previewStore   PreviewStorage
	eventPublisher shared.EventPublisher
}

// NewDesignService creates a new DesignService
func NewDesignService(designRepo engraving.DesignRepository, productRepo catalog.ProductRepository) *DesignService {
	return &DesignService{
		designRepo:  designRepo,
		productRepo: productRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *DesignService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetPreviewStorage sets the object storage used for preview assets
func (s *DesignService) SetPreviewStorage(store PreviewStorage) {
	s.previewStore = store
}

func (s *DesignService) publishDomainEvents(ctx context.Context, d *engraving.Design) {
	if s.eventPublisher == nil {
		return
	}
	events := d.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	d.ClearDomainEvents()
}

// Create creates a new draft design for a customer.
// The product must exist, be active and accept engraving.
func (s *DesignService) Create(ctx context.Context, customerID uuid.UUID, req CreateDesignRequest) (*DesignResponse, error) {
	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.IsActive() {
		return nil, shared.NewDomainError("PRODUCT_NOT_ACTIVE", "Designs can only target active products")
	}
	if !product.Engravable {
		return nil, shared.NewDomainError("NOT_ENGRAVABLE", "This product does not accept engraving")
	}

	design, err := engraving.NewDesign(customerID, req.ProductID, req.Line1, req.Line2, engraving.Font(req.Font))
	if err != nil {
		return nil, err
	}

	if err := s.designRepo.Save(ctx, design); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, design)

	response := ToDesignResponse(design)
	return &response, nil
}

// Update edits a draft or rejected design
func (s *DesignService) Update(ctx context.Context, customerID, designID uuid.UUID, req UpdateDesignRequest) (*DesignResponse, error) {
	design, err := s.findOwnedDesign(ctx, customerID, designID)
	if err != nil {
		return nil, err
	}

	if err := design.UpdateText(req.Line1, req.Line2, engraving.Font(req.Font)); err != nil {
		return nil, err
	}

	if err := s.designRepo.Save(ctx, design); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, design)

	response := ToDesignResponse(design)
	return &response, nil
}

// RequestPreviewUpload issues a presigned URL for uploading the rendered
// preview image. The caller PUTs the image then calls AttachPreview.
func (s *DesignService) RequestPreviewUpload(ctx context.Context, customerID, designID uuid.UUID, contentType string) (*PreviewUploadResponse, error) {
	if s.previewStore == nil {
		return nil, shared.NewDomainError("STORAGE_UNAVAILABLE", "Preview storage is not configured")
	}
	if contentType != "image/png" && contentType != "image/jpeg" {
		return nil, shared.NewDomainError("INVALID_CONTENT_TYPE", "Preview must be a PNG or JPEG image")
	}

	design, err := s.findOwnedDesign(ctx, customerID, designID)
	if err != nil {
		return nil, err
	}
	if design.Status != engraving.DesignStatusDraft && design.Status != engraving.DesignStatusApproved {
		return nil, shared.NewDomainError("INVALID_STATE", "Previews can only be uploaded for draft or approved designs")
	}

	key := fmt.Sprintf("previews/%s/%s.png", design.CustomerID, design.ID)
	url, expiresAt, err := s.previewStore.PresignUpload(ctx, key, contentType, previewUploadExpiry)
	if err != nil {
		return nil, err
	}

	return &PreviewUploadResponse{
		Key:       key,
		UploadURL: url,
		ExpiresAt: expiresAt,
	}, nil
}

// AttachPreview records the storage key of an uploaded preview.
// The object must already exist in storage.
func (s *DesignService) AttachPreview(ctx context.Context, customerID, designID uuid.UUID, key string) (*DesignResponse, error) {
	design, err := s.findOwnedDesign(ctx, customerID, designID)
	if err != nil {
		return nil, err
	}

	if s.previewStore != nil {
		exists, err := s.previewStore.Exists(ctx, key)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, shared.NewDomainError("PREVIEW_NOT_FOUND", "No uploaded preview found at this key")
		}
	}

	if err := design.AttachPreview(key); err != nil {
		return nil, err
	}

	if err := s.designRepo.Save(ctx, design); err != nil {
		return nil, err
	}

	response := ToDesignResponse(design)
	return &response, nil
}

// Approve passes a design through moderation
func (s *DesignService) Approve(ctx context.Context, designID uuid.UUID) (*DesignResponse, error) {
	design, err := s.designRepo.FindByID(ctx, designID)
	if err != nil {
		return nil, err
	}

	if err := design.Approve(); err != nil {
		return nil, err
	}

	if err := s.designRepo.Save(ctx, design); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, design)

	response := ToDesignResponse(design)
	return &response, nil
}

// Reject fails a design in moderation with a note for the customer
func (s *DesignService) Reject(ctx context.Context, designID uuid.UUID, req RejectDesignRequest) (*DesignResponse, error) {
	design, err := s.designRepo.FindByID(ctx, designID)
	if err != nil {
		return nil, err
	}

	if err := design.Reject(req.Note); err != nil {
		return nil, err
	}

	if err := s.designRepo.Save(ctx, design); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, design)

	response := ToDesignResponse(design)
	return &response, nil
}

// Queue moves an approved design into the production queue
func (s *DesignService) Queue(ctx context.Context, designID uuid.UUID) error {
	design, err := s.designRepo.FindByID(ctx, designID)
	if err != nil {
		return err
	}

	if err := design.Queue(); err != nil {
		return err
	}

	if err := s.designRepo.Save(ctx, design); err != nil {
		return err
	}

	s.publishDomainEvents(ctx, design)
	return nil
}

// GetByID retrieves a design, attaching a short-lived preview URL when
// a preview has been uploaded.
func (s *DesignService) GetByID(ctx context.Context, designID uuid.UUID) (*DesignResponse, error) {
	design, err := s.designRepo.FindByID(ctx, designID)
	if err != nil {
		return nil, err
	}

	response := ToDesignResponse(design)
	s.attachPreviewURL(ctx, &response)
	return &response, nil
}

// ListByCustomer retrieves a customer's designs
func (s *DesignService) ListByCustomer(ctx context.Context, customerID uuid.UUID, filter DesignListFilter) ([]DesignResponse, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "updated_at",
		OrderDir: "desc",
		Filters:  make(map[string]interface{}),
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	designs, err := s.designRepo.FindByCustomer(ctx, customerID, domainFilter)
	if err != nil {
		return nil, err
	}

	return ToDesignResponses(designs), nil
}

// ListByStatus retrieves designs in a given status, used by the
// moderation queue and the production floor.
func (s *DesignService) ListByStatus(ctx context.Context, status engraving.DesignStatus, filter DesignListFilter) ([]DesignResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "created_at",
		OrderDir: "asc",
	}

	designs, err := s.designRepo.FindByStatus(ctx, status, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.designRepo.CountByStatus(ctx, status)
	if err != nil {
		return nil, 0, err
	}

	return ToDesignResponses(designs), total, nil
}

func (s *DesignService) findOwnedDesign(ctx context.Context, customerID, designID uuid.UUID) (*engraving.Design, error) {
	design, err := s.designRepo.FindByID(ctx, designID)
	if err != nil {
		return nil, err
	}
	if design.CustomerID != customerID {
		return nil, shared.NewDomainError("FORBIDDEN", "Design does not belong to this customer")
	}
	return design, nil
}

func (s *DesignService) attachPreviewURL(ctx context.Context, response *DesignResponse) {
	if s.previewStore == nil || response.PreviewKey == "" {
		return
	}
	url, _, err := s.previewStore.PresignDownload(ctx, response.PreviewKey, previewUploadExpiry)
	if err == nil {
		response.PreviewURL = url
	}
}
