package engraving

import (
	"time"

	"github.com/batterydepartment/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// DesignStatus represents the lifecycle status of a nameplate design
type DesignStatus string

const (
	DesignStatusDraft    DesignStatus = "draft"
	DesignStatusApproved DesignStatus = "approved"
	DesignStatusQueued   DesignStatus = "queued"
	DesignStatusRejected DesignStatus = "rejected"
)

// Font identifies an engraving typeface supported by the laser line
type Font string

const (
	FontBlock   Font = "block"
	FontScript  Font = "script"
	FontStencil Font = "stencil"
)

// Nameplate text limits. The laser bed fits two lines of twenty
// characters on the standard battery housing.
const (
	MaxLines       = 2
	MaxLineLength  = 20
	maxRejectNote  = 500
	previewKeySize = 512
)

// Design represents a customer's nameplate engraving design.
// It is the aggregate root for engraving operations.
type Design struct {
	shared.BaseAggregateRoot
	CustomerID uuid.UUID    `gorm:"type:uuid;not null;index"`
	ProductID  uuid.UUID    `gorm:"type:uuid;not null;index"`
	Line1      string       `gorm:"type:varchar(20);not null"`
	Line2      string       `gorm:"type:varchar(20)"`
	Font       Font         `gorm:"type:varchar(20);not null;default:'block'"`
	Status     DesignStatus `gorm:"type:varchar(20);not null;default:'draft'"`
	PreviewKey string       `gorm:"type:varchar(512)"` // object storage key of the rendered preview
	RejectNote string       `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (Design) TableName() string {
	return "engraving_designs"
}

// NewDesign creates a new nameplate design in draft status
func NewDesign(customerID, productID uuid.UUID, line1, line2 string, font Font) (*Design, error) {
	if err := validateLine(line1, false); err != nil {
		return nil, err
	}
	if err := validateLine(line2, true); err != nil {
		return nil, err
	}
	if err := validateFont(font); err != nil {
		return nil, err
	}

	design := &Design{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CustomerID:        customerID,
		ProductID:         productID,
		Line1:             line1,
		Line2:             line2,
		Font:              font,
		Status:            DesignStatusDraft,
	}

	design.AddDomainEvent(NewDesignCreatedEvent(design))

	return design, nil
}

// UpdateText changes the engraving text. Only draft and rejected designs
// can be edited; editing a rejected design returns it to draft.
func (d *Design) UpdateText(line1, line2 string, font Font) error {
	if d.Status != DesignStatusDraft && d.Status != DesignStatusRejected {
		return shared.NewDomainError("DESIGN_LOCKED", "Only draft or rejected designs can be edited")
	}
	if err := validateLine(line1, false); err != nil {
		return err
	}
	if err := validateLine(line2, true); err != nil {
		return err
	}
	if err := validateFont(font); err != nil {
		return err
	}

	d.Line1 = line1
	d.Line2 = line2
	d.Font = font
	d.Status = DesignStatusDraft
	d.RejectNote = ""
	d.PreviewKey = ""
	d.UpdatedAt = time.Now()
	d.IncrementVersion()

	d.AddDomainEvent(NewDesignUpdatedEvent(d))

	return nil
}

// AttachPreview records the object storage key of the rendered preview
// image. Once a design is queued for production its preview is frozen.
func (d *Design) AttachPreview(key string) error {
	if d.Status != DesignStatusDraft && d.Status != DesignStatusApproved {
		return shared.NewDomainError("DESIGN_LOCKED", "Previews can only be attached to draft or approved designs")
	}
	if key == "" || len(key) > previewKeySize {
		return shared.NewDomainError("INVALID_PREVIEW_KEY", "Preview key is missing or too long")
	}

	d.PreviewKey = key
	d.UpdatedAt = time.Now()
	d.IncrementVersion()

	return nil
}

// Approve marks the design as approved for production
func (d *Design) Approve() error {
	if d.Status != DesignStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft designs can be approved")
	}

	d.Status = DesignStatusApproved
	d.UpdatedAt = time.Now()
	d.IncrementVersion()

	d.AddDomainEvent(NewDesignApprovedEvent(d))

	return nil
}

// Reject marks the design as rejected with a moderation note
func (d *Design) Reject(note string) error {
	if d.Status != DesignStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft designs can be rejected")
	}
	if len(note) > maxRejectNote {
		return shared.NewDomainError("INVALID_NOTE", "Rejection note cannot exceed 500 characters")
	}

	d.Status = DesignStatusRejected
	d.RejectNote = note
	d.UpdatedAt = time.Now()
	d.IncrementVersion()

	d.AddDomainEvent(NewDesignRejectedEvent(d))

	return nil
}

// Queue moves an approved design into the production queue.
// Designs are queued when the order that references them is paid.
func (d *Design) Queue() error {
	if d.Status != DesignStatusApproved {
		return shared.NewDomainError("INVALID_STATE", "Only approved designs can be queued for production")
	}

	d.Status = DesignStatusQueued
	d.UpdatedAt = time.Now()
	d.IncrementVersion()

	d.AddDomainEvent(NewDesignQueuedEvent(d))

	return nil
}

// IsApproved returns true if the design has passed moderation
func (d *Design) IsApproved() bool {
	return d.Status == DesignStatusApproved
}

// validateLine validates one line of engraving text.
// The second line may be empty; the first may not.
func validateLine(line string, optional bool) error {
	if line == "" {
		if optional {
			return nil
		}
		return shared.NewDomainError("INVALID_TEXT", "Engraving text cannot be empty")
	}
	if len(line) > MaxLineLength {
		return shared.NewDomainError("INVALID_TEXT", "Engraving line cannot exceed 20 characters")
	}
	for _, r := range line {
		if r < 0x20 || r > 0x7e {
			return shared.NewDomainError("INVALID_TEXT", "Engraving text may only contain printable ASCII characters")
		}
	}
	return nil
}

// validateFont validates the engraving typeface
func validateFont(font Font) error {
	switch font {
	case FontBlock, FontScript, FontStencil:
		return nil
	default:
		return shared.NewDomainError("INVALID_FONT", "Unknown engraving font")
	}
}
