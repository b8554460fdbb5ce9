package engraving

import (
	"github.com/batterydepartment/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant
const AggregateTypeDesign = "EngravingDesign"

// Event type constants
const (
	EventTypeDesignCreated  = "EngravingDesignCreated"
	EventTypeDesignUpdated  = "EngravingDesignUpdated"
	EventTypeDesignApproved = "EngravingDesignApproved"
	EventTypeDesignRejected = "EngravingDesignRejected"
	EventTypeDesignQueued   = "EngravingDesignQueued"
)

// DesignCreatedEvent is published when a new design is created
type DesignCreatedEvent struct {
	shared.BaseDomainEvent
	DesignID   uuid.UUID `json:"design_id"`
	CustomerID uuid.UUID `json:"customer_id"`
	ProductID  uuid.UUID `json:"product_id"`
	Line1      string    `json:"line1"`
	Line2      string    `json:"line2,omitempty"`
	Font       Font      `json:"font"`
}

// NewDesignCreatedEvent creates a new DesignCreatedEvent
func NewDesignCreatedEvent(design *Design) *DesignCreatedEvent {
	return &DesignCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDesignCreated, AggregateTypeDesign, design.ID),
		DesignID:        design.ID,
		CustomerID:      design.CustomerID,
		ProductID:       design.ProductID,
		Line1:           design.Line1,
		Line2:           design.Line2,
		Font:            design.Font,
	}
}

// DesignUpdatedEvent is published when a design's text changes
type DesignUpdatedEvent struct {
	shared.BaseDomainEvent
	DesignID uuid.UUID `json:"design_id"`
	Line1    string    `json:"line1"`
	Line2    string    `json:"line2,omitempty"`
	Font     Font      `json:"font"`
}

// NewDesignUpdatedEvent creates a new DesignUpdatedEvent
func NewDesignUpdatedEvent(design *Design) *DesignUpdatedEvent {
	return &DesignUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDesignUpdated, AggregateTypeDesign, design.ID),
		DesignID:        design.ID,
		Line1:           design.Line1,
		Line2:           design.Line2,
		Font:            design.Font,
	}
}

// DesignApprovedEvent is published when a design passes moderation
type DesignApprovedEvent struct {
	shared.BaseDomainEvent
	DesignID   uuid.UUID `json:"design_id"`
	CustomerID uuid.UUID `json:"customer_id"`
}

// NewDesignApprovedEvent creates a new DesignApprovedEvent
func NewDesignApprovedEvent(design *Design) *DesignApprovedEvent {
	return &DesignApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDesignApproved, AggregateTypeDesign, design.ID),
		DesignID:        design.ID,
		CustomerID:      design.CustomerID,
	}
}

// DesignRejectedEvent is published when a design fails moderation
type DesignRejectedEvent struct {
	shared.BaseDomainEvent
	DesignID   uuid.UUID `json:"design_id"`
	CustomerID uuid.UUID `json:"customer_id"`
	RejectNote string    `json:"reject_note,omitempty"`
}

// NewDesignRejectedEvent creates a new DesignRejectedEvent
func NewDesignRejectedEvent(design *Design) *DesignRejectedEvent {
	return &DesignRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDesignRejected, AggregateTypeDesign, design.ID),
		DesignID:        design.ID,
		CustomerID:      design.CustomerID,
		RejectNote:      design.RejectNote,
	}
}

// DesignQueuedEvent is published when a design enters the production queue
type DesignQueuedEvent struct {
	shared.BaseDomainEvent
	DesignID  uuid.UUID `json:"design_id"`
	ProductID uuid.UUID `json:"product_id"`
}

// NewDesignQueuedEvent creates a new DesignQueuedEvent
func NewDesignQueuedEvent(design *Design) *DesignQueuedEvent {
	return &DesignQueuedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDesignQueued, AggregateTypeDesign, design.ID),
		DesignID:        design.ID,
		ProductID:       design.ProductID,
	}
}
