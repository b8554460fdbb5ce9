package event

import (
	"github.com/batterydepartment/backend/internal/domain/catalog"
	"github.com/batterydepartment/backend/internal/domain/compliance"
	"github.com/batterydepartment/backend/internal/domain/engraving"
	"github.com/batterydepartment/backend/internal/domain/identity"
	"github.com/batterydepartment/backend/internal/domain/inventory"
	"github.com/batterydepartment/backend/internal/domain/order"
	"github.com/batterydepartment/backend/internal/domain/partner"
)

// RegisterAllEvents registers all domain event types with the serializer.
// This is required for the OutboxProcessor to deserialize events from the
// outbox table.
func RegisterAllEvents(serializer *EventSerializer) {
	// Catalog domain events
	serializer.Register(catalog.EventTypeProductCreated, &catalog.ProductCreatedEvent{})
	serializer.Register(catalog.EventTypeProductUpdated, &catalog.ProductUpdatedEvent{})
	serializer.Register(catalog.EventTypeProductStatusChanged, &catalog.ProductStatusChangedEvent{})
	serializer.Register(catalog.EventTypeProductPriceChanged, &catalog.ProductPriceChangedEvent{})

	// Engraving domain events
	serializer.Register(engraving.EventTypeDesignCreated, &engraving.DesignCreatedEvent{})
	serializer.Register(engraving.EventTypeDesignUpdated, &engraving.DesignUpdatedEvent{})
	serializer.Register(engraving.EventTypeDesignApproved, &engraving.DesignApprovedEvent{})
	serializer.Register(engraving.EventTypeDesignRejected, &engraving.DesignRejectedEvent{})
	serializer.Register(engraving.EventTypeDesignQueued, &engraving.DesignQueuedEvent{})

	// Inventory domain events
	serializer.Register(inventory.EventTypeStockIncreased, &inventory.StockIncreasedEvent{})
	serializer.Register(inventory.EventTypeStockLocked, &inventory.StockLockedEvent{})
	serializer.Register(inventory.EventTypeStockUnlocked, &inventory.StockUnlockedEvent{})
	serializer.Register(inventory.EventTypeStockLockExpired, &inventory.StockLockExpiredEvent{})
	serializer.Register(inventory.EventTypeStockDeducted, &inventory.StockDeductedEvent{})
	serializer.Register(inventory.EventTypeStockAdjusted, &inventory.StockAdjustedEvent{})
	serializer.Register(inventory.EventTypeStockBelowThreshold, &inventory.StockBelowThresholdEvent{})

	// Order domain events
	serializer.Register(order.EventTypeOrderCreated, &order.OrderCreatedEvent{})
	serializer.Register(order.EventTypeOrderPaid, &order.OrderPaidEvent{})
	serializer.Register(order.EventTypeOrderProductionStarted, &order.OrderProductionStartedEvent{})
	serializer.Register(order.EventTypeOrderShipped, &order.OrderShippedEvent{})
	serializer.Register(order.EventTypeOrderDelivered, &order.OrderDeliveredEvent{})
	serializer.Register(order.EventTypeOrderCancelled, &order.OrderCancelledEvent{})

	// Partner domain events
	serializer.Register(partner.EventTypeSupplierCreated, &partner.SupplierCreatedEvent{})
	serializer.Register(partner.EventTypeSupplierStatusChanged, &partner.SupplierStatusChangedEvent{})
	serializer.Register(partner.EventTypeWarehouseCreated, &partner.WarehouseCreatedEvent{})
	serializer.Register(partner.EventTypeWarehouseStatusChanged, &partner.WarehouseStatusChangedEvent{})

	// Identity domain events
	serializer.Register(identity.EventTypeUserRegistered, &identity.UserRegisteredEvent{})

	// Compliance domain events
	serializer.Register(compliance.EventTypeCertificateRegistered, &compliance.CertificateRegisteredEvent{})
	serializer.Register(compliance.EventTypeCertificateRevoked, &compliance.CertificateRevokedEvent{})
}
