package event

import (
	"context"

	"github.com/batterydepartment/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// PersistentEventPublisher writes domain events to the outbox table.
// The outbox processor later picks them up and dispatches to the bus,
// so a crash between the aggregate save and the publish cannot lose
// events for long.
type PersistentEventPublisher struct {
	db         *gorm.DB
	serializer *EventSerializer
}

// NewPersistentEventPublisher creates a publisher backed by the outbox
func NewPersistentEventPublisher(db *gorm.DB, serializer *EventSerializer) *PersistentEventPublisher {
	return &PersistentEventPublisher{
		db:         db,
		serializer: serializer,
	}
}

// Publish serializes each event and saves an outbox entry
func (p *PersistentEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	entries := make([]*shared.OutboxEntry, 0, len(events))
	for _, event := range events {
		payload, err := p.serializer.Serialize(event)
		if err != nil {
			return err
		}
		entries = append(entries, shared.NewOutboxEntry(event, payload))
	}

	repo := NewGormOutboxRepository(p.db.WithContext(ctx))
	return repo.Save(ctx, entries...)
}

// Ensure PersistentEventPublisher implements EventPublisher
var _ shared.EventPublisher = (*PersistentEventPublisher)(nil)
