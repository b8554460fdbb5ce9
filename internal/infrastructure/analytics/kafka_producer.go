package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/batterydepartment/backend/internal/domain/shared"
	"github.com/batterydepartment/backend/internal/infrastructure/config"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Producer publishes analytics and domain events to Kafka
type Producer struct {
	writer       *kafka.Writer
	eventsTopic  string
	domainTopic  string
	batchTimeout time.Duration
	logger       *zap.Logger
}

// NewProducer creates a Kafka producer from configuration
func NewProducer(cfg config.AnalyticsConfig, logger *zap.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.Hash{},
		BatchTimeout: cfg.BatchTimeout,
		RequiredAcks: kafka.RequireOne,
		Async:        false,
	}

	return &Producer{
		writer:       writer,
		eventsTopic:  cfg.EventsTopic,
		domainTopic:  cfg.DomainEventTopic,
		batchTimeout: cfg.BatchTimeout,
		logger:       logger,
	}
}

// TrackEvent publishes a storefront analytics event (page view, add to
// cart, checkout step) keyed by session so per-session ordering holds.
func (p *Producer) TrackEvent(ctx context.Context, sessionKey string, payload interface{}) error {
	return p.publish(ctx, p.eventsTopic, sessionKey, payload)
}

// PublishDomainEvent publishes a domain event keyed by aggregate ID
func (p *Producer) PublishDomainEvent(ctx context.Context, event shared.DomainEvent) error {
	return p.publish(ctx, p.domainTopic, event.AggregateID().String(), event)
}

func (p *Producer) publish(ctx context.Context, topic, key string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("kafka: marshal payload: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	})
	if err != nil {
		return fmt.Errorf("kafka: write to %s: %w", topic, err)
	}

	return nil
}

// Close flushes and closes the underlying writer
func (p *Producer) Close() error {
	return p.writer.Close()
}

// DomainEventRelay forwards every domain event from the bus to Kafka.
// Relay failures are logged, never propagated: analytics must not block
// or fail order processing.
type DomainEventRelay struct {
	producer *Producer
	logger   *zap.Logger
}

// NewDomainEventRelay creates a relay handler
func NewDomainEventRelay(producer *Producer, logger *zap.Logger) *DomainEventRelay {
	return &DomainEventRelay{
		producer: producer,
		logger:   logger,
	}
}

// EventTypes returns an empty slice so the relay receives all events
func (r *DomainEventRelay) EventTypes() []string {
	return nil
}

// Handle publishes the event to the domain event topic
func (r *DomainEventRelay) Handle(ctx context.Context, event shared.DomainEvent) error {
	if err := r.producer.PublishDomainEvent(ctx, event); err != nil {
		r.logger.Warn("failed to relay domain event to Kafka",
			zap.String("event_type", event.EventType()),
			zap.String("event_id", event.EventID().String()),
			zap.Error(err),
		)
	}
	return nil
}

// Ensure DomainEventRelay implements EventHandler
var _ shared.EventHandler = (*DomainEventRelay)(nil)
