package analytics

import (
	"context"
	"strings"
	"time"

	"github.com/batterydepartment/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EventSink publishes enriched storefront events, keyed by session so
// per-session ordering holds downstream.
type EventSink interface {
	TrackEvent(ctx context.Context, sessionKey string, payload interface{}) error
}

// RequestContext carries transport metadata the handler extracts from the request
type RequestContext struct {
	UserID    *uuid.UUID
	ClientIP  string
	UserAgent string
}

// allowedEvents is the storefront event vocabulary. Unknown names are
// dropped rather than rejected so a stale client never breaks a flush.
var allowedEvents = map[string]bool{
	"page_view":          true,
	"product_view":       true,
	"add_to_cart":        true,
	"remove_from_cart":   true,
	"begin_checkout":     true,
	"checkout_step":      true,
	"purchase":           true,
	"engraving_started":  true,
	"engraving_preview":  true,
	"engraving_saved":    true,
	"search":             true,
	"fleet_quiz_started": true,
	"fleet_quiz_step":    true,
	"fleet_quiz_result":  true,
}

// TrackingService validates and enriches storefront analytics events
// before handing them to the sink
type TrackingService struct {
	sink   EventSink
	logger *zap.Logger
}

// NewTrackingService creates a TrackingService
func NewTrackingService(sink EventSink, logger *zap.Logger) *TrackingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TrackingService{
		sink:   sink,
		logger: logger,
	}
}

// Track ingests a single event
func (s *TrackingService) Track(ctx context.Context, req TrackEventRequest, rc RequestContext) (*TrackEventResponse, error) {
	return s.TrackBatch(ctx, TrackBatchRequest{Events: []TrackEventRequest{req}}, rc)
}

// TrackBatch ingests a client buffer flush. Individual events may be
// dropped without failing the batch.
func (s *TrackingService) TrackBatch(ctx context.Context, req TrackBatchRequest, rc RequestContext) (*TrackEventResponse, error) {
	if s.sink == nil {
		return nil, &shared.DomainError{Code: "ANALYTICS_UNAVAILABLE", Message: "analytics pipeline is not configured"}
	}

	now := time.Now()
	resp := &TrackEventResponse{ServerAt: now}

	for _, in := range req.Events {
		name := strings.ToLower(strings.TrimSpace(in.EventName))
		if !allowedEvents[name] {
			resp.Rejected++
			s.logger.Debug("dropped unknown analytics event", zap.String("event_name", in.EventName))
			continue
		}

		event := StorefrontEvent{
			EventID:    uuid.New(),
			EventName:  name,
			SessionID:  in.SessionID,
			UserID:     rc.UserID,
			Page:       in.Page,
			Properties: in.Properties,
			ClientIP:   rc.ClientIP,
			UserAgent:  rc.UserAgent,
			ReceivedAt: now,
		}

		if err := s.sink.TrackEvent(ctx, in.SessionID, event); err != nil {
			resp.Rejected++
			s.logger.Warn("failed to publish analytics event",
				zap.String("event_name", name),
				zap.Error(err),
			)
			continue
		}
		resp.Accepted++
	}

	return resp, nil
}
