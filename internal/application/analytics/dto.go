package analytics

import (
	"time"

	"github.com/google/uuid"
)

// TrackEventRequest is one storefront analytics event from the client
type TrackEventRequest struct {
	EventName  string                 `json:"event_name" binding:"required,max=100"`
	SessionID  string                 `json:"session_id" binding:"required,max=100"`
	Page       string                 `json:"page" binding:"max=500"`
	Properties map[string]interface{} `json:"properties"`
}

// TrackBatchRequest carries a client-side buffer flush
type TrackBatchRequest struct {
	Events []TrackEventRequest `json:"events" binding:"required,min=1,max=100,dive"`
}

// TrackEventResponse acknowledges accepted events
type TrackEventResponse struct {
	Accepted int       `json:"accepted"`
	Rejected int       `json:"rejected"`
	ServerAt time.Time `json:"server_at"`
}

// StorefrontEvent is the enriched record published to the events topic
type StorefrontEvent struct {
	EventID    uuid.UUID              `json:"event_id"`
	EventName  string                 `json:"event_name"`
	SessionID  string                 `json:"session_id"`
	UserID     *uuid.UUID             `json:"user_id,omitempty"`
	Page       string                 `json:"page,omitempty"`
	Properties map[string]interface{} `json:"properties,omitempty"`
	ClientIP   string                 `json:"client_ip,omitempty"`
	UserAgent  string                 `json:"user_agent,omitempty"`
	ReceivedAt time.Time              `json:"received_at"`
}
