package analytics

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/batterydepartment/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	mu     sync.Mutex
	events []StorefrontEvent
	keys   []string
	fail   bool
}

func (s *recordingSink) TrackEvent(ctx context.Context, sessionKey string, payload interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return fmt.Errorf("broker unavailable")
	}
	s.events = append(s.events, payload.(StorefrontEvent))
	s.keys = append(s.keys, sessionKey)
	return nil
}

func TestTrackingService_Track(t *testing.T) {
	sink := &recordingSink{}
	svc := NewTrackingService(sink, nil)
	userID := uuid.New()

	resp, err := svc.Track(context.Background(), TrackEventRequest{
		EventName:  "Add_To_Cart",
		SessionID:  "sess-42",
		Page:       "/products/flexvolt-20v-5ah",
		Properties: map[string]interface{}{"sku": "BD-20V-5AH", "quantity": 2},
	}, RequestContext{UserID: &userID, ClientIP: "203.0.113.9", UserAgent: "Mozilla/5.0"})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Accepted)
	assert.Equal(t, 0, resp.Rejected)
	require.Len(t, sink.events, 1)

	event := sink.events[0]
	assert.Equal(t, "add_to_cart", event.EventName)
	assert.Equal(t, "sess-42", event.SessionID)
	assert.Equal(t, &userID, event.UserID)
	assert.Equal(t, "203.0.113.9", event.ClientIP)
	assert.NotEqual(t, uuid.Nil, event.EventID)
	assert.False(t, event.ReceivedAt.IsZero())
	assert.Equal(t, []string{"sess-42"}, sink.keys)
}

func TestTrackingService_TrackBatch_DropsUnknownEvents(t *testing.T) {
	sink := &recordingSink{}
	svc := NewTrackingService(sink, nil)

	resp, err := svc.TrackBatch(context.Background(), TrackBatchRequest{
		Events: []TrackEventRequest{
			{EventName: "page_view", SessionID: "sess-1"},
			{EventName: "drop_table_users", SessionID: "sess-1"},
			{EventName: "purchase", SessionID: "sess-1"},
		},
	}, RequestContext{})
	require.NoError(t, err)

	assert.Equal(t, 2, resp.Accepted)
	assert.Equal(t, 1, resp.Rejected)
	require.Len(t, sink.events, 2)
	assert.Equal(t, "page_view", sink.events[0].EventName)
	assert.Equal(t, "purchase", sink.events[1].EventName)
}

func TestTrackingService_TrackBatch_SinkFailureDoesNotFailBatch(t *testing.T) {
	sink := &recordingSink{fail: true}
	svc := NewTrackingService(sink, nil)

	resp, err := svc.Track(context.Background(), TrackEventRequest{
		EventName: "page_view",
		SessionID: "sess-1",
	}, RequestContext{})
	require.NoError(t, err)

	assert.Equal(t, 0, resp.Accepted)
	assert.Equal(t, 1, resp.Rejected)
}

func TestTrackingService_NoSinkConfigured(t *testing.T) {
	svc := NewTrackingService(nil, nil)

	_, err := svc.Track(context.Background(), TrackEventRequest{
		EventName: "page_view",
		SessionID: "sess-1",
	}, RequestContext{})
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ANALYTICS_UNAVAILABLE", domainErr.Code)
}
