package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blockedby/application-tracker/internal/models"
	natsclient "github.com/blockedby/application-tracker/internal/nats"
	"github.com/blockedby/application-tracker/internal/tracker"
)

var _ NATSClient = (*natsclient.Client)(nil)

// MockNATSClient mocks the nats client operations we need
type MockNATSClient struct {
	PublishedCtx     context.Context
	PublishedSubject string
	PublishedData    []byte
	PublishError     error
}

func (m *MockNATSClient) Publish(ctx context.Context, subject string, data any) error {
	m.PublishedCtx = ctx
	if m.PublishError != nil {
		return m.PublishError
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	m.PublishedSubject = subject
	m.PublishedData = payload
	return nil
}

func sampleEvent(typ string) tracker.Event {
	return tracker.Event{
		Type:        typ,
		ID:          uuid.New(),
		CompanyName: "Acme",
		JobTitle:    "Go Developer",
		Status:      models.StatusSent,
		OccurredAt:  time.Now().UTC(),
	}
}

func TestNATSPublisher_Subjects(t *testing.T) {
	tests := []struct {
		eventType string
		subject   string
	}{
		{tracker.EventCreated, SubjectCreated},
		{tracker.EventUpdated, SubjectUpdated},
		{tracker.EventDeleted, SubjectDeleted},
	}

	for _, tt := range tests {
		t.Run(tt.eventType, func(t *testing.T) {
			mock := &MockNATSClient{}
			pub := &NATSPublisher{js: mock}

			event := sampleEvent(tt.eventType)
			require.NoError(t, pub.PublishApplicationEvent(context.Background(), event))
			assert.Equal(t, tt.subject, mock.PublishedSubject)

			var decoded tracker.Event
			require.NoError(t, json.Unmarshal(mock.PublishedData, &decoded))
			assert.Equal(t, event.ID, decoded.ID)
			assert.Equal(t, "Acme", decoded.CompanyName)
		})
	}
}

func TestNATSPublisher_UnknownType(t *testing.T) {
	mock := &MockNATSClient{}
	pub := &NATSPublisher{js: mock}

	err := pub.PublishApplicationEvent(context.Background(), sampleEvent("application.archived"))
	assert.Error(t, err)
	assert.Empty(t, mock.PublishedSubject)
}

func TestNATSPublisher_PublishError(t *testing.T) {
	mock := &MockNATSClient{PublishError: errors.New("no responders")}
	pub := &NATSPublisher{js: mock}

	err := pub.PublishApplicationEvent(context.Background(), sampleEvent(tracker.EventCreated))
	assert.ErrorIs(t, err, mock.PublishError)
}

type ctxKey struct{}

func TestNATSPublisher_ForwardsContext(t *testing.T) {
	mock := &MockNATSClient{}
	pub := NewNATSPublisher(mock)

	ctx := context.WithValue(context.Background(), ctxKey{}, "request")
	require.NoError(t, pub.PublishApplicationEvent(ctx, sampleEvent(tracker.EventUpdated)))
	require.NotNil(t, mock.PublishedCtx)
	assert.Equal(t, "request", mock.PublishedCtx.Value(ctxKey{}))
}
