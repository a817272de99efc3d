// Package publisher forwards application events to NATS.
package publisher

import (
	"context"
	"fmt"

	"github.com/blockedby/application-tracker/internal/tracker"
)

// NATS subjects of application events
const (
	SubjectCreated = "applications.created"
	SubjectUpdated = "applications.updated"
	SubjectDeleted = "applications.deleted"
)

// NATSClient interface to allow mocking. *nats.Client publishes through
// JetStream and waits for the stream ack.
type NATSClient interface {
	Publish(ctx context.Context, subject string, data any) error
}

// NATSPublisher implements tracker.EventPublisher
type NATSPublisher struct {
	js NATSClient
}

// NewNATSPublisher creates a new publisher
func NewNATSPublisher(js NATSClient) *NATSPublisher {
	return &NATSPublisher{js: js}
}

// SubjectFor maps an event type to its subject.
func SubjectFor(eventType string) (string, error) {
	switch eventType {
	case tracker.EventCreated:
		return SubjectCreated, nil
	case tracker.EventUpdated:
		return SubjectUpdated, nil
	case tracker.EventDeleted:
		return SubjectDeleted, nil
	default:
		return "", fmt.Errorf("unknown event type %q", eventType)
	}
}

// PublishApplicationEvent publishes event on the subject of its type.
func (p *NATSPublisher) PublishApplicationEvent(ctx context.Context, event tracker.Event) error {
	subject, err := SubjectFor(event.Type)
	if err != nil {
		return err
	}

	if err := p.js.Publish(ctx, subject, event); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}

	return nil
}
