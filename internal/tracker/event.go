package tracker

import (
	"time"

	"github.com/blockedby/application-tracker/internal/models"
	"github.com/google/uuid"
)

// event types
const (
	EventCreated = "application.created"
	EventUpdated = "application.updated"
	EventDeleted = "application.deleted"
)

// Event describes a change to a stored application.
type Event struct {
	Type        string        `json:"type"`
	ID          uuid.UUID     `json:"id"`
	CompanyName string        `json:"companyName"`
	JobTitle    string        `json:"jobTitle"`
	Status      models.Status `json:"status"`
	OccurredAt  time.Time     `json:"occurredAt"`
}

// NewEvent builds an event of type typ for app.
func NewEvent(typ string, app *models.Application, at time.Time) Event {
	return Event{
		Type:        typ,
		ID:          app.ID,
		CompanyName: app.CompanyName,
		JobTitle:    app.JobTitle,
		Status:      app.Status,
		OccurredAt:  at,
	}
}
