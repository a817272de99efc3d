package models

// Status is the progress of an application.
type Status string

// Status constants define the supported application states.
const (
	StatusSent               Status = "Sent"
	StatusPending            Status = "Pending"
	StatusInterviewScheduled Status = "Interview Scheduled"
	StatusRejected           Status = "Rejected"
	StatusOfferReceived      Status = "Offer Received"
)

var statusOrder = []Status{
	StatusSent,
	StatusPending,
	StatusInterviewScheduled,
	StatusRejected,
	StatusOfferReceived,
}

var frenchLabels = map[Status]string{
	StatusSent:               "Envoyée",
	StatusPending:            "En attente",
	StatusInterviewScheduled: "Entretien prévu",
	StatusRejected:           "Refus",
	StatusOfferReceived:      "Offre reçue",
}

// Statuses returns every status in display order.
func Statuses() []Status {
	return append([]Status{}, statusOrder...)
}

// IsValid checks if the status is one of the known values.
func (s Status) IsValid() bool {
	_, ok := frenchLabels[s]
	return ok
}

// Label returns the display label for the given locale.
// Only "fr" has translations; other locales get the status itself.
func (s Status) Label(locale string) string {
	if locale == "fr" {
		if l, ok := frenchLabels[s]; ok {
			return l
		}
	}
	return string(s)
}
