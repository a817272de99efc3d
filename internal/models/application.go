package models

import (
	"time"

	"github.com/google/uuid"
)

// Contacts groups the people and channels attached to an application.
// Each list is ordered and free of duplicates.
type Contacts struct {
	Names   []string `json:"names"`
	Emails  []string `json:"emails"`
	Domains []string `json:"domains"`
	Phones  []string `json:"phones"`
}

// Normalize replaces nil lists with empty ones so they encode as [].
func (c Contacts) Normalize() Contacts {
	return Contacts{
		Names:   nonNil(c.Names),
		Emails:  nonNil(c.Emails),
		Domains: nonNil(c.Domains),
		Phones:  nonNil(c.Phones),
	}
}

// Clone returns a deep copy of the contact lists.
func (c Contacts) Clone() Contacts {
	return Contacts{
		Names:   append([]string{}, c.Names...),
		Emails:  append([]string{}, c.Emails...),
		Domains: append([]string{}, c.Domains...),
		Phones:  append([]string{}, c.Phones...),
	}
}

// ApplicationRequest is the payload accepted by POST /api/applications.
type ApplicationRequest struct {
	Country         string   `json:"country"`
	CompanyName     string   `json:"companyName"`
	JobTitle        string   `json:"jobTitle"`
	JobLink         string   `json:"jobLink"`
	PublicationDate *Date    `json:"publicationDate"`
	ApplicationDate Date     `json:"applicationDate"`
	Status          Status   `json:"status"`
	Contacts        Contacts `json:"contacts"`
	FollowUpDates   []Date   `json:"followUpDates"`
	SentFiles       []string `json:"sentFiles"`
}

// Application is a persisted job application.
type Application struct {
	ID uuid.UUID `json:"id"`
	ApplicationRequest

	// timestamps
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ApplicationPatch carries a partial update; nil fields are left untouched.
type ApplicationPatch struct {
	Country         *string   `json:"country,omitempty"`
	CompanyName     *string   `json:"companyName,omitempty"`
	JobTitle        *string   `json:"jobTitle,omitempty"`
	JobLink         *string   `json:"jobLink,omitempty"`
	PublicationDate *Date     `json:"publicationDate,omitempty"`
	ApplicationDate *Date     `json:"applicationDate,omitempty"`
	Status          *Status   `json:"status,omitempty"`
	Contacts        *Contacts `json:"contacts,omitempty"`
	FollowUpDates   []Date    `json:"followUpDates,omitempty"`
	SentFiles       []string  `json:"sentFiles,omitempty"`
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
