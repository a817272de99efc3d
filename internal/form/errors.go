package form

import (
	"errors"
	"fmt"
	"strings"
)

// form errors
var (
	ErrIncompleteForm    = errors.New("form is incomplete or contains errors")
	ErrServer            = errors.New("unable to save the application")
	ErrSubmitInProgress  = errors.New("a submission is already in progress")
	ErrUnknownAttachment = errors.New("attachment is not part of the catalog")
)

// field validation errors
var (
	ErrRequired      = errors.New("required")
	ErrInvalidValue  = errors.New("invalid value")
	ErrInvalidStatus = errors.New("unknown status")
)

// FieldName identifies a draft field.
type FieldName string

// Draft fields, in form order.
const (
	FieldCountry         FieldName = "country"
	FieldCompanyName     FieldName = "companyName"
	FieldJobTitle        FieldName = "jobTitle"
	FieldJobLink         FieldName = "jobLink"
	FieldPublicationDate FieldName = "publicationDate"
	FieldApplicationDate FieldName = "applicationDate"
	FieldStatus          FieldName = "status"
	FieldContacts        FieldName = "contacts"
	FieldFollowUpDates   FieldName = "followUpDates"
	FieldSentFiles       FieldName = "sentFiles"
)

// AllFields lists every draft field.
var AllFields = []FieldName{
	FieldCountry,
	FieldCompanyName,
	FieldJobTitle,
	FieldJobLink,
	FieldPublicationDate,
	FieldApplicationDate,
	FieldStatus,
	FieldContacts,
	FieldFollowUpDates,
	FieldSentFiles,
}

// FieldError is a failure of a single field.
type FieldError struct {
	Field FieldName
	Err   error
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

// ValidationError aggregates field-level and form-level failures.
type ValidationError struct {
	Fields []FieldError
	// DateOrder is set when the publication date is after the application date.
	DateOrder bool
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields)+1)
	for _, f := range e.Fields {
		parts = append(parts, f.Error())
	}
	if e.DateOrder {
		parts = append(parts, "publication date cannot be after application date")
	}
	return ErrIncompleteForm.Error() + ": " + strings.Join(parts, "; ")
}

// Unwrap lets errors.Is match ErrIncompleteForm.
func (e *ValidationError) Unwrap() error {
	return ErrIncompleteForm
}

// Field returns the error recorded for name, if any.
func (e *ValidationError) Field(name FieldName) error {
	for _, f := range e.Fields {
		if f.Field == name {
			return f.Err
		}
	}
	return nil
}
