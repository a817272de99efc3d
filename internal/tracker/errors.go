package tracker

import (
	"errors"
	"strings"
)

var (
	// ErrBadRequest is matched by every ValidationError.
	ErrBadRequest = errors.New("bad request")
	ErrNotFound   = errors.New("application not found")
)

// validation messages
const (
	MsgCountryRequired  = "country is required"
	MsgCountryInvalid   = "country must be an ISO 3166 alpha-2 code"
	MsgCompanyRequired  = "company name is required"
	MsgJobTitleRequired = "job title is required"
	MsgStatusRequired   = "status is required"
	MsgStatusInvalid    = "status is invalid"
	MsgAppDateRequired  = "application date is required"
	MsgDateOrder        = "publication date cannot be after application date"
	MsgNilUpdate        = "update request cannot be null"
)

// ValidationError lists every rule a request broke.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Errors, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrBadRequest
}

func invalid(msgs ...string) *ValidationError {
	return &ValidationError{Errors: msgs}
}
