// Package form implements the application draft: typed field setters,
// validation, submission and reset.
package form

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/blockedby/application-tracker/internal/catalog"
	"github.com/blockedby/application-tracker/internal/contacts"
	"github.com/blockedby/application-tracker/internal/logger"
	"github.com/blockedby/application-tracker/internal/models"
)

// titles and messages handed to the Presenter
const (
	TitleError         = "Error"
	TitleServerError   = "Server error"
	TitleSuccess       = "Success"
	MessageIncomplete  = "The form is incomplete or contains errors."
	MessageServerError = "Unable to save the application."
	MessageSuccess     = "Your application has been saved."
)

// ApplicationCreator sends a new application to the backend.
type ApplicationCreator interface {
	Create(ctx context.Context, req *models.ApplicationRequest) (*models.Application, error)
}

// Choice is what the user picks after a successful submission.
type Choice int

// Choice constants.
const (
	ChoiceNone Choice = iota
	// ChoiceNew resets the form for another application.
	ChoiceNew
	// ChoiceList leaves the form for the application listing.
	ChoiceList
)

// Presenter shows feedback dialogs.
type Presenter interface {
	Failure(title, message string)
	Success(title, message string) Choice
}

// Navigator switches to the application listing.
type Navigator interface {
	ShowListing(ctx context.Context) error
}

// State is the submission state of the form.
type State int

// State constants.
const (
	StateEditing State = iota
	StateValidating
	StateSubmitting
)

func (s State) String() string {
	switch s {
	case StateEditing:
		return "editing"
	case StateValidating:
		return "validating"
	case StateSubmitting:
		return "submitting"
	default:
		return "unknown"
	}
}

// SubmitResult is returned by a successful Submit.
type SubmitResult struct {
	Application *models.Application
	Choice      Choice
}

// Form is the in-memory draft of an application.
type Form struct {
	creator   ApplicationCreator
	presenter Presenter
	navigator Navigator
	catalog   *catalog.Catalog
	now       func() time.Time
	log       *logger.Logger

	contactOpts []contacts.Option

	mu    sync.Mutex
	state State

	country         string
	companyName     string
	jobTitle        string
	jobLink         string
	publicationDate *time.Time
	applicationDate *time.Time
	status          models.Status
	contacts        *contacts.Normalizer
	followUps       *DateSet
	sentFiles       []string

	touched map[FieldName]bool
}

// Option configures a Form.
type Option func(*Form)

// WithNavigator sets where ChoiceList leads.
func WithNavigator(n Navigator) Option {
	return func(f *Form) { f.navigator = n }
}

// WithCatalog sets the reference data (default country, attachments).
func WithCatalog(c *catalog.Catalog) Option {
	return func(f *Form) { f.catalog = c }
}

// WithClock overrides time.Now, used for "today".
func WithClock(now func() time.Time) Option {
	return func(f *Form) { f.now = now }
}

// WithLogger sets the logger.
func WithLogger(log *logger.Logger) Option {
	return func(f *Form) { f.log = log }
}

// WithContactOptions forwards options to the contacts normalizer.
func WithContactOptions(opts ...contacts.Option) Option {
	return func(f *Form) { f.contactOpts = append(f.contactOpts, opts...) }
}

type nopPresenter struct{}

func (nopPresenter) Failure(string, string)        {}
func (nopPresenter) Success(string, string) Choice { return ChoiceNone }

// New creates a fresh draft.
func New(creator ApplicationCreator, presenter Presenter, opts ...Option) *Form {
	f := &Form{
		creator:   creator,
		presenter: presenter,
		catalog:   catalog.Default(),
		now:       time.Now,
		log:       logger.Get(),
		touched:   make(map[FieldName]bool),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.presenter == nil {
		f.presenter = nopPresenter{}
	}

	copts := append([]contacts.Option{
		contacts.WithRegion(f.Country),
		contacts.WithLogger(f.log),
	}, f.contactOpts...)
	f.contacts = contacts.New(copts...)

	today := f.today()
	f.country = f.catalog.DefaultCountry
	f.publicationDate = &today
	f.applicationDate = &today
	f.followUps = NewDateSet(today)

	return f
}

func (f *Form) today() time.Time {
	return startOfDay(f.now())
}

// setters

// SetCountry selects the ISO country code.
func (f *Form) SetCountry(code string) {
	f.country = strings.ToUpper(strings.TrimSpace(code))
	f.touched[FieldCountry] = true
}

// SetCompanyName sets the company name.
func (f *Form) SetCompanyName(name string) {
	f.companyName = name
	f.touched[FieldCompanyName] = true
}

// SetJobTitle sets the job title.
func (f *Form) SetJobTitle(title string) {
	f.jobTitle = title
	f.touched[FieldJobTitle] = true
}

// SetJobLink sets the optional offer URL.
func (f *Form) SetJobLink(link string) {
	f.jobLink = strings.TrimSpace(link)
	f.touched[FieldJobLink] = true
}

// SetPublicationDate sets or clears (nil) the publication date.
func (f *Form) SetPublicationDate(d *time.Time) {
	f.publicationDate = copyTime(d)
	f.touched[FieldPublicationDate] = true
}

// SetApplicationDate sets or clears (nil) the application date.
func (f *Form) SetApplicationDate(d *time.Time) {
	f.applicationDate = copyTime(d)
	f.touched[FieldApplicationDate] = true
}

// SetStatus sets the application status.
func (f *Form) SetStatus(s models.Status) {
	f.status = s
	f.touched[FieldStatus] = true
}

// SetSentFiles selects attachments by name; every name must be in the catalog.
func (f *Form) SetSentFiles(files []string) error {
	for _, name := range files {
		if !f.catalog.HasAttachment(name) {
			return fmt.Errorf("%w: %s", ErrUnknownAttachment, name)
		}
	}
	f.sentFiles = append([]string{}, files...)
	f.touched[FieldSentFiles] = true
	return nil
}

// AddContact admits a contact chip, see contacts.Normalizer.Add.
func (f *Form) AddContact(field contacts.Field, raw string) error {
	f.touched[FieldContacts] = true
	return f.contacts.Add(field, raw)
}

// RemoveContact removes a contact chip by position.
func (f *Form) RemoveContact(field contacts.Field, index int) {
	f.touched[FieldContacts] = true
	f.contacts.Remove(field, index)
}

// AddFollowUpDate adds a follow-up date unless the same instant is present.
func (f *Form) AddFollowUpDate(d time.Time) bool {
	f.touched[FieldFollowUpDates] = true
	return f.followUps.Add(d)
}

// RemoveFollowUpDate removes a follow-up date by position.
func (f *Form) RemoveFollowUpDate(index int) {
	f.touched[FieldFollowUpDates] = true
	f.followUps.Remove(index)
}

// getters

// Country returns the selected country code.
func (f *Form) Country() string { return f.country }

// CompanyName returns the company name.
func (f *Form) CompanyName() string { return f.companyName }

// JobTitle returns the job title.
func (f *Form) JobTitle() string { return f.jobTitle }

// Status returns the selected status.
func (f *Form) Status() models.Status { return f.status }

// PublicationDate returns a copy of the publication date, or nil.
func (f *Form) PublicationDate() *time.Time { return copyTime(f.publicationDate) }

// ApplicationDate returns a copy of the application date, or nil.
func (f *Form) ApplicationDate() *time.Time { return copyTime(f.applicationDate) }

// SentFiles returns a copy of the selected attachments.
func (f *Form) SentFiles() []string { return append([]string{}, f.sentFiles...) }

// Contacts exposes the contact normalizer of the draft.
func (f *Form) Contacts() *contacts.Normalizer { return f.contacts }

// FollowUps exposes the follow-up date set of the draft.
func (f *Form) FollowUps() *DateSet { return f.followUps }

// Touched reports whether the field was edited or revealed by a failed submit.
func (f *Form) Touched(name FieldName) bool { return f.touched[name] }

// MarkAllTouched reveals every field-level error.
func (f *Form) MarkAllTouched() {
	for _, name := range AllFields {
		f.touched[name] = true
	}
}

// State returns the current submission state.
func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Form) setState(s State) {
	f.mu.Lock()
	f.state = s
	f.mu.Unlock()
}

// Validate checks required fields and the publication/application date order.
func (f *Form) Validate() error {
	verr := &ValidationError{}
	add := func(name FieldName, err error) {
		verr.Fields = append(verr.Fields, FieldError{Field: name, Err: err})
	}

	switch {
	case f.country == "":
		add(FieldCountry, ErrRequired)
	case !catalog.IsCountry(f.country):
		add(FieldCountry, ErrInvalidValue)
	}
	if strings.TrimSpace(f.companyName) == "" {
		add(FieldCompanyName, ErrRequired)
	}
	if strings.TrimSpace(f.jobTitle) == "" {
		add(FieldJobTitle, ErrRequired)
	}
	if f.applicationDate == nil {
		add(FieldApplicationDate, ErrRequired)
	}
	switch {
	case f.status == "":
		add(FieldStatus, ErrRequired)
	case !f.status.IsValid():
		add(FieldStatus, ErrInvalidStatus)
	}

	if f.publicationDate != nil && f.applicationDate != nil &&
		toYMD(*f.publicationDate).After(toYMD(*f.applicationDate)) {
		verr.DateOrder = true
	}

	if len(verr.Fields) == 0 && !verr.DateOrder {
		return nil
	}
	return verr
}

// Request builds the outbound payload from the current draft.
func (f *Form) Request() *models.ApplicationRequest {
	var appDate models.Date
	if f.applicationDate != nil {
		appDate = toYMD(*f.applicationDate)
	}

	followUps := make([]models.Date, 0, f.followUps.Len())
	for _, d := range f.followUps.Dates() {
		followUps = append(followUps, toYMD(d))
	}

	return &models.ApplicationRequest{
		Country:         f.country,
		CompanyName:     strings.TrimSpace(f.companyName),
		JobTitle:        strings.TrimSpace(f.jobTitle),
		JobLink:         f.jobLink,
		PublicationDate: toYMDPtr(f.publicationDate),
		ApplicationDate: appDate,
		Status:          f.status,
		Contacts:        f.contacts.Contacts().Normalize(),
		FollowUpDates:   followUps,
		SentFiles:       append([]string{}, f.sentFiles...),
	}
}

// backfillDomains derives the domains from the emails when the user left the
// domains list empty.
func (f *Form) backfillDomains() {
	c := f.contacts.Contacts()
	if len(c.Domains) > 0 || len(c.Emails) == 0 {
		return
	}
	f.contacts.ReplaceDomains(contacts.DeriveDomains(c.Emails))
}

// Submit validates the draft and sends it to the backend.
// A failed validation marks every field touched and makes no network call.
// A backend failure keeps the draft intact so the user can retry.
func (f *Form) Submit(ctx context.Context) (*SubmitResult, error) {
	f.mu.Lock()
	if f.state != StateEditing {
		f.mu.Unlock()
		return nil, ErrSubmitInProgress
	}
	f.state = StateValidating
	f.mu.Unlock()

	if err := f.Validate(); err != nil {
		f.MarkAllTouched()
		f.setState(StateEditing)
		f.log.Debug().Err(err).Msg("form validation failed")
		f.presenter.Failure(TitleError, MessageIncomplete)
		return nil, err
	}

	f.backfillDomains()
	req := f.Request()

	f.log.Debug().
		Str("company", req.CompanyName).
		Str("job_title", req.JobTitle).
		Str("status", string(req.Status)).
		Int("emails", len(req.Contacts.Emails)).
		Int("follow_ups", len(req.FollowUpDates)).
		Msg("sending application")

	f.setState(StateSubmitting)
	app, err := f.creator.Create(ctx, req)
	f.setState(StateEditing)

	if err != nil {
		f.log.Error().Err(err).Msg("create application failed")
		f.presenter.Failure(TitleServerError, MessageServerError)
		return nil, fmt.Errorf("%w: %w", ErrServer, err)
	}

	f.log.Info().
		Str("id", app.ID.String()).
		Str("company", app.CompanyName).
		Msg("application created")

	result := &SubmitResult{Application: app}
	result.Choice = f.presenter.Success(TitleSuccess, MessageSuccess)

	switch result.Choice {
	case ChoiceNew:
		f.Reset()
	case ChoiceList:
		if f.navigator != nil {
			if err := f.navigator.ShowListing(ctx); err != nil {
				return result, fmt.Errorf("show listing: %w", err)
			}
		}
	}

	return result, nil
}

// Reset returns the form to a pristine draft.
func (f *Form) Reset() {
	today := f.today()

	f.country = f.catalog.DefaultCountry
	f.companyName = ""
	f.jobTitle = ""
	f.jobLink = ""
	f.publicationDate = nil
	f.applicationDate = &today
	f.status = ""
	f.contacts.Reset()
	f.followUps.Reset(today)
	f.sentFiles = nil
	f.touched = make(map[FieldName]bool)
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
