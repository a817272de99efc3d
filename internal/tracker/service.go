// Package tracker holds the business rules of the applications backend.
package tracker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/blockedby/application-tracker/internal/catalog"
	"github.com/blockedby/application-tracker/internal/logger"
	"github.com/blockedby/application-tracker/internal/models"
	"github.com/google/uuid"
)

// Repository persists applications.
type Repository interface {
	Create(ctx context.Context, app *models.Application) error
	List(ctx context.Context) ([]models.Application, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Application, error)
	Update(ctx context.Context, app *models.Application) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	Stats(ctx context.Context, today models.Date) (*models.ApplicationStats, error)
}

// EventPublisher forwards application events to the message bus.
type EventPublisher interface {
	PublishApplicationEvent(ctx context.Context, event Event) error
}

// Broadcaster pushes application events to connected browsers.
type Broadcaster interface {
	BroadcastApplicationEvent(event Event)
}

// Service implements create, read, update and delete of applications.
type Service struct {
	repo        Repository
	publisher   EventPublisher
	broadcaster Broadcaster
	now         func() time.Time
	log         *logger.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithPublisher sets the message bus publisher.
func WithPublisher(p EventPublisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithBroadcaster sets the websocket broadcaster.
func WithBroadcaster(b Broadcaster) Option {
	return func(s *Service) { s.broadcaster = b }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a new applications service.
func NewService(repo Repository, log *logger.Logger, opts ...Option) *Service {
	if log == nil {
		log = logger.Get()
	}
	s := &Service{
		repo: repo,
		now:  time.Now,
		log:  log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates and stores a new application.
func (s *Service) Create(ctx context.Context, req *models.ApplicationRequest) (*models.Application, error) {
	if req == nil {
		return nil, invalid(MsgCountryRequired, MsgCompanyRequired, MsgJobTitleRequired, MsgStatusRequired, MsgAppDateRequired)
	}
	if err := validateCreate(req); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	app := &models.Application{
		ID:                 uuid.New(),
		ApplicationRequest: normalize(*req),
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.repo.Create(ctx, app); err != nil {
		return nil, fmt.Errorf("create application: %w", err)
	}

	s.log.Info().
		Str("id", app.ID.String()).
		Str("company", app.CompanyName).
		Str("status", string(app.Status)).
		Msg("application created")

	s.emit(ctx, EventCreated, app)
	return app, nil
}

// List returns every application, most recent application date first.
func (s *Service) List(ctx context.Context) ([]models.Application, error) {
	apps, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	if apps == nil {
		apps = []models.Application{}
	}
	return apps, nil
}

// Get returns one application or ErrNotFound.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	app, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get application: %w", err)
	}
	if app == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return app, nil
}

// Update applies a partial update. Blank country, company name, job title
// and status keep the stored values.
func (s *Service) Update(ctx context.Context, id uuid.UUID, patch *models.ApplicationPatch) (*models.Application, error) {
	app, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch == nil {
		return nil, invalid(MsgNilUpdate)
	}

	if err := apply(app, patch); err != nil {
		return nil, err
	}
	app.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, app); err != nil {
		return nil, fmt.Errorf("update application: %w", err)
	}

	s.log.Info().Str("id", id.String()).Msg("application updated")
	s.emit(ctx, EventUpdated, app)
	return app, nil
}

// Delete removes one application or returns ErrNotFound.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	app, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete application: %w", err)
	}
	if !deleted {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	s.log.Info().Str("id", id.String()).Msg("application deleted")
	s.emit(ctx, EventDeleted, app)
	return nil
}

// Stats summarizes stored applications as of today.
func (s *Service) Stats(ctx context.Context) (*models.ApplicationStats, error) {
	stats, err := s.repo.Stats(ctx, models.DateOf(s.now()))
	if err != nil {
		return nil, fmt.Errorf("application stats: %w", err)
	}
	return stats, nil
}

// emit notifies the bus and the browsers. Failures are logged only, the
// stored state is authoritative.
func (s *Service) emit(ctx context.Context, typ string, app *models.Application) {
	evt := NewEvent(typ, app, s.now().UTC())

	if s.publisher != nil {
		if err := s.publisher.PublishApplicationEvent(ctx, evt); err != nil {
			s.log.Warn().Err(err).Str("type", typ).Msg("failed to publish application event")
		}
	}
	if s.broadcaster != nil {
		s.broadcaster.BroadcastApplicationEvent(evt)
	}
}

func validateCreate(req *models.ApplicationRequest) error {
	var errs []string
	if msg := checkCountry(req.Country); msg != "" {
		errs = append(errs, msg)
	}
	if strings.TrimSpace(req.CompanyName) == "" {
		errs = append(errs, MsgCompanyRequired)
	}
	if strings.TrimSpace(req.JobTitle) == "" {
		errs = append(errs, MsgJobTitleRequired)
	}
	switch {
	case strings.TrimSpace(string(req.Status)) == "":
		errs = append(errs, MsgStatusRequired)
	case !req.Status.IsValid():
		errs = append(errs, MsgStatusInvalid)
	}
	if req.ApplicationDate.IsZero() {
		errs = append(errs, MsgAppDateRequired)
	}
	if len(errs) > 0 {
		return invalid(errs...)
	}

	if req.PublicationDate != nil && req.PublicationDate.After(req.ApplicationDate) {
		return invalid(MsgDateOrder)
	}
	return nil
}

// checkCountry returns the validation message for code, or "" when it is a
// known ISO 3166 alpha-2 code in any case.
func checkCountry(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	switch {
	case code == "":
		return MsgCountryRequired
	case !catalog.IsCountry(code):
		return MsgCountryInvalid
	}
	return ""
}

func apply(app *models.Application, p *models.ApplicationPatch) error {
	if p.CompanyName != nil && strings.TrimSpace(*p.CompanyName) != "" {
		app.CompanyName = strings.TrimSpace(*p.CompanyName)
	}
	if p.JobTitle != nil && strings.TrimSpace(*p.JobTitle) != "" {
		app.JobTitle = strings.TrimSpace(*p.JobTitle)
	}
	if p.JobLink != nil {
		app.JobLink = strings.TrimSpace(*p.JobLink)
	}
	if p.Country != nil && strings.TrimSpace(*p.Country) != "" {
		if msg := checkCountry(*p.Country); msg != "" {
			return invalid(msg)
		}
		app.Country = strings.ToUpper(strings.TrimSpace(*p.Country))
	}
	if p.PublicationDate != nil {
		d := *p.PublicationDate
		app.PublicationDate = &d
	}
	if p.ApplicationDate != nil {
		app.ApplicationDate = *p.ApplicationDate
	}
	if p.Status != nil && strings.TrimSpace(string(*p.Status)) != "" {
		if !p.Status.IsValid() {
			return invalid(MsgStatusInvalid)
		}
		app.Status = *p.Status
	}
	if p.Contacts != nil {
		app.Contacts = p.Contacts.Clone()
	}
	if p.FollowUpDates != nil {
		app.FollowUpDates = append([]models.Date{}, p.FollowUpDates...)
	}
	if p.SentFiles != nil {
		app.SentFiles = append([]string{}, p.SentFiles...)
	}

	if app.PublicationDate != nil && app.PublicationDate.After(app.ApplicationDate) {
		return invalid(MsgDateOrder)
	}
	return nil
}

func normalize(req models.ApplicationRequest) models.ApplicationRequest {
	req.Country = strings.ToUpper(strings.TrimSpace(req.Country))
	req.CompanyName = strings.TrimSpace(req.CompanyName)
	req.JobTitle = strings.TrimSpace(req.JobTitle)
	req.JobLink = strings.TrimSpace(req.JobLink)
	req.Contacts = req.Contacts.Clone()
	req.FollowUpDates = append([]models.Date{}, req.FollowUpDates...)
	req.SentFiles = append([]string{}, req.SentFiles...)
	return req
}
