package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/blockedby/application-tracker/internal/logger"
	"github.com/blockedby/application-tracker/internal/models"
)

// applicationRecord is the GORM row. Dates are kept as YYYY-MM-DD text so the
// same schema works on sqlite and postgres; lists are JSON documents.
type applicationRecord struct {
	ID              string          `gorm:"primaryKey;size:36"`
	Country         string          `gorm:"size:2;not null;default:''"`
	CompanyName     string          `gorm:"not null"`
	JobTitle        string          `gorm:"not null"`
	JobLink         string          `gorm:"not null;default:''"`
	PublicationDate *string         `gorm:"size:10"`
	ApplicationDate string          `gorm:"size:10;not null;index:idx_applications_listing,priority:1"`
	Status          string          `gorm:"size:32;not null;index"`
	Contacts        models.Contacts `gorm:"serializer:json"`
	FollowUpDates   []models.Date   `gorm:"serializer:json"`
	SentFiles       []string        `gorm:"serializer:json"`
	CreatedAt       time.Time       `gorm:"not null;index:idx_applications_listing,priority:2"`
	UpdatedAt       time.Time       `gorm:"not null"`
}

func (applicationRecord) TableName() string {
	return "applications"
}

// GormApplicationsRepository stores applications through GORM.
type GormApplicationsRepository struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewGormApplicationsRepository creates a GORM-backed repository.
func NewGormApplicationsRepository(db *gorm.DB, log *logger.Logger) *GormApplicationsRepository {
	return &GormApplicationsRepository{db: db, log: log}
}

// Migrate creates or updates the applications table.
func (r *GormApplicationsRepository) Migrate(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&applicationRecord{}); err != nil {
		return fmt.Errorf("auto migrate applications: %w", err)
	}
	return nil
}

// Create inserts app.
func (r *GormApplicationsRepository) Create(ctx context.Context, app *models.Application) error {
	if app.ID == uuid.Nil {
		app.ID = uuid.New()
	}

	rec := toRecord(app)
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("create application: %w", err)
	}
	app.CreatedAt = rec.CreatedAt
	app.UpdatedAt = rec.UpdatedAt

	r.log.Info().
		Str("id", app.ID.String()).
		Str("company", app.CompanyName).
		Str("status", string(app.Status)).
		Msg("created application")

	return nil
}

// GetByID returns a single application by ID, or nil when it does not exist.
func (r *GormApplicationsRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	var rec applicationRecord
	err := r.db.WithContext(ctx).First(&rec, "id = ?", id.String()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get application by id: %w", err)
	}
	return rec.toModel()
}

// List returns every application, latest application date first.
func (r *GormApplicationsRepository) List(ctx context.Context) ([]models.Application, error) {
	var recs []applicationRecord
	err := r.db.WithContext(ctx).
		Order("application_date DESC").
		Order("created_at DESC").
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}

	apps := make([]models.Application, 0, len(recs))
	for _, rec := range recs {
		app, err := rec.toModel()
		if err != nil {
			return nil, err
		}
		apps = append(apps, *app)
	}
	return apps, nil
}

// Update overwrites every mutable column of app.
func (r *GormApplicationsRepository) Update(ctx context.Context, app *models.Application) error {
	rec := toRecord(app)
	res := r.db.WithContext(ctx).
		Model(&rec).
		Select("*").
		Omit("id", "created_at").
		Updates(&rec)
	if res.Error != nil {
		return fmt.Errorf("update application: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("update application %s: %w", app.ID, ErrNotFound)
	}
	app.UpdatedAt = rec.UpdatedAt

	r.log.Debug().Str("id", app.ID.String()).Msg("updated application")
	return nil
}

// Delete removes an application and reports whether a row existed.
func (r *GormApplicationsRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&applicationRecord{}, "id = ?", id.String())
	if res.Error != nil {
		return false, fmt.Errorf("delete application: %w", res.Error)
	}

	deleted := res.RowsAffected > 0
	if deleted {
		r.log.Info().Str("id", id.String()).Msg("deleted application")
	}
	return deleted, nil
}

// Stats counts applications per status and those awaiting a reply with a
// follow-up due on or before today. Follow-up dates are JSON, so the due count
// is computed in Go.
func (r *GormApplicationsRepository) Stats(ctx context.Context, today models.Date) (*models.ApplicationStats, error) {
	var groups []struct {
		Status string
		Total  int
	}
	err := r.db.WithContext(ctx).
		Model(&applicationRecord{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&groups).Error
	if err != nil {
		return nil, fmt.Errorf("get application stats: %w", err)
	}

	stats := models.NewApplicationStats()
	for _, g := range groups {
		stats.ByStatus[models.Status(g.Status)] = g.Total
		stats.Total += g.Total
	}

	statuses := make([]string, 0, 2)
	for _, s := range models.AwaitingStatuses() {
		statuses = append(statuses, string(s))
	}

	var awaiting []applicationRecord
	err = r.db.WithContext(ctx).
		Select("id", "follow_up_dates").
		Where("status IN ?", statuses).
		Find(&awaiting).Error
	if err != nil {
		return nil, fmt.Errorf("get awaiting applications: %w", err)
	}
	for _, rec := range awaiting {
		if models.FollowUpDue(rec.FollowUpDates, today) {
			stats.FollowUpsDue++
		}
	}

	return stats, nil
}

func toRecord(app *models.Application) applicationRecord {
	rec := applicationRecord{
		ID:              app.ID.String(),
		Country:         app.Country,
		CompanyName:     app.CompanyName,
		JobTitle:        app.JobTitle,
		JobLink:         app.JobLink,
		ApplicationDate: app.ApplicationDate.String(),
		Status:          string(app.Status),
		Contacts:        app.Contacts.Normalize(),
		FollowUpDates:   append([]models.Date{}, app.FollowUpDates...),
		SentFiles:       nonNil(app.SentFiles),
		CreatedAt:       app.CreatedAt,
		UpdatedAt:       app.UpdatedAt,
	}
	if app.PublicationDate != nil {
		s := app.PublicationDate.String()
		rec.PublicationDate = &s
	}
	return rec
}

func (rec applicationRecord) toModel() (*models.Application, error) {
	id, err := uuid.Parse(rec.ID)
	if err != nil {
		return nil, fmt.Errorf("parse application id %q: %w", rec.ID, err)
	}
	appDate, err := models.ParseDate(rec.ApplicationDate)
	if err != nil {
		return nil, fmt.Errorf("parse application date: %w", err)
	}

	app := &models.Application{
		ID: id,
		ApplicationRequest: models.ApplicationRequest{
			Country:         rec.Country,
			CompanyName:     rec.CompanyName,
			JobTitle:        rec.JobTitle,
			JobLink:         rec.JobLink,
			ApplicationDate: appDate,
			Status:          models.Status(rec.Status),
			Contacts:        rec.Contacts.Normalize(),
			FollowUpDates:   append([]models.Date{}, rec.FollowUpDates...),
			SentFiles:       nonNil(rec.SentFiles),
		},
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
	if rec.PublicationDate != nil {
		d, err := models.ParseDate(*rec.PublicationDate)
		if err != nil {
			return nil, fmt.Errorf("parse publication date: %w", err)
		}
		app.PublicationDate = &d
	}
	return app, nil
}
