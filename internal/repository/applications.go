package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/blockedby/application-tracker/internal/logger"
	"github.com/blockedby/application-tracker/internal/models"
)

// ApplicationsRepository stores applications in postgres through pgx.
// Contact lists, follow-up dates and sent files live in array columns.
type ApplicationsRepository struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

// NewApplicationsRepository creates a new applications repository
func NewApplicationsRepository(pool *pgxpool.Pool, log *logger.Logger) *ApplicationsRepository {
	return &ApplicationsRepository{
		pool: pool,
		log:  log,
	}
}

const applicationColumns = `
	id, country, company_name, job_title, job_link,
	publication_date, application_date, status,
	contact_names, contact_emails, contact_domains, contact_phones,
	follow_up_dates, sent_files, created_at, updated_at`

// Create inserts app. A nil ID is generated; timestamps come from the database.
func (r *ApplicationsRepository) Create(ctx context.Context, app *models.Application) error {
	if app.ID == uuid.Nil {
		app.ID = uuid.New()
	}
	app.Contacts = app.Contacts.Normalize()

	err := r.pool.QueryRow(ctx, `
		INSERT INTO applications (
			id, country, company_name, job_title, job_link,
			publication_date, application_date, status,
			contact_names, contact_emails, contact_domains, contact_phones,
			follow_up_dates, sent_files
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING created_at, updated_at
	`, app.ID, app.Country, app.CompanyName, app.JobTitle, app.JobLink,
		publicationTime(app.PublicationDate), app.ApplicationDate.Time(time.UTC), string(app.Status),
		app.Contacts.Names, app.Contacts.Emails, app.Contacts.Domains, app.Contacts.Phones,
		models.DatesToTimes(app.FollowUpDates), nonNil(app.SentFiles),
	).Scan(&app.CreatedAt, &app.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create application: %w", err)
	}

	r.log.Info().
		Str("id", app.ID.String()).
		Str("company", app.CompanyName).
		Str("status", string(app.Status)).
		Msg("created application")

	return nil
}

// GetByID returns a single application by ID, or nil when it does not exist.
func (r *ApplicationsRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id)

	app, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get application by id: %w", err)
	}
	return app, nil
}

// List returns every application, latest application date first.
func (r *ApplicationsRepository) List(ctx context.Context) ([]models.Application, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+applicationColumns+`
		FROM applications
		ORDER BY application_date DESC, created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	defer rows.Close()

	apps := []models.Application{}
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("scan application: %w", err)
		}
		apps = append(apps, *app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate applications: %w", err)
	}

	return apps, nil
}

// Update overwrites every mutable column of app.
func (r *ApplicationsRepository) Update(ctx context.Context, app *models.Application) error {
	app.Contacts = app.Contacts.Normalize()

	err := r.pool.QueryRow(ctx, `
		UPDATE applications SET
			country = $2, company_name = $3, job_title = $4, job_link = $5,
			publication_date = $6, application_date = $7, status = $8,
			contact_names = $9, contact_emails = $10, contact_domains = $11, contact_phones = $12,
			follow_up_dates = $13, sent_files = $14,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`, app.ID, app.Country, app.CompanyName, app.JobTitle, app.JobLink,
		publicationTime(app.PublicationDate), app.ApplicationDate.Time(time.UTC), string(app.Status),
		app.Contacts.Names, app.Contacts.Emails, app.Contacts.Domains, app.Contacts.Phones,
		models.DatesToTimes(app.FollowUpDates), nonNil(app.SentFiles),
	).Scan(&app.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("update application %s: %w", app.ID, ErrNotFound)
		}
		return fmt.Errorf("update application: %w", err)
	}

	r.log.Debug().Str("id", app.ID.String()).Msg("updated application")
	return nil
}

// Delete removes an application and reports whether a row existed.
func (r *ApplicationsRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM applications WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete application: %w", err)
	}

	deleted := tag.RowsAffected() > 0
	if deleted {
		r.log.Info().Str("id", id.String()).Msg("deleted application")
	}
	return deleted, nil
}

// Stats counts applications per status and those awaiting a reply with a
// follow-up due on or before today.
func (r *ApplicationsRepository) Stats(ctx context.Context, today models.Date) (*models.ApplicationStats, error) {
	awaiting := make([]string, 0, 2)
	for _, s := range models.AwaitingStatuses() {
		awaiting = append(awaiting, string(s))
	}

	rows, err := r.pool.Query(ctx, `
		SELECT
			status,
			COUNT(*) as total,
			COUNT(CASE WHEN status = ANY($2) AND EXISTS (
				SELECT 1 FROM unnest(follow_up_dates) AS d WHERE d <= $1
			) THEN 1 END) as due
		FROM applications
		GROUP BY status
	`, today.Time(time.UTC), awaiting)
	if err != nil {
		return nil, fmt.Errorf("get application stats: %w", err)
	}
	defer rows.Close()

	stats := models.NewApplicationStats()
	for rows.Next() {
		var status string
		var total, due int
		if err := rows.Scan(&status, &total, &due); err != nil {
			return nil, fmt.Errorf("scan application stats: %w", err)
		}
		stats.ByStatus[models.Status(status)] = total
		stats.Total += total
		stats.FollowUpsDue += due
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate application stats: %w", err)
	}

	return stats, nil
}

func scanApplication(row pgx.Row) (*models.Application, error) {
	var app models.Application
	var status string
	var pubDate *time.Time
	var appDate time.Time
	var followUps []time.Time

	err := row.Scan(
		&app.ID, &app.Country, &app.CompanyName, &app.JobTitle, &app.JobLink,
		&pubDate, &appDate, &status,
		&app.Contacts.Names, &app.Contacts.Emails, &app.Contacts.Domains, &app.Contacts.Phones,
		&followUps, &app.SentFiles, &app.CreatedAt, &app.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	app.Status = models.Status(status)
	app.ApplicationDate = models.DateOf(appDate)
	if pubDate != nil {
		d := models.DateOf(*pubDate)
		app.PublicationDate = &d
	}
	app.FollowUpDates = models.TimesToDates(followUps)
	app.Contacts = app.Contacts.Normalize()
	app.SentFiles = nonNil(app.SentFiles)

	return &app, nil
}

func publicationTime(d *models.Date) *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time(time.UTC)
	return &t
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
