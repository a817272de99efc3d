// Package migrator applies the embedded SQL schema with golang-migrate.
package migrator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/blockedby/application-tracker/internal/logger"
)

var (
	ErrNilFS    = errors.New("migrations filesystem cannot be nil")
	ErrEmptyURL = errors.New("database URL cannot be empty")
)

// Migrator runs migrations from a filesystem of NNNNNN_name.{up,down}.sql files.
type Migrator struct {
	migrationsFS fs.FS
	log          *logger.Logger
}

// NewWithFS creates a Migrator reading migrationsFS.
func NewWithFS(migrationsFS fs.FS) (*Migrator, error) {
	if migrationsFS == nil {
		return nil, ErrNilFS
	}
	return &Migrator{
		migrationsFS: migrationsFS,
		log:          logger.Get(),
	}, nil
}

// WithLogger sets the logger and returns m.
func (m *Migrator) WithLogger(log *logger.Logger) *Migrator {
	m.log = log
	return m
}

// Up applies every pending migration. An up-to-date schema is not an error.
func (m *Migrator) Up(_ context.Context, databaseURL string) error {
	mig, err := m.open(databaseURL)
	if err != nil {
		return err
	}
	defer mig.Close()

	if err := mig.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			m.log.Debug().Msg("schema up to date")
			return nil
		}
		return fmt.Errorf("run migrations: %w", err)
	}

	if v, _, err := mig.Version(); err == nil {
		m.log.Info().Uint("version", v).Msg("migrations applied")
	}
	return nil
}

// Down rolls back every applied migration.
func (m *Migrator) Down(_ context.Context, databaseURL string) error {
	mig, err := m.open(databaseURL)
	if err != nil {
		return err
	}
	defer mig.Close()

	if err := mig.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("roll back migrations: %w", err)
	}
	return nil
}

// Version returns the current schema version and dirty flag; 0 when nothing
// was applied yet.
func (m *Migrator) Version(_ context.Context, databaseURL string) (version uint, dirty bool, err error) {
	mig, err := m.open(databaseURL)
	if err != nil {
		return 0, false, err
	}
	defer mig.Close()

	version, dirty, err = mig.Version()
	if err != nil {
		if errors.Is(err, migrate.ErrNilVersion) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("get version: %w", err)
	}
	return version, dirty, nil
}

func (m *Migrator) open(databaseURL string) (*migrate.Migrate, error) {
	if databaseURL == "" {
		return nil, ErrEmptyURL
	}

	src, err := iofs.New(m.migrationsFS, ".")
	if err != nil {
		return nil, fmt.Errorf("create iofs source: %w", err)
	}

	mig, err := migrate.NewWithSourceInstance("iofs", src, convertToPgx5URL(databaseURL))
	if err != nil {
		return nil, fmt.Errorf("create migrator: %w", err)
	}
	return mig, nil
}

// convertToPgx5URL rewrites postgres URLs to the scheme registered by the
// golang-migrate pgx/v5 driver.
func convertToPgx5URL(databaseURL string) string {
	for _, scheme := range []string{"postgresql://", "postgres://"} {
		if rest, ok := strings.CutPrefix(databaseURL, scheme); ok {
			return "pgx5://" + rest
		}
	}
	return databaseURL
}
