package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/blockedby/application-tracker/internal/catalog"
	"github.com/blockedby/application-tracker/internal/config"
	"github.com/blockedby/application-tracker/internal/database"
	"github.com/blockedby/application-tracker/internal/logger"
	"github.com/blockedby/application-tracker/internal/migrator"
	"github.com/blockedby/application-tracker/internal/nats"
	"github.com/blockedby/application-tracker/internal/publisher"
	"github.com/blockedby/application-tracker/internal/repository"
	"github.com/blockedby/application-tracker/internal/tracker"
	"github.com/blockedby/application-tracker/internal/web"
	"github.com/blockedby/application-tracker/internal/web/handlers"
	"github.com/blockedby/application-tracker/migrations"
)

var version = "dev"

func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// 2. Initialize logger
	if err := logger.Init(cfg.LogLevel, cfg.LogFile); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	log := logger.Get()
	log.Info().Str("version", version).Msg("starting application tracker api")

	// 3. Setup context with graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// 4. Open storage
	db, repo, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DatabaseDriver).Msg("failed to open storage")
	}
	defer db.Close()

	// 5. Connect to NATS
	var opts []tracker.Option
	if cfg.NatsURL != "" {
		nc, err := nats.New(ctx, cfg.NatsURL)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to nats, publishing disabled")
		} else {
			defer nc.Close()
			if err := nc.EnsureApplicationsStream(ctx); err != nil {
				log.Warn().Err(err).Msg("failed to ensure applications stream")
			}
			opts = append(opts, tracker.WithPublisher(publisher.NewNATSPublisher(nc)))
		}
	}

	// 6. WebSocket hub
	hub := web.NewHub()
	go hub.Run()
	defer hub.Stop()
	opts = append(opts, tracker.WithBroadcaster(hub))

	// 7. Reference data
	cat, err := catalog.Load(cfg.CatalogFile)
	if err != nil {
		log.Fatal().Err(err).Str("file", cfg.CatalogFile).Msg("failed to load catalog")
	}

	// 8. Service and handlers
	svc := tracker.NewService(repo, log.Component("tracker"), opts...)

	server := web.NewServer(&web.Config{
		Port:           cfg.HTTPPort,
		StaticDir:      cfg.StaticDir,
		AllowedOrigins: cfg.AllowedOrigins,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		Version:        version,
	}, hub)
	server.RegisterApplicationsHandler(handlers.NewApplicationsHandler(svc))
	server.RegisterCatalogHandler(handlers.NewCatalogHandler(cat))
	server.SetupSPAFallback()

	// 9. Start server
	log.Info().Int("port", cfg.HTTPPort).Msg("starting web server")
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server error")
			cancel()
		}
	}()

	// 10. Wait for shutdown
	<-ctx.Done()
	log.Info().Msg("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	log.Info().Msg("shutdown complete")
}

// openStore picks the repository for the configured driver. Raw pgx runs the
// embedded SQL migrations; GORM stores create their table with AutoMigrate.
func openStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (*database.DB, tracker.Repository, error) {
	repoLog := log.Component("repository")

	if cfg.DatabaseDriver == config.DriverSQLite {
		db, err := database.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		repo := repository.NewGormApplicationsRepository(db.GORM, repoLog)
		if err := repo.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		log.Info().Str("path", cfg.SQLitePath).Msg("using sqlite storage")
		return db, repo, nil
	}

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}

	if cfg.DatabaseORM {
		repo := repository.NewGormApplicationsRepository(db.GORM, repoLog)
		if err := repo.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		log.Info().Msg("using postgres storage via gorm")
		return db, repo, nil
	}

	m, err := migrator.NewWithFS(migrations.FS)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	if err := m.WithLogger(log.Component("migrator")).Up(ctx, cfg.DatabaseURL); err != nil {
		db.Close()
		return nil, nil, err
	}
	log.Info().Msg("using postgres storage via pgx")
	return db, repository.NewApplicationsRepository(db.Pool, repoLog), nil
}
