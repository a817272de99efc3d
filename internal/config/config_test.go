package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var keys = []string{
	"DATABASE_DRIVER", "DATABASE_URL", "DATABASE_ORM", "SQLITE_PATH", "NATS_URL",
	"HTTP_PORT", "STATIC_DIR", "CORS_ALLOWED_ORIGINS", "RATE_LIMIT_RPS",
	"RATE_LIMIT_BURST", "CATALOG_FILE", "API_BASE_URL", "API_TIMEOUT_SECONDS",
	"LOG_LEVEL", "LOG_FILE",
}

// clearEnv blanks every key for the test; getEnv treats empty as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFiles()
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.DatabaseDriver)
	assert.Equal(t, "./data/tracker.db", cfg.SQLitePath)
	assert.False(t, cfg.DatabaseORM)
	assert.Empty(t, cfg.NatsURL)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
	assert.Equal(t, 20.0, cfg.RateLimitRPS)
	assert.Equal(t, 40, cfg.RateLimitBurst)
	assert.Equal(t, "http://localhost:8080", cfg.APIBaseURL)
	assert.Equal(t, 15*time.Second, cfg.APITimeout)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestConfig_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_DRIVER", "Postgres")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/apps")
	t.Setenv("DATABASE_ORM", "true")
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, ,http://b.test")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("API_TIMEOUT_SECONDS", "3")

	cfg, err := LoadFiles()
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.DatabaseDriver)
	assert.Equal(t, "postgres://u:p@db:5432/apps", cfg.DatabaseURL)
	assert.True(t, cfg.DatabaseORM)
	assert.Equal(t, 9000, cfg.HTTPPort)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
	assert.Equal(t, 2.5, cfg.RateLimitRPS)
	assert.Equal(t, 3*time.Second, cfg.APITimeout)
}

func TestConfig_InvalidNumbersFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_PORT", "not-a-port")
	t.Setenv("DATABASE_ORM", "maybe")

	cfg, err := LoadFiles()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.False(t, cfg.DatabaseORM)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"sqlite", Config{DatabaseDriver: DriverSQLite, SQLitePath: "x.db"}, false},
		{"postgres", Config{DatabaseDriver: DriverPostgres, DatabaseURL: "postgres://x"}, false},
		{"unknown driver", Config{DatabaseDriver: "mysql"}, true},
		{"sqlite without path", Config{DatabaseDriver: DriverSQLite}, true},
		{"postgres without url", Config{DatabaseDriver: DriverPostgres}, true},
		{"port out of range", Config{DatabaseDriver: DriverSQLite, SQLitePath: "x.db", HTTPPort: 70000}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_DotEnvFile(t *testing.T) {
	clearEnv(t)
	// godotenv does not override set variables, so unset the ones we load
	require.NoError(t, os.Unsetenv("HTTP_PORT"))
	require.NoError(t, os.Unsetenv("LOG_LEVEL"))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("HTTP_PORT=7070\nLOG_LEVEL=debug\n"), 0644))

	cfg, err := LoadFiles(path, filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = os.Unsetenv("HTTP_PORT")
		_ = os.Unsetenv("LOG_LEVEL")
	})

	assert.Equal(t, 7070, cfg.HTTPPort)
	assert.Equal(t, "debug", cfg.LogLevel)
}
