package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/tournaments?sslmode=disable")
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("STAFF_PASSWORD_HASH", "$2a$10$abcdefghijklmnopqrstuv")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "admin", cfg.StaffUsername)
	assert.Equal(t, 12*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 5*time.Second, cfg.StatementTimeout)
	assert.Equal(t, 25, cfg.DBMaxOpenConns)
	assert.Equal(t, 25, cfg.DBMaxIdleConns)
	assert.Equal(t, 5*time.Minute, cfg.DBConnMaxLifetime)
	assert.Equal(t, 5*time.Second, cfg.DBPingTimeout)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "TOURNAMENT_EVENTS", cfg.NATSStream)
	assert.False(t, cfg.R2.Enabled())
}

func TestLoadMissingRequired(t *testing.T) {
	for _, key := range []string{"DATABASE_URL", "JWT_SECRET_KEY", "STAFF_PASSWORD_HASH"} {
		t.Run(key, func(t *testing.T) {
			setRequired(t)
			t.Setenv(key, "")

			_, err := Load()
			assert.ErrorContains(t, err, key)
		})
	}
}

func TestLoadRejectsBadPort(t *testing.T) {
	setRequired(t)
	t.Setenv("SERVER_PORT", "70000")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsPartialR2(t *testing.T) {
	setRequired(t)
	t.Setenv("R2_BUCKET_NAME", "logos")

	_, err := Load()
	assert.ErrorContains(t, err, "R2")
}

func TestLoadSplitsOrigins(t *testing.T) {
	setRequired(t)
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://admin.example.com, https://example.com,")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://admin.example.com", "https://example.com"}, cfg.CORSAllowedOrigins)
}

func TestLoadPoolSettings(t *testing.T) {
	setRequired(t)
	t.Setenv("DB_MAX_OPEN_CONNS", "8")
	t.Setenv("DB_MAX_IDLE_CONNS", "2")
	t.Setenv("DB_CONN_MAX_LIFETIME", "90s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.DBMaxOpenConns)
	assert.Equal(t, 2, cfg.DBMaxIdleConns)
	assert.Equal(t, 90*time.Second, cfg.DBConnMaxLifetime)

	t.Setenv("DB_MAX_OPEN_CONNS", "0")
	_, err = Load()
	assert.ErrorContains(t, err, "DB_MAX_OPEN_CONNS")
}
