package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	DatabaseURL        string
	StatementTimeout   time.Duration
	DBMaxOpenConns     int
	DBMaxIdleConns     int
	DBConnMaxLifetime  time.Duration
	DBPingTimeout      time.Duration
	JWTSecretKey       string
	ServerPort         int
	StaffUsername      string
	StaffPasswordHash  string
	SessionTTL         time.Duration
	CORSAllowedOrigins []string
	SecureCookie       bool

	NATSURL    string
	NATSStream string

	R2 R2Config
}

type R2Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	PublicBaseURL   string
}

// Enabled reports whether any R2 setting is present; Load rejects partial configs.
func (c R2Config) Enabled() bool {
	return c.AccountID != "" || c.AccessKeyID != "" || c.SecretAccessKey != "" || c.BucketName != "" || c.PublicBaseURL != ""
}

func (c R2Config) complete() bool {
	return c.AccountID != "" && c.AccessKeyID != "" && c.SecretAccessKey != "" && c.BucketName != "" && c.PublicBaseURL != ""
}

// Load загружает конфигурацию из переменных окружения.
// Опционально подгружает .env файл (полезно для локальной разработки).
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("STAFF_USERNAME", "admin")
	v.SetDefault("SESSION_TTL", "12h")
	v.SetDefault("DB_STATEMENT_TIMEOUT", "5s")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 25)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "5m")
	v.SetDefault("DB_PING_TIMEOUT", "5s")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("NATS_STREAM", "TOURNAMENT_EVENTS")
	v.SetDefault("COOKIE_SECURE", false)

	cfg := &Config{
		DatabaseURL:       v.GetString("DATABASE_URL"),
		JWTSecretKey:      v.GetString("JWT_SECRET_KEY"),
		StaffUsername:     v.GetString("STAFF_USERNAME"),
		StaffPasswordHash: v.GetString("STAFF_PASSWORD_HASH"),
		SecureCookie:      v.GetBool("COOKIE_SECURE"),
		NATSURL:           v.GetString("NATS_URL"),
		NATSStream:        v.GetString("NATS_STREAM"),
		R2: R2Config{
			AccountID:       v.GetString("R2_ACCOUNT_ID"),
			AccessKeyID:     v.GetString("R2_ACCESS_KEY_ID"),
			SecretAccessKey: v.GetString("R2_SECRET_ACCESS_KEY"),
			BucketName:      v.GetString("R2_BUCKET_NAME"),
			PublicBaseURL:   v.GetString("R2_PUBLIC_BASE_URL"),
		},
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL environment variable is not set")
	}
	if cfg.JWTSecretKey == "" {
		return nil, errors.New("JWT_SECRET_KEY environment variable is not set")
	}
	if cfg.StaffPasswordHash == "" {
		return nil, errors.New("STAFF_PASSWORD_HASH environment variable is not set")
	}

	port, err := parsePort(v.GetString("SERVER_PORT"))
	if err != nil {
		return nil, err
	}
	cfg.ServerPort = port

	if cfg.SessionTTL, err = time.ParseDuration(v.GetString("SESSION_TTL")); err != nil || cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("invalid SESSION_TTL %q", v.GetString("SESSION_TTL"))
	}
	if cfg.StatementTimeout, err = time.ParseDuration(v.GetString("DB_STATEMENT_TIMEOUT")); err != nil || cfg.StatementTimeout <= 0 {
		return nil, fmt.Errorf("invalid DB_STATEMENT_TIMEOUT %q", v.GetString("DB_STATEMENT_TIMEOUT"))
	}

	if cfg.DBMaxOpenConns = v.GetInt("DB_MAX_OPEN_CONNS"); cfg.DBMaxOpenConns < 1 {
		return nil, fmt.Errorf("DB_MAX_OPEN_CONNS must be positive, got %d", cfg.DBMaxOpenConns)
	}
	if cfg.DBMaxIdleConns = v.GetInt("DB_MAX_IDLE_CONNS"); cfg.DBMaxIdleConns < 0 {
		return nil, fmt.Errorf("DB_MAX_IDLE_CONNS must not be negative, got %d", cfg.DBMaxIdleConns)
	}
	if cfg.DBConnMaxLifetime, err = time.ParseDuration(v.GetString("DB_CONN_MAX_LIFETIME")); err != nil || cfg.DBConnMaxLifetime < 0 {
		return nil, fmt.Errorf("invalid DB_CONN_MAX_LIFETIME %q", v.GetString("DB_CONN_MAX_LIFETIME"))
	}
	if cfg.DBPingTimeout, err = time.ParseDuration(v.GetString("DB_PING_TIMEOUT")); err != nil || cfg.DBPingTimeout <= 0 {
		return nil, fmt.Errorf("invalid DB_PING_TIMEOUT %q", v.GetString("DB_PING_TIMEOUT"))
	}

	for _, origin := range strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	if cfg.R2.Enabled() && !cfg.R2.complete() {
		return nil, errors.New("invalid Cloudflare R2 configuration: set all R2_* variables or none")
	}

	return cfg, nil
}

func parsePort(raw string) (int, error) {
	var port int
	if _, err := fmt.Sscanf(raw, "%d", &port); err != nil {
		return 0, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return 0, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}
	return port, nil
}
