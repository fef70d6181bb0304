package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // Import postgres driver
)

// PoolOptions sizes the connection pool shared by every repository and the gateway.
type PoolOptions struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	PingTimeout     time.Duration
}

// Connect opens the pool and pings it within opts.PingTimeout.
func Connect(dsn string, opts PoolOptions) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create database handle: %w", err)
	}
	applyPoolOptions(db, opts)

	if err := ping(db, opts.PingTimeout); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("%w (close also failed: %v)", err, closeErr)
		}
		return nil, err
	}
	return db, nil
}

func applyPoolOptions(db *sql.DB, opts PoolOptions) {
	db.SetMaxOpenConns(opts.MaxOpenConns)
	idle := opts.MaxIdleConns
	if opts.MaxOpenConns > 0 && idle > opts.MaxOpenConns {
		idle = opts.MaxOpenConns
	}
	db.SetMaxIdleConns(idle)
	db.SetConnMaxLifetime(opts.ConnMaxLifetime)
}

func ping(db *sql.DB, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database within %v: %w", timeout, err)
	}
	return nil
}
