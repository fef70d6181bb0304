package db

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/tournament-admin/metrics"
)

//go:embed schema.sql
var schema string

// Executor is satisfied by both *sql.DB and *sql.Tx.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Gateway is the single entry point to the connection pool. It is safe for concurrent use.
type Gateway struct {
	*sql.DB
	statementTimeout time.Duration
}

func NewGateway(db *sql.DB, statementTimeout time.Duration) *Gateway {
	return &Gateway{DB: db, statementTimeout: statementTimeout}
}

func (g *Gateway) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if g.statementTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, g.statementTimeout)
}

// ExecContext runs a statement outside a transaction, bounded by the statement timeout.
func (g *Gateway) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	ctx, cancel := g.withTimeout(ctx)
	defer cancel()
	return g.DB.ExecContext(ctx, query, args...)
}

// QueryContext bounds the query and the iteration of its rows by the statement timeout.
func (g *Gateway) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	ctx, cancel := g.withTimeout(ctx)
	rows, err := g.DB.QueryContext(ctx, query, args...)
	if err != nil {
		cancel()
		return nil, err
	}
	g.releaseAtDeadline(cancel)
	return rows, nil
}

func (g *Gateway) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	ctx, cancel := g.withTimeout(ctx)
	g.releaseAtDeadline(cancel)
	return g.DB.QueryRowContext(ctx, query, args...)
}

// releaseAtDeadline frees a query context once its deadline passes. Rows are read after
// the call returns, so the context cannot be cancelled on return.
func (g *Gateway) releaseAtDeadline(cancel context.CancelFunc) {
	if g.statementTimeout <= 0 {
		cancel()
		return
	}
	time.AfterFunc(g.statementTimeout, cancel)
}

// WithTransaction runs fn on a single connection inside a transaction. It commits when fn
// returns nil and rolls back on an error or panic; fn's error is returned unwrapped.
func (g *Gateway) WithTransaction(ctx context.Context, fn func(exec Executor) error) (txErr error) {
	ctx, cancel := g.withTimeout(ctx)
	defer cancel()

	startTime := time.Now()
	defer func() {
		outcome := "commit"
		if txErr != nil {
			outcome = "rollback"
		}
		metrics.RecordDBTransaction(outcome, startTime)
	}()

	tx, err := g.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return errors.Join(err, fmt.Errorf("rollback also failed: %w", rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// EnsureSchema applies the embedded schema. Every statement is idempotent.
func EnsureSchema(ctx context.Context, exec Executor) error {
	if _, err := exec.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
