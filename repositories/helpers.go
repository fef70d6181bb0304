package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/tournament-admin/db"
	"github.com/lib/pq"
)

// SQLExecutor lets every repository method run either on the pool or inside a transaction.
type SQLExecutor = db.Executor

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

func checkAffectedRows(result sql.Result, notFoundError error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return notFoundError
	}
	return nil
}

func asPQError(err error) (*pq.Error, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr, true
	}
	return nil, false
}
