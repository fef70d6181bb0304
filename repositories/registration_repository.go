package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dosada05/tournament-admin/models"
)

var ErrRegistrationConflict = errors.New("team is already registered for this tournament")

type RegistrationRepository interface {
	Create(ctx context.Context, exec SQLExecutor, reg *models.Registration) error
	Stats(ctx context.Context, exec SQLExecutor, tournamentID int) (count int, maxOrderIndex int, err error)
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]models.Registration, error)
	LockByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) error
	UpdateOrderIndex(ctx context.Context, exec SQLExecutor, tournamentID, registrationID, orderIndex int) (bool, error)
}

type postgresRegistrationRepository struct {
	db SQLExecutor
}

func NewPostgresRegistrationRepository(db SQLExecutor) RegistrationRepository {
	return &postgresRegistrationRepository{db: db}
}

func (r *postgresRegistrationRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresRegistrationRepository) Create(ctx context.Context, exec SQLExecutor, reg *models.Registration) error {
	query := `
		INSERT INTO registrations (tournament_id, team_name, order_index)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.getExecutor(exec).QueryRowContext(ctx, query, reg.TournamentID, reg.TeamName, reg.OrderIndex).
		Scan(&reg.ID, &reg.CreatedAt)
	if err != nil {
		if pqErr, ok := asPQError(err); ok {
			switch pqErr.Code {
			case pqUniqueViolation:
				return ErrRegistrationConflict
			case pqForeignKeyViolation:
				return ErrTournamentNotFound
			}
		}
		return fmt.Errorf("failed to insert registration: %w", err)
	}
	return nil
}

func (r *postgresRegistrationRepository) Stats(ctx context.Context, exec SQLExecutor, tournamentID int) (int, int, error) {
	var count, maxOrderIndex int
	err := r.getExecutor(exec).QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(MAX(order_index), 0) FROM registrations WHERE tournament_id = $1`,
		tournamentID,
	).Scan(&count, &maxOrderIndex)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read registration stats for tournament %d: %w", tournamentID, err)
	}
	return count, maxOrderIndex, nil
}

func (r *postgresRegistrationRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]models.Registration, error) {
	query := `
		SELECT id, tournament_id, team_name, order_index, created_at
		FROM registrations
		WHERE tournament_id = $1
		ORDER BY order_index ASC, id ASC`

	rows, err := r.getExecutor(exec).QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query registrations for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	registrations := make([]models.Registration, 0)
	for rows.Next() {
		var reg models.Registration
		if err := rows.Scan(&reg.ID, &reg.TournamentID, &reg.TeamName, &reg.OrderIndex, &reg.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan registration: %w", err)
		}
		registrations = append(registrations, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during registration rows iteration: %w", err)
	}
	return registrations, nil
}

// LockByTournament takes row locks on every registration of the tournament so that
// concurrent reorders serialize instead of interleaving.
func (r *postgresRegistrationRepository) LockByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) error {
	rows, err := r.getExecutor(exec).QueryContext(ctx,
		`SELECT id FROM registrations WHERE tournament_id = $1 ORDER BY id FOR UPDATE`, tournamentID)
	if err != nil {
		return fmt.Errorf("failed to lock registrations for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()
	for rows.Next() {
	}
	return rows.Err()
}

// UpdateOrderIndex reports false when the id does not belong to the tournament.
func (r *postgresRegistrationRepository) UpdateOrderIndex(ctx context.Context, exec SQLExecutor, tournamentID, registrationID, orderIndex int) (bool, error) {
	result, err := r.getExecutor(exec).ExecContext(ctx,
		`UPDATE registrations SET order_index = $1 WHERE id = $2 AND tournament_id = $3`,
		orderIndex, registrationID, tournamentID)
	if err != nil {
		return false, fmt.Errorf("failed to update order of registration %d: %w", registrationID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check affected rows: %w", err)
	}
	return affected > 0, nil
}
