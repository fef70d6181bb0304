package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dosada05/tournament-admin/models"
	"github.com/lib/pq"
)

var ErrGroupAssignmentConflict = errors.New("registration is already assigned to a group")

// GroupMember is a registration together with the group it is assigned to.
type GroupMember struct {
	GroupID int
	models.Registration
}

type GroupRepository interface {
	Create(ctx context.Context, exec SQLExecutor, group *models.Group) error
	AssignRegistrations(ctx context.Context, exec SQLExecutor, groupID int, registrationIDs []int) error
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]models.Group, error)
	ListMembersByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]GroupMember, error)
	DeleteAssignmentsByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) (int64, error)
	DeleteByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) (int64, error)
}

type postgresGroupRepository struct {
	db SQLExecutor
}

func NewPostgresGroupRepository(db SQLExecutor) GroupRepository {
	return &postgresGroupRepository{db: db}
}

func (r *postgresGroupRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresGroupRepository) Create(ctx context.Context, exec SQLExecutor, g *models.Group) error {
	query := `
		INSERT INTO groups (tournament_id, label, color)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.getExecutor(exec).QueryRowContext(ctx, query, g.TournamentID, g.Label, g.Color).Scan(&g.ID, &g.CreatedAt)
	if err != nil {
		if pqErr, ok := asPQError(err); ok && pqErr.Code == pqForeignKeyViolation {
			return ErrTournamentNotFound
		}
		return fmt.Errorf("failed to insert group %s: %w", g.Label, err)
	}
	return nil
}

func (r *postgresGroupRepository) AssignRegistrations(ctx context.Context, exec SQLExecutor, groupID int, registrationIDs []int) error {
	if len(registrationIDs) == 0 {
		return nil
	}
	query := `
		INSERT INTO group_assignments (group_id, registration_id)
		SELECT $1, unnest($2::int[])`

	ids := make([]int64, len(registrationIDs))
	for i, id := range registrationIDs {
		ids[i] = int64(id)
	}

	if _, err := r.getExecutor(exec).ExecContext(ctx, query, groupID, pq.Array(ids)); err != nil {
		if pqErr, ok := asPQError(err); ok && pqErr.Code == pqUniqueViolation {
			return ErrGroupAssignmentConflict
		}
		return fmt.Errorf("failed to assign registrations to group %d: %w", groupID, err)
	}
	return nil
}

func (r *postgresGroupRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]models.Group, error) {
	query := `
		SELECT id, tournament_id, label, color, created_at
		FROM groups
		WHERE tournament_id = $1
		ORDER BY id ASC`

	rows, err := r.getExecutor(exec).QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query groups for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	groups := make([]models.Group, 0)
	for rows.Next() {
		var g models.Group
		if err := rows.Scan(&g.ID, &g.TournamentID, &g.Label, &g.Color, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during group rows iteration: %w", err)
	}
	return groups, nil
}

func (r *postgresGroupRepository) ListMembersByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]GroupMember, error) {
	query := `
		SELECT ga.group_id, reg.id, reg.tournament_id, reg.team_name, reg.order_index, reg.created_at
		FROM group_assignments ga
		JOIN groups g ON g.id = ga.group_id
		JOIN registrations reg ON reg.id = ga.registration_id
		WHERE g.tournament_id = $1
		ORDER BY ga.group_id ASC, reg.order_index ASC, reg.id ASC`

	rows, err := r.getExecutor(exec).QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query group members for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	members := make([]GroupMember, 0)
	for rows.Next() {
		var m GroupMember
		if err := rows.Scan(&m.GroupID, &m.ID, &m.TournamentID, &m.TeamName, &m.OrderIndex, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan group member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during group member rows iteration: %w", err)
	}
	return members, nil
}

func (r *postgresGroupRepository) DeleteAssignmentsByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) (int64, error) {
	query := `
		DELETE FROM group_assignments
		WHERE group_id IN (SELECT id FROM groups WHERE tournament_id = $1)`

	result, err := r.getExecutor(exec).ExecContext(ctx, query, tournamentID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete group assignments for tournament %d: %w", tournamentID, err)
	}
	return result.RowsAffected()
}

func (r *postgresGroupRepository) DeleteByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) (int64, error) {
	result, err := r.getExecutor(exec).ExecContext(ctx, `DELETE FROM groups WHERE tournament_id = $1`, tournamentID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete groups for tournament %d: %w", tournamentID, err)
	}
	return result.RowsAffected()
}
