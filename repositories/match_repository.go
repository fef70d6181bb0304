package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/tournament-admin/models"
	"github.com/lib/pq"
)

var ErrMatchNotFound = errors.New("match not found")

type MatchRepository interface {
	CreateBatch(ctx context.Context, exec SQLExecutor, matches []models.Match) error
	LockByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error)
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]models.Match, error)
	CountStartedByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) (int, error)
	DeleteScheduledByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) (int64, error)
	MarkStarted(ctx context.Context, exec SQLExecutor, id int, startTime time.Time) error
	MarkFinished(ctx context.Context, exec SQLExecutor, id int, endTime time.Time, score models.Score) error
}

type postgresMatchRepository struct {
	db SQLExecutor
}

func NewPostgresMatchRepository(db SQLExecutor) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const matchColumns = `id, tournament_id, group_id, round, home_registration_id, away_registration_id,
		status, start_time, end_time, score, created_at`

func scanMatch(row interface{ Scan(...interface{}) error }, m *models.Match) error {
	return row.Scan(
		&m.ID, &m.TournamentID, &m.GroupID, &m.Round, &m.HomeRegistrationID, &m.AwayRegistrationID,
		&m.Status, &m.StartTime, &m.EndTime, &m.Score, &m.CreatedAt,
	)
}

// CreateBatch inserts all matches in one statement, all sharing the tournament of the first one.
func (r *postgresMatchRepository) CreateBatch(ctx context.Context, exec SQLExecutor, matches []models.Match) error {
	if len(matches) == 0 {
		return nil
	}

	groupIDs := make([]int64, len(matches))
	rounds := make([]int64, len(matches))
	homeIDs := make([]int64, len(matches))
	awayIDs := make([]int64, len(matches))
	for i, m := range matches {
		if m.GroupID != nil {
			groupIDs[i] = int64(*m.GroupID)
		}
		rounds[i] = int64(m.Round)
		homeIDs[i] = int64(m.HomeRegistrationID)
		awayIDs[i] = int64(m.AwayRegistrationID)
	}

	query := `
		INSERT INTO matches (tournament_id, group_id, round, home_registration_id, away_registration_id, status)
		SELECT $1, NULLIF(g, 0), rnd, home, away, $6::text
		FROM unnest($2::int[], $3::int[], $4::int[], $5::int[]) AS t(g, rnd, home, away)`

	_, err := r.getExecutor(exec).ExecContext(ctx, query,
		matches[0].TournamentID,
		pq.Array(groupIDs),
		pq.Array(rounds),
		pq.Array(homeIDs),
		pq.Array(awayIDs),
		models.MatchScheduled,
	)
	if err != nil {
		return fmt.Errorf("failed to insert %d matches: %w", len(matches), err)
	}
	return nil
}

// LockByID reads the match with a row lock; exec must be a transaction.
func (r *postgresMatchRepository) LockByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error) {
	m := &models.Match{}
	err := scanMatch(r.getExecutor(exec).QueryRowContext(ctx, `SELECT `+matchColumns+` FROM matches WHERE id = $1 FOR UPDATE`, id), m)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan match %d: %w", id, err)
	}
	return m, nil
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]models.Match, error) {
	rows, err := r.getExecutor(exec).QueryContext(ctx,
		`SELECT `+matchColumns+` FROM matches WHERE tournament_id = $1 ORDER BY round ASC, id ASC`, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	matches := make([]models.Match, 0)
	for rows.Next() {
		var m models.Match
		if err := scanMatch(rows, &m); err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during match rows iteration: %w", err)
	}
	return matches, nil
}

func (r *postgresMatchRepository) CountStartedByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) (int, error) {
	var count int
	err := r.getExecutor(exec).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM matches WHERE tournament_id = $1 AND status <> $2`,
		tournamentID, models.MatchScheduled,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count started matches for tournament %d: %w", tournamentID, err)
	}
	return count, nil
}

func (r *postgresMatchRepository) DeleteScheduledByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) (int64, error) {
	result, err := r.getExecutor(exec).ExecContext(ctx,
		`DELETE FROM matches WHERE tournament_id = $1 AND status = $2`, tournamentID, models.MatchScheduled)
	if err != nil {
		return 0, fmt.Errorf("failed to delete scheduled matches for tournament %d: %w", tournamentID, err)
	}
	return result.RowsAffected()
}

func (r *postgresMatchRepository) MarkStarted(ctx context.Context, exec SQLExecutor, id int, startTime time.Time) error {
	_, err := r.getExecutor(exec).ExecContext(ctx,
		`UPDATE matches SET status = $1, start_time = $2 WHERE id = $3`,
		models.MatchPlaying, startTime, id)
	if err != nil {
		return fmt.Errorf("failed to start match %d: %w", id, err)
	}
	return nil
}

func (r *postgresMatchRepository) MarkFinished(ctx context.Context, exec SQLExecutor, id int, endTime time.Time, score models.Score) error {
	_, err := r.getExecutor(exec).ExecContext(ctx,
		`UPDATE matches SET status = $1, end_time = $2, score = $3 WHERE id = $4`,
		models.MatchFinished, endTime, score, id)
	if err != nil {
		return fmt.Errorf("failed to finish match %d: %w", id, err)
	}
	return nil
}
