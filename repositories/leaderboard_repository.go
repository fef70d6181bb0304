package repositories

import (
	"context"
	"fmt"

	"github.com/Dosada05/tournament-admin/models"
)

type LeaderboardRepository interface {
	Create(ctx context.Context, snapshot *models.LeaderboardSnapshot) error
	ListByTour(ctx context.Context, tour string) ([]models.LeaderboardSnapshot, error)
	ListTours(ctx context.Context) ([]string, error)
	DeleteByTour(ctx context.Context, tour string) (int64, error)
}

type postgresLeaderboardRepository struct {
	db SQLExecutor
}

func NewPostgresLeaderboardRepository(db SQLExecutor) LeaderboardRepository {
	return &postgresLeaderboardRepository{db: db}
}

func (r *postgresLeaderboardRepository) Create(ctx context.Context, s *models.LeaderboardSnapshot) error {
	query := `
		INSERT INTO leaderboard_snapshots (tour, standings)
		VALUES ($1, $2)
		RETURNING id, created_at`

	if err := r.db.QueryRowContext(ctx, query, s.Tour, []byte(s.Standings)).Scan(&s.ID, &s.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert leaderboard snapshot: %w", err)
	}
	return nil
}

func (r *postgresLeaderboardRepository) ListByTour(ctx context.Context, tour string) ([]models.LeaderboardSnapshot, error) {
	query := `
		SELECT id, tour, standings, created_at
		FROM leaderboard_snapshots
		WHERE tour = $1
		ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, tour)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots for tour %q: %w", tour, err)
	}
	defer rows.Close()

	snapshots := make([]models.LeaderboardSnapshot, 0)
	for rows.Next() {
		var s models.LeaderboardSnapshot
		var standings []byte
		if err := rows.Scan(&s.ID, &s.Tour, &standings, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard snapshot: %w", err)
		}
		s.Standings = standings
		snapshots = append(snapshots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during snapshot rows iteration: %w", err)
	}
	return snapshots, nil
}

func (r *postgresLeaderboardRepository) ListTours(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT tour
		FROM leaderboard_snapshots
		WHERE btrim(tour) <> ''
		ORDER BY tour ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query tours: %w", err)
	}
	defer rows.Close()

	tours := make([]string, 0)
	for rows.Next() {
		var tour string
		if err := rows.Scan(&tour); err != nil {
			return nil, fmt.Errorf("failed to scan tour: %w", err)
		}
		tours = append(tours, tour)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during tour rows iteration: %w", err)
	}
	return tours, nil
}

func (r *postgresLeaderboardRepository) DeleteByTour(ctx context.Context, tour string) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM leaderboard_snapshots WHERE tour = $1`, tour)
	if err != nil {
		return 0, fmt.Errorf("failed to delete snapshots of tour %q: %w", tour, err)
	}
	return result.RowsAffected()
}
