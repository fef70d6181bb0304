package services

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	"github.com/Dosada05/tournament-admin/models"
	"github.com/Dosada05/tournament-admin/repositories"
)

type LeaderboardService interface {
	CreateSnapshot(ctx context.Context, tour string, standings json.RawMessage) (*models.LeaderboardSnapshot, error)
	ListByTour(ctx context.Context, tour string) ([]models.LeaderboardSnapshot, error)
	ListTours(ctx context.Context) ([]string, error)
	DeleteTour(ctx context.Context, tour string) error
}

type leaderboardService struct {
	snapshotRepo repositories.LeaderboardRepository
}

func NewLeaderboardService(snapshotRepo repositories.LeaderboardRepository) LeaderboardService {
	return &leaderboardService{snapshotRepo: snapshotRepo}
}

func (s *leaderboardService) CreateSnapshot(ctx context.Context, tour string, standings json.RawMessage) (*models.LeaderboardSnapshot, error) {
	tour = strings.TrimSpace(tour)
	if tour == "" {
		return nil, ErrTourRequired
	}
	if len(standings) == 0 || !json.Valid(standings) {
		return nil, validationError("standings must be valid JSON")
	}

	snapshot := &models.LeaderboardSnapshot{Tour: tour, Standings: standings}
	if err := s.snapshotRepo.Create(ctx, snapshot); err != nil {
		return nil, err
	}
	return snapshot, nil
}

func (s *leaderboardService) ListByTour(ctx context.Context, tour string) ([]models.LeaderboardSnapshot, error) {
	tour = strings.TrimSpace(tour)
	if tour == "" {
		return nil, ErrTourRequired
	}
	return s.snapshotRepo.ListByTour(ctx, tour)
}

// ListTours returns distinct non-empty labels in ascending order whatever the store returned.
func (s *leaderboardService) ListTours(ctx context.Context) ([]string, error) {
	raw, err := s.snapshotRepo.ListTours(ctx)
	if err != nil {
		return nil, err
	}

	tours := make([]string, 0, len(raw))
	for _, tour := range raw {
		if strings.TrimSpace(tour) != "" {
			tours = append(tours, tour)
		}
	}
	sort.Strings(tours)

	unique := tours[:0]
	for _, tour := range tours {
		if len(unique) == 0 || tour != unique[len(unique)-1] {
			unique = append(unique, tour)
		}
	}
	return unique, nil
}

// DeleteTour removes every snapshot with exactly this label; deleting nothing is fine.
func (s *leaderboardService) DeleteTour(ctx context.Context, tour string) error {
	tour = strings.TrimSpace(tour)
	if tour == "" {
		return ErrTourRequired
	}
	_, err := s.snapshotRepo.DeleteByTour(ctx, tour)
	return err
}
