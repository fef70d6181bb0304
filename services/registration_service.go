package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/Dosada05/tournament-admin/models"
	"github.com/Dosada05/tournament-admin/repositories"
)

type RegistrationService interface {
	Register(ctx context.Context, tournamentID int, teamName string) (*models.Registration, error)
	List(ctx context.Context, tournamentID int) ([]models.Registration, error)
	Reorder(ctx context.Context, tournamentID int, orderedRegistrationIDs []int) error
}

type registrationService struct {
	tx               Transactor
	tournamentRepo   repositories.TournamentRepository
	registrationRepo repositories.RegistrationRepository
}

func NewRegistrationService(
	tx Transactor,
	tournamentRepo repositories.TournamentRepository,
	registrationRepo repositories.RegistrationRepository,
) RegistrationService {
	return &registrationService{
		tx:               tx,
		tournamentRepo:   tournamentRepo,
		registrationRepo: registrationRepo,
	}
}

// Register appends the team at the end of the current order.
func (s *registrationService) Register(ctx context.Context, tournamentID int, teamName string) (*models.Registration, error) {
	if err := requirePositiveID("tournament_id", tournamentID); err != nil {
		return nil, err
	}
	teamName = strings.TrimSpace(teamName)
	if teamName == "" {
		return nil, validationError("team_name is required")
	}

	reg := &models.Registration{TournamentID: tournamentID, TeamName: teamName}
	err := s.tx.WithTransaction(ctx, func(exec repositories.SQLExecutor) error {
		tournament, err := s.tournamentRepo.LockByID(ctx, exec, tournamentID)
		if err != nil {
			return handleRepositoryError(err)
		}

		count, maxOrderIndex, err := s.registrationRepo.Stats(ctx, exec, tournamentID)
		if err != nil {
			return err
		}
		if count >= tournament.MaxTeams {
			return ErrTournamentFull
		}

		reg.OrderIndex = maxOrderIndex + 1
		return handleRepositoryError(s.registrationRepo.Create(ctx, exec, reg))
	})
	if err != nil {
		return nil, err
	}
	return reg, nil
}

func (s *registrationService) List(ctx context.Context, tournamentID int) ([]models.Registration, error) {
	if err := requirePositiveID("tournament_id", tournamentID); err != nil {
		return nil, err
	}
	return s.registrationRepo.ListByTournament(ctx, nil, tournamentID)
}

// Reorder sets order_index = position+1 for every listed id of the tournament, all or nothing.
// Ids from other tournaments match no row and are skipped; a repeated id keeps its last position.
func (s *registrationService) Reorder(ctx context.Context, tournamentID int, orderedRegistrationIDs []int) error {
	if err := requirePositiveID("tournament_id", tournamentID); err != nil {
		return err
	}
	if len(orderedRegistrationIDs) == 0 {
		return nil
	}

	return s.tx.WithTransaction(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.registrationRepo.LockByTournament(ctx, exec, tournamentID); err != nil {
			return err
		}
		for position, registrationID := range orderedRegistrationIDs {
			if _, err := s.registrationRepo.UpdateOrderIndex(ctx, exec, tournamentID, registrationID, position+1); err != nil {
				return fmt.Errorf("reorder aborted at position %d: %w", position+1, err)
			}
		}
		return nil
	})
}
