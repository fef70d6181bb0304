package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/tournament-admin/brackets"
	"github.com/Dosada05/tournament-admin/models"
	"github.com/Dosada05/tournament-admin/repositories"
	"golang.org/x/sync/errgroup"
)

// maxGroups keeps labels readable; 64 groups already means AA..BL.
const maxGroups = 64

type GroupService interface {
	Assign(ctx context.Context, tournamentID int, groupCount int) ([]models.Group, error)
	Reset(ctx context.Context, tournamentID int) error
	GenerateMatches(ctx context.Context, tournamentID int) (int, error)
	Board(ctx context.Context, tournamentID int) ([]models.Group, error)
}

type groupService struct {
	tx               Transactor
	tournamentRepo   repositories.TournamentRepository
	registrationRepo repositories.RegistrationRepository
	groupRepo        repositories.GroupRepository
	matchRepo        repositories.MatchRepository
	generator        brackets.PairingGenerator
	events           EventPublisher
	logger           *slog.Logger
}

func NewGroupService(
	tx Transactor,
	tournamentRepo repositories.TournamentRepository,
	registrationRepo repositories.RegistrationRepository,
	groupRepo repositories.GroupRepository,
	matchRepo repositories.MatchRepository,
	generator brackets.PairingGenerator,
	events EventPublisher,
	logger *slog.Logger,
) GroupService {
	return &groupService{
		tx:               tx,
		tournamentRepo:   tournamentRepo,
		registrationRepo: registrationRepo,
		groupRepo:        groupRepo,
		matchRepo:        matchRepo,
		generator:        generator,
		events:           events,
		logger:           logger,
	}
}

// Assign rebuilds the groups of a tournament: registrations in seed order are dealt
// round the groups like cards, so group sizes differ by at most one.
func (s *groupService) Assign(ctx context.Context, tournamentID int, groupCount int) ([]models.Group, error) {
	if err := requirePositiveID("tournament_id", tournamentID); err != nil {
		return nil, err
	}
	if groupCount < 1 || groupCount > maxGroups {
		return nil, validationError("group_count must be between 1 and %d", maxGroups)
	}

	var groups []models.Group
	err := s.tx.WithTransaction(ctx, func(exec repositories.SQLExecutor) error {
		if _, err := s.tournamentRepo.LockByID(ctx, exec, tournamentID); err != nil {
			return handleRepositoryError(err)
		}
		if err := s.ensureNoStartedMatches(ctx, exec, tournamentID); err != nil {
			return err
		}
		// Расписание строилось по старым группам.
		if _, err := s.matchRepo.DeleteScheduledByTournament(ctx, exec, tournamentID); err != nil {
			return err
		}
		if err := s.resetIn(ctx, exec, tournamentID); err != nil {
			return err
		}

		registrations, err := s.registrationRepo.ListByTournament(ctx, exec, tournamentID)
		if err != nil {
			return err
		}

		groups = make([]models.Group, groupCount)
		memberIDs := make([][]int, groupCount)
		for i := range groups {
			groups[i] = models.Group{
				TournamentID: tournamentID,
				Label:        models.GroupLabel(i),
				Color:        models.GroupColor(i),
				Members:      []models.Registration{},
			}
			if err := s.groupRepo.Create(ctx, exec, &groups[i]); err != nil {
				return handleRepositoryError(err)
			}
		}
		for i, reg := range registrations {
			g := i % groupCount
			groups[g].Members = append(groups[g].Members, reg)
			memberIDs[g] = append(memberIDs[g], reg.ID)
		}
		for i := range groups {
			if err := s.groupRepo.AssignRegistrations(ctx, exec, groups[i].ID, memberIDs[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	publishEvent(ctx, s.events, s.logger, models.EventGroupsAssigned, tournamentID, groups)
	return groups, nil
}

// Reset removes every group of the tournament together with its assignments and the
// fixtures scheduled for them. It is idempotent: a tournament without groups, or an
// unknown one, resets successfully. Once any match has started it refuses.
func (s *groupService) Reset(ctx context.Context, tournamentID int) error {
	if err := requirePositiveID("tournament_id", tournamentID); err != nil {
		return err
	}
	err := s.tx.WithTransaction(ctx, func(exec repositories.SQLExecutor) error {
		if _, err := s.tournamentRepo.LockByID(ctx, exec, tournamentID); err != nil {
			if errors.Is(err, repositories.ErrTournamentNotFound) {
				return nil
			}
			return err
		}
		if err := s.ensureNoStartedMatches(ctx, exec, tournamentID); err != nil {
			return err
		}
		if _, err := s.matchRepo.DeleteScheduledByTournament(ctx, exec, tournamentID); err != nil {
			return err
		}
		return s.resetIn(ctx, exec, tournamentID)
	})
	if err != nil {
		return err
	}
	publishEvent(ctx, s.events, s.logger, models.EventGroupsReset, tournamentID, nil)
	return nil
}

func (s *groupService) resetIn(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) error {
	if _, err := s.groupRepo.DeleteAssignmentsByTournament(ctx, exec, tournamentID); err != nil {
		return err
	}
	if _, err := s.groupRepo.DeleteByTournament(ctx, exec, tournamentID); err != nil {
		return err
	}
	return nil
}

func (s *groupService) ensureNoStartedMatches(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) error {
	started, err := s.matchRepo.CountStartedByTournament(ctx, exec, tournamentID)
	if err != nil {
		return err
	}
	if started > 0 {
		return ErrMatchesInProgress
	}
	return nil
}

// GenerateMatches replaces the scheduled fixtures with a fresh round robin per group and
// returns how many matches were created. Once any match has started it refuses.
func (s *groupService) GenerateMatches(ctx context.Context, tournamentID int) (int, error) {
	if err := requirePositiveID("tournament_id", tournamentID); err != nil {
		return 0, err
	}

	created := 0
	err := s.tx.WithTransaction(ctx, func(exec repositories.SQLExecutor) error {
		if _, err := s.tournamentRepo.LockByID(ctx, exec, tournamentID); err != nil {
			if errors.Is(err, repositories.ErrTournamentNotFound) {
				// Нет турнира - нет групп, генерировать нечего.
				return nil
			}
			return err
		}
		if err := s.ensureNoStartedMatches(ctx, exec, tournamentID); err != nil {
			return err
		}
		if _, err := s.matchRepo.DeleteScheduledByTournament(ctx, exec, tournamentID); err != nil {
			return err
		}

		members, err := s.groupRepo.ListMembersByTournament(ctx, exec, tournamentID)
		if err != nil {
			return err
		}

		pairings, err := s.generator.Generate(ctx, seedsFromMembers(members))
		if err != nil {
			return fmt.Errorf("failed to generate pairings with %s: %w", s.generator.GetName(), err)
		}

		matches := make([]models.Match, len(pairings))
		for i, p := range pairings {
			groupID := p.GroupID
			matches[i] = models.Match{
				TournamentID:       tournamentID,
				GroupID:            &groupID,
				Round:              p.Round,
				HomeRegistrationID: p.HomeRegistrationID,
				AwayRegistrationID: p.AwayRegistrationID,
				Status:             models.MatchScheduled,
			}
		}
		if err := s.matchRepo.CreateBatch(ctx, exec, matches); err != nil {
			return err
		}
		created = len(matches)
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.InfoContext(ctx, "matches generated", slog.Int("tournament_id", tournamentID), slog.Int("created", created))
	publishEvent(ctx, s.events, s.logger, models.EventMatchesGenerated, tournamentID, map[string]int{"created": created})
	return created, nil
}

// seedsFromMembers keeps the repository order: by group, then by order_index.
func seedsFromMembers(members []repositories.GroupMember) []brackets.GroupSeed {
	seeds := make([]brackets.GroupSeed, 0)
	index := make(map[int]int)
	for _, m := range members {
		i, ok := index[m.GroupID]
		if !ok {
			i = len(seeds)
			index[m.GroupID] = i
			seeds = append(seeds, brackets.GroupSeed{GroupID: m.GroupID})
		}
		seeds[i].RegistrationIDs = append(seeds[i].RegistrationIDs, m.ID)
	}
	return seeds
}

// Board returns the groups with their members, loaded concurrently.
func (s *groupService) Board(ctx context.Context, tournamentID int) ([]models.Group, error) {
	if err := requirePositiveID("tournament_id", tournamentID); err != nil {
		return nil, err
	}

	var (
		groups  []models.Group
		members []repositories.GroupMember
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		groups, err = s.groupRepo.ListByTournament(gCtx, nil, tournamentID)
		if err != nil {
			return fmt.Errorf("failed to load groups: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		members, err = s.groupRepo.ListMembersByTournament(gCtx, nil, tournamentID)
		if err != nil {
			return fmt.Errorf("failed to load group members: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byGroup := make(map[int][]models.Registration, len(groups))
	for _, m := range members {
		byGroup[m.GroupID] = append(byGroup[m.GroupID], m.Registration)
	}
	for i := range groups {
		groups[i].Members = byGroup[groups[i].ID]
		if groups[i].Members == nil {
			groups[i].Members = []models.Registration{}
		}
	}
	return groups, nil
}
