package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Dosada05/tournament-admin/metrics"
	"github.com/Dosada05/tournament-admin/models"
	"github.com/Dosada05/tournament-admin/repositories"
)

type MatchService interface {
	Start(ctx context.Context, matchID int) error
	Finish(ctx context.Context, matchID int, score models.Score) error
	ListByTournament(ctx context.Context, tournamentID int) ([]models.Match, error)
}

type matchService struct {
	tx        Transactor
	matchRepo repositories.MatchRepository
	events    EventPublisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewMatchService(tx Transactor, matchRepo repositories.MatchRepository, events EventPublisher, logger *slog.Logger) MatchService {
	return &matchService{
		tx:        tx,
		matchRepo: matchRepo,
		events:    events,
		logger:    logger,
		now:       time.Now,
	}
}

// Start moves a scheduled match to playing. Starting a playing match again succeeds and
// keeps the original start time. An unknown id is not an error.
func (s *matchService) Start(ctx context.Context, matchID int) error {
	if err := requirePositiveID("match_id", matchID); err != nil {
		return err
	}

	var started *models.Match
	err := s.tx.WithTransaction(ctx, func(exec repositories.SQLExecutor) error {
		match, err := s.matchRepo.LockByID(ctx, exec, matchID)
		if err != nil {
			if errors.Is(err, repositories.ErrMatchNotFound) {
				return nil
			}
			return err
		}

		switch match.Status {
		case models.MatchPlaying:
			return nil
		case models.MatchScheduled:
		default:
			return ErrInvalidMatchTransition
		}

		startTime := s.now().UTC()
		if err := s.matchRepo.MarkStarted(ctx, exec, matchID, startTime); err != nil {
			return err
		}
		match.Status = models.MatchPlaying
		match.StartTime = &startTime
		started = match
		return nil
	})
	if err != nil {
		return err
	}

	if started != nil {
		metrics.MatchTransitions.WithLabelValues(string(models.MatchPlaying)).Inc()
		publishEvent(ctx, s.events, s.logger, models.EventMatchStarted, started.TournamentID, started)
	}
	return nil
}

// Finish records the score of a playing match. Matches that never started or are already
// finished are rejected. An unknown id is not an error.
func (s *matchService) Finish(ctx context.Context, matchID int, score models.Score) error {
	if err := requirePositiveID("match_id", matchID); err != nil {
		return err
	}
	if score == nil {
		return validationError("score is required")
	}

	var finished *models.Match
	err := s.tx.WithTransaction(ctx, func(exec repositories.SQLExecutor) error {
		match, err := s.matchRepo.LockByID(ctx, exec, matchID)
		if err != nil {
			if errors.Is(err, repositories.ErrMatchNotFound) {
				return nil
			}
			return err
		}
		if match.Status != models.MatchPlaying {
			return ErrInvalidMatchTransition
		}

		endTime := s.now().UTC()
		if err := s.matchRepo.MarkFinished(ctx, exec, matchID, endTime, score); err != nil {
			return err
		}
		match.Status = models.MatchFinished
		match.EndTime = &endTime
		match.Score = score
		finished = match
		return nil
	})
	if err != nil {
		return err
	}

	if finished != nil {
		metrics.MatchTransitions.WithLabelValues(string(models.MatchFinished)).Inc()
		publishEvent(ctx, s.events, s.logger, models.EventMatchFinished, finished.TournamentID, finished)
	}
	return nil
}

func (s *matchService) ListByTournament(ctx context.Context, tournamentID int) ([]models.Match, error) {
	if err := requirePositiveID("tournament_id", tournamentID); err != nil {
		return nil, err
	}
	return s.matchRepo.ListByTournament(ctx, nil, tournamentID)
}
