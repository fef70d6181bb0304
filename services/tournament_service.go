package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"

	"github.com/Dosada05/tournament-admin/models"
	"github.com/Dosada05/tournament-admin/repositories"
	"github.com/Dosada05/tournament-admin/storage"
)

type TournamentService interface {
	Create(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error)
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context, status *models.TournamentStatus) ([]models.Tournament, error)
	ListPublic(ctx context.Context) ([]models.Tournament, error)
	UpdateStatus(ctx context.Context, id int, status models.TournamentStatus) (*models.Tournament, error)
	UploadLogo(ctx context.Context, id int, contentType string, file io.Reader) (*models.Tournament, error)
}

type CreateTournamentInput struct {
	Name       string                  `json:"name"`
	Multiplier float64                 `json:"multiplier"`
	MaxTeams   int                     `json:"max_teams"`
	Status     models.TournamentStatus `json:"status"`
}

type tournamentService struct {
	tournamentRepo repositories.TournamentRepository
	uploader       storage.FileUploader
	logger         *slog.Logger
}

// NewTournamentService accepts a nil uploader; logo uploads then fail with ErrStorageDisabled.
func NewTournamentService(tournamentRepo repositories.TournamentRepository, uploader storage.FileUploader, logger *slog.Logger) TournamentService {
	return &tournamentService{tournamentRepo: tournamentRepo, uploader: uploader, logger: logger}
}

func (s *tournamentService) Create(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, validationError("tournament name is required")
	}
	if input.Multiplier <= 0 || math.IsInf(input.Multiplier, 0) || math.IsNaN(input.Multiplier) {
		return nil, validationError("multiplier must be a positive number")
	}
	if input.MaxTeams <= 0 {
		return nil, validationError("max_teams must be positive")
	}
	status := input.Status
	if status == "" {
		status = models.TournamentDraft
	}
	if !status.Valid() {
		return nil, ErrInvalidTournamentStatus
	}

	tournament := &models.Tournament{
		Name:       name,
		Multiplier: input.Multiplier,
		MaxTeams:   input.MaxTeams,
		Status:     status,
	}
	if err := s.tournamentRepo.Create(ctx, tournament); err != nil {
		return nil, fmt.Errorf("failed to create tournament: %w", err)
	}
	return tournament, nil
}

func (s *tournamentService) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	if err := requirePositiveID("tournament_id", id); err != nil {
		return nil, err
	}
	tournament, err := s.tournamentRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	populateTournamentLogoURL(tournament, s.uploader)
	return tournament, nil
}

func (s *tournamentService) List(ctx context.Context, status *models.TournamentStatus) ([]models.Tournament, error) {
	if status != nil && !status.Valid() {
		return nil, ErrInvalidTournamentStatus
	}
	tournaments, err := s.tournamentRepo.List(ctx, repositories.ListTournamentsFilter{Status: status})
	if err != nil {
		return nil, err
	}
	for i := range tournaments {
		populateTournamentLogoURL(&tournaments[i], s.uploader)
	}
	return tournaments, nil
}

func (s *tournamentService) ListPublic(ctx context.Context) ([]models.Tournament, error) {
	open := models.TournamentOpen
	return s.List(ctx, &open)
}

func (s *tournamentService) UpdateStatus(ctx context.Context, id int, status models.TournamentStatus) (*models.Tournament, error) {
	if err := requirePositiveID("tournament_id", id); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, ErrInvalidTournamentStatus
	}
	if err := s.tournamentRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, handleRepositoryError(err)
	}
	return s.GetByID(ctx, id)
}

func (s *tournamentService) UploadLogo(ctx context.Context, id int, contentType string, file io.Reader) (*models.Tournament, error) {
	if s.uploader == nil {
		return nil, ErrStorageDisabled
	}
	if err := requirePositiveID("tournament_id", id); err != nil {
		return nil, err
	}

	tournament, err := s.tournamentRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, handleRepositoryError(err)
	}

	key, err := storage.TournamentLogoKey(id, contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	if _, err := s.uploader.Upload(ctx, key, contentType, file); err != nil {
		return nil, fmt.Errorf("failed to upload logo for tournament %d: %w", id, err)
	}

	oldKey := tournament.LogoKey
	if err := s.tournamentRepo.UpdateLogoKey(ctx, id, &key); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to save logo key for tournament %d: %w", id, err)
	}

	// Старый файл с другим расширением больше не нужен.
	if oldKey != nil && *oldKey != "" && *oldKey != key {
		if err := s.uploader.Delete(ctx, *oldKey); err != nil {
			s.logger.WarnContext(ctx, "failed to delete previous tournament logo",
				slog.Int("tournament_id", id), slog.String("key", *oldKey), slog.Any("error", err))
		}
	}

	tournament.LogoKey = &key
	populateTournamentLogoURL(tournament, s.uploader)
	return tournament, nil
}
