package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/tournament-admin/models"
	"github.com/Dosada05/tournament-admin/repositories"
	"github.com/Dosada05/tournament-admin/storage"
)

// Transactor runs fn inside one database transaction. *db.Gateway implements it.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error
}

// EventPublisher receives events after the write that caused them has committed.
type EventPublisher interface {
	Publish(ctx context.Context, event models.Event) error
}

func publishEvent(ctx context.Context, publisher EventPublisher, logger *slog.Logger, eventType models.EventType, tournamentID int, payload interface{}) {
	if publisher == nil {
		return
	}
	event := models.Event{Type: eventType, TournamentID: tournamentID, Payload: payload, OccurredAt: time.Now().UTC()}
	if err := publisher.Publish(ctx, event); err != nil {
		logger.WarnContext(ctx, "event publish failed", slog.String("type", string(eventType)), slog.Any("error", err))
	}
}

func validationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidationFailed, fmt.Sprintf(format, args...))
}

func requirePositiveID(name string, id int) error {
	if id <= 0 {
		return validationError("%s is required", name)
	}
	return nil
}

// handleRepositoryError переводит ошибки репозиториев в ошибки сервисного слоя.
func handleRepositoryError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrTournamentNotFound):
		return ErrTournamentNotFound
	case errors.Is(err, repositories.ErrRegistrationConflict):
		return ErrRegistrationConflict
	default:
		return err
	}
}

func populateTournamentLogoURL(tournament *models.Tournament, uploader storage.FileUploader) {
	if tournament != nil && tournament.LogoKey != nil && *tournament.LogoKey != "" && uploader != nil {
		url := uploader.GetPublicURL(*tournament.LogoKey)
		if url != "" {
			tournament.LogoURL = &url
		}
	}
}
