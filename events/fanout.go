package events

import (
	"context"
	"log/slog"

	"github.com/Dosada05/tournament-admin/models"
)

type Publisher interface {
	Publish(ctx context.Context, event models.Event) error
}

// Fanout delivers an event to every configured publisher. Events describe writes that
// already committed, so a failing sink is logged and never reported to the caller.
type Fanout struct {
	publishers []Publisher
	logger     *slog.Logger
}

func NewFanout(logger *slog.Logger, publishers ...Publisher) *Fanout {
	return &Fanout{publishers: publishers, logger: logger}
}

func (f *Fanout) Publish(ctx context.Context, event models.Event) error {
	for _, p := range f.publishers {
		if err := p.Publish(ctx, event); err != nil {
			f.logger.Warn("failed to publish event",
				slog.String("type", string(event.Type)),
				slog.Int("tournament_id", event.TournamentID),
				slog.Any("error", err))
		}
	}
	return nil
}
