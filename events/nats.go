package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/Dosada05/tournament-admin/models"
	"github.com/nats-io/nats.go"
)

// SubjectPrefix roots every subject the service publishes on.
const SubjectPrefix = "tournaments"

func Connect(url string) (*nats.Conn, nats.JetStreamContext, error) {
	nc, err := nats.Connect(url, nats.Name("tournament-admin"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	return nc, js, nil
}

// ConfigureStream creates the event stream, or updates it when it already exists.
func ConfigureStream(js nats.JetStreamManager, name string) error {
	cfg := &nats.StreamConfig{
		Name:     name,
		Subjects: []string{SubjectPrefix + ".>"},
	}
	_, err := js.AddStream(cfg)
	if errors.Is(err, nats.ErrStreamNameAlreadyInUse) {
		_, err = js.UpdateStream(cfg)
	}
	if err != nil {
		return fmt.Errorf("failed to configure stream %s: %w", name, err)
	}
	return nil
}

func Subject(event models.Event) string {
	return SubjectPrefix + "." + strconv.Itoa(event.TournamentID) + "." + string(event.Type)
}

// jetStreamPublisher is the part of nats.JetStreamContext the publisher needs.
type jetStreamPublisher interface {
	Publish(subj string, data []byte, opts ...nats.PubOpt) (*nats.PubAck, error)
}

type NATSPublisher struct {
	js jetStreamPublisher
}

func NewNATSPublisher(js jetStreamPublisher) *NATSPublisher {
	return &NATSPublisher{js: js}
}

func (p *NATSPublisher) Publish(ctx context.Context, event models.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event %s: %w", event.Type, err)
	}
	if _, err := p.js.Publish(Subject(event), data, nats.Context(ctx)); err != nil {
		return fmt.Errorf("failed to publish event %s: %w", event.Type, err)
	}
	return nil
}
