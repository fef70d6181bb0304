package models

import "time"

type EventType string

const (
	EventMatchStarted     EventType = "match.started"
	EventMatchFinished    EventType = "match.finished"
	EventGroupsAssigned   EventType = "groups.assigned"
	EventGroupsReset      EventType = "groups.reset"
	EventMatchesGenerated EventType = "matches.generated"
)

// Event describes a committed change that live clients and the event stream care about.
type Event struct {
	Type         EventType   `json:"type"`
	TournamentID int         `json:"tournament_id"`
	Payload      interface{} `json:"payload,omitempty"`
	OccurredAt   time.Time   `json:"occurred_at"`
}
