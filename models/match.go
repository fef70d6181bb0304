package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

type MatchStatus string

const (
	MatchScheduled MatchStatus = "scheduled"
	MatchPlaying   MatchStatus = "playing"
	MatchFinished  MatchStatus = "finished"
)

// Score is an ordered list of per-participant or per-set results, kept verbatim.
type Score []json.RawMessage

// Value stores the score as a JSONB array.
func (s Score) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	b, err := json.Marshal([]json.RawMessage(s))
	if err != nil {
		return nil, fmt.Errorf("failed to encode score: %w", err)
	}
	return b, nil
}

func (s *Score) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*s = nil
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported score column type %T", src)
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return fmt.Errorf("failed to decode score: %w", err)
	}
	*s = items
	return nil
}

// ParseScore accepts only a JSON array.
func ParseScore(raw json.RawMessage) (Score, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, errors.New("score is required")
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, errors.New("score must be a JSON array")
	}
	return Score(items), nil
}

type Match struct {
	ID                 int         `json:"id" db:"id"`
	TournamentID       int         `json:"tournament_id" db:"tournament_id"`
	GroupID            *int        `json:"group_id,omitempty" db:"group_id"`
	Round              int         `json:"round" db:"round"`
	HomeRegistrationID int         `json:"home_registration_id" db:"home_registration_id"`
	AwayRegistrationID int         `json:"away_registration_id" db:"away_registration_id"`
	Status             MatchStatus `json:"status" db:"status"`
	StartTime          *time.Time  `json:"start_time,omitempty" db:"start_time"`
	EndTime            *time.Time  `json:"end_time,omitempty" db:"end_time"`
	Score              Score       `json:"score" db:"score"`
	CreatedAt          time.Time   `json:"created_at" db:"created_at"`
}
