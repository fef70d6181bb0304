package models

import (
	"encoding/json"
	"time"
)

// LeaderboardSnapshot is an immutable capture of standings, grouped by Tour.
type LeaderboardSnapshot struct {
	ID        int             `json:"id" db:"id"`
	Tour      string          `json:"tour" db:"tour"`
	Standings json.RawMessage `json:"standings" db:"standings"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}
