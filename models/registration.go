package models

import "time"

// Registration is a team's entry into a tournament. OrderIndex is the seed/display order.
type Registration struct {
	ID           int       `json:"id" db:"id"`
	TournamentID int       `json:"tournament_id" db:"tournament_id"`
	TeamName     string    `json:"team_name" db:"team_name"`
	OrderIndex   int       `json:"order_index" db:"order_index"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
