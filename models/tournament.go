package models

import "time"

// TournamentStatus представляет статусы турнира, соответствующие CHECK в БД.
type TournamentStatus string

const (
	TournamentDraft    TournamentStatus = "draft"
	TournamentOpen     TournamentStatus = "open"
	TournamentClosed   TournamentStatus = "closed"
	TournamentFinished TournamentStatus = "finished"
)

func (s TournamentStatus) Valid() bool {
	switch s {
	case TournamentDraft, TournamentOpen, TournamentClosed, TournamentFinished:
		return true
	}
	return false
}

// Tournament is a competitive event that owns registrations, groups and matches.
type Tournament struct {
	ID         int              `json:"id" db:"id"`
	Name       string           `json:"name" db:"name"`
	Multiplier float64          `json:"multiplier" db:"multiplier"`
	MaxTeams   int              `json:"max_teams" db:"max_teams"`
	Status     TournamentStatus `json:"status" db:"status"`
	CreatedAt  time.Time        `json:"created_at" db:"created_at"`
	LogoKey    *string          `json:"-" db:"logo_key"`
	LogoURL    *string          `json:"logo_url,omitempty" db:"-"`
}
