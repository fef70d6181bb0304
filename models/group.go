package models

import "time"

type Group struct {
	ID           int       `json:"id" db:"id"`
	TournamentID int       `json:"tournament_id" db:"tournament_id"`
	Label        string    `json:"label" db:"label"`
	Color        string    `json:"color" db:"color"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`

	Members []Registration `json:"members,omitempty" db:"-"`
}

// GroupAssignment links a registration to a group. A registration has at most one.
type GroupAssignment struct {
	ID             int `json:"id" db:"id"`
	GroupID        int `json:"group_id" db:"group_id"`
	RegistrationID int `json:"registration_id" db:"registration_id"`
}

// groupColors is indexed by group position; labels past the table wrap around.
var groupColors = []string{
	"#e53935", "#1e88e5", "#43a047", "#fdd835", "#8e24aa", "#fb8c00",
	"#00acc1", "#d81b60", "#6d4c41", "#3949ab", "#7cb342", "#f4511e",
	"#00897b", "#c0ca33", "#5e35b1", "#039be5", "#ffb300", "#546e7a",
	"#e91e63", "#009688", "#ff7043", "#9c27b0", "#8bc34a", "#3f51b5",
	"#ffc107", "#795548",
}

// GroupLabel returns the letter label for a zero-based group index: A..Z, then AA, AB, ...
func GroupLabel(index int) string {
	label := ""
	for n := index; n >= 0; n = n/26 - 1 {
		label = string(rune('A'+n%26)) + label
	}
	return label
}

func GroupColor(index int) string {
	return groupColors[index%len(groupColors)]
}
