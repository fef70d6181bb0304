package brackets

import "context"

// Pairing is one fixture produced by a generator. Registration ids are never zero.
type Pairing struct {
	GroupID            int
	Round              int
	OrderInRound       int
	HomeRegistrationID int
	AwayRegistrationID int
}

// GroupSeed is a group with its members' registration ids in seed order.
type GroupSeed struct {
	GroupID         int
	RegistrationIDs []int
}

type PairingGenerator interface {
	Generate(ctx context.Context, groups []GroupSeed) ([]Pairing, error)

	GetName() string
}
