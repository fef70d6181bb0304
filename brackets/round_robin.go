package brackets

import (
	"context"
	"fmt"
	"sort"
)

// bye fills the empty slot when a group has an odd number of members.
const bye = 0

type RoundRobinGenerator struct{}

func NewRoundRobinGenerator() PairingGenerator {
	return &RoundRobinGenerator{}
}

func (g *RoundRobinGenerator) GetName() string {
	return "RoundRobin"
}

// Generate produces a single round robin inside every group using the circle method:
// the first seed stays fixed and the others rotate one slot per round.
// Groups with fewer than two members produce nothing.
func (g *RoundRobinGenerator) Generate(ctx context.Context, groups []GroupSeed) ([]Pairing, error) {
	pairings := make([]Pairing, 0)

	for _, group := range groups {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		seen := make(map[int]struct{}, len(group.RegistrationIDs))
		for _, id := range group.RegistrationIDs {
			if id == bye {
				return nil, fmt.Errorf("RoundRobinGenerator: group %d contains an invalid registration id 0", group.GroupID)
			}
			if _, dup := seen[id]; dup {
				return nil, fmt.Errorf("RoundRobinGenerator: registration %d appears twice in group %d", id, group.GroupID)
			}
			seen[id] = struct{}{}
		}

		n := len(group.RegistrationIDs)
		if n < 2 {
			continue
		}

		slots := make([]int, n, n+1)
		copy(slots, group.RegistrationIDs)
		if n%2 != 0 {
			slots = append(slots, bye)
			n++
		}

		half := n / 2
		for round := 1; round < n; round++ {
			order := 0
			for i := 0; i < half; i++ {
				home, away := slots[i], slots[n-1-i]
				if home == bye || away == bye {
					continue
				}
				// alternate sides for the fixed seed so it is not always home
				if i == 0 && round%2 == 0 {
					home, away = away, home
				}
				order++
				pairings = append(pairings, Pairing{
					GroupID:            group.GroupID,
					Round:              round,
					OrderInRound:       order,
					HomeRegistrationID: home,
					AwayRegistrationID: away,
				})
			}
			rotated := append([]int{slots[0], slots[n-1]}, slots[1:n-1]...)
			slots = rotated
		}
	}

	sort.SliceStable(pairings, func(i, j int) bool {
		if pairings[i].Round != pairings[j].Round {
			return pairings[i].Round < pairings[j].Round
		}
		return pairings[i].GroupID < pairings[j].GroupID
	})

	return pairings, nil
}
