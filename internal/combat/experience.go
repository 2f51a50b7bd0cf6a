package combat

import (
	"slices"

	"github.com/pixil98/go-dungeon/internal/game"
)

// Award is the experience granted to one character.
type Award struct {
	CharacterId string
	XP          int
}

// DistributeXP splits total among contributors in proportion to damage dealt.
// Shares are rounded down and the remainder is handed out one point at a time,
// biggest contributor first. Contributors who dealt no damage get nothing.
func DistributeXP(total int, contributions []game.Contribution) []Award {
	if total <= 0 {
		return nil
	}

	var ordered []game.Contribution
	dealt := 0
	for _, c := range contributions {
		if c.Damage > 0 {
			ordered = append(ordered, c)
			dealt += c.Damage
		}
	}
	if dealt == 0 {
		return nil
	}

	// stable keeps first-hit order among equal contributors
	slices.SortStableFunc(ordered, func(a, b game.Contribution) int {
		return b.Damage - a.Damage
	})

	awards := make([]Award, len(ordered))
	remaining := total
	for i, c := range ordered {
		share := min(total*c.Damage/dealt, remaining)
		awards[i] = Award{CharacterId: c.CharacterId, XP: share}
		remaining -= share
	}
	for i := 0; remaining > 0; i++ {
		awards[i%len(awards)].XP++
		remaining--
	}

	return slices.DeleteFunc(awards, func(a Award) bool { return a.XP == 0 })
}
