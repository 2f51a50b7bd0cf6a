// Package combat holds the dice rules for attacks, damage, and experience.
package combat

import (
	"fmt"
	"strings"

	"github.com/pixil98/go-dungeon/internal/dice"
)

// BonusRoll is an extra die added to an attack roll, such as bless.
type BonusRoll struct {
	Dice  dice.Expr
	Value int
}

// AttackRoll is the outcome of a single d20 attack.
type AttackRoll struct {
	Natural int
	Bonus   int
	Extra   []BonusRoll
	Total   int
	AC      int
	Hit     bool
	Crit    bool
}

// ResolveAttack rolls a d20 against ac. A natural 1 always misses and a
// natural 20 always hits as a critical; otherwise the attack hits when the
// natural roll plus bonus plus any extra dice meets or beats ac.
func ResolveAttack(r dice.Roller, bonus int, extra []dice.Expr, ac int) AttackRoll {
	a := AttackRoll{
		Natural: r.Die(20),
		Bonus:   bonus,
		AC:      ac,
	}

	a.Total = a.Natural + bonus
	for _, e := range extra {
		v := e.Roll(r)
		a.Extra = append(a.Extra, BonusRoll{Dice: e, Value: v})
		a.Total += v
	}

	switch a.Natural {
	case 1:
		a.Hit = false
	case 20:
		a.Hit = true
		a.Crit = true
	default:
		a.Hit = a.Total >= ac
	}
	return a
}

// Detail renders the roll breakdown, e.g. "roll 14 + 5 + 1d4 3 = 22 vs AC 15".
func (a AttackRoll) Detail() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "roll %d", a.Natural)
	if a.Crit {
		sb.WriteString(" - critical!")
	}
	fmt.Fprintf(&sb, " %s %d", sign(a.Bonus), abs(a.Bonus))
	for _, e := range a.Extra {
		fmt.Fprintf(&sb, " + %s %d", e.Dice, e.Value)
	}
	fmt.Fprintf(&sb, " = %d vs AC %d", a.Total, a.AC)
	return sb.String()
}

func sign(n int) string {
	if n < 0 {
		return "-"
	}
	return "+"
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
