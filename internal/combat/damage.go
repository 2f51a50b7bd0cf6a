package combat

import "github.com/pixil98/go-dungeon/internal/dice"

// RollDamage rolls the damage expression plus modifier, with a minimum result
// of 1. A critical hit doubles the dice but not the modifiers.
func RollDamage(r dice.Roller, expr dice.Expr, crit bool, mod int) int {
	total := mod
	if crit {
		total += expr.RollCrit(r)
	} else {
		total += expr.Roll(r)
	}
	return max(total, 1)
}

var damageMessages = []struct {
	maxDamage int
	verb3rd   string // "{attacker} {verb} {target}"
}{
	{0, "misses"},
	{2, "barely scratches"},
	{4, "grazes"},
	{6, "wounds"},
	{10, "hits"},
	{14, "hits hard"},
	{19, "pummels"},
	{24, "thrashes"},
	{30, "mauls"},
	{40, "decimates"},
}

// DamageVerb returns the 3rd person verb for a damage amount.
func DamageVerb(damage int) string {
	for _, msg := range damageMessages {
		if damage <= msg.maxDamage {
			return msg.verb3rd
		}
	}
	return "obliterates"
}
