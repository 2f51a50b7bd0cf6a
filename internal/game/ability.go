package game

import (
	"fmt"
	"strings"
)

type Ability int

const (
	Strength Ability = iota
	Dexterity
	Constitution
	Intelligence
	Wisdom
	Charisma
)

// Abilities lists every ability in display order.
var Abilities = []Ability{Strength, Dexterity, Constitution, Intelligence, Wisdom, Charisma}

var abilityNames = map[Ability]string{
	Strength:     "str",
	Dexterity:    "dex",
	Constitution: "con",
	Intelligence: "int",
	Wisdom:       "wis",
	Charisma:     "cha",
}

func (a Ability) String() string {
	if n, ok := abilityNames[a]; ok {
		return n
	}
	return fmt.Sprintf("ability(%d)", int(a))
}

func ParseAbility(s string) (Ability, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for a, n := range abilityNames {
		if n == s {
			return a, nil
		}
	}
	return 0, fmt.Errorf("unknown ability: %q", s)
}

func (a Ability) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Ability) UnmarshalText(text []byte) error {
	parsed, err := ParseAbility(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// AbilityScores maps each ability to its score.
type AbilityScores map[Ability]int

// Modifier returns floor((score-10)/2).
func Modifier(score int) int {
	d := score - 10
	if d < 0 {
		return (d - 1) / 2
	}
	return d / 2
}
