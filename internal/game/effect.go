package game

import (
	"fmt"
	"time"

	"github.com/pixil98/go-dungeon/internal/dice"
	"github.com/pixil98/go-errors"
)

// Modifiers are the stat changes an effect grants while active.
type Modifiers struct {
	AC          int `json:"ac,omitempty"`
	AttackBonus int `json:"attack_bonus,omitempty"`
	DamageBonus int `json:"damage_bonus,omitempty"`

	// AttackDice is rolled and added to every attack roll (e.g., bless).
	AttackDice dice.Expr `json:"attack_dice,omitempty"`

	// AbilityMods adjust ability modifiers directly.
	AbilityMods map[Ability]int `json:"ability_mods,omitempty"`
}

// EffectTemplate is the definition of an effect carried by a spell.
type EffectTemplate struct {
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	DurationSeconds int       `json:"duration"`
	Modifiers       Modifiers `json:"modifiers"`
}

func (t *EffectTemplate) Validate() error {
	el := errors.NewErrorList()
	if t.Name == "" {
		el.Add(fmt.Errorf("effect name is required"))
	}
	if t.DurationSeconds <= 0 {
		el.Add(fmt.Errorf("effect duration must be positive"))
	}
	return el.Err()
}

// Instantiate creates an active effect keyed by the spell that produced it.
func (t *EffectTemplate) Instantiate(key string) *Effect {
	return &Effect{
		Key:         key,
		Name:        t.Name,
		Description: t.Description,
		Remaining:   time.Duration(t.DurationSeconds) * time.Second,
		Modifiers:   t.Modifiers,
	}
}

// Effect is a timed status on a character.
type Effect struct {
	Key         string        `json:"key"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Remaining   time.Duration `json:"remaining"`
	Modifiers   Modifiers     `json:"modifiers"`
}
