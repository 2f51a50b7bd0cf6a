package game

import (
	"fmt"
	"time"

	"github.com/pixil98/go-dungeon/internal/dice"
	"github.com/pixil98/go-errors"
)

type SpellKind int

const (
	SpellAttack SpellKind = iota
	SpellHeal
	SpellBuff
	SpellUtility
)

var spellKindNames = [...]string{"attack", "heal", "buff", "utility"}

func (k SpellKind) String() string {
	if k < 0 || int(k) >= len(spellKindNames) {
		return fmt.Sprintf("spellkind(%d)", int(k))
	}
	return spellKindNames[k]
}

func (k SpellKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *SpellKind) UnmarshalText(text []byte) error {
	for i, n := range spellKindNames {
		if string(text) == n {
			*k = SpellKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown spell type: %q", text)
}

// TargetMode describes what a spell may be aimed at.
type TargetMode int

const (
	// TargetSelf always affects the caster; naming a target is an error.
	TargetSelf TargetMode = iota
	// TargetNone has no target at all; naming a target is an error.
	TargetNone
	// TargetEnemy requires a mob in the caster's room.
	TargetEnemy
	// TargetAlly takes an optional player in the room, defaulting to the caster.
	TargetAlly
	// TargetAny takes an optional mob or player in the room.
	TargetAny
)

var targetModeNames = [...]string{"self", "none", "enemy", "ally", "any"}

func (m TargetMode) String() string {
	if m < 0 || int(m) >= len(targetModeNames) {
		return fmt.Sprintf("targetmode(%d)", int(m))
	}
	return targetModeNames[m]
}

func (m TargetMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *TargetMode) UnmarshalText(text []byte) error {
	for i, n := range targetModeNames {
		if string(text) == n {
			*m = TargetMode(i)
			return nil
		}
	}
	return fmt.Errorf("unknown target mode: %q", text)
}

// Spell defines a spell or innate ability loaded from asset files.
type Spell struct {
	Name        string     `json:"name"`
	Kind        SpellKind  `json:"type"`
	Description string     `json:"description"`
	Target      TargetMode `json:"target"`

	// CooldownSeconds is the time between casts.
	CooldownSeconds int `json:"cooldown"`

	// Dice is rolled for damage (attack) or healing (heal).
	Dice       dice.Expr `json:"dice,omitempty"`
	DamageType string    `json:"damage_type,omitempty"`

	// Ability, when set, adds the caster's modifier to the roll.
	Ability *Ability `json:"ability,omitempty"`

	// AddLevel adds the caster's level to a heal.
	AddLevel bool `json:"add_level,omitempty"`

	// Effect is applied by buff spells.
	Effect *EffectTemplate `json:"effect,omitempty"`

	// Scout marks a utility spell that reports neighboring rooms.
	Scout bool `json:"scout,omitempty"`
}

func (s *Spell) Cooldown() time.Duration {
	return time.Duration(s.CooldownSeconds) * time.Second
}

func (s *Spell) Validate() error {
	el := errors.NewErrorList()

	if s.Name == "" {
		el.Add(fmt.Errorf("spell name is required"))
	}
	if s.CooldownSeconds < 0 {
		el.Add(fmt.Errorf("cooldown must not be negative"))
	}

	switch s.Kind {
	case SpellAttack:
		if s.Dice.IsZero() {
			el.Add(fmt.Errorf("attack spell requires dice"))
		}
		if s.Target != TargetEnemy && s.Target != TargetAny {
			el.Add(fmt.Errorf("attack spell must target enemy or any"))
		}
	case SpellHeal:
		if s.Dice.IsZero() {
			el.Add(fmt.Errorf("heal spell requires dice"))
		}
		if s.Target == TargetEnemy || s.Target == TargetNone {
			el.Add(fmt.Errorf("heal spell must target self, ally, or any"))
		}
	case SpellBuff:
		if s.Effect == nil {
			el.Add(fmt.Errorf("buff spell requires an effect"))
		} else {
			el.Add(s.Effect.Validate())
		}
		if s.Target == TargetEnemy || s.Target == TargetNone {
			el.Add(fmt.Errorf("buff spell must target self, ally, or any"))
		}
	case SpellUtility:
		if !s.Scout {
			el.Add(fmt.Errorf("utility spell has nothing to do"))
		}
	}

	return el.Err()
}
