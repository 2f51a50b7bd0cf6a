package game

import (
	"fmt"

	"github.com/pixil98/go-dungeon/internal/storage"
	"github.com/pixil98/go-errors"
)

// Race defines a playable race loaded from asset files.
type Race struct {
	Name    string        `json:"name"`
	Bonuses AbilityScores `json:"bonuses"`
}

func (r *Race) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("race name is required")
	}
	return nil
}

func (r *Race) Selector() string {
	return r.Name
}

// Class defines a playable class loaded from asset files.
type Class struct {
	Name       string  `json:"name"`
	HitDie     int     `json:"hit_die"`
	Primary    Ability `json:"primary_ability"`
	ArmorBonus int     `json:"armor_bonus"`

	// Weapons are granted at creation; the first is equipped.
	Weapons []storage.SmartIdentifier[*Weapon] `json:"weapons"`
	Spells  []storage.SmartIdentifier[*Spell]  `json:"spells,omitempty"`
}

func (c *Class) Validate() error {
	el := errors.NewErrorList()

	if c.Name == "" {
		el.Add(fmt.Errorf("class name is required"))
	}
	if c.HitDie < 1 {
		el.Add(fmt.Errorf("hit_die must be positive"))
	}
	if len(c.Weapons) == 0 {
		el.Add(fmt.Errorf("class must grant at least one weapon"))
	}
	for _, w := range c.Weapons {
		el.Add(w.Validate())
	}
	for _, s := range c.Spells {
		el.Add(s.Validate())
	}

	return el.Err()
}

func (c *Class) Selector() string {
	return c.Name
}

// Resolve resolves weapon and spell references from the dictionary.
func (c *Class) Resolve(dict *Dictionary) error {
	el := errors.NewErrorList()
	for i := range c.Weapons {
		el.Add(c.Weapons[i].Resolve(dict.Weapons))
	}
	for i := range c.Spells {
		el.Add(c.Spells[i].Resolve(dict.Spells))
	}
	return el.Err()
}
