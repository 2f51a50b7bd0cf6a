package game

import (
	"fmt"
	"strings"

	"github.com/pixil98/go-dungeon/internal/dice"
	"github.com/pixil98/go-errors"
)

// Weapon defines a weapon type loaded from asset files.
type Weapon struct {
	Name       string    `json:"name"`
	Dice       dice.Expr `json:"dice"`
	Ability    Ability   `json:"ability"`
	DamageType string    `json:"damage_type"`
}

func (w *Weapon) Validate() error {
	el := errors.NewErrorList()
	if w.Name == "" {
		el.Add(fmt.Errorf("weapon name is required"))
	}
	if w.Dice.IsZero() {
		el.Add(fmt.Errorf("weapon dice are required"))
	}
	if w.DamageType == "" {
		el.Add(fmt.Errorf("weapon damage_type is required"))
	}
	return el.Err()
}

// Item is a general, non-weapon item that can be looted and carried.
type Item struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Rarity      string `json:"rarity,omitempty"`
}

func (i *Item) Validate() error {
	if i.Name == "" {
		return fmt.Errorf("item name is required")
	}
	return nil
}

// matchKeyOrName reports whether ref names key or name, ignoring case,
// spaces, and the hyphen/underscore distinction.
func matchKeyOrName(ref, key, name string) bool {
	n := normalizeRef(ref)
	return n != "" && (n == normalizeRef(key) || n == normalizeRef(name))
}

func normalizeRef(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "-", "_", "-").Replace(s)
}
