package game

import (
	"fmt"
	"strings"

	"github.com/pixil98/go-dungeon/internal/dice"
	"github.com/pixil98/go-errors"
)

// Mobile defines a type of hostile creature loaded from asset files.
// Multiple instances can be spawned from one definition.
type Mobile struct {
	Name        string `json:"name"`
	Description string `json:"description"`

	// Aliases are extra keywords players can use to target this mobile.
	Aliases []string `json:"aliases,omitempty"`

	AC int       `json:"ac"`
	HP dice.Expr `json:"hp"`
	XP int       `json:"xp"`

	GoldMin int `json:"gold_min,omitempty"`
	GoldMax int `json:"gold_max,omitempty"`

	Loot []LootDrop `json:"loot,omitempty"`
}

// LootDrop is one entry of a mobile's loot table.
type LootDrop struct {
	Kind   LootKind `json:"kind"`
	Key    string   `json:"key"`
	Chance float64  `json:"chance"`
}

func (m *Mobile) Validate() error {
	el := errors.NewErrorList()

	if m.Name == "" {
		el.Add(fmt.Errorf("mobile name is required"))
	}
	if m.AC < 1 {
		el.Add(fmt.Errorf("mobile ac must be positive"))
	}
	if m.HP.IsZero() {
		el.Add(fmt.Errorf("mobile hp dice are required"))
	}
	if m.GoldMax < m.GoldMin {
		el.Add(fmt.Errorf("gold_max must not be below gold_min"))
	}
	for i, l := range m.Loot {
		if l.Kind == LootGold {
			el.Add(fmt.Errorf("loot %d: gold is rolled from gold_min/gold_max", i))
		}
		if l.Chance <= 0 || l.Chance > 1 {
			el.Add(fmt.Errorf("loot %d: chance must be in (0, 1]", i))
		}
	}

	return el.Err()
}

// Resolve checks that every loot entry names a known item or weapon.
func (m *Mobile) Resolve(dict *Dictionary) error {
	el := errors.NewErrorList()
	for _, l := range m.Loot {
		switch l.Kind {
		case LootItem:
			if dict.Items.Get(l.Key) == nil {
				el.Add(fmt.Errorf("loot item %q not found", l.Key))
			}
		case LootWeapon:
			if dict.Weapons.Get(l.Key) == nil {
				el.Add(fmt.Errorf("loot weapon %q not found", l.Key))
			}
		}
	}
	return el.Err()
}

// MatchName reports whether ref names this mobile by name or alias.
func (m *Mobile) MatchName(ref string) bool {
	if strings.EqualFold(m.Name, ref) {
		return true
	}
	for _, a := range m.Aliases {
		if strings.EqualFold(a, ref) {
			return true
		}
	}
	return false
}

// RollLoot produces the drops for a slain instance of m.
func (m *Mobile) RollLoot(dict *Dictionary, r dice.Roller, newId func() string) []*Loot {
	var drops []*Loot

	if m.GoldMax > 0 {
		if gold := dice.Between(r, m.GoldMin, m.GoldMax); gold > 0 {
			drops = append(drops, NewGoldLoot(newId(), gold))
		}
	}

	for _, l := range m.Loot {
		if !dice.Chance(r, l.Chance) {
			continue
		}
		switch l.Kind {
		case LootItem:
			if it := dict.Items.Get(l.Key); it != nil {
				drops = append(drops, NewItemLoot(newId(), l.Key, it))
			}
		case LootWeapon:
			if w := dict.Weapons.Get(l.Key); w != nil {
				drops = append(drops, NewWeaponLoot(newId(), l.Key, w))
			}
		}
	}

	return drops
}

// MobileInstance is a single spawned instance of a Mobile definition.
// Callers must hold the containing room's lock.
type MobileInstance struct {
	Id         string
	TemplateId string
	Mobile     *Mobile

	HP    int
	MaxHP int

	damage    map[string]int
	attackers []string
}

func SpawnMobile(id, templateId string, m *Mobile, r dice.Roller) *MobileInstance {
	hp := max(m.HP.Roll(r), 1)
	return &MobileInstance{
		Id:         id,
		TemplateId: templateId,
		Mobile:     m,
		HP:         hp,
		MaxHP:      hp,
		damage:     map[string]int{},
	}
}

// Matches reports whether ref is this instance's id or its mobile's name.
func (mi *MobileInstance) Matches(ref string) bool {
	return strings.EqualFold(mi.Id, ref) || mi.Mobile.MatchName(ref)
}

// ApplyDamage subtracts amount, clamped at zero, and credits attackerId with
// the damage actually dealt.
func (mi *MobileInstance) ApplyDamage(attackerId string, amount int) (dealt int, slain bool) {
	dealt = min(max(amount, 0), mi.HP)
	mi.HP -= dealt

	if dealt > 0 {
		if _, ok := mi.damage[attackerId]; !ok {
			mi.attackers = append(mi.attackers, attackerId)
		}
		mi.damage[attackerId] += dealt
	}

	return dealt, mi.HP == 0
}

// Contribution is the damage one character dealt to a mobile.
type Contribution struct {
	CharacterId string
	Damage      int
}

// Contributions returns damage dealt per attacker in first-hit order.
func (mi *MobileInstance) Contributions() []Contribution {
	out := make([]Contribution, 0, len(mi.attackers))
	for _, id := range mi.attackers {
		out = append(out, Contribution{CharacterId: id, Damage: mi.damage[id]})
	}
	return out
}
