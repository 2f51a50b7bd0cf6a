package game

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/pixil98/go-dungeon/internal/dice"
	"github.com/pixil98/go-dungeon/internal/storage"
	"github.com/pixil98/go-errors"
)

// OwnedWeapon is one entry of a character's weapon inventory.
type OwnedWeapon struct {
	Weapon   storage.SmartIdentifier[*Weapon] `json:"weapon"`
	Equipped bool                             `json:"equipped"`
}

// Character represents a player character. Fields are guarded by the
// character lock; the resolver and the clock both take it before touching
// hp, timers, or inventories.
type Character struct {
	Id   string `json:"-"`
	Name string `json:"name"`

	Race  storage.SmartIdentifier[*Race]  `json:"race"`
	Class storage.SmartIdentifier[*Class] `json:"class"`

	Level     int           `json:"level"`
	XP        int           `json:"xp"`
	HP        int           `json:"hp"`
	MaxHP     int           `json:"max_hp"`
	BaseAC    int           `json:"base_ac"`
	Gold      int           `json:"gold"`
	Abilities AbilityScores `json:"abilities"`

	Weapons []*OwnedWeapon                    `json:"weapons"`
	Items   []storage.SmartIdentifier[*Item]  `json:"items,omitempty"`
	Spells  []storage.SmartIdentifier[*Spell] `json:"spells,omitempty"`

	// Cooldowns holds remaining time per spell key; absent means ready.
	Cooldowns map[string]time.Duration `json:"cooldowns,omitempty"`
	Effects   []*Effect                `json:"effects,omitempty"`

	// Room is the character's current location, kept across sessions.
	Room string `json:"room,omitempty"`

	mu sync.Mutex
}

// NewCharacter rolls a new level 1 character: 4d6 drop lowest per ability
// plus racial bonuses, with the class's starting weapons and spells.
func NewCharacter(id, name string, race storage.SmartIdentifier[*Race], class storage.SmartIdentifier[*Class], r dice.Roller) (*Character, error) {
	rc, cl := race.Value(), class.Value()
	if rc == nil || cl == nil {
		return nil, fmt.Errorf("race and class must be resolved")
	}

	c := &Character{
		Id:        id,
		Name:      name,
		Race:      race,
		Class:     class,
		Level:     1,
		Abilities: AbilityScores{},
		Cooldowns: map[string]time.Duration{},
	}

	for _, a := range Abilities {
		c.Abilities[a] = dice.RollDropLowest(r, 4, 6) + rc.Bonuses[a]
	}

	c.MaxHP = max(cl.HitDie+Modifier(c.Abilities[Constitution]), 1)
	c.HP = c.MaxHP
	c.BaseAC = max(10+Modifier(c.Abilities[Dexterity])+cl.ArmorBonus, 10)

	for i, w := range cl.Weapons {
		c.Weapons = append(c.Weapons, &OwnedWeapon{Weapon: w, Equipped: i == 0})
	}
	c.Spells = slices.Clone(cl.Spells)

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Character) Lock()   { c.mu.Lock() }
func (c *Character) Unlock() { c.mu.Unlock() }

func (c *Character) Validate() error {
	el := errors.NewErrorList()

	if c.Name == "" {
		el.Add(fmt.Errorf("character name is required"))
	}
	if c.Level < 1 {
		el.Add(fmt.Errorf("level must be at least 1"))
	}
	if c.MaxHP < 1 {
		el.Add(fmt.Errorf("max_hp must be positive"))
	}
	if c.HP < 0 || c.HP > c.MaxHP {
		el.Add(fmt.Errorf("hp %d out of range [0, %d]", c.HP, c.MaxHP))
	}
	el.Add(c.Race.Validate())
	el.Add(c.Class.Validate())

	equipped := 0
	for _, w := range c.Weapons {
		if w.Equipped {
			equipped++
		}
	}
	if len(c.Weapons) > 0 && equipped != 1 {
		el.Add(fmt.Errorf("exactly one weapon must be equipped, found %d", equipped))
	}

	for key, d := range c.Cooldowns {
		if d < 0 {
			el.Add(fmt.Errorf("cooldown %s is negative", key))
		}
	}

	return el.Err()
}

// Resolve resolves all references on the character from the dictionary.
func (c *Character) Resolve(dict *Dictionary) error {
	el := errors.NewErrorList()
	el.Add(c.Race.Resolve(dict.Races))
	el.Add(c.Class.Resolve(dict.Classes))
	for _, w := range c.Weapons {
		el.Add(w.Weapon.Resolve(dict.Weapons))
	}
	for i := range c.Items {
		el.Add(c.Items[i].Resolve(dict.Items))
	}
	for i := range c.Spells {
		el.Add(c.Spells[i].Resolve(dict.Spells))
	}
	if c.Cooldowns == nil {
		c.Cooldowns = map[string]time.Duration{}
	}
	if c.Abilities == nil {
		c.Abilities = AbilityScores{}
	}
	return el.Err()
}

// MatchName reports whether name is this character's name (case-insensitive).
func (c *Character) MatchName(name string) bool {
	return strings.EqualFold(c.Name, strings.TrimSpace(name))
}

// ProficiencyBonus follows the standard level table: +2 at levels 1-4.
func (c *Character) ProficiencyBonus() int {
	return 2 + (max(c.Level, 1)-1)/4
}

// Modifier returns the ability modifier including active effects.
func (c *Character) Modifier(a Ability) int {
	mod := Modifier(c.Abilities[a])
	for _, e := range c.Effects {
		mod += e.Modifiers.AbilityMods[a]
	}
	return mod
}

// AC is base armor class plus effect bonuses. Effects that raise the DEX
// modifier raise AC with it.
func (c *Character) AC() int {
	ac := c.BaseAC
	for _, e := range c.Effects {
		ac += e.Modifiers.AC + e.Modifiers.AbilityMods[Dexterity]
	}
	return ac
}

// Equipped returns the equipped weapon entry, or nil with an empty inventory.
func (c *Character) Equipped() *OwnedWeapon {
	for _, w := range c.Weapons {
		if w.Equipped {
			return w
		}
	}
	return nil
}

// AttackAbility is the ability governing the equipped weapon.
func (c *Character) AttackAbility() Ability {
	if ow := c.Equipped(); ow != nil && ow.Weapon.Value() != nil {
		return ow.Weapon.Value().Ability
	}
	return Strength
}

// AttackBonus is the attack ability modifier plus proficiency plus effects.
func (c *Character) AttackBonus() int {
	bonus := c.Modifier(c.AttackAbility()) + c.ProficiencyBonus()
	for _, e := range c.Effects {
		bonus += e.Modifiers.AttackBonus
	}
	return bonus
}

// DamageBonus is added to weapon damage rolls.
func (c *Character) DamageBonus() int {
	bonus := c.Modifier(c.AttackAbility())
	for _, e := range c.Effects {
		bonus += e.Modifiers.DamageBonus
	}
	return bonus
}

// AttackDice returns extra dice added to attack rolls by effects.
func (c *Character) AttackDice() []dice.Expr {
	var out []dice.Expr
	for _, e := range c.Effects {
		if !e.Modifiers.AttackDice.IsZero() {
			out = append(out, e.Modifiers.AttackDice)
		}
	}
	return out
}

// Equip makes the weapon matching ref (key or name) the only equipped one.
func (c *Character) Equip(ref string) (*Weapon, error) {
	var target *OwnedWeapon
	for _, w := range c.Weapons {
		if w.Weapon.Value() != nil && matchKeyOrName(ref, w.Weapon.Key(), w.Weapon.Value().Name) {
			target = w
			break
		}
	}
	if target == nil {
		return nil, Reject(ErrItemNotOwned, "You don't have a weapon called '%s'.", ref)
	}
	if target.Equipped {
		return nil, Reject(ErrAlreadyEquipped, "%s is already equipped.", target.Weapon.Value().Name)
	}

	for _, w := range c.Weapons {
		w.Equipped = w == target
	}
	return target.Weapon.Value(), nil
}

// HasWeapon reports whether the weapon key is in the inventory.
func (c *Character) HasWeapon(key string) bool {
	return slices.ContainsFunc(c.Weapons, func(w *OwnedWeapon) bool {
		return w.Weapon.Key() == key
	})
}

// AddWeapon adds a weapon to the inventory unless already owned. The first
// weapon is equipped automatically.
func (c *Character) AddWeapon(key string, w *Weapon) bool {
	if c.HasWeapon(key) {
		return false
	}
	c.Weapons = append(c.Weapons, &OwnedWeapon{
		Weapon:   storage.NewResolvedSmartIdentifier(key, w),
		Equipped: len(c.Weapons) == 0,
	})
	return true
}

func (c *Character) AddItem(key string, it *Item) {
	c.Items = append(c.Items, storage.NewResolvedSmartIdentifier(key, it))
}

// FindSpell resolves ref (key or name) among the character's known spells.
func (c *Character) FindSpell(ref string) (string, *Spell) {
	for _, s := range c.Spells {
		if s.Value() != nil && matchKeyOrName(ref, s.Key(), s.Value().Name) {
			return s.Key(), s.Value()
		}
	}
	return "", nil
}

// CooldownRemaining returns how long until the spell can be cast again.
func (c *Character) CooldownRemaining(key string) time.Duration {
	return max(c.Cooldowns[key], 0)
}

func (c *Character) StartCooldown(key string, d time.Duration) {
	if d <= 0 {
		delete(c.Cooldowns, key)
		return
	}
	if c.Cooldowns == nil {
		c.Cooldowns = map[string]time.Duration{}
	}
	c.Cooldowns[key] = d
}

// ApplyEffect adds e, replacing any active effect with the same key.
func (c *Character) ApplyEffect(e *Effect) {
	c.Effects = slices.DeleteFunc(c.Effects, func(old *Effect) bool {
		return old.Key == e.Key
	})
	c.Effects = append(c.Effects, e)
}

// Heal restores up to n hp and returns the amount restored.
func (c *Character) Heal(n int) int {
	healed := min(max(n, 0), c.MaxHP-c.HP)
	c.HP += healed
	return healed
}

// TakeDamage removes up to n hp, stopping at 0. It returns the damage dealt
// and whether the character is down.
func (c *Character) TakeDamage(n int) (int, bool) {
	dealt := min(max(n, 0), c.HP)
	c.HP -= dealt
	return dealt, c.HP == 0
}

// Revive puts a downed character back on its feet in room with full hp and
// no lingering effects. Cooldowns keep running.
func (c *Character) Revive(room string) {
	c.HP = c.MaxHP
	c.Effects = nil
	c.Room = room
}

// Snapshot returns a deep copy that can be saved without holding the lock.
// The caller must hold the character lock.
func (c *Character) Snapshot() *Character {
	cp := &Character{
		Id:        c.Id,
		Name:      c.Name,
		Race:      c.Race,
		Class:     c.Class,
		Level:     c.Level,
		XP:        c.XP,
		HP:        c.HP,
		MaxHP:     c.MaxHP,
		BaseAC:    c.BaseAC,
		Gold:      c.Gold,
		Abilities: maps.Clone(c.Abilities),
		Items:     slices.Clone(c.Items),
		Spells:    slices.Clone(c.Spells),
		Cooldowns: maps.Clone(c.Cooldowns),
		Room:      c.Room,
	}
	for _, w := range c.Weapons {
		ow := *w
		cp.Weapons = append(cp.Weapons, &ow)
	}
	for _, e := range c.Effects {
		ef := *e
		ef.Modifiers.AbilityMods = maps.Clone(e.Modifiers.AbilityMods)
		cp.Effects = append(cp.Effects, &ef)
	}
	return cp
}

// HasTimers reports whether any cooldown or effect is still running.
func (c *Character) HasTimers() bool {
	return len(c.Cooldowns) > 0 || len(c.Effects) > 0
}

// Advance counts timers down by elapsed, clamping at zero. Expired cooldowns
// are cleared and expired effects removed. It reports whether anything expired.
func (c *Character) Advance(elapsed time.Duration) bool {
	if elapsed <= 0 {
		return false
	}

	expired := false
	for key, d := range c.Cooldowns {
		d -= elapsed
		if d <= 0 {
			delete(c.Cooldowns, key)
			expired = true
			continue
		}
		c.Cooldowns[key] = d
	}

	c.Effects = slices.DeleteFunc(c.Effects, func(e *Effect) bool {
		e.Remaining -= elapsed
		if e.Remaining <= 0 {
			expired = true
			return true
		}
		return false
	})

	return expired
}

// GainXP adds experience and levels up as thresholds are crossed. It returns
// the number of levels gained.
func (c *Character) GainXP(n int) int {
	c.XP += max(n, 0)

	gained := 0
	for c.Level < MaxLevel && c.XP >= ExpForLevel(c.Level+1) {
		c.Level++
		gained++

		hitDie := 8
		if cl := c.Class.Value(); cl != nil {
			hitDie = cl.HitDie
		}
		hp := max(hitDie/2+1+Modifier(c.Abilities[Constitution]), 1)
		c.MaxHP += hp
		c.HP += hp
	}
	return gained
}
