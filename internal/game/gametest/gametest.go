// Package gametest builds a small, fully resolved dungeon for tests.
//
// Layout:
//
//	           hall (0,-1)  [goblin]
//	             |
//	entrance (0,0) ==oak door== armory (1,0)  [giant rat]
//	  warp stone -> shrine (5,5)
package gametest

import (
	"testing"

	"github.com/pixil98/go-dungeon/internal/dice"
	"github.com/pixil98/go-dungeon/internal/game"
	"github.com/pixil98/go-dungeon/internal/storage"
)

func ability(a game.Ability) *game.Ability {
	return &a
}

func weapons() map[string]*game.Weapon {
	return map[string]*game.Weapon{
		"unarmed":   {Name: "Unarmed", Dice: dice.MustParse("1d1"), Ability: game.Strength, DamageType: "bludgeoning"},
		"longsword": {Name: "Longsword", Dice: dice.MustParse("1d8"), Ability: game.Strength, DamageType: "slashing"},
		"dagger":    {Name: "Dagger", Dice: dice.MustParse("1d4"), Ability: game.Dexterity, DamageType: "piercing"},
		"mace":      {Name: "Mace", Dice: dice.MustParse("1d6"), Ability: game.Strength, DamageType: "bludgeoning"},
	}
}

func spells() map[string]*game.Spell {
	return map[string]*game.Spell{
		"magic-missile": {
			Name: "Magic Missile", Kind: game.SpellAttack, Target: game.TargetEnemy,
			CooldownSeconds: 8, Dice: dice.MustParse("3d4+3"), DamageType: "force",
		},
		"cure-wounds": {
			Name: "Cure Wounds", Kind: game.SpellHeal, Target: game.TargetAlly,
			CooldownSeconds: 10, Dice: dice.MustParse("1d8"), Ability: ability(game.Wisdom),
		},
		"second-wind": {
			Name: "Second Wind", Kind: game.SpellHeal, Target: game.TargetSelf,
			CooldownSeconds: 60, Dice: dice.MustParse("1d10"), AddLevel: true,
		},
		"shield-of-faith": {
			Name: "Shield of Faith", Kind: game.SpellBuff, Target: game.TargetAlly, CooldownSeconds: 30,
			Effect: &game.EffectTemplate{Name: "Shield of Faith", DurationSeconds: 120, Modifiers: game.Modifiers{AC: 2}},
		},
		"bless": {
			Name: "Bless", Kind: game.SpellBuff, Target: game.TargetAlly, CooldownSeconds: 30,
			Effect: &game.EffectTemplate{Name: "Blessed", DurationSeconds: 120, Modifiers: game.Modifiers{AttackDice: dice.MustParse("1d4")}},
		},
		"keen-eye": {
			Name: "Keen Eye", Kind: game.SpellUtility, Target: game.TargetNone, CooldownSeconds: 30, Scout: true,
		},
	}
}

func classes() map[string]*game.Class {
	w := storage.NewSmartIdentifier[*game.Weapon]
	s := storage.NewSmartIdentifier[*game.Spell]
	return map[string]*game.Class{
		"fighter": {
			Name: "Fighter", HitDie: 10, Primary: game.Strength, ArmorBonus: 2,
			Weapons: []storage.SmartIdentifier[*game.Weapon]{w("longsword"), w("dagger"), w("unarmed")},
			Spells:  []storage.SmartIdentifier[*game.Spell]{s("second-wind")},
		},
		"wizard": {
			Name: "Wizard", HitDie: 6, Primary: game.Intelligence,
			Weapons: []storage.SmartIdentifier[*game.Weapon]{w("dagger"), w("unarmed")},
			Spells:  []storage.SmartIdentifier[*game.Spell]{s("magic-missile"), s("keen-eye")},
		},
		"cleric": {
			Name: "Cleric", HitDie: 8, Primary: game.Wisdom, ArmorBonus: 1,
			Weapons: []storage.SmartIdentifier[*game.Weapon]{w("mace"), w("unarmed")},
			Spells:  []storage.SmartIdentifier[*game.Spell]{s("cure-wounds"), s("shield-of-faith"), s("bless")},
		},
	}
}

func mobiles() map[string]*game.Mobile {
	return map[string]*game.Mobile{
		"goblin": {
			Name: "Goblin", AC: 15, HP: dice.MustParse("2d6"), XP: 50, GoldMin: 2, GoldMax: 12,
			Loot: []game.LootDrop{{Kind: game.LootWeapon, Key: "dagger", Chance: 0.2}},
		},
		"giant-rat": {
			Name: "Giant Rat", Aliases: []string{"rat"}, AC: 12, HP: dice.MustParse("2d6"), XP: 25, GoldMin: 1, GoldMax: 6,
			Loot: []game.LootDrop{{Kind: game.LootItem, Key: "rat-tail", Chance: 0.6}},
		},
	}
}

func rooms() map[string]*game.Room {
	m := storage.NewSmartIdentifier[*game.Mobile]
	return map[string]*game.Room{
		"entrance": {
			Name: "Dungeon Entrance", Description: "A damp stone archway.", X: 0, Y: 0, Start: true,
			Exits: map[game.Direction]game.Exit{
				game.North: {RoomId: "hall"},
				game.East:  {RoomId: "armory", DoorId: "oak-door"},
			},
			Warp: &game.WarpStone{Description: "A humming blue stone.", Destination: "shrine"},
		},
		"hall": {
			Name: "Great Hall", Description: "Banners rot on the walls.", X: 0, Y: -1,
			Exits:  map[game.Direction]game.Exit{game.South: {RoomId: "entrance"}},
			Spawns: []storage.SmartIdentifier[*game.Mobile]{m("goblin")},
		},
		"armory": {
			Name: "Old Armory", Description: "Empty racks line the walls.", X: 1, Y: 0,
			Exits:  map[game.Direction]game.Exit{game.West: {RoomId: "entrance", DoorId: "oak-door"}},
			Spawns: []storage.SmartIdentifier[*game.Mobile]{m("giant-rat")},
		},
		"shrine": {
			Name: "Hidden Shrine", Description: "Candles burn without melting.", X: 5, Y: 5,
		},
	}
}

// NewDictionary returns a resolved dictionary backed by memory stores.
func NewDictionary(t testing.TB) *game.Dictionary {
	t.Helper()

	dict := &game.Dictionary{
		Weapons: storage.NewMemoryStore(weapons()),
		Items: storage.NewMemoryStore(map[string]*game.Item{
			"rat-tail": {Name: "Rat Tail", Description: "A scaly tail.", Rarity: "common"},
		}),
		Spells: storage.NewMemoryStore(spells()),
		Races: storage.NewMemoryStore(map[string]*game.Race{
			"human": {Name: "Human", Bonuses: game.AbilityScores{
				game.Strength: 1, game.Dexterity: 1, game.Constitution: 1,
				game.Intelligence: 1, game.Wisdom: 1, game.Charisma: 1,
			}},
			"elf": {Name: "Elf", Bonuses: game.AbilityScores{game.Dexterity: 2}},
		}),
		Classes: storage.NewMemoryStore(classes()),
		Mobiles: storage.NewMemoryStore(mobiles()),
		Rooms:   storage.NewMemoryStore(rooms()),
		Doors: storage.NewMemoryStore(map[string]*game.Door{
			"oak-door": {Name: "oak door", Rooms: [2]string{"entrance", "armory"}, Closed: true},
		}),
	}

	if err := dict.Resolve(); err != nil {
		t.Fatalf("resolving dictionary: %v", err)
	}
	return dict
}

// NewWorld builds the fixture world. Mob hit points come from roller.
func NewWorld(t testing.TB, roller dice.Roller, opts ...game.WorldOpt) *game.World {
	t.Helper()

	opts = append([]game.WorldOpt{game.WithRoller(roller)}, opts...)
	w, err := game.NewWorld(NewDictionary(t), opts...)
	if err != nil {
		t.Fatalf("building world: %v", err)
	}
	return w
}

// NewCharacter creates a human of the given class with every ability at 16
// (modifier +3), placed in the start room.
func NewCharacter(t testing.TB, w *game.World, id, name, class string) *game.Character {
	t.Helper()

	dict := w.Dictionary()
	race := storage.NewSmartIdentifier[*game.Race]("human")
	cl := storage.NewSmartIdentifier[*game.Class](class)
	if err := race.Resolve(dict.Races); err != nil {
		t.Fatalf("resolving race: %v", err)
	}
	if err := cl.Resolve(dict.Classes); err != nil {
		t.Fatalf("resolving class: %v", err)
	}

	c, err := game.NewCharacter(id, name, race, cl, dice.NewScriptedRoller(5))
	if err != nil {
		t.Fatalf("creating character: %v", err)
	}
	c.Room = w.StartRoom()
	return c
}
