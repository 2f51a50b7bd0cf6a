package action

import (
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pixil98/go-dungeon/internal/dice"
	"github.com/pixil98/go-dungeon/internal/game"
	"github.com/pixil98/go-dungeon/internal/game/gametest"
	"github.com/pixil98/go-dungeon/internal/presence"
	"github.com/pixil98/go-testutil"
	"golang.org/x/sync/errgroup"
)

type testRoster map[string]*game.Character

func (r testRoster) Character(id string) *game.Character { return r[id] }

type fixture struct {
	world    *game.World
	dir      *presence.Directory
	roster   testRoster
	resolver *Resolver
}

// newFixture builds the test dungeon. Every mob spawns with 6 hp; rolls
// script the resolver's dice.
func newFixture(t *testing.T, rolls ...int) *fixture {
	t.Helper()

	f := &fixture{
		world:  gametest.NewWorld(t, dice.NewScriptedRoller(3)),
		dir:    presence.NewDirectory(),
		roster: testRoster{},
	}
	f.resolver = NewResolver(f.world, f.dir, f.roster, WithRoller(dice.NewScriptedRoller(rolls...)))
	return f
}

func (f *fixture) join(t *testing.T, id, name, class, room string) *game.Character {
	t.Helper()

	c := gametest.NewCharacter(t, f.world, id, name, class)
	if room != "" {
		c.Room = room
	}
	f.roster[id] = c
	f.dir.Place(id, c.Room)
	return c
}

func messages(res *Result) string {
	var texts []string
	for _, m := range res.Messages {
		texts = append(texts, m.Text)
	}
	return strings.Join(texts, "\n")
}

func assertActionError(t *testing.T, err error, sentinel error) {
	t.Helper()
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected %v, got %v", sentinel, err)
	}
}

func TestResolver_Move(t *testing.T) {
	f := newFixture(t)
	aria := f.join(t, "aria", "Aria", "fighter", "")
	f.join(t, "bob", "Bob", "fighter", "hall")

	res, err := f.resolver.Move(aria, game.North)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.AssertEqual(t, "room", aria.Room, "hall")
	room, _ := f.dir.RoomOf("aria")
	testutil.AssertEqual(t, "presence", room, "hall")
	testutil.AssertEqual(t, "affected rooms", len(res.Rooms), 2)
	testutil.AssertEqual(t, "origin", res.Rooms[0], "entrance")
	testutil.AssertEqual(t, "destination", res.Rooms[1], "hall")
	testutil.AssertEqual(t, "left", res.Messages[0].Text, "Aria has left the room.")
	testutil.AssertEqual(t, "entered", res.Messages[1].Text, "Aria has entered the room.")
	testutil.AssertEqual(t, "not told", res.Messages[1].Exclude, "aria")
	testutil.AssertEqual(t, "hall occupants", f.dir.Count("hall"), 2)
}

func TestResolver_MoveBlocked(t *testing.T) {
	f := newFixture(t)
	aria := f.join(t, "aria", "Aria", "fighter", "")

	tests := map[string]struct {
		dir       game.Direction
		expReason string
	}{
		"closed door": {dir: game.East, expReason: "The oak door is closed."},
		"no exit":     {dir: game.West, expReason: "There is no exit that way."},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := f.resolver.Move(aria, tt.dir)
			assertActionError(t, err, game.ErrMovementBlocked)
			testutil.AssertErrorContains(t, err, tt.expReason)

			testutil.AssertEqual(t, "room", aria.Room, "entrance")
			room, _ := f.dir.RoomOf("aria")
			testutil.AssertEqual(t, "presence", room, "entrance")
		})
	}
}

func TestResolver_MoveRoundTrip(t *testing.T) {
	f := newFixture(t)
	aria := f.join(t, "aria", "Aria", "fighter", "")
	hp, ac, xp := aria.HP, aria.AC(), aria.XP

	for _, dir := range []game.Direction{game.North, game.South} {
		if _, err := f.resolver.Move(aria, dir); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	testutil.AssertEqual(t, "room", aria.Room, "entrance")
	testutil.AssertEqual(t, "hp", aria.HP, hp)
	testutil.AssertEqual(t, "ac", aria.AC(), ac)
	testutil.AssertEqual(t, "xp", aria.XP, xp)
}

func TestResolver_Attack(t *testing.T) {
	// Aria: longsword, attack +5, damage +3. Goblin: AC 15, 6 hp.
	tests := map[string]struct {
		rolls      []int
		ref        string
		expHP      int
		expSlain   bool
		expMessage string
		expXP      int
		expLoot    int
	}{
		"miss": {
			rolls:      []int{9},
			ref:        "goblin",
			expHP:      6,
			expMessage: "Aria strikes at Goblin but misses (roll 9 + 5 = 14 vs AC 15).",
		},
		"natural one": {
			rolls:      []int{1},
			ref:        "goblin",
			expHP:      6,
			expMessage: "but misses",
		},
		"hit": {
			rolls:      []int{10, 2},
			ref:        "goblin",
			expHP:      1,
			expMessage: "Aria wounds Goblin with Longsword for 5 damage (roll 10 + 5 = 15 vs AC 15).",
		},
		"kill drops gold": {
			// d20, d8, gold d11, dagger d100
			rolls:      []int{12, 8, 5, 100},
			ref:        "GOBLIN",
			expSlain:   true,
			expMessage: "Treasure spills onto the ground: 6 gold coins.",
			expXP:      50,
			expLoot:    1,
		},
		"critical": {
			rolls:      []int{20, 1, 1},
			ref:        "goblin",
			expHP:      1,
			expMessage: "critical!",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t, tt.rolls...)
			aria := f.join(t, "aria", "Aria", "fighter", "hall")

			hall := f.world.Room("hall")
			hall.Lock()
			goblin := hall.Mobs()[0]
			hall.Unlock()

			res, err := f.resolver.Attack(aria, tt.ref)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			testutil.AssertEqual(t, "rooms", len(res.Rooms), 1)
			if !strings.Contains(messages(res), tt.expMessage) {
				t.Fatalf("expected message %q in:\n%s", tt.expMessage, messages(res))
			}
			testutil.AssertEqual(t, "xp", aria.XP, tt.expXP)

			hall.Lock()
			defer hall.Unlock()
			testutil.AssertEqual(t, "loot", len(hall.Loot()), tt.expLoot)
			if tt.expSlain {
				testutil.AssertEqual(t, "removed", hall.FindMob(goblin.Id) == nil, true)
				testutil.AssertEqual(t, "hp", goblin.HP, 0)
				return
			}
			testutil.AssertEqual(t, "hp", goblin.HP, tt.expHP)
		})
	}
}

func TestResolver_AttackErrors(t *testing.T) {
	tests := map[string]struct {
		ref    string
		expErr error
	}{
		"no target":         {ref: "  ", expErr: game.ErrInvalidTarget},
		"absent mob":        {ref: "rat", expErr: game.ErrTargetNotFound},
		"self by name":      {ref: "ARIA", expErr: game.ErrInvalidTarget},
		"self by id":        {ref: "aria", expErr: game.ErrInvalidTarget},
		"player in another": {ref: "Cat", expErr: game.ErrTargetNotFound},
		"mob in another":    {ref: "giant-rat-2", expErr: game.ErrTargetNotFound},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t, 20)
			aria := f.join(t, "aria", "Aria", "fighter", "hall")
			f.join(t, "bob", "Bob", "fighter", "hall")
			f.join(t, "cat", "Cat", "cleric", "entrance")

			_, err := f.resolver.Attack(aria, tt.ref)
			assertActionError(t, err, tt.expErr)
		})
	}
}

func TestResolver_AttackPlayer(t *testing.T) {
	// Aria: longsword, attack +5, damage +3. Bob: AC 15, 13 hp.
	tests := map[string]struct {
		bobHP      int
		rolls      []int
		expHP      int
		expMessage string
	}{
		"miss": {
			bobHP:      13,
			rolls:      []int{9},
			expHP:      13,
			expMessage: "Aria attacks Bob but misses (roll 9 + 5 = 14 vs AC 15).",
		},
		"hit": {
			bobHP:      13,
			rolls:      []int{10, 2},
			expHP:      8,
			expMessage: "Aria wounds Bob with Longsword for 5 damage (roll 10 + 5 = 15 vs AC 15).",
		},
		"heavy hit": {
			bobHP:      13,
			rolls:      []int{15, 8},
			expHP:      2,
			expMessage: "Aria hits hard Bob with Longsword for 11 damage",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t, tt.rolls...)
			aria := f.join(t, "aria", "Aria", "fighter", "hall")
			bob := f.join(t, "bob", "Bob", "fighter", "hall")
			bob.HP = tt.bobHP

			res, err := f.resolver.Attack(aria, "bob")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if !strings.Contains(messages(res), tt.expMessage) {
				t.Fatalf("expected message %q in:\n%s", tt.expMessage, messages(res))
			}
			testutil.AssertEqual(t, "hp", bob.HP, tt.expHP)
			testutil.AssertEqual(t, "room", bob.Room, "hall")
		})
	}
}

func TestResolver_AttackDefeatsPlayer(t *testing.T) {
	// 1d8 8 + 3 = 11 against 4 hp.
	f := newFixture(t, 15, 8)
	aria := f.join(t, "aria", "Aria", "fighter", "hall")
	bob := f.join(t, "bob", "Bob", "fighter", "hall")
	cat := f.join(t, "cat", "Cat", "cleric", "hall")
	bob.HP = 4
	bob.ApplyEffect(&game.Effect{Key: "bless", Remaining: time.Minute})

	res, err := f.resolver.Attack(aria, "Bob")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	msgs := messages(res)
	for _, exp := range []string{
		"Aria grazes Bob with Longsword for 4 damage",
		"Bob collapses from their wounds!",
		"Bob vanishes in a swirl of grey mist.",
		"Bob staggers into the area, looking dazed.",
	} {
		if !strings.Contains(msgs, exp) {
			t.Errorf("expected message %q in:\n%s", exp, msgs)
		}
	}

	testutil.AssertEqual(t, "hp", bob.HP, bob.MaxHP)
	testutil.AssertEqual(t, "effects", len(bob.Effects), 0)
	testutil.AssertEqual(t, "room", bob.Room, f.world.StartRoom())
	room, _ := f.dir.RoomOf("bob")
	testutil.AssertEqual(t, "presence", room, f.world.StartRoom())
	testutil.AssertEqual(t, "rooms", len(res.Rooms), 2)

	var private []string
	for _, m := range res.Messages {
		if m.To == "bob" {
			private = append(private, m.Text)
		}
	}
	testutil.AssertEqual(t, "private messages", len(private), 2)
	testutil.AssertEqual(t, "wake notice", private[1], "You have been defeated. You wake in Dungeon Entrance with your wounds closed.")

	// Bob is gone from the hall.
	_, err = f.resolver.Attack(cat, "bob")
	assertActionError(t, err, game.ErrTargetNotFound)
}

func TestResolver_SharedKillSplitsXP(t *testing.T) {
	// Aria hits for 4, Bob finishes with 2: 50 xp splits 34/16 (33+1 remainder).
	f := newFixture(t, 15, 1, 15, 1, 1, 100)
	aria := f.join(t, "aria", "Aria", "fighter", "hall")
	bob := f.join(t, "bob", "Bob", "wizard", "hall")

	if _, err := f.resolver.Attack(aria, "goblin"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	res, err := f.resolver.Attack(bob, "goblin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.AssertEqual(t, "aria xp", aria.XP, 34)
	testutil.AssertEqual(t, "bob xp", bob.XP, 16)

	private := 0
	for _, m := range res.Messages {
		if m.To != "" {
			private++
		}
	}
	testutil.AssertEqual(t, "xp notices", private, 2)
}

func TestResolver_CastSpell(t *testing.T) {
	tests := map[string]struct {
		class  string
		room   string
		setup  func(f *fixture, c *game.Character)
		spell  string
		target string
		rolls  []int
		expErr error
		expMsg string
		check  func(t *testing.T, f *fixture, c *game.Character)
	}{
		"self spell with target": {
			class:  "fighter",
			spell:  "second-wind",
			target: "Bob",
			expErr: game.ErrInvalidTarget,
		},
		"self spell": {
			class: "fighter",
			setup: func(f *fixture, c *game.Character) { c.HP = 1 },
			spell: "Second Wind",
			rolls: []int{4},
			// 1d10 4 + level 1
			expMsg: "Aria casts Second Wind and restores 5 HP to Aria.",
			check: func(t *testing.T, f *fixture, c *game.Character) {
				testutil.AssertEqual(t, "hp", c.HP, 6)
				testutil.AssertEqual(t, "cooldown", c.CooldownRemaining("second-wind").Seconds(), 60.0)
			},
		},
		"unknown spell": {
			class:  "fighter",
			spell:  "fireball",
			expErr: game.ErrSpellNotFound,
		},
		"on cooldown": {
			class:  "fighter",
			setup:  func(f *fixture, c *game.Character) { c.StartCooldown("second-wind", 1) },
			spell:  "second-wind",
			expErr: game.ErrOnCooldown,
		},
		"enemy spell without target": {
			class:  "wizard",
			spell:  "magic-missile",
			expErr: game.ErrInvalidTarget,
		},
		"enemy spell at absent mob": {
			class:  "wizard",
			spell:  "magic-missile",
			target: "goblin",
			expErr: game.ErrInvalidTarget,
		},
		"enemy spell kills": {
			class:  "wizard",
			room:   "hall",
			spell:  "magic missile",
			target: "goblin",
			// 3d4+3 = 6, then gold and loot rolls
			rolls:  []int{1, 1, 1, 1, 100},
			expMsg: "Aria casts Magic Missile at Goblin, dealing 6 force damage!",
			check: func(t *testing.T, f *fixture, c *game.Character) {
				testutil.AssertEqual(t, "xp", c.XP, 50)
				hall := f.world.Room("hall")
				hall.Lock()
				defer hall.Unlock()
				testutil.AssertEqual(t, "mobs", len(hall.Mobs()), 0)
			},
		},
		"enemy spell at self": {
			class:  "wizard",
			spell:  "magic-missile",
			target: "aria",
			expErr: game.ErrInvalidTarget,
		},
		"enemy spell at player": {
			class:  "wizard",
			spell:  "magic-missile",
			target: "bob",
			rolls:  []int{1, 1, 1},
			expMsg: "Aria casts Magic Missile at Bob, dealing 6 force damage!",
			check: func(t *testing.T, f *fixture, c *game.Character) {
				testutil.AssertEqual(t, "bob hp", f.roster["bob"].HP, 7)
				testutil.AssertEqual(t, "cooldown", c.CooldownRemaining("magic-missile").Seconds(), 8.0)
			},
		},
		"enemy spell defeats player": {
			class:  "wizard",
			room:   "armory",
			setup:  func(f *fixture, c *game.Character) { f.roster["bob"].HP = 3 },
			spell:  "magic-missile",
			target: "Bob",
			rolls:  []int{1, 1, 1},
			expMsg: "Aria casts Magic Missile at Bob, dealing 3 force damage!\nBob collapses under the assault!",
			check: func(t *testing.T, f *fixture, c *game.Character) {
				bob := f.roster["bob"]
				testutil.AssertEqual(t, "bob hp", bob.HP, bob.MaxHP)
				testutil.AssertEqual(t, "bob room", bob.Room, "entrance")
				room, _ := f.dir.RoomOf("bob")
				testutil.AssertEqual(t, "bob presence", room, "entrance")
			},
		},
		"heal ally": {
			class: "cleric",
			setup: func(f *fixture, c *game.Character) { f.roster["bob"].HP = 2 },
			spell: "cure-wounds",
			// 1d8 4 + wis 3
			target: "bob",
			rolls:  []int{4},
			expMsg: "Aria casts Cure Wounds and restores 7 HP to Bob.",
			check: func(t *testing.T, f *fixture, c *game.Character) {
				testutil.AssertEqual(t, "bob hp", f.roster["bob"].HP, 9)
			},
		},
		"heal absent ally": {
			class:  "cleric",
			spell:  "cure-wounds",
			target: "Zed",
			expErr: game.ErrInvalidTarget,
		},
		"buff self": {
			class:  "cleric",
			spell:  "shield-of-faith",
			expMsg: "Aria is wreathed in Shield of Faith.",
			check: func(t *testing.T, f *fixture, c *game.Character) {
				testutil.AssertEqual(t, "effects", len(c.Effects), 1)
				testutil.AssertEqual(t, "ac", c.AC(), c.BaseAC+2)
			},
		},
		"buff ally": {
			class:  "cleric",
			spell:  "bless",
			target: "BOB",
			expMsg: "Aria casts Bless on Bob.",
			check: func(t *testing.T, f *fixture, c *game.Character) {
				testutil.AssertEqual(t, "bob effects", len(f.roster["bob"].Effects), 1)
				testutil.AssertEqual(t, "caster effects", len(c.Effects), 0)
			},
		},
		"scout": {
			class:  "wizard",
			spell:  "keen-eye",
			expMsg: "Nearby presences:\nNorth (Great Hall): No one in sight.\nEast (Old Armory): No one in sight.",
		},
		"scout with target": {
			class:  "wizard",
			spell:  "keen-eye",
			target: "north",
			expErr: game.ErrInvalidTarget,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t, tt.rolls...)
			aria := f.join(t, "aria", "Aria", tt.class, tt.room)
			f.join(t, "bob", "Bob", "fighter", aria.Room)
			if tt.setup != nil {
				tt.setup(f, aria)
			}

			res, err := f.resolver.CastSpell(aria, tt.spell, tt.target)
			if tt.expErr != nil {
				assertActionError(t, err, tt.expErr)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if !strings.Contains(messages(res), tt.expMsg) {
				t.Fatalf("expected message %q in:\n%s", tt.expMsg, messages(res))
			}
			if tt.check != nil {
				tt.check(t, f, aria)
			}
		})
	}
}

func TestResolver_CastSetsCooldownOnce(t *testing.T) {
	f := newFixture(t, 4)
	aria := f.join(t, "aria", "Aria", "cleric", "")

	if _, err := f.resolver.CastSpell(aria, "bless", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "cooldown", aria.CooldownRemaining("bless").Seconds(), 30.0)

	_, err := f.resolver.CastSpell(aria, "bless", "")
	assertActionError(t, err, game.ErrOnCooldown)
	testutil.AssertErrorContains(t, err, "Bless will be ready in 30 seconds.")
}

func TestResolver_ScoutSeesNeighbours(t *testing.T) {
	f := newFixture(t)
	aria := f.join(t, "aria", "Aria", "wizard", "")
	f.join(t, "bob", "Bob", "fighter", "hall")
	f.join(t, "cat", "Cat", "fighter", "hall")

	res, err := f.resolver.CastSpell(aria, "keen-eye", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var report Message
	for _, m := range res.Messages {
		if m.To == "aria" {
			report = m
		}
	}
	testutil.AssertEqual(t, "report", strings.Contains(report.Text, "North (Great Hall): Bob, Cat"), true)
}

func TestResolver_EquipWeapon(t *testing.T) {
	tests := map[string]struct {
		refs   []string
		expErr error
		expKey string
	}{
		"equip dagger": {
			refs:   []string{"dagger"},
			expKey: "dagger",
		},
		"already equipped": {
			refs:   []string{"longsword"},
			expErr: game.ErrAlreadyEquipped,
			expKey: "longsword",
		},
		"not owned": {
			refs:   []string{"mace"},
			expErr: game.ErrItemNotOwned,
			expKey: "longsword",
		},
		"swap back and forth": {
			refs:   []string{"dagger", "unarmed", "longsword"},
			expKey: "longsword",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			aria := f.join(t, "aria", "Aria", "fighter", "")

			var err error
			for _, ref := range tt.refs {
				_, err = f.resolver.EquipWeapon(aria, ref)
			}
			if tt.expErr != nil {
				assertActionError(t, err, tt.expErr)
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			equipped := 0
			for _, w := range aria.Weapons {
				if w.Equipped {
					equipped++
				}
			}
			testutil.AssertEqual(t, "equipped count", equipped, 1)
			testutil.AssertEqual(t, "equipped", aria.Equipped().Weapon.Key(), tt.expKey)
		})
	}
}

func TestResolver_PickupLoot(t *testing.T) {
	f := newFixture(t)
	aria := f.join(t, "aria", "Aria", "wizard", "")
	dict := f.world.Dictionary()

	entrance := f.world.Room("entrance")
	entrance.Lock()
	entrance.AddLoot(
		game.NewGoldLoot("loot-1", 7),
		game.NewItemLoot("loot-2", "rat-tail", dict.Items.Get("rat-tail")),
		game.NewWeaponLoot("loot-3", "longsword", dict.Weapons.Get("longsword")),
		game.NewWeaponLoot("loot-4", "dagger", dict.Weapons.Get("dagger")),
	)
	entrance.Unlock()

	tests := []struct {
		id     string
		expMsg string
	}{
		{id: "loot-1", expMsg: "Aria scoops up 7 gold coins."},
		{id: "LOOT-2", expMsg: "Aria picks up Rat Tail."},
		{id: "loot-3", expMsg: "Aria claims Longsword."},
		{id: "loot-4", expMsg: "Aria claims Dagger."},
	}
	for _, tt := range tests {
		res, err := f.resolver.PickupLoot(aria, tt.id)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.id, err)
		}
		testutil.AssertEqual(t, tt.id, res.Messages[0].Text, tt.expMsg)
	}

	testutil.AssertEqual(t, "gold", aria.Gold, 7)
	testutil.AssertEqual(t, "items", len(aria.Items), 1)
	// wizard starts with dagger and unarmed; the dagger is not duplicated
	testutil.AssertEqual(t, "weapons", len(aria.Weapons), 3)

	_, err := f.resolver.PickupLoot(aria, "loot-1")
	assertActionError(t, err, game.ErrLootNotFound)
}

func TestResolver_PickupLootExclusive(t *testing.T) {
	f := newFixture(t)
	var chars []*game.Character
	for _, id := range []string{"amy", "bob", "cat", "dan"} {
		chars = append(chars, f.join(t, id, id, "fighter", ""))
	}

	entrance := f.world.Room("entrance")
	entrance.Lock()
	entrance.AddLoot(game.NewGoldLoot("loot-9", 10))
	entrance.Unlock()

	var wins, misses atomic.Int32
	var g errgroup.Group
	for _, c := range chars {
		g.Go(func() error {
			_, err := f.resolver.PickupLoot(c, "loot-9")
			switch {
			case err == nil:
				wins.Add(1)
			case errors.Is(err, game.ErrLootNotFound):
				misses.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.AssertEqual(t, "winners", wins.Load(), int32(1))
	testutil.AssertEqual(t, "losers", misses.Load(), int32(3))

	total := 0
	for _, c := range chars {
		total += c.Gold
	}
	testutil.AssertEqual(t, "gold granted once", total, 10)

	entrance.Lock()
	defer entrance.Unlock()
	testutil.AssertEqual(t, "loot left", len(entrance.Loot()), 0)
}

func TestResolver_DoorAction(t *testing.T) {
	f := newFixture(t)
	aria := f.join(t, "aria", "Aria", "fighter", "")

	res, err := f.resolver.DoorAction(aria, "oak door", game.OpenDoor)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "both rooms", len(res.Rooms), 2)
	testutil.AssertEqual(t, "message", res.Messages[0].Text, "Aria opens the oak door.")
	testutil.AssertEqual(t, "open from armory", f.world.CanMove("armory", game.West).Available, true)

	res, err = f.resolver.DoorAction(aria, "oak-door", game.OpenDoor)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "no broadcast", len(res.Rooms), 0)
	testutil.AssertEqual(t, "private", res.Messages[0].To, "aria")
	testutil.AssertEqual(t, "already", res.Messages[0].Text, "The oak door is already open.")

	if _, err := f.resolver.Move(aria, game.East); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "walked through", aria.Room, "armory")

	_, err = f.resolver.DoorAction(aria, "iron gate", game.CloseDoor)
	assertActionError(t, err, game.ErrDoorNotFound)
}

func TestResolver_ActivateWarp(t *testing.T) {
	f := newFixture(t)
	aria := f.join(t, "aria", "Aria", "fighter", "")

	res, err := f.resolver.ActivateWarp(aria)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "room", aria.Room, "shrine")
	room, _ := f.dir.RoomOf("aria")
	testutil.AssertEqual(t, "presence", room, "shrine")
	testutil.AssertEqual(t, "rooms", len(res.Rooms), 2)

	_, err = f.resolver.ActivateWarp(aria)
	assertActionError(t, err, game.ErrNoWarpHere)
	testutil.AssertEqual(t, "still in shrine", aria.Room, "shrine")
}

func TestResolver_Spells(t *testing.T) {
	f := newFixture(t)
	aria := f.join(t, "aria", "Aria", "cleric", "")
	aria.StartCooldown("bless", 12_500_000_000)

	res := f.resolver.Spells(aria)
	text := res.Messages[0].Text

	testutil.AssertEqual(t, "private", res.Messages[0].To, "aria")
	testutil.AssertEqual(t, "bless on cooldown", strings.Contains(text, "Bless [buff, ally] - 13s"), true)
	testutil.AssertEqual(t, "cure ready", strings.Contains(text, "Cure Wounds [heal, ally] - ready"), true)
}
