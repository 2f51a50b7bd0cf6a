package clock

import (
	"context"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/pixil98/go-dungeon/internal/dice"
	"github.com/pixil98/go-dungeon/internal/game"
	"github.com/pixil98/go-dungeon/internal/game/gametest"
	"github.com/pixil98/go-testutil"
)

type fakeRoster []*game.Character

func (r fakeRoster) Characters() []*game.Character { return r }

type fakeNotifier struct {
	mu    sync.Mutex
	rooms []string
}

func (n *fakeNotifier) RefreshRoom(_ context.Context, roomId string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.rooms = append(n.rooms, roomId)
}

type fakeTime struct {
	t time.Time
}

func (f *fakeTime) now() time.Time { return f.t }
func (f *fakeTime) advance(d time.Duration) { f.t = f.t.Add(d) }

func TestClock_Tick(t *testing.T) {
	w := gametest.NewWorld(t, dice.NewScriptedRoller(3))
	amy := gametest.NewCharacter(t, w, "amy", "Amy", "cleric")
	bob := gametest.NewCharacter(t, w, "bob", "Bob", "fighter")
	bob.Room = "hall"

	amy.StartCooldown("bless", 2*time.Second)
	bob.StartCooldown("second-wind", 60*time.Second)

	ft := &fakeTime{t: time.Unix(1000, 0)}
	n := &fakeNotifier{}
	c := NewClock(fakeRoster{amy, bob}, n, WithNow(ft.now))
	ctx := context.Background()

	// first tick only records the start time
	if err := c.Tick(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "bless untouched", amy.CooldownRemaining("bless"), 2*time.Second)

	ft.advance(time.Second)
	_ = c.Tick(ctx)
	testutil.AssertEqual(t, "bless", amy.CooldownRemaining("bless"), time.Second)
	testutil.AssertEqual(t, "second wind", bob.CooldownRemaining("second-wind"), 59*time.Second)
	testutil.AssertEqual(t, "no refresh yet", len(n.rooms), 0)

	ft.advance(1500 * time.Millisecond)
	_ = c.Tick(ctx)
	testutil.AssertEqual(t, "bless cleared", amy.CooldownRemaining("bless"), time.Duration(0))
	testutil.AssertEqual(t, "refreshes", len(n.rooms), 1)
	testutil.AssertEqual(t, "refreshed room", n.rooms[0], "entrance")
}

func TestClock_NeverIncreases(t *testing.T) {
	w := gametest.NewWorld(t, dice.NewScriptedRoller(3))
	amy := gametest.NewCharacter(t, w, "amy", "Amy", "cleric")
	amy.StartCooldown("bless", 5*time.Second)

	ft := &fakeTime{t: time.Unix(1000, 0)}
	c := NewClock(fakeRoster{amy}, &fakeNotifier{}, WithNow(ft.now))
	ctx := context.Background()
	_ = c.Tick(ctx)

	steps := []time.Duration{time.Second, 0, -3 * time.Second, 2 * time.Second, 10 * time.Second}
	last := amy.CooldownRemaining("bless")
	for _, s := range steps {
		ft.advance(s)
		_ = c.Tick(ctx)
		got := amy.CooldownRemaining("bless")
		if got > last {
			t.Fatalf("cooldown increased from %v to %v", last, got)
		}
		last = got
	}
	testutil.AssertEqual(t, "cleared", last, time.Duration(0))
}

func TestClock_EffectExpiryRefreshesEachRoomOnce(t *testing.T) {
	w := gametest.NewWorld(t, dice.NewScriptedRoller(3))
	var roster fakeRoster
	for _, id := range []string{"amy", "bob", "cat"} {
		ch := gametest.NewCharacter(t, w, id, id, "fighter")
		ch.ApplyEffect(&game.Effect{Key: "bless", Remaining: time.Second})
		roster = append(roster, ch)
	}
	roster[2].Room = "hall"

	ft := &fakeTime{t: time.Unix(1000, 0)}
	n := &fakeNotifier{}
	c := NewClock(roster, n, WithNow(ft.now))
	_ = c.Tick(context.Background())
	ft.advance(2 * time.Second)
	_ = c.Tick(context.Background())

	slices.Sort(n.rooms)
	testutil.AssertEqual(t, "refreshes", len(n.rooms), 2)
	testutil.AssertEqual(t, "first", n.rooms[0], "entrance")
	testutil.AssertEqual(t, "second", n.rooms[1], "hall")
	for _, ch := range roster {
		testutil.AssertEqual(t, ch.Id+" effects", len(ch.Effects), 0)
	}
}

func TestRespawner_Tick(t *testing.T) {
	w := gametest.NewWorld(t, dice.NewScriptedRoller(3), game.WithRespawnDelay(time.Minute))
	killed := time.Unix(1000, 0)

	hall := w.Room("hall")
	hall.Lock()
	hall.RemoveMob(hall.Mobs()[0].Id, killed)
	hall.Unlock()

	n := &fakeNotifier{}
	r := NewRespawner(w, n)

	r.now = func() time.Time { return killed.Add(10 * time.Second) }
	_ = r.Tick(context.Background())
	testutil.AssertEqual(t, "too soon", len(n.rooms), 0)

	r.now = func() time.Time { return killed.Add(2 * time.Minute) }
	_ = r.Tick(context.Background())
	testutil.AssertEqual(t, "refreshed", len(n.rooms), 1)
	testutil.AssertEqual(t, "room", n.rooms[0], "hall")
}
