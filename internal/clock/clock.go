// Package clock counts down character cooldowns and effects and refills
// mob spawns as wall-clock time passes.
package clock

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/pixil98/go-dungeon/internal/game"
)

// Roster lists the characters currently in the world.
type Roster interface {
	Characters() []*game.Character
}

// Notifier pushes a fresh snapshot to everyone in a room.
type Notifier interface {
	RefreshRoom(ctx context.Context, roomId string)
}

// Clock sweeps every online character's timers. Each sweep advances them by
// the wall time elapsed since the previous sweep.
type Clock struct {
	roster Roster
	notify Notifier
	now    func() time.Time

	mu   sync.Mutex
	last time.Time
}

type ClockOpt func(*Clock)

// WithNow replaces the time source.
func WithNow(now func() time.Time) ClockOpt {
	return func(c *Clock) {
		c.now = now
	}
}

func NewClock(roster Roster, notify Notifier, opts ...ClockOpt) *Clock {
	c := &Clock{
		roster: roster,
		notify: notify,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Tick satisfies driver.Ticker.
func (c *Clock) Tick(ctx context.Context) error {
	c.mu.Lock()
	now := c.now()
	elapsed := time.Duration(0)
	if !c.last.IsZero() {
		elapsed = now.Sub(c.last)
	}
	c.last = now
	c.mu.Unlock()

	if elapsed <= 0 {
		return nil
	}

	rooms := map[string]struct{}{}
	for _, ch := range c.roster.Characters() {
		ch.Lock()
		expired := ch.Advance(elapsed)
		room := ch.Room
		ch.Unlock()

		if expired {
			slog.DebugContext(ctx, "timers expired", "character", ch.Id, "room", room)
			rooms[room] = struct{}{}
		}
	}

	for room := range rooms {
		c.notify.RefreshRoom(ctx, room)
	}
	return nil
}
