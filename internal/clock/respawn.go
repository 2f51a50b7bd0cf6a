package clock

import (
	"context"
	"log/slog"
	"time"

	"github.com/pixil98/go-dungeon/internal/game"
)

// Respawner refills empty mob spawn slots once their delay has passed.
type Respawner struct {
	world  *game.World
	notify Notifier
	now    func() time.Time
}

func NewRespawner(world *game.World, notify Notifier) *Respawner {
	return &Respawner{
		world:  world,
		notify: notify,
		now:    time.Now,
	}
}

// Tick satisfies driver.Ticker.
func (r *Respawner) Tick(ctx context.Context) error {
	for _, room := range r.world.Respawn(ctx, r.now()) {
		slog.InfoContext(ctx, "mobs respawned", "room", room)
		r.notify.RefreshRoom(ctx, room)
	}
	return nil
}
