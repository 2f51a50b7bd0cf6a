package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-dungeon/internal/game"
	"github.com/pixil98/go-dungeon/internal/metrics"
	"github.com/pixil98/go-dungeon/internal/player"
	"github.com/pixil98/go-dungeon/internal/session"
	"github.com/pixil98/go-errors"
)

type SessionConfig struct {
	StartRoom    string `json:"start_room,omitempty"`
	BufferSize   int    `json:"buffer_size,omitempty"`
	DefaultRace  string `json:"default_race"`
	DefaultClass string `json:"default_class"`
	IdleTimeout  string `json:"idle_timeout,omitempty"`
	RespawnDelay string `json:"respawn_delay,omitempty"`
	WrapWidth    int    `json:"wrap_width,omitempty"`
}

func (c *SessionConfig) validate() error {
	el := errors.NewErrorList()

	if c.DefaultRace == "" {
		el.Add(fmt.Errorf("session: default_race is required"))
	}
	if c.DefaultClass == "" {
		el.Add(fmt.Errorf("session: default_class is required"))
	}
	if c.BufferSize < 0 {
		el.Add(fmt.Errorf("session: buffer_size must not be negative"))
	}
	if c.WrapWidth < 0 {
		el.Add(fmt.Errorf("session: wrap_width must not be negative"))
	}
	for name, v := range map[string]string{"idle_timeout": c.IdleTimeout, "respawn_delay": c.RespawnDelay} {
		if v == "" {
			continue
		}
		if _, err := time.ParseDuration(v); err != nil {
			el.Add(fmt.Errorf("session: parsing %s: %w", name, err))
		}
	}

	return el.Err()
}

func (c *SessionConfig) worldOpts() ([]game.WorldOpt, error) {
	var opts []game.WorldOpt
	if c.StartRoom != "" {
		opts = append(opts, game.WithStartRoom(c.StartRoom))
	}
	if c.RespawnDelay != "" {
		d, err := time.ParseDuration(c.RespawnDelay)
		if err != nil {
			return nil, fmt.Errorf("parsing respawn_delay: %w", err)
		}
		opts = append(opts, game.WithRespawnDelay(d))
	}
	return opts, nil
}

func (c *SessionConfig) coordinatorOpts(m *metrics.Metrics) []session.CoordinatorOpt {
	opts := []session.CoordinatorOpt{
		session.WithDefaults(c.DefaultRace, c.DefaultClass),
		session.WithMetrics(m),
	}
	if c.BufferSize > 0 {
		opts = append(opts, session.WithBufferSize(c.BufferSize))
	}
	return opts
}

func (c *SessionConfig) consoleOpts() []player.ConsoleOpt {
	if c.WrapWidth == 0 {
		return nil
	}
	return []player.ConsoleOpt{player.WithWrapWidth(c.WrapWidth)}
}

func (c *SessionConfig) idleTickerOpts() ([]session.IdleTickerOpt, error) {
	if c.IdleTimeout == "" {
		return nil, nil
	}
	d, err := time.ParseDuration(c.IdleTimeout)
	if err != nil {
		return nil, fmt.Errorf("parsing idle_timeout: %w", err)
	}
	return []session.IdleTickerOpt{session.WithIdleTimeout(d)}, nil
}
