package session

import (
	"context"
	"log/slog"
	"time"
)

const DefaultIdleTimeout = 15 * time.Minute

// IdleTicker disconnects sessions that have sent nothing for too long.
type IdleTicker struct {
	co          *Coordinator
	idleTimeout time.Duration
}

type IdleTickerOpt func(*IdleTicker)

func WithIdleTimeout(d time.Duration) IdleTickerOpt {
	return func(it *IdleTicker) {
		it.idleTimeout = d
	}
}

func NewIdleTicker(co *Coordinator, opts ...IdleTickerOpt) *IdleTicker {
	it := &IdleTicker{
		co:          co,
		idleTimeout: DefaultIdleTimeout,
	}
	for _, opt := range opts {
		opt(it)
	}
	return it
}

func (it *IdleTicker) Tick(ctx context.Context) error {
	cutoff := it.co.now().Add(-it.idleTimeout)

	// Collect under the read lock, act after; Leave takes the write lock.
	var idle []*Session
	it.co.mu.RLock()
	for _, s := range it.co.sessions {
		if s.idleSince().Before(cutoff) {
			idle = append(idle, s)
		}
	}
	it.co.mu.RUnlock()

	for _, s := range idle {
		it.co.kick(s, "You have been idle too long.")
		if err := it.co.Leave(ctx, s); err != nil {
			slog.ErrorContext(ctx, "saving idle player", "player", s.PlayerId, "error", err)
		}
		slog.InfoContext(ctx, "idle player kicked", "player", s.PlayerId)
	}

	return nil
}
