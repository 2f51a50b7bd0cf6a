// Package driver runs periodic background work such as the cooldown clock,
// mob respawns, and idle checks.
package driver

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

const (
	DefaultTickLength = time.Second
)

// Ticker is work run once per driver tick.
type Ticker interface {
	Tick(context.Context) error
}

// Driver runs every Ticker in order on a fixed interval. A failing ticker is
// logged and does not stop the others.
type Driver struct {
	tickLength time.Duration
	tickers    []Ticker
}

func NewDriver(tickers []Ticker, opts ...DriverOpt) *Driver {
	d := &Driver{
		tickLength: DefaultTickLength,
		tickers:    tickers,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

func (d *Driver) Start(ctx context.Context) error {
	ticker := time.NewTicker(d.tickLength)
	defer ticker.Stop()

	slog.InfoContext(ctx, "driver started", "tick", d.tickLength, "tickers", len(d.tickers))
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			d.Tick(ctx)
		}
	}
}

func (d *Driver) Tick(ctx context.Context) {
	for _, t := range d.tickers {
		if err := t.Tick(ctx); err != nil {
			slog.ErrorContext(ctx, "driver tick", "ticker", fmt.Sprintf("%T", t), "error", err)
		}
	}
}
