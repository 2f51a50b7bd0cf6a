package command

import (
	"fmt"

	"github.com/pixil98/go-dungeon/internal/clock"
	"github.com/pixil98/go-dungeon/internal/driver"
	"github.com/pixil98/go-dungeon/internal/game"
	"github.com/pixil98/go-dungeon/internal/listener"
	"github.com/pixil98/go-dungeon/internal/metrics"
	"github.com/pixil98/go-dungeon/internal/player"
	"github.com/pixil98/go-dungeon/internal/presence"
	"github.com/pixil98/go-dungeon/internal/session"
	"github.com/pixil98/go-dungeon/internal/storage"
	"github.com/pixil98/go-service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func BuildWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}

	tick, err := cfg.tickInterval()
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Load the world
	dict, err := cfg.Storage.BuildDictionary()
	if err != nil {
		return nil, fmt.Errorf("building dictionary: %w", err)
	}
	worldOpts, err := cfg.Session.worldOpts()
	if err != nil {
		return nil, err
	}
	world, err := game.NewWorld(dict, worldOpts...)
	if err != nil {
		return nil, fmt.Errorf("building world: %w", err)
	}

	chars, err := cfg.Storage.Characters.buildRepository()
	if err != nil {
		return nil, err
	}

	nats, err := cfg.Nats.buildNatsServer()
	if err != nil {
		return nil, fmt.Errorf("creating nats server: %w", err)
	}

	co := session.NewCoordinator(world, presence.NewDirectory(), nats, chars, cfg.Session.coordinatorOpts(metrics.New(reg))...)

	// Background sweeps
	idleOpts, err := cfg.Session.idleTickerOpts()
	if err != nil {
		return nil, err
	}
	drv := driver.NewDriver([]driver.Ticker{
		clock.NewClock(co, co),
		clock.NewRespawner(world, co),
		session.NewIdleTicker(co, idleOpts...),
	}, driver.WithTickLength(tick))

	// Create Listeners
	console := player.NewConsole(co, chars,
		storage.NewSelectableStorer(dict.Races),
		storage.NewSelectableStorer(dict.Classes),
		cfg.Session.consoleOpts()...,
	)
	cm := listener.NewConnectionManager(console)

	listeners := make(service.WorkerList, len(cfg.Listeners))
	for i, l := range cfg.Listeners {
		w, err := l.BuildListener(cm, co, reg)
		if err != nil {
			return nil, fmt.Errorf("creating listener %d: %w", i, err)
		}
		listeners[fmt.Sprintf("listener-%d", i)] = w
	}

	return service.WorkerList{
		"nats":        nats,
		"coordinator": co,
		"driver":      drv,
		"listeners":   &listeners,
	}, nil
}
