package command

import (
	"context"
	"fmt"

	"github.com/pixil98/go-service"

	"github.com/pixil98/cryptocity/internal/console"
	"github.com/pixil98/cryptocity/internal/driver"
	"github.com/pixil98/cryptocity/internal/listener"
	"github.com/pixil98/cryptocity/internal/messaging"
	"github.com/pixil98/cryptocity/internal/tuning"
)

func BuildWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}

	tn, err := tuning.Load(cfg.TuningPath)
	if err != nil {
		return nil, fmt.Errorf("loading tuning: %w", err)
	}

	// Assets
	puzzles, err := cfg.Storage.buildPuzzleStore()
	if err != nil {
		return nil, fmt.Errorf("creating puzzle store: %w", err)
	}
	archive, err := cfg.Storage.buildArchive()
	if err != nil {
		return nil, fmt.Errorf("creating puzzle archive: %w", err)
	}
	monoliths, err := cfg.Storage.buildMonoliths()
	if err != nil {
		return nil, fmt.Errorf("creating monolith store: %w", err)
	}

	provider, err := cfg.Tutorial.buildProvider(puzzles, archive)
	if err != nil {
		return nil, fmt.Errorf("creating tutorial provider: %w", err)
	}

	// Event bus
	natsServer, err := cfg.Nats.buildNatsServer()
	if err != nil {
		return nil, fmt.Errorf("creating nats server: %w", err)
	}
	events := messaging.NewEventPublisher(natsServer)

	sessions := cfg.Session.buildManager(tn, monoliths, provider, events)

	frameDriver := driver.NewFrameDriver([]driver.Manager{sessions}, cfg.driverOpts()...)

	// Listeners
	cm := listener.NewConnectionManager(console.New(sessions, events))
	listeners := make(service.WorkerList, len(cfg.Listeners))
	for i, l := range cfg.Listeners {
		w, err := l.buildListener(cm, sessions, events)
		if err != nil {
			return nil, fmt.Errorf("creating listener %d: %w", i, err)
		}
		listeners[fmt.Sprintf("listener-%d", i)] = &readyWorker{ready: natsServer.Ready(), worker: w}
	}

	return service.WorkerList{
		"nats":      natsServer,
		"driver":    frameDriver,
		"listeners": &listeners,
	}, nil
}

// readyWorker holds a worker back until ready is closed. Listeners wait on the
// event bus so the first connection can subscribe to its session.
type readyWorker struct {
	ready  <-chan struct{}
	worker service.Worker
}

func (w *readyWorker) Start(ctx context.Context) error {
	select {
	case <-w.ready:
	case <-ctx.Done():
		return nil
	}
	return w.worker.Start(ctx)
}
