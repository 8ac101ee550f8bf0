package command

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/pixil98/go-service"

	"github.com/pixil98/go-wilds/internal/commands"
	"github.com/pixil98/go-wilds/internal/game"
	"github.com/pixil98/go-wilds/internal/listener"
	"github.com/pixil98/go-wilds/internal/messaging"
	"github.com/pixil98/go-wilds/internal/player"
	"github.com/pixil98/go-wilds/internal/session"
)

func BuildWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.logLevel()})))

	// Storage
	accounts, err := cfg.Storage.Accounts.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating account store: %w", err)
	}
	players, err := cfg.Storage.Players.BuildPlayerStore(context.Background())
	if err != nil {
		return nil, fmt.Errorf("creating player store: %w", err)
	}

	// Messaging
	bus, err := cfg.Nats.BuildNatsServer()
	if err != nil {
		_ = players.Close()
		return nil, fmt.Errorf("creating nats server: %w", err)
	}

	// Game
	sessions := session.NewRegistry()
	server, err := cfg.World.BuildServer(sessions, players, messaging.NewNotifier(bus))
	if err != nil {
		_ = players.Close()
		return nil, fmt.Errorf("creating game server: %w", err)
	}

	cmds := commands.NewHandler()
	if err := commands.RegisterBuiltins(cmds, server, sessions); err != nil {
		_ = players.Close()
		return nil, fmt.Errorf("registering commands: %w", err)
	}

	pm := player.NewPlayerManager(session.NewAuthenticator(accounts), sessions, server, bus, cmds)
	cm := listener.NewConnectionManager(pm)

	workers := service.WorkerList{
		"nats": bus,
		"game": &gameWorker{server: server, store: players},
	}

	for i, l := range cfg.Listeners {
		w, err := l.BuildListener(cm)
		if err != nil {
			_ = players.Close()
			return nil, fmt.Errorf("creating listener %d: %w", i, err)
		}
		workers[fmt.Sprintf("listener-%d-%s", i, l.Protocol)] = &readyWorker{ready: bus, worker: w}
	}

	if cfg.Health.Enabled() {
		workers["health"] = cfg.Health.BuildHealthServer(server)
	}

	return workers, nil
}

// gameWorker runs the game server and releases the player store once the
// server's final flush is done.
type gameWorker struct {
	server *game.Server
	store  ClosablePlayerStore
}

func (w *gameWorker) Start(ctx context.Context) error {
	err := w.server.Start(ctx)
	if cerr := w.store.Close(); cerr != nil {
		slog.Warn("closing player store", "error", cerr)
	}
	return err
}

type readiness interface {
	WaitReady(ctx context.Context) error
}

// readyWorker holds a worker back until a dependency is ready.
type readyWorker struct {
	ready  readiness
	worker service.Worker
}

func (w *readyWorker) Start(ctx context.Context) error {
	if err := w.ready.WaitReady(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
	return w.worker.Start(ctx)
}
