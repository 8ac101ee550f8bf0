package game

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"
)

type Ticker interface {
	Tick(context.Context) error
}

// TickerFunc adapts a function to the Ticker interface.
type TickerFunc func(context.Context) error

func (f TickerFunc) Tick(ctx context.Context) error {
	return f(ctx)
}

// Driver runs one Ticker on a fixed interval until its context is cancelled.
// A failing or panicking iteration is logged and the loop carries on.
type Driver struct {
	name     string
	interval time.Duration
	ticker   Ticker
}

func NewDriver(name string, interval time.Duration, t Ticker) *Driver {
	return &Driver{
		name:     name,
		interval: interval,
		ticker:   t,
	}
}

func (d *Driver) Name() string {
	return d.name
}

func (d *Driver) Start(ctx context.Context) error {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := d.Tick(ctx); err != nil {
				slog.ErrorContext(ctx, "tick failed", "loop", d.name, "error", err)
			}
		}
	}
}

// Tick runs a single iteration, converting a panic into an error.
func (d *Driver) Tick(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s loop: %v\n%s", d.name, r, debug.Stack())
		}
	}()
	return d.ticker.Tick(ctx)
}
