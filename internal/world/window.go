package world

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pixil98/go-wilds/internal/registry"
)

// ChunkRegistry is the set of resident chunks keyed by coordinate.
type ChunkRegistry = registry.Registry[Coord, *Chunk]

// NewChunkRegistry returns an empty chunk registry.
func NewChunkRegistry() *ChunkRegistry {
	return registry.New[Coord, *Chunk]()
}

// WindowLoader keeps the square of chunks around a position resident.
type WindowLoader struct {
	store  ChunkStore
	chunks *ChunkRegistry
	radius int
	now    func() time.Time
}

type WindowLoaderOpt func(*WindowLoader)

// WithRadius overrides WindowRadius.
func WithRadius(r int) WindowLoaderOpt {
	return func(l *WindowLoader) {
		l.radius = r
	}
}

// WithClock overrides the time source used when touching chunks.
func WithClock(now func() time.Time) WindowLoaderOpt {
	return func(l *WindowLoader) {
		l.now = now
	}
}

func NewWindowLoader(store ChunkStore, chunks *ChunkRegistry, opts ...WindowLoaderOpt) *WindowLoader {
	l := &WindowLoader{
		store:  store,
		chunks: chunks,
		radius: WindowRadius,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Radius returns the window radius in chunks.
func (l *WindowLoader) Radius() int {
	return l.radius
}

// LoadWindow makes every chunk in the window around pos resident and returns
// the window's center. Chunks already resident are only touched. A failure
// to materialize one coordinate does not stop the rest of the window from
// loading; every failure is returned joined.
func (l *WindowLoader) LoadWindow(ctx context.Context, pos Position) (Coord, error) {
	center := ChunkCoordOf(pos)
	return center, l.LoadAround(ctx, center)
}

// LoadAround is LoadWindow for a known center chunk.
func (l *WindowLoader) LoadAround(ctx context.Context, center Coord) error {
	now := l.now()

	var errs []error
	for _, c := range Window(center, l.radius) {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		if ch, ok := l.chunks.Load(c); ok {
			ch.Touch(now)
			continue
		}

		ch, err := l.store.GetChunk(ctx, c.X, c.Z)
		if err != nil {
			errs = append(errs, fmt.Errorf("loading chunk %s: %w", c, err))
			continue
		}
		ch.Touch(now)
		ch.SetActive(true)

		// Another loader may have raced us to the same coordinate; keep
		// whichever landed first so both callers share one chunk.
		if existing, loaded := l.chunks.LoadOrStore(c, ch); loaded {
			existing.Touch(now)
		}
	}
	return errors.Join(errs...)
}
