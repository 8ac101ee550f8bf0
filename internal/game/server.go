package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"runtime/debug"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pixil98/go-wilds/internal/registry"
	"github.com/pixil98/go-wilds/internal/skills"
	"github.com/pixil98/go-wilds/internal/world"
)

const shutdownFlushTimeout = 30 * time.Second

var effectNotices = map[string]string{
	EffectHungry:     "You are getting hungry.",
	EffectThirsty:    "You are getting thirsty.",
	EffectStarving:   "You are starving!",
	EffectDehydrated: "You are dying of thirst!",
	EffectExhausted:  "You are exhausted.",
}

// Server owns the live player and chunk registries and the three periodic
// loops that act on them.
type Server struct {
	sessions    SessionLookup
	playerStore PlayerStore
	chunkStore  world.ChunkStore
	notifier    Notifier

	tickInterval     time.Duration
	autosaveInterval time.Duration
	skillInterval    time.Duration

	tuning     Tuning
	rng        skills.Random
	skillHooks []skills.Hook
	skillHook  skills.Hook
	radius     int
	evict      bool
	now        func() time.Time

	players *registry.Registry[string, *PlayerState]
	chunks  *world.ChunkRegistry
	loader  *world.WindowLoader

	// windowMu is held shared while a window is registered and loaded and
	// exclusively while evicting.
	windowMu sync.RWMutex

	startedAt time.Time
	started   atomic.Bool
}

func NewServer(sessions SessionLookup, players PlayerStore, chunks world.ChunkStore, opts ...ServerOpt) (*Server, error) {
	s := &Server{
		sessions:         sessions,
		playerStore:      players,
		chunkStore:       chunks,
		notifier:         noopNotifier{},
		tickInterval:     DefaultTickInterval,
		autosaveInterval: DefaultAutosaveInterval,
		skillInterval:    DefaultSkillInterval,
		tuning:           DefaultTuning(),
		radius:           world.WindowRadius,
		evict:            true,
		now:              time.Now,
		players:          registry.New[string, *PlayerState](),
		chunks:           world.NewChunkRegistry(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if err := s.validate(); err != nil {
		return nil, err
	}

	s.skillHook = skills.Chain(s.skillHooks...)
	if s.rng == nil {
		s.rng = skills.NewRandom(uint64(s.now().UnixNano()))
	}
	s.loader = world.NewWindowLoader(s.chunkStore, s.chunks, world.WithRadius(s.radius), world.WithClock(s.now))
	s.startedAt = s.now()

	return s, nil
}

func (s *Server) validate() error {
	var errs []error
	if s.sessions == nil {
		errs = append(errs, errors.New("session lookup is required"))
	}
	if s.playerStore == nil {
		errs = append(errs, errors.New("player store is required"))
	}
	if s.chunkStore == nil {
		errs = append(errs, errors.New("chunk store is required"))
	}
	if s.notifier == nil {
		errs = append(errs, errors.New("notifier must not be nil"))
	}
	for _, h := range s.skillHooks {
		if h == nil {
			errs = append(errs, errors.New("skill hook must not be nil"))
			break
		}
	}
	if s.tickInterval <= 0 || s.autosaveInterval <= 0 || s.skillInterval <= 0 {
		errs = append(errs, errors.New("loop intervals must be positive"))
	}
	if s.radius < 0 {
		errs = append(errs, errors.New("window radius must not be negative"))
	}
	if err := s.tuning.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("tuning: %w", err))
	}
	return errors.Join(errs...)
}

// Start runs the gameplay, autosave and skill loops until ctx is cancelled.
// It returns once all three have stopped and a final flush has run.
func (s *Server) Start(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}

	drivers := []*Driver{
		NewDriver("gameplay", s.tickInterval, TickerFunc(s.gameplayTick)),
		NewDriver("autosave", s.autosaveInterval, TickerFunc(s.autosave)),
		NewDriver("skills", s.skillInterval, TickerFunc(s.skillTick)),
	}

	var wg sync.WaitGroup
	for _, d := range drivers {
		wg.Add(1)
		go func(d *Driver) {
			defer wg.Done()
			if err := d.Start(ctx); err != nil {
				slog.ErrorContext(ctx, "loop exited", "loop", d.Name(), "error", err)
			}
		}(d)
	}
	slog.InfoContext(ctx, "game server started",
		"tick", s.tickInterval, "autosave", s.autosaveInterval, "skills", s.skillInterval)

	<-ctx.Done()
	wg.Wait()

	flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownFlushTimeout)
	defer cancel()
	if err := s.flush(flushCtx); err != nil {
		slog.ErrorContext(flushCtx, "final flush incomplete", "error", err)
	}

	slog.InfoContext(flushCtx, "game server stopped")
	return nil
}

// guard runs fn for one entity, logging its error or panic so that one bad
// entity never aborts the iteration over the rest.
func (s *Server) guard(ctx context.Context, loop string, key string, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "recovered panic", "loop", loop, "entity", key, "panic", r, "stack", string(debug.Stack()))
		}
	}()
	if err := fn(); err != nil {
		slog.ErrorContext(ctx, "iteration failed", "loop", loop, "entity", key, "error", err)
	}
}

func (s *Server) gameplayTick(ctx context.Context) error {
	now := s.now()
	s.chunks.Range(func(_ world.Coord, ch *world.Chunk) bool {
		ch.Touch(now)
		return true
	})

	s.players.Range(func(id string, ps *PlayerState) bool {
		s.guard(ctx, "gameplay", id, func() error {
			return s.tickPlayer(ctx, ps)
		})
		return ctx.Err() == nil
	})
	return nil
}

func (s *Server) tickPlayer(ctx context.Context, ps *PlayerState) error {
	sess := ps.Session()
	if !sess.IsAuthenticated() {
		return nil
	}

	for _, tag := range ps.PassiveStep(s.tuning) {
		msg, ok := effectNotices[tag]
		if !ok {
			continue
		}
		if err := s.notifier.Notify(ctx, ps.ID(), msg); err != nil {
			slog.WarnContext(ctx, "notifying player", "playerId", ps.ID(), "effect", tag, "error", err)
		}
	}

	center := world.ChunkCoordOf(sess.Position())

	s.windowMu.RLock()
	defer s.windowMu.RUnlock()
	if !ps.swapWindowCenter(center) {
		return nil
	}
	if err := s.loader.LoadAround(ctx, center); err != nil {
		return fmt.Errorf("re-centering window on %s: %w", center, err)
	}
	return nil
}

func (s *Server) autosave(ctx context.Context) error {
	start := s.now()

	saved, chunkErr := world.SaveAll(ctx, s.chunkStore, s.chunks.Values())
	if chunkErr != nil {
		slog.ErrorContext(ctx, "saving chunks", "error", chunkErr)
	}

	players := 0
	s.players.Range(func(id string, ps *PlayerState) bool {
		s.guard(ctx, "autosave", id, func() error {
			if err := s.savePlayer(ctx, ps); err != nil {
				return err
			}
			players++
			return nil
		})
		return true
	})

	evicted := 0
	if s.evict {
		evicted = s.evictChunks(ctx)
	}

	slog.InfoContext(ctx, "autosave complete",
		"chunks", saved, "players", players, "evicted", evicted, "duration", s.now().Sub(start))
	return nil
}

// evictChunks unloads clean chunks that lie outside every live player's
// window. Dirty chunks stay resident until a save succeeds.
func (s *Server) evictChunks(ctx context.Context) int {
	s.windowMu.Lock()
	defer s.windowMu.Unlock()

	var centers []world.Coord
	s.players.Range(func(_ string, ps *PlayerState) bool {
		centers = append(centers, ps.WindowCenter())
		return true
	})

	evicted := 0
	s.chunks.Range(func(c world.Coord, ch *world.Chunk) bool {
		if ch.Dirty() || s.pinned(centers, c) {
			return true
		}
		ch.SetActive(false)
		s.chunks.Delete(c)
		evicted++
		return true
	})
	if evicted > 0 {
		slog.DebugContext(ctx, "evicted chunks", "count", evicted)
	}
	return evicted
}

func (s *Server) pinned(centers []world.Coord, c world.Coord) bool {
	for _, center := range centers {
		if world.InWindow(center, c, s.radius) {
			return true
		}
	}
	return false
}

func (s *Server) skillTick(ctx context.Context) error {
	s.players.Range(func(id string, ps *PlayerState) bool {
		s.guard(ctx, "skills", id, func() error {
			s.skillHook(ps.Skills)
			return nil
		})
		return true
	})
	return nil
}

// flush persists every resident chunk and live player.
func (s *Server) flush(ctx context.Context) error {
	_, err := world.SaveAll(ctx, s.chunkStore, s.chunks.Values())
	errs := []error{err}
	s.players.Range(func(_ string, ps *PlayerState) bool {
		errs = append(errs, s.savePlayer(ctx, ps))
		return true
	})
	return errors.Join(errs...)
}

func (s *Server) savePlayer(ctx context.Context, ps *PlayerState) error {
	d := ps.Data()
	d.SavedAt = s.now()
	if err := s.playerStore.SavePlayer(ctx, ps.ID(), d); err != nil {
		return fmt.Errorf("saving player %s: %w", ps.ID(), err)
	}
	return nil
}

// Player returns the live state for playerID.
func (s *Server) Player(playerID string) (*PlayerState, bool) {
	return s.players.Load(playerID)
}

// PlayerIDs returns the ids of every live player in sorted order.
func (s *Server) PlayerIDs() []string {
	ids := s.players.Keys()
	sort.Strings(ids)
	return ids
}

func (s *Server) PlayerCount() int {
	return s.players.Len()
}

func (s *Server) ChunkCount() int {
	return s.chunks.Len()
}

// Uptime is the time elapsed since the server was created.
func (s *Server) Uptime() time.Duration {
	return s.now().Sub(s.startedAt)
}

// BlockAt returns the surface block under pos if its chunk is resident.
func (s *Server) BlockAt(pos world.Position) (uint16, bool) {
	ch, ok := s.chunks.Load(world.ChunkCoordOf(pos))
	if !ok {
		return 0, false
	}
	return ch.Block(int(math.Floor(pos.X)), int(math.Floor(pos.Z))), true
}
