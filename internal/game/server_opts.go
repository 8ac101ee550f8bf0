package game

import (
	"time"

	"github.com/pixil98/go-wilds/internal/skills"
)

const (
	DefaultTickInterval     = 50 * time.Millisecond
	DefaultAutosaveInterval = 5 * time.Minute
	DefaultSkillInterval    = time.Hour
)

type ServerOpt func(*Server)

func WithTickInterval(d time.Duration) ServerOpt {
	return func(s *Server) {
		s.tickInterval = d
	}
}

func WithAutosaveInterval(d time.Duration) ServerOpt {
	return func(s *Server) {
		s.autosaveInterval = d
	}
}

func WithSkillInterval(d time.Duration) ServerOpt {
	return func(s *Server) {
		s.skillInterval = d
	}
}

func WithTuning(t Tuning) ServerOpt {
	return func(s *Server) {
		s.tuning = t
	}
}

// WithRandom sets the source used for quality rolls.
func WithRandom(r skills.Random) ServerOpt {
	return func(s *Server) {
		s.rng = r
	}
}

// WithSkillHook adds a per-player step to the hourly skill loop. Hooks run
// in the order they were added.
func WithSkillHook(h skills.Hook) ServerOpt {
	return func(s *Server) {
		s.skillHooks = append(s.skillHooks, h)
	}
}

func WithNotifier(n Notifier) ServerOpt {
	return func(s *Server) {
		s.notifier = n
	}
}

func WithWindowRadius(r int) ServerOpt {
	return func(s *Server) {
		s.radius = r
	}
}

// WithEviction toggles unloading of chunks outside every player's window
// during autosave.
func WithEviction(enabled bool) ServerOpt {
	return func(s *Server) {
		s.evict = enabled
	}
}

func WithClock(now func() time.Time) ServerOpt {
	return func(s *Server) {
		s.now = now
	}
}
