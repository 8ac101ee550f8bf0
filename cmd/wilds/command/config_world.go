package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"

	"github.com/pixil98/go-wilds/internal/game"
	"github.com/pixil98/go-wilds/internal/skills"
	"github.com/pixil98/go-wilds/internal/world"
)

type WorldConfig struct {
	Seed     int64  `json:"seed"`
	ChunkDir string `json:"chunk_dir"`

	TickInterval     string `json:"tick_interval"`
	AutosaveInterval string `json:"autosave_interval"`
	SkillInterval    string `json:"skill_interval"`

	// SkillDecay is subtracted from every stored skill level each skill tick.
	SkillDecay   float64 `json:"skill_decay"`
	WindowRadius *int    `json:"window_radius,omitempty"`
	DisableEvict bool    `json:"disable_evict"`
	TuningFile   string  `json:"tuning_file"`
}

func (c *WorldConfig) validate() error {
	el := errors.NewErrorList()

	if c.ChunkDir == "" {
		el.Add(fmt.Errorf("world: chunk_dir is required"))
	}

	for name, v := range map[string]string{
		"tick_interval":     c.TickInterval,
		"autosave_interval": c.AutosaveInterval,
		"skill_interval":    c.SkillInterval,
	} {
		if v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			el.Add(fmt.Errorf("world: parsing %s: %w", name, err))
		} else if d <= 0 {
			el.Add(fmt.Errorf("world: %s must be positive", name))
		}
	}

	if c.SkillDecay < 0 {
		el.Add(fmt.Errorf("world: skill_decay must not be negative"))
	}
	if c.WindowRadius != nil && *c.WindowRadius < 0 {
		el.Add(fmt.Errorf("world: window_radius must not be negative"))
	}

	return el.Err()
}

func (c *WorldConfig) BuildChunkStore() (*world.DiskStore, error) {
	return world.NewDiskStore(c.ChunkDir, world.DefaultGenerator(c.Seed))
}

// serverOpts turns the section into game server options. Durations were
// checked by validate.
func (c *WorldConfig) serverOpts() ([]game.ServerOpt, error) {
	var opts []game.ServerOpt

	if c.TickInterval != "" {
		d, _ := time.ParseDuration(c.TickInterval)
		opts = append(opts, game.WithTickInterval(d))
	}
	if c.AutosaveInterval != "" {
		d, _ := time.ParseDuration(c.AutosaveInterval)
		opts = append(opts, game.WithAutosaveInterval(d))
	}
	if c.SkillInterval != "" {
		d, _ := time.ParseDuration(c.SkillInterval)
		opts = append(opts, game.WithSkillInterval(d))
	}
	if c.SkillDecay > 0 {
		opts = append(opts, game.WithSkillHook(skills.DecayHook(c.SkillDecay)))
	}
	if c.WindowRadius != nil {
		opts = append(opts, game.WithWindowRadius(*c.WindowRadius))
	}
	if c.DisableEvict {
		opts = append(opts, game.WithEviction(false))
	}
	if c.TuningFile != "" {
		t, err := game.LoadTuning(c.TuningFile)
		if err != nil {
			return nil, fmt.Errorf("loading tuning: %w", err)
		}
		opts = append(opts, game.WithTuning(t))
	}

	// Quality rolls stay reproducible for a given world seed.
	opts = append(opts, game.WithRandom(skills.NewRandom(uint64(c.Seed))))

	return opts, nil
}

func (c *WorldConfig) BuildServer(sessions game.SessionLookup, players game.PlayerStore, notifier game.Notifier) (*game.Server, error) {
	chunks, err := c.BuildChunkStore()
	if err != nil {
		return nil, fmt.Errorf("creating chunk store: %w", err)
	}

	opts, err := c.serverOpts()
	if err != nil {
		return nil, err
	}
	opts = append(opts, game.WithNotifier(notifier))

	return game.NewServer(sessions, players, chunks, opts...)
}
