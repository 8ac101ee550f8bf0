package skills

import (
	"encoding/json"
	"fmt"
	"sync"
)

// Skill identifies a trained ability.
type Skill string

const (
	Mining       Skill = "mining"
	Woodcutting  Skill = "woodcutting"
	Foraging     Skill = "foraging"
	Fishing      Skill = "fishing"
	Cooking      Skill = "cooking"
	Crafting     Skill = "crafting"
	Smithing     Skill = "smithing"
	Carpentry    Skill = "carpentry"
	Tailoring    Skill = "tailoring"
	ToolHandling Skill = "tool_handling"
)

// Known lists every skill the server trains, in display order.
var Known = []Skill{
	Mining, Woodcutting, Foraging, Fishing, Cooking,
	Crafting, Smithing, Carpentry, Tailoring, ToolHandling,
}

// ParseSkill resolves a skill name, returning an error for unknown skills.
func ParseSkill(s string) (Skill, error) {
	for _, k := range Known {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown skill %q", s)
}

// SkillSet holds one player's skill levels. Unset skills read as MinLevel.
// All methods are safe for concurrent use.
type SkillSet struct {
	mu     sync.RWMutex
	levels map[Skill]float64
}

func NewSkillSet() *SkillSet {
	return &SkillSet{levels: map[Skill]float64{}}
}

// Get returns the current level of s, or MinLevel if it has never been set.
func (s *SkillSet) Get(skill Skill) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lvl, ok := s.levels[skill]
	if !ok {
		return MinLevel
	}
	return lvl
}

// Set stores a level for skill, clamped to [MinLevel, HardCap].
func (s *SkillSet) Set(skill Skill, level float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.levels[skill] = clampLevel(level)
}

// Gain trains skill once against an action of the given difficulty and
// returns the new level. Skills at HardCap are left untouched.
func (s *SkillSet) Gain(skill Skill, difficulty float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.levels[skill]
	if !ok {
		cur = MinLevel
	}
	if cur >= HardCap {
		return cur
	}

	next := NextLevel(cur, difficulty)
	s.levels[skill] = next
	return next
}

// Quality returns the quality of an item crafted with skill from materials
// of baseQuality.
func (s *SkillSet) Quality(rng Random, skill Skill, baseQuality float64) float64 {
	return CalculateQuality(rng, s.Get(skill), baseQuality)
}

// QualityWithTool returns the quality of an item crafted with a primary
// skill and a tool skill, using a tool of toolQuality.
func (s *SkillSet) QualityWithTool(rng Random, primary, tool Skill, baseQuality, toolQuality float64) float64 {
	return CalculateToolQuality(rng, s.Get(primary), s.Get(tool), baseQuality, toolQuality)
}

// Levels returns a copy of every explicitly stored level.
func (s *SkillSet) Levels() map[Skill]float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[Skill]float64, len(s.levels))
	for k, v := range s.levels {
		out[k] = v
	}
	return out
}

// Update applies fn to every stored level and writes the clamped result
// back. Used by the hourly hooks.
func (s *SkillSet) Update(fn func(Skill, float64) float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for k, v := range s.levels {
		s.levels[k] = clampLevel(fn(k, v))
	}
}

func (s *SkillSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Levels())
}

func (s *SkillSet) UnmarshalJSON(b []byte) error {
	var raw map[Skill]float64
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.levels = make(map[Skill]float64, len(raw))
	for k, v := range raw {
		s.levels[k] = clampLevel(v)
	}
	return nil
}
