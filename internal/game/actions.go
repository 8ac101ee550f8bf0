package game

import (
	"github.com/pixil98/go-wilds/internal/skills"
)

// PracticeResult reports the outcome of one practice action.
type PracticeResult struct {
	Level   float64
	Quality float64
}

// Practice spends stamina to train skill against an action of the given
// difficulty and rolls the quality of what was produced.
func (s *Server) Practice(playerID string, skill skills.Skill, difficulty, baseQuality float64) (PracticeResult, error) {
	ps, ok := s.players.Load(playerID)
	if !ok {
		return PracticeResult{}, ErrPlayerNotFound
	}
	if !ps.SpendStamina(s.tuning.PracticeStaminaCost) {
		return PracticeResult{}, ErrExhausted
	}

	lvl := ps.Skills.Gain(skill, difficulty)
	return PracticeResult{
		Level:   lvl,
		Quality: ps.Skills.Quality(s.rng, skill, baseQuality),
	}, nil
}

// Craft is Practice for a tool-assisted action: the primary skill is trained
// and the quality roll also draws on the tool skill and the tool's quality.
func (s *Server) Craft(playerID string, primary skills.Skill, difficulty, baseQuality, toolQuality float64) (PracticeResult, error) {
	ps, ok := s.players.Load(playerID)
	if !ok {
		return PracticeResult{}, ErrPlayerNotFound
	}
	if !ps.SpendStamina(s.tuning.PracticeStaminaCost) {
		return PracticeResult{}, ErrExhausted
	}

	lvl := ps.Skills.Gain(primary, difficulty)
	ps.Skills.Gain(skills.ToolHandling, difficulty)
	return PracticeResult{
		Level:   lvl,
		Quality: ps.Skills.QualityWithTool(s.rng, primary, skills.ToolHandling, baseQuality, toolQuality),
	}, nil
}
