package skills

import "math"

// Hook is the hourly time-scale step applied to a player's skills.
type Hook func(*SkillSet)

// NoopHook leaves every skill unchanged.
func NoopHook(*SkillSet) {}

// DecayHook returns a Hook that lowers every stored level by rate, never
// below MinLevel. A non-positive rate yields NoopHook.
func DecayHook(rate float64) Hook {
	if rate <= 0 || math.IsNaN(rate) {
		return NoopHook
	}
	return func(s *SkillSet) {
		s.Update(func(_ Skill, lvl float64) float64 {
			return lvl - rate
		})
	}
}

// Chain runs hooks in order.
func Chain(hooks ...Hook) Hook {
	return func(s *SkillSet) {
		for _, h := range hooks {
			h(s)
		}
	}
}
