package skills

import "math"

const (
	// QualityVariance is the symmetric fraction the result may stray from
	// its ceiling.
	QualityVariance = 0.10

	MinQuality = 1.0
	MaxQuality = 100.0

	toolLevelWeight  = 0.5
	toolSkillDivisor = 2.5
)

// CalculateQuality returns the quality of an item made at skillLevel from
// materials of baseQuality. The result centers on min(baseQuality,
// skillLevel), varies by up to QualityVariance of that ceiling in either
// direction, and is clamped to [MinQuality, MaxQuality].
func CalculateQuality(rng Random, skillLevel, baseQuality float64) float64 {
	ceiling := math.Min(baseQuality, skillLevel)
	variance := ceiling * QualityVariance * (rng.Float64()*2 - 1)
	return clampQuality(ceiling + variance)
}

// ToolSkill folds a primary skill, a tool skill and the tool's own quality
// into a single effective skill level.
func ToolSkill(primaryLevel, toolLevel, toolQuality float64) float64 {
	return (primaryLevel + toolQuality + toolLevel*toolLevelWeight) / toolSkillDivisor
}

// CalculateToolQuality is CalculateQuality driven by the effective skill of
// a primary skill used together with a tool.
func CalculateToolQuality(rng Random, primaryLevel, toolLevel, baseQuality, toolQuality float64) float64 {
	return CalculateQuality(rng, ToolSkill(primaryLevel, toolLevel, toolQuality), baseQuality)
}

func clampQuality(q float64) float64 {
	if math.IsNaN(q) || q < MinQuality {
		return MinQuality
	}
	if q > MaxQuality {
		return MaxQuality
	}
	return q
}
