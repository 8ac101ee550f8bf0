package skills

import "math"

const (
	// MinLevel is the floor every skill starts at.
	MinLevel = 1.0
	// SoftCap is the level above which gains are attenuated.
	SoftCap = 70.0
	// HardCap is the highest level a skill can reach.
	HardCap = 100.0

	// BaseGain is the gain for a single use at a 1.0 multiplier.
	BaseGain = 0.01

	softCapSlope = 1.5
)

// DifficultyMultiplier returns the gain multiplier for the gap between the
// current level and the difficulty of the attempted action:
//
//	gap < 5:       1.5  (well matched)
//	5 <= gap <= 10: 1.0
//	10 < gap <= 20: 0.5
//	gap > 20:      0.1  (trivial or hopeless)
func DifficultyMultiplier(level, difficulty float64) float64 {
	diff := math.Abs(level - difficulty)
	switch {
	case diff < 5:
		return 1.5
	case diff <= 10:
		return 1.0
	case diff <= 20:
		return 0.5
	default:
		return 0.1
	}
}

// SoftCapDivisor returns the penalty divisor applied above SoftCap. It grows
// linearly with the distance past the soft cap, so progress slows toward
// HardCap without ever stopping.
func SoftCapDivisor(level float64) float64 {
	if level <= SoftCap {
		return 1.0
	}
	return 1.0 + (level-SoftCap)/softCapSlope
}

// GainAmount returns how much a single use at the given difficulty adds to
// level. It returns 0 once level is at or past HardCap.
func GainAmount(level, difficulty float64) float64 {
	if level >= HardCap {
		return 0
	}
	mult := DifficultyMultiplier(level, difficulty) / SoftCapDivisor(level)
	return BaseGain * mult
}

// NextLevel applies one gain to level, never exceeding HardCap.
func NextLevel(level, difficulty float64) float64 {
	if level >= HardCap {
		return level
	}
	return math.Min(level+GainAmount(level, difficulty), HardCap)
}

// clampLevel keeps stored levels inside [MinLevel, HardCap]. NaN collapses to
// MinLevel.
func clampLevel(v float64) float64 {
	if math.IsNaN(v) || v < MinLevel {
		return MinLevel
	}
	if v > HardCap {
		return HardCap
	}
	return v
}
