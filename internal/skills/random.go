package skills

import (
	"math/rand/v2"
	"sync"
)

// Random provides random numbers that can be seeded or faked for testing.
type Random interface {
	// Float64 returns a value in [0, 1).
	Float64() float64
}

// LockedRandom is a seeded PCG source safe for concurrent use.
type LockedRandom struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandom creates a LockedRandom from seed. The same seed always yields
// the same sequence.
func NewRandom(seed uint64) *LockedRandom {
	return &LockedRandom{
		rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Float64 returns a pseudo-random value in [0, 1).
func (r *LockedRandom) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Float64()
}

// FixedRandom always returns the same value. Useful for pinning the quality
// variance in tests.
type FixedRandom float64

func (f FixedRandom) Float64() float64 {
	return float64(f)
}
