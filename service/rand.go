package service

import (
	"math/rand"
)

// Rand is the source of randomness for game outcomes. Production code uses
// the shared math/rand source; tests inject a deterministic implementation.
type Rand interface {
	// Intn returns a non-negative pseudo-random int in [0, n)
	Intn(n int) int

	// Float64 returns a pseudo-random float64 in [0.0, 1.0)
	Float64() float64
}

// globalRand delegates to math/rand's package-level functions, which are
// safe for concurrent use.
type globalRand struct{}

func (globalRand) Intn(n int) int   { return rand.Intn(n) }
func (globalRand) Float64() float64 { return rand.Float64() }

// NewRand returns the production randomness source
func NewRand() Rand {
	return globalRand{}
}

// uniformInt draws uniformly from [lo, hi] inclusive. A hi below lo
// collapses to lo.
func uniformInt(rng Rand, lo, hi int64) int64 {
	if hi <= lo {
		return lo
	}
	return lo + int64(rng.Intn(int(hi-lo)+1))
}
