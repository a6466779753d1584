package generator

import (
	"math/rand/v2"
	"time"
)

// Rand is the random source consumed by the generators.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
	Float64() float64
}

// NewRand returns a PCG-backed source. A zero seed uses the current time.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// intBetween draws uniformly from the inclusive range [lo, hi]
func intBetween(rng Rand, lo, hi int) int {
	return lo + rng.IntN(hi-lo+1)
}
