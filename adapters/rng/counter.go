// Package rng provides the deterministic random source used by the
// resampling driver. Substreams are derived counter-style from
// (seed, iteration), never from worker identity, which keeps resampling
// results reproducible for any worker count.
package rng

import (
	"math/rand"
)

// CounterSource feeds the resampling driver. Each iteration's generator is
// seeded by mixing the run seed with the iteration counter through a
// splitmix64 finalizer, so neighboring iterations get uncorrelated streams.
type CounterSource struct{}

// NewCounterSource creates the default deterministic source.
func NewCounterSource() CounterSource {
	return CounterSource{}
}

// IterationStream returns the generator for one global iteration index.
func (CounterSource) IterationStream(seed int64, iteration int) *rand.Rand {
	state := uint64(seed) + goldenGamma*(uint64(iteration)+1)
	return rand.New(rand.NewSource(int64(mix64(state))))
}

const goldenGamma = 0x9e3779b97f4a7c15

// mix64 is the splitmix64 finalizer.
func mix64(z uint64) uint64 {
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
