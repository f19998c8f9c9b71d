package resampling

import (
	"math/rand"

	"goccram/domain/contingency"
)

// Statistic is a scalar measure applied uniformly to each resampled model.
// Separating "what is measured" from "how resamples are produced" lets new
// statistics plug into the resampling engine without touching it.
type Statistic interface {
	// Name identifies the statistic in results and reports (e.g. "CCRAM").
	Name() string

	// Compute evaluates the statistic on one model snapshot. A recoverable
	// degenerate condition inside one resample is reported as an error and
	// handled by the driver; it must not panic.
	Compute(model *contingency.Model) (float64, error)
}

// RNGPort provides seeded random number generation for deterministic
// resampling. Streams are keyed by the global iteration index, not by
// worker identity, so the same seed reproduces the same resample draws
// regardless of how iterations are sharded across workers.
type RNGPort interface {
	// IterationStream returns a deterministic generator for one resample
	// iteration. Streams for distinct iterations are statistically
	// independent substreams of the same seed.
	IterationStream(seed int64, iteration int) *rand.Rand
}
