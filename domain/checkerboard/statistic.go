package checkerboard

import (
	"goccram/domain/contingency"
)

// CCRAMStatistic is the association measure as a resamplable statistic.
// It satisfies the resampling driver's Statistic interface and carries the
// full direction spec, so each resampled model is measured with an
// identical configuration.
type CCRAMStatistic struct {
	Response   int
	Predictors []int
	Scaled     bool
}

// Name returns "CCRAM" or "SCCRAM" depending on scaling.
func (s CCRAMStatistic) Name() string {
	if s.Scaled {
		return "SCCRAM"
	}
	return "CCRAM"
}

// Compute evaluates the measure on one model snapshot.
func (s CCRAMStatistic) Compute(model *contingency.Model) (float64, error) {
	return NewEngine(model).CCRAM(s.Response, s.Predictors, s.Scaled)
}
