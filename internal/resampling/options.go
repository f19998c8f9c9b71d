// Package resampling generates perturbed contingency tables and aggregates
// a chosen statistic's distribution across them: bootstrap confidence
// intervals, permutation null distributions, and bootstrap prediction
// uncertainty. Resamples are embarrassingly parallel; the driver owns the
// worker-pool policy and the seed-stable substream contract.
package resampling

import "fmt"

// CIMethod selects the bootstrap confidence interval construction.
type CIMethod string

const (
	CIPercentile CIMethod = "percentile"
	CIBasic      CIMethod = "basic"
	CIBCa        CIMethod = "bca"
)

// Alternative selects the permutation test direction.
type Alternative string

const (
	AlternativeGreater  Alternative = "greater"
	AlternativeLess     Alternative = "less"
	AlternativeTwoSided Alternative = "two-sided"
)

// Options configures one resampling run.
type Options struct {
	Resamples       int         `json:"resamples"`
	ConfidenceLevel float64     `json:"confidence_level"`
	Method          CIMethod    `json:"ci_method"`
	Alternative     Alternative `json:"alternative"`
	Parallel        bool        `json:"parallel"`
	Workers         int         `json:"workers"` // 0 = GOMAXPROCS
	Seed            int64       `json:"seed"`
}

// DefaultOptions mirrors the conventional defaults: 9999 resamples,
// 95% percentile intervals, one-sided "greater" alternative, parallel on.
func DefaultOptions() Options {
	return Options{
		Resamples:       9999,
		ConfidenceLevel: 0.95,
		Method:          CIPercentile,
		Alternative:     AlternativeGreater,
		Parallel:        true,
		Seed:            42,
	}
}

// WithDefaults fills unset fields from d. An entirely zero option set takes
// d wholesale; otherwise only fields whose zero value cannot be a deliberate
// choice are filled (Workers 0 already means all cores, and false booleans
// are indistinguishable from unset).
func (o Options) WithDefaults(d Options) Options {
	if o == (Options{}) {
		return d
	}
	if o.Resamples == 0 {
		o.Resamples = d.Resamples
	}
	if o.ConfidenceLevel == 0 {
		o.ConfidenceLevel = d.ConfidenceLevel
	}
	if o.Method == "" {
		o.Method = d.Method
	}
	if o.Alternative == "" {
		o.Alternative = d.Alternative
	}
	return o
}

// Validate rejects malformed option sets before any resampling begins.
func (o Options) Validate() error {
	if o.Resamples < 1 {
		return fmt.Errorf("resamples must be positive, got %d", o.Resamples)
	}
	if o.ConfidenceLevel <= 0 || o.ConfidenceLevel >= 1 {
		return fmt.Errorf("confidence level must be in (0,1), got %g", o.ConfidenceLevel)
	}
	switch o.Method {
	case CIPercentile, CIBasic, CIBCa:
	default:
		return fmt.Errorf("unknown CI method %q", o.Method)
	}
	switch o.Alternative {
	case AlternativeGreater, AlternativeLess, AlternativeTwoSided:
	default:
		return fmt.Errorf("unknown alternative %q", o.Alternative)
	}
	if o.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", o.Workers)
	}
	return nil
}
