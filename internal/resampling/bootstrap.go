package resampling

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/montanaflynn/stats"

	"goccram/domain/contingency"
	"goccram/domain/core"
)

// BootstrapResult aggregates one bootstrap run: the observed statistic,
// the confidence interval, the standard error, and the full bootstrap
// distribution for diagnostics and histogram rendering.
type BootstrapResult struct {
	Statistic       string    `json:"statistic"`
	Observed        float64   `json:"observed"`
	Lower           float64   `json:"lower"`
	Upper           float64   `json:"upper"`
	ConfidenceLevel float64   `json:"confidence_level"`
	Method          CIMethod  `json:"ci_method"`
	StdError        float64   `json:"std_error"`
	Distribution    []float64 `json:"distribution"`
	Resamples       int       `json:"resamples"`
	Skipped         int       `json:"skipped"` // degenerate resamples excluded from aggregation
}

// Bootstrap draws opts.Resamples tables from Multinomial(n, P), re-evaluates
// the statistic on each, and constructs the configured confidence interval.
// A degenerate statistic on a single resample is excluded cleanly; any other
// failure aborts the whole run.
func (d *Driver) Bootstrap(ctx context.Context, model *contingency.Model, stat Statistic, opts Options) (*BootstrapResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	observed, err := stat.Compute(model)
	if err != nil {
		return nil, fmt.Errorf("observed statistic: %w", err)
	}

	sampler := newMultinomialSampler(model)
	values := make([]float64, opts.Resamples)
	err = d.run(ctx, opts, func(iter int, rng *rand.Rand) error {
		resampled, err := sampler.Draw(rng)
		if err != nil {
			return err
		}
		v, err := stat.Compute(resampled)
		if recoverable(err) {
			values[iter] = math.NaN()
			return nil
		}
		if err != nil {
			return err
		}
		values[iter] = v
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrResamplingAborted, err)
	}

	dist, skipped := dropUndefined(values)
	if len(dist) < 2 {
		return nil, fmt.Errorf("%w: only %d usable resamples", core.ErrResamplingAborted, len(dist))
	}

	result := &BootstrapResult{
		Statistic:       stat.Name(),
		Observed:        observed,
		ConfidenceLevel: opts.ConfidenceLevel,
		Method:          opts.Method,
		Distribution:    dist,
		Resamples:       opts.Resamples,
		Skipped:         skipped,
	}
	// sample standard deviation with denominator B-1
	result.StdError, _ = stats.StandardDeviationSample(dist)

	lower, upper, err := d.confidenceInterval(model, stat, observed, dist, opts)
	if err != nil {
		return nil, err
	}
	result.Lower, result.Upper = lower, upper
	return result, nil
}

// recoverable reports whether a per-resample statistic failure may be
// absorbed locally instead of aborting the run.
func recoverable(err error) bool {
	return err != nil && (core.IsDegenerate(err) ||
		errors.Is(err, core.ErrDegenerateScale) ||
		errors.Is(err, core.ErrUndefinedScore))
}

func dropUndefined(values []float64) ([]float64, int) {
	kept := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			kept = append(kept, v)
		}
	}
	return kept, len(values) - len(kept)
}

// multinomialSampler draws new count tables from the empirical multinomial
// distribution of the observed model. The cumulative weights are built once
// and shared read-only across workers.
type multinomialSampler struct {
	cum   []float64
	shape []int
	vars  []contingency.Variable
	n     int
}

func newMultinomialSampler(model *contingency.Model) *multinomialSampler {
	probs := model.JointProbability()
	cum := make([]float64, len(probs))
	running := 0.0
	for i, p := range probs {
		running += p
		cum[i] = running
	}
	cum[len(cum)-1] = 1
	return &multinomialSampler{
		cum:   cum,
		shape: model.Table().Shape(),
		vars:  model.Variables(),
		n:     model.SampleSize(),
	}
}

// Draw produces one resampled model: n cell draws with replacement from
// the observed joint distribution.
func (s *multinomialSampler) Draw(rng *rand.Rand) (*contingency.Model, error) {
	counts := make([]int, len(s.cum))
	for k := 0; k < s.n; k++ {
		u := rng.Float64()
		counts[sort.SearchFloat64s(s.cum, u)]++
	}
	return contingency.NewModelFromCounts(counts, s.shape, s.vars)
}
