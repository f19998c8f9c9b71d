package resampling

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"goccram/domain/contingency"
	"goccram/domain/core"
)

// PermutationResult aggregates one permutation run: the observed statistic,
// the empirical p-value under the chosen alternative, and the full null
// distribution.
type PermutationResult struct {
	Statistic        string      `json:"statistic"`
	Observed         float64     `json:"observed"`
	PValue           float64     `json:"p_value"`
	Alternative      Alternative `json:"alternative"`
	NullDistribution []float64   `json:"null_distribution"`
	Resamples        int         `json:"resamples"`
	Skipped          int         `json:"skipped"`
}

// Permutation builds a null distribution by repeatedly shuffling the
// response-variable labels among observations while holding every
// observation's predictor combination fixed, breaking only the
// predictor-response pairing. The total count and all predictor marginals
// are preserved by construction.
func (d *Driver) Permutation(ctx context.Context, model *contingency.Model, stat Statistic, response int, opts Options) (*PermutationResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := model.CheckAxis(response); err != nil {
		return nil, err
	}
	observed, err := stat.Compute(model)
	if err != nil {
		return nil, fmt.Errorf("observed statistic: %w", err)
	}

	shuffler := newResponseShuffler(model, response)
	values := make([]float64, opts.Resamples)
	err = d.run(ctx, opts, func(iter int, rng *rand.Rand) error {
		permuted, err := shuffler.Draw(rng)
		if err != nil {
			return err
		}
		v, err := stat.Compute(permuted)
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

	null, skipped := dropUndefined(values)
	if len(null) == 0 {
		return nil, fmt.Errorf("%w: no usable permutations", core.ErrResamplingAborted)
	}

	return &PermutationResult{
		Statistic:        stat.Name(),
		Observed:         observed,
		PValue:           pValue(null, observed, opts.Alternative),
		Alternative:      opts.Alternative,
		NullDistribution: null,
		Resamples:        opts.Resamples,
		Skipped:          skipped,
	}, nil
}

// pValue computes the empirical p-value: the fraction of null values at
// least as extreme as the observed statistic under the chosen alternative.
// The two-sided p-value doubles the smaller tail, capped at 1.
func pValue(null []float64, observed float64, alt Alternative) float64 {
	geq, leq := 0, 0
	for _, v := range null {
		if v >= observed {
			geq++
		}
		if v <= observed {
			leq++
		}
	}
	m := float64(len(null))
	greater := float64(geq) / m
	less := float64(leq) / m
	switch alt {
	case AlternativeLess:
		return less
	case AlternativeTwoSided:
		return math.Min(1, 2*math.Min(greater, less))
	default:
		return greater
	}
}

// responseShuffler permutes the response column of the observed case-form
// expansion. The base expansion and the per-case offsets excluding the
// response axis are built once and shared read-only across workers.
type responseShuffler struct {
	base       []int // flat offset of each observation minus its response contribution
	labels     []int // observed response label of each observation
	stride     int   // flat stride of the response axis
	shape      []int
	vars       []contingency.Variable
	totalCells int
}

func newResponseShuffler(model *contingency.Model, response int) *responseShuffler {
	table := model.Table()
	shape := table.Shape()
	strides := make([]int, len(shape))
	stride := 1
	for i := len(shape) - 1; i >= 0; i-- {
		strides[i] = stride
		stride *= shape[i]
	}

	cases := table.ToCaseForm()
	base := make([]int, len(cases))
	labels := make([]int, len(cases))
	for row, c := range cases {
		flat := 0
		for axis, i := range c {
			flat += i * strides[axis]
		}
		labels[row] = c[response]
		base[row] = flat - c[response]*strides[response]
	}
	return &responseShuffler{
		base:       base,
		labels:     labels,
		stride:     strides[response],
		shape:      shape,
		vars:       model.Variables(),
		totalCells: table.Size(),
	}
}

// Draw produces one permuted model via a Fisher-Yates shuffle of the
// response labels.
func (s *responseShuffler) Draw(rng *rand.Rand) (*contingency.Model, error) {
	shuffled := make([]int, len(s.labels))
	copy(shuffled, s.labels)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	counts := make([]int, s.totalCells)
	for row, b := range s.base {
		counts[b+shuffled[row]*s.stride]++
	}
	return contingency.NewModelFromCounts(counts, s.shape, s.vars)
}
