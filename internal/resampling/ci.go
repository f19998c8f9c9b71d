package resampling

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"

	"goccram/domain/contingency"
)

var stdNormal = distuv.Normal{Mu: 0, Sigma: 1}

// confidenceInterval dispatches on the configured CI method. BCa needs the
// original model for its jackknife influence values; percentile and basic
// work from the bootstrap distribution alone.
func (d *Driver) confidenceInterval(model *contingency.Model, stat Statistic, observed float64, dist []float64, opts Options) (float64, float64, error) {
	alpha := 1 - opts.ConfidenceLevel
	sorted := make([]float64, len(dist))
	copy(sorted, dist)
	sort.Float64s(sorted)

	switch opts.Method {
	case CIPercentile:
		return quantile(sorted, alpha/2), quantile(sorted, 1-alpha/2), nil

	case CIBasic:
		// reverse percentile: [2*obs - q(1-a/2), 2*obs - q(a/2)]
		return 2*observed - quantile(sorted, 1-alpha/2), 2*observed - quantile(sorted, alpha/2), nil

	case CIBCa:
		return bcaInterval(model, stat, observed, sorted, alpha)

	default:
		return 0, 0, fmt.Errorf("unknown CI method %q", opts.Method)
	}
}

// bcaInterval builds the bias-corrected and accelerated interval. The bias
// constant comes from the proportion of bootstrap values below the observed
// statistic; the acceleration constant from jackknife leave-one-observation-
// out influence, weighted by cell counts. When the bias proportion is 0 or
// 1 the correction is undefined and the interval degrades to percentile.
func bcaInterval(model *contingency.Model, stat Statistic, observed float64, sorted []float64, alpha float64) (float64, float64, error) {
	below := 0
	for _, v := range sorted {
		if v < observed {
			below++
		}
	}
	prop := float64(below) / float64(len(sorted))
	if prop == 0 || prop == 1 {
		return quantile(sorted, alpha/2), quantile(sorted, 1-alpha/2), nil
	}
	z0 := stdNormal.Quantile(prop)

	accel, err := jackknifeAcceleration(model, stat)
	if err != nil {
		return 0, 0, err
	}

	adjust := func(z float64) float64 {
		num := z0 + z
		return stdNormal.CDF(z0 + num/(1-accel*num))
	}
	lowerP := adjust(stdNormal.Quantile(alpha / 2))
	upperP := adjust(stdNormal.Quantile(1 - alpha/2))
	return quantile(sorted, lowerP), quantile(sorted, upperP), nil
}

// jackknifeAcceleration removes one observation at a time and re-evaluates
// the statistic. Observations sharing a cell yield the same leave-one-out
// value, so each distinct non-empty cell is evaluated once and weighted by
// its count.
func jackknifeAcceleration(model *contingency.Model, stat Statistic) (float64, error) {
	table := model.Table()
	if table.Total() < 2 {
		return 0, nil
	}
	counts := table.Counts()
	shape := table.Shape()
	vars := model.Variables()

	type influence struct {
		value  float64
		weight float64
	}
	var points []influence
	totalWeight := 0.0
	weightedSum := 0.0
	for flat, c := range counts {
		if c == 0 {
			continue
		}
		counts[flat] = c - 1
		reduced, err := contingency.NewModelFromCounts(counts, shape, vars)
		counts[flat] = c
		if err != nil {
			return 0, err
		}
		v, err := stat.Compute(reduced)
		if recoverable(err) {
			continue
		}
		if err != nil {
			return 0, err
		}
		w := float64(c)
		points = append(points, influence{value: v, weight: w})
		totalWeight += w
		weightedSum += w * v
	}
	if totalWeight == 0 {
		return 0, nil
	}
	mean := weightedSum / totalWeight

	num, den := 0.0, 0.0
	for _, p := range points {
		dev := mean - p.value
		num += p.weight * dev * dev * dev
		den += p.weight * dev * dev
	}
	if den == 0 {
		return 0, nil
	}
	return num / (6 * math.Pow(den, 1.5)), nil
}

// quantile returns the linearly interpolated empirical quantile of
// already-sorted data, p in [0,1].
func quantile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := p * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := lo + 1
	if hi >= len(sorted) {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
