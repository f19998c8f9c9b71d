package resampling

import (
	"context"
	"math"
	"testing"

	"goccram/adapters/rng"
)

func TestQuantile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4, 5}
	cases := []struct {
		p    float64
		want float64
	}{
		{0, 1},
		{0.25, 2},
		{0.5, 3},
		{0.75, 4},
		{1, 5},
		{0.1, 1.4},
		{-0.5, 1},
		{1.5, 5},
	}
	for _, tc := range cases {
		got := quantile(sorted, tc.p)
		if math.Abs(got-tc.want) > 1e-12 {
			t.Errorf("quantile(%v) = %v, want %v", tc.p, got, tc.want)
		}
	}
	if !math.IsNaN(quantile(nil, 0.5)) {
		t.Error("quantile of empty data should be NaN")
	}
}

func TestConfidenceInterval_PercentileAndBasic(t *testing.T) {
	model := testModel(t)
	driver := NewDriver(rng.NewCounterSource())
	dist := []float64{5, 1, 4, 2, 3} // unsorted on purpose
	observed := 2.5

	opts := testOptions(5)
	opts.ConfidenceLevel = 0.5
	lower, upper, err := driver.confidenceInterval(model, testStat(), observed, dist, opts)
	if err != nil {
		t.Fatal(err)
	}
	// sorted [1..5], quantiles at 0.25 and 0.75
	if math.Abs(lower-2) > 1e-12 || math.Abs(upper-4) > 1e-12 {
		t.Errorf("percentile interval [%v, %v], want [2, 4]", lower, upper)
	}

	opts.Method = CIBasic
	lower, upper, err = driver.confidenceInterval(model, testStat(), observed, dist, opts)
	if err != nil {
		t.Fatal(err)
	}
	// reverse percentile: [2*2.5 - 4, 2*2.5 - 2]
	if math.Abs(lower-1) > 1e-12 || math.Abs(upper-3) > 1e-12 {
		t.Errorf("basic interval [%v, %v], want [1, 3]", lower, upper)
	}
}

func TestBCaInterval_FallsBackAtExtremeBias(t *testing.T) {
	model := testModel(t)
	sorted := []float64{1, 2, 3, 4, 5}

	// observed below every bootstrap value: bias proportion 0
	lower, upper, err := bcaInterval(model, testStat(), 0.5, sorted, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(lower-2) > 1e-12 || math.Abs(upper-4) > 1e-12 {
		t.Errorf("fallback interval [%v, %v], want percentile [2, 4]", lower, upper)
	}

	// observed above every bootstrap value: bias proportion 1
	lower, upper, err = bcaInterval(model, testStat(), 9, sorted, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(lower-2) > 1e-12 || math.Abs(upper-4) > 1e-12 {
		t.Errorf("fallback interval [%v, %v], want percentile [2, 4]", lower, upper)
	}
}

func TestJackknifeAcceleration_Finite(t *testing.T) {
	model := testModel(t)
	accel, err := jackknifeAcceleration(model, testStat())
	if err != nil {
		t.Fatal(err)
	}
	if math.IsNaN(accel) || math.IsInf(accel, 0) {
		t.Fatalf("acceleration %v not finite", accel)
	}
}

func TestPredictionMatrix(t *testing.T) {
	model := testModel(t)
	driver := NewDriver(rng.NewCounterSource())

	summary, err := driver.PredictionMatrix(context.Background(), model, 1, []int{0}, testOptions(60))
	if err != nil {
		t.Fatal(err)
	}
	if len(summary.Combos) != 5 {
		t.Fatalf("got %d combos, want 5", len(summary.Combos))
	}
	if len(summary.Matrix) != len(summary.Combos) {
		t.Fatalf("matrix has %d rows for %d combos", len(summary.Matrix), len(summary.Combos))
	}
	for c, row := range summary.Matrix {
		if len(row) != 3 {
			t.Fatalf("combo %d row has %d columns, want 3", c, len(row))
		}
		sum := summary.NoPrediction[c]
		for _, pct := range row {
			if pct < 0 || pct > 100 {
				t.Fatalf("combo %d percentage %v out of range", c, pct)
			}
			sum += pct
		}
		if math.Abs(sum-100) > 1e-9 {
			t.Errorf("combo %d percentages sum to %v", c, sum)
		}
	}
	if summary.Observed == nil || len(summary.Observed.Predictions) != 5 {
		t.Error("observed prediction table missing")
	}
}
