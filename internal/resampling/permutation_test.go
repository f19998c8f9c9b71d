package resampling

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"goccram/adapters/rng"
)

func TestPermutation_Result(t *testing.T) {
	model := testModel(t)
	driver := NewDriver(rng.NewCounterSource())

	result, err := driver.Permutation(context.Background(), model, testStat(), 1, testOptions(99))
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(result.Observed-27.0/32.0) > 1e-12 {
		t.Errorf("observed = %v, want 27/32", result.Observed)
	}
	if result.PValue < 0 || result.PValue > 1 {
		t.Errorf("p-value %v out of [0,1]", result.PValue)
	}
	if len(result.NullDistribution)+result.Skipped != 99 {
		t.Errorf("%d kept + %d skipped != 99", len(result.NullDistribution), result.Skipped)
	}
	for _, v := range result.NullDistribution {
		if v < 0 || v > 1 || math.IsNaN(v) {
			t.Fatalf("null value %v out of range", v)
		}
	}
}

func TestPermutation_Deterministic(t *testing.T) {
	model := testModel(t)
	driver := NewDriver(rng.NewCounterSource())

	a, err := driver.Permutation(context.Background(), model, testStat(), 1, testOptions(50))
	if err != nil {
		t.Fatal(err)
	}
	b, err := driver.Permutation(context.Background(), model, testStat(), 1, testOptions(50))
	if err != nil {
		t.Fatal(err)
	}
	if a.PValue != b.PValue {
		t.Errorf("same seed gave p-values %v and %v", a.PValue, b.PValue)
	}
	for i := range a.NullDistribution {
		if a.NullDistribution[i] != b.NullDistribution[i] {
			t.Fatalf("null value %d differs between identical runs", i)
		}
	}
}

func TestResponseShuffler_PreservesMarginals(t *testing.T) {
	model := testModel(t)
	shuffler := newResponseShuffler(model, 1)
	source := rand.New(rand.NewSource(3))

	wantPred, err := model.Marginal(0)
	if err != nil {
		t.Fatal(err)
	}
	wantResp, err := model.Marginal(1)
	if err != nil {
		t.Fatal(err)
	}

	for k := 0; k < 20; k++ {
		permuted, err := shuffler.Draw(source)
		if err != nil {
			t.Fatal(err)
		}
		if permuted.SampleSize() != model.SampleSize() {
			t.Fatalf("permuted total %d, want %d", permuted.SampleSize(), model.SampleSize())
		}
		gotPred, err := permuted.Marginal(0)
		if err != nil {
			t.Fatal(err)
		}
		for i := range wantPred {
			if math.Abs(gotPred[i]-wantPred[i]) > 1e-12 {
				t.Fatalf("predictor marginal changed: %v vs %v", gotPred, wantPred)
			}
		}
		gotResp, err := permuted.Marginal(1)
		if err != nil {
			t.Fatal(err)
		}
		for i := range wantResp {
			if math.Abs(gotResp[i]-wantResp[i]) > 1e-12 {
				t.Fatalf("response marginal changed: %v vs %v", gotResp, wantResp)
			}
		}
	}
}

func TestPermutation_BadResponseAxis(t *testing.T) {
	model := testModel(t)
	driver := NewDriver(rng.NewCounterSource())
	if _, err := driver.Permutation(context.Background(), model, testStat(), 9, testOptions(10)); err == nil {
		t.Fatal("out-of-range response axis accepted")
	}
}

func TestPValue(t *testing.T) {
	null := []float64{1, 2, 3, 4, 5}
	cases := []struct {
		observed float64
		alt      Alternative
		want     float64
	}{
		{3, AlternativeGreater, 0.6},
		{3, AlternativeLess, 0.6},
		{3, AlternativeTwoSided, 1},
		{4.5, AlternativeGreater, 0.2},
		{4.5, AlternativeLess, 0.8},
		{4.5, AlternativeTwoSided, 0.4},
		{0, AlternativeGreater, 1},
		{6, AlternativeGreater, 0},
		{6, AlternativeLess, 1},
	}
	for _, tc := range cases {
		got := pValue(null, tc.observed, tc.alt)
		if math.Abs(got-tc.want) > 1e-12 {
			t.Errorf("pValue(obs=%v, %s) = %v, want %v", tc.observed, tc.alt, got, tc.want)
		}
	}
}
