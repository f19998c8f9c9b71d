package checkerboard

import (
	"errors"
	"math"
	"testing"

	"goccram/domain/core"
)

func TestRegressionValue(t *testing.T) {
	engine := NewEngine(vShapeModel(t))

	// X=2 pins Y to category 0, so the regression equals Y's first score
	v, err := engine.RegressionValue(1, []int{0}, []int{2})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(v-0.125) > 1e-12 {
		t.Errorf("regression at X=2: %v, want 0.125", v)
	}

	// extremes of X map to the top Y category
	for _, x := range []int{0, 4} {
		v, err := engine.RegressionValue(1, []int{0}, []int{x})
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(v-0.75) > 1e-12 {
			t.Errorf("regression at X=%d: %v, want 0.75", x, v)
		}
	}
}

func TestRegressionValue_Degenerate(t *testing.T) {
	engine := NewEngine(newModel(t, []int{5, 5, 0, 0, 3, 7}, []int{3, 2}))
	_, err := engine.RegressionValue(1, []int{0}, []int{1})
	if !core.IsDegenerate(err) {
		t.Fatalf("got %v, want degenerate condition", err)
	}
}

func TestPredictCategory(t *testing.T) {
	engine := NewEngine(vShapeModel(t))
	want := []int{2, 1, 0, 1, 2}
	for x, w := range want {
		got, err := engine.PredictCategory(1, []int{0}, []int{x})
		if err != nil {
			t.Fatal(err)
		}
		if got != w {
			t.Errorf("predicted category at X=%d: %d, want %d", x, got, w)
		}
	}
}

func TestPredictCategory_BoundaryGoesUp(t *testing.T) {
	// uniform 2x2: every regression value is exactly 0.5, the breakpoint
	// between the two response intervals; the upper interval claims it
	engine := NewEngine(newModel(t, []int{10, 10, 10, 10}, []int{2, 2}))
	for x := 0; x < 2; x++ {
		got, err := engine.PredictCategory(1, []int{0}, []int{x})
		if err != nil {
			t.Fatal(err)
		}
		if got != 1 {
			t.Errorf("predicted category at X=%d: %d, want 1", x, got)
		}
	}
	ref, err := engine.PredictUnderIndependence(1)
	if err != nil {
		t.Fatal(err)
	}
	if ref != 1 {
		t.Errorf("independence reference category = %d, want 1", ref)
	}
}

func TestPredictUnderIndependence(t *testing.T) {
	engine := NewEngine(vShapeModel(t))
	// Y marginal (.25, .25, .5): 0.5 falls in the top interval
	ref, err := engine.PredictUnderIndependence(1)
	if err != nil {
		t.Fatal(err)
	}
	if ref != 2 {
		t.Errorf("independence reference category = %d, want 2", ref)
	}
}

func TestPredictAll(t *testing.T) {
	engine := NewEngine(vShapeModel(t))
	table, err := engine.PredictAll(1, []int{0})
	if err != nil {
		t.Fatal(err)
	}
	if len(table.Predictions) != 5 {
		t.Fatalf("got %d predictions, want 5", len(table.Predictions))
	}
	want := []int{2, 1, 0, 1, 2}
	for i, p := range table.Predictions {
		if p.Undefined {
			t.Errorf("combo %v unexpectedly undefined", p.Combo)
		}
		if p.Category != want[i] {
			t.Errorf("combo %v predicted %d, want %d", p.Combo, p.Category, want[i])
		}
	}
	if table.Independence != 2 {
		t.Errorf("independence category = %d, want 2", table.Independence)
	}
}

func TestPredictAll_DegenerateCombosKept(t *testing.T) {
	engine := NewEngine(newModel(t, []int{5, 5, 0, 0, 3, 7}, []int{3, 2}))
	table, err := engine.PredictAll(1, []int{0})
	if err != nil {
		t.Fatal(err)
	}
	if len(table.Predictions) != 3 {
		t.Fatalf("got %d predictions, want 3", len(table.Predictions))
	}
	p := table.Predictions[1]
	if !p.Undefined {
		t.Fatalf("zero-mass combo %v not flagged undefined", p.Combo)
	}
	if p.Category != NoPrediction {
		t.Errorf("undefined combo has category %d", p.Category)
	}
	for _, i := range []int{0, 2} {
		if table.Predictions[i].Undefined {
			t.Errorf("combo %v flagged undefined", table.Predictions[i].Combo)
		}
	}
}

func TestPredictAll_EmptyPredictors(t *testing.T) {
	engine := NewEngine(vShapeModel(t))
	if _, err := engine.PredictAll(1, nil); !errors.Is(err, core.ErrInvalidAxisSpec) {
		t.Fatalf("got %v, want invalid axis spec", err)
	}
}
