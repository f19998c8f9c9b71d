package checkerboard

import (
	"fmt"

	"goccram/domain/contingency"
	"goccram/domain/core"
)

// NoPrediction marks a predictor combination with no defined predicted
// category (zero observed marginal probability). It is an explicit marker,
// never silently replaced by an arbitrary category.
const NoPrediction = -1

// Engine computes the copula regression function, category predictions and
// association statistics for a chosen (predictors, response) direction.
// It is stateless apart from the scorer's memoization and safe to query
// from multiple goroutines.
type Engine struct {
	model  *contingency.Model
	scorer *Scorer
}

// NewEngine creates an engine over one model snapshot.
func NewEngine(model *contingency.Model) *Engine {
	return &Engine{model: model, scorer: NewScorer(model)}
}

// Model returns the underlying contingency model.
func (e *Engine) Model() *contingency.Model { return e.model }

// Scorer returns the engine's memoizing scorer.
func (e *Engine) Scorer() *Scorer { return e.scorer }

// RegressionValue computes the checkerboard copula regression
// E[S_response | predictors = combo] = sum_i P(i | combo) * s_i, a value
// in [0,1]. Returns ErrDegenerateCondition when the combination has zero
// observed probability.
func (e *Engine) RegressionValue(response int, predictors []int, combo []int) (float64, error) {
	if err := e.model.CheckAxisSpec(response, predictors); err != nil {
		return 0, err
	}
	cond, err := e.model.Conditional(response, predictors, combo)
	if err != nil {
		return 0, err
	}
	scores, err := e.scorer.Scores(response)
	if err != nil {
		return 0, err
	}
	value := 0.0
	for i, p := range cond {
		if p == 0 {
			// zero-width categories never carry conditional mass
			continue
		}
		value += p * scores[i]
	}
	return value, nil
}

// PredictCategory maps a regression value onto the response's marginal CDF
// breakpoints and returns the 0-based predicted category. Intervals are
// right-closed with the boundary claimed by the upper interval: a value
// exactly equal to an interior breakpoint u_i selects category i+1, not i.
// Zero-width categories are never selected.
func (e *Engine) PredictCategory(response int, predictors []int, combo []int) (int, error) {
	value, err := e.RegressionValue(response, predictors, combo)
	if err != nil {
		return NoPrediction, err
	}
	return e.categoryFor(response, value)
}

// PredictUnderIndependence returns the reference category predicted when
// predictors carry no information: the category containing the
// unconditional score mean 1/2.
func (e *Engine) PredictUnderIndependence(response int) (int, error) {
	if err := e.model.CheckAxis(response); err != nil {
		return NoPrediction, err
	}
	return e.categoryFor(response, 0.5)
}

func (e *Engine) categoryFor(response int, value float64) (int, error) {
	cdf, err := e.model.MarginalCDF(response)
	if err != nil {
		return NoPrediction, err
	}
	for i := 1; i < len(cdf); i++ {
		if cdf[i] > value {
			return i - 1, nil
		}
	}
	// value == 1: the topmost positive-width interval claims it
	for i := len(cdf) - 1; i >= 1; i-- {
		if cdf[i] > cdf[i-1] {
			return i - 1, nil
		}
	}
	return NoPrediction, core.ErrUndefinedScore
}

// Prediction is one row of a regression prediction table.
type Prediction struct {
	Combo           []int   `json:"combo"`            // predictor categories, 0-based
	RegressionValue float64 `json:"regression_value"` // in [0,1]; meaningless when Undefined
	Category        int     `json:"category"`         // predicted response category, or NoPrediction
	Undefined       bool    `json:"undefined"`        // zero-probability combination
}

// PredictionTable keys predictor combinations to predicted categories,
// plus the reference category under independence.
type PredictionTable struct {
	Response     int          `json:"response"`
	Predictors   []int        `json:"predictors"`
	Predictions  []Prediction `json:"predictions"`
	Independence int          `json:"independence"` // reference category under no effect
}

// PredictAll evaluates the regression prediction for every predictor
// combination in odometer order. Degenerate combinations are kept as
// explicit undefined rows rather than dropped.
func (e *Engine) PredictAll(response int, predictors []int) (*PredictionTable, error) {
	if err := e.model.CheckAxisSpec(response, predictors); err != nil {
		return nil, err
	}
	if len(predictors) == 0 {
		return nil, fmt.Errorf("%w: empty predictor set", core.ErrInvalidAxisSpec)
	}

	independence, err := e.PredictUnderIndependence(response)
	if err != nil {
		return nil, err
	}

	table := &PredictionTable{
		Response:     response,
		Predictors:   append([]int(nil), predictors...),
		Independence: independence,
	}
	err = e.model.Combinations(predictors, func(combo []int) error {
		row := Prediction{Combo: append([]int(nil), combo...)}
		value, err := e.RegressionValue(response, predictors, combo)
		switch {
		case core.IsDegenerate(err):
			row.Category = NoPrediction
			row.Undefined = true
		case err != nil:
			return err
		default:
			category, err := e.categoryFor(response, value)
			if err != nil {
				return err
			}
			row.RegressionValue = value
			row.Category = category
		}
		table.Predictions = append(table.Predictions, row)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return table, nil
}
