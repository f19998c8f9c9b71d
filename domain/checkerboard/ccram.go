package checkerboard

import (
	"fmt"

	"goccram/domain/core"
)

// CCRAM computes the checkerboard copula regression association measure
//
//	12 * sum_combos P(combo) * (r(combo) - 1/2)^2
//
// for the given direction. With scaled=true the result is divided by
// 12*sigma^2_S(response), rescaling onto [0,1] (SCCRAM); requesting the
// scaled measure for a single-category response (variance zero) returns
// ErrDegenerateScale rather than a silent 0 or NaN.
//
// Zero-probability predictor combinations contribute nothing and are
// skipped. CCRAM is bounded below by 0 (independence) and above by
// 12*sigma^2_S(response).
func (e *Engine) CCRAM(response int, predictors []int, scaled bool) (float64, error) {
	if err := e.model.CheckAxisSpec(response, predictors); err != nil {
		return 0, err
	}
	if len(predictors) == 0 {
		return 0, fmt.Errorf("%w: empty predictor set", core.ErrInvalidAxisSpec)
	}

	ccram := 0.0
	err := e.model.Combinations(predictors, func(combo []int) error {
		weight, err := e.model.MarginalAt(predictors, combo)
		if err != nil {
			return err
		}
		if weight == 0 {
			return nil
		}
		value, err := e.RegressionValue(response, predictors, combo)
		if err != nil {
			return err
		}
		dev := value - 0.5
		ccram += weight * dev * dev
		return nil
	})
	if err != nil {
		return 0, err
	}
	ccram *= 12

	if !scaled {
		return ccram, nil
	}
	variance, err := e.scorer.ScoreVariance(response)
	if err != nil {
		return 0, err
	}
	if variance == 0 {
		return 0, core.NewAxisError(core.ErrDegenerateScale, response)
	}
	return ccram / (12 * variance), nil
}
