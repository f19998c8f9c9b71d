package resampling

import (
	"context"
	"fmt"
	"math/rand"

	"goccram/domain/checkerboard"
	"goccram/domain/contingency"
	"goccram/domain/core"
)

// PredictionSummary is the percentage-confidence matrix of bootstrap
// predictions: rows are predictor combinations, columns are response
// categories, cells are the fraction of resamples predicting that category
// for that combination. Resamples where a combination had no defined
// prediction are counted separately, never folded into a category.
type PredictionSummary struct {
	Response     int                           `json:"response"`
	Predictors   []int                         `json:"predictors"`
	Combos       [][]int                       `json:"combos"`
	Matrix       [][]float64                   `json:"matrix"` // len(Combos) x response cardinality
	NoPrediction []float64                     `json:"no_prediction"`
	Observed     *checkerboard.PredictionTable `json:"observed"`
	Resamples    int                           `json:"resamples"`
}

// PredictionMatrix runs the bootstrap loop but aggregates predicted
// categories per predictor combination instead of a scalar statistic.
func (d *Driver) PredictionMatrix(ctx context.Context, model *contingency.Model, response int, predictors []int, opts Options) (*PredictionSummary, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := model.CheckAxisSpec(response, predictors); err != nil {
		return nil, err
	}

	observed, err := checkerboard.NewEngine(model).PredictAll(response, predictors)
	if err != nil {
		return nil, err
	}

	combos := make([][]int, len(observed.Predictions))
	for i, p := range observed.Predictions {
		combos[i] = p.Combo
	}

	sampler := newMultinomialSampler(model)
	// predicted[iter][combo] = category or checkerboard.NoPrediction
	predicted := make([][]int, opts.Resamples)
	err = d.run(ctx, opts, func(iter int, rng *rand.Rand) error {
		resampled, err := sampler.Draw(rng)
		if err != nil {
			return err
		}
		engine := checkerboard.NewEngine(resampled)
		row := make([]int, len(combos))
		for c, combo := range combos {
			category, err := engine.PredictCategory(response, predictors, combo)
			switch {
			case recoverable(err):
				row[c] = checkerboard.NoPrediction
			case err != nil:
				return err
			default:
				row[c] = category
			}
		}
		predicted[iter] = row
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrResamplingAborted, err)
	}

	cardinality := model.Table().Cardinality(response)
	matrix := make([][]float64, len(combos))
	noPred := make([]float64, len(combos))
	for c := range combos {
		matrix[c] = make([]float64, cardinality)
	}
	for _, row := range predicted {
		for c, category := range row {
			if category == checkerboard.NoPrediction {
				noPred[c]++
				continue
			}
			matrix[c][category]++
		}
	}
	total := float64(opts.Resamples)
	for c := range combos {
		for k := range matrix[c] {
			matrix[c][k] = 100 * matrix[c][k] / total
		}
		noPred[c] = 100 * noPred[c] / total
	}

	return &PredictionSummary{
		Response:     response,
		Predictors:   append([]int(nil), predictors...),
		Combos:       combos,
		Matrix:       matrix,
		NoPrediction: noPred,
		Observed:     observed,
		Resamples:    opts.Resamples,
	}, nil
}
