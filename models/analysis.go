package models

import (
	"time"

	"goccram/domain/checkerboard"
	"goccram/domain/contingency"
	"goccram/domain/core"
	"goccram/internal/resampling"
)

// AnalysisResult is the persistable artifact of one CCRAM study: the
// observed association measures plus whichever inference layers the caller
// requested. Distributions are kept in full for histogram rendering.
type AnalysisResult struct {
	ID         core.AnalysisID        `json:"id" db:"id"`
	Dataset    string                 `json:"dataset" db:"dataset"`
	Variables  []contingency.Variable `json:"variables"`
	Shape      []int                  `json:"shape"`
	Response   int                    `json:"response"`
	Predictors []int                  `json:"predictors"`

	Scaled bool     `json:"scaled"` // which measure the inference layers target
	CCRAM  float64  `json:"ccram"`
	SCCRAM *float64 `json:"sccram,omitempty"` // nil when the response scale is degenerate

	Predictions      *checkerboard.PredictionTable `json:"predictions,omitempty"`
	Bootstrap        *resampling.BootstrapResult   `json:"bootstrap,omitempty"`
	Permutation      *resampling.PermutationResult `json:"permutation,omitempty"`
	PredictionMatrix *resampling.PredictionSummary `json:"prediction_matrix,omitempty"`

	Options   resampling.Options `json:"options"`
	CreatedAt time.Time          `json:"created_at" db:"created_at"`
}

// ResponseVariable returns the response variable metadata.
func (r *AnalysisResult) ResponseVariable() contingency.Variable {
	return r.Variables[r.Response]
}

// PredictorNames returns the predictor variable names in order.
func (r *AnalysisResult) PredictorNames() []string {
	names := make([]string, len(r.Predictors))
	for i, p := range r.Predictors {
		names[i] = r.Variables[p].Name
	}
	return names
}
