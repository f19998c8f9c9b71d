package ui

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goccram/adapters/rng"
	"goccram/app"
	"goccram/internal/resampling"
	"goccram/models"
)

func sampleResult(t *testing.T, withResampling bool) *models.AnalysisResult {
	t.Helper()
	opts := resampling.DefaultOptions()
	opts.Resamples = 40
	service := app.NewAnalysisService(resampling.NewDriver(rng.NewCounterSource()), nil, nil)
	result, err := service.Run(context.Background(), app.AnalysisRequest{
		Dataset: "toxicity",
		Counts: []int{
			0, 0, 20,
			0, 10, 0,
			20, 0, 0,
			0, 10, 0,
			0, 0, 20,
		},
		Shape:       []int{5, 3},
		Response:    1,
		Predictors:  []int{0},
		Bootstrap:   withResampling,
		Permutation: withResampling,
		Predictions: withResampling,
		Options:     opts,
	})
	require.NoError(t, err)
	return result
}

func TestBuildReport_PointEstimatesOnly(t *testing.T) {
	report := BuildReport(sampleResult(t, false))

	assert.True(t, strings.HasPrefix(report, "# Checkerboard Copula Regression"))
	assert.Contains(t, report, "toxicity")
	assert.Contains(t, report, "| CCRAM | 0.843750 |")
	assert.Contains(t, report, "| SCCRAM | 1.000000 |")
	assert.Contains(t, report, "## Predictions")
	assert.NotContains(t, report, "## Bootstrap")
	assert.NotContains(t, report, "## Permutation")
}

func TestBuildReport_FullRun(t *testing.T) {
	report := BuildReport(sampleResult(t, true))

	assert.Contains(t, report, "## Bootstrap (CCRAM)")
	assert.Contains(t, report, "95% CI (percentile)")
	assert.Contains(t, report, "## Permutation test (CCRAM)")
	assert.Contains(t, report, "p-value (greater)")
	assert.Contains(t, report, "## Prediction confidence")
}

func TestBuildReport_UndefinedSCCRAM(t *testing.T) {
	result := sampleResult(t, false)
	result.SCCRAM = nil
	report := BuildReport(result)
	assert.Contains(t, report, "SCCRAM | undefined")
}
