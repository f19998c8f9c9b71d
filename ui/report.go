package ui

import (
	"fmt"
	"strings"

	"goccram/models"
)

// BuildReport renders one analysis result as a markdown document: the
// observed measures, the regression prediction table, and whichever
// inference layers the run produced.
func BuildReport(result *models.AnalysisResult) string {
	var b strings.Builder

	response := result.ResponseVariable()
	fmt.Fprintf(&b, "# Checkerboard Copula Regression: %s ~ %s\n\n",
		response.Name, strings.Join(result.PredictorNames(), " + "))
	if result.Dataset != "" {
		fmt.Fprintf(&b, "Dataset: **%s**\n\n", result.Dataset)
	}

	fmt.Fprintf(&b, "## Association\n\n")
	fmt.Fprintf(&b, "| Measure | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| CCRAM | %.6f |\n", result.CCRAM)
	if result.SCCRAM != nil {
		fmt.Fprintf(&b, "| SCCRAM | %.6f |\n", *result.SCCRAM)
	} else {
		fmt.Fprintf(&b, "| SCCRAM | undefined (zero response score variance) |\n")
	}
	b.WriteString("\n")

	if result.Predictions != nil {
		writePredictions(&b, result)
	}
	if result.Bootstrap != nil {
		boot := result.Bootstrap
		fmt.Fprintf(&b, "## Bootstrap (%s)\n\n", boot.Statistic)
		fmt.Fprintf(&b, "- Observed: %.6f\n", boot.Observed)
		fmt.Fprintf(&b, "- %.0f%% CI (%s): [%.6f, %.6f]\n",
			boot.ConfidenceLevel*100, boot.Method, boot.Lower, boot.Upper)
		fmt.Fprintf(&b, "- Standard error: %.6f\n", boot.StdError)
		fmt.Fprintf(&b, "- Resamples: %d (skipped %d)\n\n", boot.Resamples, boot.Skipped)
	}
	if result.Permutation != nil {
		perm := result.Permutation
		fmt.Fprintf(&b, "## Permutation test (%s)\n\n", perm.Statistic)
		fmt.Fprintf(&b, "- Observed: %.6f\n", perm.Observed)
		fmt.Fprintf(&b, "- p-value (%s): %.4f\n", perm.Alternative, perm.PValue)
		fmt.Fprintf(&b, "- Resamples: %d (skipped %d)\n\n", perm.Resamples, perm.Skipped)
	}
	if result.PredictionMatrix != nil {
		writePredictionMatrix(&b, result)
	}
	return b.String()
}

func writePredictions(b *strings.Builder, result *models.AnalysisResult) {
	response := result.ResponseVariable()
	fmt.Fprintf(b, "## Predictions\n\n")
	fmt.Fprintf(b, "| %s | Regression value | Predicted %s |\n|---|---|---|\n",
		strings.Join(result.PredictorNames(), ", "), response.Name)
	for _, p := range result.Predictions.Predictions {
		if p.Undefined {
			fmt.Fprintf(b, "| %s | - | not predicted |\n", comboLabel(result, p.Combo))
			continue
		}
		fmt.Fprintf(b, "| %s | %.4f | %s |\n",
			comboLabel(result, p.Combo), p.RegressionValue, response.Label(p.Category))
	}
	fmt.Fprintf(b, "\nReference category under independence: %s\n\n",
		response.Label(result.Predictions.Independence))
}

func writePredictionMatrix(b *strings.Builder, result *models.AnalysisResult) {
	matrix := result.PredictionMatrix
	response := result.ResponseVariable()
	fmt.Fprintf(b, "## Prediction confidence (%% of %d bootstrap resamples)\n\n", matrix.Resamples)
	fmt.Fprintf(b, "| Combination |")
	for k := 0; k < len(matrix.Matrix[0]); k++ {
		fmt.Fprintf(b, " %s |", response.Label(k))
	}
	fmt.Fprintf(b, " none |\n|---|")
	for k := 0; k <= len(matrix.Matrix[0]); k++ {
		fmt.Fprintf(b, "---|")
	}
	fmt.Fprintf(b, "\n")
	for c, combo := range matrix.Combos {
		fmt.Fprintf(b, "| %s |", comboLabel(result, combo))
		for _, pct := range matrix.Matrix[c] {
			fmt.Fprintf(b, " %.1f |", pct)
		}
		fmt.Fprintf(b, " %.1f |\n", matrix.NoPrediction[c])
	}
	fmt.Fprintf(b, "\n")
}

func comboLabel(result *models.AnalysisResult, combo []int) string {
	parts := make([]string, len(combo))
	for i, category := range combo {
		parts[i] = result.Variables[result.Predictors[i]].Label(category)
	}
	return strings.Join(parts, ", ")
}
