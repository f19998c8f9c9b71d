package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"goccram/adapters/dataio"
	"goccram/adapters/rng"
	"goccram/app"
	"goccram/internal"
	"goccram/internal/resampling"
	"goccram/ui"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ccram",
		Short: "Checkerboard copula regression and association analysis",
	}

	rootCmd.AddCommand(newAnalyzeCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newAnalyzeCmd() *cobra.Command {
	var (
		form        string
		dims        string
		response    int
		predictors  string
		scaled      bool
		named       bool
		delimiter   string
		boot        bool
		perm        bool
		predictions bool
		resamples   int
		level       float64
		method      string
		alternative string
		seed        int64
		workers     int
		serial      bool
	)

	cmd := &cobra.Command{
		Use:   "analyze [data-file]",
		Short: "Run a CCRAM study on a contingency dataset",
		Long: `Load a case-form, frequency-form, or table-form dataset, compute the
checkerboard copula regression and CCRAM/SCCRAM, and optionally run
bootstrap and permutation inference.

Axes and categories are 1-based on the command line.

Example: ccram analyze survey.csv --dims 5,3 --response 2 --predictors 1 --boot --perm`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			shape, err := parseInts(dims)
			if err != nil {
				return fmt.Errorf("invalid --dims: %w", err)
			}
			predAxes, err := parseInts(predictors)
			if err != nil {
				return fmt.Errorf("invalid --predictors: %w", err)
			}
			for i := range predAxes {
				predAxes[i]-- // to 0-based
			}
			if response < 1 || response > len(shape) {
				return fmt.Errorf("--response must be in 1..%d", len(shape))
			}

			var delim rune
			if delimiter != "" {
				delim = rune(delimiter[0])
			}
			table, err := dataio.NewReader(args[0]).Load(dataio.LoadSpec{
				Form:      dataio.DataForm(form),
				Shape:     shape,
				Named:     named,
				Delimiter: delim,
			})
			if err != nil {
				return err
			}

			opts := resampling.DefaultOptions()
			opts.Resamples = resamples
			opts.ConfidenceLevel = level
			opts.Method = resampling.CIMethod(method)
			opts.Alternative = resampling.Alternative(alternative)
			opts.Seed = seed
			opts.Workers = workers
			opts.Parallel = !serial

			driver := resampling.NewDriver(rng.NewCounterSource())
			service := app.NewAnalysisService(driver, nil, internal.DefaultLogger)
			result, err := service.Run(cmd.Context(), app.AnalysisRequest{
				Dataset:     args[0],
				Counts:      table.Counts(),
				Shape:       shape,
				Response:    response - 1,
				Predictors:  predAxes,
				Scaled:      scaled,
				Bootstrap:   boot,
				Permutation: perm,
				Predictions: predictions,
				Options:     opts,
			})
			if err != nil {
				return err
			}

			fmt.Println(ui.BuildReport(result))
			return nil
		},
	}

	cmd.Flags().StringVar(&form, "form", string(dataio.CaseForm), "data layout: case_form, frequency_form, or table_form")
	cmd.Flags().StringVar(&dims, "dims", "", "category counts per variable, e.g. 5,3 (required)")
	cmd.Flags().IntVar(&response, "response", 0, "1-based response axis (required)")
	cmd.Flags().StringVar(&predictors, "predictors", "", "1-based predictor axes, e.g. 1,3 (required)")
	cmd.Flags().BoolVar(&scaled, "scaled", false, "run inference on SCCRAM instead of CCRAM")
	cmd.Flags().BoolVar(&named, "named", false, "first row holds variable names")
	cmd.Flags().StringVar(&delimiter, "delimiter", "", "column separator (default comma)")
	cmd.Flags().BoolVar(&boot, "boot", false, "bootstrap confidence interval")
	cmd.Flags().BoolVar(&perm, "perm", false, "permutation significance test")
	cmd.Flags().BoolVar(&predictions, "predict", false, "bootstrap prediction-confidence matrix")
	cmd.Flags().IntVar(&resamples, "resamples", 9999, "number of resamples")
	cmd.Flags().Float64Var(&level, "level", 0.95, "confidence level")
	cmd.Flags().StringVar(&method, "method", "percentile", "CI method: percentile, basic, or bca")
	cmd.Flags().StringVar(&alternative, "alternative", "greater", "permutation alternative: greater, less, or two-sided")
	cmd.Flags().Int64Var(&seed, "seed", 42, "random seed")
	cmd.Flags().IntVar(&workers, "workers", 0, "worker count (0 = all cores)")
	cmd.Flags().BoolVar(&serial, "serial", false, "disable parallel resampling")
	_ = cmd.MarkFlagRequired("dims")
	_ = cmd.MarkFlagRequired("response")
	_ = cmd.MarkFlagRequired("predictors")

	return cmd
}

func parseInts(csv string) ([]int, error) {
	if strings.TrimSpace(csv) == "" {
		return nil, fmt.Errorf("empty list")
	}
	parts := strings.Split(csv, ",")
	values := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		values[i] = n
	}
	return values, nil
}
