package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"goccram/domain/checkerboard"
	"goccram/domain/contingency"
	"goccram/domain/core"
	"goccram/internal"
	"goccram/internal/resampling"
	"goccram/models"
	"goccram/ports"
)

// AnalysisRequest describes one CCRAM study over an in-memory table.
type AnalysisRequest struct {
	Dataset    string                 `json:"dataset"`
	Counts     []int                  `json:"counts"` // flat row-major
	Shape      []int                  `json:"shape"`
	Variables  []contingency.Variable `json:"variables,omitempty"`
	Response   int                    `json:"response"`
	Predictors []int                  `json:"predictors"`
	Scaled     bool                   `json:"scaled"`

	Bootstrap   bool `json:"bootstrap"`
	Permutation bool `json:"permutation"`
	Predictions bool `json:"predictions"`

	Options resampling.Options `json:"options"`
}

// AnalysisService runs CCRAM studies and optionally persists the results.
// A nil repository keeps everything in memory.
type AnalysisService struct {
	driver *resampling.Driver
	repo   ports.AnalysisRepository
	logger *internal.Logger
}

// NewAnalysisService wires the resampling driver and optional persistence.
func NewAnalysisService(driver *resampling.Driver, repo ports.AnalysisRepository, logger *internal.Logger) *AnalysisService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &AnalysisService{driver: driver, repo: repo, logger: logger}
}

// Run executes one study: point estimates always, then whichever inference
// layers the request enables. Construction and specification failures are
// fatal before any resampling begins.
func (s *AnalysisService) Run(ctx context.Context, req AnalysisRequest) (*models.AnalysisResult, error) {
	model, err := contingency.NewModelFromCounts(req.Counts, req.Shape, req.Variables)
	if err != nil {
		return nil, err
	}
	if err := model.CheckAxisSpec(req.Response, req.Predictors); err != nil {
		return nil, err
	}

	engine := checkerboard.NewEngine(model)
	ccram, err := engine.CCRAM(req.Response, req.Predictors, false)
	if err != nil {
		return nil, err
	}

	result := &models.AnalysisResult{
		ID:         core.NewAnalysisID(),
		Dataset:    req.Dataset,
		Variables:  model.Variables(),
		Shape:      req.Shape,
		Response:   req.Response,
		Predictors: req.Predictors,
		Scaled:     req.Scaled,
		CCRAM:      ccram,
		Options:    req.Options,
		CreatedAt:  time.Now().UTC(),
	}

	sccram, err := engine.CCRAM(req.Response, req.Predictors, true)
	switch {
	case errors.Is(err, core.ErrDegenerateScale):
		if req.Scaled {
			return nil, err
		}
		s.logger.Warn("response %q has zero score variance, SCCRAM undefined",
			model.Variable(req.Response).Name)
	case err != nil:
		return nil, err
	default:
		result.SCCRAM = &sccram
	}

	predictions, err := engine.PredictAll(req.Response, req.Predictors)
	if err != nil {
		return nil, err
	}
	result.Predictions = predictions

	stat := checkerboard.CCRAMStatistic{
		Response:   req.Response,
		Predictors: req.Predictors,
		Scaled:     req.Scaled,
	}

	if req.Bootstrap {
		start := time.Now()
		boot, err := s.driver.Bootstrap(ctx, model, stat, req.Options)
		if err != nil {
			return nil, fmt.Errorf("bootstrap: %w", err)
		}
		s.logger.Info("%s bootstrap: %d resamples in %v", stat.Name(), req.Options.Resamples, time.Since(start))
		result.Bootstrap = boot
	}

	if req.Permutation {
		start := time.Now()
		perm, err := s.driver.Permutation(ctx, model, stat, req.Response, req.Options)
		if err != nil {
			return nil, fmt.Errorf("permutation: %w", err)
		}
		s.logger.Info("%s permutation: p=%.4f (%d resamples in %v)",
			stat.Name(), perm.PValue, req.Options.Resamples, time.Since(start))
		result.Permutation = perm
	}

	if req.Predictions {
		matrix, err := s.driver.PredictionMatrix(ctx, model, req.Response, req.Predictors, req.Options)
		if err != nil {
			return nil, fmt.Errorf("prediction matrix: %w", err)
		}
		result.PredictionMatrix = matrix
	}

	if s.repo != nil {
		if err := s.repo.Save(ctx, result); err != nil {
			// persistence failure does not invalidate the computed result
			s.logger.Error("failed to persist analysis %s: %v", result.ID, err)
		}
	}
	return result, nil
}

// Get retrieves a stored analysis by id.
func (s *AnalysisService) Get(ctx context.Context, id core.AnalysisID) (*models.AnalysisResult, error) {
	if s.repo == nil {
		return nil, fmt.Errorf("no analysis repository configured")
	}
	return s.repo.Get(ctx, id)
}

// List returns the most recent stored analyses.
func (s *AnalysisService) List(ctx context.Context, limit int) ([]*models.AnalysisResult, error) {
	if s.repo == nil {
		return nil, nil
	}
	return s.repo.List(ctx, limit)
}
