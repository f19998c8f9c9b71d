// Package checkerboard implements checkerboard copula scores, the copula
// regression function, and the CCRAM/SCCRAM association measures over an
// immutable contingency model snapshot.
package checkerboard

import (
	"math"
	"sync"

	"goccram/domain/contingency"
)

// Scorer derives per-variable checkerboard copula scores and score
// variances from a contingency model. It is a pure function of the model;
// results are memoized per axis because the same model is queried
// repeatedly across predictor/response directions.
type Scorer struct {
	model *contingency.Model

	mu        sync.Mutex
	scores    map[int][]float64
	variances map[int]float64
}

// NewScorer creates a scorer bound to one model snapshot.
func NewScorer(model *contingency.Model) *Scorer {
	return &Scorer{
		model:     model,
		scores:    make(map[int][]float64),
		variances: make(map[int]float64),
	}
}

// Model returns the underlying contingency model.
func (s *Scorer) Model() *contingency.Model { return s.model }

// Scores returns the checkerboard copula score vector of one axis:
// s_i = (u_{i-1} + u_i) / 2. Categories with a zero-width CDF step have no
// unique placement; their entry is NaN and must be checked with ScoreDefined
// before use.
func (s *Scorer) Scores(axis int) ([]float64, error) {
	s.mu.Lock()
	cached, ok := s.scores[axis]
	s.mu.Unlock()
	if ok {
		return append([]float64(nil), cached...), nil
	}

	cdf, err := s.model.MarginalCDF(axis)
	if err != nil {
		return nil, err
	}
	scores := make([]float64, len(cdf)-1)
	for i := range scores {
		if cdf[i+1] == cdf[i] {
			scores[i] = math.NaN()
			continue
		}
		scores[i] = (cdf[i] + cdf[i+1]) / 2
	}

	s.mu.Lock()
	s.scores[axis] = scores
	s.mu.Unlock()
	return append([]float64(nil), scores...), nil
}

// ScoreDefined reports whether a score entry has a defined placement.
func ScoreDefined(score float64) bool {
	return !math.IsNaN(score)
}

// ScoreVariance returns sigma^2_S = (1/4) sum_i u_{i-1} u_i p_i for one
// axis. Always >= 0; exactly 0 only when the axis has a single category
// carrying all the mass.
func (s *Scorer) ScoreVariance(axis int) (float64, error) {
	s.mu.Lock()
	cached, ok := s.variances[axis]
	s.mu.Unlock()
	if ok {
		return cached, nil
	}

	cdf, err := s.model.MarginalCDF(axis)
	if err != nil {
		return 0, err
	}
	variance := 0.0
	for i := 0; i+1 < len(cdf); i++ {
		variance += cdf[i] * cdf[i+1] * (cdf[i+1] - cdf[i])
	}
	variance /= 4

	s.mu.Lock()
	s.variances[axis] = variance
	s.mu.Unlock()
	return variance, nil
}
