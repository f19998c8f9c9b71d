package contingency

import (
	"fmt"

	"goccram/domain/core"
)

// Model owns a count table and exposes its probability derivations.
// Everything here is a pure function of the table; the table is read-only
// once the model is constructed.
type Model struct {
	table *Table
	vars  []Variable
	probs []float64
	n     float64
}

// NewModel wraps a validated table with variable metadata. When vars is nil,
// default ordinal variables V1..Vd are synthesized. Declared cardinalities
// must match the table shape.
func NewModel(table *Table, vars []Variable) (*Model, error) {
	if vars == nil {
		vars = DefaultVariables(table.Shape())
	}
	if len(vars) != table.NDim() {
		return nil, fmt.Errorf("%w: %d variables for %d axes", core.ErrVariableMismatch, len(vars), table.NDim())
	}
	for axis, v := range vars {
		if v.Cardinality != table.Cardinality(axis) {
			return nil, fmt.Errorf("%w: variable %q declares %d categories, table axis %d has %d",
				core.ErrVariableMismatch, v.Name, v.Cardinality, axis, table.Cardinality(axis))
		}
	}

	n := float64(table.Total())
	probs := make([]float64, table.Size())
	for flat := 0; flat < table.Size(); flat++ {
		probs[flat] = float64(table.CountFlat(flat)) / n
	}

	return &Model{table: table, vars: vars, probs: probs, n: n}, nil
}

// NewModelFromCounts builds a table and model in one step.
func NewModelFromCounts(counts []int, shape []int, vars []Variable) (*Model, error) {
	table, err := NewTable(counts, shape)
	if err != nil {
		return nil, err
	}
	return NewModel(table, vars)
}

// Table returns the underlying count table.
func (m *Model) Table() *Table { return m.table }

// Variables returns the variable metadata, one per axis.
func (m *Model) Variables() []Variable { return m.vars }

// Variable returns the metadata for one axis.
func (m *Model) Variable(axis int) Variable { return m.vars[axis] }

// NDim returns the number of axes.
func (m *Model) NDim() int { return m.table.NDim() }

// SampleSize returns the grand total count n.
func (m *Model) SampleSize() int { return m.table.Total() }

// JointProbability returns a copy of the flat joint probability array.
// Entries sum to 1 within floating tolerance.
func (m *Model) JointProbability() []float64 {
	return append([]float64(nil), m.probs...)
}

// ProbFlat returns the joint probability at a flat offset.
func (m *Model) ProbFlat(flat int) float64 { return m.probs[flat] }

// CheckAxis validates a single axis index.
func (m *Model) CheckAxis(axis int) error {
	if axis < 0 || axis >= m.NDim() {
		return core.NewAxisError(core.ErrAxisOutOfRange, axis)
	}
	return nil
}

// CheckAxisSpec validates a (response, predictors) direction: all axes in
// range, predictors distinct, response excluded from the predictor set.
func (m *Model) CheckAxisSpec(response int, predictors []int) error {
	if err := m.CheckAxis(response); err != nil {
		return err
	}
	seen := make(map[int]bool, len(predictors))
	for _, p := range predictors {
		if err := m.CheckAxis(p); err != nil {
			return err
		}
		if p == response {
			return core.NewAxisError(core.ErrResponseInPredset, p)
		}
		if seen[p] {
			return fmt.Errorf("%w: duplicate predictor axis %d", core.ErrInvalidAxisSpec, p)
		}
		seen[p] = true
	}
	return nil
}

// Marginal returns the marginal probability vector of one axis.
func (m *Model) Marginal(axis int) ([]float64, error) {
	if err := m.CheckAxis(axis); err != nil {
		return nil, err
	}
	marginal := make([]float64, m.table.Cardinality(axis))
	for flat, p := range m.probs {
		if p == 0 {
			continue
		}
		marginal[m.table.Index(flat)[axis]] += p
	}
	return marginal, nil
}

// MarginalCDF returns the cumulative marginal distribution of one axis as
// a vector of length I+1: u_0 = 0 <= u_1 <= ... <= u_I = 1. Zero-width
// steps are permitted when a category has zero marginal mass.
func (m *Model) MarginalCDF(axis int) ([]float64, error) {
	marginal, err := m.Marginal(axis)
	if err != nil {
		return nil, err
	}
	cdf := make([]float64, len(marginal)+1)
	for i, p := range marginal {
		cdf[i+1] = cdf[i] + p
	}
	// pin the endpoint against accumulation error
	cdf[len(cdf)-1] = 1
	return cdf, nil
}

// MarginalAt returns the marginal probability of a fixed category
// combination over a subset of axes.
func (m *Model) MarginalAt(axes []int, combo []int) (float64, error) {
	if len(axes) != len(combo) {
		return 0, fmt.Errorf("%w: %d axes, %d categories", core.ErrInvalidAxisSpec, len(axes), len(combo))
	}
	for i, axis := range axes {
		if err := m.CheckAxis(axis); err != nil {
			return 0, err
		}
		if combo[i] < 0 || combo[i] >= m.table.Cardinality(axis) {
			return 0, fmt.Errorf("%w: category %d on axis %d", core.ErrInvalidAxisSpec, combo[i], axis)
		}
	}
	sum := 0.0
	for flat, p := range m.probs {
		if p == 0 {
			continue
		}
		if indexMatches(m.table.Index(flat), axes, combo) {
			sum += p
		}
	}
	return sum, nil
}

// Conditional returns the probability vector of the response axis given a
// fixed category combination on the conditioning axes; remaining axes are
// marginalized out. Returns ErrDegenerateCondition when the conditioning
// combination has zero probability.
func (m *Model) Conditional(response int, axes []int, combo []int) ([]float64, error) {
	if err := m.CheckAxisSpec(response, axes); err != nil {
		return nil, err
	}
	if len(axes) != len(combo) {
		return nil, fmt.Errorf("%w: %d axes, %d categories", core.ErrInvalidAxisSpec, len(axes), len(combo))
	}

	cond := make([]float64, m.table.Cardinality(response))
	sum := 0.0
	for flat, p := range m.probs {
		if p == 0 {
			continue
		}
		index := m.table.Index(flat)
		if indexMatches(index, axes, combo) {
			cond[index[response]] += p
			sum += p
		}
	}
	if sum == 0 {
		return nil, core.NewCombinationError(core.ErrDegenerateCondition, combo)
	}
	for i := range cond {
		cond[i] /= sum
	}
	return cond, nil
}

func indexMatches(index []int, axes []int, combo []int) bool {
	for i, axis := range axes {
		if index[axis] != combo[i] {
			return false
		}
	}
	return true
}

// Combinations enumerates every category combination over the given axes in
// odometer order (last axis fastest). The yielded slice is reused between
// calls; callers that retain it must copy.
func (m *Model) Combinations(axes []int, visit func(combo []int) error) error {
	for _, axis := range axes {
		if err := m.CheckAxis(axis); err != nil {
			return err
		}
	}
	combo := make([]int, len(axes))
	for {
		if err := visit(combo); err != nil {
			return err
		}
		pos := len(axes) - 1
		for ; pos >= 0; pos-- {
			combo[pos]++
			if combo[pos] < m.table.Cardinality(axes[pos]) {
				break
			}
			combo[pos] = 0
		}
		if pos < 0 {
			return nil
		}
	}
}
