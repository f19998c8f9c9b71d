package contingency

import (
	"fmt"

	"goccram/domain/core"
)

// Table is an immutable d-dimensional array of non-negative observation
// counts, one axis per categorical variable. Counts are stored row-major.
// Resampling never mutates a table in place; every resample builds a new one.
type Table struct {
	shape   []int
	strides []int
	counts  []int
	total   int
}

// NewTable validates and wraps a flat row-major count slice.
// It fails when any count is negative, the total is zero, or the slice
// length disagrees with the declared shape.
func NewTable(counts []int, shape []int) (*Table, error) {
	if len(shape) == 0 {
		return nil, fmt.Errorf("%w: no axes declared", core.ErrShapeMismatch)
	}
	size := 1
	for i, card := range shape {
		if card < 1 {
			return nil, core.NewAxisError(core.ErrShapeMismatch, i)
		}
		size *= card
	}
	if len(counts) != size {
		return nil, fmt.Errorf("%w: %d cells declared, %d provided", core.ErrShapeMismatch, size, len(counts))
	}

	strides := make([]int, len(shape))
	stride := 1
	for i := len(shape) - 1; i >= 0; i-- {
		strides[i] = stride
		stride *= shape[i]
	}

	total := 0
	owned := make([]int, len(counts))
	for flat, c := range counts {
		if c < 0 {
			return nil, core.NewCellError(core.ErrNegativeCount, unravel(flat, shape, strides), c)
		}
		owned[flat] = c
		total += c
	}
	if total == 0 {
		return nil, core.ErrEmptyTable
	}

	return &Table{
		shape:   append([]int(nil), shape...),
		strides: strides,
		counts:  owned,
		total:   total,
	}, nil
}

// NDim returns the number of axes.
func (t *Table) NDim() int { return len(t.shape) }

// Shape returns a copy of the per-axis cardinalities.
func (t *Table) Shape() []int { return append([]int(nil), t.shape...) }

// Cardinality returns the number of categories along one axis.
func (t *Table) Cardinality(axis int) int { return t.shape[axis] }

// Total returns the grand total count n.
func (t *Table) Total() int { return t.total }

// Size returns the number of cells.
func (t *Table) Size() int { return len(t.counts) }

// Count returns the count at a full index tuple.
func (t *Table) Count(index []int) int {
	return t.counts[t.offset(index)]
}

// CountFlat returns the count at a flat row-major offset.
func (t *Table) CountFlat(flat int) int { return t.counts[flat] }

// Counts returns a copy of the flat count slice.
func (t *Table) Counts() []int { return append([]int(nil), t.counts...) }

// Index converts a flat offset back into a full index tuple.
func (t *Table) Index(flat int) []int {
	return unravel(flat, t.shape, t.strides)
}

func (t *Table) offset(index []int) int {
	flat := 0
	for axis, i := range index {
		flat += i * t.strides[axis]
	}
	return flat
}

func unravel(flat int, shape, strides []int) []int {
	index := make([]int, len(shape))
	for axis := range shape {
		index[axis] = flat / strides[axis]
		flat %= strides[axis]
	}
	return index
}
