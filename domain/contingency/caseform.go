package contingency

import (
	"fmt"

	"goccram/domain/core"
)

// ToCaseForm expands a count table into individual observations: one row of
// 0-based category indices per observed unit, frequencies expanded. Row
// order follows the table's row-major cell order, which keeps the expansion
// deterministic for a given table.
func (t *Table) ToCaseForm() [][]int {
	cases := make([][]int, 0, t.total)
	for flat := 0; flat < t.Size(); flat++ {
		c := t.CountFlat(flat)
		if c == 0 {
			continue
		}
		index := t.Index(flat)
		for k := 0; k < c; k++ {
			cases = append(cases, append([]int(nil), index...))
		}
	}
	return cases
}

// FromCaseForm counts individual observations back into a table of the
// given shape. Each row holds one 0-based category index per axis.
func FromCaseForm(cases [][]int, shape []int) (*Table, error) {
	size := 1
	for _, card := range shape {
		size *= card
	}
	counts := make([]int, size)
	for row, c := range cases {
		if len(c) != len(shape) {
			return nil, fmt.Errorf("%w: case row %d has %d values for %d axes",
				core.ErrShapeMismatch, row, len(c), len(shape))
		}
		flat := 0
		stride := size
		for axis, i := range c {
			stride /= shape[axis]
			if i < 0 || i >= shape[axis] {
				return nil, fmt.Errorf("%w: case row %d category %d on axis %d",
					core.ErrShapeMismatch, row, i, axis)
			}
			flat += i * stride
		}
		counts[flat]++
	}
	return NewTable(counts, shape)
}
