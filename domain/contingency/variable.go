package contingency

import "fmt"

// Variable describes one categorical axis of a contingency table.
// Instances are created at model construction time and never mutated.
type Variable struct {
	Name        string   `json:"name"`
	Ordinal     bool     `json:"ordinal"`
	Cardinality int      `json:"cardinality"`
	Labels      []string `json:"labels,omitempty"` // optional, len == Cardinality when present
}

// Label returns the human-readable label for a category index,
// falling back to the 1-based index when no labels are declared.
func (v Variable) Label(category int) string {
	if category >= 0 && category < len(v.Labels) {
		return v.Labels[category]
	}
	return fmt.Sprintf("%d", category+1)
}

// DefaultVariables synthesizes ordinal variables V1..Vd for a table shape
// when the caller supplies no metadata. Ordinal is the default because
// checkerboard scores assume the declared category order is meaningful.
func DefaultVariables(shape []int) []Variable {
	vars := make([]Variable, len(shape))
	for i, card := range shape {
		vars[i] = Variable{
			Name:        fmt.Sprintf("V%d", i+1),
			Ordinal:     true,
			Cardinality: card,
		}
	}
	return vars
}
