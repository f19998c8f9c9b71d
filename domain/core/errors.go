package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Construction errors (fatal before any analysis)
	ErrInvalidTable     = errors.New("invalid contingency table")
	ErrNegativeCount    = fmt.Errorf("%w: negative count", ErrInvalidTable)
	ErrEmptyTable       = fmt.Errorf("%w: total count is zero", ErrInvalidTable)
	ErrShapeMismatch    = fmt.Errorf("%w: shape mismatch", ErrInvalidTable)
	ErrVariableMismatch = fmt.Errorf("%w: variable metadata mismatch", ErrInvalidTable)

	// Specification errors (fatal, caller supplied a bad axis spec)
	ErrInvalidAxisSpec   = errors.New("invalid axis specification")
	ErrAxisOutOfRange    = fmt.Errorf("%w: axis out of range", ErrInvalidAxisSpec)
	ErrResponseInPredset = fmt.Errorf("%w: response axis included in predictors", ErrInvalidAxisSpec)

	// Degenerate conditions (recoverable, local to one combination or axis)
	ErrDegenerateCondition = errors.New("degenerate condition: zero-probability combination")
	ErrUndefinedScore      = errors.New("undefined score: zero-width marginal step")
	ErrDegenerateScale     = errors.New("degenerate scale: response score variance is zero")

	// Resampling errors (fatal for the run, not the process)
	ErrResamplingAborted = errors.New("resampling run aborted")
)

// NewAxisError attaches the offending axis index to an axis-spec failure.
func NewAxisError(sentinel error, axis int) error {
	return fmt.Errorf("%w: axis %d", sentinel, axis)
}

// NewCellError attaches the offending cell index to a table construction failure.
func NewCellError(sentinel error, index []int, value int) error {
	return fmt.Errorf("%w: cell %v has value %d", sentinel, index, value)
}

// NewCombinationError attaches a predictor combination to a degenerate condition.
func NewCombinationError(sentinel error, combo []int) error {
	return fmt.Errorf("%w: combination %v", sentinel, combo)
}

// IsDegenerate reports whether err is a recoverable degenerate-combination condition.
func IsDegenerate(err error) bool {
	return errors.Is(err, ErrDegenerateCondition)
}

// IsSpecError reports whether err is a fatal axis-specification failure.
func IsSpecError(err error) bool {
	return errors.Is(err, ErrInvalidAxisSpec)
}

// IsConstructionError reports whether err is a fatal table construction failure.
func IsConstructionError(err error) bool {
	return errors.Is(err, ErrInvalidTable)
}
