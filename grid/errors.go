package grid

import "errors"

// Layout construction errors.
var (
	// ErrInvalidDimension is returned when the grid edge length is not
	// in [1, MaxDim].
	ErrInvalidDimension = errors.New("grid: invalid dimension")

	// ErrDegenerateBounds is returned when an axis interval is empty,
	// inverted or not finite.
	ErrDegenerateBounds = errors.New("grid: degenerate bounds")
)
