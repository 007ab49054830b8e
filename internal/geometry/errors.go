package geometry

import "errors"

var (
	// ErrInvalidDimension is returned when a length, width or height is not a positive finite number.
	ErrInvalidDimension = errors.New("dimensions must be positive finite numbers")
)
