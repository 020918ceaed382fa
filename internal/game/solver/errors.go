package solver

import "errors"

var (
	ErrInvalidGoal       = errors.New("goal tile must be a dry tile on the board")
	ErrInvalidIterations = errors.New("iterations must be non-negative")
	ErrFieldMismatch     = errors.New("field does not match board dimensions")
)
