package core

import "errors"

var (
	ErrInvalidCoordinates = errors.New("invalid coordinates")
	ErrInvalidDirection   = errors.New("invalid direction")
	ErrInvalidDie         = errors.New("die value must be between 1 and 6")
	ErrStartIsWater       = errors.New("start tile is water")
	ErrEmptyBoard         = errors.New("board has no tiles")
	ErrInvalidBoard       = errors.New("invalid board")
)
