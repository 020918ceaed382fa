package core

import (
	"fmt"
	"strings"
)

// Coordinate represents a position on the game board
type Coordinate struct {
	X, Y int
}

// NewCoordinate creates a new coordinate with the given x and y values
func NewCoordinate(x, y int) Coordinate {
	return Coordinate{X: x, Y: y}
}

// FromIndex creates a coordinate from a board array index using row-major ordering
func FromIndex(idx, width int) Coordinate {
	return Coordinate{
		X: idx % width,
		Y: idx / width,
	}
}

// IsValid checks if the coordinate is within the given bounds
func (c Coordinate) IsValid(width, height int) bool {
	return c.X >= 0 && c.X < width && c.Y >= 0 && c.Y < height
}

// ToIndex converts the coordinate to a board array index using row-major ordering
func (c Coordinate) ToIndex(width int) int {
	return c.Y*width + c.X
}

// DistanceTo calculates the Manhattan distance to another coordinate
func (c Coordinate) DistanceTo(other Coordinate) int {
	return abs(c.X-other.X) + abs(c.Y-other.Y)
}

// Add returns a new coordinate that is the sum of this coordinate and another
func (c Coordinate) Add(other Coordinate) Coordinate {
	return Coordinate{
		X: c.X + other.X,
		Y: c.Y + other.Y,
	}
}

// Equal checks if two coordinates are equal
func (c Coordinate) Equal(other Coordinate) bool {
	return c.X == other.X && c.Y == other.Y
}

// String returns a string representation of the coordinate
func (c Coordinate) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Step returns the coordinate n tiles away in the given direction
func (c Coordinate) Step(d Direction, n int) Coordinate {
	v := d.Vector()
	return Coordinate{X: c.X + v.X*n, Y: c.Y + v.Y*n}
}

// Axis is the board axis a direction moves along
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

// Direction represents a cardinal direction
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

// Directions lists all directions in enumeration order
var Directions = [4]Direction{Up, Down, Left, Right}

// Axis returns AxisY for Up/Down and AxisX for Left/Right
func (d Direction) Axis() Axis {
	switch d {
	case Left, Right:
		return AxisX
	default:
		return AxisY
	}
}

// Sign is -1 for Up and Left, +1 for Down and Right
func (d Direction) Sign() int {
	switch d {
	case Down, Right:
		return 1
	default:
		return -1
	}
}

// Vector returns the unit offset of the direction
func (d Direction) Vector() Coordinate {
	if d.Axis() == AxisX {
		return Coordinate{X: d.Sign()}
	}
	return Coordinate{Y: d.Sign()}
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "Up"
	case Down:
		return "Down"
	case Left:
		return "Left"
	case Right:
		return "Right"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// ParseDirection accepts a direction name in any case
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up":
		return Up, nil
	case "down":
		return Down, nil
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidDirection, s)
	}
}
