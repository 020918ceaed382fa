package solver

import (
	"github.com/mitchelldurbincs/RobotWantsBattery/internal/game/core"
	"github.com/mitchelldurbincs/RobotWantsBattery/internal/game/rules"
)

// maxReach is the longest distance a single turn can cover (two sixes).
const maxReach = 2 * core.MaxDie

// Seed estimates, for every dry tile, the chance of reaching end within a
// single turn. It ignores multi-turn paths and is only the starting point
// of value iteration.
func Seed(b *core.Board, end core.Coordinate) (*Field, error) {
	if err := validateGoal(b, end); err != nil {
		return nil, err
	}

	f := newField(b.W, b.H)
	for idx := range f.values {
		c := core.FromIndex(idx, b.W)
		if !b.IsWalkableAt(c) {
			continue
		}
		f.values[idx] = seedValue(b, c, end)
	}
	return f, nil
}

func seedValue(b *core.Board, from, end core.Coordinate) float64 {
	if from == end {
		return 1
	}
	dx, dy := abs(end.X-from.X), abs(end.Y-from.Y)
	if dx > maxReach || dy > maxReach {
		return 0
	}

	if dx > 0 && dy > 0 {
		// Each leg of a two-leg walk is a single die.
		if dx > core.MaxDie || dy > core.MaxDie {
			return 0
		}
		orders := 0
		if cornerClear(b, from, core.NewCoordinate(end.X, from.Y), end) {
			orders++
		}
		if cornerClear(b, from, core.NewCoordinate(from.X, end.Y), end) {
			orders++
		}
		return float64(orders) / core.RollOutcomes
	}

	toward := towards(from, end)
	dist := dx + dy
	ahead := walkableRun(b, from, toward)
	behind := walkableRun(b, from, opposite(toward))
	return float64(straightRolls(dist, ahead, behind)) / core.RollOutcomes
}

// straightRolls counts the ordered rolls that put a piece exactly dist tiles
// away on its own row or column, given how far it can walk ahead of and
// behind itself. Flights always count; walks need clear ground, either
// straight ahead or by stepping back first.
func straightRolls(dist, ahead, behind int) int {
	if dist >= core.MaxDie || ahead < dist {
		if dist > core.MaxDie {
			return maxReach + 1 - dist
		}
		return dist - 1
	}
	extra := max(behind, ahead-dist)
	return 2*min(core.MaxDie-dist, extra) + (dist - 1)
}

// cornerClear reports whether both legs from -> corner -> to are dry
func cornerClear(b *core.Board, from, corner, to core.Coordinate) bool {
	return spanClear(b, from, corner) && spanClear(b, corner, to)
}

// spanClear checks every tile between a and b inclusive; a and b share a row or column
func spanClear(b *core.Board, a, c core.Coordinate) bool {
	if a == c {
		return b.IsWalkableAt(a)
	}
	return rules.IsLegClear(b, a, towards(a, c), a.DistanceTo(c))
}

// walkableRun counts dry tiles in direction d before the first water tile
// or edge, capped at maxReach.
func walkableRun(b *core.Board, from core.Coordinate, d core.Direction) int {
	for i := 1; i <= maxReach; i++ {
		if !b.IsWalkableAt(from.Step(d, i)) {
			return i - 1
		}
	}
	return maxReach
}

// towards returns the direction from a to b; they must share a row or column
func towards(a, b core.Coordinate) core.Direction {
	switch {
	case b.X > a.X:
		return core.Right
	case b.X < a.X:
		return core.Left
	case b.Y < a.Y:
		return core.Up
	default:
		return core.Down
	}
}

func opposite(d core.Direction) core.Direction {
	switch d {
	case core.Up:
		return core.Down
	case core.Down:
		return core.Up
	case core.Left:
		return core.Right
	default:
		return core.Left
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
