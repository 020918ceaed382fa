package rules

import "github.com/mitchelldurbincs/RobotWantsBattery/internal/game/core"

// turnPairs lists the direction pairs tried for turning moves, in
// enumeration order. The same-axis reversals (step out, walk back over the
// trail) are legal moves.
var turnPairs = [12][2]core.Direction{
	{core.Up, core.Down},
	{core.Down, core.Up},
	{core.Left, core.Right},
	{core.Right, core.Left},
	{core.Up, core.Left},
	{core.Up, core.Right},
	{core.Down, core.Left},
	{core.Down, core.Right},
	{core.Left, core.Up},
	{core.Left, core.Down},
	{core.Right, core.Up},
	{core.Right, core.Down},
}

// EnumerateMoves returns every legal move from start for the rolled dice:
// up to 4 flying moves followed by up to 24 turning moves. An empty result
// means the piece is stuck; it is not an error.
func EnumerateMoves(b *core.Board, start core.Coordinate, die1, die2 int) ([]core.Move, error) {
	if err := core.ValidateStart(b, start); err != nil {
		return nil, err
	}
	if err := core.ValidateDie(die1); err != nil {
		return nil, err
	}
	if err := core.ValidateDie(die2); err != nil {
		return nil, err
	}

	var moves []core.Move
	forEachMove(b, start, die1, die2, func(c candidate) {
		moves = append(moves, c.build(start))
	})
	return moves, nil
}

// candidate is a legal move before its path is materialised
type candidate struct {
	dirs   [2]core.Direction
	values [2]int
	flying bool
	target core.Coordinate
}

func (c candidate) build(start core.Coordinate) core.Move {
	m := core.Move{
		Dirs:    c.dirs,
		Values:  c.values,
		Flying:  c.flying,
		Outcome: core.OutcomeAlive,
		Target:  c.target,
	}
	if c.flying {
		m.Path = append([]core.Coordinate{start}, core.LegPath(start, c.dirs[0], c.values[0]+c.values[1])...)
		return m
	}
	pivot := start.Step(c.dirs[0], c.values[0])
	m.Path = make([]core.Coordinate, 0, 1+c.values[0]+c.values[1])
	m.Path = append(m.Path, start)
	m.Path = append(m.Path, core.LegPath(start, c.dirs[0], c.values[0])...)
	m.Path = append(m.Path, core.LegPath(pivot, c.dirs[1], c.values[1])...)
	return m
}

// ForEachTarget calls fn with the target of every legal move, in enumeration
// order, without allocating. Inputs are not validated.
func ForEachTarget(b *core.Board, start core.Coordinate, die1, die2 int, fn func(core.Coordinate)) {
	forEachMove(b, start, die1, die2, func(c candidate) { fn(c.target) })
}

func forEachMove(b *core.Board, start core.Coordinate, die1, die2 int, fn func(candidate)) {
	sum := die1 + die2
	for _, d := range core.Directions {
		dest := start.Step(d, sum)
		if b.IsWalkableAt(dest) {
			fn(candidate{
				dirs:   [2]core.Direction{d, d},
				values: [2]int{die1, die2},
				flying: true,
				target: dest,
			})
		}
	}

	for _, u := range [2][2]int{{die1, die2}, {die2, die1}} {
		for _, dirs := range turnPairs {
			pivot := start.Step(dirs[0], u[0])
			final := pivot.Step(dirs[1], u[1])
			if !b.IsWalkableAt(pivot) || !b.IsWalkableAt(final) {
				continue
			}
			if !IsLegClear(b, start, dirs[0], u[0]) || !IsLegClear(b, pivot, dirs[1], u[1]) {
				continue
			}
			fn(candidate{dirs: dirs, values: u, target: final})
		}
	}
}

// IsLegClear reports whether every tile from `from` through n steps in
// direction d is on the board and dry, both ends included.
func IsLegClear(b *core.Board, from core.Coordinate, d core.Direction, n int) bool {
	for i := 0; i <= n; i++ {
		if !b.IsWalkableAt(from.Step(d, i)) {
			return false
		}
	}
	return true
}
