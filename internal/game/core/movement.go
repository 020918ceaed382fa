package core

import "fmt"

// Outcome is how a move ends for the piece that makes it
type Outcome int

const (
	OutcomeAlive Outcome = iota
	OutcomeDrowned
	OutcomeOutOfBounds
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAlive:
		return "alive"
	case OutcomeDrowned:
		return "drowned"
	case OutcomeOutOfBounds:
		return "out_of_bounds"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Move is a candidate relocation for one turn.
//
// Flying moves combine both dice into one straight leg; Dirs then holds the
// same direction twice. Turning moves spend one die per leg. Path lists every
// tile crossed, starting with the tile the move was made from. Target is only
// meaningful when Outcome is OutcomeAlive.
type Move struct {
	Dirs     [2]Direction
	Values   [2]int
	Path     []Coordinate
	Flying   bool
	Outcome  Outcome
	Target   Coordinate
	Fallback bool
}

// Fatal reports whether the move drowns the piece or leaves the board
func (m Move) Fatal() bool { return m.Outcome != OutcomeAlive }

// Start returns the tile the move was made from
func (m Move) Start() Coordinate {
	if len(m.Path) == 0 {
		return Coordinate{X: -1, Y: -1}
	}
	return m.Path[0]
}

func (m Move) String() string {
	kind := "turn"
	if m.Flying {
		kind = "fly"
	}
	if m.Fatal() {
		return fmt.Sprintf("%s %s%d/%s%d from %s: %s", kind, m.Dirs[0], m.Values[0], m.Dirs[1], m.Values[1], m.Start(), m.Outcome)
	}
	return fmt.Sprintf("%s %s%d/%s%d %s->%s", kind, m.Dirs[0], m.Values[0], m.Dirs[1], m.Values[1], m.Start(), m.Target)
}

// LegPath returns the n tiles visited when stepping from c in direction d,
// excluding c itself.
func LegPath(c Coordinate, d Direction, n int) []Coordinate {
	path := make([]Coordinate, n)
	for i := 1; i <= n; i++ {
		path[i-1] = c.Step(d, i)
	}
	return path
}

// ValidateStart checks that a move may begin at c
func ValidateStart(b *Board, c Coordinate) error {
	if !b.InBounds(c.X, c.Y) {
		return fmt.Errorf("%w: start %s outside %dx%d board", ErrInvalidCoordinates, c, b.W, b.H)
	}
	if !b.IsWalkableAt(c) {
		return fmt.Errorf("%w: %s", ErrStartIsWater, c)
	}
	return nil
}

// TraceMove resolves a planned move tile by tile, the way the piece actually
// travels. Equal directions fly values[0]+values[1] tiles from start and only
// the landing tile must be dry. Different directions walk two legs and every
// tile stepped on must be dry. The path stops at the first fatal tile.
func TraceMove(b *Board, start Coordinate, dirs [2]Direction, values [2]int) (Move, error) {
	if err := ValidateStart(b, start); err != nil {
		return Move{}, err
	}
	for _, v := range values {
		if err := ValidateDie(v); err != nil {
			return Move{}, err
		}
	}

	m := Move{
		Dirs:   dirs,
		Values: values,
		Path:   []Coordinate{start},
		Flying: dirs[0] == dirs[1],
	}

	if m.Flying {
		m.Outcome, m.Target = traceLeg(b, &m.Path, start, dirs[0], values[0]+values[1], true)
		return m, nil
	}

	outcome, pivot := traceLeg(b, &m.Path, start, dirs[0], values[0], false)
	if outcome != OutcomeAlive {
		m.Outcome = outcome
		return m, nil
	}
	m.Outcome, m.Target = traceLeg(b, &m.Path, pivot, dirs[1], values[1], false)
	return m, nil
}

func traceLeg(b *Board, path *[]Coordinate, from Coordinate, d Direction, n int, flying bool) (Outcome, Coordinate) {
	c := from
	for step := 1; step <= n; step++ {
		c = from.Step(d, step)
		if !b.InBounds(c.X, c.Y) {
			return OutcomeOutOfBounds, c
		}
		*path = append(*path, c)
		if b.At(c.X, c.Y).IsWater() && (!flying || step == n) {
			return OutcomeDrowned, c
		}
	}
	return OutcomeAlive, c
}
