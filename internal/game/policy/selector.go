package policy

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/exp/rand"

	"github.com/mitchelldurbincs/RobotWantsBattery/internal/game/core"
	"github.com/mitchelldurbincs/RobotWantsBattery/internal/game/rules"
	"github.com/mitchelldurbincs/RobotWantsBattery/internal/game/solver"
)

var ErrInvalidExplorationRate = errors.New("exploration rate must be within [0, 1]")

// ChoiceKind records why a move was picked
type ChoiceKind uint8

const (
	ChoiceGreedy ChoiceKind = iota
	ChoiceExplore
	ChoiceFallback
)

func (k ChoiceKind) String() string {
	switch k {
	case ChoiceGreedy:
		return "greedy"
	case ChoiceExplore:
		return "explore"
	case ChoiceFallback:
		return "fallback"
	default:
		return fmt.Sprintf("ChoiceKind(%d)", uint8(k))
	}
}

// Choice is a selected move together with the field value of its target.
// A fallback choice is never a legal relocation: the caller loses the piece.
type Choice struct {
	Move  core.Move
	Value float64
	Kind  ChoiceKind
}

// Selector picks opponent moves. It is safe for concurrent use.
type Selector struct {
	mu     sync.Mutex
	rng    *rand.Rand
	logger zerolog.Logger
}

// NewSelector creates a selector whose exploration draws come from seed
func NewSelector(logger zerolog.Logger, seed uint64) *Selector {
	return &Selector{
		rng:    rand.New(rand.NewSource(seed)),
		logger: logger.With().Str("component", "Selector").Logger(),
	}
}

// ChooseMove enumerates the legal moves for the roll and picks one. With
// probability explorationRate the pick is uniform; otherwise it is the move
// whose target scores highest in field, the first one on ties. A nil field
// scores every target 0.
func (s *Selector) ChooseMove(b *core.Board, start core.Coordinate, die1, die2 int, field *solver.Field, explorationRate float64) (Choice, error) {
	if explorationRate < 0 || explorationRate > 1 {
		return Choice{}, fmt.Errorf("%w: got %v", ErrInvalidExplorationRate, explorationRate)
	}
	if field != nil && !field.Matches(b) {
		return Choice{}, fmt.Errorf("%w: board is %dx%d, field is %dx%d", solver.ErrFieldMismatch, b.W, b.H, field.W, field.H)
	}

	moves, err := rules.EnumerateMoves(b, start, die1, die2)
	if err != nil {
		return Choice{}, err
	}

	if len(moves) == 0 {
		return s.fallback(b, start, die1, die2)
	}

	if explorationRate > 0 && s.draw() < explorationRate {
		m := moves[s.intn(len(moves))]
		s.logger.Debug().Str("move", m.String()).Int("candidates", len(moves)).Msg("Exploring")
		return Choice{Move: m, Value: score(field, m.Target), Kind: ChoiceExplore}, nil
	}

	best, bestValue := 0, score(field, moves[0].Target)
	for i := 1; i < len(moves); i++ {
		if v := score(field, moves[i].Target); v > bestValue {
			best, bestValue = i, v
		}
	}
	return Choice{Move: moves[best], Value: bestValue, Kind: ChoiceGreedy}, nil
}

// fallback flies right by the full roll. Since no flight is legal it always
// ends in water or off the board.
func (s *Selector) fallback(b *core.Board, start core.Coordinate, die1, die2 int) (Choice, error) {
	m, err := core.TraceMove(b, start, [2]core.Direction{core.Right, core.Right}, [2]int{die1, die2})
	if err != nil {
		return Choice{}, err
	}
	m.Fallback = true
	s.logger.Debug().
		Str("start", start.String()).
		Int("die1", die1).
		Int("die2", die2).
		Str("outcome", m.Outcome.String()).
		Msg("No legal move, using fallback")
	return Choice{Move: m, Kind: ChoiceFallback}, nil
}

func (s *Selector) draw() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

func (s *Selector) intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

func score(field *solver.Field, c core.Coordinate) float64 {
	if field == nil {
		return 0
	}
	return field.AtCoord(c)
}
