package solver

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/mitchelldurbincs/RobotWantsBattery/internal/game/core"
	"github.com/mitchelldurbincs/RobotWantsBattery/internal/game/rules"
)

// DefaultIterations is the number of relaxation sweeps used when none is configured
const DefaultIterations = 3

// ComputeField seeds the board and then runs iterations synchronous sweeps
// on the calling goroutine.
func ComputeField(b *core.Board, end core.Coordinate, iterations int) (*Field, error) {
	if iterations < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidIterations, iterations)
	}
	field, err := Seed(b, end)
	if err != nil {
		return nil, err
	}
	for i := 0; i < iterations; i++ {
		field = relax(b, field)
	}
	return field, nil
}

// Relax performs one Jacobi sweep: every tile is recomputed from prev only.
func Relax(b *core.Board, prev *Field) (*Field, error) {
	if b == nil || b.Size() == 0 {
		return nil, core.ErrEmptyBoard
	}
	if prev == nil || !prev.Matches(b) {
		return nil, fmt.Errorf("%w: board is %dx%d", ErrFieldMismatch, b.W, b.H)
	}
	return relax(b, prev), nil
}

func relax(b *core.Board, prev *Field) *Field {
	next := newField(b.W, b.H)
	for y := 0; y < b.H; y++ {
		relaxRow(b, prev, next, y)
	}
	return next
}

func relaxRow(b *core.Board, prev, next *Field, y int) {
	for x := 0; x < b.W; x++ {
		next.values[y*b.W+x] = expectation(b, prev, core.NewCoordinate(x, y))
	}
}

// expectation is the value of starting a turn on c when every roll is
// answered with the move whose target scores best in prev.
func expectation(b *core.Board, prev *Field, c core.Coordinate) float64 {
	if !b.IsWalkableAt(c) {
		return 0
	}
	if prev.AtCoord(c) == 1 {
		return 1
	}

	sum := 0.0
	for _, p := range core.DiePairs() {
		best := 0.0
		rules.ForEachTarget(b, c, p.Low, p.High, func(t core.Coordinate) {
			if v := prev.AtCoord(t); v > best {
				best = v
			}
		})
		sum += float64(p.Weight) * best
	}
	return sum / core.RollOutcomes
}

func validateGoal(b *core.Board, end core.Coordinate) error {
	if b == nil || b.Size() == 0 {
		return core.ErrEmptyBoard
	}
	if !b.IsWalkableAt(end) {
		return fmt.Errorf("%w: %s", ErrInvalidGoal, end)
	}
	return nil
}

// Solver computes fields with each sweep split by row across a bounded
// number of goroutines. Results are identical to ComputeField.
type Solver struct {
	workers int
	logger  zerolog.Logger
}

// NewSolver creates a solver; workers <= 0 uses GOMAXPROCS
func NewSolver(logger zerolog.Logger, workers int) *Solver {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Solver{
		workers: workers,
		logger:  logger.With().Str("component", "Solver").Logger(),
	}
}

func (s *Solver) Workers() int { return s.workers }

// Solve is ComputeField with parallel sweeps. ctx is checked between sweeps.
func (s *Solver) Solve(ctx context.Context, b *core.Board, end core.Coordinate, iterations int) (*Field, error) {
	if iterations < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidIterations, iterations)
	}
	started := time.Now()

	field, err := Seed(b, end)
	if err != nil {
		return nil, err
	}
	for i := 0; i < iterations; i++ {
		if err := ctx.Err(); err != nil {
			s.logger.Debug().Int("sweep", i).Msg("Solve cancelled")
			return nil, err
		}
		field, err = s.sweep(ctx, b, field)
		if err != nil {
			return nil, err
		}
	}

	best, at := field.Max()
	s.logger.Debug().
		Int("width", b.W).
		Int("height", b.H).
		Int("iterations", iterations).
		Int("workers", s.workers).
		Float64("best", best).
		Str("best_at", at.String()).
		Dur("elapsed", time.Since(started)).
		Msg("Field solved")
	return field, nil
}

func (s *Solver) sweep(ctx context.Context, b *core.Board, prev *Field) (*Field, error) {
	next := newField(b.W, b.H)
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for y := 0; y < b.H; y++ {
		g.Go(func() error {
			relaxRow(b, prev, next, y)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return next, nil
}
