package game

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/RobotWantsBattery/internal/game/core"
	"github.com/mitchelldurbincs/RobotWantsBattery/internal/game/mapgen"
	"github.com/mitchelldurbincs/RobotWantsBattery/internal/game/policy"
	"github.com/mitchelldurbincs/RobotWantsBattery/internal/game/rules"
	"github.com/mitchelldurbincs/RobotWantsBattery/internal/game/solver"
)

func benchBoard(b *testing.B, size int, difficulty rules.Difficulty) *core.Board {
	b.Helper()
	gen := mapgen.NewGenerator(mapgen.DefaultMapConfig(size, difficulty), rand.New(rand.NewSource(12345)))
	board, err := gen.GenerateMap()
	if err != nil {
		b.Fatal(err)
	}
	return board
}

func BenchmarkSolve(b *testing.B) {
	testCases := []struct {
		size    int
		workers int
	}{
		{16, 1},
		{16, 4},
		{32, 1},
		{32, 4},
		{64, 1},
		{64, 8},
	}

	for _, tc := range testCases {
		b.Run(fmt.Sprintf("%dx%d_workers_%d", tc.size, tc.size, tc.workers), func(b *testing.B) {
			board := benchBoard(b, tc.size, rules.DifficultyNormal)
			s := solver.NewSolver(zerolog.Nop(), tc.workers)
			ctx := context.Background()

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := s.Solve(ctx, board, board.End(), solver.DefaultIterations); err != nil {
					b.Fatal(err)
				}
			}
			b.ReportMetric(float64(tc.size*tc.size), "board_tiles")
		})
	}
}

func BenchmarkPlayAITurn(b *testing.B) {
	board := benchBoard(b, 16, rules.DifficultyEasy)
	newGame := func() *Engine {
		engine, err := NewEngine(context.Background(), GameConfig{
			Board:       board,
			Map:         mapgen.MapConfig{Difficulty: rules.DifficultyEasy},
			Controllers: []Controller{ControllerAIHard, ControllerAIEasy},
			Rng:         rand.New(rand.NewSource(1)),
			Selector:    policy.NewSelector(zerolog.Nop(), 1),
			Logger:      zerolog.Nop(),
		})
		if err != nil {
			b.Fatal(err)
		}
		if err := engine.Start(); err != nil {
			b.Fatal(err)
		}
		return engine
	}

	engine := newGame()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if engine.IsGameOver() {
			b.StopTimer()
			engine = newGame()
			b.StartTimer()
		}
		if _, err := engine.PlayAITurn(context.Background()); err != nil {
			b.Fatal(err)
		}
	}
}
