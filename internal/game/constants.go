package game

import (
	"github.com/mitchelldurbincs/RobotWantsBattery/internal/config"
	"github.com/mitchelldurbincs/RobotWantsBattery/internal/game/mapgen"
	"github.com/mitchelldurbincs/RobotWantsBattery/internal/game/rules"
)

// MaxPlayers is the number of seats around one board
func MaxPlayers() int {
	return config.Get().Game.MaxPlayers
}

// MaxScore is the score on offer before any round has been completed
func MaxScore() int {
	return config.Get().Game.MaxScore
}

// Solver settings
func SolverIterations() int {
	return config.Get().AI.Iterations
}

// MaxIterations caps the sweeps a caller may request
func MaxIterations() int {
	return config.Get().AI.MaxIterations
}

func SolverWorkers() int {
	return config.Get().AI.Workers
}

// Exploration rates per AI controller
func EasyExploration() float64 {
	return config.Get().AI.Exploration.Easy
}

func HardExploration() float64 {
	return config.Get().AI.Exploration.Hard
}

// DefaultDifficulty is the difficulty used when a request names none
func DefaultDifficulty() rules.Difficulty {
	return rules.Difficulty(config.Get().Game.Difficulty)
}

// DefaultMap builds a generator config from the game section of the config
func DefaultMap(difficulty rules.Difficulty) mapgen.MapConfig {
	g := config.Get().Game
	mc := mapgen.MapConfig{
		Width:      g.GridWidth,
		Height:     g.GridHeight,
		Difficulty: difficulty,
		StartInset: g.StartInset,
	}
	copy(mc.WaterChances[:], g.WaterChances)
	return mc
}
