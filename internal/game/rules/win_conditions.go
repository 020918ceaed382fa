package rules

import (
	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/RobotWantsBattery/internal/game/core"
)

// NoWinner is returned as the winner ID when nobody reached the battery
const NoWinner = -1

// WinConditionChecker handles game over detection and winner determination
type WinConditionChecker struct {
	logger zerolog.Logger
	end    core.Coordinate
}

// NewWinConditionChecker creates a new win condition checker for the given goal tile
func NewWinConditionChecker(logger zerolog.Logger, end core.Coordinate) *WinConditionChecker {
	return &WinConditionChecker{
		logger: logger.With().Str("component", "WinConditionChecker").Logger(),
		end:    end,
	}
}

// CheckGameOver reports whether the game is over and who won.
// The first living player standing on the goal wins; if every player has
// drowned the game ends with NoWinner.
func (wc *WinConditionChecker) CheckGameOver(players []Player) (bool, int) {
	wc.logger.Debug().Msg("Checking game over conditions")
	aliveCount := 0

	for _, p := range players {
		if !p.IsAlive() {
			continue
		}
		aliveCount++
		if p.Position() == wc.end {
			wc.logger.Info().
				Int("winner_player_id", p.GetID()).
				Str("goal", wc.end.String()).
				Msg("Winner determined")
			return true, p.GetID()
		}
	}

	gameOver := aliveCount == 0
	if gameOver {
		wc.logger.Info().Msg("No winner found, every player drowned")
	}
	wc.logger.Debug().Bool("is_game_over", gameOver).Int("alive_player_count", aliveCount).Msg("Game over check complete")

	return gameOver, NoWinner
}

// Player interface to avoid circular imports
type Player interface {
	GetID() int
	IsAlive() bool
	Position() core.Coordinate
}
