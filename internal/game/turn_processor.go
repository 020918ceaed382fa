package game

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/RobotWantsBattery/internal/game/core"
	"github.com/mitchelldurbincs/RobotWantsBattery/internal/game/events"
	"github.com/mitchelldurbincs/RobotWantsBattery/internal/game/rules"
	"github.com/mitchelldurbincs/RobotWantsBattery/internal/game/states"
)

// TurnProcessor applies a chosen move and hands the turn on
type TurnProcessor struct {
	engine *Engine
	logger zerolog.Logger
}

// NewTurnProcessor creates a new turn processor
func NewTurnProcessor(engine *Engine) *TurnProcessor {
	return &TurnProcessor{
		engine: engine,
		logger: engine.logger,
	}
}

// ResolveMove moves the active robot along move, checks for a winner and
// passes the turn to the next living seat. kind and value describe how an
// AI picked the move and are empty for humans.
func (tp *TurnProcessor) ResolveMove(ctx context.Context, move core.Move, kind string, value float64) error {
	if err := tp.checkContext(ctx); err != nil {
		return err
	}

	e := tp.engine
	gs := e.gs
	p := &gs.Players[gs.ActivePlayer]
	turnLogger := tp.logger.With().Int("round", gs.Round).Int("player_id", p.ID).Logger()

	p.Moves++
	gs.LastMove = &move
	e.eventBus.Publish(events.NewMoveResolvedEvent(e.gameID, p.ID, gs.Round, move, p.Controller.String(), kind, value))

	if move.Fatal() {
		p.Alive = false
		p.Pos = move.Path[len(move.Path)-1]
		e.eventBus.Publish(events.NewPlayerDrownedEvent(e.gameID, p.ID, gs.Round, p.Pos, move.Outcome))
		turnLogger.Info().Str("move", move.String()).Str("outcome", move.Outcome.String()).Msg("Robot lost")
	} else {
		p.Pos = move.Target
		turnLogger.Debug().Str("move", move.String()).Msg("Robot moved")
	}

	if tp.checkGameOver(turnLogger) {
		return nil
	}
	tp.advanceTurn()
	return nil
}

func (tp *TurnProcessor) checkContext(ctx context.Context) error {
	select {
	case <-ctx.Done():
		tp.logger.Warn().Err(ctx.Err()).Int("round", tp.engine.gs.Round).Msg("Turn cancelled")
		return ctx.Err()
	default:
		return nil
	}
}

// checkGameOver ends the game when a robot stands on the battery or none is
// left alive.
func (tp *TurnProcessor) checkGameOver(turnLogger zerolog.Logger) bool {
	e := tp.engine
	gs := e.gs

	players := make([]rules.Player, len(gs.Players))
	for i := range gs.Players {
		players[i] = gs.Players[i]
	}
	over, winner := e.winCondition.CheckGameOver(players)
	if !over {
		return false
	}

	e.gameOver = true
	gs.Winner = winner
	gs.DiceRolled = false

	reason := "every robot drowned"
	if winner != rules.NoWinner {
		reason = fmt.Sprintf("player %d reached the battery", winner)
		e.eventBus.Publish(events.NewPlayerWonEvent(e.gameID, winner, gs.Round, gs.Score))
	}
	if err := e.stateMachine.TransitionTo(states.PhaseEnded, reason); err != nil {
		turnLogger.Error().Err(err).Msg("Failed to end game")
	}
	e.publishGameEnded(reason)

	turnLogger.Info().Int("winner", winner).Int("score", gs.Score).Msg("Game over")
	return true
}

// advanceTurn hands the dice to the next living seat. Passing the last seat
// starts a new round and lowers the score.
func (tp *TurnProcessor) advanceTurn() {
	gs := tp.engine.gs
	n := len(gs.Players)

	next := gs.ActivePlayer
	for i := 1; i <= n; i++ {
		candidate := (gs.ActivePlayer + i) % n
		if gs.Players[candidate].Alive {
			next = candidate
			if gs.ActivePlayer+i >= n {
				tp.startRound()
			}
			break
		}
	}

	gs.ActivePlayer = next
	gs.Dice = [2]int{}
	gs.DiceRolled = false
}

func (tp *TurnProcessor) startRound() {
	e := tp.engine
	e.gs.Round++
	e.gs.Score = rules.Score(e.maxScore, e.gs.Round-1, e.difficulty)
	tp.logger.Debug().Int("round", e.gs.Round).Int("score", e.gs.Score).Msg("New round")
}
