package game

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/RobotWantsBattery/internal/game/core"
	"github.com/mitchelldurbincs/RobotWantsBattery/internal/game/events"
	"github.com/mitchelldurbincs/RobotWantsBattery/internal/game/policy"
	"github.com/mitchelldurbincs/RobotWantsBattery/internal/game/rules"
	"github.com/mitchelldurbincs/RobotWantsBattery/internal/game/solver"
	"github.com/mitchelldurbincs/RobotWantsBattery/internal/game/states"
)

// Engine runs one game session: seats take turns rolling two dice and
// moving their robot until one reaches the battery or all have drowned.
// An Engine is not safe for concurrent use.
type Engine struct {
	gs          *GameState
	board       *core.Board
	field       *solver.Field
	difficulty  rules.Difficulty
	maxScore    int
	exploration map[Controller]float64
	rng         *rand.Rand
	selector    *policy.Selector
	gameOver    bool
	startTime   time.Time
	logger      zerolog.Logger

	eventBus      *events.EventBus
	gameID        string
	stateMachine  *states.StateMachine
	winCondition  *rules.WinConditionChecker
	turnProcessor *TurnProcessor
}

// NewEngine creates a new game engine with map generation and a solved field
func NewEngine(ctx context.Context, cfg GameConfig) (*Engine, error) {
	return NewEngineInitializer(cfg).Initialize(ctx)
}

// Start moves the game into PhaseRunning and seats the first player.
func (e *Engine) Start() error {
	if err := e.stateMachine.TransitionTo(states.PhaseRunning, "game started"); err != nil {
		return err
	}
	e.startTime = time.Now()
	e.eventBus.Publish(events.NewGameStartedEvent(e.gameID, len(e.gs.Players), e.board, e.difficulty.String()))
	e.logger.Info().Int("players", len(e.gs.Players)).Msg("Game started")
	return nil
}

// RollDice rolls both dice for the active player. It may be called once per turn.
func (e *Engine) RollDice() ([2]int, error) {
	d1 := core.MinDie + e.rng.Intn(core.MaxDie)
	d2 := core.MinDie + e.rng.Intn(core.MaxDie)
	if err := e.SetDice(d1, d2); err != nil {
		return [2]int{}, err
	}
	return e.gs.Dice, nil
}

// SetDice fixes the active player's dice instead of rolling them.
func (e *Engine) SetDice(d1, d2 int) error {
	if err := e.requireRunning(); err != nil {
		return err
	}
	if e.gs.DiceRolled {
		return ErrDiceAlreadyRolled
	}
	if err := core.ValidateDie(d1); err != nil {
		return err
	}
	if err := core.ValidateDie(d2); err != nil {
		return err
	}

	e.gs.Dice = [2]int{d1, d2}
	e.gs.DiceRolled = true
	e.eventBus.Publish(events.NewTurnStartedEvent(e.gameID, e.gs.ActivePlayer, e.gs.Round, e.gs.Dice))
	e.logger.Debug().
		Int("player_id", e.gs.ActivePlayer).
		Int("round", e.gs.Round).
		Ints("dice", e.gs.Dice[:]).
		Msg("Dice rolled")
	return nil
}

// Dice returns the current dice and whether they were rolled this turn
func (e *Engine) Dice() ([2]int, bool) { return e.gs.Dice, e.gs.DiceRolled }

// Field returns the solved win-probability field of the board
func (e *Engine) Field() *solver.Field { return e.field }

// Hint returns the move the hard AI would play for the active player.
func (e *Engine) Hint() (policy.Choice, error) {
	if err := e.requireDice(); err != nil {
		return policy.Choice{}, err
	}
	p := e.gs.Players[e.gs.ActivePlayer]
	return e.selector.ChooseMove(e.board, p.Pos, e.gs.Dice[0], e.gs.Dice[1], e.field, 0)
}

// PlanMove previews the move dirs would make without playing it. values
// assigns the rolled dice to the legs in either order.
func (e *Engine) PlanMove(dirs [2]core.Direction, values [2]int) (core.Move, error) {
	if err := e.requireDice(); err != nil {
		return core.Move{}, err
	}
	if err := e.checkValues(values); err != nil {
		return core.Move{}, err
	}
	return core.TraceMove(e.board, e.gs.Players[e.gs.ActivePlayer].Pos, dirs, values)
}

// PlayMove plays the human active player's move: values[0] tiles along
// dirs[0], then values[1] along dirs[1]. Equal directions fly.
func (e *Engine) PlayMove(ctx context.Context, dirs [2]core.Direction, values [2]int) (core.Move, error) {
	if err := e.requireDice(); err != nil {
		return core.Move{}, err
	}
	p := e.gs.Players[e.gs.ActivePlayer]
	if p.Controller != ControllerHuman {
		return core.Move{}, fmt.Errorf("%w: player %d is %s", ErrNotHumanTurn, p.ID, p.Controller)
	}
	if err := e.checkValues(values); err != nil {
		return core.Move{}, err
	}

	move, err := core.TraceMove(e.board, p.Pos, dirs, values)
	if err != nil {
		return core.Move{}, err
	}
	if err := e.turnProcessor.ResolveMove(ctx, move, "", 0); err != nil {
		return core.Move{}, err
	}
	return move, nil
}

// checkValues accepts the current roll in either order
func (e *Engine) checkValues(values [2]int) error {
	d := e.gs.Dice
	if values == d || values == [2]int{d[1], d[0]} {
		return nil
	}
	return fmt.Errorf("%w: got %v, rolled %v", ErrDiceMismatch, values, d)
}

// PlayAITurn lets the selector play the active AI player's turn, rolling the
// dice first if needed.
func (e *Engine) PlayAITurn(ctx context.Context) (policy.Choice, error) {
	if err := e.requireRunning(); err != nil {
		return policy.Choice{}, err
	}
	p := e.gs.Players[e.gs.ActivePlayer]
	if !p.Controller.IsAI() {
		return policy.Choice{}, fmt.Errorf("%w: player %d is %s", ErrNotAITurn, p.ID, p.Controller)
	}
	if !e.gs.DiceRolled {
		if _, err := e.RollDice(); err != nil {
			return policy.Choice{}, err
		}
	}

	choice, err := e.selector.ChooseMove(e.board, p.Pos, e.gs.Dice[0], e.gs.Dice[1], e.field, e.exploration[p.Controller])
	if err != nil {
		return policy.Choice{}, err
	}
	if err := e.turnProcessor.ResolveMove(ctx, choice.Move, choice.Kind.String(), choice.Value); err != nil {
		return policy.Choice{}, err
	}
	return choice, nil
}

// Pause suspends a running game
func (e *Engine) Pause() error {
	return e.stateMachine.TransitionTo(states.PhasePaused, "paused")
}

// Resume continues a paused game
func (e *Engine) Resume() error {
	return e.stateMachine.TransitionTo(states.PhaseRunning, "resumed")
}

// Abandon ends the game without a winner.
func (e *Engine) Abandon() error {
	if err := e.stateMachine.TransitionTo(states.PhaseEnded, "abandoned"); err != nil {
		return err
	}
	e.gameOver = true
	e.publishGameEnded("abandoned")
	return nil
}

func (e *Engine) requireRunning() error {
	phase := e.stateMachine.CurrentPhase()
	if !phase.CanReceiveActions() {
		return fmt.Errorf("%w: phase is %s", ErrGameNotRunning, phase)
	}
	return nil
}

func (e *Engine) requireDice() error {
	if err := e.requireRunning(); err != nil {
		return err
	}
	if !e.gs.DiceRolled {
		return ErrDiceNotRolled
	}
	return nil
}

func (e *Engine) publishGameEnded(reason string) {
	var duration time.Duration
	if !e.startTime.IsZero() {
		duration = time.Since(e.startTime)
	}
	e.eventBus.Publish(events.NewGameEndedEvent(e.gameID, e.gs.Winner, e.gs.Score, e.gs.Round, reason, duration))
}

// Public accessors
func (e *Engine) GameID() string { return e.gameID }
func (e *Engine) GameState() GameState { return *e.gs.Clone() }
func (e *Engine) IsGameOver() bool { return e.gameOver }
func (e *Engine) Phase() states.GamePhase { return e.stateMachine.CurrentPhase() }
func (e *Engine) Map() *core.Board { return e.board }
func (e *Engine) Difficulty() rules.Difficulty { return e.difficulty }
func (e *Engine) Score() int { return e.gs.Score }
func (e *Engine) Round() int { return e.gs.Round }
func (e *Engine) EventBus() *events.EventBus { return e.eventBus }

// ActivePlayer returns the seat whose turn it is
func (e *Engine) ActivePlayer() Player { return e.gs.Players[e.gs.ActivePlayer] }

// GetWinner returns the winning player ID, or rules.NoWinner
func (e *Engine) GetWinner() int {
	if !e.gameOver {
		return rules.NoWinner
	}
	return e.gs.Winner
}
