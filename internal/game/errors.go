package game

import "errors"

var (
	ErrInvalidController = errors.New("invalid controller")
	ErrNoPlayers         = errors.New("game needs at least one seated player")
	ErrTooManyPlayers    = errors.New("too many players")
	ErrGameNotRunning    = errors.New("game is not running")
	ErrDiceNotRolled     = errors.New("dice have not been rolled this turn")
	ErrDiceAlreadyRolled = errors.New("dice already rolled this turn")
	ErrDiceMismatch      = errors.New("leg values do not match the rolled dice")
	ErrNotHumanTurn      = errors.New("active player is not human")
	ErrNotAITurn         = errors.New("active player is not an AI")
)
