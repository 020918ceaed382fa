package events

import (
	"time"

	"github.com/mitchelldurbincs/RobotWantsBattery/internal/game/core"
)

// Event type constants
const (
	TypeGameStarted     = "game.started"
	TypeGameEnded       = "game.ended"
	TypeTurnStarted     = "turn.started"
	TypeMoveResolved    = "move.resolved"
	TypePlayerDrowned   = "player.drowned"
	TypePlayerWon       = "player.won"
	TypeStateTransition = "state.transition"
)

func newBase(eventType, gameID string) BaseEvent {
	return BaseEvent{EventType: eventType, Time: time.Now(), Game: gameID}
}

// GameStartedEvent is published when a new game begins
type GameStartedEvent struct {
	BaseEvent
	NumPlayers int
	MapWidth   int
	MapHeight  int
	Difficulty string
	BoardHash  string
}

// NewGameStartedEvent creates a new GameStartedEvent
func NewGameStartedEvent(gameID string, numPlayers int, board *core.Board, difficulty string) *GameStartedEvent {
	return &GameStartedEvent{
		BaseEvent:  newBase(TypeGameStarted, gameID),
		NumPlayers: numPlayers,
		MapWidth:   board.W,
		MapHeight:  board.H,
		Difficulty: difficulty,
		BoardHash:  board.Hash(),
	}
}

// GameEndedEvent is published when a game ends, won or not
type GameEndedEvent struct {
	BaseEvent
	Winner     int
	Score      int
	FinalRound int
	Reason     string
	Duration   time.Duration
}

// NewGameEndedEvent creates a new GameEndedEvent
func NewGameEndedEvent(gameID string, winner, score, finalRound int, reason string, duration time.Duration) *GameEndedEvent {
	return &GameEndedEvent{
		BaseEvent:  newBase(TypeGameEnded, gameID),
		Winner:     winner,
		Score:      score,
		FinalRound: finalRound,
		Reason:     reason,
		Duration:   duration,
	}
}

// TurnStartedEvent is published once the active player's dice are rolled
type TurnStartedEvent struct {
	BaseEvent
	Metadata EventMetadata
	Dice     [2]int
}

// NewTurnStartedEvent creates a new TurnStartedEvent
func NewTurnStartedEvent(gameID string, playerID, round int, dice [2]int) *TurnStartedEvent {
	return &TurnStartedEvent{
		BaseEvent: newBase(TypeTurnStarted, gameID),
		Metadata:  EventMetadata{PlayerID: playerID, Round: round},
		Dice:      dice,
	}
}

// MoveResolvedEvent is published after a piece has been moved, fatally or not
type MoveResolvedEvent struct {
	BaseEvent
	Metadata   EventMetadata
	Move       core.Move
	Controller string
	Kind       string // how an AI picked the move; empty for humans
	Value      float64
}

// NewMoveResolvedEvent creates a new MoveResolvedEvent
func NewMoveResolvedEvent(gameID string, playerID, round int, move core.Move, controller, kind string, value float64) *MoveResolvedEvent {
	return &MoveResolvedEvent{
		BaseEvent:  newBase(TypeMoveResolved, gameID),
		Metadata:   EventMetadata{PlayerID: playerID, Round: round},
		Move:       move,
		Controller: controller,
		Kind:       kind,
		Value:      value,
	}
}

// PlayerDrownedEvent is published when a piece walks into water or off the board
type PlayerDrownedEvent struct {
	BaseEvent
	Metadata EventMetadata
	At       core.Coordinate
	Outcome  string
}

// NewPlayerDrownedEvent creates a new PlayerDrownedEvent
func NewPlayerDrownedEvent(gameID string, playerID, round int, at core.Coordinate, outcome core.Outcome) *PlayerDrownedEvent {
	return &PlayerDrownedEvent{
		BaseEvent: newBase(TypePlayerDrowned, gameID),
		Metadata:  EventMetadata{PlayerID: playerID, Round: round},
		At:        at,
		Outcome:   outcome.String(),
	}
}

// PlayerWonEvent is published when a piece reaches the battery
type PlayerWonEvent struct {
	BaseEvent
	Metadata EventMetadata
	Score    int
}

// NewPlayerWonEvent creates a new PlayerWonEvent
func NewPlayerWonEvent(gameID string, playerID, round, score int) *PlayerWonEvent {
	return &PlayerWonEvent{
		BaseEvent: newBase(TypePlayerWon, gameID),
		Metadata:  EventMetadata{PlayerID: playerID, Round: round},
		Score:     score,
	}
}

// StateTransitionEvent is published when the game moves between phases
type StateTransitionEvent struct {
	BaseEvent
	FromPhase string
	ToPhase   string
	Reason    string
}

// NewStateTransitionEvent creates a new StateTransitionEvent
func NewStateTransitionEvent(gameID, fromPhase, toPhase, reason string) *StateTransitionEvent {
	return &StateTransitionEvent{
		BaseEvent: newBase(TypeStateTransition, gameID),
		FromPhase: fromPhase,
		ToPhase:   toPhase,
		Reason:    reason,
	}
}
