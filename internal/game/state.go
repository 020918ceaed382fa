package game

import (
	"fmt"
	"strings"

	"github.com/mitchelldurbincs/RobotWantsBattery/internal/game/core"
)

// Controller decides who plays a seat.
type Controller int

const (
	ControllerNone Controller = iota
	ControllerHuman
	ControllerAIEasy
	ControllerAIHard
)

var controllerNames = [...]string{"none", "human", "ai-easy", "ai-hard"}

func (c Controller) String() string {
	if c >= ControllerNone && c <= ControllerAIHard {
		return controllerNames[c]
	}
	return fmt.Sprintf("Controller(%d)", int(c))
}

// IsAI reports whether the seat is played by the move selector
func (c Controller) IsAI() bool {
	return c == ControllerAIEasy || c == ControllerAIHard
}

// ParseController accepts the names printed by String, case-insensitively.
func ParseController(s string) (Controller, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range controllerNames {
		if s == name {
			return Controller(i), nil
		}
	}
	return ControllerNone, fmt.Errorf("%w: %q", ErrInvalidController, s)
}

// Player is one robot on the board.
type Player struct {
	ID         int
	Controller Controller
	Pos        core.Coordinate
	Alive      bool
	Moves      int // moves taken, fatal ones included
}

func (p Player) GetID() int                { return p.ID }
func (p Player) IsAlive() bool             { return p.Alive }
func (p Player) Position() core.Coordinate { return p.Pos }

// GameState is the mutable part of a session.
type GameState struct {
	Round        int // starts at 1, bumped each time play wraps to the first seat
	ActivePlayer int
	Score        int
	Dice         [2]int
	DiceRolled   bool
	Players      []Player
	Winner       int
	LastMove     *core.Move
}

// Clone returns a deep copy safe to hand to callers.
func (gs *GameState) Clone() *GameState {
	clone := *gs
	clone.Players = make([]Player, len(gs.Players))
	copy(clone.Players, gs.Players)
	if gs.LastMove != nil {
		m := *gs.LastMove
		m.Path = append([]core.Coordinate(nil), gs.LastMove.Path...)
		clone.LastMove = &m
	}
	return &clone
}

// AliveCount returns how many robots are still on dry land
func (gs *GameState) AliveCount() int {
	n := 0
	for _, p := range gs.Players {
		if p.Alive {
			n++
		}
	}
	return n
}
