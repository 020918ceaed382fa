package states

import "fmt"

// GamePhase represents the current phase of a game
type GamePhase int

const (
	// PhaseNotStarted - board generated, pieces on the start tile, no dice rolled
	PhaseNotStarted GamePhase = iota

	// PhaseRunning - turns are being played
	PhaseRunning

	// PhasePaused - turns are suspended; the field and dice are kept
	PhasePaused

	// PhaseEnded - a piece reached the battery, every piece drowned, or the game was abandoned
	PhaseEnded
)

var phaseNames = [...]string{"NotStarted", "Running", "Paused", "Ended"}

func (p GamePhase) String() string {
	if p >= PhaseNotStarted && p <= PhaseEnded {
		return phaseNames[p]
	}
	return fmt.Sprintf("Unknown(%d)", int(p))
}

// IsTerminal returns true if no further transition is possible
func (p GamePhase) IsTerminal() bool {
	return p == PhaseEnded
}

// CanReceiveActions returns true if dice may be rolled and moves played
func (p GamePhase) CanReceiveActions() bool {
	return p == PhaseRunning
}

// AllowedTransitions returns the valid phases this phase can transition to
func (p GamePhase) AllowedTransitions() []GamePhase {
	switch p {
	case PhaseNotStarted:
		return []GamePhase{PhaseRunning, PhaseEnded}
	case PhaseRunning:
		return []GamePhase{PhasePaused, PhaseEnded}
	case PhasePaused:
		return []GamePhase{PhaseRunning, PhaseEnded}
	default:
		return nil
	}
}

// CanTransitionTo checks if a transition from this phase to the target phase is allowed
func (p GamePhase) CanTransitionTo(target GamePhase) bool {
	for _, phase := range p.AllowedTransitions() {
		if phase == target {
			return true
		}
	}
	return false
}

// ParsePhase converts a string produced by String back to a GamePhase
func ParsePhase(s string) (GamePhase, error) {
	for i, name := range phaseNames {
		if s == name {
			return GamePhase(i), nil
		}
	}
	return PhaseNotStarted, fmt.Errorf("unknown game phase %q", s)
}
