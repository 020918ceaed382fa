package states

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/RobotWantsBattery/internal/game/events"
)

var ErrInvalidTransition = errors.New("invalid phase transition")

const defaultMaxHistory = 100

// Transition represents a state transition in the history
type Transition struct {
	From      GamePhase
	To        GamePhase
	Timestamp time.Time
	Reason    string
}

// StateMachine tracks the phase of one game and announces every change
type StateMachine struct {
	mu             sync.RWMutex
	gameID         string
	currentPhase   GamePhase
	history        []Transition
	maxHistorySize int
	publisher      events.Publisher
	logger         zerolog.Logger
}

// NewStateMachine creates a machine in PhaseNotStarted. publisher may be nil.
func NewStateMachine(gameID string, publisher events.Publisher, logger zerolog.Logger) *StateMachine {
	return &StateMachine{
		gameID:         gameID,
		currentPhase:   PhaseNotStarted,
		maxHistorySize: defaultMaxHistory,
		publisher:      publisher,
		logger:         logger.With().Str("component", "StateMachine").Str("game_id", gameID).Logger(),
	}
}

// CurrentPhase returns the current game phase
func (sm *StateMachine) CurrentPhase() GamePhase {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.currentPhase
}

// TransitionTo moves to targetPhase if the current phase allows it
func (sm *StateMachine) TransitionTo(targetPhase GamePhase, reason string) error {
	sm.mu.Lock()
	previousPhase := sm.currentPhase
	if !previousPhase.CanTransitionTo(targetPhase) {
		sm.mu.Unlock()
		return fmt.Errorf("%w: from %s to %s", ErrInvalidTransition, previousPhase, targetPhase)
	}

	sm.addToHistory(Transition{
		From:      previousPhase,
		To:        targetPhase,
		Timestamp: time.Now(),
		Reason:    reason,
	})
	sm.currentPhase = targetPhase
	sm.mu.Unlock()

	if sm.publisher != nil {
		sm.publisher.Publish(events.NewStateTransitionEvent(
			sm.gameID,
			previousPhase.String(),
			targetPhase.String(),
			reason,
		))
	}

	sm.logger.Info().
		Str("from_phase", previousPhase.String()).
		Str("to_phase", targetPhase.String()).
		Str("reason", reason).
		Msg("State transition completed")

	return nil
}

// addToHistory adds a transition to the history, maintaining max size
func (sm *StateMachine) addToHistory(transition Transition) {
	sm.history = append(sm.history, transition)

	if len(sm.history) > sm.maxHistorySize {
		sm.history = sm.history[len(sm.history)-sm.maxHistorySize:]
	}
}

// GetHistory returns a copy of the transition history
func (sm *StateMachine) GetHistory() []Transition {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	history := make([]Transition, len(sm.history))
	copy(history, sm.history)
	return history
}

// CanTransitionTo checks if a transition to the target phase is allowed
func (sm *StateMachine) CanTransitionTo(targetPhase GamePhase) bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.currentPhase.CanTransitionTo(targetPhase)
}
