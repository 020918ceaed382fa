package states

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/RobotWantsBattery/internal/game/events"
)

func TestGamePhase_String(t *testing.T) {
	tests := []struct {
		phase    GamePhase
		expected string
	}{
		{PhaseNotStarted, "NotStarted"},
		{PhaseRunning, "Running"},
		{PhasePaused, "Paused"},
		{PhaseEnded, "Ended"},
		{GamePhase(999), "Unknown(999)"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.phase.String())
		})
	}
}

func TestGamePhase_Properties(t *testing.T) {
	assert.True(t, PhaseEnded.IsTerminal())
	assert.False(t, PhasePaused.IsTerminal())

	assert.True(t, PhaseRunning.CanReceiveActions())
	assert.False(t, PhaseNotStarted.CanReceiveActions())
	assert.False(t, PhasePaused.CanReceiveActions())
	assert.False(t, PhaseEnded.CanReceiveActions())
}

func TestGamePhase_Transitions(t *testing.T) {
	tests := []struct {
		from, to GamePhase
		allowed  bool
	}{
		{PhaseNotStarted, PhaseRunning, true},
		{PhaseNotStarted, PhasePaused, false},
		{PhaseNotStarted, PhaseEnded, true},
		{PhaseRunning, PhasePaused, true},
		{PhaseRunning, PhaseEnded, true},
		{PhaseRunning, PhaseNotStarted, false},
		{PhasePaused, PhaseRunning, true},
		{PhasePaused, PhaseEnded, true},
		{PhaseEnded, PhaseRunning, false},
		{PhaseEnded, PhaseNotStarted, false},
	}

	for _, tt := range tests {
		t.Run(tt.from.String()+"->"+tt.to.String(), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
	assert.Empty(t, PhaseEnded.AllowedTransitions())
}

func TestParsePhase(t *testing.T) {
	for _, p := range []GamePhase{PhaseNotStarted, PhaseRunning, PhasePaused, PhaseEnded} {
		parsed, err := ParsePhase(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, parsed)
	}
	_, err := ParsePhase("Lobby")
	assert.Error(t, err)
}

func TestStateMachine_Lifecycle(t *testing.T) {
	bus := events.NewEventBus(zerolog.Nop())
	rec := events.NewRecorder("rec")
	bus.Subscribe(rec)

	sm := NewStateMachine("game-1", bus, zerolog.Nop())
	assert.Equal(t, PhaseNotStarted, sm.CurrentPhase())

	require.NoError(t, sm.TransitionTo(PhaseRunning, "start"))
	require.NoError(t, sm.TransitionTo(PhasePaused, "pause"))
	assert.False(t, sm.CanTransitionTo(PhaseNotStarted))
	require.NoError(t, sm.TransitionTo(PhaseRunning, "resume"))
	require.NoError(t, sm.TransitionTo(PhaseEnded, "battery reached"))

	err := sm.TransitionTo(PhaseRunning, "again")
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, PhaseEnded, sm.CurrentPhase())

	history := sm.GetHistory()
	require.Len(t, history, 4)
	assert.Equal(t, PhaseNotStarted, history[0].From)
	assert.Equal(t, "battery reached", history[3].Reason)

	recorded := rec.Events()
	require.Len(t, recorded, 4)
	last, ok := recorded[3].(*events.StateTransitionEvent)
	require.True(t, ok)
	assert.Equal(t, "Running", last.FromPhase)
	assert.Equal(t, "Ended", last.ToPhase)
	assert.Equal(t, "game-1", last.GameID())
}

func TestStateMachine_HistoryIsBounded(t *testing.T) {
	sm := NewStateMachine("g", nil, zerolog.Nop())
	sm.maxHistorySize = 3

	require.NoError(t, sm.TransitionTo(PhaseRunning, "start"))
	for i := 0; i < 5; i++ {
		require.NoError(t, sm.TransitionTo(PhasePaused, "pause"))
		require.NoError(t, sm.TransitionTo(PhaseRunning, "resume"))
	}

	history := sm.GetHistory()
	require.Len(t, history, 3)
	assert.Equal(t, PhaseRunning, history[2].To)
}
