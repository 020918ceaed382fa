package subscribers_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/RobotWantsBattery/internal/game/core"
	"github.com/mitchelldurbincs/RobotWantsBattery/internal/game/events"
	"github.com/mitchelldurbincs/RobotWantsBattery/internal/game/events/subscribers"
	"github.com/mitchelldurbincs/RobotWantsBattery/internal/testutil"
)

func lastLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var logLine map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &logLine))
	return logLine
}

func TestLoggerSubscriber(t *testing.T) {
	logSub := subscribers.NewLoggerSubscriber("test-logger", zerolog.Nop(), zerolog.InfoLevel)

	assert.Equal(t, "test-logger", logSub.ID())
	assert.True(t, logSub.InterestedIn(events.TypeGameStarted))
	assert.True(t, logSub.InterestedIn("any.event.type"))
}

func TestLoggerSubscriberEventLogging(t *testing.T) {
	board := testutil.Board(t,
		"S....",
		".~~..",
		"....E",
	)
	move := core.Move{
		Dirs:    [2]core.Direction{core.Right, core.Down},
		Values:  [2]int{4, 2},
		Path:    []core.Coordinate{{0, 0}, {1, 0}, {2, 0}, {3, 0}, {4, 0}, {4, 1}, {4, 2}},
		Outcome: core.OutcomeAlive,
		Target:  core.NewCoordinate(4, 2),
	}

	testCases := []struct {
		name  string
		event events.Event
		check func(t *testing.T, logLine map[string]interface{})
	}{
		{
			name:  "GameStartedEvent",
			event: events.NewGameStartedEvent("game-1", 2, board, "Hard"),
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, float64(2), logLine["num_players"])
				assert.Equal(t, float64(5), logLine["map_width"])
				assert.Equal(t, float64(3), logLine["map_height"])
				assert.Equal(t, "Hard", logLine["difficulty"])
				assert.Equal(t, board.Hash(), logLine["board_hash"])
			},
		},
		{
			name:  "TurnStartedEvent",
			event: events.NewTurnStartedEvent("game-1", 1, 3, [2]int{6, 2}),
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, float64(1), logLine["player_id"])
				assert.Equal(t, float64(3), logLine["round"])
				assert.Equal(t, []interface{}{float64(6), float64(2)}, logLine["dice"])
			},
		},
		{
			name:  "MoveResolvedEvent",
			event: events.NewMoveResolvedEvent("game-1", 0, 2, move, "ai-hard", "greedy", 0.75),
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, move.String(), logLine["move"])
				assert.Equal(t, "alive", logLine["outcome"])
				assert.Equal(t, "ai-hard", logLine["controller"])
				assert.Equal(t, "greedy", logLine["choice"])
				assert.Equal(t, 0.75, logLine["value"])
			},
		},
		{
			name:  "HumanMoveHasNoChoice",
			event: events.NewMoveResolvedEvent("game-1", 0, 2, move, "human", "", 0),
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.NotContains(t, logLine, "choice")
			},
		},
		{
			name:  "PlayerDrownedEvent",
			event: events.NewPlayerDrownedEvent("game-1", 1, 4, core.NewCoordinate(2, 1), core.OutcomeDrowned),
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, float64(2), logLine["x"])
				assert.Equal(t, float64(1), logLine["y"])
				assert.Equal(t, "drowned", logLine["outcome"])
			},
		},
		{
			name:  "PlayerWonEvent",
			event: events.NewPlayerWonEvent("game-1", 0, 5, 80),
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, float64(80), logLine["score"])
			},
		},
		{
			name:  "GameEndedEvent",
			event: events.NewGameEndedEvent("game-1", 0, 80, 5, "battery reached", time.Second),
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, float64(0), logLine["winner"])
				assert.Equal(t, "battery reached", logLine["reason"])
			},
		},
		{
			name:  "StateTransitionEvent",
			event: events.NewStateTransitionEvent("game-1", "Running", "Paused", "player request"),
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, "Running", logLine["from"])
				assert.Equal(t, "Paused", logLine["to"])
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			logSub := subscribers.NewLoggerSubscriber("event-logger", zerolog.New(&buf), zerolog.InfoLevel)
			logSub.HandleEvent(tc.event)

			logLine := lastLine(t, &buf)
			assert.Equal(t, "Game event", logLine["message"])
			assert.Equal(t, "info", logLine["level"])
			assert.Equal(t, tc.event.Type(), logLine["event_type"])
			assert.Equal(t, "game-1", logLine["game_id"])
			assert.Equal(t, "event_logger", logLine["subscriber"])
			tc.check(t, logLine)
		})
	}
}

func TestLoggerSubscriberFilterAndLevel(t *testing.T) {
	var buf bytes.Buffer
	logSub := subscribers.NewLoggerSubscriber("filtered", zerolog.New(&buf), zerolog.WarnLevel)
	logSub.SetEventFilter([]string{events.TypePlayerDrowned})

	assert.True(t, logSub.InterestedIn(events.TypePlayerDrowned))
	assert.False(t, logSub.InterestedIn(events.TypeTurnStarted))

	bus := events.NewEventBus(zerolog.Nop())
	bus.Subscribe(logSub)
	bus.Publish(events.NewTurnStartedEvent("g", 0, 1, [2]int{1, 1}))
	assert.Empty(t, buf.String())

	bus.Publish(events.NewPlayerDrownedEvent("g", 0, 1, core.NewCoordinate(0, 0), core.OutcomeOutOfBounds))
	logLine := lastLine(t, &buf)
	assert.Equal(t, "warn", logLine["level"])
	assert.Equal(t, "out_of_bounds", logLine["outcome"])

	logSub.SetEventFilter(nil)
	assert.True(t, logSub.InterestedIn(events.TypeTurnStarted))
}

func TestLoggerSubscriberDevMode(t *testing.T) {
	var buf bytes.Buffer
	logSub := subscribers.NewLoggerSubscriber("dev", zerolog.New(&buf), zerolog.DebugLevel)
	logSub.SetDevMode(true)

	logSub.HandleEvent(events.NewPlayerWonEvent("g", 2, 7, 44))

	logLine := lastLine(t, &buf)
	data, ok := logLine["event_data"].(map[string]interface{})
	require.True(t, ok, "event_data should be embedded JSON")
	assert.Equal(t, float64(44), data["Score"])
	assert.Equal(t, events.TypePlayerWon, data["type"])
}
