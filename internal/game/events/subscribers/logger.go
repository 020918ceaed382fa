package subscribers

import (
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/RobotWantsBattery/internal/game/events"
)

// LoggerSubscriber writes game events to a zerolog logger
type LoggerSubscriber struct {
	id              string
	logger          zerolog.Logger
	logLevel        zerolog.Level
	eventTypeFilter map[string]bool // nil logs everything
	devMode         bool            // also attach the full event as JSON
}

// NewLoggerSubscriber creates a new logger subscriber
func NewLoggerSubscriber(id string, logger zerolog.Logger, logLevel zerolog.Level) *LoggerSubscriber {
	return &LoggerSubscriber{
		id:       id,
		logger:   logger.With().Str("subscriber", "event_logger").Logger(),
		logLevel: logLevel,
	}
}

func (ls *LoggerSubscriber) ID() string {
	return ls.id
}

// SetEventFilter restricts logging to the given types; empty clears the filter
func (ls *LoggerSubscriber) SetEventFilter(eventTypes []string) {
	if len(eventTypes) == 0 {
		ls.eventTypeFilter = nil
		return
	}

	ls.eventTypeFilter = make(map[string]bool, len(eventTypes))
	for _, eventType := range eventTypes {
		ls.eventTypeFilter[eventType] = true
	}
}

func (ls *LoggerSubscriber) SetDevMode(enabled bool) {
	ls.devMode = enabled
}

func (ls *LoggerSubscriber) InterestedIn(eventType string) bool {
	if ls.eventTypeFilter == nil {
		return true
	}
	return ls.eventTypeFilter[eventType]
}

// HandleEvent logs one line per event with the event's own fields attached
func (ls *LoggerSubscriber) HandleEvent(event events.Event) {
	eventLogger := ls.logger.With().
		Str("event_type", event.Type()).
		Str("game_id", event.GameID()).
		Time("timestamp", event.Timestamp()).
		Logger()

	logEvent := eventLogger.WithLevel(ls.logLevel)
	if ls.logLevel == zerolog.NoLevel || ls.logLevel == zerolog.Disabled {
		logEvent = eventLogger.Info()
	}

	switch e := event.(type) {
	case *events.GameStartedEvent:
		logEvent.
			Int("num_players", e.NumPlayers).
			Int("map_width", e.MapWidth).
			Int("map_height", e.MapHeight).
			Str("difficulty", e.Difficulty).
			Str("board_hash", e.BoardHash)

	case *events.GameEndedEvent:
		logEvent.
			Int("winner", e.Winner).
			Int("score", e.Score).
			Int("final_round", e.FinalRound).
			Str("reason", e.Reason).
			Dur("duration", e.Duration)

	case *events.TurnStartedEvent:
		logEvent.
			Int("player_id", e.Metadata.PlayerID).
			Int("round", e.Metadata.Round).
			Ints("dice", e.Dice[:])

	case *events.MoveResolvedEvent:
		logEvent.
			Int("player_id", e.Metadata.PlayerID).
			Int("round", e.Metadata.Round).
			Str("move", e.Move.String()).
			Str("outcome", e.Move.Outcome.String()).
			Bool("flying", e.Move.Flying).
			Str("controller", e.Controller)
		if e.Kind != "" {
			logEvent.Str("choice", e.Kind).Float64("value", e.Value)
		}

	case *events.PlayerDrownedEvent:
		logEvent.
			Int("player_id", e.Metadata.PlayerID).
			Int("round", e.Metadata.Round).
			Int("x", e.At.X).
			Int("y", e.At.Y).
			Str("outcome", e.Outcome)

	case *events.PlayerWonEvent:
		logEvent.
			Int("player_id", e.Metadata.PlayerID).
			Int("round", e.Metadata.Round).
			Int("score", e.Score)

	case *events.StateTransitionEvent:
		logEvent.
			Str("from", e.FromPhase).
			Str("to", e.ToPhase).
			Str("reason", e.Reason)
	}

	if ls.devMode {
		if jsonData, err := json.Marshal(event); err == nil {
			logEvent.RawJSON("event_data", jsonData)
		}
	}

	logEvent.Msg("Game event")
}
