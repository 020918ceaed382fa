package game

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/RobotWantsBattery/internal/cache"
	"github.com/mitchelldurbincs/RobotWantsBattery/internal/game/core"
	"github.com/mitchelldurbincs/RobotWantsBattery/internal/game/events"
	"github.com/mitchelldurbincs/RobotWantsBattery/internal/game/mapgen"
	"github.com/mitchelldurbincs/RobotWantsBattery/internal/game/policy"
	"github.com/mitchelldurbincs/RobotWantsBattery/internal/game/rules"
	"github.com/mitchelldurbincs/RobotWantsBattery/internal/game/solver"
	"github.com/mitchelldurbincs/RobotWantsBattery/internal/game/states"
)

// GameConfig describes one session. Zero values fall back to the loaded
// configuration.
type GameConfig struct {
	GameID      string
	Map         mapgen.MapConfig
	Board       *core.Board // used instead of generating one when set
	Controllers []Controller
	MaxScore    int
	Iterations  int // 0 uses the configured default

	// Exploration overrides the per-controller exploration rate
	Exploration map[Controller]float64

	Rng        *rand.Rand
	Solver     *solver.Solver
	FieldStore cache.Store
	Selector   *policy.Selector
	EventBus   *events.EventBus
	Logger     zerolog.Logger
}

// EngineInitializer handles the setup of a game engine
type EngineInitializer struct {
	config GameConfig
	logger zerolog.Logger
}

// NewEngineInitializer creates a new engine initializer
func NewEngineInitializer(cfg GameConfig) *EngineInitializer {
	return &EngineInitializer{
		config: cfg,
		logger: cfg.Logger.With().Str("component", "GameEngine").Logger(),
	}
}

// Initialize builds the board, solves its field and seats the players. The
// returned engine is in PhaseNotStarted.
func (ei *EngineInitializer) Initialize(ctx context.Context) (*Engine, error) {
	select {
	case <-ctx.Done():
		ei.logger.Error().Err(ctx.Err()).Msg("Engine creation cancelled before it started")
		return nil, ctx.Err()
	default:
	}

	if err := ei.validateControllers(); err != nil {
		return nil, err
	}
	ei.setupDefaults()

	board, err := ei.prepareBoard()
	if err != nil {
		return nil, fmt.Errorf("map generation failed: %w", err)
	}

	field, cached, err := ei.solveField(ctx, board)
	if err != nil {
		return nil, fmt.Errorf("solving board: %w", err)
	}

	engine := ei.createEngine(board, field)

	ei.logger.Info().
		Str("game_id", engine.gameID).
		Int("width", board.W).
		Int("height", board.H).
		Int("players", len(engine.gs.Players)).
		Str("difficulty", engine.difficulty.String()).
		Bool("field_cached", cached).
		Msg("Engine created successfully")

	return engine, nil
}

func (ei *EngineInitializer) validateControllers() error {
	if len(ei.config.Controllers) == 0 {
		return ErrNoPlayers
	}
	if limit := MaxPlayers(); len(ei.config.Controllers) > limit {
		return fmt.Errorf("%w: %d seats, at most %d", ErrTooManyPlayers, len(ei.config.Controllers), limit)
	}
	for i, c := range ei.config.Controllers {
		if c != ControllerHuman && !c.IsAI() {
			return fmt.Errorf("%w: seat %d is %s", ErrInvalidController, i, c)
		}
	}
	return nil
}

// setupDefaults fills every unset collaborator
func (ei *EngineInitializer) setupDefaults() {
	cfg := &ei.config
	if cfg.Rng == nil {
		ei.logger.Debug().Msg("No RNG provided, creating new seeded RNG")
		cfg.Rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if cfg.GameID == "" {
		cfg.GameID = fmt.Sprintf("game_%d", time.Now().UnixNano())
	}
	if cfg.MaxScore <= 0 {
		cfg.MaxScore = MaxScore()
	}
	if cfg.Iterations <= 0 {
		cfg.Iterations = SolverIterations()
	}
	if cfg.Map.Width == 0 && cfg.Board == nil {
		cfg.Map = DefaultMap(cfg.Map.Difficulty)
	}

	rates := map[Controller]float64{
		ControllerAIEasy: EasyExploration(),
		ControllerAIHard: HardExploration(),
	}
	for c, r := range cfg.Exploration {
		rates[c] = r
	}
	cfg.Exploration = rates

	if cfg.Solver == nil {
		cfg.Solver = solver.NewSolver(cfg.Logger, SolverWorkers())
	}
	if cfg.Selector == nil {
		cfg.Selector = policy.NewSelector(cfg.Logger, uint64(cfg.Rng.Int63()))
	}
	if cfg.EventBus == nil {
		cfg.EventBus = events.NewEventBus(cfg.Logger)
	}
}

func (ei *EngineInitializer) prepareBoard() (*core.Board, error) {
	if ei.config.Board != nil {
		if err := ei.config.Board.Validate(); err != nil {
			return nil, err
		}
		return ei.config.Board, nil
	}
	generator := mapgen.NewGenerator(ei.config.Map, ei.config.Rng)
	return generator.GenerateMap()
}

// solveField goes through the field store when one is configured
func (ei *EngineInitializer) solveField(ctx context.Context, board *core.Board) (*solver.Field, bool, error) {
	if ei.config.FieldStore != nil {
		return cache.GetOrCompute(ctx, ei.config.FieldStore, ei.config.Solver, board, board.End(), ei.config.Iterations)
	}
	field, err := ei.config.Solver.Solve(ctx, board, board.End(), ei.config.Iterations)
	return field, false, err
}

func (ei *EngineInitializer) createEngine(board *core.Board, field *solver.Field) *Engine {
	cfg := ei.config

	players := make([]Player, len(cfg.Controllers))
	for i, c := range cfg.Controllers {
		players[i] = Player{
			ID:         i,
			Controller: c,
			Pos:        board.Start(),
			Alive:      true,
		}
	}

	engine := &Engine{
		gs: &GameState{
			Round:   1,
			Score:   cfg.MaxScore,
			Players: players,
			Winner:  rules.NoWinner,
		},
		board:        board,
		field:        field,
		difficulty:   cfg.Map.Difficulty,
		maxScore:     cfg.MaxScore,
		exploration:  cfg.Exploration,
		rng:          cfg.Rng,
		selector:     cfg.Selector,
		logger:       ei.logger.With().Str("game_id", cfg.GameID).Logger(),
		eventBus:     cfg.EventBus,
		gameID:       cfg.GameID,
		stateMachine: states.NewStateMachine(cfg.GameID, cfg.EventBus, cfg.Logger),
		winCondition: rules.NewWinConditionChecker(cfg.Logger, board.End()),
	}
	engine.turnProcessor = NewTurnProcessor(engine)
	return engine
}
