package engineserver

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mitchelldurbincs/RobotWantsBattery/internal/cache"
	gameengine "github.com/mitchelldurbincs/RobotWantsBattery/internal/game"
	"github.com/mitchelldurbincs/RobotWantsBattery/internal/game/core"
	"github.com/mitchelldurbincs/RobotWantsBattery/internal/game/mapgen"
	"github.com/mitchelldurbincs/RobotWantsBattery/internal/game/policy"
	"github.com/mitchelldurbincs/RobotWantsBattery/internal/game/rules"
	"github.com/mitchelldurbincs/RobotWantsBattery/internal/game/solver"
	"github.com/mitchelldurbincs/RobotWantsBattery/internal/game/states"
)

// Server implements the engine service on top of a GameManager
type Server struct {
	gameManager *GameManager
	solver      *solver.Solver
	store       cache.Store
	selector    *policy.Selector
}

var _ EngineServiceServer = (*Server)(nil)

// Options configures a Server. Nil collaborators are created with defaults.
type Options struct {
	MaxGames int
	Solver   *solver.Solver
	Store    cache.Store
	Seed     uint64
}

// NewServer creates a new engine server
func NewServer(opts Options) *Server {
	if opts.Solver == nil {
		opts.Solver = solver.NewSolver(log.Logger, gameengine.SolverWorkers())
	}
	if opts.Store == nil {
		opts.Store = cache.NewMemoryStore(64)
	}
	if opts.Seed == 0 {
		opts.Seed = uint64(time.Now().UnixNano())
	}
	return &Server{
		gameManager: NewGameManager(opts.MaxGames),
		solver:      opts.Solver,
		store:       opts.Store,
		selector:    policy.NewSelector(log.Logger, opts.Seed),
	}
}

// RunCleanup evicts finished and idle games until ctx is done
func (s *Server) RunCleanup(ctx context.Context) {
	s.gameManager.RunCleanup(ctx, cleanupInterval)
}

// GetActiveGames returns the number of hosted games
func (s *Server) GetActiveGames() int {
	return s.gameManager.GetActiveGames()
}

// CreateGame starts a new session. Request fields, all optional:
// controllers (list of "human", "ai-easy", "ai-hard"), difficulty (label or
// level), seed, size, board (rows of ".~SE").
func (s *Server) CreateGame(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	cfg, err := s.gameConfig(newRequest(in))
	if err != nil {
		return nil, toStatus(err)
	}

	game, err := s.gameManager.CreateGame(ctx, cfg)
	if err != nil {
		return nil, toStatus(err)
	}

	var out map[string]interface{}
	_ = game.with(func(e *gameengine.Engine) error {
		out = stateToMap(game.id, e)
		return nil
	})
	return toStruct(out)
}

func (s *Server) gameConfig(req request) (gameengine.GameConfig, error) {
	names, err := req.strings("controllers")
	if err != nil {
		return gameengine.GameConfig{}, err
	}
	if names == nil {
		names = []string{gameengine.ControllerHuman.String()}
	}
	controllers := make([]gameengine.Controller, len(names))
	for i, name := range names {
		if controllers[i], err = gameengine.ParseController(name); err != nil {
			return gameengine.GameConfig{}, err
		}
	}

	difficulty := gameengine.DefaultDifficulty()
	if req.has("difficulty") {
		raw := fmt.Sprint(req["difficulty"])
		if difficulty, err = rules.ParseDifficulty(raw); err != nil {
			return gameengine.GameConfig{}, fmt.Errorf("%w: %v", errBadRequest, err)
		}
	}

	mc := gameengine.DefaultMap(difficulty)
	size, err := req.integer("size", 0)
	if err != nil {
		return gameengine.GameConfig{}, err
	}
	if size > 0 {
		mc.Width, mc.Height = size, size
	}
	seed, err := req.integer("seed", int(time.Now().UnixNano()&0x7fffffff))
	if err != nil {
		return gameengine.GameConfig{}, err
	}

	cfg := gameengine.GameConfig{
		Map:         mc,
		Controllers: controllers,
		Rng:         rand.New(rand.NewSource(int64(seed))),
		Solver:      s.solver,
		FieldStore:  s.store,
		Logger:      log.Logger,
	}

	rows, err := req.strings("board")
	if err != nil {
		return gameengine.GameConfig{}, err
	}
	if rows != nil {
		if cfg.Board, err = parseBoard(rows); err != nil {
			return gameengine.GameConfig{}, err
		}
	}
	return cfg, nil
}

// GetState returns the snapshot of game_id
func (s *Server) GetState(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	game, err := s.lookup(newRequest(in))
	if err != nil {
		return nil, toStatus(err)
	}

	var out map[string]interface{}
	_ = game.with(func(e *gameengine.Engine) error {
		out = stateToMap(game.id, e)
		return nil
	})
	return toStruct(out)
}

// GetHint returns the best move for the active player's rolled dice. With
// include_field set the whole win-probability field is returned as well.
func (s *Server) GetHint(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req := newRequest(in)
	game, err := s.lookup(req)
	if err != nil {
		return nil, toStatus(err)
	}
	withField, err := req.boolean("include_field")
	if err != nil {
		return nil, toStatus(err)
	}

	var out map[string]interface{}
	err = game.with(func(e *gameengine.Engine) error {
		choice, err := e.Hint()
		if err != nil {
			return err
		}
		out = choiceToMap(choice)
		if withField {
			out["field"] = fieldRows(e.Field())
		}
		return nil
	})
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(out)
}

// PlayTurn advances game_id by one turn. dice fixes the roll. An AI seat
// plays on its own; a human seat plays directions with values assigning the
// dice to the legs (rolled order when absent), and without directions the
// call only rolls the dice.
func (s *Server) PlayTurn(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req := newRequest(in)
	game, err := s.lookup(req)
	if err != nil {
		return nil, toStatus(err)
	}
	dice, haveDice, err := req.dice("dice")
	if err != nil {
		return nil, toStatus(err)
	}
	dirs, haveDirs, err := req.directions("directions")
	if err != nil {
		return nil, toStatus(err)
	}
	values, haveValues, err := req.dice("values")
	if err != nil {
		return nil, toStatus(err)
	}

	out := map[string]interface{}{}
	err = game.with(func(e *gameengine.Engine) error {
		if haveDice {
			if err := e.SetDice(dice[0], dice[1]); err != nil {
				return err
			}
		}

		active := e.ActivePlayer()
		switch {
		case active.Controller.IsAI():
			choice, err := e.PlayAITurn(ctx)
			if err != nil {
				return err
			}
			out["choice"] = choiceToMap(choice)
		case haveDirs:
			if _, rolled := e.Dice(); !rolled {
				if _, err := e.RollDice(); err != nil {
					return err
				}
			}
			if !haveValues {
				values, _ = e.Dice()
			}
			move, err := e.PlayMove(ctx, dirs, values)
			if err != nil {
				return err
			}
			out["move"] = moveToMap(move)
		default:
			if _, rolled := e.Dice(); !rolled {
				if _, err := e.RollDice(); err != nil {
					return err
				}
			}
		}
		out["state"] = stateToMap(game.id, e)
		return nil
	})
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(out)
}

// ChooseMove is stateless: it solves board (cached) and picks a move from
// x,y for dice. exploration defaults to 0.
func (s *Server) ChooseMove(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	choice, err := s.chooseMove(ctx, newRequest(in))
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(choiceToMap(choice))
}

func (s *Server) chooseMove(ctx context.Context, req request) (policy.Choice, error) {
	rows, err := req.strings("board")
	if err != nil {
		return policy.Choice{}, err
	}
	if rows == nil {
		return policy.Choice{}, fmt.Errorf("%w: board is required", errBadRequest)
	}
	board, err := parseBoard(rows)
	if err != nil {
		return policy.Choice{}, err
	}
	if !req.has("x") || !req.has("y") {
		return policy.Choice{}, fmt.Errorf("%w: x and y are required", errBadRequest)
	}
	x, err := req.integer("x", 0)
	if err != nil {
		return policy.Choice{}, err
	}
	y, err := req.integer("y", 0)
	if err != nil {
		return policy.Choice{}, err
	}
	dice, ok, err := req.dice("dice")
	if err != nil {
		return policy.Choice{}, err
	}
	if !ok {
		return policy.Choice{}, fmt.Errorf("%w: dice are required", errBadRequest)
	}
	iterations, err := req.integer("iterations", gameengine.SolverIterations())
	if err != nil {
		return policy.Choice{}, err
	}
	if limit := gameengine.MaxIterations(); iterations > limit {
		return policy.Choice{}, fmt.Errorf("%w: iterations %d exceeds %d", errBadRequest, iterations, limit)
	}
	exploration, err := req.float("exploration", 0)
	if err != nil {
		return policy.Choice{}, err
	}

	field, _, err := cache.GetOrCompute(ctx, s.store, s.solver, board, board.End(), iterations)
	if err != nil {
		return policy.Choice{}, err
	}
	return s.selector.ChooseMove(board, core.NewCoordinate(x, y), dice[0], dice[1], field, exploration)
}

// parseBoard rejects client boards larger than the generator would build
func parseBoard(rows []string) (*core.Board, error) {
	if len(rows) > mapgen.MaxGridSize {
		return nil, fmt.Errorf("%w: board has %d rows, limit is %d", errBadRequest, len(rows), mapgen.MaxGridSize)
	}
	for i, r := range rows {
		if len(r) > mapgen.MaxGridSize {
			return nil, fmt.Errorf("%w: board row %d is %d tiles, limit is %d", errBadRequest, i, len(r), mapgen.MaxGridSize)
		}
	}
	return core.ParseBoard(rows)
}

func (s *Server) lookup(req request) (*gameInstance, error) {
	id, err := req.str("game_id")
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, fmt.Errorf("%w: game_id is required", errBadRequest)
	}
	return s.gameManager.GetGame(id)
}

// toStatus maps domain errors onto gRPC status codes
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	var code codes.Code
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return status.FromContextError(err).Err()
	case errors.Is(err, ErrGameNotFound):
		code = codes.NotFound
	case errors.Is(err, ErrAtCapacity):
		code = codes.ResourceExhausted
	case errors.Is(err, gameengine.ErrGameNotRunning),
		errors.Is(err, gameengine.ErrDiceNotRolled),
		errors.Is(err, gameengine.ErrDiceAlreadyRolled),
		errors.Is(err, gameengine.ErrNotHumanTurn),
		errors.Is(err, gameengine.ErrNotAITurn),
		errors.Is(err, states.ErrInvalidTransition):
		code = codes.FailedPrecondition
	case errors.Is(err, errBadRequest),
		errors.Is(err, gameengine.ErrNoPlayers),
		errors.Is(err, gameengine.ErrTooManyPlayers),
		errors.Is(err, gameengine.ErrInvalidController),
		errors.Is(err, gameengine.ErrDiceMismatch),
		errors.Is(err, core.ErrInvalidBoard),
		errors.Is(err, core.ErrEmptyBoard),
		errors.Is(err, core.ErrInvalidCoordinates),
		errors.Is(err, core.ErrInvalidDirection),
		errors.Is(err, core.ErrInvalidDie),
		errors.Is(err, core.ErrStartIsWater),
		errors.Is(err, mapgen.ErrInvalidMapConfig),
		errors.Is(err, solver.ErrInvalidGoal),
		errors.Is(err, solver.ErrInvalidIterations),
		errors.Is(err, policy.ErrInvalidExplorationRate):
		code = codes.InvalidArgument
	default:
		log.Error().Err(err).Msg("Unexpected engine error")
		code = codes.Internal
	}
	return status.Error(code, err.Error())
}
