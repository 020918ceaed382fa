package engineserver

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	gameengine "github.com/mitchelldurbincs/RobotWantsBattery/internal/game"
	"github.com/mitchelldurbincs/RobotWantsBattery/internal/game/states"
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrAtCapacity   = errors.New("server at capacity")
)

// Cleanup configuration
const (
	cleanupInterval      = 5 * time.Minute
	finishedGameTTL      = 10 * time.Minute
	abandonedGameTimeout = 30 * time.Minute
)

// gameInstance is one hosted session. mu serialises every engine call.
type gameInstance struct {
	id           string
	engine       *gameengine.Engine
	mu           sync.Mutex
	createdAt    time.Time
	lastActivity time.Time
}

// with runs fn while holding the game lock and marks the game active
func (g *gameInstance) with(fn func(e *gameengine.Engine) error) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lastActivity = time.Now()
	return fn(g.engine)
}

// GameManager manages all active game instances
type GameManager struct {
	mu       sync.RWMutex
	games    map[string]*gameInstance
	maxGames int
}

// NewGameManager creates a new game manager. maxGames <= 0 means unlimited.
func NewGameManager(maxGames int) *GameManager {
	return &GameManager{
		games:    make(map[string]*gameInstance),
		maxGames: maxGames,
	}
}

// CreateGame builds and starts a new engine under a fresh id
func (gm *GameManager) CreateGame(ctx context.Context, cfg gameengine.GameConfig) (*gameInstance, error) {
	if gm.atCapacity() {
		return nil, fmt.Errorf("%w: %d games active", ErrAtCapacity, gm.GetActiveGames())
	}

	gameID := uuid.New().String()
	cfg.GameID = gameID
	engine, err := gameengine.NewEngine(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := engine.Start(); err != nil {
		return nil, err
	}

	now := time.Now()
	game := &gameInstance{
		id:           gameID,
		engine:       engine,
		createdAt:    now,
		lastActivity: now,
	}

	gm.mu.Lock()
	defer gm.mu.Unlock()
	// Re-check under the write lock; solving ran without it.
	if gm.maxGames > 0 && len(gm.games) >= gm.maxGames {
		log.Warn().
			Int("current_games", len(gm.games)).
			Int("max_games", gm.maxGames).
			Msg("Rejecting game creation - server at capacity")
		return nil, fmt.Errorf("%w: %d/%d games active", ErrAtCapacity, len(gm.games), gm.maxGames)
	}
	gm.games[gameID] = game

	log.Info().
		Str("game_id", gameID).
		Int("active_games", len(gm.games)).
		Msg("Game created")
	return game, nil
}

func (gm *GameManager) atCapacity() bool {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	return gm.maxGames > 0 && len(gm.games) >= gm.maxGames
}

// GetGame retrieves a game instance by ID
func (gm *GameManager) GetGame(gameID string) (*gameInstance, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	game, ok := gm.games[gameID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrGameNotFound, gameID)
	}
	return game, nil
}

// GetActiveGames returns the number of hosted games
func (gm *GameManager) GetActiveGames() int {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	return len(gm.games)
}

// RunCleanup removes finished and abandoned games every interval until ctx
// is done.
func (gm *GameManager) RunCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			gm.cleanupGames(now)
		}
	}
}

// cleanupGames removes finished games after finishedGameTTL and idle ones
// after abandonedGameTimeout. It returns how many were removed.
func (gm *GameManager) cleanupGames(now time.Time) int {
	gm.mu.RLock()
	refs := make([]*gameInstance, 0, len(gm.games))
	for _, game := range gm.games {
		refs = append(refs, game)
	}
	gm.mu.RUnlock()

	var toDelete []string
	for _, game := range refs {
		game.mu.Lock()
		idle := now.Sub(game.lastActivity)
		ended := game.engine.Phase() == states.PhaseEnded
		game.mu.Unlock()

		reason := ""
		switch {
		case ended && idle > finishedGameTTL:
			reason = "finished game TTL expired"
		case !ended && idle > abandonedGameTimeout:
			reason = "game abandoned (no activity)"
		default:
			continue
		}
		toDelete = append(toDelete, game.id)
		log.Info().
			Str("game_id", game.id).
			Str("reason", reason).
			Dur("age", now.Sub(game.createdAt)).
			Dur("inactive", idle).
			Msg("Cleaning up game")
	}

	if len(toDelete) == 0 {
		return 0
	}

	gm.mu.Lock()
	for _, id := range toDelete {
		delete(gm.games, id)
	}
	remaining := len(gm.games)
	gm.mu.Unlock()

	log.Info().
		Int("cleaned", len(toDelete)).
		Int("remaining", remaining).
		Msg("Game cleanup completed")
	return len(toDelete)
}
