package engineserver

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gameengine "github.com/mitchelldurbincs/RobotWantsBattery/internal/game"
	"github.com/mitchelldurbincs/RobotWantsBattery/internal/game/solver"
	"github.com/mitchelldurbincs/RobotWantsBattery/internal/testutil"
)

func corridorConfig(t *testing.T) gameengine.GameConfig {
	return gameengine.GameConfig{
		Board: testutil.Board(t,
			"S....E....",
			"..........",
		),
		Controllers: []gameengine.Controller{gameengine.ControllerHuman},
		Rng:         testutil.NewTestRNG(1),
		Solver:      solver.NewSolver(testutil.NopLogger(), 1),
		Logger:      testutil.NopLogger(),
	}
}

func TestGameManager_CreateAndGet(t *testing.T) {
	gm := NewGameManager(0)

	game, err := gm.CreateGame(context.Background(), corridorConfig(t))
	require.NoError(t, err)
	assert.Len(t, game.id, 36)
	assert.Equal(t, game.id, game.engine.GameID())
	assert.Equal(t, 1, gm.GetActiveGames())

	got, err := gm.GetGame(game.id)
	require.NoError(t, err)
	assert.Same(t, game, got)

	_, err = gm.GetGame("nope")
	assert.ErrorIs(t, err, ErrGameNotFound)
}

func TestGameManager_MaxGames(t *testing.T) {
	gm := NewGameManager(2)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := gm.CreateGame(ctx, corridorConfig(t))
		require.NoError(t, err)
	}
	_, err := gm.CreateGame(ctx, corridorConfig(t))
	assert.ErrorIs(t, err, ErrAtCapacity)
	assert.Equal(t, 2, gm.GetActiveGames())
}

func TestGameManager_CreateGameError(t *testing.T) {
	gm := NewGameManager(1)
	cfg := corridorConfig(t)
	cfg.Controllers = nil

	_, err := gm.CreateGame(context.Background(), cfg)
	assert.ErrorIs(t, err, gameengine.ErrNoPlayers)
	assert.Equal(t, 0, gm.GetActiveGames())
}

func TestGameManager_Cleanup(t *testing.T) {
	gm := NewGameManager(0)
	ctx := context.Background()
	now := time.Now()

	fresh, err := gm.CreateGame(ctx, corridorConfig(t))
	require.NoError(t, err)

	idle, err := gm.CreateGame(ctx, corridorConfig(t))
	require.NoError(t, err)
	idle.lastActivity = now.Add(-abandonedGameTimeout - time.Minute)

	endedRecently, err := gm.CreateGame(ctx, corridorConfig(t))
	require.NoError(t, err)
	require.NoError(t, endedRecently.engine.Abandon())
	endedRecently.lastActivity = now.Add(-time.Minute)

	endedLongAgo, err := gm.CreateGame(ctx, corridorConfig(t))
	require.NoError(t, err)
	require.NoError(t, endedLongAgo.engine.Abandon())
	endedLongAgo.lastActivity = now.Add(-finishedGameTTL - time.Minute)

	assert.Equal(t, 2, gm.cleanupGames(now))
	assert.Equal(t, 2, gm.GetActiveGames())

	for _, id := range []string{fresh.id, endedRecently.id} {
		_, err := gm.GetGame(id)
		assert.NoError(t, err)
	}
	for _, id := range []string{idle.id, endedLongAgo.id} {
		_, err := gm.GetGame(id)
		assert.ErrorIs(t, err, ErrGameNotFound)
	}
}

func TestGameManager_RunCleanupStops(t *testing.T) {
	gm := NewGameManager(0)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		gm.RunCleanup(ctx, time.Millisecond)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("RunCleanup did not return after cancel")
	}
}

func TestGameInstance_WithTouchesActivity(t *testing.T) {
	gm := NewGameManager(0)
	game, err := gm.CreateGame(context.Background(), corridorConfig(t))
	require.NoError(t, err)

	game.lastActivity = time.Time{}
	require.NoError(t, game.with(func(e *gameengine.Engine) error {
		return e.SetDice(1, 1)
	}))
	assert.WithinDuration(t, time.Now(), game.lastActivity, time.Second)
}
