package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mitchelldurbincs/RobotWantsBattery/internal/game/core"
	"github.com/mitchelldurbincs/RobotWantsBattery/internal/testutil"
)

type testPlayer struct {
	id    int
	alive bool
	pos   core.Coordinate
}

func (p testPlayer) GetID() int                { return p.id }
func (p testPlayer) IsAlive() bool             { return p.alive }
func (p testPlayer) Position() core.Coordinate { return p.pos }

func TestWinConditionChecker(t *testing.T) {
	end := core.NewCoordinate(6, 6)
	elsewhere := core.NewCoordinate(3, 3)

	tests := []struct {
		name       string
		players    []Player
		gameOver   bool
		expectedID int
	}{
		{
			name:       "nobody at the goal",
			players:    []Player{testPlayer{0, true, elsewhere}, testPlayer{1, true, elsewhere}},
			gameOver:   false,
			expectedID: NoWinner,
		},
		{
			name:       "second player reaches the goal",
			players:    []Player{testPlayer{0, true, elsewhere}, testPlayer{1, true, end}},
			gameOver:   true,
			expectedID: 1,
		},
		{
			name:       "drowned player on the goal does not win",
			players:    []Player{testPlayer{0, false, end}, testPlayer{1, true, elsewhere}},
			gameOver:   false,
			expectedID: NoWinner,
		},
		{
			name:       "everyone drowned",
			players:    []Player{testPlayer{0, false, elsewhere}, testPlayer{1, false, elsewhere}},
			gameOver:   true,
			expectedID: NoWinner,
		},
		{
			name:       "single player drowned",
			players:    []Player{testPlayer{0, false, elsewhere}},
			gameOver:   true,
			expectedID: NoWinner,
		},
	}

	checker := NewWinConditionChecker(testutil.NopLogger(), end)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			over, winner := checker.CheckGameOver(tt.players)
			assert.Equal(t, tt.gameOver, over)
			assert.Equal(t, tt.expectedID, winner)
		})
	}
}
