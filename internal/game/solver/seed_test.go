package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/RobotWantsBattery/internal/game/core"
	"github.com/mitchelldurbincs/RobotWantsBattery/internal/testutil"
)

func TestSeed_ClosedForm(t *testing.T) {
	none := core.NewCoordinate(-1, -1)
	tests := []struct {
		name  string
		board *core.Board
		from  core.Coordinate
		end   core.Coordinate
		rolls int
	}{
		{"straight with room", testutil.OpenBoard(t, 8, 1, none, none), core.NewCoordinate(5, 0), core.NewCoordinate(7, 0), 9},
		{"straight blocked needs flight", testutil.Board(t, ".~.."), core.NewCoordinate(0, 0), core.NewCoordinate(3, 0), 2},
		{"straight beyond one die", testutil.OpenBoard(t, 12, 1, none, none), core.NewCoordinate(0, 0), core.NewCoordinate(8, 0), 5},
		{"diagonal both orders clear", testutil.OpenBoard(t, 5, 5, none, none), core.NewCoordinate(0, 0), core.NewCoordinate(2, 2), 2},
		{"diagonal one order clear", testutil.Board(t,
			"..~..",
			".....",
			".....",
		), core.NewCoordinate(0, 0), core.NewCoordinate(2, 2), 1},
		{"diagonal leg longer than a die", testutil.OpenBoard(t, 10, 10, none, none), core.NewCoordinate(0, 0), core.NewCoordinate(7, 2), 0},
		{"beyond reach", testutil.OpenBoard(t, 14, 1, none, none), core.NewCoordinate(0, 0), core.NewCoordinate(13, 0), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			field, err := Seed(tt.board, tt.end)
			require.NoError(t, err)
			assert.InDelta(t, float64(tt.rolls)/core.RollOutcomes, field.AtCoord(tt.from), 1e-12)
			assert.Equal(t, 1.0, field.AtCoord(tt.end))
		})
	}
}

func TestSeed_WaterIsZero(t *testing.T) {
	board := testutil.Board(t,
		"S.~.",
		".~~.",
		"...E",
	)
	field, err := Seed(board, board.End())
	require.NoError(t, err)

	for idx := 0; idx < board.Size(); idx++ {
		c := core.FromIndex(idx, board.W)
		if !board.IsWalkableAt(c) {
			assert.Zero(t, field.AtCoord(c), "water at %s", c)
		}
	}
}

func TestSeed_Idempotent(t *testing.T) {
	board := testutil.Board(t,
		"S...~.....",
		"..~...~...",
		"....~.....",
		".~......~.",
		".....~...E",
	)

	first, err := Seed(board, board.End())
	require.NoError(t, err)
	second, err := Seed(board, board.End())
	require.NoError(t, err)
	assert.True(t, first.Equal(second))
}

func TestSeed_InvalidGoal(t *testing.T) {
	board := testutil.Board(t, ".~")

	_, err := Seed(board, core.NewCoordinate(1, 0))
	assert.ErrorIs(t, err, ErrInvalidGoal)

	_, err = Seed(board, core.NewCoordinate(5, 0))
	assert.ErrorIs(t, err, ErrInvalidGoal)

	_, err = Seed(nil, core.NewCoordinate(0, 0))
	assert.ErrorIs(t, err, core.ErrEmptyBoard)
}
