package testutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/RobotWantsBattery/internal/game/core"
)

// Board parses ASCII rows ('.' land, '~' water, 'S' start, 'E' end) and fails
// the test on malformed input.
func Board(t testing.TB, rows ...string) *core.Board {
	t.Helper()
	b, err := core.ParseBoard(rows)
	require.NoError(t, err)
	return b
}

// OpenBoard returns a w x h all-land board with start and end placed at the
// given coordinates. Pass (-1,-1) to leave either out.
func OpenBoard(t testing.TB, w, h int, start, end core.Coordinate) *core.Board {
	t.Helper()
	tiles := make([]core.Terrain, w*h)
	if start.IsValid(w, h) {
		tiles[start.ToIndex(w)] = core.TerrainStart
	}
	if end.IsValid(w, h) {
		tiles[end.ToIndex(w)] = core.TerrainEnd
	}
	b, err := core.NewBoard(w, h, tiles)
	require.NoError(t, err)
	return b
}

// Island returns a size x size board that is all water except a single land
// tile in the centre.
func Island(t testing.TB, size int) (*core.Board, core.Coordinate) {
	t.Helper()
	rows := make([]string, size)
	for y := range rows {
		rows[y] = strings.Repeat("~", size)
	}
	mid := size / 2
	row := []rune(rows[mid])
	row[mid] = '.'
	rows[mid] = string(row)
	return Board(t, rows...), core.NewCoordinate(mid, mid)
}
