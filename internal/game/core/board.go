package core

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Terrain is the kind of a single tile. Only water blocks movement; start and
// end behave like land and exist for presentation.
type Terrain uint8

const (
	TerrainLand Terrain = iota
	TerrainWater
	TerrainStart
	TerrainEnd
)

// String returns the lowercase name of the terrain kind
func (t Terrain) String() string {
	switch t {
	case TerrainLand:
		return "land"
	case TerrainWater:
		return "water"
	case TerrainStart:
		return "start"
	case TerrainEnd:
		return "end"
	default:
		return fmt.Sprintf("terrain(%d)", uint8(t))
	}
}

// Rune returns the single-character map symbol used by ParseBoard and Rows
func (t Terrain) Rune() rune {
	switch t {
	case TerrainLand:
		return '.'
	case TerrainWater:
		return '~'
	case TerrainStart:
		return 'S'
	case TerrainEnd:
		return 'E'
	default:
		return '?'
	}
}

// IsWater reports whether the terrain blocks movement
func (t Terrain) IsWater() bool {
	switch t {
	case TerrainWater:
		return true
	case TerrainLand, TerrainStart, TerrainEnd:
		return false
	default:
		return false
	}
}

// ParseTerrain maps a map symbol back to its terrain kind
func ParseTerrain(r rune) (Terrain, error) {
	switch r {
	case '.':
		return TerrainLand, nil
	case '~':
		return TerrainWater, nil
	case 'S':
		return TerrainStart, nil
	case 'E':
		return TerrainEnd, nil
	default:
		return 0, fmt.Errorf("%w: unknown terrain symbol %q", ErrInvalidBoard, r)
	}
}

// Board is an immutable W x H terrain grid stored row-major.
type Board struct {
	W, H  int
	tiles []Terrain
	start Coordinate
	end   Coordinate
}

// NewBoard copies tiles (row-major, length w*h) into a new board.
func NewBoard(w, h int, tiles []Terrain) (*Board, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrEmptyBoard, w, h)
	}
	if len(tiles) != w*h {
		return nil, fmt.Errorf("%w: got %d tiles for a %dx%d board", ErrInvalidBoard, len(tiles), w, h)
	}

	b := &Board{
		W:     w,
		H:     h,
		tiles: make([]Terrain, len(tiles)),
		start: Coordinate{X: -1, Y: -1},
		end:   Coordinate{X: -1, Y: -1},
	}
	copy(b.tiles, tiles)

	for idx, t := range b.tiles {
		switch t {
		case TerrainStart:
			b.start = FromIndex(idx, w)
		case TerrainEnd:
			b.end = FromIndex(idx, w)
		case TerrainLand, TerrainWater:
		default:
			return nil, fmt.Errorf("%w: unknown terrain %d at index %d", ErrInvalidBoard, t, idx)
		}
	}
	return b, nil
}

// ParseBoard builds a board from ASCII rows, one string per y. Symbols:
// '.' land, '~' water, 'S' start, 'E' end.
func ParseBoard(rows []string) (*Board, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyBoard
	}
	w := len([]rune(rows[0]))
	tiles := make([]Terrain, 0, w*len(rows))
	for y, row := range rows {
		runes := []rune(row)
		if len(runes) != w {
			return nil, fmt.Errorf("%w: row %d has width %d, expected %d", ErrInvalidBoard, y, len(runes), w)
		}
		for _, r := range runes {
			t, err := ParseTerrain(r)
			if err != nil {
				return nil, err
			}
			tiles = append(tiles, t)
		}
	}
	return NewBoard(w, len(rows), tiles)
}

// Validate checks that the board has exactly one start and one end tile.
func (b *Board) Validate() error {
	starts, ends := 0, 0
	for _, t := range b.tiles {
		switch t {
		case TerrainStart:
			starts++
		case TerrainEnd:
			ends++
		case TerrainLand, TerrainWater:
		}
	}
	if starts != 1 {
		return fmt.Errorf("%w: found %d start tiles", ErrInvalidBoard, starts)
	}
	if ends != 1 {
		return fmt.Errorf("%w: found %d end tiles", ErrInvalidBoard, ends)
	}
	return nil
}

func (b *Board) Idx(x, y int) int      { return y*b.W + x }
func (b *Board) XY(idx int) (int, int) { return idx % b.W, idx / b.W }

// Size returns the number of tiles on the board
func (b *Board) Size() int { return len(b.tiles) }

// InBounds checks if coordinates are within board boundaries
func (b *Board) InBounds(x, y int) bool {
	return x >= 0 && x < b.W && y >= 0 && y < b.H
}

// At returns the terrain at (x, y). Out-of-bounds lookups report water.
func (b *Board) At(x, y int) Terrain {
	if !b.InBounds(x, y) {
		return TerrainWater
	}
	return b.tiles[b.Idx(x, y)]
}

// IsWalkable is false outside the board and on water, true everywhere else.
func (b *Board) IsWalkable(x, y int) bool {
	if !b.InBounds(x, y) {
		return false
	}
	return !b.tiles[b.Idx(x, y)].IsWater()
}

// IsWalkableAt is IsWalkable for a Coordinate
func (b *Board) IsWalkableAt(c Coordinate) bool { return b.IsWalkable(c.X, c.Y) }

// Start returns the start tile, or (-1,-1) if the board has none
func (b *Board) Start() Coordinate { return b.start }

// End returns the end tile, or (-1,-1) if the board has none
func (b *Board) End() Coordinate { return b.end }

// Rows renders the board back into the ASCII form accepted by ParseBoard
func (b *Board) Rows() []string {
	rows := make([]string, b.H)
	var sb strings.Builder
	for y := 0; y < b.H; y++ {
		sb.Reset()
		for x := 0; x < b.W; x++ {
			sb.WriteRune(b.tiles[b.Idx(x, y)].Rune())
		}
		rows[y] = sb.String()
	}
	return rows
}

// Hash returns a stable hex digest of the board dimensions and terrain.
func (b *Board) Hash() string {
	h := sha256.New()
	fmt.Fprintf(h, "%dx%d:", b.W, b.H)
	buf := make([]byte, len(b.tiles))
	for i, t := range b.tiles {
		buf[i] = byte(t)
	}
	h.Write(buf)
	return hex.EncodeToString(h.Sum(nil))
}

func (b *Board) Distance(x1, y1, x2, y2 int) int {
	return abs(x1-x2) + abs(y1-y2)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
