package mapgen

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/mitchelldurbincs/RobotWantsBattery/internal/game/core"
	"github.com/mitchelldurbincs/RobotWantsBattery/internal/game/rules"
)

const (
	DefaultGridSize   = 16
	MinGridSize       = 10
	MaxGridSize       = 64
	DefaultStartInset = 3
)

// DefaultWaterChances is the per-tile water probability for each difficulty
var DefaultWaterChances = [4]float64{0.05, 0.15, 0.25, 0.35}

var ErrInvalidMapConfig = errors.New("invalid map config")

// MapConfig holds configuration for map generation
type MapConfig struct {
	Width        int
	Height       int
	Difficulty   rules.Difficulty
	WaterChances [4]float64
	StartInset   int // start sits this many tiles from the top-left corner, end as far from bottom-right
}

// DefaultMapConfig returns the standard square board for a difficulty
func DefaultMapConfig(size int, difficulty rules.Difficulty) MapConfig {
	return MapConfig{
		Width:        size,
		Height:       size,
		Difficulty:   difficulty,
		WaterChances: DefaultWaterChances,
		StartInset:   DefaultStartInset,
	}
}

func (c MapConfig) Validate() error {
	if c.Width < MinGridSize || c.Height < MinGridSize {
		return fmt.Errorf("%w: %dx%d is smaller than %dx%d", ErrInvalidMapConfig, c.Width, c.Height, MinGridSize, MinGridSize)
	}
	if c.Width > MaxGridSize || c.Height > MaxGridSize {
		return fmt.Errorf("%w: %dx%d is larger than %dx%d", ErrInvalidMapConfig, c.Width, c.Height, MaxGridSize, MaxGridSize)
	}
	if !c.Difficulty.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidMapConfig, c.Difficulty)
	}
	for i, p := range c.WaterChances {
		if p < 0 || p > 1 {
			return fmt.Errorf("%w: water chance %v for %s", ErrInvalidMapConfig, p, rules.Difficulty(i))
		}
	}
	if c.StartInset < 0 || 2*c.StartInset >= min(c.Width, c.Height)-1 {
		return fmt.Errorf("%w: start inset %d does not fit a %dx%d board", ErrInvalidMapConfig, c.StartInset, c.Width, c.Height)
	}
	return nil
}

// Start is where every piece begins
func (c MapConfig) Start() core.Coordinate {
	return core.NewCoordinate(c.StartInset, c.StartInset)
}

// End is the battery tile
func (c MapConfig) End() core.Coordinate {
	return core.NewCoordinate(c.Width-1-c.StartInset, c.Height-1-c.StartInset)
}

// Generator handles map generation with deterministic RNG
type Generator struct {
	config MapConfig
	rng    *rand.Rand
}

// NewGenerator creates a new map generator
func NewGenerator(config MapConfig, rng *rand.Rand) *Generator {
	return &Generator{
		config: config,
		rng:    rng,
	}
}

// GenerateMap lays water down tile by tile, column by column, then forces
// the start and end tiles dry. The same seed always yields the same board.
func (g *Generator) GenerateMap() (*core.Board, error) {
	if err := g.config.Validate(); err != nil {
		return nil, err
	}

	w, h := g.config.Width, g.config.Height
	chance := g.config.WaterChances[g.config.Difficulty]
	tiles := make([]core.Terrain, w*h)
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			if g.rng.Float64() < chance {
				tiles[y*w+x] = core.TerrainWater
			}
		}
	}
	tiles[g.config.Start().ToIndex(w)] = core.TerrainStart
	tiles[g.config.End().ToIndex(w)] = core.TerrainEnd

	board, err := core.NewBoard(w, h, tiles)
	if err != nil {
		return nil, err
	}
	if err := board.Validate(); err != nil {
		return nil, err
	}
	return board, nil
}
