package solver

import (
	"encoding/json"
	"fmt"

	"github.com/mitchelldurbincs/RobotWantsBattery/internal/game/core"
)

// Field holds, for every tile, the estimated probability of eventually
// reaching the goal when starting a fresh turn there. Water tiles are 0.
// A Field is never modified after it is returned.
type Field struct {
	W, H   int
	values []float64 // row-major, same layout as core.Board
}

func newField(w, h int) *Field {
	return &Field{W: w, H: h, values: make([]float64, w*h)}
}

// At returns the value at (x, y), or 0 outside the field
func (f *Field) At(x, y int) float64 {
	if x < 0 || x >= f.W || y < 0 || y >= f.H {
		return 0
	}
	return f.values[y*f.W+x]
}

// AtCoord is At for a Coordinate
func (f *Field) AtCoord(c core.Coordinate) float64 { return f.At(c.X, c.Y) }

// Matches reports whether the field has the dimensions of board b
func (f *Field) Matches(b *core.Board) bool {
	return f.W == b.W && f.H == b.H
}

// Max returns the largest value and the first tile holding it
func (f *Field) Max() (float64, core.Coordinate) {
	best, at := -1.0, core.Coordinate{}
	for idx, v := range f.values {
		if v > best {
			best, at = v, core.FromIndex(idx, f.W)
		}
	}
	return best, at
}

// Equal reports bit-identical contents
func (f *Field) Equal(other *Field) bool {
	if other == nil || f.W != other.W || f.H != other.H {
		return false
	}
	for i, v := range f.values {
		if v != other.values[i] {
			return false
		}
	}
	return true
}

// Rows returns a copy indexed as rows[y][x]
func (f *Field) Rows() [][]float64 {
	rows := make([][]float64, f.H)
	for y := range rows {
		rows[y] = append([]float64(nil), f.values[y*f.W:(y+1)*f.W]...)
	}
	return rows
}

func (f *Field) Clone() *Field {
	return &Field{W: f.W, H: f.H, values: append([]float64(nil), f.values...)}
}

type fieldJSON struct {
	Width  int       `json:"width"`
	Height int       `json:"height"`
	Values []float64 `json:"values"`
}

func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(fieldJSON{Width: f.W, Height: f.H, Values: f.values})
}

func (f *Field) UnmarshalJSON(data []byte) error {
	var raw fieldJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Width <= 0 || raw.Height <= 0 || len(raw.Values) != raw.Width*raw.Height {
		return fmt.Errorf("%w: %dx%d field with %d values", ErrFieldMismatch, raw.Width, raw.Height, len(raw.Values))
	}
	f.W, f.H, f.values = raw.Width, raw.Height, raw.Values
	return nil
}
