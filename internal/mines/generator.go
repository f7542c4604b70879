package mines

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

type Config struct {
	Rows  int `json:"rows" schema:"rows"`
	Cols  int `json:"cols" schema:"cols"`
	Mines int `json:"mines" schema:"mines"`
}

func (c Config) Cells() int {
	return c.Rows * c.Cols
}

func (c Config) InBounds(row, col int) bool {
	return 0 <= row && row < c.Rows && 0 <= col && col < c.Cols
}

// Validate reports whether c describes a playable board: positive
// dimensions and at least one cell left free of mines.
func (c Config) Validate() error {
	switch {
	case c.Rows <= 0:
		return fmt.Errorf("%w: rows must be positive, got %d", ErrInvalidConfig, c.Rows)
	case c.Cols <= 0:
		return fmt.Errorf("%w: cols must be positive, got %d", ErrInvalidConfig, c.Cols)
	case c.Mines < 0:
		return fmt.Errorf("%w: mines must not be negative, got %d", ErrInvalidConfig, c.Mines)
	case c.Rows > math.MaxInt/c.Cols:
		return fmt.Errorf("%w: %dx%d board is too large", ErrInvalidConfig, c.Rows, c.Cols)
	case c.Mines >= c.Cells():
		return fmt.Errorf(
			"%w: %d mines do not fit a %dx%d board", ErrInvalidConfig, c.Mines, c.Rows, c.Cols,
		)
	}
	return nil
}

func (c Config) String() string {
	return fmt.Sprintf("%dx%d(%d)", c.Rows, c.Cols, c.Mines)
}

type Preset struct {
	Name string `json:"name"`
	Config
}

var Presets = []Preset{
	{"beginner", Config{Rows: 9, Cols: 9, Mines: 10}},
	{"classic", Config{Rows: 10, Cols: 10, Mines: 15}},
	{"intermediate", Config{Rows: 16, Cols: 16, Mines: 40}},
	{"expert", Config{Rows: 16, Cols: 30, Mines: 99}},
}

func PresetByName(name string) (Config, bool) {
	i := slices.IndexFunc(Presets, func(p Preset) bool {
		return strings.EqualFold(p.Name, name)
	})
	if i < 0 {
		return Config{}, false
	}
	return Presets[i].Config, true
}
