package mines

import (
	"fmt"
	"hash/maphash"
	"math/rand/v2"
)

// Rand is the only source of nondeterminism in the engine. *rand.Rand
// satisfies it.
type Rand interface {
	IntN(n int) int
}

// NewRand returns a PCG generator seeded from the runtime's hash seed.
func NewRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

// BuildGrid places exactly cfg.Mines mines uniformly at random, never on
// excluded, and fills in the neighbour counts. Draws that hit the excluded
// cell or an already mined one are thrown away and redrawn.
func BuildGrid(cfg Config, excluded *Point, r Rand) (Grid, error) {
	if err := cfg.Validate(); err != nil {
		return Grid{}, err
	}

	// Validate leaves at least one cell free, so the excluded cell always fits.
	if excluded != nil && !cfg.InBounds(excluded.Row, excluded.Col) {
		return Grid{}, fmt.Errorf(
			"%w: excluded cell %s outside %s", ErrInvalidConfig, excluded, cfg,
		)
	}

	grid := newGrid(cfg.Rows, cfg.Cols)
	skip := -1
	if excluded != nil {
		skip = grid.index(excluded.Row, excluded.Col)
	}

	for planted := 0; planted < cfg.Mines; {
		i := r.IntN(len(grid.cells))
		if i == skip || grid.cells[i].Mine {
			continue
		}
		grid.cells[i].Mine = true
		planted++
	}

	grid.countAdjacent()
	return grid, nil
}

// LayGrid builds a grid with mines at exactly the given points.
func LayGrid(cfg Config, mines []Point) (Grid, error) {
	if err := cfg.Validate(); err != nil {
		return Grid{}, err
	}
	if len(mines) != cfg.Mines {
		return Grid{}, fmt.Errorf(
			"%w: layout has %d mines, want %d", ErrInvalidConfig, len(mines), cfg.Mines,
		)
	}

	grid := newGrid(cfg.Rows, cfg.Cols)
	for _, p := range mines {
		if !grid.InBounds(p.Row, p.Col) {
			return Grid{}, fmt.Errorf("%w: mine %s outside %s", ErrInvalidConfig, p, cfg)
		}
		c := grid.cell(p)
		if c.Mine {
			return Grid{}, fmt.Errorf("%w: duplicate mine at %s", ErrInvalidConfig, p)
		}
		c.Mine = true
	}

	grid.countAdjacent()
	return grid, nil
}

func (g Grid) countAdjacent() {
	for i := range g.cells {
		if g.cells[i].Mine {
			continue
		}
		p := g.point(i)
		n := 0
		for _, q := range g.Neighbors(p.Row, p.Col) {
			if g.cell(q).Mine {
				n++
			}
		}
		g.cells[i].Adjacent = n
	}
}
