package mines

import (
	"fmt"
	"strconv"
)

type Status int8

const (
	Playing Status = iota
	Won
	Lost
)

func (s Status) String() string {
	switch s {
	case Playing:
		return "playing"
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return "Status(" + strconv.Itoa(int(s)) + ")"
	}
}

func (s Status) MarshalText() ([]byte, error) {
	switch s {
	case Playing, Won, Lost:
		return []byte(s.String()), nil
	}
	return nil, fmt.Errorf("unknown status %d", s)
}

func (s *Status) UnmarshalText(b []byte) error {
	switch string(b) {
	case "playing":
		*s = Playing
	case "won":
		*s = Won
	case "lost":
		*s = Lost
	default:
		return fmt.Errorf("unknown status %q", b)
	}
	return nil
}

// Game is a single board from the first click to a win or a loss. Mines
// are not placed until the first reveal, so the first revealed cell is
// never mined. A Game is not safe for concurrent use.
type Game struct {
	cfg     Config
	grid    Grid
	status  Status
	pending bool
	rnd     Rand
}

// NewGame validates cfg and returns a game in its empty phase. A nil r is
// replaced with [NewRand].
func NewGame(cfg Config, r Rand) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if r == nil {
		r = NewRand()
	}
	g := &Game{rnd: r}
	g.clear(cfg)
	return g, nil
}

func (g *Game) clear(cfg Config) {
	g.cfg = cfg
	g.grid = newGrid(cfg.Rows, cfg.Cols)
	g.status = Playing
	g.pending = true
}

// Reset discards the board and starts over with cfg, which may differ from
// the current configuration. An invalid cfg leaves the game untouched.
func (g *Game) Reset(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	g.clear(cfg)
	return nil
}

func (g *Game) Config() Config { return g.cfg }
func (g *Game) Status() Status { return g.status }
func (g *Game) Over() bool     { return g.status != Playing }

// Pending reports whether the mines are still waiting for the first reveal.
func (g *Game) Pending() bool { return g.pending }

// Grid returns a snapshot that later moves do not affect.
func (g *Game) Grid() Grid { return g.grid.Clone() }

func (g *Game) FlaggedCount() int { return g.grid.count(Flagged) }

// MinesLeft is the mine count minus the flags placed. It goes negative when
// the player over-flags.
func (g *Game) MinesLeft() int { return g.cfg.Mines - g.FlaggedCount() }

func (g *Game) playable(row, col int) bool {
	return g.status == Playing && g.grid.InBounds(row, col)
}

// Reveal opens the cell at row, col and reports whether anything changed.
// Out of bounds coordinates, flagged or revealed cells and finished games
// are ignored.
func (g *Game) Reveal(row, col int) bool {
	if !g.playable(row, col) {
		return false
	}

	if g.pending {
		grid, err := BuildGrid(g.cfg, &Point{row, col}, g.rnd)
		if err != nil {
			// unreachable: cfg was validated and the first cell is in bounds
			return false
		}
		g.grid = grid
		g.pending = false
	}

	return g.open(Point{row, col})
}

func (g *Game) open(p Point) bool {
	c := g.grid.cell(p)
	if c.Visibility != Hidden {
		return false
	}
	if c.Mine {
		g.explode()
		return true
	}
	g.flood(p)
	if AllSafeRevealed(g.grid) {
		g.status = Won
	}
	return true
}

func (g *Game) explode() {
	g.status = Lost
	for i := range g.grid.cells {
		if g.grid.cells[i].Mine {
			g.grid.cells[i].Visibility = Revealed
		}
	}
}

// flood reveals start and, through every zero cell it reaches, the whole
// connected zero region with its numbered border.
func (g *Game) flood(start Point) {
	stack := []Point{start}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		c := g.grid.cell(p)
		if c.Visibility != Hidden || c.Mine {
			continue
		}
		c.Visibility = Revealed
		if c.Adjacent > 0 {
			continue
		}
		for _, q := range g.grid.Neighbors(p.Row, p.Col) {
			if g.grid.cell(q).Visibility == Hidden {
				stack = append(stack, q)
			}
		}
	}
}

// AllSafeRevealed reports whether every cell without a mine is revealed.
// Flags play no part.
func AllSafeRevealed(g Grid) bool {
	for _, c := range g.cells {
		if !c.Mine && c.Visibility != Revealed {
			return false
		}
	}
	return true
}

// ToggleFlag flags a hidden cell or unflags a flagged one. Revealed cells
// and finished games are ignored.
func (g *Game) ToggleFlag(row, col int) bool {
	if !g.playable(row, col) {
		return false
	}
	c := g.grid.cell(Point{row, col})
	switch c.Visibility {
	case Hidden:
		c.Visibility = Flagged
	case Flagged:
		c.Visibility = Hidden
	default:
		return false
	}
	return true
}

// Chord reveals every hidden neighbour of a revealed number once the
// player has flagged as many neighbours as the number says. A wrong flag
// means a mine gets opened and the game is lost.
func (g *Game) Chord(row, col int) bool {
	if !g.playable(row, col) || g.pending {
		return false
	}
	c := g.grid.At(row, col)
	if c.Visibility != Revealed || c.Mine || c.Adjacent == 0 {
		return false
	}

	var (
		neighbors = g.grid.Neighbors(row, col)
		flags     int
		hidden    []Point
	)
	for _, q := range neighbors {
		switch g.grid.cell(q).Visibility {
		case Flagged:
			flags++
		case Hidden:
			hidden = append(hidden, q)
		}
	}
	if flags != c.Adjacent {
		return false
	}

	changed := false
	for _, q := range hidden {
		if g.open(q) {
			changed = true
		}
		if g.Over() {
			break
		}
	}
	return changed
}

// Forfeit ends a game in progress as a loss and shows the mines. Nothing
// happens before the first reveal or after the game is over.
func (g *Game) Forfeit() bool {
	if g.status != Playing || g.pending {
		return false
	}
	g.explode()
	return true
}
