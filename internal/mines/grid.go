package mines

import (
	"fmt"
	"strconv"
	"strings"
)

type Visibility int8

const (
	Hidden Visibility = iota
	Revealed
	Flagged
)

func (v Visibility) String() string {
	switch v {
	case Hidden:
		return "hidden"
	case Revealed:
		return "revealed"
	case Flagged:
		return "flagged"
	default:
		return "Visibility(" + strconv.Itoa(int(v)) + ")"
	}
}

func (v Visibility) MarshalText() ([]byte, error) {
	switch v {
	case Hidden, Revealed, Flagged:
		return []byte(v.String()), nil
	}
	return nil, fmt.Errorf("unknown visibility %d", v)
}

func (v *Visibility) UnmarshalText(b []byte) error {
	switch string(b) {
	case "hidden":
		*v = Hidden
	case "revealed":
		*v = Revealed
	case "flagged":
		*v = Flagged
	default:
		return fmt.Errorf("unknown visibility %q", b)
	}
	return nil
}

type Cell struct {
	Mine       bool
	Visibility Visibility
	Adjacent   int // mined neighbours, meaningless for a mine
}

// String renders the cell the way a player sees it.
func (c Cell) String() string {
	switch c.Visibility {
	case Flagged:
		return "F"
	case Hidden:
		return "."
	}
	if c.Mine {
		return "*"
	}
	if c.Adjacent == 0 {
		return " "
	}
	return strconv.Itoa(c.Adjacent)
}

type Point struct {
	Row int `json:"row" schema:"row,required"`
	Col int `json:"col" schema:"col,required"`
}

func (p Point) String() string {
	return fmt.Sprintf("%d:%d", p.Row, p.Col)
}

// Grid is a rows x cols board stored row-major. The zero value is an empty
// 0x0 grid.
type Grid struct {
	rows, cols int
	cells      []Cell
}

func newGrid(rows, cols int) Grid {
	return Grid{rows: rows, cols: cols, cells: make([]Cell, rows*cols)}
}

func (g Grid) Rows() int { return g.rows }
func (g Grid) Cols() int { return g.cols }

func (g Grid) InBounds(row, col int) bool {
	return 0 <= row && row < g.rows && 0 <= col && col < g.cols
}

func (g Grid) index(row, col int) int {
	return row*g.cols + col
}

func (g Grid) point(i int) Point {
	return Point{Row: i / g.cols, Col: i % g.cols}
}

// At returns a copy of the cell at row, col. It panics on out of bounds
// coordinates, like indexing a slice.
func (g Grid) At(row, col int) Cell {
	if !g.InBounds(row, col) {
		panic(fmt.Sprintf("mines: cell %d:%d outside %dx%d grid", row, col, g.rows, g.cols))
	}
	return g.cells[g.index(row, col)]
}

func (g Grid) cell(p Point) *Cell {
	return &g.cells[g.index(p.Row, p.Col)]
}

// Neighbors returns the up to eight cells around row, col. The board does
// not wrap.
func (g Grid) Neighbors(row, col int) []Point {
	var (
		fromRow, toRow = max(0, row-1), min(row+1, g.rows-1)
		fromCol, toCol = max(0, col-1), min(col+1, g.cols-1)
		points         = make([]Point, 0, 8)
	)
	for r := fromRow; r <= toRow; r++ {
		for c := fromCol; c <= toCol; c++ {
			if r != row || c != col {
				points = append(points, Point{r, c})
			}
		}
	}
	return points
}

func (g Grid) Clone() Grid {
	cells := make([]Cell, len(g.cells))
	copy(cells, g.cells)
	return Grid{rows: g.rows, cols: g.cols, cells: cells}
}

// Cells returns a row-major copy of every cell.
func (g Grid) Cells() []Cell {
	return g.Clone().cells
}

func (g Grid) MineCount() (n int) {
	for _, c := range g.cells {
		if c.Mine {
			n++
		}
	}
	return
}

func (g Grid) count(v Visibility) (n int) {
	for _, c := range g.cells {
		if c.Visibility == v {
			n++
		}
	}
	return
}

func (g Grid) String() string {
	var b strings.Builder
	for row := range g.rows {
		for col := range g.cols {
			if col > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(g.cells[g.index(row, col)].String())
		}
		b.WriteByte('\n')
	}
	return b.String()
}
