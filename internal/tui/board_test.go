package tui

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper/internal/mines"
)

// fixed always draws the same number, so the first mine goes to that index.
type fixed int

func (f fixed) IntN(n int) int { return int(f) % n }

func newBoard(t *testing.T, cfg mines.Config, draw int) *Board {
	t.Helper()
	game, err := mines.NewGame(cfg, fixed(draw))
	require.NoError(t, err)
	return NewBoard(game)
}

func key(k tcell.Key) *tcell.EventKey { return tcell.NewEventKey(k, 0, tcell.ModNone) }
func char(r rune) *tcell.EventKey     { return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone) }

func cellText(b *Board, row, col int) string {
	return b.table.GetCell(row, col).Text
}

func TestCellText(t *testing.T) {
	tests := []struct {
		cell  mines.Cell
		text  string
		color tcell.Color
	}{
		{mines.Cell{Visibility: mines.Hidden, Mine: true}, ".", tcell.ColorGray},
		{mines.Cell{Visibility: mines.Flagged}, "F", tcell.ColorYellow},
		{mines.Cell{Visibility: mines.Revealed, Mine: true}, "*", tcell.ColorRed},
		{mines.Cell{Visibility: mines.Revealed}, " ", tcell.ColorDefault},
		{mines.Cell{Visibility: mines.Revealed, Adjacent: 1}, "1", tcell.ColorBlue},
		{mines.Cell{Visibility: mines.Revealed, Adjacent: 8}, "8", tcell.ColorGray},
	}
	for _, tt := range tests {
		text, color := CellText(tt.cell)
		assert.Equal(t, tt.text, text)
		assert.Equal(t, tt.color, color, tt.text)
	}
}

func TestRevealToWin(t *testing.T) {
	b := newBoard(t, mines.Config{Rows: 3, Cols: 3, Mines: 1}, 8)
	assert.Equal(t, ".", cellText(b, 0, 0))

	b.table.Select(0, 0)
	assert.Nil(t, b.HandleKey(key(tcell.KeyEnter)))

	assert.Equal(t, mines.Won, b.game.Status())
	assert.Equal(t, " ", cellText(b, 0, 0))
	assert.Equal(t, "1", cellText(b, 1, 1))
	assert.Equal(t, ".", cellText(b, 2, 2))
	assert.Contains(t, b.status.GetText(false), "you won")
}

func TestFlagChordAndRestart(t *testing.T) {
	b := newBoard(t, mines.Config{Rows: 3, Cols: 3, Mines: 1}, 8)

	b.table.Select(0, 0)
	b.HandleKey(char(' '))
	require.Equal(t, mines.Won, b.game.Status())

	assert.Nil(t, b.HandleKey(char('r')))
	assert.Equal(t, mines.Playing, b.game.Status())
	assert.True(t, b.game.Pending())
	assert.Equal(t, ".", cellText(b, 0, 0))

	b.table.Select(2, 2)
	b.HandleKey(char('f'))
	assert.Equal(t, "F", cellText(b, 2, 2))
	b.HandleKey(char('f'))
	assert.Equal(t, ".", cellText(b, 2, 2))

	b.table.Select(1, 1)
	b.HandleKey(char('c'))
	assert.True(t, b.game.Pending(), "chord does nothing before the first reveal")
}

func TestStatusLineClampsMinesLeft(t *testing.T) {
	b := newBoard(t, mines.Config{Rows: 3, Cols: 3, Mines: 1}, 8)
	for _, col := range []int{0, 1, 2} {
		b.table.Select(0, col)
		b.HandleKey(char('f'))
	}
	require.Equal(t, -2, b.game.MinesLeft())
	assert.Contains(t, b.status.GetText(false), "mines: 0 ")
}

func TestHandleKeyPassesThrough(t *testing.T) {
	b := newBoard(t, mines.Config{Rows: 3, Cols: 3, Mines: 1}, 8)

	down := key(tcell.KeyDown)
	assert.Same(t, down, b.HandleKey(down))
	x := char('x')
	assert.Same(t, x, b.HandleKey(x))

	quit := false
	b.quit = func() { quit = true }
	assert.Nil(t, b.HandleKey(char('q')))
	assert.True(t, quit)
}
