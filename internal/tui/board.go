// Package tui plays a game in the terminal.
package tui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/vancomm/minesweeper/internal/mines"
)

var digitColors = [...]tcell.Color{
	1: tcell.ColorBlue,
	2: tcell.ColorGreen,
	3: tcell.ColorRed,
	4: tcell.ColorNavy,
	5: tcell.ColorMaroon,
	6: tcell.ColorTeal,
	7: tcell.ColorPurple,
	8: tcell.ColorGray,
}

// CellText is what a cell looks like on the board.
func CellText(c mines.Cell) (string, tcell.Color) {
	switch {
	case c.Visibility == mines.Flagged:
		return c.String(), tcell.ColorYellow
	case c.Visibility == mines.Hidden:
		return c.String(), tcell.ColorGray
	case c.Mine:
		return c.String(), tcell.ColorRed
	case c.Adjacent > 0 && c.Adjacent < len(digitColors):
		return c.String(), digitColors[c.Adjacent]
	}
	return c.String(), tcell.ColorDefault
}

// StatusLine never reports a negative mine count, even with more flags than
// mines on the board.
func StatusLine(g *mines.Game) string {
	left := max(g.MinesLeft(), 0)
	switch g.Status() {
	case mines.Won:
		return fmt.Sprintf("mines: %d | you won! r to play again, q to quit", left)
	case mines.Lost:
		return fmt.Sprintf("mines: %d | boom. r to play again, q to quit", left)
	}
	return fmt.Sprintf("mines: %d | enter open, f flag, c chord, r restart, q quit", left)
}

type Board struct {
	game   *mines.Game
	table  *tview.Table
	status *tview.TextView
	quit   func()
}

func NewBoard(game *mines.Game) *Board {
	b := &Board{
		game:   game,
		table:  tview.NewTable(),
		status: tview.NewTextView(),
		quit:   func() {},
	}
	b.table.SetSelectable(true, true)
	b.table.SetInputCapture(b.HandleKey)
	b.Draw()
	return b
}

func (b *Board) Draw() {
	grid := b.game.Grid()
	for row := 0; row < grid.Rows(); row++ {
		for col := 0; col < grid.Cols(); col++ {
			text, color := CellText(grid.At(row, col))
			b.table.SetCell(row, col, tview.NewTableCell(text).
				SetAlign(tview.AlignCenter).
				SetTextColor(color))
		}
	}
	b.status.SetText(StatusLine(b.game))
}

// HandleKey applies the move bound to a key at the selected cell. Keys it
// does not know, arrows included, go on to the table.
func (b *Board) HandleKey(event *tcell.EventKey) *tcell.EventKey {
	row, col := b.table.GetSelection()

	switch event.Key() {
	case tcell.KeyEnter:
		b.game.Reveal(row, col)
	case tcell.KeyEscape:
		b.quit()
		return nil
	case tcell.KeyRune:
		switch event.Rune() {
		case ' ':
			b.game.Reveal(row, col)
		case 'f', 'F':
			b.game.ToggleFlag(row, col)
		case 'c', 'C':
			b.game.Chord(row, col)
		case 'r', 'R':
			b.game.Reset(b.game.Config())
		case 'q', 'Q':
			b.quit()
			return nil
		default:
			return event
		}
	default:
		return event
	}

	b.Draw()
	return nil
}

// Run blocks until the player quits.
func (b *Board) Run() error {
	app := tview.NewApplication()
	b.quit = app.Stop

	layout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(b.table, 0, 1, true).
		AddItem(b.status, 1, 0, false)

	return app.SetRoot(layout, true).Run()
}
