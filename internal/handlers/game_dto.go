package handlers

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/gorilla/schema"

	"github.com/vancomm/minesweeper/internal/mines"
	"github.com/vancomm/minesweeper/internal/repository"
)

var (
	ErrMissingConfig = errors.New("either preset or rows, cols and mines are required")
	ErrUnknownPreset = errors.New("unknown preset")
	ErrBoardTooLarge = errors.New("board too large")
)

var decoder = newDecoder()

func newDecoder() *schema.Decoder {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	return dec
}

type ConfigDTO struct {
	Preset string `schema:"preset"`
	mines.Config
}

func hasConfig(src url.Values) bool {
	for _, key := range []string{"preset", "rows", "cols", "mines"} {
		if src.Has(key) {
			return true
		}
	}
	return false
}

// ParseConfig reads a board either as a named preset or as explicit
// dimensions. Whether the board is playable is left to the engine.
func ParseConfig(src url.Values) (mines.Config, error) {
	var dto ConfigDTO
	if err := decoder.Decode(&dto, src); err != nil {
		return mines.Config{}, err
	}
	if dto.Preset != "" {
		cfg, ok := mines.PresetByName(dto.Preset)
		if !ok {
			return mines.Config{}, fmt.Errorf("%w %q", ErrUnknownPreset, dto.Preset)
		}
		return cfg, nil
	}
	if !src.Has("rows") || !src.Has("cols") || !src.Has("mines") {
		return mines.Config{}, ErrMissingConfig
	}
	return dto.Config, nil
}

func ParsePosition(src url.Values) (mines.Point, error) {
	var p mines.Point
	err := decoder.Decode(&p, src)
	return p, err
}

type CellDTO struct {
	State    mines.Visibility `json:"state"`
	Mine     bool             `json:"mine,omitempty"`
	Adjacent *int             `json:"adjacent,omitempty"`
}

// NewCellDTO hides everything the player has not uncovered yet.
func NewCellDTO(c mines.Cell) CellDTO {
	dto := CellDTO{State: c.Visibility}
	if c.Visibility != mines.Revealed {
		return dto
	}
	if c.Mine {
		dto.Mine = true
	} else {
		adjacent := c.Adjacent
		dto.Adjacent = &adjacent
	}
	return dto
}

type GameSessionDTO struct {
	GameId    string       `json:"game_id"`
	Token     string       `json:"token,omitempty"`
	Rows      int          `json:"rows"`
	Cols      int          `json:"cols"`
	Mines     int          `json:"mines"`
	MinesLeft int          `json:"mines_left"`
	Flagged   int          `json:"flagged"`
	Status    mines.Status `json:"status"`
	Pending   bool         `json:"pending"`
	StartedAt int64        `json:"started_at"`
	EndedAt   *int64       `json:"ended_at,omitempty"`
	Cells     []CellDTO    `json:"cells"`
}

func NewGameSessionDTO(v repository.View) *GameSessionDTO {
	var endedAt *int64
	if !v.EndedAt.IsZero() {
		e := v.EndedAt.UnixMilli()
		endedAt = &e
	}

	grid := v.Grid.Cells()
	cells := make([]CellDTO, len(grid))
	for i, c := range grid {
		cells[i] = NewCellDTO(c)
	}

	return &GameSessionDTO{
		GameId:    v.GameSessionId.String(),
		Rows:      v.Config.Rows,
		Cols:      v.Config.Cols,
		Mines:     v.Config.Mines,
		MinesLeft: v.MinesLeft,
		Flagged:   v.Flagged,
		Status:    v.Status,
		Pending:   v.Pending,
		StartedAt: v.StartedAt.UnixMilli(),
		EndedAt:   endedAt,
		Cells:     cells,
	}
}
