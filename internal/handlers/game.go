package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper/internal/config"
	"github.com/vancomm/minesweeper/internal/mines"
	"github.com/vancomm/minesweeper/internal/repository"
)

type GameHandler struct {
	log      *logrus.Logger
	repo     *repository.Queries
	jwt      *config.JWT
	cookies  *config.Cookies
	ws       *config.WebSocket
	maxCells int
}

func NewGameHandler(
	log *logrus.Logger,
	repo *repository.Queries,
	jwt *config.JWT,
	cookies *config.Cookies,
	ws *config.WebSocket,
	maxCells int,
) *GameHandler {
	return &GameHandler{
		log:      log,
		repo:     repo,
		jwt:      jwt,
		cookies:  cookies,
		ws:       ws,
		maxCells: maxCells,
	}
}

// checkConfig rejects boards the engine would refuse and boards larger
// than the server is willing to hold in memory.
func (g GameHandler) checkConfig(cfg mines.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Cells() > g.maxCells {
		return fmt.Errorf("%w: %d cells, at most %d allowed", ErrBoardTooLarge, cfg.Cells(), g.maxCells)
	}
	return nil
}

func (g GameHandler) Presets(w http.ResponseWriter, r *http.Request) {
	sendJSONOrLog(w, g.log, mines.Presets)
}

func (g GameHandler) NewGame(w http.ResponseWriter, r *http.Request) {
	cfg, err := ParseConfig(r.URL.Query())
	if err == nil {
		err = g.checkConfig(cfg)
	}
	if err != nil {
		SendErrorOrLog(w, g.log, http.StatusBadRequest, err)
		return
	}

	session, err := g.repo.CreateGameSession(cfg)
	if errors.Is(err, mines.ErrInvalidConfig) {
		SendErrorOrLog(w, g.log, http.StatusBadRequest, err)
		return
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.log.WithError(err).Error("unable to create game session")
		return
	}

	token, err := g.jwt.Sign(config.NewGameClaims(session.GameSessionId.String()))
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.log.WithError(err).Error("unable to sign game token")
		return
	}
	g.cookies.Refresh(w, token)

	dto := NewGameSessionDTO(session.View())
	dto.Token = token
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	sendJSONOrLog(w, g.log, dto)
}

func (g GameHandler) session(w http.ResponseWriter, r *http.Request) (*repository.GameSession, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		SendErrorOrLog(w, g.log, http.StatusBadRequest, err)
		return nil, false
	}
	session, err := g.repo.FetchGameSession(id)
	if err != nil {
		// the game was swept, its token is of no further use
		g.cookies.Clear(w)
		w.WriteHeader(http.StatusNotFound)
		return nil, false
	}
	return session, true
}

func (g GameHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	session, ok := g.session(w, r)
	if !ok {
		return
	}
	sendJSONOrLog(w, g.log, NewGameSessionDTO(session.View()))
}

// Move returns a handler that applies move at the row and col given in the
// query. Coordinates outside the board reach the engine, which ignores them.
func (g GameHandler) Move(name string, move func(*mines.Game, mines.Point) bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pos, err := ParsePosition(r.URL.Query())
		if err != nil {
			SendErrorOrLog(w, g.log, http.StatusBadRequest, err)
			return
		}
		session, ok := g.session(w, r)
		if !ok {
			return
		}

		view, changed := session.Move(func(game *mines.Game) bool {
			return move(game, pos)
		})
		g.logMove(view, name, &pos, changed)
		sendJSONOrLog(w, g.log, NewGameSessionDTO(view))
	}
}

func Reveal(game *mines.Game, p mines.Point) bool { return game.Reveal(p.Row, p.Col) }
func Flag(game *mines.Game, p mines.Point) bool   { return game.ToggleFlag(p.Row, p.Col) }
func Chord(game *mines.Game, p mines.Point) bool  { return game.Chord(p.Row, p.Col) }

func (g GameHandler) Forfeit(w http.ResponseWriter, r *http.Request) {
	session, ok := g.session(w, r)
	if !ok {
		return
	}
	view, changed := session.Move((*mines.Game).Forfeit)
	g.logMove(view, "forfeit", nil, changed)
	sendJSONOrLog(w, g.log, NewGameSessionDTO(view))
}

// Reset starts the game over, on a new board if the query names one.
func (g GameHandler) Reset(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	var (
		cfg    mines.Config
		keep   = !hasConfig(query)
		err    error
		resErr error
	)
	if !keep {
		cfg, err = ParseConfig(query)
		if err == nil {
			err = g.checkConfig(cfg)
		}
		if err != nil {
			SendErrorOrLog(w, g.log, http.StatusBadRequest, err)
			return
		}
	}

	session, ok := g.session(w, r)
	if !ok {
		return
	}

	view, _ := session.Move(func(game *mines.Game) bool {
		if keep {
			cfg = game.Config()
		}
		resErr = game.Reset(cfg)
		return resErr == nil
	})
	if resErr != nil {
		SendErrorOrLog(w, g.log, http.StatusBadRequest, resErr)
		return
	}
	g.logMove(view, "reset", nil, true)
	sendJSONOrLog(w, g.log, NewGameSessionDTO(view))
}

func (g GameHandler) logMove(view repository.View, move string, pos *mines.Point, changed bool) {
	fields := logrus.Fields{
		"game_id": view.GameSessionId,
		"move":    move,
		"changed": changed,
		"status":  view.Status,
	}
	if pos != nil {
		fields["row"], fields["col"] = pos.Row, pos.Col
	}
	entry := g.log.WithFields(fields)
	if changed && view.Status != mines.Playing {
		entry.Info("game over")
		return
	}
	entry.Debug("move")
}
