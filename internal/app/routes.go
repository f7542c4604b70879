package app

import (
	"net/http"
	"strings"

	"github.com/vancomm/minesweeper/internal/handlers"
	"github.com/vancomm/minesweeper/internal/middleware"
)

func (a *App) loadRoutes() {
	game := handlers.NewGameHandler(a.log, a.repo, a.jwt, a.cookies, a.ws, a.maxCells)
	auth := middleware.RequireGame(a.log, a.cookies)
	route := func(pattern string, h http.HandlerFunc) {
		method, path, _ := strings.Cut(pattern, " ")
		a.router.HandleFunc(method+" "+a.basePath+path, h)
	}

	route("GET /presets", game.Presets)
	route("POST /game", game.NewGame)
	route("GET /game/{id}", auth(game.Fetch))
	route("POST /game/{id}/reveal", auth(game.Move("reveal", handlers.Reveal)))
	route("POST /game/{id}/flag", auth(game.Move("flag", handlers.Flag)))
	route("POST /game/{id}/chord", auth(game.Move("chord", handlers.Chord)))
	route("POST /game/{id}/forfeit", auth(game.Forfeit))
	route("POST /game/{id}/reset", auth(game.Reset))
	route("GET /game/{id}/connect", auth(game.ConnectWS))
}

