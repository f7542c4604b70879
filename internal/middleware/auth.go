package middleware

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper/internal/config"
)

type CtxKey int

const (
	CtxGameClaims CtxKey = iota
)

// RequireGame lets a request through only if it carries a token issued
// for the game named by the {id} path segment.
func RequireGame(log *logrus.Logger, cookies *config.Cookies) func(http.HandlerFunc) http.HandlerFunc {
	return func(h http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			claims, err := cookies.ParseGameClaims(r)
			if err != nil {
				log.WithError(err).Debug("rejected game token")
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			if claims.GameId != r.PathValue("id") {
				log.WithFields(logrus.Fields{
					"token_game": claims.GameId,
					"path_game":  r.PathValue("id"),
				}).Debug("game token issued for another game")
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), CtxGameClaims, claims)
			h(w, r.WithContext(ctx))
		}
	}
}
