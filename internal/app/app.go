package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/minesweeper/internal/config"
	"github.com/vancomm/minesweeper/internal/middleware"
	"github.com/vancomm/minesweeper/internal/repository"
)

type App struct {
	log      *logrus.Logger
	router   *http.ServeMux
	repo     *repository.Queries
	jwt      *config.JWT
	cookies  *config.Cookies
	ws       *config.WebSocket
	sessions config.Sessions
	basePath string
	maxCells int
}

func New(log *logrus.Logger, jwt *config.JWT) *App {
	a := &App{
		log:      log,
		router:   http.NewServeMux(),
		repo:     repository.New(log),
		jwt:      jwt,
		cookies:  config.NewCookies(jwt),
		ws:       config.NewWebSocket(),
		sessions: config.NewSessions(),
		basePath: config.BasePath(),
		maxCells: config.MaxCells(),
	}
	a.loadRoutes()
	return a
}

func (a *App) Handler() http.Handler {
	return middleware.Wrap(
		a.router,
		middleware.Logging(a.log),
		middleware.Cors(),
	)
}

// Start serves until ctx is done, then shuts down gracefully.
func (a *App) Start(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:    addr,
		Handler: a.Handler(),
		BaseContext: func(l net.Listener) context.Context {
			return ctx
		},
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.log.WithField("addr", addr).Info("server listening")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("unable to listen and serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		sCtx, cancel := context.WithTimeout(context.Background(), time.Second*15)
		defer cancel()
		return server.Shutdown(sCtx)
	})
	g.Go(func() error {
		return a.repo.Run(gCtx, a.sessions.SweepInterval, a.sessions.TTL)
	})

	return g.Wait()
}
