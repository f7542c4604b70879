package repository

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper/internal/mines"
)

var ErrNotFound = errors.New("game session not found")

// GameSession is one live game. Moves on the same session are applied one
// at a time.
type GameSession struct {
	GameSessionId uuid.UUID

	mu        sync.Mutex
	game      *mines.Game
	startedAt time.Time
	endedAt   time.Time
	touchedAt time.Time
}

// View is a consistent copy of a session taken under its lock.
type View struct {
	GameSessionId uuid.UUID
	Config        mines.Config
	Grid          mines.Grid
	Status        mines.Status
	Pending       bool
	Flagged       int
	MinesLeft     int
	StartedAt     time.Time
	EndedAt       time.Time
}

// Move applies fn to the session's game and returns what the game looks
// like afterwards, along with fn's result. EndedAt is stamped when the game
// finishes and cleared again when a reset brings it back to life.
func (s *GameSession) Move(fn func(g *mines.Game) bool) (View, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := fn(s.game)
	now := time.Now().UTC()
	s.touchedAt = now
	switch {
	case s.game.Over() && s.endedAt.IsZero():
		s.endedAt = now
	case !s.game.Over():
		s.endedAt = time.Time{}
	}
	return s.view(), changed
}

func (s *GameSession) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view()
}

func (s *GameSession) view() View {
	return View{
		GameSessionId: s.GameSessionId,
		Config:        s.game.Config(),
		Grid:          s.game.Grid(),
		Status:        s.game.Status(),
		Pending:       s.game.Pending(),
		Flagged:       s.game.FlaggedCount(),
		MinesLeft:     s.game.MinesLeft(),
		StartedAt:     s.startedAt,
		EndedAt:       s.endedAt,
	}
}

func (s *GameSession) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touchedAt
}

// Queries keeps every game session in memory.
type Queries struct {
	log      *logrus.Logger
	mu       sync.RWMutex
	sessions map[uuid.UUID]*GameSession
}

func New(log *logrus.Logger) *Queries {
	return &Queries{
		log:      log,
		sessions: make(map[uuid.UUID]*GameSession),
	}
}

// CreateGameSession starts a game in its empty phase. Every session gets
// its own generator since *rand.Rand must not be shared between goroutines.
func (q *Queries) CreateGameSession(cfg mines.Config) (*GameSession, error) {
	game, err := mines.NewGame(cfg, mines.NewRand())
	if err != nil {
		return nil, err
	}
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	session := &GameSession{
		GameSessionId: id,
		game:          game,
		startedAt:     now,
		touchedAt:     now,
	}

	q.mu.Lock()
	q.sessions[id] = session
	q.mu.Unlock()

	q.log.WithFields(logrus.Fields{
		"game_id": id,
		"config":  cfg.String(),
	}).Debug("created game session")
	return session, nil
}

func (q *Queries) FetchGameSession(id uuid.UUID) (*GameSession, error) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	session, ok := q.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return session, nil
}

func (q *Queries) DeleteGameSession(id uuid.UUID) {
	q.mu.Lock()
	delete(q.sessions, id)
	q.mu.Unlock()
}

func (q *Queries) Len() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return len(q.sessions)
}

// Sweep drops sessions nobody has touched for longer than ttl and returns
// how many went away.
func (q *Queries) Sweep(now time.Time, ttl time.Duration) int {
	q.mu.Lock()
	defer q.mu.Unlock()

	removed := 0
	for id, session := range q.sessions {
		if now.Sub(session.idleSince()) > ttl {
			delete(q.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		q.log.WithFields(logrus.Fields{
			"removed": removed,
			"left":    len(q.sessions),
		}).Info("swept idle game sessions")
	}
	return removed
}

// Run sweeps every interval until ctx is done.
func (q *Queries) Run(ctx context.Context, interval, ttl time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			q.Sweep(now.UTC(), ttl)
		}
	}
}
