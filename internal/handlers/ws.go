package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/vancomm/minesweeper/internal/mines"
	"github.com/vancomm/minesweeper/internal/repository"
)

type wsCommand string

const (
	wsNoop    wsCommand = "g"
	wsOpen    wsCommand = "o"
	wsFlag    wsCommand = "f"
	wsChord   wsCommand = "c"
	wsForfeit wsCommand = "r"
	wsReset   wsCommand = "n"
)

var ErrUnknownCommand = errors.New("unknown command")

type command struct {
	kind wsCommand
	pos  mines.Point
}

func parseCommand(line string) (command, error) {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return command{kind: wsNoop}, nil
	}
	cmd := command{kind: wsCommand(tokens[0])}
	args := tokens[1:]
	switch cmd.kind {
	case wsNoop, wsForfeit, wsReset:
		if len(args) != 0 {
			return cmd, fmt.Errorf("%q takes no arguments", cmd.kind)
		}
	case wsOpen, wsFlag, wsChord:
		pos, err := parsePoint(args)
		if err != nil {
			return cmd, err
		}
		cmd.pos = pos
	default:
		return cmd, fmt.Errorf("%w %q", ErrUnknownCommand, tokens[0])
	}
	return cmd, nil
}

func (c command) apply(g *mines.Game) bool {
	switch c.kind {
	case wsOpen:
		return Reveal(g, c.pos)
	case wsFlag:
		return Flag(g, c.pos)
	case wsChord:
		return Chord(g, c.pos)
	case wsForfeit:
		return g.Forfeit()
	case wsReset:
		return g.Reset(g.Config()) == nil
	}
	return false
}

func parsePoint(args []string) (p mines.Point, err error) {
	if len(args) != 2 {
		err = fmt.Errorf("expected row and col, got %d arguments", len(args))
		return
	}
	if p.Row, err = strconv.Atoi(args[0]); err != nil {
		err = fmt.Errorf("row must be an int")
		return
	}
	if p.Col, err = strconv.Atoi(args[1]); err != nil {
		err = fmt.Errorf("col must be an int")
		return
	}
	return
}

// runGameLoop executes one text frame at a time, a command per line, and
// answers every frame with the game as it stands afterwards. The loop ends
// once the session has been swept.
func (g GameHandler) runGameLoop(conn *websocket.Conn, session *repository.GameSession) error {
	for {
		mt, buf, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		if mt != websocket.TextMessage {
			return nil
		}
		if _, err := g.repo.FetchGameSession(session.GameSessionId); err != nil {
			return err
		}

		var commands []command
		for _, line := range strings.Split(strings.TrimSpace(string(buf)), "\n") {
			cmd, err := parseCommand(line)
			if err != nil {
				return err
			}
			commands = append(commands, cmd)
		}

		view, changed := session.Move(func(game *mines.Game) (changed bool) {
			for _, cmd := range commands {
				if cmd.apply(game) {
					changed = true
				}
			}
			return
		})
		g.logMove(view, "ws", nil, changed)

		if err := conn.WriteJSON(NewGameSessionDTO(view)); err != nil {
			return fmt.Errorf("unable to write json: %w", err)
		}
	}
}

func (g GameHandler) ConnectWS(w http.ResponseWriter, r *http.Request) {
	session, ok := g.session(w, r)
	if !ok {
		return
	}

	conn, err := g.ws.Upgrader.Upgrade(w, r, nil) // headers sent here
	if err != nil {
		g.log.WithError(err).Error("unable to upgrade")
		return
	}
	defer conn.Close()

	log := g.log.WithField("game_id", session.GameSessionId)
	log.Debug("established WS connection")

	err = g.runGameLoop(conn, session)
	switch {
	case err == nil:
		log.Debug("ws loop ended")
	case websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway):
		log.Debug("ws closed by client")
	case errors.As(err, new(*websocket.CloseError)):
		log.WithError(err).Warn("ws closed abnormally")
	case errors.Is(err, repository.ErrNotFound):
		log.Debug("game session gone, closing ws")
		msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, err.Error())
		conn.WriteMessage(websocket.CloseMessage, msg)
	default:
		log.WithError(err).Warn("error in ws loop")
		msg := websocket.FormatCloseMessage(websocket.CloseUnsupportedData, err.Error())
		conn.WriteMessage(websocket.CloseMessage, msg)
	}
}
