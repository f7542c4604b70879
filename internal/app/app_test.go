package app

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper/internal/config"
	"github.com/vancomm/minesweeper/internal/handlers"
	"github.com/vancomm/minesweeper/internal/mines"
)

type client struct {
	t   *testing.T
	app *App
	srv *httptest.Server
	jwt *config.JWT
}

func setupTestServer(t *testing.T) *client {
	log := logrus.New()
	log.SetOutput(io.Discard)
	jwt := config.NewJWTWithSecret([]byte("test secret"), time.Hour)
	a := New(log, jwt)
	srv := httptest.NewServer(a.Handler())
	t.Cleanup(srv.Close)
	return &client{t: t, app: a, srv: srv, jwt: jwt}
}

func (c *client) do(method, path, token string) (int, []byte) {
	c.t.Helper()
	req, err := http.NewRequest(method, c.srv.URL+path, nil)
	require.NoError(c.t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := c.srv.Client().Do(req)
	require.NoError(c.t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(c.t, err)
	return res.StatusCode, body
}

func (c *client) game(method, path, token string) *handlers.GameSessionDTO {
	c.t.Helper()
	status, body := c.do(method, path, token)
	require.Less(c.t, status, 300, string(body))
	var dto handlers.GameSessionDTO
	require.NoError(c.t, json.Unmarshal(body, &dto))
	return &dto
}

func TestNewGame(t *testing.T) {
	c := setupTestServer(t)

	dto := c.game(http.MethodPost, "/game?rows=3&cols=4&mines=2", "")
	assert.NotEmpty(t, dto.Token)
	assert.Equal(t, 3, dto.Rows)
	assert.Equal(t, 4, dto.Cols)
	assert.Equal(t, 2, dto.MinesLeft)
	assert.Equal(t, mines.Playing, dto.Status)
	assert.True(t, dto.Pending)
	assert.Nil(t, dto.EndedAt)
	require.Len(t, dto.Cells, 12)
	for _, cell := range dto.Cells {
		assert.Equal(t, handlers.CellDTO{State: mines.Hidden}, cell)
	}

	dto = c.game(http.MethodPost, "/game?preset=expert", "")
	assert.Equal(t, 16, dto.Rows)
	assert.Equal(t, 30, dto.Cols)
	assert.Equal(t, 99, dto.Mines)
}

func TestNewGameRejectsBadConfig(t *testing.T) {
	c := setupTestServer(t)
	for _, query := range []string{
		"rows=3&cols=3&mines=9",
		"rows=0&cols=3&mines=0",
		"rows=3&cols=3",
		"rows=x&cols=3&mines=1",
		"preset=nightmare",
		"rows=4611686018427387905&cols=4&mines=0",
		"rows=100000&cols=100000&mines=0",
		"rows=101&cols=100&mines=1",
		"",
	} {
		status, body := c.do(http.MethodPost, "/game?"+query, "")
		assert.Equal(t, http.StatusBadRequest, status, query)
		assert.Contains(t, string(body), `"error"`, query)
	}
}

func TestBoardSizeLimit(t *testing.T) {
	c := setupTestServer(t)
	c.app.maxCells = 100
	c.app.router = http.NewServeMux()
	c.app.loadRoutes()
	srv := httptest.NewServer(c.app.Handler())
	t.Cleanup(srv.Close)
	c.srv = srv

	status, body := c.do(http.MethodPost, "/game?rows=10&cols=11&mines=1", "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(body), "board too large")

	created := c.game(http.MethodPost, "/game?rows=10&cols=10&mines=1", "")
	status, body = c.do(http.MethodPost, "/game/"+created.GameId+"/reset?preset=expert", created.Token)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(body), "board too large")

	dto := c.game(http.MethodGet, "/game/"+created.GameId, created.Token)
	assert.Equal(t, 10, dto.Rows)
}

func TestPlayThroughHTTP(t *testing.T) {
	c := setupTestServer(t)
	created := c.game(http.MethodPost, "/game?rows=5&cols=5&mines=3", "")
	base := "/game/" + created.GameId

	status, _ := c.do(http.MethodPost, base+"/reveal?row=2&col=2", "")
	assert.Equal(t, http.StatusUnauthorized, status)

	other := c.game(http.MethodPost, "/game?rows=2&cols=2&mines=1", "")
	status, _ = c.do(http.MethodPost, base+"/reveal?row=2&col=2", other.Token)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = c.do(http.MethodPost, base+"/reveal?row=two&col=2", created.Token)
	assert.Equal(t, http.StatusBadRequest, status)

	dto := c.game(http.MethodPost, base+"/flag?row=0&col=0", created.Token)
	assert.Equal(t, 1, dto.Flagged)
	assert.Equal(t, 2, dto.MinesLeft)
	assert.Equal(t, mines.Flagged, dto.Cells[0].State)

	dto = c.game(http.MethodPost, base+"/reveal?row=2&col=2", created.Token)
	assert.False(t, dto.Pending)
	assert.NotEqual(t, mines.Lost, dto.Status)
	centre := dto.Cells[2*5+2]
	assert.Equal(t, mines.Revealed, centre.State)
	assert.False(t, centre.Mine)
	require.NotNil(t, centre.Adjacent)

	for _, cell := range dto.Cells {
		if cell.State != mines.Revealed {
			assert.False(t, cell.Mine)
			assert.Nil(t, cell.Adjacent)
		}
	}

	before := dto.Cells
	dto = c.game(http.MethodPost, base+"/reveal?row=9&col=9", created.Token)
	assert.Equal(t, before, dto.Cells)

	dto = c.game(http.MethodGet, base, created.Token)
	assert.Equal(t, before, dto.Cells)
	assert.Empty(t, dto.Token)

	if dto.Status == mines.Playing {
		dto = c.game(http.MethodPost, base+"/forfeit", created.Token)
		assert.Equal(t, mines.Lost, dto.Status)
		assert.NotNil(t, dto.EndedAt)
		mined := 0
		for _, cell := range dto.Cells {
			if cell.Mine {
				mined++
				assert.Equal(t, mines.Revealed, cell.State)
			}
		}
		assert.Equal(t, 3, mined)
	}

	dto = c.game(http.MethodPost, base+"/reset?preset=beginner", created.Token)
	assert.Equal(t, mines.Playing, dto.Status)
	assert.True(t, dto.Pending)
	assert.Equal(t, 9, dto.Rows)
	assert.Nil(t, dto.EndedAt)

	status, _ = c.do(http.MethodPost, base+"/reset?rows=2&cols=2&mines=4", created.Token)
	assert.Equal(t, http.StatusBadRequest, status)
	dto = c.game(http.MethodPost, base+"/reset", created.Token)
	assert.Equal(t, 9, dto.Rows)
}

func TestUnknownGame(t *testing.T) {
	c := setupTestServer(t)
	id := uuid.NewString()
	token, err := c.jwt.Sign(config.NewGameClaims(id))
	require.NoError(t, err)

	status, _ := c.do(http.MethodGet, "/game/"+id, token)
	assert.Equal(t, http.StatusNotFound, status)

	token, err = c.jwt.Sign(config.NewGameClaims("not-a-uuid"))
	require.NoError(t, err)
	status, _ = c.do(http.MethodGet, "/game/not-a-uuid", token)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestPresets(t *testing.T) {
	c := setupTestServer(t)
	status, body := c.do(http.MethodGet, "/presets", "")
	require.Equal(t, http.StatusOK, status)

	var presets []mines.Preset
	require.NoError(t, json.Unmarshal(body, &presets))
	assert.Equal(t, mines.Presets, presets)
}

func TestPlayThroughWebSocket(t *testing.T) {
	c := setupTestServer(t)
	created := c.game(http.MethodPost, "/game?rows=4&cols=4&mines=2", "")

	url := "ws" + strings.TrimPrefix(c.srv.URL, "http") + "/game/" + created.GameId + "/connect"
	_, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err, "dial without token")

	header := http.Header{"Authorization": {"Bearer " + created.Token}}
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("f 0 0\nf 0 0\nf 3 3")))
	var dto handlers.GameSessionDTO
	require.NoError(t, conn.ReadJSON(&dto))
	assert.Equal(t, 1, dto.Flagged)
	assert.Equal(t, mines.Flagged, dto.Cells[15].State)
	assert.Equal(t, mines.Hidden, dto.Cells[0].State)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("o 1 1")))
	require.NoError(t, conn.ReadJSON(&dto))
	assert.False(t, dto.Pending)
	assert.Equal(t, mines.Revealed, dto.Cells[5].State)
	assert.Zero(t, dto.Flagged, "first reveal starts from a fresh board")

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("n")))
	require.NoError(t, conn.ReadJSON(&dto))
	assert.True(t, dto.Pending)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("z 1 1")))
	_, _, err = conn.ReadMessage()
	var closeErr *websocket.CloseError
	require.ErrorAs(t, err, &closeErr)
	assert.Equal(t, websocket.CloseUnsupportedData, closeErr.Code)
}

func TestWebSocketEndsWhenSessionIsSwept(t *testing.T) {
	c := setupTestServer(t)
	created := c.game(http.MethodPost, "/game?rows=4&cols=4&mines=2", "")

	url := "ws" + strings.TrimPrefix(c.srv.URL, "http") + "/game/" + created.GameId + "/connect"
	header := http.Header{"Authorization": {"Bearer " + created.Token}}
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("g")))
	var dto handlers.GameSessionDTO
	require.NoError(t, conn.ReadJSON(&dto))

	id, err := uuid.Parse(created.GameId)
	require.NoError(t, err)
	c.app.repo.DeleteGameSession(id)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("o 0 0")))
	_, _, err = conn.ReadMessage()
	var closeErr *websocket.CloseError
	require.ErrorAs(t, err, &closeErr)
	assert.Equal(t, websocket.CloseGoingAway, closeErr.Code)
}
