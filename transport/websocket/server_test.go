package websocket

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/minesweeper-backend/internal/apperror"
	"github.com/rocketscienceinc/minesweeper-backend/internal/entity"
	"github.com/rocketscienceinc/minesweeper-backend/internal/minesweeper"
)

type mockGameUseCase struct {
	mock.Mock
}

func (that *mockGameUseCase) GetOrCreatePlayer(ctx context.Context, id string) (*entity.Player, error) {
	args := that.Called(ctx, id)
	player, _ := args.Get(0).(*entity.Player)
	return player, args.Error(1)
}

func (that *mockGameUseCase) NewGame(ctx context.Context, playerID string, settings entity.Settings) (*entity.Game, error) {
	args := that.Called(ctx, playerID, settings)
	game, _ := args.Get(0).(*entity.Game)
	return game, args.Error(1)
}

func (that *mockGameUseCase) GetGame(ctx context.Context, playerID string) (*entity.Game, error) {
	args := that.Called(ctx, playerID)
	game, _ := args.Get(0).(*entity.Game)
	return game, args.Error(1)
}

func (that *mockGameUseCase) Reveal(ctx context.Context, playerID string, x, y int) (*entity.Game, error) {
	args := that.Called(ctx, playerID, x, y)
	game, _ := args.Get(0).(*entity.Game)
	return game, args.Error(1)
}

func (that *mockGameUseCase) ToggleFlag(ctx context.Context, playerID string, x, y int) (*entity.Game, error) {
	args := that.Called(ctx, playerID, x, y)
	game, _ := args.Get(0).(*entity.Game)
	return game, args.Error(1)
}

func (that *mockGameUseCase) MoveCursor(ctx context.Context, playerID string, x, y int) (*entity.Game, error) {
	args := that.Called(ctx, playerID, x, y)
	game, _ := args.Get(0).(*entity.Game)
	return game, args.Error(1)
}

func (that *mockGameUseCase) Hint(ctx context.Context, playerID string) (*entity.Game, minesweeper.Move, error) {
	args := that.Called(ctx, playerID)
	game, _ := args.Get(0).(*entity.Game)
	move, _ := args.Get(1).(minesweeper.Move)
	return game, move, args.Error(2)
}

type testClient struct {
	t  *testing.T
	ws *websocket.Conn
}

func newTestClient(t *testing.T) (*testClient, *mockGameUseCase) {
	t.Helper()

	game := &mockGameUseCase{}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	server := New(logger, "0", game)

	httpServer := httptest.NewServer(server.Handler())

	url := "ws" + strings.TrimPrefix(httpServer.URL, "http") + "/ws"
	ws, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}

	t.Cleanup(func() {
		_ = ws.Close()
		require.NoError(t, server.Shutdown(context.Background()))
		httpServer.Close()
		game.AssertExpectations(t)
	})

	return &testClient{t: t, ws: ws}, game
}

func (that *testClient) send(action, payload string) {
	that.t.Helper()

	msg := `{"action":"` + action + `"`
	if payload != "" {
		msg += `,"payload":` + payload
	}
	msg += "}"

	require.NoError(that.t, that.ws.WriteMessage(websocket.TextMessage, []byte(msg)))
}

func (that *testClient) receive() (string, Payload) {
	that.t.Helper()

	require.NoError(that.t, that.ws.SetReadDeadline(time.Now().Add(5*time.Second)))

	_, data, err := that.ws.ReadMessage()
	require.NoError(that.t, err)

	var msg Message
	require.NoError(that.t, json.Unmarshal(data, &msg))

	var payload Payload
	require.NoError(that.t, json.Unmarshal(msg.Payload, &payload))

	return msg.Action, payload
}

func newTestGame(t *testing.T) *entity.Game {
	t.Helper()

	board, err := minesweeper.NewFromMines(3, 3, []minesweeper.Point{{X: 0, Y: 0}, {X: 2, Y: 2}})
	require.NoError(t, err)

	return entity.NewGame("g1", "p1", board)
}

func TestServer_Connect(t *testing.T) {
	t.Run("Creates a player for an anonymous client", func(t *testing.T) {
		// Given: a connected client
		client, game := newTestClient(t)
		game.On("GetOrCreatePlayer", mock.Anything, "").Return(&entity.Player{ID: "p1"}, nil).Once()

		// When: connect is sent without a player
		client.send(actionConnect, "")

		// Then: the new player is returned
		action, payload := client.receive()
		assert.Equal(t, actionConnect, action)
		require.NotNil(t, payload.Player)
		assert.Equal(t, "p1", payload.Player.ID)
		assert.Nil(t, payload.Game)
	})

	t.Run("Returns the active game of a known player", func(t *testing.T) {
		client, game := newTestClient(t)
		game.On("GetOrCreatePlayer", mock.Anything, "p1").Return(&entity.Player{ID: "p1", GameID: "g1"}, nil).Once()
		game.On("GetGame", mock.Anything, "p1").Return(newTestGame(t), nil).Once()

		client.send(actionConnect, `{"player":{"id":"p1"}}`)

		_, payload := client.receive()
		require.NotNil(t, payload.Game)
		assert.Equal(t, "g1", payload.Game.ID)
	})
}

func TestServer_GameFlow(t *testing.T) {
	t.Run("Commands use the player bound by connect", func(t *testing.T) {
		// Given: a connected player
		client, game := newTestClient(t)
		game.On("GetOrCreatePlayer", mock.Anything, "").Return(&entity.Player{ID: "p1"}, nil).Once()
		client.send(actionConnect, "")
		client.receive()

		game.On("NewGame", mock.Anything, "p1", entity.Settings{Width: 3, Height: 3, Mines: 2}).Return(newTestGame(t), nil).Once()

		revealed := newTestGame(t)
		require.NoError(t, revealed.Board.Reveal(1, 1))
		game.On("Reveal", mock.Anything, "p1", 1, 1).Return(revealed, nil).Once()

		// When: a game is started and a cell revealed
		client.send(actionGameNew, `{"settings":{"width":3,"height":3,"mines":2}}`)
		action, payload := client.receive()
		assert.Equal(t, actionGameNew, action)
		require.NotNil(t, payload.Game)

		client.send(actionGameReveal, `{"cell":{"x":1,"y":1}}`)
		action, payload = client.receive()

		// Then: the masked board shows the opened cell
		assert.Equal(t, actionGameReveal, action)
		require.NotNil(t, payload.Game)
		assert.Equal(t, entity.CellView{State: entity.CellOpened, Count: 2}, payload.Game.Cells[1][1])
		assert.Equal(t, entity.CellView{State: entity.CellHidden}, payload.Game.Cells[0][0])
	})

	t.Run("Finished game is sent with its final state", func(t *testing.T) {
		client, game := newTestClient(t)

		won := newTestGame(t)
		won.Board.Flagged[0][0] = true
		require.NoError(t, won.Board.ToggleFlag(2, 2))
		won.UpdateGameState()
		game.On("ToggleFlag", mock.Anything, "p1", 2, 2).Return(won, apperror.ErrGameFinished).Once()

		client.send(actionGameFlag, `{"player":{"id":"p1"},"cell":{"x":2,"y":2}}`)

		_, payload := client.receive()
		require.NotNil(t, payload.Game)
		assert.Equal(t, entity.StatusWon, payload.Game.Status)
		assert.Empty(t, payload.Error)
	})

	t.Run("Hint carries the move", func(t *testing.T) {
		client, game := newTestClient(t)
		move := minesweeper.Move{Point: minesweeper.Point{X: 0, Y: 0}, Type: minesweeper.MoveFlag}
		game.On("Hint", mock.Anything, "p1").Return(newTestGame(t), move, nil).Once()

		client.send(actionGameHint, `{"player":{"id":"p1"}}`)

		_, payload := client.receive()
		require.NotNil(t, payload.Move)
		assert.Equal(t, move, *payload.Move)
	})
}

func TestServer_Errors(t *testing.T) {
	t.Run("Commands need a player", func(t *testing.T) {
		client, _ := newTestClient(t)

		client.send(actionGameState, "")

		action, payload := client.receive()
		assert.Equal(t, actionGameState, action)
		assert.Equal(t, errPlayerRequired.Error(), payload.Error)
	})

	t.Run("Cell commands need a cell", func(t *testing.T) {
		client, _ := newTestClient(t)

		client.send(actionGameCursor, `{"player":{"id":"p1"}}`)

		_, payload := client.receive()
		assert.Contains(t, payload.Error, "cell is required")
	})

	t.Run("Oversized boards are rejected", func(t *testing.T) {
		client, game := newTestClient(t)

		client.send(actionGameNew, `{"player":{"id":"p1"},"settings":{"width":100000,"height":100000}}`)

		action, payload := client.receive()
		assert.Equal(t, actionGameNew, action)
		assert.Contains(t, payload.Error, minesweeper.ErrInvalidConfiguration.Error())
		game.AssertNotCalled(t, "NewGame", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Unknown action is reported", func(t *testing.T) {
		client, _ := newTestClient(t)

		client.send("game:turn", "")

		action, payload := client.receive()
		assert.Equal(t, "game:turn", action)
		assert.Equal(t, errUnknownAction.Error(), payload.Error)
	})

	t.Run("Invalid JSON is reported", func(t *testing.T) {
		client, _ := newTestClient(t)

		require.NoError(t, client.ws.WriteMessage(websocket.TextMessage, []byte("{not json")))

		action, payload := client.receive()
		assert.Equal(t, actionError, action)
		assert.NotEmpty(t, payload.Error)
	})

	t.Run("Engine errors reach the client", func(t *testing.T) {
		client, game := newTestClient(t)
		game.On("Reveal", mock.Anything, "p1", 5, 5).Return(nil, minesweeper.ErrOutOfBounds).Once()

		client.send(actionGameReveal, `{"player":{"id":"p1"},"cell":{"x":5,"y":5}}`)

		_, payload := client.receive()
		assert.Equal(t, minesweeper.ErrOutOfBounds.Error(), payload.Error)
	})

	t.Run("Internal errors are hidden", func(t *testing.T) {
		client, game := newTestClient(t)
		game.On("GetGame", mock.Anything, "p1").Return(nil, io.ErrUnexpectedEOF).Once()

		client.send(actionGameState, `{"player":{"id":"p1"}}`)

		_, payload := client.receive()
		assert.Equal(t, "internal server error", payload.Error)
	})
}
