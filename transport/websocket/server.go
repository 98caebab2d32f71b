package websocket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/minesweeper-backend/internal/entity"
	"github.com/rocketscienceinc/minesweeper-backend/internal/minesweeper"
)

var (
	errBadRequest    = errors.New("bad request")
	errUnknownAction = errors.New("unknown action")
)

type gameUseCase interface {
	GetOrCreatePlayer(ctx context.Context, id string) (*entity.Player, error)

	NewGame(ctx context.Context, playerID string, settings entity.Settings) (*entity.Game, error)
	GetGame(ctx context.Context, playerID string) (*entity.Game, error)

	Reveal(ctx context.Context, playerID string, x, y int) (*entity.Game, error)
	ToggleFlag(ctx context.Context, playerID string, x, y int) (*entity.Game, error)
	MoveCursor(ctx context.Context, playerID string, x, y int) (*entity.Game, error)
	Hint(ctx context.Context, playerID string) (*entity.Game, minesweeper.Move, error)
}

type handlerFunc func(ctx context.Context, msg *Message, conn *connection) error

type Server struct {
	logger   *slog.Logger
	game     gameUseCase
	upgrader websocket.Upgrader
	server   *http.Server

	ctx    context.Context
	cancel context.CancelFunc

	handlers map[string]handlerFunc

	connectionsMutex sync.Mutex
	connections      map[*connection]struct{}
}

func New(logger *slog.Logger, port string, game gameUseCase) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	server := &Server{
		logger: logger.With("component", "websocket"),
		game:   game,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// browser clients are served from other origins
			CheckOrigin: func(*http.Request) bool { return true },
		},

		ctx:    ctx,
		cancel: cancel,

		handlers:    make(map[string]handlerFunc),
		connections: make(map[*connection]struct{}),
	}

	server.handlers[actionConnect] = server.handleConnect
	server.handlers[actionGameNew] = server.handleNewGame
	server.handlers[actionGameState] = server.handleGameState
	server.handlers[actionGameReveal] = server.handleCellCommand(game.Reveal)
	server.handlers[actionGameFlag] = server.handleCellCommand(game.ToggleFlag)
	server.handlers[actionGameCursor] = server.handleCellCommand(game.MoveCursor)
	server.handlers[actionGameHint] = server.handleHint

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", server.upgradeToWebSocket)

	server.server = &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return server
}

func (that *Server) Handler() http.Handler {
	return that.server.Handler
}

// Start - starts WebSocket server.
func (that *Server) Start() error {
	if err := that.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown - stops accepting connections and closes the open ones.
func (that *Server) Shutdown(ctx context.Context) error {
	that.connectionsMutex.Lock()
	open := len(that.connections)
	that.connectionsMutex.Unlock()

	that.logger.Info("closing WebSocket connections", "count", open)

	that.cancel()

	if err := that.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	return nil
}

// upgradeToWebSocket - upgrades the connection to WebSocket and serves it until it closes.
func (that *Server) upgradeToWebSocket(writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "upgradeToWebSocket")

	ws, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	conn := newConnection(that.logger, ws)

	that.connectionsMutex.Lock()
	that.connections[conn] = struct{}{}
	that.connectionsMutex.Unlock()

	log.Info("WebSocket connection established", "remote", req.RemoteAddr)

	conn.serve(that.ctx, that.handleMessage)

	that.connectionsMutex.Lock()
	delete(that.connections, conn)
	that.connectionsMutex.Unlock()

	log.Info("WebSocket connection closed", "remote", req.RemoteAddr, "playerID", conn.playerID)
}

// handleMessage - routes a message to its handler and reports failures to the client.
func (that *Server) handleMessage(ctx context.Context, conn *connection, msg *Message) {
	log := that.logger.With("method", "handleMessage", "action", msg.Action)

	handler, ok := that.handlers[msg.Action]
	if !ok {
		conn.sendError(msg.Action, errUnknownAction.Error())
		return
	}

	err := handler(ctx, msg, conn)
	if err == nil {
		return
	}

	errorMsg, expected := clientError(err)
	if expected {
		log.Debug("request rejected", "playerID", conn.playerID, "error", err)
	} else {
		log.Error("error processing message", "playerID", conn.playerID, "error", err)
	}

	conn.sendError(msg.Action, errorMsg)
}
