package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
	sendBufferSize = 16
)

var errConnectionClosed = errors.New("connection closed")

// connection is one client socket. Only the read loop queues messages, so send is
// closed exactly once, when the read loop ends. done is closed when the write loop ends.
type connection struct {
	logger *slog.Logger
	ws     *websocket.Conn
	send   chan []byte
	done   chan struct{}

	// set by the connect action
	playerID string
}

func newConnection(logger *slog.Logger, ws *websocket.Conn) *connection {
	return &connection{
		logger: logger,
		ws:     ws,
		send:   make(chan []byte, sendBufferSize),
		done:   make(chan struct{}),
	}
}

// serve runs the connection until the client leaves or ctx is done.
func (that *connection) serve(ctx context.Context, dispatch func(ctx context.Context, conn *connection, msg *Message)) {
	that.ws.SetReadLimit(maxMessageSize)
	_ = that.ws.SetReadDeadline(time.Now().Add(pongWait))
	that.ws.SetPongHandler(func(string) error {
		return that.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	go that.writePump(ctx)

	that.readPump(ctx, dispatch)
	<-that.done
}

func (that *connection) readPump(ctx context.Context, dispatch func(ctx context.Context, conn *connection, msg *Message)) {
	log := that.logger.With("method", "readPump")

	defer close(that.send)

	for {
		_, data, err := that.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error("error reading message", "error", err)
			}
			return
		}

		var msg Message
		if err = json.Unmarshal(data, &msg); err != nil {
			log.Warn("failed to unmarshal message", "error", err)
			that.sendError(actionError, "invalid message")
			continue
		}

		dispatch(ctx, that, &msg)
	}
}

func (that *connection) writePump(ctx context.Context) {
	log := that.logger.With("method", "writePump")

	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = that.ws.Close()
		close(that.done)
	}()

	for {
		select {
		case message, ok := <-that.send:
			_ = that.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = that.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := that.ws.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Error("failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = that.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := that.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-ctx.Done():
			_ = that.ws.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(writeWait))
			return
		}
	}
}

func (that *connection) sendMessage(action string, payload Payload) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	response, err := json.Marshal(Message{Action: action, Payload: payloadJSON})
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}

	select {
	case that.send <- response:
		return nil
	case <-that.done:
		return errConnectionClosed
	}
}

func (that *connection) sendError(action, errorMsg string) {
	if err := that.sendMessage(action, Payload{Error: errorMsg}); err != nil {
		that.logger.Error("failed to send error response", "error", err)
	}
}
