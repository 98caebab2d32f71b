package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/minesweeper-backend/internal/entity"
	"github.com/rocketscienceinc/minesweeper-backend/internal/minesweeper"
)

const (
	actionConnect    = "connect"
	actionGameNew    = "game:new"
	actionGameState  = "game:state"
	actionGameReveal = "game:reveal"
	actionGameFlag   = "game:flag"
	actionGameCursor = "game:cursor"
	actionGameHint   = "game:hint"
	actionError      = "error"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Payload - body of requests and responses. Requests fill only the fields their action needs.
type Payload struct {
	Player   *entity.Player     `json:"player,omitempty"`
	Game     *entity.GameView   `json:"game,omitempty"`
	Settings *entity.Settings   `json:"settings,omitempty"`
	Cell     *minesweeper.Point `json:"cell,omitempty"`
	Move     *minesweeper.Move  `json:"move,omitempty"`
	Error    string             `json:"error,omitempty"`
}
