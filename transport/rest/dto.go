package rest

import (
	"github.com/rocketscienceinc/minesweeper-backend/internal/entity"
	"github.com/rocketscienceinc/minesweeper-backend/internal/minesweeper"
)

// NewGameRequest - optional body of POST /v1/players/:id/game. Zero fields take the server defaults.
// Limits follow minesweeper.MaxSide and minesweeper.MaxCells.
type NewGameRequest struct {
	Width  int `json:"width" binding:"omitempty,min=1,max=1024"`
	Height int `json:"height" binding:"omitempty,min=1,max=1024"`
	Mines  int `json:"mines" binding:"omitempty,min=1,max=1048575"`
}

func (that NewGameRequest) Settings() entity.Settings {
	return entity.Settings{
		Width:  that.Width,
		Height: that.Height,
		Mines:  that.Mines,
	}
}

// CellRequest - body of the reveal, flag and cursor commands.
type CellRequest struct {
	X *int `json:"x" binding:"required"`
	Y *int `json:"y" binding:"required"`
}

type PlayerResponse struct {
	Player *entity.Player `json:"player"`
}

type GameResponse struct {
	Game *entity.GameView `json:"game"`
}

type HintResponse struct {
	Game *entity.GameView `json:"game"`
	Move minesweeper.Move `json:"move"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
