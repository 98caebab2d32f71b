package entity

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/minesweeper-backend/internal/apperror"
	"github.com/rocketscienceinc/minesweeper-backend/internal/minesweeper"
)

const (
	StatusOngoing = "ongoing"
	StatusWon     = "won"
	StatusLost    = "lost"
)

var ErrUnknownGameStatus = errors.New("unknown game status")

type Game struct {
	ID       string             `json:"id"`
	PlayerID string             `json:"player_id"`
	Status   string             `json:"status"`
	Board    *minesweeper.Board `json:"board"`
}

func NewGame(id, playerID string, board *minesweeper.Board) *Game {
	return &Game{
		ID:       id,
		PlayerID: playerID,
		Status:   StatusOngoing,
		Board:    board,
	}
}

// UpdateGameState - derives the status from the board after a command.
func (that *Game) UpdateGameState() {
	switch {
	// every mine flagged
	case that.Board.Win:
		that.Status = StatusWon
	// a mine was opened
	case that.Board.GameOver:
		that.Status = StatusLost
	default:
		that.Status = StatusOngoing
	}
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusWon || that.Status == StatusLost
}

func (that *Game) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *Game) ConfirmOngoingState() error {
	switch {
	case that.IsFinished():
		return apperror.ErrGameFinished
	case that.IsOngoing():
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownGameStatus, that.Status)
	}
}
