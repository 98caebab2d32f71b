package entity

import "github.com/rocketscienceinc/minesweeper-backend/internal/minesweeper"

const (
	CellHidden  = "hidden"
	CellFlagged = "flagged"
	CellOpened  = "opened"
)

// CellView - what a client may know about a single cell. Hidden cells carry nothing.
type CellView struct {
	State string `json:"state"`
	Count int    `json:"count,omitempty"`
	Mine  bool   `json:"mine,omitempty"`
}

// GameView - masked projection of a game sent to clients.
type GameView struct {
	ID             string            `json:"id"`
	Status         string            `json:"status"`
	Width          int               `json:"width"`
	Height         int               `json:"height"`
	Mines          int               `json:"mines"`
	MinesRemaining int               `json:"mines_remaining"`
	Cursor         minesweeper.Point `json:"cursor"`
	Cells          [][]CellView      `json:"cells"`
}

// NewGameView - builds the view of a game. After a loss every mine is shown opened,
// after a win every mine is shown flagged.
func NewGameView(game *Game) *GameView {
	board := game.Board

	view := &GameView{
		ID:             game.ID,
		Status:         game.Status,
		Width:          board.Width,
		Height:         board.Height,
		Mines:          board.NumberOfMines,
		MinesRemaining: board.MinesRemaining(),
		Cursor:         board.Cursor,
		Cells:          make([][]CellView, board.Height),
	}

	for y := range board.Height {
		view.Cells[y] = make([]CellView, board.Width)
		for x := range board.Width {
			view.Cells[y][x] = maskCell(game, x, y)
		}
	}

	return view
}

func maskCell(game *Game, x, y int) CellView {
	board := game.Board
	cell := board.Cells[y][x]

	switch {
	case cell.IsMine() && game.Status == StatusLost:
		return CellView{State: CellOpened, Mine: true}
	case cell.IsMine() && game.Status == StatusWon:
		return CellView{State: CellFlagged}
	case board.Flagged[y][x]:
		return CellView{State: CellFlagged}
	case !board.Revealed[y][x]:
		return CellView{State: CellHidden}
	case cell.IsMine():
		return CellView{State: CellOpened, Mine: true}
	default:
		return CellView{State: CellOpened, Count: cell.Count()}
	}
}
