package minesweeper

type MoveType string

const (
	MoveReveal MoveType = "reveal"
	MoveFlag   MoveType = "flag"
)

// Move is a suggested command on a single cell.
type Move struct {
	Point
	Type MoveType `json:"type"`
}

// Hint returns the first move that follows with certainty from a single
// numbered cell, preferring safe reveals over flags. It never guesses.
func (that *Board) Hint() (Move, bool) {
	if move, ok := that.findSafeMove(); ok {
		return move, true
	}

	return that.findFlagMove()
}

func (that *Board) findSafeMove() (Move, bool) {
	for y := range that.Height {
		for x := range that.Width {
			if !that.isClue(x, y) {
				continue
			}

			flags, hidden := that.hiddenAround(x, y)
			if flags == that.Cells[y][x].Count() && len(hidden) > 0 {
				return Move{Point: hidden[0], Type: MoveReveal}, true
			}
		}
	}

	return Move{}, false
}

func (that *Board) findFlagMove() (Move, bool) {
	for y := range that.Height {
		for x := range that.Width {
			if !that.isClue(x, y) {
				continue
			}

			flags, hidden := that.hiddenAround(x, y)
			if flags+len(hidden) == that.Cells[y][x].Count() && len(hidden) > 0 {
				return Move{Point: hidden[0], Type: MoveFlag}, true
			}
		}
	}

	return Move{}, false
}

// isClue reports a revealed numbered cell.
func (that *Board) isClue(x, y int) bool {
	cell := that.Cells[y][x]
	return that.Revealed[y][x] && !cell.Mine && cell.Adjacent > 0
}

// hiddenAround counts flagged neighbours and lists hidden unflagged ones.
func (that *Board) hiddenAround(x, y int) (flags int, hidden []Point) {
	that.eachNeighbor(x, y, func(nx, ny int) {
		switch {
		case that.Flagged[ny][nx]:
			flags++
		case !that.Revealed[ny][nx]:
			hidden = append(hidden, Point{X: nx, Y: ny})
		}
	})

	return flags, hidden
}
