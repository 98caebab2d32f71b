package minesweeper

// Cell is a single board position: either a mine or an empty cell holding the
// number of mines around it.
type Cell struct {
	Mine     bool  `json:"mine,omitempty"`
	Adjacent uint8 `json:"adjacent,omitempty"`
}

// MineCell - returns a cell holding a mine.
func MineCell() Cell {
	return Cell{Mine: true}
}

// EmptyCell - returns a non-mine cell with the given adjacency count.
func EmptyCell(adjacent uint8) Cell {
	return Cell{Adjacent: adjacent}
}

func (that Cell) IsMine() bool {
	return that.Mine
}

// Count - number of adjacent mines, always 0 for a mine cell.
func (that Cell) Count() int {
	if that.Mine {
		return 0
	}
	return int(that.Adjacent)
}

// IsZero reports an empty cell without adjacent mines.
func (that Cell) IsZero() bool {
	return !that.Mine && that.Adjacent == 0
}

// Point is a board coordinate.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}
