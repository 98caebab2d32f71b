package minesweeper

// Reveal uncovers (x, y). Flagged and already revealed cells are left alone.
// Uncovering a mine ends the game; uncovering an empty cell with no adjacent
// mines floods through the connected empty region and its numbered border.
func (that *Board) Reveal(x, y int) error {
	if err := that.checkBounds(x, y); err != nil {
		return err
	}

	if that.Flagged[y][x] || that.Revealed[y][x] {
		return nil
	}

	that.Revealed[y][x] = true

	cell := that.Cells[y][x]
	if cell.Mine {
		that.GameOver = true
		return nil
	}

	if cell.IsZero() {
		that.floodFill(x, y)
	}

	return nil
}

// floodFill walks the zero region starting at an already revealed zero cell.
// The revealed grid is the visited set; neighbours of a zero cell are never mines.
func (that *Board) floodFill(x, y int) {
	stack := []Point{{X: x, Y: y}}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		that.eachNeighbor(p.X, p.Y, func(nx, ny int) {
			if that.Flagged[ny][nx] || that.Revealed[ny][nx] {
				return
			}

			that.Revealed[ny][nx] = true

			if that.Cells[ny][nx].IsZero() {
				stack = append(stack, Point{X: nx, Y: ny})
			}
		})
	}
}
