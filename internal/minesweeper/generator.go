package minesweeper

import "math/rand/v2"

// placeMines drops NumberOfMines mines on distinct random cells.
// The caller guarantees at least one free cell, so the loop terminates.
func (that *Board) placeMines(rng *rand.Rand) {
	placed := 0
	for placed < that.NumberOfMines {
		x := rng.IntN(that.Width)
		y := rng.IntN(that.Height)

		if that.Cells[y][x].Mine {
			continue
		}

		that.Cells[y][x] = MineCell()
		placed++
	}
}

// countAdjacent accumulates counts from each mine into its non-mine neighbours.
// Every mine visits each neighbour once, so no cell is counted twice for the same mine.
func (that *Board) countAdjacent() {
	for y := range that.Height {
		for x := range that.Width {
			if !that.Cells[y][x].Mine {
				continue
			}

			that.eachNeighbor(x, y, func(nx, ny int) {
				if !that.Cells[ny][nx].Mine {
					that.Cells[ny][nx].Adjacent++
				}
			})
		}
	}
}
