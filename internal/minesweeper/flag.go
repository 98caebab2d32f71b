package minesweeper

// ToggleFlag flips the flag on a hidden cell. Revealed cells keep their state.
// The win condition is evaluated after every in-bounds call, including a refused toggle.
func (that *Board) ToggleFlag(x, y int) error {
	if err := that.checkBounds(x, y); err != nil {
		return err
	}

	if !that.Revealed[y][x] {
		that.Flagged[y][x] = !that.Flagged[y][x]
	}

	that.checkWin()

	return nil
}

func (that *Board) checkWin() {
	if that.isWon() {
		that.Win = true
		that.GameOver = true
	}
}

func (that *Board) isWon() bool {
	flaggedMines, strayFlags := 0, 0

	for y := range that.Height {
		for x := range that.Width {
			if !that.Flagged[y][x] {
				continue
			}
			if that.Cells[y][x].Mine {
				flaggedMines++
			} else {
				strayFlags++
			}
		}
	}

	if flaggedMines != that.NumberOfMines {
		return false
	}

	// boards restored without a rule behave as WinRuleExact
	return that.WinRule == WinRuleMineCount || strayFlags == 0
}
