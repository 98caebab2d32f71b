package minesweeper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func copyGrid(grid [][]bool) [][]bool {
	out := make([][]bool, len(grid))
	for y := range grid {
		out[y] = append([]bool(nil), grid[y]...)
	}
	return out
}

// expectedFlood computes the cells a reveal of the zero cell (x, y) must uncover
// on a board without flags: the connected zero region plus its border.
func expectedFlood(b *Board, x, y int) map[Point]bool {
	want := map[Point]bool{{X: x, Y: y}: true}
	queue := []Point{{X: x, Y: y}}

	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]

		for ny := p.Y - 1; ny <= p.Y+1; ny++ {
			for nx := p.X - 1; nx <= p.X+1; nx++ {
				n := Point{X: nx, Y: ny}
				if !b.InBounds(nx, ny) || want[n] {
					continue
				}
				want[n] = true
				if b.Cells[ny][nx].IsZero() {
					queue = append(queue, n)
				}
			}
		}
	}

	return want
}

func TestBoard_Reveal(t *testing.T) {
	t.Run("Numbered cell does not cascade", func(t *testing.T) {
		// Given: a 3x3 board with mines at (0,0) and (2,2)
		board := mustBoard(t, 3, 3, Point{X: 0, Y: 0}, Point{X: 2, Y: 2})

		// When: the centre cell is revealed
		err := board.Reveal(1, 1)
		require.NoError(t, err)

		// Then: only the centre is uncovered and the game goes on
		assert.True(t, board.Revealed[1][1])
		assert.Equal(t, 1, board.RevealedCount())
		assert.False(t, board.GameOver)
	})

	t.Run("Empty board is uncovered by one reveal", func(t *testing.T) {
		// Given: a 10x10 board without mines
		board, err := New(10, 10, 0, newRand(3))
		require.NoError(t, err)

		// When: the corner is revealed
		require.NoError(t, board.Reveal(0, 0))

		// Then: every cell is uncovered
		assert.Equal(t, 100, board.RevealedCount())
		assert.False(t, board.GameOver)
	})

	t.Run("Large empty board does not overflow", func(t *testing.T) {
		board, err := New(600, 600, 0, newRand(3))
		require.NoError(t, err)

		require.NoError(t, board.Reveal(300, 300))

		assert.Equal(t, 600*600, board.RevealedCount())
	})

	t.Run("Reveal is idempotent", func(t *testing.T) {
		// Given: a generated board and a first reveal
		board, err := New(16, 16, 40, newRand(11))
		require.NoError(t, err)

		require.NoError(t, board.Reveal(5, 5))
		afterFirst := copyGrid(board.Revealed)
		gameOver := board.GameOver

		// When: the same cell is revealed again
		require.NoError(t, board.Reveal(5, 5))

		// Then: nothing changes
		assert.Equal(t, afterFirst, board.Revealed)
		assert.Equal(t, gameOver, board.GameOver)
	})

	t.Run("Mine ends the game without cascading", func(t *testing.T) {
		// Given: a board with one mine surrounded by empty space
		board := mustBoard(t, 5, 5, Point{X: 2, Y: 2})

		// When: the mine is revealed
		require.NoError(t, board.Reveal(2, 2))

		// Then: the game is lost and only the mine is uncovered
		assert.True(t, board.GameOver)
		assert.False(t, board.Win)
		assert.Equal(t, 1, board.RevealedCount())
	})

	t.Run("Flagged cell is not revealed", func(t *testing.T) {
		// Given: a flagged mine
		board := mustBoard(t, 3, 3, Point{X: 1, Y: 1})
		board.Flagged[1][1] = true

		// When: the flagged cell is revealed
		require.NoError(t, board.Reveal(1, 1))

		// Then: it stays hidden and the game continues
		assert.False(t, board.Revealed[1][1])
		assert.False(t, board.GameOver)
	})

	t.Run("Flood stops at flags", func(t *testing.T) {
		// Given: an empty 3x1 strip with a flag in the middle
		board := mustBoard(t, 3, 1)
		board.Flagged[0][1] = true

		// When: the left end is revealed
		require.NoError(t, board.Reveal(0, 0))

		// Then: the flag and everything behind it stay hidden
		assert.Equal(t, []bool{true, false, false}, board.Revealed[0])
		assert.True(t, board.Flagged[0][1])
	})

	t.Run("Flood covers exactly the zero region and its border", func(t *testing.T) {
		for seed := uint64(1); seed <= 40; seed++ {
			board, err := New(20, 12, 30, newRand(seed))
			require.NoError(t, err)

			start, found := Point{}, false
			for y := 0; y < board.Height && !found; y++ {
				for x := 0; x < board.Width && !found; x++ {
					if board.Cells[y][x].IsZero() {
						start, found = Point{X: x, Y: y}, true
					}
				}
			}
			if !found {
				continue
			}

			require.NoError(t, board.Reveal(start.X, start.Y))

			want := expectedFlood(board, start.X, start.Y)
			for y := range board.Height {
				for x := range board.Width {
					assert.Equal(t, want[Point{X: x, Y: y}], board.Revealed[y][x], "cell (%d, %d) seed %d", x, y, seed)
				}
			}
			assert.False(t, board.GameOver)
		}
	})

	t.Run("Revealed cells stay revealed", func(t *testing.T) {
		// Given: a revealed cell
		board := mustBoard(t, 3, 3, Point{X: 0, Y: 0})
		require.NoError(t, board.Reveal(1, 1))

		// When: a flag is toggled on it
		require.NoError(t, board.ToggleFlag(1, 1))

		// Then: it is still revealed and not flagged
		assert.True(t, board.Revealed[1][1])
		assert.False(t, board.Flagged[1][1])
	})

	t.Run("Rejects coordinates outside the board", func(t *testing.T) {
		board := mustBoard(t, 3, 3)

		for _, p := range []Point{{X: 3, Y: 0}, {X: 0, Y: 3}, {X: -1, Y: 0}, {X: 0, Y: -1}} {
			err := board.Reveal(p.X, p.Y)

			require.ErrorIs(t, err, ErrOutOfBounds)
		}
		assert.Zero(t, board.RevealedCount())
	})
}
