package minesweeper

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
)

// MaxSide and MaxCells bound the size of a board.
const (
	MaxSide  = 1024
	MaxCells = MaxSide * MaxSide
)

var (
	ErrOutOfBounds          = errors.New("coordinates out of bounds")
	ErrInvalidConfiguration = errors.New("invalid board configuration")
)

// WinRule selects how a won game is detected after a flag toggle.
type WinRule string

const (
	// WinRuleExact - won when the flagged cells are exactly the mine cells.
	WinRuleExact WinRule = "exact"
	// WinRuleMineCount - won when every mine is flagged, stray flags are ignored.
	WinRuleMineCount WinRule = "count"
)

func (that WinRule) Valid() bool {
	return that == WinRuleExact || that == WinRuleMineCount
}

// Board is the state of one minesweeper game. Grids are indexed [y][x].
//
// A Board is not safe for concurrent use; callers serialise access to the whole value.
type Board struct {
	Width         int      `json:"width"`
	Height        int      `json:"height"`
	NumberOfMines int      `json:"number_of_mines"`
	Cells         [][]Cell `json:"cells"`
	Flagged       [][]bool `json:"flagged"`
	Revealed      [][]bool `json:"revealed"`
	GameOver      bool     `json:"game_over"`
	Win           bool     `json:"win"`
	Cursor        Point    `json:"cursor"`
	WinRule       WinRule  `json:"win_rule"`
}

type Option func(*Board)

// WithWinRule - overrides the default WinRuleExact.
func WithWinRule(rule WinRule) Option {
	return func(b *Board) {
		b.WinRule = rule
	}
}

// New builds a board with mines placed at random positions drawn from rng.
//
// Placement uses rejection sampling, so the expected cost grows quickly as the
// mine density approaches 1. A board must keep at least one free cell.
func New(width, height, mines int, rng *rand.Rand, opts ...Option) (*Board, error) {
	if err := validateSize(width, height, mines); err != nil {
		return nil, err
	}

	if rng == nil {
		return nil, fmt.Errorf("%w: random source is required", ErrInvalidConfiguration)
	}

	board, err := newBoard(width, height, mines, opts)
	if err != nil {
		return nil, err
	}

	board.placeMines(rng)
	board.countAdjacent()

	return board, nil
}

// NewFromMines builds a board with mines at the given points.
func NewFromMines(width, height int, mines []Point, opts ...Option) (*Board, error) {
	if err := validateSize(width, height, len(mines)); err != nil {
		return nil, err
	}

	board, err := newBoard(width, height, len(mines), opts)
	if err != nil {
		return nil, err
	}

	for _, p := range mines {
		if !board.InBounds(p.X, p.Y) {
			return nil, fmt.Errorf("%w: mine at (%d, %d) is outside %dx%d", ErrInvalidConfiguration, p.X, p.Y, width, height)
		}
		if board.Cells[p.Y][p.X].Mine {
			return nil, fmt.Errorf("%w: duplicate mine at (%d, %d)", ErrInvalidConfiguration, p.X, p.Y)
		}
		board.Cells[p.Y][p.X] = MineCell()
	}

	board.countAdjacent()

	return board, nil
}

func validateSize(width, height, mines int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: size %dx%d", ErrInvalidConfiguration, width, height)
	}

	// compared by division, width*height may overflow
	if width > MaxCells/height {
		return fmt.Errorf("%w: size %dx%d exceeds %d cells", ErrInvalidConfiguration, width, height, MaxCells)
	}

	if mines < 0 || mines >= width*height {
		return fmt.Errorf("%w: %d mines on a %dx%d board", ErrInvalidConfiguration, mines, width, height)
	}

	return nil
}

func newBoard(width, height, mines int, opts []Option) (*Board, error) {
	board := &Board{
		Width:         width,
		Height:        height,
		NumberOfMines: mines,
		Cells:         make([][]Cell, height),
		Flagged:       make([][]bool, height),
		Revealed:      make([][]bool, height),
		WinRule:       WinRuleExact,
	}

	for y := range height {
		board.Cells[y] = make([]Cell, width)
		board.Flagged[y] = make([]bool, width)
		board.Revealed[y] = make([]bool, width)
	}

	for _, opt := range opts {
		opt(board)
	}

	if !board.WinRule.Valid() {
		return nil, fmt.Errorf("%w: unknown win rule %q", ErrInvalidConfiguration, board.WinRule)
	}

	return board, nil
}

func (that *Board) InBounds(x, y int) bool {
	return x >= 0 && x < that.Width && y >= 0 && y < that.Height
}

func (that *Board) checkBounds(x, y int) error {
	if !that.InBounds(x, y) {
		return fmt.Errorf("%w: (%d, %d) on a %dx%d board", ErrOutOfBounds, x, y, that.Width, that.Height)
	}
	return nil
}

// At - returns the cell at (x, y).
func (that *Board) At(x, y int) (Cell, error) {
	if err := that.checkBounds(x, y); err != nil {
		return Cell{}, err
	}
	return that.Cells[y][x], nil
}

// MoveCursor - stores the UI cursor position.
func (that *Board) MoveCursor(x, y int) error {
	if err := that.checkBounds(x, y); err != nil {
		return err
	}

	that.Cursor = Point{X: x, Y: y}

	return nil
}

// eachNeighbor calls fn for every in-bounds cell around (x, y).
func (that *Board) eachNeighbor(x, y int, fn func(nx, ny int)) {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			nx, ny := x+dx, y+dy
			if that.InBounds(nx, ny) {
				fn(nx, ny)
			}
		}
	}
}

func (that *Board) FlagCount() int {
	count := 0
	for y := range that.Height {
		for x := range that.Width {
			if that.Flagged[y][x] {
				count++
			}
		}
	}
	return count
}

// MinesRemaining - mines minus placed flags, negative when over-flagged.
func (that *Board) MinesRemaining() int {
	return that.NumberOfMines - that.FlagCount()
}

// RevealedCount - number of uncovered cells.
func (that *Board) RevealedCount() int {
	count := 0
	for y := range that.Height {
		for x := range that.Width {
			if that.Revealed[y][x] {
				count++
			}
		}
	}
	return count
}

// String renders the board as the player sees it:
// "-" hidden, "F" flag, "*" mine, "." empty, digits otherwise.
func (that *Board) String() string {
	var sb strings.Builder

	for y := range that.Height {
		for x := range that.Width {
			if x > 0 {
				sb.WriteByte(' ')
			}

			cell := that.Cells[y][x]

			switch {
			case that.Flagged[y][x]:
				sb.WriteByte('F')
			case !that.Revealed[y][x]:
				sb.WriteByte('-')
			case cell.Mine:
				sb.WriteByte('*')
			case cell.Adjacent == 0:
				sb.WriteByte('.')
			default:
				sb.WriteString(strconv.Itoa(int(cell.Adjacent)))
			}
		}
		sb.WriteByte('\n')
	}

	return sb.String()
}
