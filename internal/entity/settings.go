package entity

import (
	"fmt"

	"github.com/rocketscienceinc/minesweeper-backend/internal/minesweeper"
)

// Settings - size and mine count of a new game. Zero fields take the server defaults.
type Settings struct {
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`
	Mines  int `json:"mines,omitempty"`
}

// WithDefaults - fills the zero fields from defaults.
func (that Settings) WithDefaults(defaults Settings) Settings {
	if that.Width == 0 {
		that.Width = defaults.Width
	}
	if that.Height == 0 {
		that.Height = defaults.Height
	}
	if that.Mines == 0 {
		that.Mines = defaults.Mines
	}

	return that
}

// Validate - rejects client supplied settings outside the supported range. Zero fields are allowed.
func (that Settings) Validate() error {
	if that.Width < 0 || that.Width > minesweeper.MaxSide ||
		that.Height < 0 || that.Height > minesweeper.MaxSide ||
		that.Mines < 0 || that.Mines >= minesweeper.MaxCells {
		return fmt.Errorf("%w: %dx%d board with %d mines", minesweeper.ErrInvalidConfiguration, that.Width, that.Height, that.Mines)
	}

	return nil
}
