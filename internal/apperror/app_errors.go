package apperror

import "errors"

var (
	ErrGameFinished   = errors.New("game is already finished")
	ErrNoActiveGame   = errors.New("no active game")
	ErrPlayerNotFound = errors.New("player not found")
	ErrGameNotFound   = errors.New("game not found")
	ErrNoHint         = errors.New("no certain move available")
)
