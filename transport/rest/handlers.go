package rest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rocketscienceinc/minesweeper-backend/internal/apperror"
	"github.com/rocketscienceinc/minesweeper-backend/internal/entity"
	"github.com/rocketscienceinc/minesweeper-backend/internal/minesweeper"
)

type gameUseCase interface {
	GetOrCreatePlayer(ctx context.Context, id string) (*entity.Player, error)

	NewGame(ctx context.Context, playerID string, settings entity.Settings) (*entity.Game, error)
	GetGame(ctx context.Context, playerID string) (*entity.Game, error)

	Reveal(ctx context.Context, playerID string, x, y int) (*entity.Game, error)
	ToggleFlag(ctx context.Context, playerID string, x, y int) (*entity.Game, error)
	MoveCursor(ctx context.Context, playerID string, x, y int) (*entity.Game, error)
	Hint(ctx context.Context, playerID string) (*entity.Game, minesweeper.Move, error)
}

type cellCommand func(ctx context.Context, playerID string, x, y int) (*entity.Game, error)

type gameHandler struct {
	logger *slog.Logger
	game   gameUseCase
}

func newGameHandler(logger *slog.Logger, game gameUseCase) *gameHandler {
	return &gameHandler{
		logger: logger,
		game:   game,
	}
}

// RegisterRoutes - mounts the player and game endpoints on the group.
func (that *gameHandler) RegisterRoutes(route *gin.RouterGroup) {
	players := route.Group("/players")
	{
		players.POST("", that.createPlayer)

		game := players.Group("/:id/game")
		{
			game.POST("", that.newGame)
			game.GET("", that.getGame)
			game.POST("/reveal", that.cellCommand("reveal", that.game.Reveal))
			game.POST("/flag", that.cellCommand("flag", that.game.ToggleFlag))
			game.POST("/cursor", that.cellCommand("cursor", that.game.MoveCursor))
			game.GET("/hint", that.hint)
		}
	}
}

func (that *gameHandler) createPlayer(ctx *gin.Context) {
	player, err := that.game.GetOrCreatePlayer(ctx.Request.Context(), "")
	if err != nil {
		that.writeError(ctx, "createPlayer", err)
		return
	}

	ctx.JSON(http.StatusCreated, PlayerResponse{Player: player})
}

func (that *gameHandler) newGame(ctx *gin.Context) {
	var request NewGameRequest
	if err := ctx.ShouldBindJSON(&request); err != nil && !errors.Is(err, io.EOF) {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	game, err := that.game.NewGame(ctx.Request.Context(), ctx.Param("id"), request.Settings())
	if err != nil {
		that.writeError(ctx, "newGame", err)
		return
	}

	ctx.JSON(http.StatusCreated, GameResponse{Game: entity.NewGameView(game)})
}

func (that *gameHandler) getGame(ctx *gin.Context) {
	game, err := that.game.GetGame(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		that.writeError(ctx, "getGame", err)
		return
	}

	ctx.JSON(http.StatusOK, GameResponse{Game: entity.NewGameView(game)})
}

func (that *gameHandler) cellCommand(name string, command cellCommand) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var request CellRequest
		if err := ctx.ShouldBindJSON(&request); err != nil {
			ctx.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}

		game, err := command(ctx.Request.Context(), ctx.Param("id"), *request.X, *request.Y)
		if errors.Is(err, apperror.ErrGameFinished) && game != nil {
			ctx.JSON(http.StatusOK, GameResponse{Game: entity.NewGameView(game)})
			return
		}

		if err != nil {
			that.writeError(ctx, name, err)
			return
		}

		ctx.JSON(http.StatusOK, GameResponse{Game: entity.NewGameView(game)})
	}
}

func (that *gameHandler) hint(ctx *gin.Context) {
	game, move, err := that.game.Hint(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		that.writeError(ctx, "hint", err)
		return
	}

	ctx.JSON(http.StatusOK, HintResponse{Game: entity.NewGameView(game), Move: move})
}

func (that *gameHandler) writeError(ctx *gin.Context, method string, err error) {
	status := statusFromError(err)

	if status == http.StatusInternalServerError {
		that.logger.Error("request failed", "method", method, "playerID", ctx.Param("id"), "error", err)
		ctx.JSON(status, ErrorResponse{Error: "internal server error"})
		return
	}

	ctx.JSON(status, ErrorResponse{Error: err.Error()})
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, minesweeper.ErrOutOfBounds),
		errors.Is(err, minesweeper.ErrInvalidConfiguration):
		return http.StatusBadRequest
	case errors.Is(err, apperror.ErrPlayerNotFound),
		errors.Is(err, apperror.ErrGameNotFound),
		errors.Is(err, apperror.ErrNoActiveGame),
		errors.Is(err, apperror.ErrNoHint):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrGameFinished):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
