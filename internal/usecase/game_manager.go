package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/rocketscienceinc/minesweeper-backend/internal/apperror"
	"github.com/rocketscienceinc/minesweeper-backend/internal/entity"
	"github.com/rocketscienceinc/minesweeper-backend/internal/minesweeper"
	"github.com/rocketscienceinc/minesweeper-backend/internal/pkg"
)

type playerRepo interface {
	CreateOrUpdate(ctx context.Context, player *entity.Player) error
	GetByID(ctx context.Context, id string) (*entity.Player, error)
}

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error
}

// playerLocker serialises everything that touches the game of one player.
type playerLocker interface {
	Lock(ctx context.Context, playerID string) (func(), error)
}

// BoardConfig - parameters of newly created boards.
type BoardConfig struct {
	Defaults entity.Settings
	WinRule  minesweeper.WinRule
	// Seed of the mine placement source, 0 seeds from the clock.
	Seed uint64
}

type GameManager struct {
	logger     *slog.Logger
	playerRepo playerRepo
	gameRepo   gameRepo
	locker     playerLocker

	defaults entity.Settings
	winRule  minesweeper.WinRule

	rngMutex sync.Mutex
	rng      *rand.Rand
}

func NewGameManager(logger *slog.Logger, playerRepo playerRepo, gameRepo gameRepo, locker playerLocker, conf BoardConfig) *GameManager {
	seed := conf.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	winRule := conf.WinRule
	if winRule == "" {
		winRule = minesweeper.WinRuleExact
	}

	return &GameManager{
		logger: logger.With("component", "game_manager"),

		playerRepo: playerRepo,
		gameRepo:   gameRepo,
		locker:     locker,

		defaults: conf.Defaults,
		winRule:  winRule,
		rng:      rand.New(rand.NewPCG(seed, seed>>1|1)), //nolint: gosec // mine placement is not security sensitive
	}
}

func (that *GameManager) GetOrCreatePlayer(ctx context.Context, id string) (*entity.Player, error) {
	if id == "" {
		player, err := that.createPlayer(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create new player: %w", err)
		}

		return player, nil
	}

	player, err := that.playerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get player by id: %w", err)
	}

	return player, nil
}

// NewGame - starts a new game for the player, replacing the active one.
func (that *GameManager) NewGame(ctx context.Context, playerID string, settings entity.Settings) (*entity.Game, error) {
	log := that.logger.With("method", "NewGame", "playerID", playerID)

	settings = settings.WithDefaults(that.defaults)

	board, err := that.newBoard(settings)
	if err != nil {
		return nil, fmt.Errorf("failed to create board: %w", err)
	}

	unlock, err := that.locker.Lock(ctx, playerID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	player, err := that.getPlayerByID(ctx, playerID)
	if err != nil {
		return nil, err
	}

	if player.HasGame() {
		if err = that.gameRepo.DeleteByID(ctx, player.GameID); err != nil && !errors.Is(err, apperror.ErrGameNotFound) {
			return nil, fmt.Errorf("failed to replace game: %w", err)
		}
		log.Info("previous game replaced", "gameID", player.GameID)
	}

	game := entity.NewGame(pkg.GenerateGameID(), player.ID, board)

	if err = that.updateGame(ctx, game); err != nil {
		return nil, err
	}

	player.GameID = game.ID
	if err = that.updatePlayer(ctx, player); err != nil {
		return nil, err
	}

	log.Info("game created", "gameID", game.ID, "width", settings.Width, "height", settings.Height, "mines", settings.Mines)

	return game, nil
}

// GetGame - returns the active game of the player.
func (that *GameManager) GetGame(ctx context.Context, playerID string) (*entity.Game, error) {
	player, err := that.getPlayerByID(ctx, playerID)
	if err != nil {
		return nil, err
	}

	if !player.HasGame() {
		return nil, apperror.ErrNoActiveGame
	}

	return that.getGameByID(ctx, player.GameID)
}

func (that *GameManager) Reveal(ctx context.Context, playerID string, x, y int) (*entity.Game, error) {
	return that.play(ctx, "Reveal", playerID, func(board *minesweeper.Board) error {
		return board.Reveal(x, y)
	})
}

func (that *GameManager) ToggleFlag(ctx context.Context, playerID string, x, y int) (*entity.Game, error) {
	return that.play(ctx, "ToggleFlag", playerID, func(board *minesweeper.Board) error {
		return board.ToggleFlag(x, y)
	})
}

func (that *GameManager) MoveCursor(ctx context.Context, playerID string, x, y int) (*entity.Game, error) {
	return that.play(ctx, "MoveCursor", playerID, func(board *minesweeper.Board) error {
		return board.MoveCursor(x, y)
	})
}

// Hint - suggests the next certain move in the active game.
func (that *GameManager) Hint(ctx context.Context, playerID string) (*entity.Game, minesweeper.Move, error) {
	game, err := that.GetGame(ctx, playerID)
	if err != nil {
		return nil, minesweeper.Move{}, err
	}

	if err = game.ConfirmOngoingState(); err != nil {
		return game, minesweeper.Move{}, err
	}

	move, ok := game.Board.Hint()
	if !ok {
		return game, minesweeper.Move{}, apperror.ErrNoHint
	}

	return game, move, nil
}

// play runs one command on the active game of the player under the player lock.
// A command that ends the game removes it and returns the final state with ErrGameFinished.
func (that *GameManager) play(ctx context.Context, method, playerID string, command func(board *minesweeper.Board) error) (*entity.Game, error) {
	log := that.logger.With("method", method, "playerID", playerID)

	player, err := that.getPlayerByID(ctx, playerID)
	if err != nil {
		return nil, err
	}

	if !player.HasGame() {
		return nil, apperror.ErrNoActiveGame
	}

	gameID := player.GameID

	unlock, err := that.locker.Lock(ctx, player.ID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	// the game may have been replaced or finished while waiting for the lock
	player, err = that.getPlayerByID(ctx, playerID)
	if err != nil {
		return nil, err
	}

	if player.GameID != gameID {
		log.Debug("active game changed while waiting for the lock", "gameID", gameID, "activeGameID", player.GameID)
		return nil, apperror.ErrNoActiveGame
	}

	game, err := that.getGameByID(ctx, gameID)
	if err != nil {
		return nil, err
	}

	if err = game.ConfirmOngoingState(); err != nil {
		return game, err
	}

	if err = command(game.Board); err != nil {
		return nil, fmt.Errorf("failed to %s: %w", method, err)
	}

	game.UpdateGameState()

	if game.IsFinished() {
		log.Debug("final board", "gameID", game.ID, "board", game.Board.String())
		that.finishGame(ctx, game, player)

		return game, apperror.ErrGameFinished
	}

	if err = that.updateGame(ctx, game); err != nil {
		return nil, err
	}

	return game, nil
}

func (that *GameManager) newBoard(settings entity.Settings) (*minesweeper.Board, error) {
	that.rngMutex.Lock()
	defer that.rngMutex.Unlock()

	return minesweeper.New(settings.Width, settings.Height, settings.Mines, that.rng, minesweeper.WithWinRule(that.winRule))
}

// finishGame removes a finished game and detaches its player. Callers hold the player lock.
func (that *GameManager) finishGame(ctx context.Context, game *entity.Game, player *entity.Player) {
	log := that.logger.With("method", "finishGame", "gameID", game.ID)

	if err := that.gameRepo.DeleteByID(ctx, game.ID); err != nil {
		log.Error("failed to delete game", "error", err)
	}

	if player.GameID == game.ID {
		player.GameID = ""
		if err := that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
			log.Error("failed to update player", "error", err)
		}
	}

	log.Info("game finished", "status", game.Status)
}

func (that *GameManager) createPlayer(ctx context.Context) (*entity.Player, error) {
	player := &entity.Player{
		ID: pkg.GenerateNewSessionID(),
	}

	if err := that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to create player: %w", err)
	}

	return player, nil
}

func (that *GameManager) getPlayerByID(ctx context.Context, id string) (*entity.Player, error) {
	player, err := that.playerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	return player, nil
}

func (that *GameManager) getGameByID(ctx context.Context, id string) (*entity.Game, error) {
	game, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

func (that *GameManager) updateGame(ctx context.Context, game *entity.Game) error {
	if err := that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}

	return nil
}

func (that *GameManager) updatePlayer(ctx context.Context, player *entity.Player) error {
	if err := that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
		return fmt.Errorf("failed to update player: %w", err)
	}

	return nil
}
