package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rocketscienceinc/minesweeper-backend/internal/config"
	"github.com/rocketscienceinc/minesweeper-backend/internal/minesweeper"
	"github.com/rocketscienceinc/minesweeper-backend/internal/repository"
	"github.com/rocketscienceinc/minesweeper-backend/internal/repository/storage"
	"github.com/rocketscienceinc/minesweeper-backend/internal/usecase"
	"github.com/rocketscienceinc/minesweeper-backend/transport/rest"
	"github.com/rocketscienceinc/minesweeper-backend/transport/websocket"
)

const shutdownTimeout = 10 * time.Second

var ErrAddrNotFound = errors.New("redis address string is empty")

type server interface {
	Start() error
	Shutdown(ctx context.Context) error
}

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return ErrAddrNotFound
	}

	redisStorage, err := storage.NewRedisStorage(ctx, redisAddrString)
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err = redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	playerRepo := repository.NewPlayerRepository(redisStorage.Connection, conf.Redis.TTL)
	gameRepo := repository.NewGameRepository(redisStorage.Connection, conf.Redis.TTL)
	playerLocker := repository.NewPlayerLocker(logger, redisStorage.Connection, conf.Lock.Expiry, conf.Lock.Tries)

	gameManager := usecase.NewGameManager(logger, playerRepo, gameRepo, playerLocker, usecase.BoardConfig{
		Defaults: conf.Board.Settings(),
		WinRule:  minesweeper.WinRule(conf.Board.WinRule),
		Seed:     conf.Board.Seed,
	})

	if conf.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	servers := map[string]server{
		"HTTP":      rest.New(logger, conf.HTTPPort, gameManager),
		"WebSocket": websocket.New(logger, conf.SocketPort, gameManager),
	}

	errCh := make(chan error, len(servers))
	for name, srv := range servers {
		go func() {
			log.Info("Starting server", "server", name)
			if srvErr := srv.Start(); srvErr != nil {
				errCh <- fmt.Errorf("%s server error: %w", name, srvErr)
			}
		}()
	}

	select {
	case err = <-errCh:
		log.Error("server failed, shutting down", "error", err)
	case <-ctx.Done():
		log.Info("Received signal, shutting down")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	for name, srv := range servers {
		if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error("server shutdown failed", "server", name, "error", shutdownErr)
		}
	}

	return err
}
