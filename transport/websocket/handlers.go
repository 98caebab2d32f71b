package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/minesweeper-backend/internal/apperror"
	"github.com/rocketscienceinc/minesweeper-backend/internal/entity"
	"github.com/rocketscienceinc/minesweeper-backend/internal/minesweeper"
)

var errPlayerRequired = errors.New("player is required, send connect first")

type cellCommand func(ctx context.Context, playerID string, x, y int) (*entity.Game, error)

func (that *Server) handleConnect(ctx context.Context, msg *Message, conn *connection) error {
	log := that.logger.With("method", "handleConnect")

	payloadReq, err := decodePayload(msg)
	if err != nil {
		return err
	}

	var playerID string
	if payloadReq.Player != nil {
		playerID = payloadReq.Player.ID
	}

	player, err := that.game.GetOrCreatePlayer(ctx, playerID)
	if err != nil {
		return err
	}

	conn.playerID = player.ID
	payloadResp := Payload{Player: player}

	if player.HasGame() {
		game, err := that.game.GetGame(ctx, player.ID)
		if err != nil {
			log.Warn("failed to load active game", "playerID", player.ID, "error", err)
		} else {
			payloadResp.Game = entity.NewGameView(game)
		}
	}

	log.Info("player connected", "playerID", player.ID)

	return conn.sendMessage(msg.Action, payloadResp)
}

func (that *Server) handleNewGame(ctx context.Context, msg *Message, conn *connection) error {
	payloadReq, err := decodePayload(msg)
	if err != nil {
		return err
	}

	playerID, err := resolvePlayer(conn, payloadReq)
	if err != nil {
		return err
	}

	var settings entity.Settings
	if payloadReq.Settings != nil {
		settings = *payloadReq.Settings
	}

	if err = settings.Validate(); err != nil {
		return fmt.Errorf("%w: %w", errBadRequest, err)
	}

	game, err := that.game.NewGame(ctx, playerID, settings)
	if err != nil {
		return err
	}

	return conn.sendMessage(msg.Action, Payload{Game: entity.NewGameView(game)})
}

func (that *Server) handleGameState(ctx context.Context, msg *Message, conn *connection) error {
	payloadReq, err := decodePayload(msg)
	if err != nil {
		return err
	}

	playerID, err := resolvePlayer(conn, payloadReq)
	if err != nil {
		return err
	}

	game, err := that.game.GetGame(ctx, playerID)
	if err != nil {
		return err
	}

	return conn.sendMessage(msg.Action, Payload{Game: entity.NewGameView(game)})
}

func (that *Server) handleCellCommand(command cellCommand) handlerFunc {
	return func(ctx context.Context, msg *Message, conn *connection) error {
		payloadReq, err := decodePayload(msg)
		if err != nil {
			return err
		}

		playerID, err := resolvePlayer(conn, payloadReq)
		if err != nil {
			return err
		}

		if payloadReq.Cell == nil {
			return fmt.Errorf("%w: cell is required", errBadRequest)
		}

		game, err := command(ctx, playerID, payloadReq.Cell.X, payloadReq.Cell.Y)
		if errors.Is(err, apperror.ErrGameFinished) && game != nil {
			that.logger.Info("game finished", "playerID", playerID, "gameID", game.ID, "status", game.Status)
			return conn.sendMessage(msg.Action, Payload{Game: entity.NewGameView(game)})
		}

		if err != nil {
			return err
		}

		return conn.sendMessage(msg.Action, Payload{Game: entity.NewGameView(game)})
	}
}

func (that *Server) handleHint(ctx context.Context, msg *Message, conn *connection) error {
	payloadReq, err := decodePayload(msg)
	if err != nil {
		return err
	}

	playerID, err := resolvePlayer(conn, payloadReq)
	if err != nil {
		return err
	}

	game, move, err := that.game.Hint(ctx, playerID)
	if err != nil {
		return err
	}

	return conn.sendMessage(msg.Action, Payload{Game: entity.NewGameView(game), Move: &move})
}

// decodePayload - an absent payload decodes to the zero Payload.
func decodePayload(msg *Message) (*Payload, error) {
	var payload Payload

	if len(msg.Payload) == 0 {
		return &payload, nil
	}

	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return nil, fmt.Errorf("%w: %w", errBadRequest, err)
	}

	return &payload, nil
}

// resolvePlayer - the player named in the payload, or the one bound by connect.
func resolvePlayer(conn *connection, payload *Payload) (string, error) {
	if payload.Player != nil && payload.Player.ID != "" {
		return payload.Player.ID, nil
	}

	if conn.playerID != "" {
		return conn.playerID, nil
	}

	return "", errPlayerRequired
}

// clientError - the message shown to the client, internal failures are not exposed.
func clientError(err error) (string, bool) {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, errPlayerRequired),
		errors.Is(err, minesweeper.ErrOutOfBounds),
		errors.Is(err, minesweeper.ErrInvalidConfiguration),
		errors.Is(err, apperror.ErrPlayerNotFound),
		errors.Is(err, apperror.ErrGameNotFound),
		errors.Is(err, apperror.ErrNoActiveGame),
		errors.Is(err, apperror.ErrNoHint),
		errors.Is(err, apperror.ErrGameFinished):
		return err.Error(), true
	default:
		return "internal server error", false
	}
}
