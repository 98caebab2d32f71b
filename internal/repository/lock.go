package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
)

const (
	defaultLockExpiry = 8 * time.Second
	defaultLockTries  = 32
)

// PlayerLocker - serialises game commands of one player across server instances.
// A player owns at most one game, so holding the player lock covers the whole
// read-modify-write of that game as well as replacing it.
type PlayerLocker struct {
	logger *slog.Logger
	locker *redsync.Redsync

	expiry time.Duration
	tries  int
}

func NewPlayerLocker(logger *slog.Logger, client *redis.Client, expiry time.Duration, tries int) *PlayerLocker {
	if expiry <= 0 {
		expiry = defaultLockExpiry
	}
	if tries <= 0 {
		tries = defaultLockTries
	}

	pool := goredis.NewPool(client)

	return &PlayerLocker{
		logger: logger,
		locker: redsync.New(pool),
		expiry: expiry,
		tries:  tries,
	}
}

func lockKey(playerID string) string {
	return "lock:player:" + playerID
}

// Lock - acquires the mutex of a player. The returned func releases it.
func (that *PlayerLocker) Lock(ctx context.Context, playerID string) (func(), error) {
	log := that.logger.With("method", "Lock", "playerID", playerID)

	mutex := that.locker.NewMutex(lockKey(playerID),
		redsync.WithExpiry(that.expiry),
		redsync.WithTries(that.tries),
	)

	if err := mutex.LockContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to lock player %s: %w", playerID, err)
	}

	unlock := func() {
		ok, err := mutex.UnlockContext(context.WithoutCancel(ctx))
		if err != nil {
			log.Error("failed to release player lock", "error", err)
			return
		}

		if !ok {
			log.Warn("player lock expired before release")
		}
	}

	return unlock, nil
}
