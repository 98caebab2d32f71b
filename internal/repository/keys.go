package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

func gameKey(id string) string {
	return "game:" + id
}

func playerKey(id string) string {
	return "player:" + id
}

// fetch reads a key and, with a positive ttl, pushes its expiry forward so
// records stay alive while they are in use.
func fetch(ctx context.Context, client *redis.Client, key string, ttl time.Duration) (string, error) {
	if ttl > 0 {
		return client.GetEx(ctx, key, ttl).Result()
	}

	return client.Get(ctx, key).Result()
}
