package services

import (
	"context"
	"errors"
	"time"

	"aiagents-backend/internal/security"

	"github.com/go-redis/redis/v8"
)

const denylistPrefix = "denylist:"

// Denylist remembers revoked tokens in redis until they would have expired
// anyway. It can only add rejections; a miss still goes to the session table.
// A nil client disables it.
type Denylist struct {
	rdb *redis.Client
}

func NewDenylist(rdb *redis.Client) *Denylist {
	return &Denylist{rdb: rdb}
}

func (d *Denylist) Add(ctx context.Context, token string, expiration time.Duration) error {
	if d == nil || d.rdb == nil || expiration <= 0 {
		return nil
	}
	return d.rdb.Set(ctx, denylistPrefix+security.HashToken(token), 1, expiration).Err()
}

func (d *Denylist) Contains(ctx context.Context, token string) (bool, error) {
	if d == nil || d.rdb == nil {
		return false, nil
	}
	val, err := d.rdb.Get(ctx, denylistPrefix+security.HashToken(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	return val != "", nil
}
