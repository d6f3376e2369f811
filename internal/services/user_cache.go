package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"aiagents-backend/internal/models"
	"aiagents-backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const userCacheTTL = time.Hour

// UserCache is a read-through redis cache in front of the users table. The
// cached copy never carries the password hash.
type UserCache struct {
	db  *gorm.DB
	rdb *redis.Client
}

func NewUserCache(db *gorm.DB, rdb *redis.Client) *UserCache {
	return &UserCache{db: db, rdb: rdb}
}

func userCacheKey(id uint) string {
	return fmt.Sprintf("user:%d", id)
}

// FindUserByID returns ErrUserNotFound when no row exists. The result may
// be up to userCacheTTL old; authorization decisions use LoadUser.
func (c *UserCache) FindUserByID(ctx context.Context, id uint) (models.User, error) {
	if c.rdb != nil {
		val, err := c.rdb.Get(ctx, userCacheKey(id)).Result()
		if err == nil {
			var user models.User
			if err := json.Unmarshal([]byte(val), &user); err == nil {
				return user, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			logger.Log.Warn("user cache read failed", zap.Uint("user_id", id), zap.Error(err))
		}
	}
	return c.LoadUser(ctx, id)
}

// LoadUser always reads the users table and refreshes the cached copy.
func (c *UserCache) LoadUser(ctx context.Context, id uint) (models.User, error) {
	var user models.User
	if err := c.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return user, ErrUserNotFound
		}
		return user, err
	}

	if c.rdb != nil {
		if data, err := json.Marshal(user); err == nil {
			c.rdb.Set(ctx, userCacheKey(id), data, userCacheTTL)
		}
	}

	return user, nil
}

func (c *UserCache) Invalidate(ctx context.Context, id uint) {
	if c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, userCacheKey(id)).Err(); err != nil {
		logger.Log.Warn("user cache invalidate failed", zap.Uint("user_id", id), zap.Error(err))
	}
}
