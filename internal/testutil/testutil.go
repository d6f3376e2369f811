// Package testutil wires in-memory backends for package tests.
package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"aiagents-backend/config"
	"aiagents-backend/internal/database"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

var dbSeq int64

// Config returns a configuration suitable for tests: sqlite, the cheapest
// bcrypt cost and short-but-sane token lifetimes.
func Config() *config.Config {
	return &config.Config{
		Environment:          "test",
		DBDriver:             "sqlite",
		JWTSecret:            "test-secret-test-secret-test-secret",
		AccessTokenTTL:       7 * 24 * time.Hour,
		RefreshTokenTTL:      30 * 24 * time.Hour,
		BcryptCost:           4,
		MaxSessions:          10,
		SessionSweepInterval: time.Hour,
		AnalyticsCacheTTL:    0,
		SubscriptionPeriod:   30 * 24 * time.Hour,
		AllowOrigins:         []string{"http://localhost:3000"},
	}
}

// NewDB opens a private in-memory sqlite database with all models migrated.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	cfg := Config()
	cfg.DBPath = fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, atomic.AddInt64(&dbSeq, 1))

	db, err := database.Connect(cfg)
	if err != nil {
		t.Fatalf("connect sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// NewRedis starts a miniredis server and returns a client bound to it.
func NewRedis(t testing.TB) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}
