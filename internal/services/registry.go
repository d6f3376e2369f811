package services

import (
	"aiagents-backend/config"
	"aiagents-backend/internal/payment"
	"aiagents-backend/internal/security"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// Registry holds every service wired to one database and redis client.
type Registry struct {
	DB    *gorm.DB
	Redis *redis.Client

	Hasher *security.Hasher
	Tokens *security.TokenIssuer

	Sessions      *SessionStore
	Auth          *AuthService
	Users         *UserService
	Agents        *AgentService
	Orders        *OrderService
	Subscriptions *SubscriptionService
	Conversations *ConversationService
	Analytics     *AnalyticsService
	Janitor       *Janitor
}

// NewRegistry wires the services. rdb and driver may be nil.
func NewRegistry(cfg *config.Config, db *gorm.DB, rdb *redis.Client, driver payment.Driver) *Registry {
	hasher := security.NewHasher(cfg.BcryptCost)
	tokens := security.NewTokenIssuer(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	cache := NewUserCache(db, rdb)
	sessions := NewSessionStore(db, tokens, NewDenylist(rdb), cache, cfg.MaxSessions)
	agents := NewAgentService(db)
	subscriptions := NewSubscriptionService(db, cfg.SubscriptionPeriod)

	janitor := NewJanitor(cfg.SessionSweepInterval)
	janitor.Register("sessions.sweep_expired", sessions.SweepExpired)
	janitor.Register("subscriptions.expire_due", subscriptions.ExpireDue)

	return &Registry{
		DB:            db,
		Redis:         rdb,
		Hasher:        hasher,
		Tokens:        tokens,
		Sessions:      sessions,
		Auth:          NewAuthService(db, hasher, sessions),
		Users:         NewUserService(db, hasher, sessions, cache),
		Agents:        agents,
		Orders:        NewOrderService(db, subscriptions, driver, cfg.PaymentNotifyURL, cfg.PaymentReturnURL),
		Subscriptions: subscriptions,
		Conversations: NewConversationService(db, agents),
		Analytics:     NewAnalyticsService(db, rdb, cfg.AnalyticsCacheTTL),
		Janitor:       janitor,
	}
}
