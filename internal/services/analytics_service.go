package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"aiagents-backend/internal/models"
	"aiagents-backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const topN = 5

// MonthWindows splits time into the current calendar month, open ended, and
// the previous one as the half-open interval [PreviousStart, PreviousEnd).
type MonthWindows struct {
	CurrentStart  time.Time `json:"currentStart"`
	PreviousStart time.Time `json:"previousStart"`
	PreviousEnd   time.Time `json:"previousEnd"`
}

func WindowsFor(now time.Time, loc *time.Location) MonthWindows {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	current := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)
	previous := current.AddDate(0, -1, 0)
	return MonthWindows{
		CurrentStart:  current.UTC(),
		PreviousStart: previous.UTC(),
		PreviousEnd:   current.UTC(),
	}
}

// Growth is the month-over-month change in whole percent, rounded half up.
// A zero previous value reports 0.
func Growth(current, previous float64) int {
	if previous == 0 {
		return 0
	}
	return int(math.Floor((current-previous)/previous*100 + 0.5))
}

type RevenueMetrics struct {
	Total    float64 `json:"total"`
	Previous float64 `json:"previous"`
	Growth   int     `json:"growth"`
	AllTime  float64 `json:"allTime"`
}

type CountMetrics struct {
	Total    int64 `json:"total"`
	Current  int64 `json:"current"`
	Previous int64 `json:"previous"`
	Growth   int   `json:"growth"`
}

type UserMetrics struct {
	CountMetrics
	Active int64 `json:"active"`
}

type AgentMetrics struct {
	Total     int64 `json:"total"`
	Published int64 `json:"published"`
}

type TopAgent struct {
	ID                uint   `json:"id"`
	Name              string `json:"name"`
	ConversationCount int64  `json:"conversations"`
}

type TopUser struct {
	ID         uint   `json:"id"`
	Email      string `json:"email"`
	FullName   string `json:"fullName"`
	AgentCount int64  `json:"agents"`
}

type AnalyticsSnapshot struct {
	Revenue             RevenueMetrics `json:"revenue"`
	Users               UserMetrics    `json:"users"`
	Conversations       CountMetrics   `json:"conversations"`
	Agents              AgentMetrics   `json:"agents"`
	ActiveSubscriptions int64          `json:"activeSubscriptions"`
	TopAgents           []TopAgent     `json:"topAgents"`
	TopUsers            []TopUser      `json:"topUsers"`
	Period              MonthWindows   `json:"period"`
	GeneratedAt         time.Time      `json:"generatedAt"`
}

// EmptyAnalyticsSnapshot is served in place of partial data when
// aggregation fails.
func EmptyAnalyticsSnapshot() AnalyticsSnapshot {
	return AnalyticsSnapshot{
		TopAgents: []TopAgent{},
		TopUsers:  []TopUser{},
	}
}

type UserAnalyticsSnapshot struct {
	Spend               RevenueMetrics `json:"spend"`
	Conversations       CountMetrics   `json:"conversations"`
	Messages            CountMetrics   `json:"messages"`
	OwnedAgents         int64          `json:"ownedAgents"`
	ActiveSubscriptions int64          `json:"activeSubscriptions"`
	TopAgents           []TopAgent     `json:"topAgents"`
	Period              MonthWindows   `json:"period"`
	GeneratedAt         time.Time      `json:"generatedAt"`
}

func EmptyUserAnalyticsSnapshot() UserAnalyticsSnapshot {
	return UserAnalyticsSnapshot{TopAgents: []TopAgent{}}
}

// AnalyticsService computes dashboard metrics. Results may be cached in
// redis for cacheTTL; a zero TTL or nil client disables caching.
type AnalyticsService struct {
	db       *gorm.DB
	rdb      *redis.Client
	cacheTTL time.Duration
	loc      *time.Location
}

func NewAnalyticsService(db *gorm.DB, rdb *redis.Client, cacheTTL time.Duration) *AnalyticsService {
	return &AnalyticsService{db: db, rdb: rdb, cacheTTL: cacheTTL, loc: time.UTC}
}

// ComputeAdminAnalytics aggregates marketplace-wide metrics as of now. Any
// store failure yields the empty snapshot and ErrAggregation.
func (s *AnalyticsService) ComputeAdminAnalytics(ctx context.Context, now time.Time) (AnalyticsSnapshot, error) {
	w := WindowsFor(now, s.loc)
	key := "analytics:admin:" + w.CurrentStart.Format("2006-01")

	var snap AnalyticsSnapshot
	if s.cached(ctx, key, &snap) {
		return snap, nil
	}

	snap, err := s.computeAdmin(ctx, now, w)
	if err != nil {
		return EmptyAnalyticsSnapshot(), ErrAggregation.Wrap(err)
	}

	s.store(ctx, key, snap)
	return snap, nil
}

func (s *AnalyticsService) computeAdmin(ctx context.Context, now time.Time, w MonthWindows) (AnalyticsSnapshot, error) {
	db := s.db.WithContext(ctx)
	snap := EmptyAnalyticsSnapshot()
	snap.Period = w
	snap.GeneratedAt = now.UTC()

	completed := db.Model(&models.Order{}).Where("status = ?", models.OrderStatusCompleted)
	var err error
	if snap.Revenue, err = revenue(completed, "created_at", w); err != nil {
		return snap, fmt.Errorf("revenue: %w", err)
	}

	users := db.Model(&models.User{})
	if snap.Users.CountMetrics, err = counts(users, "created_at", w); err != nil {
		return snap, fmt.Errorf("users: %w", err)
	}
	if err := db.Model(&models.User{}).Where("status = ?", models.UserStatusActive).Count(&snap.Users.Active).Error; err != nil {
		return snap, fmt.Errorf("active users: %w", err)
	}

	conversations := db.Model(&models.Conversation{})
	if snap.Conversations, err = counts(conversations, "created_at", w); err != nil {
		return snap, fmt.Errorf("conversations: %w", err)
	}

	if err := db.Model(&models.Agent{}).Count(&snap.Agents.Total).Error; err != nil {
		return snap, fmt.Errorf("agents: %w", err)
	}
	if err := db.Model(&models.Agent{}).Where("status = ?", models.AgentStatusPublished).Count(&snap.Agents.Published).Error; err != nil {
		return snap, fmt.Errorf("published agents: %w", err)
	}

	err = db.Model(&models.Subscription{}).
		Where("status = ?", models.SubscriptionStatusActive).
		Count(&snap.ActiveSubscriptions).Error
	if err != nil {
		return snap, fmt.Errorf("subscriptions: %w", err)
	}

	err = db.Table("agents").
		Select("agents.id AS id, agents.name AS name, COUNT(conversations.id) AS conversation_count").
		Joins("LEFT JOIN conversations ON conversations.agent_id = agents.id").
		Where("agents.deleted_at IS NULL").
		Group("agents.id, agents.name").
		Order("conversation_count DESC").
		Limit(topN).
		Scan(&snap.TopAgents).Error
	if err != nil {
		return snap, fmt.Errorf("top agents: %w", err)
	}

	err = db.Table("users").
		Select("users.id AS id, users.email AS email, users.full_name AS full_name, COUNT(agents.id) AS agent_count").
		Joins("LEFT JOIN agents ON agents.created_by_id = users.id AND agents.deleted_at IS NULL").
		Group("users.id, users.email, users.full_name").
		Order("agent_count DESC").
		Limit(topN).
		Scan(&snap.TopUsers).Error
	if err != nil {
		return snap, fmt.Errorf("top users: %w", err)
	}

	return snap, nil
}

// ComputeUserAnalytics is the per-user dashboard over the same windows.
func (s *AnalyticsService) ComputeUserAnalytics(ctx context.Context, userID uint, now time.Time) (UserAnalyticsSnapshot, error) {
	w := WindowsFor(now, s.loc)
	key := fmt.Sprintf("analytics:user:%d:%s", userID, w.CurrentStart.Format("2006-01"))

	var snap UserAnalyticsSnapshot
	if s.cached(ctx, key, &snap) {
		return snap, nil
	}

	snap, err := s.computeUser(ctx, userID, now, w)
	if err != nil {
		return EmptyUserAnalyticsSnapshot(), ErrAggregation.Wrap(err)
	}

	s.store(ctx, key, snap)
	return snap, nil
}

func (s *AnalyticsService) computeUser(ctx context.Context, userID uint, now time.Time, w MonthWindows) (UserAnalyticsSnapshot, error) {
	db := s.db.WithContext(ctx)
	snap := EmptyUserAnalyticsSnapshot()
	snap.Period = w
	snap.GeneratedAt = now.UTC()

	spend := db.Model(&models.Order{}).Where("user_id = ? AND status = ?", userID, models.OrderStatusCompleted)
	var err error
	if snap.Spend, err = revenue(spend, "created_at", w); err != nil {
		return snap, fmt.Errorf("spend: %w", err)
	}

	conversations := db.Model(&models.Conversation{}).Where("user_id = ?", userID)
	if snap.Conversations, err = counts(conversations, "created_at", w); err != nil {
		return snap, fmt.Errorf("conversations: %w", err)
	}

	messages := db.Model(&models.Message{}).
		Joins("JOIN conversations ON conversations.id = messages.conversation_id").
		Where("conversations.user_id = ?", userID)
	if snap.Messages, err = counts(messages, "messages.created_at", w); err != nil {
		return snap, fmt.Errorf("messages: %w", err)
	}

	if err := db.Model(&models.Agent{}).Where("created_by_id = ?", userID).Count(&snap.OwnedAgents).Error; err != nil {
		return snap, fmt.Errorf("owned agents: %w", err)
	}

	err = db.Model(&models.Subscription{}).
		Where("user_id = ? AND status = ?", userID, models.SubscriptionStatusActive).
		Count(&snap.ActiveSubscriptions).Error
	if err != nil {
		return snap, fmt.Errorf("subscriptions: %w", err)
	}

	err = db.Table("conversations").
		Select("agents.id AS id, agents.name AS name, COUNT(conversations.id) AS conversation_count").
		Joins("JOIN agents ON agents.id = conversations.agent_id").
		Where("conversations.user_id = ?", userID).
		Group("agents.id, agents.name").
		Order("conversation_count DESC").
		Limit(topN).
		Scan(&snap.TopAgents).Error
	if err != nil {
		return snap, fmt.Errorf("top agents: %w", err)
	}

	return snap, nil
}

// revenue sums amount over base in the current and previous windows and
// over all time.
func revenue(base *gorm.DB, column string, w MonthWindows) (RevenueMetrics, error) {
	var m RevenueMetrics
	var err error

	if m.Total, err = sumAmount(base.Session(&gorm.Session{}).Where(column+" >= ?", w.CurrentStart)); err != nil {
		return m, err
	}
	if m.Previous, err = sumAmount(base.Session(&gorm.Session{}).Where(column+" >= ? AND "+column+" < ?", w.PreviousStart, w.PreviousEnd)); err != nil {
		return m, err
	}
	if m.AllTime, err = sumAmount(base.Session(&gorm.Session{})); err != nil {
		return m, err
	}

	m.Growth = Growth(m.Total, m.Previous)
	return m, nil
}

func sumAmount(q *gorm.DB) (float64, error) {
	var total float64
	row := q.Select("COALESCE(SUM(amount), 0)").Row()
	if err := row.Err(); err != nil {
		return 0, err
	}
	if err := row.Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// counts applies the same half-open windows as revenue to a row count.
func counts(base *gorm.DB, column string, w MonthWindows) (CountMetrics, error) {
	var m CountMetrics

	if err := base.Session(&gorm.Session{}).Count(&m.Total).Error; err != nil {
		return m, err
	}
	if err := base.Session(&gorm.Session{}).Where(column+" >= ?", w.CurrentStart).Count(&m.Current).Error; err != nil {
		return m, err
	}
	err := base.Session(&gorm.Session{}).
		Where(column+" >= ? AND "+column+" < ?", w.PreviousStart, w.PreviousEnd).
		Count(&m.Previous).Error
	if err != nil {
		return m, err
	}

	m.Growth = Growth(float64(m.Current), float64(m.Previous))
	return m, nil
}

func (s *AnalyticsService) cached(ctx context.Context, key string, dst interface{}) bool {
	if s.rdb == nil || s.cacheTTL <= 0 {
		return false
	}
	val, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Log.Warn("analytics cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	return json.Unmarshal(val, dst) == nil
}

func (s *AnalyticsService) store(ctx context.Context, key string, v interface{}) {
	if s.rdb == nil || s.cacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, key, data, s.cacheTTL).Err(); err != nil {
		logger.Log.Warn("analytics cache write failed", zap.String("key", key), zap.Error(err))
	}
}
