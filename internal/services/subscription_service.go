package services

import (
	"context"
	"errors"
	"time"

	"aiagents-backend/internal/models"

	"gorm.io/gorm"
)

type SubscriptionService struct {
	db     *gorm.DB
	period time.Duration
	now    func() time.Time
}

func NewSubscriptionService(db *gorm.DB, period time.Duration) *SubscriptionService {
	if period <= 0 {
		period = 30 * 24 * time.Hour
	}
	return &SubscriptionService{
		db:     db,
		period: period,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Activate grants the buyer of order an ACTIVE subscription. It must run on
// the transaction that completed the order.
func (s *SubscriptionService) Activate(tx *gorm.DB, order models.Order) (*models.Subscription, error) {
	now := s.now()
	sub := &models.Subscription{
		UserID:    order.UserID,
		AgentID:   order.AgentID,
		OrderID:   order.ID,
		Plan:      "monthly",
		Amount:    order.Amount,
		Status:    models.SubscriptionStatusActive,
		StartedAt: now,
		ExpiresAt: now.Add(s.period),
	}
	if err := tx.Create(sub).Error; err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *SubscriptionService) ListForUser(ctx context.Context, userID uint) ([]models.Subscription, error) {
	var subs []models.Subscription
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at desc").Find(&subs).Error
	return subs, err
}

// Cancel ends an ACTIVE subscription owned by actor, or any one for admins.
func (s *SubscriptionService) Cancel(ctx context.Context, actor models.User, id uint) (*models.Subscription, error) {
	var sub models.Subscription
	if err := s.db.WithContext(ctx).First(&sub, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	if !actor.CanManage(sub.UserID) {
		return nil, ErrSubscriptionNotFound
	}

	now := s.now()
	result := s.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("id = ? AND status = ?", id, models.SubscriptionStatusActive).
		Updates(map[string]interface{}{
			"status":       models.SubscriptionStatusCancelled,
			"cancelled_at": now,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrSubscriptionInactive
	}

	if err := s.db.WithContext(ctx).First(&sub, id).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

// ExpireDue flips ACTIVE subscriptions past their expiry to EXPIRED.
func (s *SubscriptionService) ExpireDue(ctx context.Context) (int64, error) {
	result := s.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("status = ? AND expires_at <= ?", models.SubscriptionStatusActive, s.now()).
		Update("status", models.SubscriptionStatusExpired)
	return result.RowsAffected, result.Error
}
