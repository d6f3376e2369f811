package models

import "time"

type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "ACTIVE"
	SubscriptionStatusCancelled SubscriptionStatus = "CANCELLED"
	SubscriptionStatusExpired   SubscriptionStatus = "EXPIRED"
)

type Subscription struct {
	ID          uint               `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time          `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
	UserID      uint               `gorm:"index;not null" json:"userId"`
	AgentID     uint               `gorm:"index;not null" json:"agentId"`
	OrderID     string             `gorm:"type:varchar(32);index" json:"orderId"`
	Plan        string             `gorm:"type:varchar(50);default:'monthly'" json:"plan"`
	Amount      float64            `gorm:"type:decimal(20,2);not null;default:0" json:"amount"`
	Status      SubscriptionStatus `gorm:"type:varchar(20);index;not null;default:'ACTIVE'" json:"status"`
	StartedAt   time.Time          `json:"startedAt"`
	ExpiresAt   time.Time          `gorm:"index" json:"expiresAt"`
	CancelledAt *time.Time         `json:"cancelledAt,omitempty"`
}
