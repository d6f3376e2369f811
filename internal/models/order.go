package models

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
	OrderStatusRefunded  OrderStatus = "REFUNDED"
)

const (
	PaymentMethodFree   = "free"
	PaymentMethodManual = "manual"
)

// Order is one purchase of an agent. Only COMPLETED orders count as revenue.
type Order struct {
	ID            string      `gorm:"primarykey;type:varchar(32)" json:"id"`
	CreatedAt     time.Time   `gorm:"index" json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
	UserID        uint        `gorm:"index;not null" json:"userId"`
	AgentID       uint        `gorm:"index;not null" json:"agentId"`
	Amount        float64     `gorm:"type:decimal(20,2);not null" json:"amount"`
	Status        OrderStatus `gorm:"type:varchar(20);index;not null;default:'PENDING'" json:"status"`
	PaymentMethod string      `gorm:"type:varchar(50)" json:"paymentMethod"`
	ExternalID    string      `gorm:"type:varchar(64);index" json:"externalId,omitempty"`
	Remark        string      `gorm:"type:text" json:"remark,omitempty"`
	CompletedAt   *time.Time  `json:"completedAt,omitempty"`
	CompletedBy   uint        `gorm:"default:0" json:"completedBy,omitempty"`
}
