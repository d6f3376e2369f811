package order

import (
	"time"

	"aiagents-backend/internal/models"
	"aiagents-backend/internal/utils"
)

type PurchaseRequest struct {
	AgentID uint   `json:"agentId" binding:"required"`
	Channel string `json:"channel" binding:"omitempty,oneof=alipay wxpay qqpay"`
}

// OrderListItem is the wire shape of an order, shared with the admin API.
type OrderListItem struct {
	ID            string     `json:"id"`
	UserID        uint       `json:"userId"`
	AgentID       uint       `json:"agentId"`
	Amount        float64    `json:"amount"`
	Status        string     `json:"status"`
	PaymentMethod string     `json:"paymentMethod"`
	ExternalID    string     `json:"externalId,omitempty"`
	Remark        string     `json:"remark,omitempty"`
	CompletedAt   *time.Time `json:"completedAt,omitempty"`
	CompletedBy   uint       `json:"completedBy,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

func NewOrderListItem(o models.Order) OrderListItem {
	return OrderListItem{
		ID:            o.ID,
		UserID:        o.UserID,
		AgentID:       o.AgentID,
		Amount:        o.Amount,
		Status:        string(o.Status),
		PaymentMethod: o.PaymentMethod,
		ExternalID:    o.ExternalID,
		Remark:        o.Remark,
		CompletedAt:   o.CompletedAt,
		CompletedBy:   o.CompletedBy,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

func NewOrderList(orders []models.Order) []OrderListItem {
	items := make([]OrderListItem, 0, len(orders))
	for _, o := range orders {
		items = append(items, NewOrderListItem(o))
	}
	return items
}

type PurchaseResponse struct {
	Order          OrderListItem `json:"order"`
	PayURL         string        `json:"payUrl,omitempty"`
	SubscriptionID uint          `json:"subscriptionId,omitempty"`
}

type ListOrdersQuery struct {
	utils.PageQuery
	Status string `form:"status" binding:"omitempty,oneof=PENDING COMPLETED CANCELLED REFUNDED"`
}
