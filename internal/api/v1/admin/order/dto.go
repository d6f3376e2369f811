package order

import (
	"time"

	"aiagents-backend/internal/services"
	"aiagents-backend/internal/utils"
)

type ListOrdersQuery struct {
	utils.PageQuery
	UserID    uint      `form:"user_id"`
	AgentID   uint      `form:"agent_id"`
	Status    string    `form:"status" binding:"omitempty,oneof=PENDING COMPLETED CANCELLED REFUNDED"`
	StartTime time.Time `form:"start_time" time_format:"2006-01-02T15:04:05Z07:00"`
	EndTime   time.Time `form:"end_time" time_format:"2006-01-02T15:04:05Z07:00"`
	MinAmount *float64  `form:"min_amount"`
	MaxAmount *float64  `form:"max_amount"`
}

func (q ListOrdersQuery) Filter() services.OrderFilter {
	f := services.OrderFilter{
		Page:      q.Page,
		Limit:     q.Limit,
		MinAmount: q.MinAmount,
		MaxAmount: q.MaxAmount,
	}
	if q.UserID != 0 {
		f.UserID = &q.UserID
	}
	if q.AgentID != 0 {
		f.AgentID = &q.AgentID
	}
	if q.Status != "" {
		f.Status = &q.Status
	}
	if !q.StartTime.IsZero() {
		f.StartTime = &q.StartTime
	}
	if !q.EndTime.IsZero() {
		f.EndTime = &q.EndTime
	}
	return f
}

type CompleteOrderRequest struct {
	ExternalID string `json:"externalId" binding:"max=64"`
}
