package agent

import (
	"time"

	"aiagents-backend/internal/models"
	"aiagents-backend/internal/utils"

	"gorm.io/datatypes"
)

type AgentResponse struct {
	ID          uint           `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Category    string         `json:"category"`
	Price       float64        `json:"price"`
	Status      string         `json:"status"`
	Config      datatypes.JSON `json:"config,omitempty" swaggertype:"object"`
	CreatedByID uint           `json:"createdById"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// NewAgentResponse hides the config from viewers who cannot manage the agent.
func NewAgentResponse(a models.Agent, viewer *models.User) AgentResponse {
	resp := AgentResponse{
		ID:          a.ID,
		Name:        a.Name,
		Description: a.Description,
		Category:    a.Category,
		Price:       a.Price,
		Status:      string(a.Status),
		CreatedByID: a.CreatedByID,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
	if viewer != nil && viewer.CanManage(a.CreatedByID) {
		resp.Config = a.Config
	}
	return resp
}

type ListAgentsQuery struct {
	utils.PageQuery
	Search   string `form:"search" binding:"max=100"`
	Category string `form:"category" binding:"max=60"`
	Status   string `form:"status" binding:"omitempty,oneof=DRAFT PUBLISHED ARCHIVED"`
	Mine     bool   `form:"mine"`
}

type CreateAgentRequest struct {
	Name        string         `json:"name" binding:"required,max=120"`
	Description string         `json:"description" binding:"max=4000"`
	Category    string         `json:"category" binding:"max=60"`
	Price       float64        `json:"price" binding:"gte=0"`
	Status      string         `json:"status" binding:"omitempty,oneof=DRAFT PUBLISHED ARCHIVED"`
	Config      datatypes.JSON `json:"config" swaggertype:"object"`
}

type UpdateAgentRequest struct {
	Name        *string         `json:"name" binding:"omitempty,min=1,max=120"`
	Description *string         `json:"description" binding:"omitempty,max=4000"`
	Category    *string         `json:"category" binding:"omitempty,max=60"`
	Price       *float64        `json:"price" binding:"omitempty,gte=0"`
	Status      *string         `json:"status" binding:"omitempty,oneof=DRAFT PUBLISHED ARCHIVED"`
	Config      *datatypes.JSON `json:"config" swaggertype:"object"`
}
