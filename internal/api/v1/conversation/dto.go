package conversation

import (
	"aiagents-backend/internal/models"
	"aiagents-backend/internal/utils"
)

type CreateConversationRequest struct {
	AgentID uint   `json:"agentId" binding:"required"`
	Title   string `json:"title" binding:"max=200"`
}

type AddMessageRequest struct {
	Role     string      `json:"role" binding:"omitempty,oneof=user assistant system"`
	Content  string      `json:"content" binding:"required,max=32000"`
	Metadata models.JSON `json:"metadata" swaggertype:"object"`
}

type ListConversationsQuery struct {
	utils.PageQuery
}
