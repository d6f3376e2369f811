package models

import "time"

type Conversation struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	UserID    uint      `gorm:"index;not null" json:"userId"`
	AgentID   uint      `gorm:"index;not null" json:"agentId"`
	Title     string    `gorm:"type:varchar(200)" json:"title"`
	Messages  []Message `json:"messages,omitempty"`
}

type MessageRole string

const (
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
	MessageRoleSystem    MessageRole = "system"
)

type Message struct {
	ID             uint        `gorm:"primarykey" json:"id"`
	CreatedAt      time.Time   `gorm:"index" json:"createdAt"`
	ConversationID uint        `gorm:"index;not null" json:"conversationId"`
	Role           MessageRole `gorm:"type:varchar(20);not null" json:"role"`
	Content        string      `gorm:"type:text;not null" json:"content"`
	Metadata       JSON        `gorm:"type:jsonb;not null;default:'{}'" json:"metadata"`
}
