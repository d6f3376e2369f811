package services

import (
	"context"
	"errors"
	"strings"

	"aiagents-backend/internal/models"

	"gorm.io/gorm"
)

type ConversationService struct {
	db     *gorm.DB
	agents *AgentService
}

func NewConversationService(db *gorm.DB, agents *AgentService) *ConversationService {
	return &ConversationService{db: db, agents: agents}
}

// Create opens a conversation with an agent the user can see.
func (s *ConversationService) Create(ctx context.Context, user models.User, agentID uint, title string) (*models.Conversation, error) {
	agent, err := s.agents.GetAgentByID(ctx, &user, agentID)
	if err != nil {
		return nil, err
	}

	title = strings.TrimSpace(title)
	if title == "" {
		title = agent.Name
	}

	conv := &models.Conversation{UserID: user.ID, AgentID: agent.ID, Title: title}
	if err := s.db.WithContext(ctx).Create(conv).Error; err != nil {
		return nil, err
	}
	return conv, nil
}

func (s *ConversationService) List(ctx context.Context, userID uint, page, limit int) ([]models.Conversation, int64, error) {
	var convs []models.Conversation
	var total int64

	query := s.db.WithContext(ctx).Model(&models.Conversation{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, limit = normalizePage(page, limit)
	if err := query.Order("updated_at desc").Limit(limit).Offset((page - 1) * limit).Find(&convs).Error; err != nil {
		return nil, 0, err
	}
	return convs, total, nil
}

// Get loads a conversation with its messages for its owner or an admin.
// Anyone else gets ErrConversationNotFound.
func (s *ConversationService) Get(ctx context.Context, viewer models.User, id uint) (*models.Conversation, error) {
	var conv models.Conversation
	err := s.db.WithContext(ctx).
		Preload("Messages", func(db *gorm.DB) *gorm.DB { return db.Order("created_at asc, id asc") }).
		First(&conv, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}
	if !viewer.CanManage(conv.UserID) {
		return nil, ErrConversationNotFound
	}
	return &conv, nil
}

// AddMessage appends a message and bumps the conversation's updated_at.
func (s *ConversationService) AddMessage(ctx context.Context, viewer models.User, conversationID uint, role models.MessageRole, content string, metadata models.JSON) (*models.Message, error) {
	var conv models.Conversation
	if err := s.db.WithContext(ctx).First(&conv, conversationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}
	if !viewer.CanManage(conv.UserID) {
		return nil, ErrConversationNotFound
	}
	if role == "" {
		role = models.MessageRoleUser
	}
	if metadata == nil {
		metadata = models.JSON{}
	}

	msg := &models.Message{
		ConversationID: conv.ID,
		Role:           role,
		Content:        content,
		Metadata:       metadata,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		return tx.Model(&conv).Update("updated_at", msg.CreatedAt).Error
	})
	if err != nil {
		return nil, err
	}
	return msg, nil
}
