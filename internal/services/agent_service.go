package services

import (
	"context"
	"errors"
	"strings"

	"aiagents-backend/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AgentFilter struct {
	Search      string
	Category    string
	Status      string
	CreatedByID uint
	Page        int
	Limit       int
}

type CreateAgentInput struct {
	Name        string
	Description string
	Category    string
	Price       float64
	Status      models.AgentStatus
	Config      datatypes.JSON
}

type UpdateAgentInput struct {
	Name        *string
	Description *string
	Category    *string
	Price       *float64
	Status      *models.AgentStatus
	Config      *datatypes.JSON
}

type AgentService struct {
	db *gorm.DB
}

func NewAgentService(db *gorm.DB) *AgentService {
	return &AgentService{db: db}
}

// visibleTo limits q to agents viewer may see: admins see everything,
// everyone else sees published agents plus their own.
func visibleTo(q *gorm.DB, viewer *models.User) *gorm.DB {
	if viewer != nil && viewer.Role.Implies(models.RoleAdmin) {
		return q
	}
	if viewer == nil {
		return q.Where("status = ?", models.AgentStatusPublished)
	}
	return q.Where("status = ? OR created_by_id = ?", models.AgentStatusPublished, viewer.ID)
}

// FindAgents retrieves a paginated list of agents with filtering.
func (s *AgentService) FindAgents(ctx context.Context, viewer *models.User, filter AgentFilter) ([]models.Agent, int64, error) {
	var agents []models.Agent
	var total int64

	query := visibleTo(s.db.WithContext(ctx).Model(&models.Agent{}), viewer)

	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.CreatedByID != 0 {
		query = query.Where("created_by_id = ?", filter.CreatedByID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, limit := normalizePage(filter.Page, filter.Limit)
	if err := query.Order("created_at desc").Limit(limit).Offset((page - 1) * limit).Find(&agents).Error; err != nil {
		return nil, 0, err
	}

	return agents, total, nil
}

// GetAgentByID hides agents the viewer may not see behind ErrAgentNotFound.
func (s *AgentService) GetAgentByID(ctx context.Context, viewer *models.User, id uint) (*models.Agent, error) {
	var agent models.Agent
	err := visibleTo(s.db.WithContext(ctx).Model(&models.Agent{}), viewer).Where("id = ?", id).First(&agent).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAgentNotFound
		}
		return nil, err
	}
	return &agent, nil
}

func (s *AgentService) CreateAgent(ctx context.Context, owner models.User, in CreateAgentInput) (*models.Agent, error) {
	status := in.Status
	if status == "" {
		status = models.AgentStatusDraft
	}
	if !status.Valid() {
		return nil, ErrInvalidAgentConfig.Wrap(errors.New("unknown status"))
	}
	if err := models.ValidateAgentConfig(in.Config); err != nil {
		return nil, ErrInvalidAgentConfig.Wrap(err)
	}

	cfg := in.Config
	if len(cfg) == 0 {
		cfg = datatypes.JSON("{}")
	}

	agent := &models.Agent{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Category:    in.Category,
		Price:       in.Price,
		Status:      status,
		Config:      cfg,
		CreatedByID: owner.ID,
	}
	if err := s.db.WithContext(ctx).Create(agent).Error; err != nil {
		return nil, err
	}
	return agent, nil
}

// UpdateAgent applies in to an agent actor owns, or any agent for admins.
func (s *AgentService) UpdateAgent(ctx context.Context, actor models.User, id uint, in UpdateAgentInput) (*models.Agent, error) {
	agent, err := s.manageable(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Name != nil {
		updates["name"] = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.Category != nil {
		updates["category"] = *in.Category
	}
	if in.Price != nil {
		updates["price"] = *in.Price
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, ErrInvalidAgentConfig.Wrap(errors.New("unknown status"))
		}
		updates["status"] = *in.Status
	}
	if in.Config != nil {
		if err := models.ValidateAgentConfig(*in.Config); err != nil {
			return nil, ErrInvalidAgentConfig.Wrap(err)
		}
		updates["config"] = *in.Config
	}
	if len(updates) == 0 {
		return agent, nil
	}

	if err := s.db.WithContext(ctx).Model(agent).Updates(updates).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).First(agent, id).Error; err != nil {
		return nil, err
	}
	return agent, nil
}

// DeleteAgent soft-deletes the agent.
func (s *AgentService) DeleteAgent(ctx context.Context, actor models.User, id uint) error {
	agent, err := s.manageable(ctx, actor, id)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(agent).Error
}

func (s *AgentService) manageable(ctx context.Context, actor models.User, id uint) (*models.Agent, error) {
	var agent models.Agent
	if err := s.db.WithContext(ctx).First(&agent, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAgentNotFound
		}
		return nil, err
	}
	if !actor.CanManage(agent.CreatedByID) {
		return nil, ErrForbidden
	}
	return &agent, nil
}
