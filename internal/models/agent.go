package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AgentStatus string

const (
	AgentStatusDraft     AgentStatus = "DRAFT"
	AgentStatusPublished AgentStatus = "PUBLISHED"
	AgentStatusArchived  AgentStatus = "ARCHIVED"
)

func (s AgentStatus) Valid() bool {
	switch s {
	case AgentStatusDraft, AgentStatusPublished, AgentStatusArchived:
		return true
	}
	return false
}

type Agent struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time      `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	Name        string         `gorm:"index;not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Category    string         `gorm:"type:varchar(50);index" json:"category"`
	Price       float64        `gorm:"type:decimal(20,2);not null;default:0" json:"price"`
	Status      AgentStatus    `gorm:"type:varchar(20);index;not null;default:'DRAFT'" json:"status"`
	Config      datatypes.JSON `json:"config"`
	CreatedByID uint           `gorm:"index;not null" json:"createdById"`
}

func (a Agent) IsFree() bool {
	return a.Price <= 0
}
