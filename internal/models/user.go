package models

import "time"

// User rows are never physically deleted; DELETED is a status.
type User struct {
	ID           uint       `gorm:"primarykey" json:"id"`
	CreatedAt    time.Time  `gorm:"index" json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"not null" json:"-"`
	FullName     string     `gorm:"type:varchar(120)" json:"fullName"`
	Role         Role       `gorm:"type:varchar(20);not null;default:'USER'" json:"role"`
	Status       UserStatus `gorm:"type:varchar(20);index;not null;default:'ACTIVE'" json:"status"`
	Version      int        `gorm:"default:1" json:"version"`
}

func (u User) IsActive() bool {
	return u.Status == UserStatusActive
}

// CanManage is the owner-or-admin policy for resources created by ownerID.
func (u User) CanManage(ownerID uint) bool {
	return u.ID == ownerID || u.Role.Implies(RoleAdmin)
}
