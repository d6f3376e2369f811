package user

import (
	"time"

	"aiagents-backend/internal/models"
	"aiagents-backend/internal/services"
)

// UserResponse is the public shape of an account.
type UserResponse struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewUserResponse(u models.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		Role:      string(u.Role),
		Status:    string(u.Status),
		Version:   u.Version,
		CreatedAt: u.CreatedAt,
	}
}

// ProfileResponse is the user plus the counts shown on their dashboard.
type ProfileResponse struct {
	User   UserResponse           `json:"user"`
	Counts services.ProfileCounts `json:"counts"`
}

type UpdateProfileRequest struct {
	FullName string `json:"fullName" binding:"required,max=120"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8,max=72"`
}

type SessionResponse struct {
	ID        uint      `json:"id"`
	UserAgent string    `json:"userAgent"`
	IPAddress string    `json:"ipAddress"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
	Current   bool      `json:"current"`
}
