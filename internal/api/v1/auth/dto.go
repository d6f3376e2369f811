package auth

import (
	"time"

	"aiagents-backend/internal/api/v1/user"
)

type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email,max=254"`
	Password    string `json:"password" binding:"required,min=8,max=72"`
	FullName    string `json:"fullName" binding:"required,max=120"`
	AcceptTerms bool   `json:"acceptTerms" binding:"eq=true"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// AuthResponse is returned by register, login and refresh. Token is the
// access token, also set as the auth-token cookie.
type AuthResponse struct {
	User      user.UserResponse `json:"user"`
	Token     string            `json:"token"`
	ExpiresAt time.Time         `json:"expiresAt"`
}
