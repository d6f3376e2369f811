package services

import (
	"context"
	"errors"
	"strings"

	"aiagents-backend/internal/models"
	"aiagents-backend/internal/security"
	"aiagents-backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type RegisterInput struct {
	Email     string
	Password  string
	FullName  string
	UserAgent string
	IPAddress string
}

type LoginInput struct {
	Email     string
	Password  string
	UserAgent string
	IPAddress string
}

type AuthService struct {
	db       *gorm.DB
	hasher   *security.Hasher
	sessions *SessionStore
}

func NewAuthService(db *gorm.DB, hasher *security.Hasher, sessions *SessionStore) *AuthService {
	return &AuthService{db: db, hasher: hasher, sessions: sessions}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an ACTIVE USER account and signs it in.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, *TokenPair, error) {
	email := NormalizeEmail(in.Email)

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, nil, err
	}
	if count > 0 {
		return nil, nil, ErrEmailTaken
	}

	digest, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, nil, err
	}

	user := &models.User{
		Email:        email,
		PasswordHash: digest,
		FullName:     strings.TrimSpace(in.FullName),
		Role:         models.RoleUser,
		Status:       models.UserStatusActive,
		Version:      1,
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, nil, ErrEmailTaken
		}
		return nil, nil, err
	}

	pair, err := s.sessions.Create(ctx, *user, in.UserAgent, in.IPAddress)
	if err != nil {
		return nil, nil, err
	}

	logger.Log.Info("user registered", zap.Uint("user_id", user.ID))
	return user, pair, nil
}

// Login never tells apart an unknown email from a wrong password. Account
// status is only checked once the password is proven.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*models.User, *TokenPair, error) {
	email := NormalizeEmail(in.Email)

	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.hasher.CompareDummy(in.Password)
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	ok, err := s.hasher.Verify(in.Password, user.PasswordHash)
	if err != nil {
		logger.Log.Error("stored password hash is unreadable", zap.Uint("user_id", user.ID), zap.Error(err))
		return nil, nil, ErrInvalidCredentials
	}
	if !ok {
		return nil, nil, ErrInvalidCredentials
	}

	if !user.IsActive() {
		return nil, nil, ErrAccountInactive
	}

	pair, err := s.sessions.Create(ctx, user, in.UserAgent, in.IPAddress)
	if err != nil {
		return nil, nil, err
	}
	return &user, pair, nil
}

// Logout destroys whatever sessions the presented tokens belong to.
func (s *AuthService) Logout(ctx context.Context, accessToken, refreshToken string) error {
	if err := s.sessions.Destroy(ctx, accessToken); err != nil {
		return err
	}
	return s.sessions.Destroy(ctx, refreshToken)
}

// EnsureSuperAdmin creates the bootstrap SUPER_ADMIN when no account with
// email exists. It reports whether a row was created.
func (s *AuthService) EnsureSuperAdmin(ctx context.Context, email, password string) (bool, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return false, nil
	}

	var existing models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		return false, err
	}

	admin := models.User{
		Email:        email,
		PasswordHash: digest,
		FullName:     "Administrator",
		Role:         models.RoleSuperAdmin,
		Status:       models.UserStatusActive,
		Version:      1,
	}
	if err := s.db.WithContext(ctx).Create(&admin).Error; err != nil {
		return false, err
	}
	return true, nil
}
