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

type UserFilter struct {
	Role   string
	Status string
	Search string
	Page   int
	Limit  int
}

// ProfileCounts are the derived numbers shown next to a user's profile.
type ProfileCounts struct {
	Agents              int64 `json:"agents"`
	Conversations       int64 `json:"conversations"`
	Orders              int64 `json:"orders"`
	ActiveSubscriptions int64 `json:"activeSubscriptions"`
}

// ModerationInput is an admin change to another account. Nil fields are
// left untouched.
type ModerationInput struct {
	Role     *models.Role
	Status   *models.UserStatus
	FullName *string
	Version  *int
}

type UserService struct {
	db       *gorm.DB
	hasher   *security.Hasher
	sessions *SessionStore
	cache    *UserCache
}

func NewUserService(db *gorm.DB, hasher *security.Hasher, sessions *SessionStore, cache *UserCache) *UserService {
	return &UserService{db: db, hasher: hasher, sessions: sessions, cache: cache}
}

func (s *UserService) FindUserByID(ctx context.Context, id uint) (models.User, error) {
	return s.cache.FindUserByID(ctx, id)
}

// FindUsers retrieves a paginated list of users.
func (s *UserService) FindUsers(ctx context.Context, filter UserFilter) ([]models.User, int64, error) {
	var users []models.User
	var total int64

	query := s.db.WithContext(ctx).Model(&models.User{})
	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(email) LIKE ? OR LOWER(full_name) LIKE ?", like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, limit := normalizePage(filter.Page, filter.Limit)
	if err := query.Order("created_at desc").Limit(limit).Offset((page - 1) * limit).Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

func (s *UserService) ProfileCounts(ctx context.Context, userID uint) (ProfileCounts, error) {
	var counts ProfileCounts
	db := s.db.WithContext(ctx)

	if err := db.Model(&models.Agent{}).Where("created_by_id = ?", userID).Count(&counts.Agents).Error; err != nil {
		return counts, err
	}
	if err := db.Model(&models.Conversation{}).Where("user_id = ?", userID).Count(&counts.Conversations).Error; err != nil {
		return counts, err
	}
	if err := db.Model(&models.Order{}).Where("user_id = ?", userID).Count(&counts.Orders).Error; err != nil {
		return counts, err
	}
	err := db.Model(&models.Subscription{}).
		Where("user_id = ? AND status = ?", userID, models.SubscriptionStatusActive).
		Count(&counts.ActiveSubscriptions).Error
	return counts, err
}

func (s *UserService) UpdateProfile(ctx context.Context, userID uint, fullName string) (*models.User, error) {
	return s.updateUser(ctx, userID, nil, map[string]interface{}{
		"full_name": strings.TrimSpace(fullName),
	})
}

// ChangePassword re-hashes the password and revokes every other session of
// the user, keeping currentSessionID signed in.
func (s *UserService) ChangePassword(ctx context.Context, userID, currentSessionID uint, current, next string) error {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	ok, err := s.hasher.Verify(current, user.PasswordHash)
	if err != nil || !ok {
		return ErrWrongPassword
	}

	digest, err := s.hasher.Hash(next)
	if err != nil {
		return err
	}
	if _, err := s.updateUser(ctx, userID, &user.Version, map[string]interface{}{"password_hash": digest}); err != nil {
		return err
	}

	revoked, err := s.sessions.DestroyAllForUser(ctx, userID, currentSessionID)
	if err != nil {
		return err
	}
	logger.Log.Info("password changed", zap.Uint("user_id", userID), zap.Int64("revoked_sessions", revoked))
	return nil
}

// ModerateUser applies an admin change to target. Nobody moderates their own
// account, and only a SUPER_ADMIN may touch a SUPER_ADMIN or grant the role.
// Leaving ACTIVE revokes all of the target's sessions.
func (s *UserService) ModerateUser(ctx context.Context, actor models.User, targetID uint, in ModerationInput) (*models.User, error) {
	if actor.ID == targetID && (in.Role != nil || in.Status != nil) {
		return nil, ErrSelfModeration
	}

	target, err := s.cache.LoadUser(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target.Role == models.RoleSuperAdmin && actor.Role != models.RoleSuperAdmin {
		return nil, ErrForbidden
	}

	updates := map[string]interface{}{}
	if in.Role != nil {
		if !in.Role.Valid() {
			return nil, ErrInvalidRole
		}
		if !actor.Role.CanAssign(*in.Role) {
			return nil, ErrForbidden
		}
		updates["role"] = *in.Role
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, ErrInvalidStatus
		}
		updates["status"] = *in.Status
	}
	if in.FullName != nil {
		updates["full_name"] = strings.TrimSpace(*in.FullName)
	}
	if len(updates) == 0 {
		return &target, nil
	}

	updated, err := s.updateUser(ctx, targetID, in.Version, updates)
	if err != nil {
		return nil, err
	}

	if in.Status != nil && *in.Status != models.UserStatusActive {
		revoked, err := s.sessions.DestroyAllForUser(ctx, targetID, 0)
		if err != nil {
			return nil, err
		}
		logger.Log.Info("user sessions revoked",
			zap.Uint("user_id", targetID),
			zap.String("status", string(*in.Status)),
			zap.Int64("revoked_sessions", revoked))
	}

	logger.Log.Info("user moderated",
		zap.Uint("user_id", targetID),
		zap.Uint("operator_id", actor.ID),
		zap.Any("changes", updates))

	return updated, nil
}

// updateUser updates a user with optimistic locking. When expectedVersion is
// nil the currently stored version is used.
func (s *UserService) updateUser(ctx context.Context, id uint, expectedVersion *int, updates map[string]interface{}) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		currentVersion := user.Version
		if expectedVersion != nil && *expectedVersion != currentVersion {
			return ErrOptimisticLock
		}
		updates["version"] = currentVersion + 1

		result := tx.Model(&models.User{}).Where("id = ? AND version = ?", id, currentVersion).Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrOptimisticLock
		}

		return tx.First(&user, id).Error
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, id)
	return &user, nil
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}
