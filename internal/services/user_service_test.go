package services

import (
	"context"
	"testing"

	"aiagents-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rolePtr(r models.Role) *models.Role                { return &r }
func statusPtr(s models.UserStatus) *models.UserStatus { return &s }

func TestModerateUserSuspendRevokesSessions(t *testing.T) {
	reg, _ := setupRegistry(t)
	ctx := context.Background()
	admin := createUser(t, reg, "admin@x.com", models.RoleAdmin, models.UserStatusActive)
	target := createUser(t, reg, "a@x.com", models.RoleUser, models.UserStatusActive)

	pair, err := reg.Sessions.Create(ctx, target, "", "")
	require.NoError(t, err)
	require.True(t, reg.Sessions.Resolve(ctx, pair.AccessToken).OK())

	updated, err := reg.Users.ModerateUser(ctx, admin, target.ID, ModerationInput{
		Status: statusPtr(models.UserStatusSuspended),
	})
	require.NoError(t, err)
	assert.Equal(t, models.UserStatusSuspended, updated.Status)
	assert.Equal(t, 2, updated.Version)

	assert.False(t, reg.Sessions.Resolve(ctx, pair.AccessToken).OK())

	var count int64
	reg.DB.Model(&models.Session{}).Where("user_id = ?", target.ID).Count(&count)
	assert.Zero(t, count)
}

func TestModerateUserRoleRules(t *testing.T) {
	reg, _ := setupRegistry(t)
	ctx := context.Background()
	super := createUser(t, reg, "root@x.com", models.RoleSuperAdmin, models.UserStatusActive)
	admin := createUser(t, reg, "admin@x.com", models.RoleAdmin, models.UserStatusActive)
	other := createUser(t, reg, "other-root@x.com", models.RoleSuperAdmin, models.UserStatusActive)
	user := createUser(t, reg, "a@x.com", models.RoleUser, models.UserStatusActive)

	_, err := reg.Users.ModerateUser(ctx, admin, user.ID, ModerationInput{Role: rolePtr(models.RoleSuperAdmin)})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = reg.Users.ModerateUser(ctx, admin, other.ID, ModerationInput{Status: statusPtr(models.UserStatusSuspended)})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = reg.Users.ModerateUser(ctx, admin, admin.ID, ModerationInput{Status: statusPtr(models.UserStatusDeleted)})
	assert.ErrorIs(t, err, ErrSelfModeration)

	_, err = reg.Users.ModerateUser(ctx, admin, user.ID, ModerationInput{Role: rolePtr(models.Role("OWNER"))})
	assert.ErrorIs(t, err, ErrInvalidRole)

	promoted, err := reg.Users.ModerateUser(ctx, admin, user.ID, ModerationInput{Role: rolePtr(models.RoleAdmin)})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, promoted.Role)

	promoted, err = reg.Users.ModerateUser(ctx, super, user.ID, ModerationInput{Role: rolePtr(models.RoleSuperAdmin)})
	require.NoError(t, err)
	assert.Equal(t, models.RoleSuperAdmin, promoted.Role)

	_, err = reg.Users.ModerateUser(ctx, super, other.ID, ModerationInput{Status: statusPtr(models.UserStatusSuspended)})
	assert.NoError(t, err)
}

func TestModerateUserOptimisticLock(t *testing.T) {
	reg, _ := setupRegistry(t)
	ctx := context.Background()
	admin := createUser(t, reg, "admin@x.com", models.RoleAdmin, models.UserStatusActive)
	user := createUser(t, reg, "a@x.com", models.RoleUser, models.UserStatusActive)

	stale := 1
	_, err := reg.Users.ModerateUser(ctx, admin, user.ID, ModerationInput{Role: rolePtr(models.RoleAdmin), Version: &stale})
	require.NoError(t, err)

	_, err = reg.Users.ModerateUser(ctx, admin, user.ID, ModerationInput{Role: rolePtr(models.RoleUser), Version: &stale})
	assert.ErrorIs(t, err, ErrOptimisticLock)
}

func TestChangePasswordRevokesOtherSessions(t *testing.T) {
	reg, _ := setupRegistry(t)
	ctx := context.Background()
	user := createUser(t, reg, "a@x.com", models.RoleUser, models.UserStatusActive)

	current, err := reg.Sessions.Create(ctx, user, "laptop", "")
	require.NoError(t, err)
	other, err := reg.Sessions.Create(ctx, user, "phone", "")
	require.NoError(t, err)

	err = reg.Users.ChangePassword(ctx, user.ID, current.SessionID, "wrong", "new-password-123")
	assert.ErrorIs(t, err, ErrWrongPassword)

	require.NoError(t, reg.Users.ChangePassword(ctx, user.ID, current.SessionID, testPassword, "new-password-123"))
	assert.True(t, reg.Sessions.Resolve(ctx, current.AccessToken).OK())
	assert.False(t, reg.Sessions.Resolve(ctx, other.AccessToken).OK())

	_, _, err = reg.Auth.Login(ctx, LoginInput{Email: "a@x.com", Password: "new-password-123"})
	assert.NoError(t, err)
}

func TestFindUsersAndProfileCounts(t *testing.T) {
	reg, _ := setupRegistry(t)
	ctx := context.Background()
	owner := createUser(t, reg, "owner@x.com", models.RoleUser, models.UserStatusActive)
	createUser(t, reg, "admin@x.com", models.RoleAdmin, models.UserStatusActive)
	createUser(t, reg, "gone@x.com", models.RoleUser, models.UserStatusDeleted)

	users, total, err := reg.Users.FindUsers(ctx, UserFilter{Role: string(models.RoleUser), Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, users, 2)

	_, total, err = reg.Users.FindUsers(ctx, UserFilter{Search: "ADMIN"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	agent := createAgent(t, reg, owner, "Helper", 0, models.AgentStatusPublished)
	require.NoError(t, reg.DB.Create(&models.Conversation{UserID: owner.ID, AgentID: agent.ID, Title: "hi"}).Error)

	counts, err := reg.Users.ProfileCounts(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts.Agents)
	assert.Equal(t, int64(1), counts.Conversations)
	assert.Zero(t, counts.Orders)
}

func TestUpdateProfileInvalidatesCache(t *testing.T) {
	reg, mr := setupRegistry(t)
	ctx := context.Background()
	user := createUser(t, reg, "a@x.com", models.RoleUser, models.UserStatusActive)

	_, err := reg.Users.FindUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, mr.Exists(userCacheKey(user.ID)))

	updated, err := reg.Users.UpdateProfile(ctx, user.ID, "  Ana  ")
	require.NoError(t, err)
	assert.Equal(t, "Ana", updated.FullName)
	assert.False(t, mr.Exists(userCacheKey(user.ID)))

	cached, err := reg.Users.FindUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", cached.FullName)
}
