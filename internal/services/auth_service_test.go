package services

import (
	"context"
	"testing"

	"aiagents-backend/internal/apperr"
	"aiagents-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	reg, _ := setupRegistry(t)
	ctx := context.Background()

	user, pair, err := reg.Auth.Register(ctx, RegisterInput{
		Email:    "  A@X.com ",
		Password: testPassword,
		FullName: "Ana Popescu",
	})
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", user.Email)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.Equal(t, models.UserStatusActive, user.Status)
	assert.NotEqual(t, testPassword, user.PasswordHash)
	assert.True(t, reg.Sessions.Resolve(ctx, pair.AccessToken).OK())

	_, _, err = reg.Auth.Register(ctx, RegisterInput{Email: "a@x.com", Password: "another-password"})
	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.Equal(t, apperr.Conflict, apperr.KindOf(err))
}

func TestLogin(t *testing.T) {
	reg, _ := setupRegistry(t)
	ctx := context.Background()
	createUser(t, reg, "a@x.com", models.RoleUser, models.UserStatusActive)
	createUser(t, reg, "suspended@x.com", models.RoleUser, models.UserStatusSuspended)

	user, pair, err := reg.Auth.Login(ctx, LoginInput{Email: "A@x.com", Password: testPassword, UserAgent: "test"})
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", user.Email)
	assert.NotEmpty(t, pair.AccessToken)

	_, _, wrongPassword := reg.Auth.Login(ctx, LoginInput{Email: "a@x.com", Password: "wrong"})
	_, _, unknownEmail := reg.Auth.Login(ctx, LoginInput{Email: "nobody@x.com", Password: testPassword})
	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())

	_, _, err = reg.Auth.Login(ctx, LoginInput{Email: "suspended@x.com", Password: testPassword})
	assert.ErrorIs(t, err, ErrAccountInactive)
	assert.Equal(t, apperr.Authorization, apperr.KindOf(err))

	_, _, err = reg.Auth.Login(ctx, LoginInput{Email: "suspended@x.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogout(t *testing.T) {
	reg, _ := setupRegistry(t)
	ctx := context.Background()
	createUser(t, reg, "a@x.com", models.RoleUser, models.UserStatusActive)

	_, pair, err := reg.Auth.Login(ctx, LoginInput{Email: "a@x.com", Password: testPassword})
	require.NoError(t, err)

	require.NoError(t, reg.Auth.Logout(ctx, pair.AccessToken, pair.RefreshToken))
	assert.False(t, reg.Sessions.Resolve(ctx, pair.AccessToken).OK())
	require.NoError(t, reg.Auth.Logout(ctx, pair.AccessToken, pair.RefreshToken))
	require.NoError(t, reg.Auth.Logout(ctx, "", ""))
}

func TestEnsureSuperAdmin(t *testing.T) {
	reg, _ := setupRegistry(t)
	ctx := context.Background()

	created, err := reg.Auth.EnsureSuperAdmin(ctx, "root@x.com", "bootstrap-password")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = reg.Auth.EnsureSuperAdmin(ctx, "root@x.com", "bootstrap-password")
	require.NoError(t, err)
	assert.False(t, created)

	created, err = reg.Auth.EnsureSuperAdmin(ctx, "", "")
	require.NoError(t, err)
	assert.False(t, created)

	user, _, err := reg.Auth.Login(ctx, LoginInput{Email: "root@x.com", Password: "bootstrap-password"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleSuperAdmin, user.Role)
}
