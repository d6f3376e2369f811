package services

import (
	"testing"

	"aiagents-backend/config"
	"aiagents-backend/internal/models"
	"aiagents-backend/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
)

const testPassword = "correct-horse-battery"

func setupRegistry(t *testing.T) (*Registry, *miniredis.Miniredis) {
	t.Helper()
	return setupRegistryWithConfig(t, testutil.Config())
}

func setupRegistryWithConfig(t *testing.T, cfg *config.Config) (*Registry, *miniredis.Miniredis) {
	t.Helper()
	db := testutil.NewDB(t)
	rdb, mr := testutil.NewRedis(t)
	return NewRegistry(cfg, db, rdb, nil), mr
}

func createUser(t *testing.T, reg *Registry, email string, role models.Role, status models.UserStatus) models.User {
	t.Helper()
	digest, err := reg.Hasher.Hash(testPassword)
	require.NoError(t, err)

	user := models.User{
		Email:        email,
		PasswordHash: digest,
		FullName:     "Test " + string(role),
		Role:         role,
		Status:       status,
		Version:      1,
	}
	require.NoError(t, reg.DB.Create(&user).Error)
	return user
}

func createAgent(t *testing.T, reg *Registry, owner models.User, name string, price float64, status models.AgentStatus) models.Agent {
	t.Helper()
	agent := models.Agent{
		Name:        name,
		Description: name + " description",
		Category:    "general",
		Price:       price,
		Status:      status,
		Config:      []byte(`{"model":"gpt-4o"}`),
		CreatedByID: owner.ID,
	}
	require.NoError(t, reg.DB.Create(&agent).Error)
	return agent
}
