package services

import (
	"context"
	"testing"

	"aiagents-backend/internal/apperr"
	"aiagents-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestFindAgentsVisibility(t *testing.T) {
	reg, _ := setupRegistry(t)
	ctx := context.Background()
	alice := createUser(t, reg, "alice@x.com", models.RoleUser, models.UserStatusActive)
	bob := createUser(t, reg, "bob@x.com", models.RoleUser, models.UserStatusActive)
	admin := createUser(t, reg, "admin@x.com", models.RoleAdmin, models.UserStatusActive)

	createAgent(t, reg, alice, "Public", 10, models.AgentStatusPublished)
	draft := createAgent(t, reg, alice, "Alice Draft", 0, models.AgentStatusDraft)
	createAgent(t, reg, bob, "Bob Draft", 0, models.AgentStatusDraft)

	_, total, err := reg.Agents.FindAgents(ctx, nil, AgentFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	_, total, err = reg.Agents.FindAgents(ctx, &alice, AgentFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	_, total, err = reg.Agents.FindAgents(ctx, &admin, AgentFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	agents, total, err := reg.Agents.FindAgents(ctx, &admin, AgentFilter{Search: "draft", CreatedByID: bob.ID})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	assert.Equal(t, "Bob Draft", agents[0].Name)

	_, err = reg.Agents.GetAgentByID(ctx, &bob, draft.ID)
	assert.ErrorIs(t, err, ErrAgentNotFound)

	got, err := reg.Agents.GetAgentByID(ctx, &alice, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, draft.ID, got.ID)
}

func TestCreateAgentValidatesConfig(t *testing.T) {
	reg, _ := setupRegistry(t)
	ctx := context.Background()
	owner := createUser(t, reg, "owner@x.com", models.RoleUser, models.UserStatusActive)

	_, err := reg.Agents.CreateAgent(ctx, owner, CreateAgentInput{
		Name:   "Broken",
		Config: datatypes.JSON(`{"temperature": 9}`),
	})
	assert.ErrorIs(t, err, ErrInvalidAgentConfig)
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))

	agent, err := reg.Agents.CreateAgent(ctx, owner, CreateAgentInput{
		Name:   " Tax Helper ",
		Price:  25,
		Config: datatypes.JSON(`{"model": "gpt-4o", "temperature": 0.2}`),
	})
	require.NoError(t, err)
	assert.Equal(t, "Tax Helper", agent.Name)
	assert.Equal(t, models.AgentStatusDraft, agent.Status)
	assert.Equal(t, owner.ID, agent.CreatedByID)
}

func TestUpdateAndDeleteAgentOwnerOrAdmin(t *testing.T) {
	reg, _ := setupRegistry(t)
	ctx := context.Background()
	owner := createUser(t, reg, "owner@x.com", models.RoleUser, models.UserStatusActive)
	stranger := createUser(t, reg, "stranger@x.com", models.RoleUser, models.UserStatusActive)
	super := createUser(t, reg, "root@x.com", models.RoleSuperAdmin, models.UserStatusActive)
	agent := createAgent(t, reg, owner, "Helper", 0, models.AgentStatusDraft)

	name := "Renamed"
	_, err := reg.Agents.UpdateAgent(ctx, stranger, agent.ID, UpdateAgentInput{Name: &name})
	assert.ErrorIs(t, err, ErrForbidden)

	published := models.AgentStatusPublished
	updated, err := reg.Agents.UpdateAgent(ctx, owner, agent.ID, UpdateAgentInput{Name: &name, Status: &published})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, models.AgentStatusPublished, updated.Status)

	assert.ErrorIs(t, reg.Agents.DeleteAgent(ctx, stranger, agent.ID), ErrForbidden)
	require.NoError(t, reg.Agents.DeleteAgent(ctx, super, agent.ID))

	_, err = reg.Agents.GetAgentByID(ctx, &super, agent.ID)
	assert.ErrorIs(t, err, ErrAgentNotFound)
}
