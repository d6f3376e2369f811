package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleImplies(t *testing.T) {
	tests := []struct {
		role     Role
		required Role
		want     bool
	}{
		{RoleUser, RoleUser, true},
		{RoleUser, RoleAdmin, false},
		{RoleUser, RoleSuperAdmin, false},
		{RoleAdmin, RoleAdmin, true},
		{RoleAdmin, RoleUser, false},
		{RoleAdmin, RoleSuperAdmin, false},
		{RoleSuperAdmin, RoleUser, true},
		{RoleSuperAdmin, RoleAdmin, true},
		{RoleSuperAdmin, RoleSuperAdmin, true},
		{Role("admin"), RoleAdmin, false},
		{RoleSuperAdmin, Role(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role)+"->"+string(tt.required), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.role.Implies(tt.required))
		})
	}
}

func TestRoleRankOrder(t *testing.T) {
	assert.Less(t, RoleUser.Rank(), RoleAdmin.Rank())
	assert.Less(t, RoleAdmin.Rank(), RoleSuperAdmin.Rank())
	assert.False(t, Role("ROOT").Valid())
}

func TestRoleCanAssign(t *testing.T) {
	assert.True(t, RoleSuperAdmin.CanAssign(RoleSuperAdmin))
	assert.True(t, RoleSuperAdmin.CanAssign(RoleAdmin))
	assert.True(t, RoleAdmin.CanAssign(RoleAdmin))
	assert.True(t, RoleAdmin.CanAssign(RoleUser))
	assert.False(t, RoleAdmin.CanAssign(RoleSuperAdmin))
	assert.False(t, RoleUser.CanAssign(RoleUser))
	assert.False(t, RoleSuperAdmin.CanAssign(Role("OWNER")))
}

func TestUserCanManage(t *testing.T) {
	owner := User{ID: 7, Role: RoleUser}
	other := User{ID: 8, Role: RoleUser}
	admin := User{ID: 9, Role: RoleAdmin}

	assert.True(t, owner.CanManage(7))
	assert.False(t, other.CanManage(7))
	assert.True(t, admin.CanManage(7))
}
