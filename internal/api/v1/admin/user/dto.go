package user

import "aiagents-backend/internal/utils"

type ListUsersQuery struct {
	utils.PageQuery
	Role   string `form:"role" binding:"omitempty,oneof=USER ADMIN SUPER_ADMIN"`
	Status string `form:"status" binding:"omitempty,oneof=ACTIVE SUSPENDED DELETED"`
	Search string `form:"search" binding:"max=100"`
}

// UpdateUserRequest represents the request body for moderating a user.
// Version enables optimistic locking when sent.
type UpdateUserRequest struct {
	FullName *string `json:"fullName,omitempty" binding:"omitempty,max=120"`
	Role     *string `json:"role,omitempty" binding:"omitempty,oneof=USER ADMIN SUPER_ADMIN"`
	Status   *string `json:"status,omitempty" binding:"omitempty,oneof=ACTIVE SUSPENDED DELETED"`
	Version  *int    `json:"version,omitempty" binding:"omitempty,min=1"`
}
