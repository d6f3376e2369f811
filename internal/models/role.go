package models

// Role is stored and transmitted as its literal string value.
type Role string

const (
	RoleUser       Role = "USER"
	RoleAdmin      Role = "ADMIN"
	RoleSuperAdmin Role = "SUPER_ADMIN"
)

// Rank places roles on a total order USER < ADMIN < SUPER_ADMIN.
// Unknown roles rank 0 and pass no check.
func (r Role) Rank() int {
	switch r {
	case RoleUser:
		return 1
	case RoleAdmin:
		return 2
	case RoleSuperAdmin:
		return 3
	default:
		return 0
	}
}

func (r Role) Valid() bool {
	return r.Rank() > 0
}

// Implies reports whether a holder of r satisfies a check requiring
// required. SUPER_ADMIN satisfies every check; any other role satisfies
// only its own.
func (r Role) Implies(required Role) bool {
	if !r.Valid() || !required.Valid() {
		return false
	}
	return r == RoleSuperAdmin || r == required
}

// CanAssign reports whether a holder of r may grant target to another
// account. SUPER_ADMIN is only ever granted by a SUPER_ADMIN.
func (r Role) CanAssign(target Role) bool {
	if !target.Valid() {
		return false
	}
	if target == RoleSuperAdmin {
		return r == RoleSuperAdmin
	}
	return r.Implies(RoleAdmin)
}

type UserStatus string

const (
	UserStatusActive    UserStatus = "ACTIVE"
	UserStatusSuspended UserStatus = "SUSPENDED"
	UserStatusDeleted   UserStatus = "DELETED"
)

func (s UserStatus) Valid() bool {
	switch s {
	case UserStatusActive, UserStatusSuspended, UserStatusDeleted:
		return true
	}
	return false
}
