package model

import "task-manager.com/task-manager/internal/constants"

// Identity is the authenticated caller of a service operation.
type Identity struct {
	UserID string
	Role   constants.Role
}

func (i Identity) IsAdmin() bool {
	return i.Role.Normalize() == constants.RoleAdmin
}

func IdentityOf(u *User) Identity {
	return Identity{UserID: u.ID, Role: u.Role.Normalize()}
}
