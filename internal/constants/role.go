package constants

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"

	// roleLegacyUser is what older records carry for ordinary accounts.
	roleLegacyUser Role = "user"
)

// Normalize folds the legacy "user" role and unknown values into RoleMember.
func (r Role) Normalize() Role {
	if r == RoleAdmin {
		return RoleAdmin
	}
	return RoleMember
}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleMember, roleLegacyUser:
		return true
	}
	return false
}
