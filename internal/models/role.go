package models

type Role string

const (
	RoleUser    Role = "user"
	RoleCasting Role = "casting"
	RoleAdmin   Role = "admin"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleCasting || r == RoleAdmin
}

func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

func ParseRole(s string) (Role, bool) {
	role := Role(s)
	return role, role.IsValid()
}
