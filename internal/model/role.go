package model

// Role 用户角色，按权限从低到高排列
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
	RoleOwner Role = "owner"
)

// ParseRole 未知值一律按普通用户处理
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleAdmin:
		return RoleAdmin
	case RoleOwner:
		return RoleOwner
	default:
		return RoleUser
	}
}

// Level 权限等级
func (r Role) Level() int {
	switch r {
	case RoleOwner:
		return 2
	case RoleAdmin:
		return 1
	default:
		return 0
	}
}

// AtLeast 是否拥有不低于 min 的权限
func (r Role) AtLeast(min Role) bool {
	return r.Level() >= min.Level()
}

func (r Role) String() string { return string(r) }
