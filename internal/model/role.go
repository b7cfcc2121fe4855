package model

import "strings"

// Role 平台角色
type Role string

const (
	RoleUser      Role = "user"
	RoleCreator   Role = "creator"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// Roles 全部合法角色，按权限从低到高
var Roles = []Role{RoleUser, RoleCreator, RoleModerator, RoleAdmin}

// ParseRole 解析角色字符串，非法值返回 false
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	switch r {
	case RoleUser, RoleCreator, RoleModerator, RoleAdmin:
		return r, true
	}
	return "", false
}

func (r Role) Valid() bool {
	_, ok := ParseRole(string(r))
	return ok
}
