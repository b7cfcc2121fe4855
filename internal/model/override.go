package model

// FullOverride 管理员对用户资料的完整覆盖，nil 字段表示不覆盖
type FullOverride struct {
	Username   *string `json:"username,omitempty"`
	Role       *Role   `json:"role,omitempty"`
	IsActive   *bool   `json:"isActive,omitempty"`
	IsVerified *bool   `json:"isVerified,omitempty"`
}

// Empty 是否没有任何字段
func (o FullOverride) Empty() bool {
	return o.Username == nil && o.Role == nil && o.IsActive == nil && o.IsVerified == nil
}

// Merge 用 patch 中非空字段覆盖当前值
func (o FullOverride) Merge(patch FullOverride) FullOverride {
	if patch.Username != nil {
		o.Username = patch.Username
	}
	if patch.Role != nil {
		o.Role = patch.Role
	}
	if patch.IsActive != nil {
		o.IsActive = patch.IsActive
	}
	if patch.IsVerified != nil {
		o.IsVerified = patch.IsVerified
	}
	return o
}

// RoleOverrides key 为用户 id 或规范化邮箱
type RoleOverrides map[string]Role

// FullOverrides key 为用户 id 或规范化邮箱
type FullOverrides map[string]FullOverride

// DeletionMarkers key 为用户 id 或规范化邮箱
type DeletionMarkers map[string]bool

// StoredRoles 本地持久化用户列表中记录的角色
type StoredRoles map[string]Role

// OverrideTables 管理员操作留下的三张本地表
type OverrideTables struct {
	Roles   RoleOverrides
	Full    FullOverrides
	Deleted DeletionMarkers
}
