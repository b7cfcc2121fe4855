package service

import (
	"WorkUs/internal/model"
	"WorkUs/internal/pkg/util"
	"sort"
)

// ReconcileInput 合并所需的全部数据源
type ReconcileInput struct {
	Remote        []*model.User
	Local         []*model.User
	RoleOverrides model.RoleOverrides
	FullOverrides model.FullOverrides
	Deleted       model.DeletionMarkers
	StoredRoles   model.StoredRoles
}

// resolver 按查找键取字段值，未命中返回 false
type resolver[T any] func(keys []string) (T, bool)

// resolve 依次尝试 chain，全部未命中时返回 base
func resolve[T any](keys []string, base T, chain ...resolver[T]) T {
	for _, r := range chain {
		if v, ok := r(keys); ok {
			return v
		}
	}
	return base
}

func fromMap[T any](m map[string]T) resolver[T] {
	return func(keys []string) (T, bool) {
		for _, k := range keys {
			if v, ok := m[k]; ok {
				return v, true
			}
		}
		var zero T
		return zero, false
	}
}

// fromFull 取完整覆盖中某个已设置的字段
func fromFull[T any](full model.FullOverrides, pick func(model.FullOverride) *T) resolver[T] {
	return func(keys []string) (T, bool) {
		for _, k := range keys {
			o, ok := full[k]
			if !ok {
				continue
			}
			if p := pick(o); p != nil {
				return *p, true
			}
		}
		var zero T
		return zero, false
	}
}

// validRole 过滤持久化数据里的非法角色
func validRole(r resolver[model.Role]) resolver[model.Role] {
	return func(keys []string) (model.Role, bool) {
		role, ok := r(keys)
		return role, ok && role.Valid()
	}
}

// ReconcileUsers 合并远程与本地用户，应用删除标记和覆盖，按加入时间倒序返回
func ReconcileUsers(in ReconcileInput) []*model.MergedUser {
	seenIDs := make(map[string]struct{})
	seenEmails := make(map[string]struct{})
	merged := make([]*model.MergedUser, 0, len(in.Remote)+len(in.Local))

	roleChain := []resolver[model.Role]{
		validRole(fromFull(in.FullOverrides, func(o model.FullOverride) *model.Role { return o.Role })),
		validRole(fromMap(map[string]model.Role(in.RoleOverrides))),
		validRole(fromMap(map[string]model.Role(in.StoredRoles))),
	}
	usernameOf := fromFull(in.FullOverrides, func(o model.FullOverride) *string { return o.Username })
	activeOf := fromFull(in.FullOverrides, func(o model.FullOverride) *bool { return o.IsActive })
	verifiedOf := fromFull(in.FullOverrides, func(o model.FullOverride) *bool { return o.IsVerified })

	add := func(users []*model.User, source model.UserSource) {
		for _, u := range users {
			if u == nil {
				continue
			}
			email := util.NormalizeEmail(u.Email)
			keys := util.UserKeys(u.ID, email)
			if len(keys) == 0 {
				continue
			}
			if _, ok := seenIDs[u.ID]; ok && u.ID != "" {
				continue
			}
			if _, ok := seenEmails[email]; ok && email != "" {
				continue
			}
			if u.ID != "" {
				seenIDs[u.ID] = struct{}{}
			}
			if email != "" {
				seenEmails[email] = struct{}{}
			}

			if isDeleted(in.Deleted, keys) {
				continue
			}

			base := u.Role
			if !base.Valid() {
				base = model.RoleUser
			}

			merged = append(merged, &model.MergedUser{
				ID:         u.ID,
				Email:      u.Email,
				Username:   resolve(keys, u.Username, usernameOf),
				Role:       resolve(keys, base, roleChain...),
				IsActive:   resolve(keys, u.IsActive, activeOf),
				IsVerified: resolve(keys, u.IsVerified, verifiedOf),
				AvatarURL:  u.AvatarURL,
				JoinedAt:   u.JoinedAt,
				Source:     source,
			})
		}
	}

	add(in.Remote, model.SourceRemote)
	add(in.Local, model.SourceLocal)

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].JoinedAt.After(merged[j].JoinedAt)
	})
	return merged
}

func isDeleted(markers model.DeletionMarkers, keys []string) bool {
	for _, k := range keys {
		if markers[k] {
			return true
		}
	}
	return false
}
