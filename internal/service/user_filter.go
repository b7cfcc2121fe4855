package service

import (
	"WorkUs/internal/model"
	"strings"
)

// UserFilter 列表筛选条件，零值表示不筛选
type UserFilter struct {
	Role    model.Role
	Active  *bool
	Keyword string
}

// UserSummary 列表汇总
type UserSummary struct {
	Total    int                `json:"total"`
	Active   int                `json:"active"`
	Inactive int                `json:"inactive"`
	Verified int                `json:"verified"`
	ByRole   map[model.Role]int `json:"byRole"`
}

// FilterUsers 按角色、启用状态和关键字（用户名或邮箱，忽略大小写）筛选
func FilterUsers(users []*model.MergedUser, f UserFilter) []*model.MergedUser {
	keyword := strings.ToLower(strings.TrimSpace(f.Keyword))
	out := make([]*model.MergedUser, 0, len(users))
	for _, u := range users {
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		if f.Active != nil && u.IsActive != *f.Active {
			continue
		}
		if keyword != "" &&
			!strings.Contains(strings.ToLower(u.Username), keyword) &&
			!strings.Contains(strings.ToLower(u.Email), keyword) {
			continue
		}
		out = append(out, u)
	}
	return out
}

func Summarize(users []*model.MergedUser) UserSummary {
	sum := UserSummary{
		Total:  len(users),
		ByRole: make(map[model.Role]int, len(model.Roles)),
	}
	for _, r := range model.Roles {
		sum.ByRole[r] = 0
	}
	for _, u := range users {
		sum.ByRole[u.Role]++
		if u.IsActive {
			sum.Active++
		} else {
			sum.Inactive++
		}
		if u.IsVerified {
			sum.Verified++
		}
	}
	return sum
}
