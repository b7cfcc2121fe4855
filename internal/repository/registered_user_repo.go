package repository

import (
	"WorkUs/internal/model"
	"WorkUs/internal/pkg/consts"
	"WorkUs/internal/pkg/kvstore"
	"WorkUs/internal/pkg/util"
	"context"
)

// RegisteredUserRepo 持久化 KV 中的注册用户列表
type RegisteredUserRepo interface {
	ListUsers(ctx context.Context) ([]*model.RegisteredUser, error)
	// PatchUser 修改匹配 id 或邮箱的条目，返回是否命中
	PatchUser(ctx context.Context, id, email string, patch model.FullOverride) (bool, error)
	RemoveUser(ctx context.Context, id, email string) (bool, error)
}

type registeredUserRepoImpl struct {
	store kvstore.Store
}

func NewRegisteredUserRepo(store kvstore.Store) RegisteredUserRepo {
	return &registeredUserRepoImpl{store: store}
}

func (s *registeredUserRepoImpl) ListUsers(ctx context.Context) ([]*model.RegisteredUser, error) {
	return kvstore.GetJSON[[]*model.RegisteredUser](ctx, s.store, consts.RegisteredUsersKey)
}

func (s *registeredUserRepoImpl) PatchUser(ctx context.Context, id, email string, patch model.FullOverride) (bool, error) {
	hit := false
	err := kvstore.UpdateJSON(ctx, s.store, consts.RegisteredUsersKey, func(list *[]*model.RegisteredUser) error {
		for _, u := range *list {
			if u == nil || !sameUser(u, id, email) {
				continue
			}
			hit = true
			if patch.Role != nil {
				u.Role = *patch.Role
			}
			if patch.Username != nil {
				u.Username = *patch.Username
			}
		}
		return nil
	})
	return hit, err
}

func (s *registeredUserRepoImpl) RemoveUser(ctx context.Context, id, email string) (bool, error) {
	hit := false
	err := kvstore.UpdateJSON(ctx, s.store, consts.RegisteredUsersKey, func(list *[]*model.RegisteredUser) error {
		kept := make([]*model.RegisteredUser, 0, len(*list))
		for _, u := range *list {
			if u == nil {
				continue
			}
			if sameUser(u, id, email) {
				hit = true
				continue
			}
			kept = append(kept, u)
		}
		*list = kept
		return nil
	})
	return hit, err
}

func sameUser(u *model.RegisteredUser, id, email string) bool {
	if id != "" && u.ID == id {
		return true
	}
	e := util.NormalizeEmail(email)
	return e != "" && util.NormalizeEmail(u.Email) == e
}
