package repository

import (
	"WorkUs/internal/model"
	"WorkUs/internal/pkg/consts"
	"WorkUs/internal/pkg/kvstore"
	"context"
	log "log/slog"
)

// OverrideRepo 管理员覆盖表与删除标记，写入按 id 和规范化邮箱双键
type OverrideRepo interface {
	Tables(ctx context.Context) (*model.OverrideTables, error)
	PutRole(ctx context.Context, keys []string, role model.Role) error
	PutFull(ctx context.Context, keys []string, patch model.FullOverride) error
	MarkDeleted(ctx context.Context, keys []string) error
	ClearOverrides(ctx context.Context, keys []string) error
}

type overrideRepoImpl struct {
	store kvstore.Store
}

func NewOverrideRepo(store kvstore.Store) OverrideRepo {
	return &overrideRepoImpl{store: store}
}

func (s *overrideRepoImpl) Tables(ctx context.Context) (*model.OverrideTables, error) {
	roles, err := kvstore.GetJSON[map[string]string](ctx, s.store, consts.RoleOverridesKey)
	if err != nil {
		return nil, err
	}
	full, err := kvstore.GetJSON[model.FullOverrides](ctx, s.store, consts.FullOverridesKey)
	if err != nil {
		return nil, err
	}
	deleted, err := kvstore.GetJSON[model.DeletionMarkers](ctx, s.store, consts.DeletedUsersKey)
	if err != nil {
		return nil, err
	}

	tables := &model.OverrideTables{
		Roles:   make(model.RoleOverrides, len(roles)),
		Full:    make(model.FullOverrides, len(full)),
		Deleted: make(model.DeletionMarkers, len(deleted)),
	}
	for k, v := range roles {
		role, ok := model.ParseRole(v)
		if !ok {
			log.WarnContext(ctx, "drop invalid role override", "key", k, "role", v)
			continue
		}
		tables.Roles[k] = role
	}
	for k, v := range full {
		if v.Role != nil && !v.Role.Valid() {
			log.WarnContext(ctx, "drop invalid role in full override", "key", k, "role", *v.Role)
			v.Role = nil
		}
		if v.Empty() {
			continue
		}
		tables.Full[k] = v
	}
	for k, v := range deleted {
		if v {
			tables.Deleted[k] = true
		}
	}
	return tables, nil
}

func (s *overrideRepoImpl) PutRole(ctx context.Context, keys []string, role model.Role) error {
	return kvstore.UpdateJSON(ctx, s.store, consts.RoleOverridesKey, func(m *model.RoleOverrides) error {
		if *m == nil {
			*m = make(model.RoleOverrides)
		}
		for _, k := range keys {
			(*m)[k] = role
		}
		return nil
	})
}

func (s *overrideRepoImpl) PutFull(ctx context.Context, keys []string, patch model.FullOverride) error {
	return kvstore.UpdateJSON(ctx, s.store, consts.FullOverridesKey, func(m *model.FullOverrides) error {
		if *m == nil {
			*m = make(model.FullOverrides)
		}
		for _, k := range keys {
			(*m)[k] = (*m)[k].Merge(patch)
		}
		return nil
	})
}

func (s *overrideRepoImpl) MarkDeleted(ctx context.Context, keys []string) error {
	return kvstore.UpdateJSON(ctx, s.store, consts.DeletedUsersKey, func(m *model.DeletionMarkers) error {
		if *m == nil {
			*m = make(model.DeletionMarkers)
		}
		for _, k := range keys {
			(*m)[k] = true
		}
		return nil
	})
}

func (s *overrideRepoImpl) ClearOverrides(ctx context.Context, keys []string) error {
	err := kvstore.UpdateJSON(ctx, s.store, consts.RoleOverridesKey, func(m *model.RoleOverrides) error {
		for _, k := range keys {
			delete(*m, k)
		}
		return nil
	})
	if err != nil {
		return err
	}
	return kvstore.UpdateJSON(ctx, s.store, consts.FullOverridesKey, func(m *model.FullOverrides) error {
		for _, k := range keys {
			delete(*m, k)
		}
		return nil
	})
}
