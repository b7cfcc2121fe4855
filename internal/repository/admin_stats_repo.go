package repository

import (
	"WorkUs/internal/model"
	"WorkUs/internal/pkg/consts"
	"WorkUs/internal/pkg/kvstore"
	"context"
)

type AdminStatsRepo interface {
	GetStats(ctx context.Context) (*model.AdminStats, error)
	SaveStats(ctx context.Context, stats *model.AdminStats) error
}

type adminStatsRepoImpl struct {
	store kvstore.Store
}

func NewAdminStatsRepo(store kvstore.Store) AdminStatsRepo {
	return &adminStatsRepoImpl{store: store}
}

func (s *adminStatsRepoImpl) GetStats(ctx context.Context) (*model.AdminStats, error) {
	stats, err := kvstore.GetJSON[model.AdminStats](ctx, s.store, consts.AdminStatsKey)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *adminStatsRepoImpl) SaveStats(ctx context.Context, stats *model.AdminStats) error {
	return kvstore.SetJSON(ctx, s.store, consts.AdminStatsKey, stats)
}
