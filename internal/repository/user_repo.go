package repository

import (
	"WorkUs/internal/model"
	"context"

	"gorm.io/gorm"
)

type UserRepo interface {
	ListUsers(ctx context.Context) ([]*model.User, error)
	UpdateUserFields(ctx context.Context, id string, fields map[string]any) (int64, error)
	DeleteUser(ctx context.Context, id string) (int64, error)
}

type UserRepoImpl struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepo {
	return &UserRepoImpl{db: db}
}

func (s *UserRepoImpl) ListUsers(ctx context.Context) ([]*model.User, error) {
	users := make([]*model.User, 0)
	result := s.db.WithContext(ctx).
		Order("joined_at DESC").
		Find(&users)
	if result.Error != nil {
		return nil, result.Error
	}
	return users, nil
}

func (s *UserRepoImpl) UpdateUserFields(ctx context.Context, id string, fields map[string]any) (int64, error) {
	result := s.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Updates(fields)
	return result.RowsAffected, result.Error
}

func (s *UserRepoImpl) DeleteUser(ctx context.Context, id string) (int64, error) {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&model.User{})
	return result.RowsAffected, result.Error
}
