package repository

import (
	"WorkUs/internal/model"
	"context"
	"slices"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DailyUserRecordRepo interface {
	// ListRecords 返回最近 limit 条记录，按日期升序
	ListRecords(ctx context.Context, limit int) ([]*model.DailyUserRecord, error)
	SaveRecord(ctx context.Context, record *model.DailyUserRecord) error
	// PruneBefore 删除早于 date 的记录
	PruneBefore(ctx context.Context, date string) (int64, error)
}

type dailyUserRecordRepoImpl struct {
	db *gorm.DB
}

func NewDailyUserRecordRepo(db *gorm.DB) DailyUserRecordRepo {
	return &dailyUserRecordRepoImpl{db: db}
}

func (s *dailyUserRecordRepoImpl) ListRecords(ctx context.Context, limit int) ([]*model.DailyUserRecord, error) {
	records := make([]*model.DailyUserRecord, 0, limit)
	result := s.db.WithContext(ctx).
		Order("date DESC").
		Limit(limit).
		Find(&records)
	if result.Error != nil {
		return nil, result.Error
	}
	slices.Reverse(records)
	return records, nil
}

func (s *dailyUserRecordRepoImpl) SaveRecord(ctx context.Context, record *model.DailyUserRecord) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"total_users", "new_users", "updated_at"}),
	}).Create(record).Error
}

func (s *dailyUserRecordRepoImpl) PruneBefore(ctx context.Context, date string) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("date < ?", date).
		Delete(&model.DailyUserRecord{})
	return result.RowsAffected, result.Error
}
