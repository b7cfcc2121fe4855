package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type NotificationRepo interface {
	CreateNotification(ctx context.Context, msg *NotificationModel) error
	GetNotificationList(ctx context.Context, receiverID string, limit, offset int64) ([]*NotificationModel, error)
	DeleteByReceiver(ctx context.Context, receiverID string) (int64, error)
}

type notificationRepoImpl struct {
	col *mongo.Collection
}

// NewNotificationRepo db 为 nil 时返回空实现
func NewNotificationRepo(db *mongo.Database) NotificationRepo {
	if db == nil {
		return noopNotificationRepo{}
	}
	return &notificationRepoImpl{
		col: db.Collection("admin_notifications"),
	}
}

// CreateNotification 插入新通知
func (s *notificationRepoImpl) CreateNotification(ctx context.Context, msg *NotificationModel) error {
	_, err := s.col.InsertOne(ctx, msg)
	return err
}

// GetNotificationList 分页获取用户的通知列表 (按时间倒序)
func (s *notificationRepoImpl) GetNotificationList(ctx context.Context, receiverID string, limit, offset int64) ([]*NotificationModel, error) {
	filter := bson.M{"receiver_id": receiverID}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit).
		SetSkip(offset)

	cursor, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var list []*NotificationModel
	if err = cursor.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// DeleteByReceiver 用户被删除后清理其通知
func (s *notificationRepoImpl) DeleteByReceiver(ctx context.Context, receiverID string) (int64, error) {
	res, err := s.col.DeleteMany(ctx, bson.M{"receiver_id": receiverID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

type noopNotificationRepo struct{}

func (noopNotificationRepo) CreateNotification(context.Context, *NotificationModel) error {
	return nil
}

func (noopNotificationRepo) GetNotificationList(context.Context, string, int64, int64) ([]*NotificationModel, error) {
	return []*NotificationModel{}, nil
}

func (noopNotificationRepo) DeleteByReceiver(context.Context, string) (int64, error) {
	return 0, nil
}
