package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationType 通知类型
type NotificationType string

const (
	NotifyRoleChanged    NotificationType = "role_changed"
	NotifyProfileUpdated NotificationType = "profile_updated"
	NotifyActivated      NotificationType = "activated"
	NotifyDeactivated    NotificationType = "deactivated"
)

// NotificationModel 管理员操作产生的系统通知
type NotificationModel struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ReceiverID  string             `bson:"receiver_id" json:"receiverId"`
	ReceiverKey string             `bson:"receiver_key" json:"receiverKey"` // 规范化邮箱，远程与本地 id 不一致时用于匹配
	OperatorID  string             `bson:"operator_id" json:"operatorId"`
	Type        NotificationType   `bson:"type" json:"type"`
	Content     string             `bson:"content" json:"content"`
	Payload     map[string]any     `bson:"payload,omitempty" json:"payload,omitempty"`
	IsRead      bool               `bson:"is_read" json:"isRead"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
}
