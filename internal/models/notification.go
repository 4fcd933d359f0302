package models

import "time"

// NotificationType 定义通知的类型。
type NotificationType string

const (
	// NotificationTypeFriendRequest 有人向我发送了好友请求。
	NotificationTypeFriendRequest NotificationType = "friend_request"
	// NotificationTypeRequestAccepted 我发送的好友请求被接受了。
	NotificationTypeRequestAccepted NotificationType = "request_accepted"
)

// Notification 代表一条发给某个用户的站内通知。
// 由 Kafka 好友事件消费者写入，WebSocket 仅做尽力推送，数据库行才是事实来源。
type Notification struct {
	BaseModel
	UserID  uint             `gorm:"not null;index" json:"user_id"` // 通知的接收者
	ActorID uint             `gorm:"not null" json:"actor_id"`      // 触发通知的用户
	Type    NotificationType `gorm:"type:varchar(30);not null" json:"type"`
	Message string           `gorm:"type:text" json:"message,omitempty"`
	ReadAt  *time.Time       `json:"readAt,omitempty"`
}

// TableName 指定 Notification 模型的表名。
func (Notification) TableName() string {
	return "notifications"
}
