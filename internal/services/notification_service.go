package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hobbies-go/internal/models"
	"hobbies-go/internal/storage"

	"gorm.io/gorm"
)

var (
	ErrNotificationNotFound = errors.New("通知不存在")
	ErrNotNotificationOwner = errors.New("您不是此通知的接收者")
)

// NotificationService 定义了站内通知的接口。
// 写入发生在 Kafka 好友事件消费者里，这里只负责查询和已读标记。
type NotificationService interface {
	List(ctx context.Context, userID uint) ([]models.Notification, error)
	MarkRead(ctx context.Context, actorID, notificationID uint) error
}

type notificationService struct {
	notificationRepo storage.NotificationRepository
}

// NewNotificationService 创建一个新的 NotificationService 实例。
func NewNotificationService(notificationRepo storage.NotificationRepository) NotificationService {
	return &notificationService{notificationRepo: notificationRepo}
}

// List 返回 userID 的全部通知，新的在前。
func (s *notificationService) List(ctx context.Context, userID uint) ([]models.Notification, error) {
	notifications, err := s.notificationRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("获取通知列表失败: %w", err)
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}
	return notifications, nil
}

// MarkRead 将一条通知标记为已读，只有接收者本人可以操作。
func (s *notificationService) MarkRead(ctx context.Context, actorID, notificationID uint) error {
	notification, err := s.notificationRepo.GetByID(ctx, notificationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		return fmt.Errorf("检索通知 %d 失败: %w", notificationID, err)
	}

	if notification.UserID != actorID {
		return ErrNotNotificationOwner
	}

	if notification.ReadAt != nil {
		return nil // 已读，重复标记无害
	}

	if err := s.notificationRepo.MarkRead(ctx, notificationID, time.Now()); err != nil {
		return fmt.Errorf("标记通知 %d 已读失败: %w", notificationID, err)
	}
	return nil
}
