package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"hobbies-go/internal/models"
	"hobbies-go/internal/services"
	"hobbies-go/internal/storage"
	ws "hobbies-go/internal/websocket"

	confluentKafka "github.com/confluentinc/confluent-kafka-go/v2/kafka"
)

// FriendEventHandler consumes friend events from Kafka, persists a
// notification row for the affected user and pushes it over the hub.
// 数据库行是事实来源；WebSocket 推送失败不算错误。
type FriendEventHandler struct {
	userRepo         storage.UserRepository
	notificationRepo storage.NotificationRepository
	hub              *ws.Hub
}

// NewFriendEventHandler 创建一个新的 FriendEventHandler 实例。
func NewFriendEventHandler(
	userRepo storage.UserRepository,
	notificationRepo storage.NotificationRepository,
	hub *ws.Hub,
) *FriendEventHandler {
	return &FriendEventHandler{
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		hub:              hub,
	}
}

// Handle processes one friend event message.
// 返回 nil 表示可以提交 offset；返回错误表示处理失败、消息会被重试。
func (h *FriendEventHandler) Handle(ctx context.Context, kafkaMsg *confluentKafka.Message) error {
	var event services.FriendEvent
	if err := json.Unmarshal(kafkaMsg.Value, &event); err != nil {
		log.Printf("Error unmarshalling friend event from Kafka: %v, value: %s", err, string(kafkaMsg.Value))
		return nil // 坏消息，提交 offset 跳过
	}

	notification, err := h.buildNotification(ctx, event)
	if err != nil {
		return err // Retryable
	}
	if notification == nil {
		return nil // 未知事件类型，跳过
	}

	if err := h.notificationRepo.Create(ctx, notification); err != nil {
		log.Printf("Error saving notification for user %d (event %s): %v", notification.UserID, event.Type, err)
		return err // Retryable
	}

	if h.hub != nil {
		payload, err := json.Marshal(notification)
		if err == nil {
			h.hub.Deliver(notification.UserID, payload)
		}
	}
	return nil
}

// buildNotification 将事件翻译成通知行："requested" 通知接收者，
// "accepted" 通知最初的发送者。
func (h *FriendEventHandler) buildNotification(ctx context.Context, event services.FriendEvent) (*models.Notification, error) {
	switch event.Type {
	case services.FriendEventRequested:
		actor, err := h.userRepo.GetBasicInfoByID(ctx, event.FromUserID)
		if err != nil {
			return nil, fmt.Errorf("获取事件用户 %d 信息失败: %w", event.FromUserID, err)
		}
		return &models.Notification{
			UserID:  event.ToUserID,
			ActorID: event.FromUserID,
			Type:    models.NotificationTypeFriendRequest,
			Message: fmt.Sprintf("%s 向你发送了好友请求", actor.Username),
		}, nil

	case services.FriendEventAccepted:
		actor, err := h.userRepo.GetBasicInfoByID(ctx, event.ToUserID)
		if err != nil {
			return nil, fmt.Errorf("获取事件用户 %d 信息失败: %w", event.ToUserID, err)
		}
		return &models.Notification{
			UserID:  event.FromUserID,
			ActorID: event.ToUserID,
			Type:    models.NotificationTypeRequestAccepted,
			Message: fmt.Sprintf("%s 接受了你的好友请求", actor.Username),
		}, nil

	default:
		log.Printf("Skipping friend event with unknown type %q", event.Type)
		return nil, nil
	}
}
