package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"hobbies-go/internal/config"
	"hobbies-go/internal/kafka"
	"hobbies-go/internal/models"
	"hobbies-go/internal/storage"

	"gorm.io/gorm"
)

var (
	ErrFriendRequestSelf     = errors.New("不能向自己发送好友请求")
	ErrTargetUserNotFound    = errors.New("目标用户不存在")
	ErrFriendRequestExists   = errors.New("该好友请求已存在")
	ErrFriendRequestNotFound = errors.New("好友请求不存在")
	ErrNotRecipientOfRequest = errors.New("您不是此好友请求的接收者")
	ErrInvalidAction         = errors.New("无效的操作")
)

// FriendEventType 定义好友事件的类型。
type FriendEventType string

const (
	FriendEventRequested FriendEventType = "requested"
	FriendEventAccepted  FriendEventType = "accepted"
)

// FriendEvent is the Kafka payload published after a friend-request state
// change has been committed. Consumed by the notification handler.
type FriendEvent struct {
	Type       FriendEventType `json:"type"`
	RequestID  uint            `json:"requestId"`
	FromUserID uint            `json:"fromUserId"`
	ToUserID   uint            `json:"toUserId"`
	Timestamp  time.Time       `json:"timestamp"`
}

// FriendRequestService 定义了好友请求生命周期的接口。
// 状态机只有 pending → accepted 一条边，接受是终态；没有拒绝或撤销。
//
// 方向策略（各版本行为不一致，这里固定为）：A→B 与 B→A 互不影响——
// 接受 A→B 既不会创建 B→A，也不会阻止之后再发 B→A。
type FriendRequestService interface {
	// Send 以 fromUserID 的身份向 toUserID 创建一条待处理请求。
	Send(ctx context.Context, fromUserID, toUserID uint) (*models.FriendRequest, error)
	// Respond 以 actorID 的身份对请求执行 action，目前只定义了 "accept"。
	Respond(ctx context.Context, actorID, requestID uint, action string) error
	// ListPending 返回发给 userID 且尚未接受的全部请求。
	ListPending(ctx context.Context, userID uint) ([]*models.FriendRequestWithSender, error)
	// Friends 返回 userID 的好友（双向已接受请求的并集）。
	Friends(ctx context.Context, userID uint) ([]*models.UserBasicInfo, error)
}

type friendRequestService struct {
	userRepo    storage.UserRepository
	friendRepo  storage.FriendRequestRepository
	producer    kafka.MessageProducer
	kafkaConfig config.KafkaConfig
}

// NewFriendRequestService 创建一个新的 FriendRequestService 实例。
func NewFriendRequestService(
	userRepo storage.UserRepository,
	friendRepo storage.FriendRequestRepository,
	producer kafka.MessageProducer,
	cfg config.KafkaConfig,
) FriendRequestService {
	return &friendRequestService{
		userRepo:    userRepo,
		friendRepo:  friendRepo,
		producer:    producer,
		kafkaConfig: cfg,
	}
}

// Send 创建一条待处理请求。重复的有序对由唯一约束原子地拒绝，
// 不做先查后插；反向的请求是另一个有序对，不在检查范围内。
func (s *friendRequestService) Send(ctx context.Context, fromUserID, toUserID uint) (*models.FriendRequest, error) {
	if fromUserID == toUserID {
		return nil, ErrFriendRequestSelf
	}

	if _, err := s.userRepo.GetBasicInfoByID(ctx, toUserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTargetUserNotFound
		}
		return nil, fmt.Errorf("检查目标用户 %d 时出错: %w", toUserID, err)
	}

	request := &models.FriendRequest{
		FromUserID: fromUserID,
		ToUserID:   toUserID,
	}
	if err := s.friendRepo.Create(ctx, request); err != nil {
		if storage.IsUniqueViolation(err) {
			return nil, ErrFriendRequestExists
		}
		return nil, fmt.Errorf("创建好友请求失败: %w", err)
	}

	s.publishEvent(ctx, FriendEvent{
		Type:       FriendEventRequested,
		RequestID:  request.ID,
		FromUserID: fromUserID,
		ToUserID:   toUserID,
		Timestamp:  time.Now(),
	})
	return request, nil
}

// Respond 处理接收者对请求的操作。重复接受已接受的请求静默成功，
// 并且不会再发第二次事件。
func (s *friendRequestService) Respond(ctx context.Context, actorID, requestID uint, action string) error {
	if action != "accept" {
		return ErrInvalidAction
	}

	request, err := s.friendRepo.GetRequestByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFriendRequestNotFound
		}
		return fmt.Errorf("检索好友请求 %d 失败: %w", requestID, err)
	}

	if request.ToUserID != actorID {
		return ErrNotRecipientOfRequest
	}

	if request.Accepted {
		return nil // 幂等：已接受的请求再次接受直接成功
	}

	if err := s.friendRepo.MarkAccepted(ctx, requestID); err != nil {
		return fmt.Errorf("更新好友请求 %d 状态失败: %w", requestID, err)
	}

	s.publishEvent(ctx, FriendEvent{
		Type:       FriendEventAccepted,
		RequestID:  request.ID,
		FromUserID: request.FromUserID,
		ToUserID:   request.ToUserID,
		Timestamp:  time.Now(),
	})
	return nil
}

// ListPending retrieves all pending friend requests addressed to userID,
// enriched with basic sender info.
func (s *friendRequestService) ListPending(ctx context.Context, userID uint) ([]*models.FriendRequestWithSender, error) {
	pendingRequests, err := s.friendRepo.GetPendingRequestsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("获取待处理好友请求失败: %w", err)
	}

	resultDTOs := []*models.FriendRequestWithSender{}
	for _, req := range pendingRequests {
		sender, err := s.userRepo.GetBasicInfoByID(ctx, req.FromUserID)
		if err != nil {
			log.Printf("Error fetching sender info for user %d (request %d): %v", req.FromUserID, req.ID, err)
			continue
		}
		resultDTOs = append(resultDTOs, &models.FriendRequestWithSender{
			FriendRequest: req,
			Sender:        sender,
		})
	}
	return resultDTOs, nil
}

// Friends retrieves the basic info for all friends of the given user.
// 好友关系按需计算，不落库。
func (s *friendRequestService) Friends(ctx context.Context, userID uint) ([]*models.UserBasicInfo, error) {
	friendIDs, err := s.friendRepo.GetFriendIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("获取好友列表失败: %w", err)
	}

	if len(friendIDs) == 0 {
		return []*models.UserBasicInfo{}, nil
	}

	friendsInfo, err := s.userRepo.GetMultipleBasicInfoByIDs(ctx, friendIDs)
	if err != nil {
		return nil, fmt.Errorf("获取好友信息失败: %w", err)
	}
	return friendsInfo, nil
}

// publishEvent 尽力而为地发布好友事件：失败只记录日志，不影响已提交的写入。
func (s *friendRequestService) publishEvent(ctx context.Context, event FriendEvent) {
	if s.producer == nil {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("Error marshalling friend event %+v: %v", event, err)
		return
	}
	key := []byte(fmt.Sprintf("%d-%d", event.FromUserID, event.ToUserID))
	if err := s.producer.SendMessage(ctx, s.kafkaConfig.FriendEventTopic, key, payload); err != nil {
		log.Printf("Error publishing friend event to topic %s: %v", s.kafkaConfig.FriendEventTopic, err)
	}
}
