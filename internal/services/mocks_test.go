package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"hobbies-go/internal/models"
)

// 单元测试不连真实数据库：下面的 mock 实现了 storage 的各个接口，
// 每个测试通过函数字段注入自己需要的行为。

type mockUserRepository struct {
	createFn                    func(ctx context.Context, user *models.User) error
	getByIDFn                   func(ctx context.Context, id uint) (*models.User, error)
	getByUsernameFn             func(ctx context.Context, username string) (*models.User, error)
	updateFn                    func(ctx context.Context, user *models.User) error
	replaceHobbiesFn            func(ctx context.Context, user *models.User, hobbies []*models.Hobby) error
	listOthersFn                func(ctx context.Context, excludeUserID uint, bornOnOrBefore, bornOnOrAfter *time.Time) ([]models.User, error)
	getBasicInfoByIDFn          func(ctx context.Context, id uint) (*models.UserBasicInfo, error)
	getMultipleBasicInfoByIDsFn func(ctx context.Context, userIDs []uint) ([]*models.UserBasicInfo, error)
}

func (m *mockUserRepository) Create(ctx context.Context, user *models.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if m.getByUsernameFn != nil {
		return m.getByUsernameFn(ctx, username)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepository) Update(ctx context.Context, user *models.User) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepository) ReplaceHobbies(ctx context.Context, user *models.User, hobbies []*models.Hobby) error {
	if m.replaceHobbiesFn != nil {
		return m.replaceHobbiesFn(ctx, user, hobbies)
	}
	user.Hobbies = hobbies
	return nil
}

func (m *mockUserRepository) ListOthers(ctx context.Context, excludeUserID uint, bornOnOrBefore, bornOnOrAfter *time.Time) ([]models.User, error) {
	if m.listOthersFn != nil {
		return m.listOthersFn(ctx, excludeUserID, bornOnOrBefore, bornOnOrAfter)
	}
	return nil, nil
}

func (m *mockUserRepository) GetBasicInfoByID(ctx context.Context, id uint) (*models.UserBasicInfo, error) {
	if m.getBasicInfoByIDFn != nil {
		return m.getBasicInfoByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepository) GetMultipleBasicInfoByIDs(ctx context.Context, userIDs []uint) ([]*models.UserBasicInfo, error) {
	if m.getMultipleBasicInfoByIDsFn != nil {
		return m.getMultipleBasicInfoByIDsFn(ctx, userIDs)
	}
	return []*models.UserBasicInfo{}, nil
}

type mockHobbyRepository struct {
	getOrCreateByNameFn func(ctx context.Context, name string) (*models.Hobby, bool, error)
	getByNameFn         func(ctx context.Context, name string) (*models.Hobby, error)
	listAllFn           func(ctx context.Context) ([]models.Hobby, error)
}

func (m *mockHobbyRepository) GetOrCreateByName(ctx context.Context, name string) (*models.Hobby, bool, error) {
	if m.getOrCreateByNameFn != nil {
		return m.getOrCreateByNameFn(ctx, name)
	}
	return &models.Hobby{Name: name}, true, nil
}

func (m *mockHobbyRepository) GetByName(ctx context.Context, name string) (*models.Hobby, error) {
	if m.getByNameFn != nil {
		return m.getByNameFn(ctx, name)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockHobbyRepository) ListAll(ctx context.Context) ([]models.Hobby, error) {
	if m.listAllFn != nil {
		return m.listAllFn(ctx)
	}
	return nil, nil
}

type mockFriendRequestRepository struct {
	createFn                    func(ctx context.Context, request *models.FriendRequest) error
	getRequestByIDFn            func(ctx context.Context, requestID uint) (*models.FriendRequest, error)
	markAcceptedFn              func(ctx context.Context, requestID uint) error
	getPendingRequestsForUserFn func(ctx context.Context, recipientUserID uint) ([]models.FriendRequest, error)
	getFriendIDsFn              func(ctx context.Context, userID uint) ([]uint, error)

	markAcceptedCalls []uint
}

func (m *mockFriendRequestRepository) Create(ctx context.Context, request *models.FriendRequest) error {
	if m.createFn != nil {
		return m.createFn(ctx, request)
	}
	return nil
}

func (m *mockFriendRequestRepository) GetRequestByID(ctx context.Context, requestID uint) (*models.FriendRequest, error) {
	if m.getRequestByIDFn != nil {
		return m.getRequestByIDFn(ctx, requestID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockFriendRequestRepository) MarkAccepted(ctx context.Context, requestID uint) error {
	m.markAcceptedCalls = append(m.markAcceptedCalls, requestID)
	if m.markAcceptedFn != nil {
		return m.markAcceptedFn(ctx, requestID)
	}
	return nil
}

func (m *mockFriendRequestRepository) GetPendingRequestsForUser(ctx context.Context, recipientUserID uint) ([]models.FriendRequest, error) {
	if m.getPendingRequestsForUserFn != nil {
		return m.getPendingRequestsForUserFn(ctx, recipientUserID)
	}
	return nil, nil
}

func (m *mockFriendRequestRepository) GetFriendIDs(ctx context.Context, userID uint) ([]uint, error) {
	if m.getFriendIDsFn != nil {
		return m.getFriendIDsFn(ctx, userID)
	}
	return nil, nil
}

type mockNotificationRepository struct {
	createFn      func(ctx context.Context, notification *models.Notification) error
	getByIDFn     func(ctx context.Context, id uint) (*models.Notification, error)
	listForUserFn func(ctx context.Context, userID uint) ([]models.Notification, error)
	markReadFn    func(ctx context.Context, id uint, readAt time.Time) error

	markReadCalls []uint
}

func (m *mockNotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	if m.createFn != nil {
		return m.createFn(ctx, notification)
	}
	return nil
}

func (m *mockNotificationRepository) GetByID(ctx context.Context, id uint) (*models.Notification, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockNotificationRepository) ListForUser(ctx context.Context, userID uint) ([]models.Notification, error) {
	if m.listForUserFn != nil {
		return m.listForUserFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockNotificationRepository) MarkRead(ctx context.Context, id uint, readAt time.Time) error {
	m.markReadCalls = append(m.markReadCalls, id)
	if m.markReadFn != nil {
		return m.markReadFn(ctx, id, readAt)
	}
	return nil
}

// mockProducer 记录发往 Kafka 的消息。
type mockProducer struct {
	sendFn   func(ctx context.Context, topic string, key, value []byte) error
	messages []mockProducedMessage
}

type mockProducedMessage struct {
	Topic string
	Key   []byte
	Value []byte
}

func (m *mockProducer) SendMessage(ctx context.Context, topic string, key, value []byte) error {
	m.messages = append(m.messages, mockProducedMessage{Topic: topic, Key: key, Value: value})
	if m.sendFn != nil {
		return m.sendFn(ctx, topic, key, value)
	}
	return nil
}

func (m *mockProducer) Close() {}
