package storage

import (
	"context"

	"gorm.io/gorm"

	"hobbies-go/internal/models"
)

// FriendRequestRepository defines the interface for friend request data operations.
type FriendRequestRepository interface {
	// Create inserts a new pending request. A duplicate (from,to) pair fails
	// at the unique constraint; callers detect that with IsUniqueViolation.
	Create(ctx context.Context, request *models.FriendRequest) error
	GetRequestByID(ctx context.Context, requestID uint) (*models.FriendRequest, error)
	MarkAccepted(ctx context.Context, requestID uint) error
	GetPendingRequestsForUser(ctx context.Context, recipientUserID uint) ([]models.FriendRequest, error)
	GetFriendIDs(ctx context.Context, userID uint) ([]uint, error)
}

type gormFriendRequestRepository struct {
	db *gorm.DB
}

// NewGormFriendRequestRepository creates a new GORM-based FriendRequestRepository.
func NewGormFriendRequestRepository(db *gorm.DB) FriendRequestRepository {
	return &gormFriendRequestRepository{db: db}
}

func (r *gormFriendRequestRepository) Create(ctx context.Context, request *models.FriendRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *gormFriendRequestRepository) GetRequestByID(ctx context.Context, requestID uint) (*models.FriendRequest, error) {
	var request models.FriendRequest
	err := r.db.WithContext(ctx).First(&request, requestID).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// MarkAccepted sets accepted=true on the given request.
// 对已接受的请求重复调用是无害的（幂等）。
func (r *gormFriendRequestRepository) MarkAccepted(ctx context.Context, requestID uint) error {
	return r.db.WithContext(ctx).
		Model(&models.FriendRequest{}).
		Where("id = ?", requestID).
		Update("accepted", true).Error
}

func (r *gormFriendRequestRepository) GetPendingRequestsForUser(ctx context.Context, recipientUserID uint) ([]models.FriendRequest, error) {
	var requests []models.FriendRequest
	err := r.db.WithContext(ctx).
		Where("to_user_id = ? AND accepted = ?", recipientUserID, false).
		Order("created_at").
		Find(&requests).Error
	return requests, err
}

// GetFriendIDs retrieves the IDs of all friends of userID.
// 好友关系不落库：它是已接受请求在两个方向上的并集。
func (r *gormFriendRequestRepository) GetFriendIDs(ctx context.Context, userID uint) ([]uint, error) {
	// Users this user sent an accepted request to
	var sentTo []uint
	err := r.db.WithContext(ctx).Model(&models.FriendRequest{}).
		Where("from_user_id = ? AND accepted = ?", userID, true).
		Pluck("to_user_id", &sentTo).Error
	if err != nil {
		return nil, err
	}

	// Users this user received an accepted request from
	var receivedFrom []uint
	err = r.db.WithContext(ctx).Model(&models.FriendRequest{}).
		Where("to_user_id = ? AND accepted = ?", userID, true).
		Pluck("from_user_id", &receivedFrom).Error
	if err != nil {
		return nil, err
	}

	friendIDs := append(sentTo, receivedFrom...)
	return friendIDs, nil
}
