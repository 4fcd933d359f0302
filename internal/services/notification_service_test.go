package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hobbies-go/internal/models"
)

func TestNotificationList_NeverReturnsNil(t *testing.T) {
	svc := NewNotificationService(&mockNotificationRepository{})

	notifications, err := svc.List(context.Background(), 1)
	require.NoError(t, err)
	assert.NotNil(t, notifications)
	assert.Empty(t, notifications)
}

func TestNotificationMarkRead(t *testing.T) {
	stored := &models.Notification{UserID: 1, Type: models.NotificationTypeFriendRequest}
	stored.ID = 9

	repo := &mockNotificationRepository{
		getByIDFn: func(ctx context.Context, id uint) (*models.Notification, error) {
			return stored, nil
		},
	}
	svc := NewNotificationService(repo)

	err := svc.MarkRead(context.Background(), 1, 9)
	require.NoError(t, err)
	require.Len(t, repo.markReadCalls, 1)
	assert.Equal(t, uint(9), repo.markReadCalls[0])
}

func TestNotificationMarkRead_NotFound(t *testing.T) {
	svc := NewNotificationService(&mockNotificationRepository{})

	err := svc.MarkRead(context.Background(), 1, 404)
	assert.ErrorIs(t, err, ErrNotificationNotFound)
}

func TestNotificationMarkRead_OnlyOwner(t *testing.T) {
	stored := &models.Notification{UserID: 2}
	stored.ID = 9

	repo := &mockNotificationRepository{
		getByIDFn: func(ctx context.Context, id uint) (*models.Notification, error) {
			return stored, nil
		},
	}
	svc := NewNotificationService(repo)

	err := svc.MarkRead(context.Background(), 1, 9)
	assert.ErrorIs(t, err, ErrNotNotificationOwner)
	assert.Empty(t, repo.markReadCalls)
}

func TestNotificationMarkRead_AlreadyReadIsIdempotent(t *testing.T) {
	readAt := time.Now()
	stored := &models.Notification{UserID: 1, ReadAt: &readAt}
	stored.ID = 9

	repo := &mockNotificationRepository{
		getByIDFn: func(ctx context.Context, id uint) (*models.Notification, error) {
			return stored, nil
		},
	}
	svc := NewNotificationService(repo)

	err := svc.MarkRead(context.Background(), 1, 9)
	require.NoError(t, err)
	assert.Empty(t, repo.markReadCalls)
}
