package service

import (
	"context"
	"testing"

	"devconnect/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationService_MarkRead(t *testing.T) {
	t.Parallel()

	t.Run("marks and is idempotent", func(t *testing.T) {
		t.Parallel()
		notifs := noopNotifRepo()
		notifs.markReadFn = func(_ context.Context, userID, id uint) (bool, error) {
			// The repository reports true for an existing row whether or not
			// it was already read.
			return userID == 7 && id == 3, nil
		}
		svc := NewNotificationService(notifs)

		require.NoError(t, svc.MarkRead(context.Background(), 7, 3))
		require.NoError(t, svc.MarkRead(context.Background(), 7, 3))
	})

	t.Run("unknown id", func(t *testing.T) {
		t.Parallel()
		svc := NewNotificationService(noopNotifRepo())
		err := svc.MarkRead(context.Background(), 7, 99)
		assertNotFoundError(t, err)
	})

	t.Run("another user's notification looks missing", func(t *testing.T) {
		t.Parallel()
		notifs := noopNotifRepo()
		notifs.markReadFn = func(_ context.Context, userID, _ uint) (bool, error) {
			return userID == 7, nil
		}
		svc := NewNotificationService(notifs)
		err := svc.MarkRead(context.Background(), 8, 3)
		assertNotFoundError(t, err)
	})
}

func TestNotificationService_Delete(t *testing.T) {
	t.Parallel()

	t.Run("deletes own notification", func(t *testing.T) {
		t.Parallel()
		notifs := noopNotifRepo()
		notifs.deleteFn = func(_ context.Context, userID, id uint) (bool, error) {
			return userID == 7 && id == 3, nil
		}
		svc := NewNotificationService(notifs)
		require.NoError(t, svc.Delete(context.Background(), 7, 3))
	})

	t.Run("unknown id", func(t *testing.T) {
		t.Parallel()
		svc := NewNotificationService(noopNotifRepo())
		err := svc.Delete(context.Background(), 7, 99)
		assertNotFoundError(t, err)
	})
}

func TestNotificationService_List(t *testing.T) {
	t.Parallel()

	notifs := noopNotifRepo()
	notifs.listByUserFn = func(_ context.Context, userID uint, limit, offset int) ([]models.Notification, error) {
		assert.Equal(t, uint(7), userID)
		assert.Equal(t, 20, limit)
		assert.Equal(t, 0, offset)
		return []models.Notification{
			{ID: 2, UserID: 7, Type: models.NotificationTypeLike},
			{ID: 1, UserID: 7, Type: models.NotificationTypeFollow},
		}, nil
	}
	svc := NewNotificationService(notifs)

	list, err := svc.List(context.Background(), 7, 20, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, uint(2), list[0].ID, "newest first")
}

func TestNotificationService_MarkAllRead(t *testing.T) {
	t.Parallel()

	notifs := noopNotifRepo()
	notifs.markAllReadFn = func(_ context.Context, userID uint) (int64, error) {
		assert.Equal(t, uint(7), userID)
		return 4, nil
	}
	svc := NewNotificationService(notifs)

	n, err := svc.MarkAllRead(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
}
