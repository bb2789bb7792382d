package service

import (
	"context"
	"testing"

	"devconnect/internal/models"
	"devconnect/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestFollowService_Follow_SelfFollow(t *testing.T) {
	t.Parallel()

	db, _ := setupTxDB(t)
	svc := NewFollowService(db, noopFollowRepo(), noopNotifRepo(), noopUserRepo())

	_, err := svc.Follow(context.Background(), 1, 1)
	assertValidationError(t, err)
}

func TestFollowService_Follow_CreatesExactlyOneNotification(t *testing.T) {
	t.Parallel()

	db, mock := setupTxDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	users := noopUserRepo()
	users.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		return &models.User{ID: id, Name: "alice"}, nil
	}
	notifs := noopNotifRepo()
	svc := NewFollowService(db, noopFollowRepo(), notifs, users)

	notification, err := svc.Follow(context.Background(), 1, 2)
	require.NoError(t, err)

	require.NotNil(t, notification)
	require.Len(t, notifs.created, 1)
	assert.Equal(t, uint(2), notification.UserID)
	assert.Equal(t, models.NotificationTypeFollow, notification.Type)
	assert.Equal(t, "alice followed you.", notification.Message)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFollowService_Follow_Duplicate(t *testing.T) {
	t.Parallel()

	db, mock := setupTxDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	follows := noopFollowRepo()
	follows.createFn = func(_ context.Context, _ *gorm.DB, _ *models.Follow) error {
		return repository.ErrFollowExists
	}
	notifs := noopNotifRepo()
	svc := NewFollowService(db, follows, notifs, noopUserRepo())

	_, err := svc.Follow(context.Background(), 1, 2)
	assertConflictError(t, err)
	assert.Empty(t, notifs.created, "no notification should be stored for a duplicate follow")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFollowService_Follow_UnknownFollowee(t *testing.T) {
	t.Parallel()

	db, _ := setupTxDB(t)
	users := noopUserRepo()
	users.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		if id == 2 {
			return nil, models.NewNotFoundError("User", id)
		}
		return &models.User{ID: id, Name: "alice"}, nil
	}
	svc := NewFollowService(db, noopFollowRepo(), noopNotifRepo(), users)

	_, err := svc.Follow(context.Background(), 1, 2)
	assertNotFoundError(t, err)
}

func TestFollowService_Unfollow(t *testing.T) {
	t.Parallel()

	t.Run("removes the edge", func(t *testing.T) {
		t.Parallel()
		db, _ := setupTxDB(t)
		var gotFollower, gotFollowee uint
		follows := noopFollowRepo()
		follows.deleteFn = func(_ context.Context, followerID, followeeID uint) error {
			gotFollower, gotFollowee = followerID, followeeID
			return nil
		}
		svc := NewFollowService(db, follows, noopNotifRepo(), noopUserRepo())

		require.NoError(t, svc.Unfollow(context.Background(), 1, 2))
		assert.Equal(t, uint(1), gotFollower)
		assert.Equal(t, uint(2), gotFollowee)
	})

	t.Run("not following", func(t *testing.T) {
		t.Parallel()
		db, _ := setupTxDB(t)
		follows := noopFollowRepo()
		follows.deleteFn = func(_ context.Context, _, _ uint) error {
			return repository.ErrFollowNotFound
		}
		svc := NewFollowService(db, follows, noopNotifRepo(), noopUserRepo())

		err := svc.Unfollow(context.Background(), 1, 2)
		assertValidationError(t, err)
	})
}

func TestFollowService_GetFollowers_PublicProfiles(t *testing.T) {
	t.Parallel()

	db, _ := setupTxDB(t)
	follows := noopFollowRepo()
	follows.getFollowersFn = func(_ context.Context, _ uint) ([]models.User, error) {
		return []models.User{
			{ID: 3, Name: "bob", Email: "bob@example.com", Password: "secret-hash"},
		}, nil
	}
	svc := NewFollowService(db, follows, noopNotifRepo(), noopUserRepo())

	profiles, err := svc.GetFollowers(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, uint(3), profiles[0].ID)
	assert.Equal(t, "bob", profiles[0].Name)
}

func TestFollowService_IsFollowing(t *testing.T) {
	t.Parallel()

	db, _ := setupTxDB(t)
	follows := noopFollowRepo()
	follows.existsFn = func(_ context.Context, followerID, followeeID uint) (bool, error) {
		return followerID == 1 && followeeID == 2, nil
	}
	svc := NewFollowService(db, follows, noopNotifRepo(), noopUserRepo())

	following, err := svc.IsFollowing(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.True(t, following)

	following, err = svc.IsFollowing(context.Background(), 2, 1)
	require.NoError(t, err)
	assert.False(t, following)
}
