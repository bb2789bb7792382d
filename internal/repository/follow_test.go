package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"devconnect/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowRepository_Integration(t *testing.T) {
	repo := NewFollowRepository(testDB)
	ctx := context.Background()

	// Setup users
	ts := time.Now().UnixNano()
	u1 := &models.User{Name: fmt.Sprintf("f1_%d", ts), Email: fmt.Sprintf("f1_%d@e.com", ts), Password: "x"}
	u2 := &models.User{Name: fmt.Sprintf("f2_%d", ts), Email: fmt.Sprintf("f2_%d@e.com", ts), Password: "x"}
	testDB.Create(u1)
	testDB.Create(u2)

	t.Run("Create and Exists", func(t *testing.T) {
		err := repo.Create(ctx, nil, &models.Follow{FollowerID: u1.ID, FolloweeID: u2.ID})
		require.NoError(t, err)

		exists, err := repo.Exists(ctx, u1.ID, u2.ID)
		assert.NoError(t, err)
		assert.True(t, exists)

		// Reverse direction is a separate edge
		exists, err = repo.Exists(ctx, u2.ID, u1.ID)
		assert.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("Duplicate create reports conflict", func(t *testing.T) {
		err := repo.Create(ctx, nil, &models.Follow{FollowerID: u1.ID, FolloweeID: u2.ID})
		assert.True(t, errors.Is(err, ErrFollowExists))
	})

	t.Run("Followers and Following", func(t *testing.T) {
		followers, err := repo.GetFollowers(ctx, u2.ID)
		assert.NoError(t, err)
		require.Len(t, followers, 1)
		assert.Equal(t, u1.ID, followers[0].ID)

		following, err := repo.GetFollowing(ctx, u1.ID)
		assert.NoError(t, err)
		require.Len(t, following, 1)
		assert.Equal(t, u2.ID, following[0].ID)

		count, err := repo.CountFollowers(ctx, u2.ID)
		assert.NoError(t, err)
		assert.EqualValues(t, 1, count)
	})

	t.Run("Delete and second delete reports missing", func(t *testing.T) {
		err := repo.Delete(ctx, u1.ID, u2.ID)
		assert.NoError(t, err)

		err = repo.Delete(ctx, u1.ID, u2.ID)
		assert.True(t, errors.Is(err, ErrFollowNotFound))
	})
}

func TestNotificationRepository_Integration(t *testing.T) {
	repo := NewNotificationRepository(testDB)
	ctx := context.Background()

	ts := time.Now().UnixNano()
	u := &models.User{Name: fmt.Sprintf("n_%d", ts), Email: fmt.Sprintf("n_%d@e.com", ts), Password: "x"}
	testDB.Create(u)

	var created *models.Notification

	t.Run("Create and ListByUser newest first", func(t *testing.T) {
		first := &models.Notification{UserID: u.ID, Type: models.NotificationTypeFollow, Message: "alice followed you."}
		require.NoError(t, repo.Create(ctx, nil, first))
		second := &models.Notification{UserID: u.ID, Type: models.NotificationTypeLike, Message: "bob liked your post."}
		require.NoError(t, repo.Create(ctx, nil, second))
		created = second

		list, err := repo.ListByUser(ctx, u.ID, 50, 0)
		assert.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, models.NotificationTypeLike, list[0].Type)
	})

	t.Run("MarkRead is idempotent", func(t *testing.T) {
		ok, err := repo.MarkRead(ctx, u.ID, created.ID)
		assert.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.MarkRead(ctx, u.ID, created.ID)
		assert.NoError(t, err)
		assert.True(t, ok)

		unread, err := repo.CountUnread(ctx, u.ID)
		assert.NoError(t, err)
		assert.EqualValues(t, 1, unread)
	})

	t.Run("MarkRead unknown id reports missing", func(t *testing.T) {
		ok, err := repo.MarkRead(ctx, u.ID, 999999)
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("MarkAllRead", func(t *testing.T) {
		n, err := repo.MarkAllRead(ctx, u.ID)
		assert.NoError(t, err)
		assert.EqualValues(t, 1, n)

		unread, err := repo.CountUnread(ctx, u.ID)
		assert.NoError(t, err)
		assert.EqualValues(t, 0, unread)
	})

	t.Run("Delete and delete again", func(t *testing.T) {
		ok, err := repo.Delete(ctx, u.ID, created.ID)
		assert.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.Delete(ctx, u.ID, created.ID)
		assert.NoError(t, err)
		assert.False(t, ok)
	})
}
