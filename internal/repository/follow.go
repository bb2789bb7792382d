// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"

	"devconnect/internal/cache"
	"devconnect/internal/models"

	"gorm.io/gorm"
)

// ErrFollowExists is returned when the follow edge is already present.
var ErrFollowExists = errors.New("follow already exists")

// ErrFollowNotFound is returned when the follow edge does not exist.
var ErrFollowNotFound = errors.New("follow not found")

// FollowRepository defines the interface for follow data operations
type FollowRepository interface {
	Create(ctx context.Context, tx *gorm.DB, follow *models.Follow) error
	Delete(ctx context.Context, followerID, followeeID uint) error
	Exists(ctx context.Context, followerID, followeeID uint) (bool, error)
	GetFollowers(ctx context.Context, userID uint) ([]models.User, error)
	GetFollowing(ctx context.Context, userID uint) ([]models.User, error)
	CountFollowers(ctx context.Context, userID uint) (int64, error)
	CountFollowing(ctx context.Context, userID uint) (int64, error)
}

// followRepository implements FollowRepository
type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository creates a new follow repository
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

// Create inserts the follow edge. The unique (follower_id, followee_id)
// constraint arbitrates concurrent duplicates: ON CONFLICT DO NOTHING plus a
// rows-affected check means the loser of the race sees ErrFollowExists
// without ever reading first. Runs on tx when provided so the caller can
// bundle it with the follow notification.
func (r *followRepository) Create(ctx context.Context, tx *gorm.DB, follow *models.Follow) error {
	db := tx
	if db == nil {
		db = r.db
	}
	result := db.WithContext(ctx).Exec(
		`INSERT INTO follows (follower_id, followee_id, created_at)
		 VALUES (?, ?, NOW())
		 ON CONFLICT (follower_id, followee_id) DO NOTHING`,
		follow.FollowerID, follow.FolloweeID,
	)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrFollowExists
	}
	cache.InvalidateFollows(ctx, follow.FollowerID, follow.FolloweeID)
	return nil
}

func (r *followRepository) Delete(ctx context.Context, followerID, followeeID uint) error {
	result := r.db.WithContext(ctx).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&models.Follow{})
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrFollowNotFound
	}
	cache.InvalidateFollows(ctx, followerID, followeeID)
	return nil
}

func (r *followRepository) Exists(ctx context.Context, followerID, followeeID uint) (bool, error) {
	var count int64
	if err := readDB(r.db).WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *followRepository) GetFollowers(ctx context.Context, userID uint) ([]models.User, error) {
	var users []models.User
	key := cache.FollowersKey(userID)

	err := cache.Aside(ctx, key, &users, cache.FollowsTTL, func() error {
		return readDB(r.db).WithContext(ctx).
			Table("users").
			Joins("JOIN follows f ON users.id = f.follower_id").
			Where("f.followee_id = ? AND users.deleted_at IS NULL", userID).
			Order("f.created_at DESC").
			Find(&users).Error
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

func (r *followRepository) GetFollowing(ctx context.Context, userID uint) ([]models.User, error) {
	var users []models.User
	key := cache.FollowingKey(userID)

	err := cache.Aside(ctx, key, &users, cache.FollowsTTL, func() error {
		return readDB(r.db).WithContext(ctx).
			Table("users").
			Joins("JOIN follows f ON users.id = f.followee_id").
			Where("f.follower_id = ? AND users.deleted_at IS NULL", userID).
			Order("f.created_at DESC").
			Find(&users).Error
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

func (r *followRepository) CountFollowers(ctx context.Context, userID uint) (int64, error) {
	var count int64
	if err := readDB(r.db).WithContext(ctx).
		Model(&models.Follow{}).
		Where("followee_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *followRepository) CountFollowing(ctx context.Context, userID uint) (int64, error) {
	var count int64
	if err := readDB(r.db).WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
