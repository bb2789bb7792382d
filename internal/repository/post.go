// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"

	"devconnect/internal/cache"
	"devconnect/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error)
	List(ctx context.Context, status models.PostStatus, limit, offset int, currentUserID uint) ([]*models.Post, error)
	ListByUser(ctx context.Context, userID uint, status models.PostStatus, limit, offset int, currentUserID uint) ([]*models.Post, error)
	Search(ctx context.Context, query string, limit, offset int, currentUserID uint) ([]*models.Post, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uint, status models.PostStatus) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
	Like(ctx context.Context, tx *gorm.DB, userID, postID uint) (bool, error)
	Unlike(ctx context.Context, userID, postID uint) (bool, error)
	IsLiked(ctx context.Context, userID, postID uint) (bool, error)
	CountLikes(ctx context.Context, postID uint) (int64, error)
	ListLikers(ctx context.Context, postID uint) ([]models.User, error)
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateFeed(ctx)
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	var post models.Post
	fetch := func() error {
		return r.applyPostDetails(readDB(r.db).WithContext(ctx), currentUserID).
			Preload("User").
			First(&post, id).Error
	}

	var err error
	if currentUserID == 0 {
		err = cache.Aside(ctx, cache.PostKey(id), &post, cache.PostTTL, fetch)
	} else {
		err = fetch()
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context, status models.PostStatus, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	var posts []*models.Post
	fetch := func() error {
		return r.applyPostDetails(readDB(r.db).WithContext(ctx), currentUserID).
			Preload("User").
			Where("posts.status = ?", status).
			Order("posts.created_at DESC").
			Limit(limit).
			Offset(offset).
			Find(&posts).Error
	}

	var err error
	// Anonymous pages of the approved feed are identical for every caller,
	// so they go through the cache. Per-user pages carry the liked flag and
	// always hit the database.
	if status == models.PostStatusApproved && currentUserID == 0 {
		err = cache.Aside(ctx, cache.FeedKey(limit, offset), &posts, cache.FeedTTL, fetch)
	} else {
		err = fetch()
	}
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) ListByUser(ctx context.Context, userID uint, status models.PostStatus, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.applyPostDetails(readDB(r.db).WithContext(ctx), currentUserID).
		Preload("User").
		Where("posts.user_id = ? AND posts.status = ?", userID, status).
		Order("posts.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// Search matches approved posts by description.
func (r *postRepository) Search(ctx context.Context, query string, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	var posts []*models.Post
	like := "%" + query + "%"
	err := r.applyPostDetails(readDB(r.db).WithContext(ctx), currentUserID).
		Preload("User").
		Where("posts.status = ? AND posts.description ILIKE ?", models.PostStatusApproved, like).
		Order("posts.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// applyPostDetails adds subqueries to fetch counts and liked status in a single query.
func (r *postRepository) applyPostDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	selectQuery := "posts.*, " +
		"(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id AND comments.deleted_at IS NULL) as comments_count, " +
		"(SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id) as likes_count"

	if currentUserID != 0 {
		return db.Select(selectQuery+", EXISTS(SELECT 1 FROM likes WHERE likes.post_id = posts.id AND likes.user_id = ?) as liked", currentUserID)
	}

	return db.Select(selectQuery + ", false as liked")
}

// UpdateStatus moves a post between moderation states. Runs on tx when
// provided so the caller can commit it with the outcome notification.
func (r *postRepository) UpdateStatus(ctx context.Context, tx *gorm.DB, id uint, status models.PostStatus) error {
	db := tx
	if db == nil {
		db = r.db
	}
	result := db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Post", id)
	}
	cache.Invalidate(ctx, cache.PostKey(id))
	cache.InvalidateFeed(ctx)
	return nil
}

func (r *postRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := tx
	if db == nil {
		db = r.db
	}
	result := db.WithContext(ctx).Delete(&models.Post{}, id)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Post", id)
	}
	cache.Invalidate(ctx, cache.PostKey(id))
	cache.InvalidateFeed(ctx)
	return nil
}

// Like inserts the like edge. The unique (user_id, post_id) constraint
// arbitrates concurrent toggles; the return value reports whether this call
// created the like.
func (r *postRepository) Like(ctx context.Context, tx *gorm.DB, userID, postID uint) (bool, error) {
	db := tx
	if db == nil {
		db = r.db
	}
	result := db.WithContext(ctx).Exec(
		`INSERT INTO likes (user_id, post_id, created_at)
		 VALUES (?, ?, NOW())
		 ON CONFLICT (user_id, post_id) DO NOTHING`,
		userID, postID,
	)
	if result.Error != nil {
		return false, models.NewInternalError(result.Error)
	}
	if result.RowsAffected > 0 {
		cache.Invalidate(ctx, cache.PostKey(postID))
		return true, nil
	}
	return false, nil
}

// Unlike hard-deletes the like edge and reports whether a row was removed.
func (r *postRepository) Unlike(ctx context.Context, userID, postID uint) (bool, error) {
	result := r.db.WithContext(ctx).Unscoped().
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.Like{})
	if result.Error != nil {
		return false, models.NewInternalError(result.Error)
	}
	if result.RowsAffected > 0 {
		cache.Invalidate(ctx, cache.PostKey(postID))
		return true, nil
	}
	return false, nil
}

func (r *postRepository) IsLiked(ctx context.Context, userID, postID uint) (bool, error) {
	var count int64
	if err := readDB(r.db).WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *postRepository) CountLikes(ctx context.Context, postID uint) (int64, error) {
	var count int64
	if err := readDB(r.db).WithContext(ctx).
		Model(&models.Like{}).
		Where("post_id = ?", postID).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *postRepository) ListLikers(ctx context.Context, postID uint) ([]models.User, error) {
	var users []models.User
	if err := readDB(r.db).WithContext(ctx).
		Table("users").
		Joins("JOIN likes l ON users.id = l.user_id").
		Where("l.post_id = ?", postID).
		Order("l.created_at DESC").
		Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}
