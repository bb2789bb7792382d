package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"devconnect/internal/models"
	"devconnect/internal/repository"

	"gorm.io/gorm"
)

// PostService provides post submission, feed and like business logic.
type PostService struct {
	db        *gorm.DB
	postRepo  repository.PostRepository
	notifRepo repository.NotificationRepository
	userRepo  repository.UserRepository
	isAdmin   func(ctx context.Context, userID uint) (bool, error)
}

// CreatePostInput is the payload for submitting a new post.
type CreatePostInput struct {
	UserID      uint
	Description string
	Images      []string
	VideoURL    string
}

// LikeToggleResult describes the state of a post's likes after a toggle.
// Notification is non-nil only when the toggle turned the like on for
// somebody else's post; the caller publishes it after commit.
type LikeToggleResult struct {
	Liked        bool
	LikeCount    int64
	PostOwnerID  uint
	Notification *models.Notification
}

// NewPostService returns a new PostService.
func NewPostService(
	db *gorm.DB,
	postRepo repository.PostRepository,
	notifRepo repository.NotificationRepository,
	userRepo repository.UserRepository,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *PostService {
	return &PostService{
		db:        db,
		postRepo:  postRepo,
		notifRepo: notifRepo,
		userRepo:  userRepo,
		isAdmin:   isAdmin,
	}
}

const (
	maxDescriptionLen = 5000
	maxPostImages     = 10
)

// CreatePost stores a new post in pending state for admin review.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	description := strings.TrimSpace(in.Description)
	if description == "" {
		return nil, models.NewValidationError("Description is required")
	}
	if len(description) > maxDescriptionLen {
		return nil, models.NewValidationError("Description too long (max 5000 characters)")
	}
	if len(in.Images) > maxPostImages {
		return nil, models.NewValidationError("A post can have at most 10 images")
	}
	for _, img := range in.Images {
		if _, err := url.ParseRequestURI(img); err != nil {
			return nil, models.NewValidationError("Image URLs must be valid URLs")
		}
	}
	if in.VideoURL != "" {
		if _, err := url.ParseRequestURI(in.VideoURL); err != nil {
			return nil, models.NewValidationError("video_url must be a valid URL")
		}
	}

	images := "[]"
	if len(in.Images) > 0 {
		encoded, err := json.Marshal(in.Images)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		images = string(encoded)
	}

	post := &models.Post{
		Description: description,
		Images:      images,
		VideoURL:    in.VideoURL,
		Status:      models.PostStatusPending,
		UserID:      in.UserID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	return s.postRepo.GetByID(ctx, post.ID, in.UserID)
}

// ListFeed returns approved posts, newest first.
func (s *PostService) ListFeed(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.postRepo.List(ctx, models.PostStatusApproved, limit, offset, currentUserID)
}

// SearchPosts searches approved posts by description substring.
func (s *PostService) SearchPosts(ctx context.Context, query string, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	if strings.TrimSpace(query) == "" {
		return nil, models.NewValidationError("Search query is required")
	}
	return s.postRepo.Search(ctx, query, limit, offset, currentUserID)
}

// GetPost returns one post. Unapproved posts are only visible to their
// author and admins; everyone else gets not-found rather than a hint that
// the post exists.
func (s *PostService) GetPost(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id, currentUserID)
	if err != nil {
		return nil, err
	}
	if post.Status != models.PostStatusApproved {
		if err := s.requireOwnerOrAdmin(ctx, currentUserID, post.UserID); err != nil {
			return nil, models.NewNotFoundError("Post", id)
		}
	}
	return post, nil
}

// ListUserPosts returns a user's approved posts.
func (s *PostService) ListUserPosts(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.postRepo.ListByUser(ctx, userID, models.PostStatusApproved, limit, offset, currentUserID)
}

// ListMyPending returns the calling user's posts still awaiting review.
func (s *PostService) ListMyPending(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	return s.postRepo.ListByUser(ctx, userID, models.PostStatusPending, limit, offset, userID)
}

// DeletePost removes a post. Allowed for the author and for admins.
func (s *PostService) DeletePost(ctx context.Context, userID, postID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID, userID)
	if err != nil {
		return err
	}
	if err := s.requireOwnerOrAdmin(ctx, userID, post.UserID); err != nil {
		return err
	}
	return s.postRepo.Delete(ctx, nil, postID)
}

// ToggleLike flips the calling user's like on a post. Turning a like on
// for somebody else's post also records a like notification in the same
// transaction; the unique (user_id, post_id) constraint arbitrates
// concurrent toggles.
func (s *PostService) ToggleLike(ctx context.Context, userID, postID uint) (*LikeToggleResult, error) {
	post, err := s.GetPost(ctx, postID, userID)
	if err != nil {
		return nil, err
	}

	result := &LikeToggleResult{PostOwnerID: post.UserID}

	if post.Liked {
		removed, err := s.postRepo.Unlike(ctx, userID, postID)
		if err != nil {
			return nil, err
		}
		// Lost a race with another unlike; the end state is the same.
		_ = removed
		result.Liked = false
	} else {
		liker, err := s.userRepo.GetByID(ctx, userID)
		if err != nil {
			return nil, err
		}

		var notification *models.Notification
		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			inserted, err := s.postRepo.Like(ctx, tx, userID, postID)
			if err != nil {
				return err
			}
			if inserted && post.UserID != userID {
				notification = &models.Notification{
					UserID:  post.UserID,
					Type:    models.NotificationTypeLike,
					Message: fmt.Sprintf("%s liked your post.", liker.Name),
				}
				return s.notifRepo.Create(ctx, tx, notification)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		result.Liked = true
		result.Notification = notification
	}

	count, err := s.postRepo.CountLikes(ctx, postID)
	if err != nil {
		return nil, err
	}
	result.LikeCount = count
	return result, nil
}

// ListLikers returns public profiles of the users who liked a post.
func (s *PostService) ListLikers(ctx context.Context, postID uint, currentUserID uint) ([]models.PublicProfile, error) {
	if _, err := s.GetPost(ctx, postID, currentUserID); err != nil {
		return nil, err
	}
	users, err := s.postRepo.ListLikers(ctx, postID)
	if err != nil {
		return nil, err
	}
	return publicProfiles(users), nil
}

func (s *PostService) requireOwnerOrAdmin(ctx context.Context, userID, ownerID uint) error {
	if userID == ownerID {
		return nil
	}
	if s.isAdmin != nil {
		admin, err := s.isAdmin(ctx, userID)
		if err != nil {
			return err
		}
		if admin {
			return nil
		}
	}
	return models.NewForbiddenError("You do not have access to this post")
}
