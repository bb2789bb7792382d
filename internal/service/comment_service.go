package service

import (
	"context"
	"fmt"
	"strings"

	"devconnect/internal/models"
	"devconnect/internal/repository"

	"gorm.io/gorm"
)

// CommentService provides comment business logic.
type CommentService struct {
	db          *gorm.DB
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	notifRepo   repository.NotificationRepository
	userRepo    repository.UserRepository
	isAdmin     func(ctx context.Context, userID uint) (bool, error)
}

// CreateCommentInput is the payload for commenting on a post.
type CreateCommentInput struct {
	UserID uint
	PostID uint
	Text   string
}

// DeleteCommentInput identifies a comment to delete.
type DeleteCommentInput struct {
	UserID    uint
	PostID    uint
	CommentID uint
}

// NewCommentService returns a new CommentService.
func NewCommentService(
	db *gorm.DB,
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	notifRepo repository.NotificationRepository,
	userRepo repository.UserRepository,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *CommentService {
	return &CommentService{
		db:          db,
		commentRepo: commentRepo,
		postRepo:    postRepo,
		notifRepo:   notifRepo,
		userRepo:    userRepo,
		isAdmin:     isAdmin,
	}
}

const maxCommentLen = 2000

// CreateComment adds a comment to an approved post. Comments on somebody
// else's post record a comment notification in the same transaction; the
// returned notification is for the caller to publish after commit.
func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, *models.Notification, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID, 0)
	if err != nil {
		return nil, nil, err
	}
	if post.Status != models.PostStatusApproved {
		return nil, nil, models.NewNotFoundError("Post", in.PostID)
	}

	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, nil, models.NewValidationError("Text is required")
	}
	if len(text) > maxCommentLen {
		return nil, nil, models.NewValidationError("Comment too long (max 2000 characters)")
	}

	author, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, nil, err
	}

	comment := &models.Comment{
		Text:   text,
		UserID: in.UserID,
		PostID: in.PostID,
	}

	var notification *models.Notification
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.commentRepo.Create(ctx, tx, comment); err != nil {
			return err
		}
		if post.UserID != in.UserID {
			notification = &models.Notification{
				UserID:  post.UserID,
				Type:    models.NotificationTypeComment,
				Message: fmt.Sprintf("%s commented on your post.", author.Name),
			}
			return s.notifRepo.Create(ctx, tx, notification)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	created, err := s.commentRepo.GetByID(ctx, comment.ID)
	if err != nil {
		return nil, nil, err
	}
	return created, notification, nil
}

// ListComments returns the comments of an approved post, newest first.
func (s *CommentService) ListComments(ctx context.Context, postID uint) ([]*models.Comment, error) {
	post, err := s.postRepo.GetByID(ctx, postID, 0)
	if err != nil {
		return nil, err
	}
	if post.Status != models.PostStatusApproved {
		return nil, models.NewNotFoundError("Post", postID)
	}
	return s.commentRepo.ListByPost(ctx, postID)
}

// DeleteComment removes a comment. Allowed for the comment's author and
// for admins.
func (s *CommentService) DeleteComment(ctx context.Context, in DeleteCommentInput) error {
	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		return err
	}
	if comment.PostID != in.PostID {
		return models.NewNotFoundError("Comment", in.CommentID)
	}

	if comment.UserID != in.UserID {
		if s.isAdmin == nil {
			return models.NewForbiddenError("You can only delete your own comments")
		}
		admin, err := s.isAdmin(ctx, in.UserID)
		if err != nil {
			return err
		}
		if !admin {
			return models.NewForbiddenError("You can only delete your own comments")
		}
	}

	return s.commentRepo.Delete(ctx, in.CommentID)
}
