package service

import (
	"context"

	"devconnect/internal/cache"
	"devconnect/internal/models"
	"devconnect/internal/repository"
	"devconnect/internal/validation"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ModerationService provides the admin surface: post review and user
// management.
type ModerationService struct {
	db        *gorm.DB
	postRepo  repository.PostRepository
	notifRepo repository.NotificationRepository
	userRepo  repository.UserRepository
}

// CreateUserInput is the admin payload for provisioning a user account.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
}

// NewModerationService returns a new ModerationService.
func NewModerationService(
	db *gorm.DB,
	postRepo repository.PostRepository,
	notifRepo repository.NotificationRepository,
	userRepo repository.UserRepository,
) *ModerationService {
	return &ModerationService{
		db:        db,
		postRepo:  postRepo,
		notifRepo: notifRepo,
		userRepo:  userRepo,
	}
}

// ListPendingPosts returns the admin review queue.
func (s *ModerationService) ListPendingPosts(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	return s.postRepo.List(ctx, models.PostStatusPending, limit, offset, 0)
}

// ApprovePost flips a pending post to approved and records the
// post_approved notification in the same transaction. The returned
// notification is for the caller to publish after commit.
func (s *ModerationService) ApprovePost(ctx context.Context, postID uint) (*models.Post, *models.Notification, error) {
	post, err := s.postRepo.GetByID(ctx, postID, 0)
	if err != nil {
		return nil, nil, err
	}
	if post.Status != models.PostStatusPending {
		return nil, nil, models.NewValidationError("Post is not pending review")
	}

	notification := &models.Notification{
		UserID:  post.UserID,
		Type:    models.NotificationTypePostApproved,
		Message: "Your post has been approved.",
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.postRepo.UpdateStatus(ctx, tx, postID, models.PostStatusApproved); err != nil {
			return err
		}
		return s.notifRepo.Create(ctx, tx, notification)
	})
	if err != nil {
		return nil, nil, err
	}

	approved, err := s.postRepo.GetByID(ctx, postID, 0)
	if err != nil {
		return nil, nil, err
	}
	return approved, notification, nil
}

// RejectPost deletes a pending post and records the post_rejected
// notification in the same transaction.
func (s *ModerationService) RejectPost(ctx context.Context, postID uint) (*models.Notification, error) {
	post, err := s.postRepo.GetByID(ctx, postID, 0)
	if err != nil {
		return nil, err
	}
	if post.Status != models.PostStatusPending {
		return nil, models.NewValidationError("Post is not pending review")
	}

	notification := &models.Notification{
		UserID:  post.UserID,
		Type:    models.NotificationTypePostRejected,
		Message: "Your post has been rejected.",
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.postRepo.Delete(ctx, tx, postID); err != nil {
			return err
		}
		return s.notifRepo.Create(ctx, tx, notification)
	})
	if err != nil {
		return nil, err
	}
	return notification, nil
}

// ListUsers returns non-admin accounts for the admin user table.
func (s *ModerationService) ListUsers(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.userRepo.ListNonAdmins(ctx, limit, offset)
}

// CreateUser provisions a pre-verified account.
func (s *ModerationService) CreateUser(ctx context.Context, in CreateUserInput) (*models.User, error) {
	if err := validation.ValidateUsername(in.Name); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Name:       in.Name,
		Email:      in.Email,
		Password:   string(hash),
		Role:       models.RoleUser,
		IsVerified: true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes a non-admin account and everything it owns: posts,
// comments, likes, follow edges on either side, and notifications.
func (s *ModerationService) DeleteUser(ctx context.Context, adminID, targetID uint) error {
	if adminID == targetID {
		return models.NewValidationError("You cannot delete your own account")
	}

	target, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return err
	}
	if target.IsAdmin() {
		return models.NewForbiddenError("Admin accounts cannot be deleted")
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", targetID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("user_id = ?", targetID).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("follower_id = ? OR followee_id = ?", targetID, targetID).Delete(&models.Follow{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", targetID).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", targetID).Delete(&models.Post{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, targetID).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}

	cache.InvalidateUser(ctx, targetID)
	cache.InvalidateFeed(ctx)
	return nil
}
