package service

import (
	"context"
	"errors"
	"fmt"

	"devconnect/internal/models"
	"devconnect/internal/repository"

	"gorm.io/gorm"
)

// FollowService provides follow-graph business logic.
type FollowService struct {
	db         *gorm.DB
	followRepo repository.FollowRepository
	notifRepo  repository.NotificationRepository
	userRepo   repository.UserRepository
}

// NewFollowService returns a new FollowService.
func NewFollowService(
	db *gorm.DB,
	followRepo repository.FollowRepository,
	notifRepo repository.NotificationRepository,
	userRepo repository.UserRepository,
) *FollowService {
	return &FollowService{
		db:         db,
		followRepo: followRepo,
		notifRepo:  notifRepo,
		userRepo:   userRepo,
	}
}

// Follow creates the follow edge and the follow notification in one
// transaction. The returned notification is nil-safe for the caller to
// publish after commit.
func (s *FollowService) Follow(ctx context.Context, followerID, followeeID uint) (*models.Notification, error) {
	if followerID == followeeID {
		return nil, models.NewValidationError("You cannot follow yourself")
	}

	follower, err := s.userRepo.GetByID(ctx, followerID)
	if err != nil {
		return nil, err
	}
	if _, err := s.userRepo.GetByID(ctx, followeeID); err != nil {
		return nil, err
	}

	notification := &models.Notification{
		UserID:  followeeID,
		Type:    models.NotificationTypeFollow,
		Message: fmt.Sprintf("%s followed you.", follower.Name),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		follow := &models.Follow{FollowerID: followerID, FolloweeID: followeeID}
		if err := s.followRepo.Create(ctx, tx, follow); err != nil {
			return err
		}
		return s.notifRepo.Create(ctx, tx, notification)
	})
	if err != nil {
		if errors.Is(err, repository.ErrFollowExists) {
			return nil, models.NewConflictError("You are already following this user")
		}
		return nil, err
	}

	return notification, nil
}

// Unfollow removes the follow edge.
func (s *FollowService) Unfollow(ctx context.Context, followerID, followeeID uint) error {
	if followerID == followeeID {
		return models.NewValidationError("You cannot unfollow yourself")
	}

	if err := s.followRepo.Delete(ctx, followerID, followeeID); err != nil {
		if errors.Is(err, repository.ErrFollowNotFound) {
			return models.NewValidationError("You are not following this user")
		}
		return err
	}
	return nil
}

// GetFollowers returns public profiles of the users following userID.
func (s *FollowService) GetFollowers(ctx context.Context, userID uint) ([]models.PublicProfile, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	users, err := s.followRepo.GetFollowers(ctx, userID)
	if err != nil {
		return nil, err
	}
	return publicProfiles(users), nil
}

// GetFollowing returns public profiles of the users userID follows.
func (s *FollowService) GetFollowing(ctx context.Context, userID uint) ([]models.PublicProfile, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	users, err := s.followRepo.GetFollowing(ctx, userID)
	if err != nil {
		return nil, err
	}
	return publicProfiles(users), nil
}

// IsFollowing reports whether followerID currently follows followeeID.
func (s *FollowService) IsFollowing(ctx context.Context, followerID, followeeID uint) (bool, error) {
	if _, err := s.userRepo.GetByID(ctx, followeeID); err != nil {
		return false, err
	}
	return s.followRepo.Exists(ctx, followerID, followeeID)
}

func publicProfiles(users []models.User) []models.PublicProfile {
	profiles := make([]models.PublicProfile, 0, len(users))
	for _, u := range users {
		profiles = append(profiles, u.Public())
	}
	return profiles
}
