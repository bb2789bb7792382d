package service

import (
	"context"

	"devconnect/internal/models"
	"devconnect/internal/repository"
)

// NotificationService provides inbox business logic. Every operation is
// scoped to the recipient; a notification id belonging to another user is
// indistinguishable from a missing one.
type NotificationService struct {
	notifRepo repository.NotificationRepository
}

// NewNotificationService returns a new NotificationService.
func NewNotificationService(notifRepo repository.NotificationRepository) *NotificationService {
	return &NotificationService{notifRepo: notifRepo}
}

// List returns the user's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, userID uint, limit, offset int) ([]models.Notification, error) {
	return s.notifRepo.ListByUser(ctx, userID, limit, offset)
}

// MarkRead marks one notification as read. Marking an already-read
// notification succeeds; an unknown id is a not-found error.
func (s *NotificationService) MarkRead(ctx context.Context, userID, id uint) error {
	ok, err := s.notifRepo.MarkRead(ctx, userID, id)
	if err != nil {
		return err
	}
	if !ok {
		return models.NewNotFoundError("Notification", id)
	}
	return nil
}

// MarkAllRead marks every unread notification of the user as read and
// returns how many rows changed.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	return s.notifRepo.MarkAllRead(ctx, userID)
}

// Delete removes one notification owned by the user.
func (s *NotificationService) Delete(ctx context.Context, userID, id uint) error {
	ok, err := s.notifRepo.Delete(ctx, userID, id)
	if err != nil {
		return err
	}
	if !ok {
		return models.NewNotFoundError("Notification", id)
	}
	return nil
}

// CountUnread returns the user's unread notification count.
func (s *NotificationService) CountUnread(ctx context.Context, userID uint) (int64, error) {
	return s.notifRepo.CountUnread(ctx, userID)
}
