// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"devconnect/internal/models"
	"devconnect/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetNotifications handles GET /api/notifications (recipient's, newest first)
func (s *Server) GetNotifications(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	page := parsePagination(c, 20)

	notifications, err := s.notificationSvc().List(c.Context(), userID, page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	unread, err := s.notificationSvc().CountUnread(c.Context(), userID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(fiber.Map{
		"notifications": notifications,
		"unread_count":  unread,
	})
}

// MarkNotificationRead handles POST /api/notifications/read with body {"id": n}.
// Marking an already-read notification succeeds.
func (s *Server) MarkNotificationRead(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		ID uint `json:"id"`
	}
	if err := c.BodyParser(&req); err != nil || req.ID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("id is required"))
	}

	if err := s.notificationSvc().MarkRead(c.Context(), userID, req.ID); err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(fiber.Map{"message": "Notification marked as read"})
}

// MarkAllNotificationsRead handles POST /api/notifications/read-all
func (s *Server) MarkAllNotificationsRead(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	updated, err := s.notificationSvc().MarkAllRead(c.Context(), userID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(fiber.Map{
		"message": "All notifications marked as read",
		"updated": updated,
	})
}

// DeleteNotification handles DELETE /api/notifications/:id
func (s *Server) DeleteNotification(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.notificationSvc().Delete(c.Context(), userID, id); err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(fiber.Map{"message": "Notification deleted"})
}

func (s *Server) notificationSvc() *service.NotificationService {
	if s.notificationService == nil {
		s.notificationService = service.NewNotificationService(s.notifRepo)
	}
	return s.notificationService
}
