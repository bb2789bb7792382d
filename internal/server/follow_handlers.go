// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"devconnect/internal/models"
	"devconnect/internal/service"

	"github.com/gofiber/fiber/v2"
)

// FollowUser handles POST /api/follows with body {"user_id": n}
func (s *Server) FollowUser(c *fiber.Ctx) error {
	followerID := c.Locals("userID").(uint)

	var req struct {
		UserID uint `json:"user_id"`
	}
	if err := c.BodyParser(&req); err != nil || req.UserID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("user_id is required"))
	}

	notification, err := s.followSvc().Follow(c.Context(), followerID, req.UserID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	// Post-commit, best-effort realtime hints: the followee gets the
	// notification, everyone gets a count-refresh hint.
	s.publishNotification(notification)
	s.publishFollowUpdate(followerID, req.UserID, true)

	return c.JSON(fiber.Map{"message": "Followed"})
}

// UnfollowUser handles DELETE /api/follows/:userId
func (s *Server) UnfollowUser(c *fiber.Ctx) error {
	followerID := c.Locals("userID").(uint)
	followeeID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	if err := s.followSvc().Unfollow(c.Context(), followerID, followeeID); err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	s.publishFollowUpdate(followerID, followeeID, false)

	return c.JSON(fiber.Map{"message": "Unfollowed"})
}

// GetFollowers handles GET /api/follows/followers/:userId
func (s *Server) GetFollowers(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	followers, err := s.followSvc().GetFollowers(c.Context(), userID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(followers)
}

// GetFollowing handles GET /api/follows/following/:userId
func (s *Server) GetFollowing(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	following, err := s.followSvc().GetFollowing(c.Context(), userID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(following)
}

// GetFollowStatus handles GET /api/follows/status/:userId
func (s *Server) GetFollowStatus(c *fiber.Ctx) error {
	followerID := c.Locals("userID").(uint)
	followeeID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	following, err := s.followSvc().IsFollowing(c.Context(), followerID, followeeID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(fiber.Map{"is_following": following})
}

func (s *Server) followSvc() *service.FollowService {
	if s.followService == nil {
		s.followService = service.NewFollowService(s.db, s.followRepo, s.notifRepo, s.userRepo)
	}
	return s.followService
}
