// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
// Admin-only moderation endpoints live here; AdminRequired guards their routes.
package server

import (
	"devconnect/internal/models"
	"devconnect/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetAdminPendingPosts handles GET /api/admin/posts/pending
// @Summary Pending posts
// @Description List posts awaiting moderation
// @Tags admin
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {array} models.Post
// @Failure 403 {object} object{error=string}
// @Security BearerAuth
// @Router /admin/posts/pending [get]
func (s *Server) GetAdminPendingPosts(c *fiber.Ctx) error {
	page := parsePagination(c, 20)

	pending, err := s.moderationSvc().ListPendingPosts(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(pending)
}

// ApprovePost handles POST /api/admin/posts/:id/approve
// @Summary Approve post
// @Description Approve a pending post and notify its author
// @Tags admin
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} object{message=string,post=models.Post}
// @Failure 404 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Security BearerAuth
// @Router /admin/posts/{id}/approve [post]
func (s *Server) ApprovePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, notification, err := s.moderationSvc().ApprovePost(c.Context(), postID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	// Post-commit, best-effort hint to the author.
	s.publishModerationOutcome(notification)

	return c.JSON(fiber.Map{
		"message": "Post approved",
		"post":    post,
	})
}

// RejectPost handles POST /api/admin/posts/:id/reject. Rejection deletes the post.
// @Summary Reject post
// @Description Reject a pending post, delete it and notify its author
// @Tags admin
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} object{message=string}
// @Failure 404 {object} object{error=string}
// @Security BearerAuth
// @Router /admin/posts/{id}/reject [post]
func (s *Server) RejectPost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	notification, err := s.moderationSvc().RejectPost(c.Context(), postID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	s.publishModerationOutcome(notification)

	return c.JSON(fiber.Map{"message": "Post rejected"})
}

// GetAdminUsers handles GET /api/admin/users (non-admin accounts)
// @Summary List users
// @Description List non-admin user accounts
// @Tags admin
// @Produce json
// @Success 200 {array} models.User
// @Failure 403 {object} object{error=string}
// @Security BearerAuth
// @Router /admin/users [get]
func (s *Server) GetAdminUsers(c *fiber.Ctx) error {
	page := parsePagination(c, 50)

	users, err := s.moderationSvc().ListUsers(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(users)
}

// CreateAdminUser handles POST /api/admin/users. Accounts created here are
// pre-verified.
// @Summary Create user
// @Description Create a pre-verified user account
// @Tags admin
// @Accept json
// @Produce json
// @Param request body object{name=string,email=string,password=string} true "New account"
// @Success 201 {object} models.User
// @Failure 400 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Security BearerAuth
// @Router /admin/users [post]
func (s *Server) CreateAdminUser(c *fiber.Ctx) error {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.moderationSvc().CreateUser(c.Context(), service.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

// DeleteAdminUser handles DELETE /api/admin/users/:userId
// @Summary Delete user
// @Description Delete a user account and cascade to its content
// @Tags admin
// @Produce json
// @Param userId path int true "User ID"
// @Success 200 {object} object{message=string}
// @Failure 404 {object} object{error=string}
// @Security BearerAuth
// @Router /admin/users/{userId} [delete]
func (s *Server) DeleteAdminUser(c *fiber.Ctx) error {
	adminID := c.Locals("userID").(uint)
	targetID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	if err := s.moderationSvc().DeleteUser(c.Context(), adminID, targetID); err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(fiber.Map{"message": "User deleted"})
}

func (s *Server) moderationSvc() *service.ModerationService {
	if s.moderationService == nil {
		s.moderationService = service.NewModerationService(s.db, s.postRepo, s.notifRepo, s.userRepo)
	}
	return s.moderationService
}
