// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"devconnect/internal/models"
	"devconnect/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateComment handles POST /api/posts/:id/comments
func (s *Server) CreateComment(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, notification, err := s.commentSvc().CreateComment(c.Context(), service.CreateCommentInput{
		UserID: userID,
		PostID: postID,
		Text:   req.Text,
	})
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	// Post-commit, best-effort realtime hint for the post owner.
	s.publishNotification(notification)

	return c.Status(fiber.StatusCreated).JSON(comment)
}

// GetComments handles GET /api/posts/:id/comments
func (s *Server) GetComments(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	comments, err := s.commentSvc().ListComments(c.Context(), postID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(comments)
}

// DeleteComment handles DELETE /api/posts/:id/comments/:commentId (author or admin)
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}

	if err := s.commentSvc().DeleteComment(c.Context(), service.DeleteCommentInput{
		UserID:    userID,
		PostID:    postID,
		CommentID: commentID,
	}); err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(fiber.Map{"message": "Comment deleted"})
}

func (s *Server) commentSvc() *service.CommentService {
	if s.commentService == nil {
		s.commentService = service.NewCommentService(
			s.db, s.commentRepo, s.postRepo, s.notifRepo, s.userRepo, s.isAdminByUserID)
	}
	return s.commentService
}
