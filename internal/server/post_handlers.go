// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"devconnect/internal/models"
	"devconnect/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePost handles POST /api/posts. New posts start out pending and only
// reach the feed after an admin approves them.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		Description string   `json:"description"`
		Images      []string `json:"images"`
		VideoURL    string   `json:"video_url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postSvc().CreatePost(c.Context(), service.CreatePostInput{
		UserID:      userID,
		Description: req.Description,
		Images:      req.Images,
		VideoURL:    req.VideoURL,
	})
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Post submitted and under verification",
		"post":    post,
	})
}

// GetPosts handles GET /api/posts (approved posts, newest first)
func (s *Server) GetPosts(c *fiber.Ctx) error {
	page := parsePagination(c, 20)
	currentUserID, _ := s.optionalUserID(c)

	posts, err := s.postSvc().ListFeed(c.Context(), page.Limit, page.Offset, currentUserID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(posts)
}

// SearchPosts handles GET /api/posts/search?q=...
func (s *Server) SearchPosts(c *fiber.Ctx) error {
	query := c.Query("q")
	page := parsePagination(c, 20)
	currentUserID, _ := s.optionalUserID(c)

	posts, err := s.postSvc().SearchPosts(c.Context(), query, page.Limit, page.Offset, currentUserID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(posts)
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	currentUserID, _ := s.optionalUserID(c)

	post, err := s.postSvc().GetPost(c.Context(), id, currentUserID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(post)
}

// GetUserPosts handles GET /api/users/:id/posts (approved posts of one user)
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c, 20)
	currentUserID, _ := s.optionalUserID(c)

	posts, err := s.postSvc().ListUserPosts(c.Context(), userID, page.Limit, page.Offset, currentUserID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(posts)
}

// GetMyPendingPosts handles GET /api/posts/me/pending
func (s *Server) GetMyPendingPosts(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	page := parsePagination(c, 20)

	posts, err := s.postSvc().ListMyPending(c.Context(), userID, page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(posts)
}

// DeletePost handles DELETE /api/posts/:id (author or admin)
func (s *Server) DeletePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postSvc().DeletePost(c.Context(), userID, postID); err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(fiber.Map{"message": "Post deleted"})
}

// LikePost handles POST /api/posts/:id/like. The endpoint is a toggle: a
// second call removes the like.
func (s *Server) LikePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	result, err := s.postSvc().ToggleLike(c.Context(), userID, postID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	// Post-commit, best-effort realtime hints.
	s.publishNotification(result.Notification)

	message := "Post liked"
	if !result.Liked {
		message = "Post unliked"
	}
	return c.JSON(fiber.Map{
		"message":       message,
		"like_count":    result.LikeCount,
		"liked_by_user": result.Liked,
	})
}

// GetPostLikes handles GET /api/posts/:id/likes
func (s *Server) GetPostLikes(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	currentUserID, _ := s.optionalUserID(c)

	likers, err := s.postSvc().ListLikers(c.Context(), postID, currentUserID)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(fiber.Map{
		"like_count": len(likers),
		"users":      likers,
	})
}

func (s *Server) postSvc() *service.PostService {
	if s.postService == nil {
		s.postService = service.NewPostService(s.db, s.postRepo, s.notifRepo, s.userRepo, s.isAdminByUserID)
	}
	return s.postService
}
