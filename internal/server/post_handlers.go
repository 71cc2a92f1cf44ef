package server

import (
	"devconnector/internal/models"
	"devconnector/internal/service"

	"github.com/gofiber/fiber/v2"
)

type textRequest struct {
	Text string `json:"text"`
}

// author loads the caller's name and avatar for denormalized copies.
func (s *Server) author(c *fiber.Ctx) (service.Author, error) {
	userID, err := currentUserID(c)
	if err != nil {
		return service.Author{}, err
	}
	user, err := s.userService.CurrentUser(c.UserContext(), userID)
	if err != nil {
		return service.Author{}, err
	}
	return service.Author{UserID: user.ID, Name: user.Name, Avatar: user.Avatar}, nil
}

// CreatePost handles POST /api/post
// @Summary Create post
// @Tags posts
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body textRequest true "Post"
// @Success 200 {object} models.Post
// @Failure 400 {object} models.ValidationResponse
// @Router /post [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req textRequest
	if err := parseBody(c, &req); err != nil {
		return models.RespondWithError(c, err)
	}

	author, err := s.author(c)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	post, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{Author: author, Text: req.Text})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(post)
}

// GetPosts handles GET /api/post
// @Summary List posts
// @Description Newest first
// @Tags posts
// @Produce json
// @Security ApiKeyAuth
// @Param limit query int false "Page size (all when omitted)"
// @Param offset query int false "Offset"
// @Success 200 {array} models.Post
// @Router /post [get]
func (s *Server) GetPosts(c *fiber.Ctx) error {
	page := parsePagination(c)
	posts, err := s.postService.List(c.UserContext(), page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(posts)
}

// GetPost handles GET /api/post/:id
// @Summary Get post
// @Tags posts
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Post ID"
// @Success 200 {object} models.Post
// @Failure 404 {object} models.ErrorResponse
// @Router /post/{id} [get]
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := parseID(c, "id", "Post")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	post, err := s.postService.Get(c.UserContext(), id)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/post/:id
// @Summary Delete post
// @Tags posts
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Post ID"
// @Success 200 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /post/{id} [delete]
func (s *Server) DeletePost(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	id, err := parseID(c, "id", "Post")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	if err := s.postService.DeletePost(c.UserContext(), id, userID); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"msg": "Post removed"})
}

// LikePost handles PUT /api/post/like/:id
// @Summary Like post
// @Tags posts
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Post ID"
// @Success 200 {array} models.Like
// @Failure 400 {object} models.ErrorResponse
// @Router /post/like/{id} [put]
func (s *Server) LikePost(c *fiber.Ctx) error {
	return s.toggleLike(c, service.Like)
}

// UnlikePost handles PUT /api/post/unlike/:id
// @Summary Unlike post
// @Tags posts
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Post ID"
// @Success 200 {array} models.Like
// @Failure 400 {object} models.ErrorResponse
// @Router /post/unlike/{id} [put]
func (s *Server) UnlikePost(c *fiber.Ctx) error {
	return s.toggleLike(c, service.Unlike)
}

func (s *Server) toggleLike(c *fiber.Ctx, dir service.LikeDirection) error {
	userID, err := currentUserID(c)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	id, err := parseID(c, "id", "Post")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	likes, err := s.postService.ToggleLike(c.UserContext(), id, userID, dir)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(likes)
}

// AddComment handles POST /api/post/comment/:id
// @Summary Comment on post
// @Tags posts
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Post ID"
// @Param request body textRequest true "Comment"
// @Success 200 {array} models.Comment
// @Failure 400 {object} models.ValidationResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /post/comment/{id} [post]
func (s *Server) AddComment(c *fiber.Ctx) error {
	id, err := parseID(c, "id", "Post")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	var req textRequest
	if err := parseBody(c, &req); err != nil {
		return models.RespondWithError(c, err)
	}

	author, err := s.author(c)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	comments, err := s.postService.AddComment(c.UserContext(), service.AddCommentInput{
		Author: author,
		PostID: id,
		Text:   req.Text,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(comments)
}

// RemoveComment handles DELETE /api/post/comment/:id/:comment_id
// @Summary Delete comment
// @Tags posts
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Post ID"
// @Param comment_id path string true "Comment ID"
// @Success 200 {array} models.Comment
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /post/comment/{id}/{comment_id} [delete]
func (s *Server) RemoveComment(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	id, err := parseID(c, "id", "Post")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	comments, err := s.postService.RemoveComment(c.UserContext(), id, models.EntryID(c.Params("comment_id")), userID)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(comments)
}
