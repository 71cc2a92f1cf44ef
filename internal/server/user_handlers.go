package server

import (
	"devconnector/internal/models"
	"devconnector/internal/service"

	"github.com/gofiber/fiber/v2"
)

// TokenResponse is returned by register and login.
type TokenResponse struct {
	Token string `json:"token"`
}

// Register handles POST /api/users
// @Summary Register user
// @Description Create an account and return a session token
// @Tags users
// @Accept json
// @Produce json
// @Param request body service.RegisterInput true "Registration"
// @Success 200 {object} TokenResponse
// @Failure 400 {object} models.ValidationResponse
// @Router /users [post]
func (s *Server) Register(c *fiber.Ctx) error {
	var req service.RegisterInput
	if err := parseBody(c, &req); err != nil {
		return models.RespondWithError(c, err)
	}

	token, err := s.userService.Register(c.UserContext(), req)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(TokenResponse{Token: token})
}

// Login handles POST /api/auth
// @Summary Authenticate user
// @Description Exchange email and password for a session token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.LoginInput true "Credentials"
// @Success 200 {object} TokenResponse
// @Failure 400 {object} models.ValidationResponse
// @Router /auth [post]
func (s *Server) Login(c *fiber.Ctx) error {
	var req service.LoginInput
	if err := parseBody(c, &req); err != nil {
		return models.RespondWithError(c, err)
	}

	token, err := s.userService.Login(c.UserContext(), req)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(TokenResponse{Token: token})
}

// GetAuthUser handles GET /api/auth
// @Summary Current user
// @Description Return the authenticated user without the password digest
// @Tags auth
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} models.User
// @Failure 401 {object} models.ErrorResponse
// @Router /auth [get]
func (s *Server) GetAuthUser(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	user, err := s.userService.CurrentUser(c.UserContext(), userID)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(user)
}
