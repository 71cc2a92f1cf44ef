package server

import (
	"devconnector/internal/models"
	"devconnector/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/profile/me
// @Summary Current user's profile
// @Tags profile
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} models.Profile
// @Failure 404 {object} models.ErrorResponse
// @Router /profile/me [get]
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	profile, err := s.profileService.Me(c.UserContext(), userID)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(profile)
}

// UpsertProfile handles POST /api/profile
// @Summary Create or update profile
// @Description Fields left out of the body keep their stored value. skills is a comma-separated string or a list.
// @Tags profile
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body service.ProfileInput true "Profile fields"
// @Success 200 {object} models.Profile
// @Failure 400 {object} models.ValidationResponse
// @Router /profile [post]
func (s *Server) UpsertProfile(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	var req service.ProfileInput
	if err := parseBody(c, &req); err != nil {
		return models.RespondWithError(c, err)
	}

	profile, err := s.profileService.Upsert(c.UserContext(), userID, req)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(profile)
}

// GetProfiles handles GET /api/profile
// @Summary List profiles
// @Tags profile
// @Produce json
// @Param limit query int false "Page size (all when omitted)"
// @Param offset query int false "Offset"
// @Success 200 {array} models.Profile
// @Router /profile [get]
func (s *Server) GetProfiles(c *fiber.Ctx) error {
	page := parsePagination(c)
	profiles, err := s.profileService.List(c.UserContext(), page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(profiles)
}

// GetProfileByUser handles GET /api/profile/user/:user_id
// @Summary Profile by user id
// @Tags profile
// @Produce json
// @Param user_id path int true "User ID"
// @Success 200 {object} models.Profile
// @Failure 404 {object} models.ErrorResponse
// @Router /profile/user/{user_id} [get]
func (s *Server) GetProfileByUser(c *fiber.Ctx) error {
	userID, err := parseID(c, "user_id", "Profile")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	profile, err := s.profileService.ByUser(c.UserContext(), userID)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(profile)
}

// DeleteAccount handles DELETE /api/profile
// @Summary Delete account
// @Description Remove the user's posts, profile and account
// @Tags profile
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} models.ErrorResponse
// @Router /profile [delete]
func (s *Server) DeleteAccount(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	if err := s.profileService.DeleteAccount(c.UserContext(), userID); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"msg": "User deleted"})
}

// AddExperience handles PUT /api/profile/experience
// @Summary Add experience
// @Tags profile
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body service.ExperienceInput true "Experience"
// @Success 200 {object} models.Profile
// @Failure 400 {object} models.ValidationResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /profile/experience [put]
func (s *Server) AddExperience(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	var req service.ExperienceInput
	if err := parseBody(c, &req); err != nil {
		return models.RespondWithError(c, err)
	}

	profile, err := s.profileService.AddExperience(c.UserContext(), userID, req)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(profile)
}

// RemoveExperience handles DELETE /api/profile/experience/:exp_id
// @Summary Remove experience
// @Tags profile
// @Produce json
// @Security ApiKeyAuth
// @Param exp_id path string true "Experience ID"
// @Success 200 {object} models.Profile
// @Failure 404 {object} models.ErrorResponse
// @Router /profile/experience/{exp_id} [delete]
func (s *Server) RemoveExperience(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	profile, err := s.profileService.RemoveExperience(c.UserContext(), userID, models.EntryID(c.Params("exp_id")))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(profile)
}

// AddEducation handles PUT /api/profile/education
// @Summary Add education
// @Tags profile
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body service.EducationInput true "Education"
// @Success 200 {object} models.Profile
// @Failure 400 {object} models.ValidationResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /profile/education [put]
func (s *Server) AddEducation(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	var req service.EducationInput
	if err := parseBody(c, &req); err != nil {
		return models.RespondWithError(c, err)
	}

	profile, err := s.profileService.AddEducation(c.UserContext(), userID, req)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(profile)
}

// RemoveEducation handles DELETE /api/profile/education/:edu_id
// @Summary Remove education
// @Tags profile
// @Produce json
// @Security ApiKeyAuth
// @Param edu_id path string true "Education ID"
// @Success 200 {object} models.Profile
// @Failure 404 {object} models.ErrorResponse
// @Router /profile/education/{edu_id} [delete]
func (s *Server) RemoveEducation(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	profile, err := s.profileService.RemoveEducation(c.UserContext(), userID, models.EntryID(c.Params("edu_id")))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(profile)
}
