package server

import (
	"devconnector/internal/middleware"
	"devconnector/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Pagination holds parsed limit/offset query parameters.
type Pagination struct {
	Limit  int
	Offset int
}

const maxPaginationLimit = 100

// parsePagination reads optional limit and offset. Without a limit every
// row is returned, matching the unpaginated listing clients expect.
func parsePagination(c *fiber.Ctx) Pagination {
	limit := c.QueryInt("limit", 0)
	if limit < 0 {
		limit = 0
	}
	if limit > maxPaginationLimit {
		limit = maxPaginationLimit
	}

	offset := c.QueryInt("offset", 0)
	if offset < 0 || limit == 0 {
		offset = 0
	}

	return Pagination{
		Limit:  limit,
		Offset: offset,
	}
}

// parseID extracts a route parameter as a positive id. A malformed id can
// never name a document, so it is reported as resource not found.
func parseID(c *fiber.Ctx, param, resource string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		return 0, models.NewNotFoundError(resource)
	}
	return uint(id), nil
}

// parseBody decodes a JSON body into dst. An empty body leaves dst zero so
// field validation reports what is missing.
func parseBody(c *fiber.Ctx, dst any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	if err := c.BodyParser(dst); err != nil {
		return models.NewValidationError("Invalid request body")
	}
	return nil
}

// currentUserID returns the id set by the auth guard.
func currentUserID(c *fiber.Ctx) (uint, error) {
	userID, ok := middleware.UserID(c)
	if !ok {
		return 0, models.NewUnauthenticatedError(middleware.MsgNoToken)
	}
	return userID, nil
}
