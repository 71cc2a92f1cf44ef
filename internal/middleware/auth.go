// Package middleware provides authentication, logging, tracing and rate limiting middleware.
package middleware

import (
	"devconnector/internal/auth"
	"devconnector/internal/models"
	"devconnector/internal/observability"

	"github.com/gofiber/fiber/v2"
)

// TokenHeader carries the session token on every protected request.
const TokenHeader = "x-auth-token"

// Messages returned by the auth guard.
const (
	MsgNoToken      = "No token, Authorization denied"
	MsgInvalidToken = "Token is not valid"
)

// AuthRequired enforces a valid session token and stores the user id in
// c.Locals("userID"). It never touches the store.
func AuthRequired(secret []byte) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Get(TokenHeader)
		if token == "" {
			observability.AuthFailures.WithLabelValues("missing").Inc()
			return models.RespondWithError(c, models.NewUnauthenticatedError(MsgNoToken))
		}

		userID, err := auth.VerifyToken(token, secret)
		if err != nil {
			observability.AuthFailures.WithLabelValues(auth.Reason(err)).Inc()
			return models.RespondWithError(c, models.NewUnauthenticatedError(MsgInvalidToken))
		}

		c.Locals("userID", userID)
		c.SetUserContext(observability.WithUserID(c.UserContext(), userID))

		return c.Next()
	}
}

// UserID returns the id stored by AuthRequired.
func UserID(c *fiber.Ctx) (uint, bool) {
	uid, ok := c.Locals("userID").(uint)
	return uid, ok
}
