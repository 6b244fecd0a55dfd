package middleware

import (
	"strings"

	"travel-webapi/internal/respond"
	"travel-webapi/internal/token"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// BearerToken extracts the bearer token from the Authorization header.
// Returns an empty string when the header is absent or malformed.
func BearerToken(c *fiber.Ctx) string {
	authHeader := c.Get(AuthorizationHeader)
	if !strings.HasPrefix(authHeader, BearerPrefix) {
		return ""
	}
	return strings.TrimPrefix(authHeader, BearerPrefix)
}

// Protected returns a Fiber middleware that checks for a valid, non-revoked
// session token. A missing token is a 400, an invalid, expired or revoked one
// a 401. On success the user ID, raw token and claims land in Locals.
// exposeError controls whether a denylist failure's detail reaches the 500
// envelope, same policy as the handlers.
func Protected(issuer *token.Issuer, denylist token.Denylist, exposeError bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		logger := GetRequestLogger(c)

		tokenString := BearerToken(c)
		if tokenString == "" {
			logger.Warn("Missing or malformed Authorization header")
			return respond.BadRequest(c, "Token is missing.")
		}

		claims, err := issuer.Parse(tokenString)
		if err != nil {
			logger.Warn("Invalid JWT token", zap.Error(err))
			return respond.Unauthorized(c, "Invalid or expired token.")
		}

		revoked, err := denylist.IsRevoked(c.Context(), claims.ID)
		if err != nil {
			logger.Error("Denylist lookup failed", zap.Error(err))
			return respond.Internal(c, err, exposeError)
		}
		if revoked {
			logger.Warn("Revoked token presented", zap.String("jti", claims.ID))
			return respond.Unauthorized(c, "Invalid or expired token.")
		}

		userID, err := claims.UserID()
		if err != nil {
			logger.Warn("Token subject is not a valid user ID", zap.String("subject", claims.Subject))
			return respond.Unauthorized(c, "Invalid or expired token.")
		}

		c.Locals(UserIDKey, userID)
		c.Locals(TokenKey, tokenString)
		c.Locals(ClaimsKey, claims)
		logger.Debug("JWT validated successfully", zap.Int64("userID", userID))

		return c.Next()
	}
}
