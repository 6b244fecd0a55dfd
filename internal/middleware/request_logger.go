package middleware

import (
	"travel-webapi/internal/logging"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestLogger is a middleware that injects a request-scoped logger into
// c.Locals(). The logger carries a unique "request_id" field which is also
// echoed back in the X-Request-ID response header for client-side correlation.
func RequestLogger(baseLogger *zap.Logger) fiber.Handler {
	if baseLogger == nil {
		baseLogger = zap.NewNop()
	}

	return func(c *fiber.Ctx) error {
		requestID := uuid.NewString()

		c.Set(RequestIDHeader, requestID)
		c.Locals(RequestIDKey, requestID)

		reqLogger := baseLogger.With(
			zap.String("request_id", requestID),
		)
		c.Locals(RequestLoggerKey, reqLogger)

		return c.Next()
	}
}

// GetRequestLogger retrieves the request-scoped logger from fiber.Ctx.Locals.
// Falls back to the global logger if not found.
func GetRequestLogger(c *fiber.Ctx) *zap.Logger {
	if logger, ok := c.Locals(RequestLoggerKey).(*zap.Logger); ok && logger != nil {
		return logger
	}
	return logging.GetLogger()
}

// GetRequestID retrieves the request ID string from fiber.Ctx.Locals.
// Returns an empty string if not found.
func GetRequestID(c *fiber.Ctx) string {
	if reqID, ok := c.Locals(RequestIDKey).(string); ok {
		return reqID
	}
	return ""
}
