package handlers

import (
	"errors"

	mw "travel-webapi/internal/middleware"
	"travel-webapi/internal/respond"
	"travel-webapi/internal/services"
	"travel-webapi/internal/token"
	"travel-webapi/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AuthHandler handles authentication related HTTP requests
type AuthHandler struct {
	authService services.AuthService
	exposeError bool // include error detail in 500 envelopes outside production
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService services.AuthService, exposeError bool) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		exposeError: exposeError,
	}
}

// RegisterRequest defines the expected JSON body for registration requests
type RegisterRequest struct {
	Name                 string `json:"name" validate:"required,max=50"`
	Email                string `json:"email" validate:"required,email,max=100"`
	Password             string `json:"password" validate:"required,min=6"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
}

// LoginRequest defines the expected JSON body for login requests
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=100"`
	Password string `json:"password" validate:"required"`
}

// sessionData is the envelope data payload for issued tokens.
type sessionData struct {
	User      interface{} `json:"user,omitempty"`
	Token     string      `json:"token"`
	TokenType string      `json:"token_type"`
	ExpiresIn int64       `json:"expires_in"`
}

// Register handles POST /api/register requests
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	logger := mw.GetRequestLogger(c)

	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Warn("Failed to parse register request body", zap.Error(err))
		return respond.BadRequest(c, "Invalid request body.")
	}
	if fieldErrors := validation.ValidateStruct(&req); fieldErrors != nil {
		logger.Warn("Register request validation failed", zap.Any("details", fieldErrors))
		return respond.ValidationFailed(c, fieldErrors)
	}

	session, err := h.authService.Register(c.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrEmailExists) {
			logger.Warn("Registration failed: email exists", zap.String("email", req.Email))
			return respond.ValidationFailed(c, map[string][]string{
				"email": {"The email has already been taken."},
			})
		}
		logger.Error("Internal server error during registration", zap.String("email", req.Email), zap.Error(err))
		return respond.Internal(c, err, h.exposeError)
	}

	logger.Info("Registration successful", zap.String("email", req.Email))
	return respond.Created(c, "User registered successfully!", sessionData{
		User:      session.User,
		Token:     session.Token,
		TokenType: "Bearer",
		ExpiresIn: session.ExpiresIn,
	})
}

// Login handles POST /api/login requests
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	logger := mw.GetRequestLogger(c)

	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Warn("Failed to parse login request body", zap.Error(err))
		return respond.BadRequest(c, "Invalid request body.")
	}
	if fieldErrors := validation.ValidateStruct(&req); fieldErrors != nil {
		logger.Warn("Login request validation failed", zap.Any("details", fieldErrors))
		return respond.ValidationFailed(c, fieldErrors)
	}

	session, err := h.authService.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			logger.Warn("Login failed", zap.String("email", req.Email))
			return respond.Unauthorized(c, "Unauthorized access.")
		}
		logger.Error("Internal server error during login", zap.String("email", req.Email), zap.Error(err))
		return respond.Internal(c, err, h.exposeError)
	}

	logger.Info("Login successful", zap.String("email", req.Email))
	return respond.OK(c, "User logged in successfully!", sessionData{
		Token:     session.Token,
		TokenType: "Bearer",
		ExpiresIn: session.ExpiresIn,
	})
}

// Me handles GET /api/me requests (protected)
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	logger := mw.GetRequestLogger(c)

	userID, ok := c.Locals(mw.UserIDKey).(int64)
	if !ok || userID == 0 {
		logger.Error("User ID not found in locals after JWT validation")
		return respond.Unauthorized(c, "Unauthorized. No token provided or token invalid.")
	}

	user, err := h.authService.CurrentUser(c.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			logger.Warn("Token resolves to non-existent user", zap.Int64("userID", userID))
			return respond.Unauthorized(c, "Unauthorized. No token provided or token invalid.")
		}
		logger.Error("Failed to fetch current user", zap.Int64("userID", userID), zap.Error(err))
		return respond.Internal(c, err, h.exposeError)
	}

	return respond.OK(c, "User retrieved successfully.", fiber.Map{"user": user})
}

// Logout handles GET /api/logout requests (protected)
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	logger := mw.GetRequestLogger(c)

	claims, ok := c.Locals(mw.ClaimsKey).(*token.Claims)
	if !ok || claims == nil {
		logger.Error("Token claims not found in locals after JWT validation")
		return respond.Unauthorized(c, "Unauthorized. No token provided or token invalid.")
	}

	if err := h.authService.Logout(c.Context(), claims); err != nil {
		logger.Error("Logout failed", zap.Error(err))
		return respond.Internal(c, err, h.exposeError)
	}
	return respond.OK(c, "Successfully logged out.", nil)
}

// Refresh handles POST /api/refresh requests. The route is public; token
// extraction and state checks happen here rather than in the bearer guard so
// that a missing token can be distinguished from an expired one.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	logger := mw.GetRequestLogger(c)

	session, err := h.authService.Refresh(c.Context(), mw.BearerToken(c))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTokenMissing):
			logger.Warn("Refresh attempted without a token")
			return respond.BadRequest(c, "Token is missing.")
		case errors.Is(err, token.ErrTokenExpired):
			logger.Warn("Refresh attempted with an expired token")
			return respond.Unauthorized(c, "Token has expired.")
		case errors.Is(err, token.ErrTokenInvalid):
			logger.Warn("Refresh attempted with an invalid or revoked token")
			return respond.Unauthorized(c, "Invalid or expired token.")
		default:
			logger.Error("Failed to refresh token", zap.Error(err))
			return respond.Internal(c, err, h.exposeError)
		}
	}

	logger.Info("Token refreshed")
	return respond.OK(c, "Token refresh successfully!", sessionData{
		Token:     session.Token,
		TokenType: "Bearer",
		ExpiresIn: session.ExpiresIn,
	})
}

// CheckToken handles GET /api/check-token requests (protected). It is a pure
// validity probe reporting the token's actual remaining lifetime.
func (h *AuthHandler) CheckToken(c *fiber.Ctx) error {
	logger := mw.GetRequestLogger(c)

	claims, _ := c.Locals(mw.ClaimsKey).(*token.Claims)
	tokenString, _ := c.Locals(mw.TokenKey).(string)
	if claims == nil || tokenString == "" {
		logger.Error("Token context not found in locals after JWT validation")
		return respond.Unauthorized(c, "Unauthorized. No token provided or token invalid.")
	}

	session, err := h.authService.Verify(c.Context(), claims, tokenString)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) || errors.Is(err, token.ErrTokenInvalid) {
			logger.Warn("Token verification failed", zap.Error(err))
			return respond.Unauthorized(c, "Invalid or expired token.")
		}
		logger.Error("Token verification failed unexpectedly", zap.Error(err))
		return respond.Internal(c, err, h.exposeError)
	}

	return respond.OK(c, "Token is valid.", sessionData{
		User:      session.User,
		Token:     session.Token,
		TokenType: "Bearer",
		ExpiresIn: session.ExpiresIn,
	})
}

// SetupPublicRoutes registers the unauthenticated auth endpoints.
func (h *AuthHandler) SetupPublicRoutes(router fiber.Router) {
	router.Post("/register", h.Register)
	router.Post("/login", h.Login)
	router.Post("/refresh", h.Refresh)
}

// SetupProtectedRoutes registers the auth endpoints that require a valid token.
func (h *AuthHandler) SetupProtectedRoutes(router fiber.Router) {
	router.Get("/me", h.Me)
	router.Get("/logout", h.Logout)
	router.Get("/check-token", h.CheckToken)
}
