package handlers

import (
	"errors"

	mw "travel-webapi/internal/middleware"
	"travel-webapi/internal/respond"
	"travel-webapi/internal/services"
	"travel-webapi/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// UserHandler handles admin user CRUD HTTP requests
type UserHandler struct {
	userService services.UserService
	exposeError bool
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService services.UserService, exposeError bool) *UserHandler {
	return &UserHandler{userService: userService, exposeError: exposeError}
}

// UserCreateRequest defines the expected JSON body for user creation
type UserCreateRequest struct {
	Name                 string `json:"name" validate:"required,max=50"`
	Email                string `json:"email" validate:"required,email,max=100"`
	Password             string `json:"password" validate:"required,min=6"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
}

// UserUpdateRequest defines the expected JSON body for user updates.
// Password is optional; when present it must be confirmed.
type UserUpdateRequest struct {
	Name                 string `json:"name" validate:"required,max=50"`
	Email                string `json:"email" validate:"required,email,max=100"`
	Password             string `json:"password" validate:"omitempty,min=6"`
	PasswordConfirmation string `json:"password_confirmation" validate:"eqfield=Password"`
}

func emailTakenErrors() map[string][]string {
	return map[string][]string{"email": {"The email has already been taken."}}
}

// List handles GET /api/users
func (h *UserHandler) List(c *fiber.Ctx) error {
	logger := mw.GetRequestLogger(c)

	users, meta, err := h.userService.List(c.Context(), listParams(c))
	if err != nil {
		logger.Error("Failed to list users", zap.Error(err))
		return respond.Internal(c, err, h.exposeError)
	}
	if meta != nil {
		return respond.List(c, "Users retrieved successfully.", users, meta)
	}
	return respond.List(c, "Users retrieved successfully.", users, nil)
}

// Create handles POST /api/users
func (h *UserHandler) Create(c *fiber.Ctx) error {
	logger := mw.GetRequestLogger(c)

	var req UserCreateRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Warn("Failed to parse user request body", zap.Error(err))
		return respond.BadRequest(c, "Invalid request body.")
	}
	if fieldErrors := validation.ValidateStruct(&req); fieldErrors != nil {
		logger.Warn("User validation failed", zap.Any("details", fieldErrors))
		return respond.ValidationFailed(c, fieldErrors)
	}

	user, err := h.userService.Create(c.Context(), services.UserInput{Name: req.Name, Email: req.Email, Password: req.Password})
	if err != nil {
		if errors.Is(err, services.ErrEmailExists) {
			logger.Warn("User create failed: email exists", zap.String("email", req.Email))
			return respond.ValidationFailed(c, emailTakenErrors())
		}
		logger.Error("Failed to create user", zap.Error(err))
		return respond.Internal(c, err, h.exposeError)
	}
	logger.Info("User created", zap.Int64("id", user.ID))
	return respond.Created(c, "User created successfully.", fiber.Map{"user": user})
}

// Get handles GET /api/users/:id
func (h *UserHandler) Get(c *fiber.Ctx) error {
	logger := mw.GetRequestLogger(c)

	id, ok := pathID(c)
	if !ok {
		return respond.NotFound(c, "User not found.")
	}
	user, err := h.userService.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return respond.NotFound(c, "User not found.")
		}
		logger.Error("Failed to fetch user", zap.Int64("id", id), zap.Error(err))
		return respond.Internal(c, err, h.exposeError)
	}
	return respond.OK(c, "User retrieved successfully.", fiber.Map{"user": user})
}

// Update handles PUT /api/users/:id
func (h *UserHandler) Update(c *fiber.Ctx) error {
	logger := mw.GetRequestLogger(c)

	id, ok := pathID(c)
	if !ok {
		return respond.NotFound(c, "User not found.")
	}

	var req UserUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Warn("Failed to parse user request body", zap.Error(err))
		return respond.BadRequest(c, "Invalid request body.")
	}
	if fieldErrors := validation.ValidateStruct(&req); fieldErrors != nil {
		logger.Warn("User validation failed", zap.Any("details", fieldErrors))
		return respond.ValidationFailed(c, fieldErrors)
	}

	user, err := h.userService.Update(c.Context(), id, services.UserInput{Name: req.Name, Email: req.Email, Password: req.Password})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			return respond.NotFound(c, "User not found.")
		case errors.Is(err, services.ErrEmailExists):
			logger.Warn("User update failed: email exists", zap.Int64("id", id))
			return respond.ValidationFailed(c, emailTakenErrors())
		default:
			logger.Error("Failed to update user", zap.Int64("id", id), zap.Error(err))
			return respond.Internal(c, err, h.exposeError)
		}
	}
	return respond.OK(c, "User updated successfully.", fiber.Map{"user": user})
}

// Delete handles DELETE /api/users/:id
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	logger := mw.GetRequestLogger(c)

	id, ok := pathID(c)
	if !ok {
		return respond.NotFound(c, "User not found.")
	}
	if err := h.userService.Delete(c.Context(), id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return respond.NotFound(c, "User not found.")
		}
		logger.Error("Failed to delete user", zap.Int64("id", id), zap.Error(err))
		return respond.Internal(c, err, h.exposeError)
	}
	return respond.OK(c, "User deleted successfully.", nil)
}

// SetupRoutes registers user CRUD routes on the given (protected) router group.
func (h *UserHandler) SetupRoutes(router fiber.Router) {
	router.Get("/users", h.List)
	router.Post("/users", h.Create)
	router.Get("/users/:id", h.Get)
	router.Put("/users/:id", h.Update)
	router.Delete("/users/:id", h.Delete)
}
