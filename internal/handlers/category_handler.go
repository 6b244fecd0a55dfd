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

// CategoryHandler handles category CRUD HTTP requests
type CategoryHandler struct {
	catService  services.CategoryService
	exposeError bool
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(catService services.CategoryService, exposeError bool) *CategoryHandler {
	return &CategoryHandler{catService: catService, exposeError: exposeError}
}

// CategoryRequest defines the expected JSON body for create/update
type CategoryRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

// List handles GET /api/categories
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	logger := mw.GetRequestLogger(c)

	cats, meta, err := h.catService.List(c.Context(), listParams(c))
	if err != nil {
		logger.Error("Failed to list categories", zap.Error(err))
		return respond.Internal(c, err, h.exposeError)
	}
	if meta != nil {
		return respond.List(c, "Data retrieved successfully.", cats, meta)
	}
	return respond.List(c, "Data retrieved successfully.", cats, nil)
}

// Create handles POST /api/categories
func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	logger := mw.GetRequestLogger(c)

	var req CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Warn("Failed to parse category request body", zap.Error(err))
		return respond.BadRequest(c, "Invalid request body.")
	}
	if fieldErrors := validation.ValidateStruct(&req); fieldErrors != nil {
		logger.Warn("Category validation failed", zap.Any("details", fieldErrors))
		return respond.ValidationFailed(c, fieldErrors)
	}

	cat, err := h.catService.Create(c.Context(), req.Name)
	if err != nil {
		logger.Error("Failed to create category", zap.Error(err))
		return respond.Internal(c, err, h.exposeError)
	}
	logger.Info("Category created", zap.Int64("id", cat.ID))
	return respond.Created(c, "Data created successfully.", cat)
}

// Get handles GET /api/categories/:id
func (h *CategoryHandler) Get(c *fiber.Ctx) error {
	logger := mw.GetRequestLogger(c)

	id, ok := pathID(c)
	if !ok {
		return respond.NotFound(c, "Data not found.")
	}
	cat, err := h.catService.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return respond.NotFound(c, "Data not found.")
		}
		logger.Error("Failed to fetch category", zap.Int64("id", id), zap.Error(err))
		return respond.Internal(c, err, h.exposeError)
	}
	return respond.OK(c, "Data retrieved successfully.", cat)
}

// Update handles PUT /api/categories/:id
func (h *CategoryHandler) Update(c *fiber.Ctx) error {
	logger := mw.GetRequestLogger(c)

	id, ok := pathID(c)
	if !ok {
		return respond.NotFound(c, "Data not found.")
	}

	var req CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Warn("Failed to parse category request body", zap.Error(err))
		return respond.BadRequest(c, "Invalid request body.")
	}
	if fieldErrors := validation.ValidateStruct(&req); fieldErrors != nil {
		logger.Warn("Category validation failed", zap.Any("details", fieldErrors))
		return respond.ValidationFailed(c, fieldErrors)
	}

	cat, err := h.catService.Update(c.Context(), id, req.Name)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return respond.NotFound(c, "Data not found.")
		}
		logger.Error("Failed to update category", zap.Int64("id", id), zap.Error(err))
		return respond.Internal(c, err, h.exposeError)
	}
	return respond.OK(c, "Data updated successfully.", cat)
}

// Delete handles DELETE /api/categories/:id
func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	logger := mw.GetRequestLogger(c)

	id, ok := pathID(c)
	if !ok {
		return respond.NotFound(c, "Data not found.")
	}
	if err := h.catService.Delete(c.Context(), id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return respond.NotFound(c, "Data not found.")
		}
		logger.Error("Failed to delete category", zap.Int64("id", id), zap.Error(err))
		return respond.Internal(c, err, h.exposeError)
	}
	return respond.OK(c, "Data deleted successfully.", nil)
}

// SetupRoutes registers category CRUD routes on the given router group.
func (h *CategoryHandler) SetupRoutes(router fiber.Router) {
	router.Get("/categories", h.List)
	router.Post("/categories", h.Create)
	router.Get("/categories/:id", h.Get)
	router.Put("/categories/:id", h.Update)
	router.Delete("/categories/:id", h.Delete)
}
