package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	mw "travel-webapi/internal/middleware"
	"travel-webapi/internal/respond"
	"travel-webapi/internal/services"
	"travel-webapi/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const maxImageSize = 2 << 20 // 2 MB, matching the admin panel's upload rule

var allowedImageExts = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".gif":  true,
}

// DestinationHandler handles destination CRUD HTTP requests
type DestinationHandler struct {
	destService services.DestinationService
	exposeError bool
}

// NewDestinationHandler creates a new DestinationHandler
func NewDestinationHandler(destService services.DestinationService, exposeError bool) *DestinationHandler {
	return &DestinationHandler{destService: destService, exposeError: exposeError}
}

// DestinationRequest defines the expected form fields for create/update
type DestinationRequest struct {
	UserID      string `form:"user_id"`
	CategoryID  string `form:"category_id"`
	Name        string `form:"name" validate:"required,max=255"`
	Location    string `form:"location" validate:"required,max=255"`
	Description string `form:"description" validate:"required"`
}

// imageFile pulls the optional image upload out of the request and validates
// its type and size. A nil return with ok=true means no image was supplied.
func imageFile(c *fiber.Ctx) (*multipart.FileHeader, map[string][]string) {
	file, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, fiber.ErrUnprocessableEntity) {
			return nil, nil
		}
		// No multipart body at all is fine; the image is optional.
		return nil, nil
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExts[ext] {
		return nil, map[string][]string{"image": {"The image field must be a file of type: jpeg, png, jpg, gif."}}
	}
	if file.Size > maxImageSize {
		return nil, map[string][]string{"image": {"The image field must not be greater than 2048 kilobytes."}}
	}
	return file, nil
}

func (h *DestinationHandler) input(c *fiber.Ctx) (*services.DestinationInput, map[string][]string, error) {
	var req DestinationRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, nil, err
	}
	if fieldErrors := validation.ValidateStruct(&req); fieldErrors != nil {
		return nil, fieldErrors, nil
	}
	file, fileErrors := imageFile(c)
	if fileErrors != nil {
		return nil, fileErrors, nil
	}
	return &services.DestinationInput{
		UserID:      optionalID(req.UserID),
		CategoryID:  optionalID(req.CategoryID),
		Name:        req.Name,
		Location:    req.Location,
		Description: req.Description,
		Image:       file,
	}, nil, nil
}

// List handles GET /api/destinations
func (h *DestinationHandler) List(c *fiber.Ctx) error {
	logger := mw.GetRequestLogger(c)

	dests, meta, err := h.destService.List(c.Context(), listParams(c))
	if err != nil {
		logger.Error("Failed to list destinations", zap.Error(err))
		return respond.Internal(c, err, h.exposeError)
	}
	if meta != nil {
		return respond.List(c, "Data retrieved successfully.", dests, meta)
	}
	return respond.List(c, "Data retrieved successfully.", dests, nil)
}

// Create handles POST /api/destinations
func (h *DestinationHandler) Create(c *fiber.Ctx) error {
	logger := mw.GetRequestLogger(c)

	input, fieldErrors, err := h.input(c)
	if err != nil {
		logger.Warn("Failed to parse destination request", zap.Error(err))
		return respond.BadRequest(c, "Invalid request body.")
	}
	if fieldErrors != nil {
		logger.Warn("Destination validation failed", zap.Any("details", fieldErrors))
		return respond.ValidationFailed(c, fieldErrors)
	}

	dest, err := h.destService.Create(c.Context(), *input)
	if err != nil {
		logger.Error("Failed to create destination", zap.Error(err))
		return respond.Internal(c, err, h.exposeError)
	}
	logger.Info("Destination created", zap.Int64("id", dest.ID))
	return respond.Created(c, "Data created successfully.", dest)
}

// Get handles GET /api/destinations/:id
func (h *DestinationHandler) Get(c *fiber.Ctx) error {
	logger := mw.GetRequestLogger(c)

	id, ok := pathID(c)
	if !ok {
		return respond.NotFound(c, "Data not found.")
	}
	dest, err := h.destService.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return respond.NotFound(c, "Data not found.")
		}
		logger.Error("Failed to fetch destination", zap.Int64("id", id), zap.Error(err))
		return respond.Internal(c, err, h.exposeError)
	}
	return respond.OK(c, "Data retrieved successfully.", dest)
}

// Update handles PUT /api/destinations/:id
func (h *DestinationHandler) Update(c *fiber.Ctx) error {
	logger := mw.GetRequestLogger(c)

	id, ok := pathID(c)
	if !ok {
		return respond.NotFound(c, "Data not found.")
	}
	input, fieldErrors, err := h.input(c)
	if err != nil {
		logger.Warn("Failed to parse destination request", zap.Error(err))
		return respond.BadRequest(c, "Invalid request body.")
	}
	if fieldErrors != nil {
		logger.Warn("Destination validation failed", zap.Any("details", fieldErrors))
		return respond.ValidationFailed(c, fieldErrors)
	}

	dest, err := h.destService.Update(c.Context(), id, *input)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return respond.NotFound(c, "Data not found.")
		}
		logger.Error("Failed to update destination", zap.Int64("id", id), zap.Error(err))
		return respond.Internal(c, err, h.exposeError)
	}
	logger.Info("Destination updated", zap.Int64("id", id))
	return respond.OK(c, "Data updated successfully.", dest)
}

// Delete handles DELETE /api/destinations/:id
func (h *DestinationHandler) Delete(c *fiber.Ctx) error {
	logger := mw.GetRequestLogger(c)

	id, ok := pathID(c)
	if !ok {
		return respond.NotFound(c, "Data not found.")
	}
	if err := h.destService.Delete(c.Context(), id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return respond.NotFound(c, "Data not found.")
		}
		logger.Error("Failed to delete destination", zap.Int64("id", id), zap.Error(err))
		return respond.Internal(c, err, h.exposeError)
	}
	logger.Info("Destination deleted", zap.Int64("id", id))
	return respond.OK(c, "Data deleted successfully.", nil)
}

// SetupRoutes registers destination CRUD routes on the given router group.
func (h *DestinationHandler) SetupRoutes(router fiber.Router) {
	router.Get("/destinations", h.List)
	router.Post("/destinations", h.Create)
	router.Get("/destinations/:id", h.Get)
	router.Put("/destinations/:id", h.Update)
	router.Delete("/destinations/:id", h.Delete)
}
