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

// MessageHandler handles contact message CRUD HTTP requests
type MessageHandler struct {
	msgService  services.MessageService
	exposeError bool
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(msgService services.MessageService, exposeError bool) *MessageHandler {
	return &MessageHandler{msgService: msgService, exposeError: exposeError}
}

// MessageRequest defines the expected JSON body for create/update
type MessageRequest struct {
	Name    string `json:"name" validate:"required,max=255"`
	Email   string `json:"email" validate:"required,max=255"`
	Message string `json:"message" validate:"required"`
}

// List handles GET /api/messages
func (h *MessageHandler) List(c *fiber.Ctx) error {
	logger := mw.GetRequestLogger(c)

	msgs, meta, err := h.msgService.List(c.Context(), listParams(c))
	if err != nil {
		logger.Error("Failed to list messages", zap.Error(err))
		return respond.Internal(c, err, h.exposeError)
	}
	if meta != nil {
		return respond.List(c, "Data retrieved successfully.", msgs, meta)
	}
	return respond.List(c, "Data retrieved successfully.", msgs, nil)
}

// Create handles POST /api/messages
func (h *MessageHandler) Create(c *fiber.Ctx) error {
	logger := mw.GetRequestLogger(c)

	var req MessageRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Warn("Failed to parse message request body", zap.Error(err))
		return respond.BadRequest(c, "Invalid request body.")
	}
	if fieldErrors := validation.ValidateStruct(&req); fieldErrors != nil {
		logger.Warn("Message validation failed", zap.Any("details", fieldErrors))
		return respond.ValidationFailed(c, fieldErrors)
	}

	msg, err := h.msgService.Create(c.Context(), services.MessageInput{Name: req.Name, Email: req.Email, Message: req.Message})
	if err != nil {
		logger.Error("Failed to create message", zap.Error(err))
		return respond.Internal(c, err, h.exposeError)
	}
	logger.Info("Message created", zap.Int64("id", msg.ID))
	return respond.Created(c, "Data created successfully.", msg)
}

// Get handles GET /api/messages/:id
func (h *MessageHandler) Get(c *fiber.Ctx) error {
	logger := mw.GetRequestLogger(c)

	id, ok := pathID(c)
	if !ok {
		return respond.NotFound(c, "Data not found.")
	}
	msg, err := h.msgService.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return respond.NotFound(c, "Data not found.")
		}
		logger.Error("Failed to fetch message", zap.Int64("id", id), zap.Error(err))
		return respond.Internal(c, err, h.exposeError)
	}
	return respond.OK(c, "Data retrieved successfully.", msg)
}

// Update handles PUT /api/messages/:id
func (h *MessageHandler) Update(c *fiber.Ctx) error {
	logger := mw.GetRequestLogger(c)

	id, ok := pathID(c)
	if !ok {
		return respond.NotFound(c, "Data not found.")
	}

	var req MessageRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Warn("Failed to parse message request body", zap.Error(err))
		return respond.BadRequest(c, "Invalid request body.")
	}
	if fieldErrors := validation.ValidateStruct(&req); fieldErrors != nil {
		logger.Warn("Message validation failed", zap.Any("details", fieldErrors))
		return respond.ValidationFailed(c, fieldErrors)
	}

	msg, err := h.msgService.Update(c.Context(), id, services.MessageInput{Name: req.Name, Email: req.Email, Message: req.Message})
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return respond.NotFound(c, "Data not found.")
		}
		logger.Error("Failed to update message", zap.Int64("id", id), zap.Error(err))
		return respond.Internal(c, err, h.exposeError)
	}
	return respond.OK(c, "Data updated successfully.", msg)
}

// Delete handles DELETE /api/messages/:id
func (h *MessageHandler) Delete(c *fiber.Ctx) error {
	logger := mw.GetRequestLogger(c)

	id, ok := pathID(c)
	if !ok {
		return respond.NotFound(c, "Data not found.")
	}
	if err := h.msgService.Delete(c.Context(), id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return respond.NotFound(c, "Data not found.")
		}
		logger.Error("Failed to delete message", zap.Int64("id", id), zap.Error(err))
		return respond.Internal(c, err, h.exposeError)
	}
	return respond.OK(c, "Data deleted successfully.", nil)
}

// SetupRoutes registers message CRUD routes on the given router group.
func (h *MessageHandler) SetupRoutes(router fiber.Router) {
	router.Get("/messages", h.List)
	router.Post("/messages", h.Create)
	router.Get("/messages/:id", h.Get)
	router.Put("/messages/:id", h.Update)
	router.Delete("/messages/:id", h.Delete)
}
