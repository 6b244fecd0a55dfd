package respond

import "github.com/gofiber/fiber/v2"

// Envelope is the uniform JSON wrapper for every API response.
type Envelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Data    interface{}         `json:"data,omitempty"`
	Meta    interface{}         `json:"meta,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
	Error   string              `json:"error,omitempty"`
}

// OK sends a 200 envelope.
func OK(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusOK).JSON(Envelope{Success: true, Message: message, Data: data})
}

// List sends a 200 envelope carrying list data; meta is only present for
// paginated results and must be nil for bare lists.
func List(c *fiber.Ctx, message string, data interface{}, meta interface{}) error {
	return c.Status(fiber.StatusOK).JSON(Envelope{Success: true, Message: message, Data: data, Meta: meta})
}

// Created sends a 201 envelope.
func Created(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(Envelope{Success: true, Message: message, Data: data})
}

// ValidationFailed sends a 422 envelope with field-level messages.
func ValidationFailed(c *fiber.Ctx, errors map[string][]string) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(Envelope{Success: false, Message: "Validation failed.", Errors: errors})
}

// BadRequest sends a 400 envelope.
func BadRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(Envelope{Success: false, Message: message})
}

// Unauthorized sends a 401 envelope.
func Unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(Envelope{Success: false, Message: message})
}

// NotFound sends a 404 envelope.
func NotFound(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusNotFound).JSON(Envelope{Success: false, Message: message})
}

// Internal sends a 500 envelope. The underlying error string is only included
// when detail is set (non-production environments).
func Internal(c *fiber.Ctx, err error, detail bool) error {
	env := Envelope{Success: false, Message: "Something went wrong."}
	if detail && err != nil {
		env.Error = err.Error()
	}
	return c.Status(fiber.StatusInternalServerError).JSON(env)
}
