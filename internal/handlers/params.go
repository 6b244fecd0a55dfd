package handlers

import (
	"strconv"

	"travel-webapi/internal/repositories"

	"github.com/gofiber/fiber/v2"
)

// listParams reads the optional page/limit query values. Absent or
// non-numeric values stay nil, which selects the bare (unpaginated) list form.
func listParams(c *fiber.Ctx) repositories.ListParams {
	params := repositories.ListParams{}
	if raw := c.Query("page"); raw != "" {
		if page, err := strconv.Atoi(raw); err == nil {
			params.Page = &page
		}
	}
	if raw := c.Query("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil {
			params.Limit = &limit
		}
	}
	return params
}

// pathID parses the {id} path parameter. ok is false when it is not a number.
func pathID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

// optionalID parses an optional numeric form/body value into *int64.
func optionalID(raw string) *int64 {
	if raw == "" {
		return nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	return &id
}
