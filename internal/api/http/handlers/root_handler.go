package handlers

import "github.com/gofiber/fiber/v2"

// RootHandler serves the welcome endpoint.
type RootHandler struct{}

// NewRootHandler returns a new handler instance.
func NewRootHandler() *RootHandler {
	return &RootHandler{}
}

// Welcome handles GET /.
func (h *RootHandler) Welcome(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "Welcome to the Education Platform API"})
}
