package handler

import (
	"github.com/gofiber/fiber/v2"
)

// userIDFromContext returns the authenticated user id set by the JWT
// middleware, or "" for unauthenticated requests.
func userIDFromContext(c *fiber.Ctx) string {
	if id, ok := c.Locals("user_id").(string); ok {
		return id
	}
	return ""
}
