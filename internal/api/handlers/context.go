package handlers

import (
	"foodgram/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// currentUserID returns the authenticated user id, or "" for anonymous callers.
func currentUserID(c *fiber.Ctx) string {
	userID, _ := c.Locals(middleware.UserIDKey).(string)
	return userID
}
