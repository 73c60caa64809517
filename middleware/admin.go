package middleware

import (
	"log"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// AdminAuth validates the operator Bearer token on /admin routes.
// With ADMIN_TOKEN unset the admin surface is disabled outright.
func AdminAuth() fiber.Handler {
	expectedToken := os.Getenv("ADMIN_TOKEN")
	if expectedToken == "" {
		log.Println("⚠️  ADMIN_TOKEN not set — admin endpoints disabled")
	}

	return func(c *fiber.Ctx) error {
		if expectedToken == "" {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "admin endpoints are disabled",
			})
		}

		authHeader := c.Get("Authorization")
		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == "" || token != expectedToken {
			log.Printf("[ADMIN] Rejected request to %s", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid admin token",
			})
		}
		return c.Next()
	}
}
