package middleware

import (
	"matcharena/services"

	"github.com/gofiber/fiber/v2"
)

// SessionAuth resolves the session cookie to a username and attaches it
// to the request context. Everything under /s/ requires it.
func SessionAuth(users *services.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies("session")
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "no session — log in first",
			})
		}
		name, err := users.ResolveSession(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "session expired or invalid",
			})
		}
		c.Locals("user_name", name)
		return c.Next()
	}
}

// CurrentUser returns the username stored by SessionAuth.
func CurrentUser(c *fiber.Ctx) string {
	name, _ := c.Locals("user_name").(string)
	return name
}
