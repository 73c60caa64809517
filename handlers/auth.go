package handlers

import (
	"time"

	"matcharena/services"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	Users *services.UserService
}

func SetupAuthRoutes(app *fiber.App, users *services.UserService) {
	h := &AuthHandler{Users: users}

	app.Post("/register", h.Register)
	app.Post("/login", h.Login)
	app.Post("/logout", h.Logout)
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var body credentials
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	name, err := h.Users.Register(body.Username, body.Password)
	if err != nil {
		return respondErr(c, err)
	}
	if err := h.startSession(c, name); err != nil {
		return respondErr(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"name": name})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var body credentials
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	name, err := h.Users.Authenticate(body.Username, body.Password)
	if err != nil {
		return respondErr(c, err)
	}
	if err := h.startSession(c, name); err != nil {
		return respondErr(c, err)
	}
	return c.JSON(fiber.Map{"name": name})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.Users.EndSession(c.Cookies("session")); err != nil {
		return respondErr(c, err)
	}
	c.Cookie(&fiber.Cookie{
		Name:     "session",
		Value:    "",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
	})
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AuthHandler) startSession(c *fiber.Ctx, name string) error {
	token, err := h.Users.StartSession(name)
	if err != nil {
		return err
	}
	c.Cookie(&fiber.Cookie{
		Name:     "session",
		Value:    token,
		Expires:  time.Now().Add(30 * 24 * time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
	})
	return nil
}
