package handlers

import (
	"matcharena/middleware"
	"matcharena/services"

	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	Admin *services.AdminService
}

func SetupAdminRoutes(app *fiber.App, admin *services.AdminService) {
	h := &AdminHandler{Admin: admin}

	// Operator surface lives outside /s so the session middleware never
	// sees it; the Bearer token is the only credential.
	grp := app.Group("/admin", middleware.AdminAuth())
	grp.Get("/dump", h.Dump)
	grp.Post("/clear", h.Clear)
}

func (h *AdminHandler) Dump(c *fiber.Ctx) error {
	dump, err := h.Admin.Dump()
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(dump)
}

func (h *AdminHandler) Clear(c *fiber.Ctx) error {
	all := c.QueryBool("all", false)
	if err := h.Admin.Clear(all); err != nil {
		return respondErr(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
