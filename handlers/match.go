package handlers

import (
	"matcharena/middleware"
	"matcharena/models"
	"matcharena/services"

	"github.com/gofiber/fiber/v2"
)

type MatchHandler struct {
	Matches *services.MatchService
	Play    *services.PlayService
	Views   *services.ViewService
	Feed    *services.FeedService
}

func SetupMatchRoutes(app *fiber.App, h *MatchHandler, users *services.UserService) {
	secured := app.Group("/s", middleware.SessionAuth(users))

	secured.Get("/matches", h.ListMatches)
	secured.Post("/matches", h.CreateMatch)
	secured.Get("/matches/:id", h.GetMatch)
	secured.Post("/matches/:id/join", h.JoinMatch)
	secured.Post("/matches/:id/quit", h.QuitMatch)
	secured.Post("/matches/:id/moves", h.SubmitMove)

	// Short-poll staleness endpoints: bare markers, equality-compared
	// client side.
	secured.Get("/matches/:id/updated", h.MatchUpdated)
	secured.Get("/updated", h.ListsUpdated)
}

// MatchSummary is the list-row projection; the turn ledger never rides
// along here.
type MatchSummary struct {
	ID           string              `json:"id"`
	Capacity     int                 `json:"capacity"`
	Goal         int                 `json:"goal"`
	State        models.MatchState   `json:"state"`
	LastModified int64               `json:"last_modified"`
	Seats        []services.SeatView `json:"seats"`
}

func summarize(ms []models.Match) []MatchSummary {
	res := make([]MatchSummary, len(ms))
	for i, m := range ms {
		seats := make([]services.SeatView, len(m.Seats))
		for j, seat := range m.Seats {
			seats[j] = services.SeatView{UserName: seat.UserName, Score: seat.Score, Active: seat.Active}
		}
		res[i] = MatchSummary{
			ID:           m.ID,
			Capacity:     m.Capacity,
			Goal:         m.Goal,
			State:        m.State,
			LastModified: m.LastModified,
			Seats:        seats,
		}
	}
	return res
}

func (h *MatchHandler) ListMatches(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	mine, err := h.Matches.ActiveMatchesFor(user)
	if err != nil {
		return respondErr(c, err)
	}
	joinable, err := h.Matches.RegisteringMatchesExcluding(user)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(fiber.Map{
		"mine":     summarize(mine),
		"joinable": summarize(joinable),
	})
}

func (h *MatchHandler) CreateMatch(c *fiber.Ctx) error {
	var body struct {
		Capacity int `json:"capacity"`
		Goal     int `json:"goal"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if body.Capacity == 0 {
		body.Capacity = 2
	}
	id, err := h.Matches.CreateMatch(body.Capacity, body.Goal, middleware.CurrentUser(c))
	if err != nil {
		return respondErr(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

func (h *MatchHandler) GetMatch(c *fiber.Ctx) error {
	view, err := h.Views.GetMatch(c.Params("id"), middleware.CurrentUser(c))
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(view)
}

func (h *MatchHandler) JoinMatch(c *fiber.Ctx) error {
	if err := h.Matches.JoinMatch(c.Params("id"), middleware.CurrentUser(c)); err != nil {
		return respondErr(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *MatchHandler) QuitMatch(c *fiber.Ctx) error {
	if err := h.Matches.QuitMatch(c.Params("id"), middleware.CurrentUser(c)); err != nil {
		return respondErr(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *MatchHandler) SubmitMove(c *fiber.Ctx) error {
	var body struct {
		Move string `json:"move"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	err := h.Play.SubmitMove(c.Params("id"), middleware.CurrentUser(c), models.Move(body.Move))
	if err != nil {
		return respondErr(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *MatchHandler) MatchUpdated(c *fiber.Ctx) error {
	marker, err := h.Feed.PollMatchStaleness(c.Params("id"))
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(fiber.Map{"last_modified": marker})
}

func (h *MatchHandler) ListsUpdated(c *fiber.Ctx) error {
	active, registering, err := h.Feed.PollListStaleness(middleware.CurrentUser(c))
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(fiber.Map{"active": active, "registering": registering})
}
