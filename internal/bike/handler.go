package bike

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/items", h.getBikes)
	// older clients still call the bike-specific path
	app.Get("/api/bikes", h.getBikes)
}

func (h *Handler) getBikes(c *fiber.Ctx) error {
	bikes, err := h.service.List(c.UserContext())
	if err != nil {
		slog.Error("list bikes failed", "error", err, "path", c.Path())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(bikes)
}
